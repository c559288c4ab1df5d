package memory

import (
	"context"

	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	"github.com/google/uuid"
)

type MunicipalityRepository struct {
	base baseMemoryRepo[domain.Municipality]
}

func NewMunicipalityRepository() *MunicipalityRepository {
	return &MunicipalityRepository{
		base: newBaseMemoryRepo("municipality", func(m *domain.Municipality) *domain.RecordMeta { return &m.RecordMeta }),
	}
}

func (r *MunicipalityRepository) Create(ctx context.Context, municipality *domain.Municipality) error {
	return r.base.create(ctx, municipality)
}

func (r *MunicipalityRepository) Update(ctx context.Context, municipality *domain.Municipality) error {
	return r.base.update(ctx, municipality)
}

func (r *MunicipalityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Municipality, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *MunicipalityRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Municipality], error) {
	return r.base.list(ctx, opts)
}

func (r *MunicipalityRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

type BarangayRepository struct {
	base baseMemoryRepo[domain.Barangay]
}

func NewBarangayRepository() *BarangayRepository {
	return &BarangayRepository{
		base: newBaseMemoryRepo("barangay", func(b *domain.Barangay) *domain.RecordMeta { return &b.RecordMeta }),
	}
}

func (r *BarangayRepository) Create(ctx context.Context, barangay *domain.Barangay) error {
	return r.base.create(ctx, barangay)
}

func (r *BarangayRepository) Update(ctx context.Context, barangay *domain.Barangay) error {
	return r.base.update(ctx, barangay)
}

func (r *BarangayRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Barangay, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *BarangayRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Barangay], error) {
	return r.base.list(ctx, opts)
}

func (r *BarangayRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *BarangayRepository) ListByMunicipality(ctx context.Context, municipalityID uuid.UUID) ([]domain.Barangay, error) {
	return r.base.filter(func(b *domain.Barangay) bool {
		return b.MunicipalityID == municipalityID
	}), nil
}
