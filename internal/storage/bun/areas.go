package bunrepo

import (
	"context"

	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type MunicipalityRepository struct {
	base baseRepository[domain.Municipality]
}

func NewMunicipalityRepository(db *bun.DB) *MunicipalityRepository {
	handlers := repository.ModelHandlers[*domain.Municipality]{
		NewRecord:          func() *domain.Municipality { return &domain.Municipality{} },
		GetID:              func(m *domain.Municipality) uuid.UUID { return m.ID },
		SetID:              func(m *domain.Municipality, id uuid.UUID) { m.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(m *domain.Municipality) string { return m.ID.String() },
	}
	return &MunicipalityRepository{
		base: newBaseRepository[domain.Municipality](db, handlers, func(m *domain.Municipality) *domain.RecordMeta { return &m.RecordMeta }),
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
	base baseRepository[domain.Barangay]
}

func NewBarangayRepository(db *bun.DB) *BarangayRepository {
	handlers := repository.ModelHandlers[*domain.Barangay]{
		NewRecord:          func() *domain.Barangay { return &domain.Barangay{} },
		GetID:              func(b *domain.Barangay) uuid.UUID { return b.ID },
		SetID:              func(b *domain.Barangay, id uuid.UUID) { b.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(b *domain.Barangay) string { return b.ID.String() },
	}
	return &BarangayRepository{
		base: newBaseRepository[domain.Barangay](db, handlers, func(b *domain.Barangay) *domain.RecordMeta { return &b.RecordMeta }),
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
	return r.base.collect(ctx, withoutDeleted(), func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("municipality_id = ?", municipalityID)
	})
}
