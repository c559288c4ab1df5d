package memory

import (
	"context"

	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	"github.com/google/uuid"
)

type UserProfileRepository struct {
	base baseMemoryRepo[domain.UserProfile]
}

func NewUserProfileRepository() *UserProfileRepository {
	return &UserProfileRepository{
		base: newBaseMemoryRepo("user_profile", func(p *domain.UserProfile) *domain.RecordMeta { return &p.RecordMeta }),
	}
}

func (r *UserProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	return r.base.create(ctx, profile)
}

func (r *UserProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	return r.base.update(ctx, profile)
}

func (r *UserProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *UserProfileRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.UserProfile], error) {
	return r.base.list(ctx, opts)
}

func (r *UserProfileRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *UserProfileRepository) ListByAreas(ctx context.Context, barangayIDs, municipalityIDs []uuid.UUID) ([]domain.UserProfile, error) {
	if len(barangayIDs) == 0 && len(municipalityIDs) == 0 {
		return nil, nil
	}
	wantedBarangays := idSet(barangayIDs)
	wantedMunicipalities := idSet(municipalityIDs)
	return r.base.filter(func(p *domain.UserProfile) bool {
		if _, ok := wantedBarangays[p.BarangayID]; ok && p.BarangayID != uuid.Nil {
			return true
		}
		_, ok := wantedMunicipalities[p.MunicipalityID]
		return ok && p.MunicipalityID != uuid.Nil
	}), nil
}
