package memory

import (
	"context"

	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	"github.com/google/uuid"
)

type EmergencyContactRepository struct {
	base baseMemoryRepo[domain.EmergencyContact]
}

func NewEmergencyContactRepository() *EmergencyContactRepository {
	return &EmergencyContactRepository{
		base: newBaseMemoryRepo("emergency_contact", func(c *domain.EmergencyContact) *domain.RecordMeta { return &c.RecordMeta }),
	}
}

func (r *EmergencyContactRepository) Create(ctx context.Context, contact *domain.EmergencyContact) error {
	return r.base.create(ctx, contact)
}

func (r *EmergencyContactRepository) Update(ctx context.Context, contact *domain.EmergencyContact) error {
	return r.base.update(ctx, contact)
}

func (r *EmergencyContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EmergencyContact, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *EmergencyContactRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.EmergencyContact], error) {
	return r.base.list(ctx, opts)
}

func (r *EmergencyContactRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *EmergencyContactRepository) ListByBarangays(ctx context.Context, barangayIDs []uuid.UUID) ([]domain.EmergencyContact, error) {
	if len(barangayIDs) == 0 {
		return nil, nil
	}
	wanted := idSet(barangayIDs)
	return r.base.filter(func(c *domain.EmergencyContact) bool {
		_, ok := wanted[c.BarangayID]
		return ok
	}), nil
}
