package bunrepo

import (
	"context"

	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type EmergencyContactRepository struct {
	base baseRepository[domain.EmergencyContact]
}

func NewEmergencyContactRepository(db *bun.DB) *EmergencyContactRepository {
	handlers := repository.ModelHandlers[*domain.EmergencyContact]{
		NewRecord:          func() *domain.EmergencyContact { return &domain.EmergencyContact{} },
		GetID:              func(c *domain.EmergencyContact) uuid.UUID { return c.ID },
		SetID:              func(c *domain.EmergencyContact, id uuid.UUID) { c.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(c *domain.EmergencyContact) string { return c.ID.String() },
	}
	return &EmergencyContactRepository{
		base: newBaseRepository[domain.EmergencyContact](db, handlers, func(c *domain.EmergencyContact) *domain.RecordMeta { return &c.RecordMeta }),
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
	return r.base.collect(ctx, withoutDeleted(), withIDIn("barangay_id", barangayIDs))
}
