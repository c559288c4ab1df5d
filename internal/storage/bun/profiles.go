package bunrepo

import (
	"context"

	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UserProfileRepository struct {
	base baseRepository[domain.UserProfile]
}

func NewUserProfileRepository(db *bun.DB) *UserProfileRepository {
	handlers := repository.ModelHandlers[*domain.UserProfile]{
		NewRecord:          func() *domain.UserProfile { return &domain.UserProfile{} },
		GetID:              func(p *domain.UserProfile) uuid.UUID { return p.ID },
		SetID:              func(p *domain.UserProfile, id uuid.UUID) { p.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(p *domain.UserProfile) string { return p.ID.String() },
	}
	return &UserProfileRepository{
		base: newBaseRepository[domain.UserProfile](db, handlers, func(p *domain.UserProfile) *domain.RecordMeta { return &p.RecordMeta }),
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

// ListByAreas matches profiles tied to one of the given barangays, or to one
// of the given municipalities (the parent-level rule).
func (r *UserProfileRepository) ListByAreas(ctx context.Context, barangayIDs, municipalityIDs []uuid.UUID) ([]domain.UserProfile, error) {
	if len(barangayIDs) == 0 && len(municipalityIDs) == 0 {
		return nil, nil
	}
	return r.base.collect(ctx, withoutDeleted(), func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			if len(barangayIDs) > 0 {
				q = q.WhereOr("barangay_id IN (?)", bun.In(barangayIDs))
			}
			if len(municipalityIDs) > 0 {
				q = q.WhereOr("municipality_id IN (?)", bun.In(municipalityIDs))
			}
			return q
		})
	})
}
