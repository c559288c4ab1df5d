package bunrepo

import (
	"context"

	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type FloodAlertRepository struct {
	base baseRepository[domain.FloodAlert]
	db   *bun.DB
	tx   store.TransactionManager
}

func NewFloodAlertRepository(db *bun.DB, tx store.TransactionManager) *FloodAlertRepository {
	handlers := repository.ModelHandlers[*domain.FloodAlert]{
		NewRecord:          func() *domain.FloodAlert { return &domain.FloodAlert{} },
		GetID:              func(a *domain.FloodAlert) uuid.UUID { return a.ID },
		SetID:              func(a *domain.FloodAlert, id uuid.UUID) { a.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(a *domain.FloodAlert) string { return a.ID.String() },
	}
	return &FloodAlertRepository{
		base: newBaseRepository[domain.FloodAlert](db, handlers, func(a *domain.FloodAlert) *domain.RecordMeta { return &a.RecordMeta }),
		db:   db,
		tx:   tx,
	}
}

func (r *FloodAlertRepository) Create(ctx context.Context, alert *domain.FloodAlert) error {
	return r.base.create(ctx, alert)
}

func (r *FloodAlertRepository) Update(ctx context.Context, alert *domain.FloodAlert) error {
	return r.base.update(ctx, alert)
}

func (r *FloodAlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FloodAlert, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *FloodAlertRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.FloodAlert], error) {
	return r.base.list(ctx, opts)
}

func (r *FloodAlertRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

// GetWithAreas loads the alert with its affected barangays resolved through
// the flood_alert_barangays join.
func (r *FloodAlertRepository) GetWithAreas(ctx context.Context, id uuid.UUID) (*domain.FloodAlert, error) {
	record, err := r.base.repo.Get(ctx, withID(id), withoutDeleted(), func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Relation("AffectedBarangays")
	})
	if err != nil {
		return nil, mapError(err)
	}
	return record, nil
}

// SetAffectedBarangays replaces the alert's affected-area set. Delete and
// insert run in one transaction so a failed insert keeps the previous set.
func (r *FloodAlertRepository) SetAffectedBarangays(ctx context.Context, alertID uuid.UUID, barangayIDs []uuid.UUID) error {
	return r.runInTx(ctx, func(ctx context.Context) error {
		idb := idbFromContext(ctx, r.db)
		if _, err := idb.NewDelete().
			Model((*domain.FloodAlertBarangay)(nil)).
			Where("alert_id = ?", alertID).
			Exec(ctx); err != nil {
			return err
		}
		if len(barangayIDs) == 0 {
			return nil
		}
		joins := make([]domain.FloodAlertBarangay, 0, len(barangayIDs))
		for _, barangayID := range barangayIDs {
			joins = append(joins, domain.FloodAlertBarangay{AlertID: alertID, BarangayID: barangayID})
		}
		_, err := idb.NewInsert().Model(&joins).Exec(ctx)
		return err
	})
}

func (r *FloodAlertRepository) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.tx == nil {
		return fn(ctx)
	}
	return r.tx.WithinTransaction(ctx, fn)
}
