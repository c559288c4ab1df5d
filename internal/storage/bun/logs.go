package bunrepo

import (
	"context"

	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type NotificationLogRepository struct {
	base baseRepository[domain.NotificationLog]
}

func NewNotificationLogRepository(db *bun.DB) *NotificationLogRepository {
	handlers := repository.ModelHandlers[*domain.NotificationLog]{
		NewRecord:          func() *domain.NotificationLog { return &domain.NotificationLog{} },
		GetID:              func(l *domain.NotificationLog) uuid.UUID { return l.ID },
		SetID:              func(l *domain.NotificationLog, id uuid.UUID) { l.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(l *domain.NotificationLog) string { return l.ID.String() },
	}
	return &NotificationLogRepository{
		base: newBaseRepository[domain.NotificationLog](db, handlers, func(l *domain.NotificationLog) *domain.RecordMeta { return &l.RecordMeta }),
	}
}

func (r *NotificationLogRepository) Create(ctx context.Context, log *domain.NotificationLog) error {
	if log.Status == "" {
		log.Status = domain.NotificationStatusSent
	}
	return r.base.create(ctx, log)
}

func (r *NotificationLogRepository) Update(ctx context.Context, log *domain.NotificationLog) error {
	return r.base.update(ctx, log)
}

func (r *NotificationLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.NotificationLog, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *NotificationLogRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.NotificationLog], error) {
	return r.base.list(ctx, opts)
}

func (r *NotificationLogRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *NotificationLogRepository) ListByAlert(ctx context.Context, alertID uuid.UUID) ([]domain.NotificationLog, error) {
	return r.base.collect(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("alert_id = ?", alertID).Order("created_at ASC")
	})
}
