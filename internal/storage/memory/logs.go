package memory

import (
	"context"

	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	"github.com/google/uuid"
)

type NotificationLogRepository struct {
	base baseMemoryRepo[domain.NotificationLog]
}

func NewNotificationLogRepository() *NotificationLogRepository {
	return &NotificationLogRepository{
		base: newBaseMemoryRepo("notification_log", func(l *domain.NotificationLog) *domain.RecordMeta { return &l.RecordMeta }),
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
	return r.base.filter(func(l *domain.NotificationLog) bool {
		return l.AlertID == alertID
	}), nil
}
