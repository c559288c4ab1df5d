package memory

import (
	"context"
	"sync"

	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	"github.com/google/uuid"
)

type FloodAlertRepository struct {
	base      baseMemoryRepo[domain.FloodAlert]
	barangays *BarangayRepository

	mu    sync.RWMutex
	joins map[uuid.UUID][]uuid.UUID
}

// NewFloodAlertRepository builds the alert repository. The barangay repository
// is used to materialize affected areas in GetWithAreas.
func NewFloodAlertRepository(barangays *BarangayRepository) *FloodAlertRepository {
	return &FloodAlertRepository{
		base:      newBaseMemoryRepo("flood_alert", func(a *domain.FloodAlert) *domain.RecordMeta { return &a.RecordMeta }),
		barangays: barangays,
		joins:     make(map[uuid.UUID][]uuid.UUID),
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

func (r *FloodAlertRepository) GetWithAreas(ctx context.Context, id uuid.UUID) (*domain.FloodAlert, error) {
	alert, err := r.base.getByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	barangayIDs := append([]uuid.UUID(nil), r.joins[id]...)
	r.mu.RUnlock()

	alert.AffectedBarangays = nil
	for _, barangayID := range barangayIDs {
		if r.barangays == nil {
			break
		}
		barangay, err := r.barangays.GetByID(ctx, barangayID)
		if err != nil {
			if err == store.ErrNotFound {
				continue
			}
			return nil, err
		}
		alert.AffectedBarangays = append(alert.AffectedBarangays, barangay)
	}
	return alert, nil
}

func (r *FloodAlertRepository) SetAffectedBarangays(ctx context.Context, alertID uuid.UUID, barangayIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(barangayIDs) == 0 {
		delete(r.joins, alertID)
		return nil
	}
	r.joins[alertID] = append([]uuid.UUID(nil), barangayIDs...)
	return nil
}
