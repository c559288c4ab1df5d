package store

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a record cannot be located.
var ErrNotFound = errors.New("store: not found")

// ListOptions capture pagination and filtering knobs common to repositories.
type ListOptions struct {
	Limit              int
	Offset             int
	Since              time.Time
	Until              time.Time
	IncludeSoftDeleted bool
}

// ListResult bundles records and totals.
type ListResult[T any] struct {
	Items []T
	Total int
}

// Repository defines base CRUD helpers reused by entity-specific interfaces.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, opts ListOptions) (ListResult[T], error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type MunicipalityRepository interface {
	Repository[domain.Municipality]
}

type BarangayRepository interface {
	Repository[domain.Barangay]
	ListByMunicipality(ctx context.Context, municipalityID uuid.UUID) ([]domain.Barangay, error)
}

type FloodAlertRepository interface {
	Repository[domain.FloodAlert]
	// GetWithAreas loads the alert together with its affected barangays.
	GetWithAreas(ctx context.Context, id uuid.UUID) (*domain.FloodAlert, error)
	// SetAffectedBarangays replaces the alert's affected-area set.
	SetAffectedBarangays(ctx context.Context, alertID uuid.UUID, barangayIDs []uuid.UUID) error
}

type EmergencyContactRepository interface {
	Repository[domain.EmergencyContact]
	// ListByBarangays returns every contact whose barangay is in the given set.
	ListByBarangays(ctx context.Context, barangayIDs []uuid.UUID) ([]domain.EmergencyContact, error)
}

type UserProfileRepository interface {
	Repository[domain.UserProfile]
	// ListByAreas returns profiles tied to one of the given barangays, or to
	// one of the given municipalities. The municipality match is the broader,
	// parent-level eligibility rule.
	ListByAreas(ctx context.Context, barangayIDs, municipalityIDs []uuid.UUID) ([]domain.UserProfile, error)
}

type NotificationLogRepository interface {
	Repository[domain.NotificationLog]
	ListByAlert(ctx context.Context, alertID uuid.UUID) ([]domain.NotificationLog, error)
}
