package storage

import (
	bunrepo "github.com/goliatone/go-flood-alerts/internal/storage/bun"
	"github.com/goliatone/go-flood-alerts/internal/storage/memory"
	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// Providers exposes all repositories needed by services.
type Providers struct {
	Municipalities store.MunicipalityRepository
	Barangays      store.BarangayRepository
	Alerts         store.FloodAlertRepository
	Contacts       store.EmergencyContactRepository
	Profiles       store.UserProfileRepository
	Logs           store.NotificationLogRepository
	Transaction    store.TransactionManager
}

type Option func(*Providers)

// NewMemoryProviders returns repositories backed by in-memory maps.
func NewMemoryProviders(opts ...Option) Providers {
	barangays := memory.NewBarangayRepository()
	providers := Providers{
		Municipalities: memory.NewMunicipalityRepository(),
		Barangays:      barangays,
		Alerts:         memory.NewFloodAlertRepository(barangays),
		Contacts:       memory.NewEmergencyContactRepository(),
		Profiles:       memory.NewUserProfileRepository(),
		Logs:           memory.NewNotificationLogRepository(),
		Transaction:    &store.NopTransactionManager{},
	}
	for _, opt := range opts {
		opt(&providers)
	}
	return providers
}

// NewBunProviders wires Bun-backed repositories using go-repository-bun.
// The caller is responsible for creating the *bun.DB instance (potentially
// via go-persistence-bun) and managing its lifecycle.
func NewBunProviders(db *bun.DB, opts ...Option) Providers {
	if db == nil {
		panic("storage: bun DB is required")
	}

	// The m2m join must be registered before any query touches the relation.
	db.RegisterModel((*domain.FloodAlertBarangay)(nil))

	// Register models so go-persistence-bun migrations can pick them up.
	persistence.RegisterModel(
		(*domain.Municipality)(nil),
		(*domain.Barangay)(nil),
		(*domain.FloodAlert)(nil),
		(*domain.FloodAlertBarangay)(nil),
		(*domain.EmergencyContact)(nil),
		(*domain.UserProfile)(nil),
		(*domain.NotificationLog)(nil),
	)

	txManager := bunrepo.NewTransactionManager(db)

	providers := Providers{
		Municipalities: bunrepo.NewMunicipalityRepository(db),
		Barangays:      bunrepo.NewBarangayRepository(db),
		Alerts:         bunrepo.NewFloodAlertRepository(db, txManager),
		Contacts:       bunrepo.NewEmergencyContactRepository(db),
		Profiles:       bunrepo.NewUserProfileRepository(db),
		Logs:           bunrepo.NewNotificationLogRepository(db),
		Transaction:    txManager,
	}

	for _, opt := range opts {
		opt(&providers)
	}
	return providers
}
