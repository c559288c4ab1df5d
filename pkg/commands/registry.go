package commands

import (
	"context"

	command "github.com/goliatone/go-command"
	internalcommands "github.com/goliatone/go-flood-alerts/internal/commands"
	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/logger"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
)

// Re-export request types so consumers need not import internal packages.
type (
	DispatchAlert = internalcommands.DispatchAlert
	UpsertContact = internalcommands.UpsertContact
	UpsertProfile = internalcommands.UpsertProfile
)

// Dispatcher is the recipient notifier contract consumed by the registry.
type Dispatcher interface {
	Dispatch(ctx context.Context, alert *domain.FloodAlert) (int, error)
}

// Registry exposes go-command compatible handlers backed by the module services.
type Registry struct {
	Catalog       *internalcommands.Catalog
	DispatchAlert command.Commander[DispatchAlert]
	UpsertContact command.Commander[UpsertContact]
	UpsertProfile command.Commander[UpsertProfile]
}

// Dependencies mirror the internal command dependencies but keep them public.
type Dependencies struct {
	Alerts     store.FloodAlertRepository
	Contacts   store.EmergencyContactRepository
	Profiles   store.UserProfileRepository
	Dispatcher Dispatcher
	Logger     logger.Logger
}

// New builds the registry using the provided dependencies.
func New(deps Dependencies) (*Registry, error) {
	catalog, err := internalcommands.NewCatalog(internalcommands.Dependencies{
		Alerts:     deps.Alerts,
		Contacts:   deps.Contacts,
		Profiles:   deps.Profiles,
		Dispatcher: deps.Dispatcher,
		Logger:     deps.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Registry{
		Catalog:       catalog,
		DispatchAlert: catalog.DispatchAlert,
		UpsertContact: catalog.UpsertContact,
		UpsertProfile: catalog.UpsertProfile,
	}, nil
}

// Commanders returns every handler so callers can register them with go-command registries.
func (r *Registry) Commanders() []any {
	if r == nil {
		return nil
	}
	return []any{
		r.DispatchAlert,
		r.UpsertContact,
		r.UpsertProfile,
	}
}
