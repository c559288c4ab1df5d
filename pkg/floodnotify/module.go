package floodnotify

import (
	"context"
	"errors"

	"github.com/goliatone/go-flood-alerts/internal/di"
	"github.com/goliatone/go-flood-alerts/pkg/adapters"
	"github.com/goliatone/go-flood-alerts/pkg/commands"
	"github.com/goliatone/go-flood-alerts/pkg/config"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/logger"
	"github.com/goliatone/go-flood-alerts/pkg/storage"
	i18n "github.com/goliatone/go-i18n"
	"github.com/google/uuid"
)

// ModuleOptions configure the flood alert notification module facade.
type ModuleOptions struct {
	Config     config.Config
	Storage    storage.Providers
	Logger     logger.Logger
	Translator i18n.Translator
	Adapters   []adapters.Messenger
}

// Module bundles the container and exposes high-level accessors.
type Module struct {
	container *di.Container
}

// ErrDispatcherDisabled is returned when dispatching with dispatcher.enabled=false.
var ErrDispatcherDisabled = errors.New("floodnotify: dispatcher is disabled")

// NewModule assembles repositories, the message renderer, the dispatcher,
// and the command registry.
func NewModule(opts ModuleOptions) (*Module, error) {
	container, err := di.New(di.Options{
		Config:     opts.Config,
		Storage:    opts.Storage,
		Logger:     opts.Logger,
		Translator: opts.Translator,
		Adapters:   opts.Adapters,
	})
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// DispatchForAlert loads the alert with its affected areas and runs the
// recipient notifier. It returns the count of distinct notified identities.
// Callers typically invoke this from an alert-activation workflow.
func (m *Module) DispatchForAlert(ctx context.Context, alertID uuid.UUID) (int, error) {
	if m == nil || m.container == nil {
		return 0, errors.New("floodnotify: module is not initialized")
	}
	if !m.container.Config.Dispatcher.Enabled {
		return 0, ErrDispatcherDisabled
	}
	alert, err := m.container.Storage.Alerts.GetWithAreas(ctx, alertID)
	if err != nil {
		return 0, err
	}
	return m.container.Dispatcher.Dispatch(ctx, alert)
}

// Storage exposes the repository providers backing the module.
func (m *Module) Storage() storage.Providers {
	if m == nil || m.container == nil {
		return storage.Providers{}
	}
	return m.container.Storage
}

// Commands returns the go-command registry for host transports.
func (m *Module) Commands() *commands.Registry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Commands
}

// Config returns the resolved module configuration.
func (m *Module) Config() config.Config {
	if m == nil || m.container == nil {
		return config.Config{}
	}
	return m.container.Config
}
