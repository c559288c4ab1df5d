package di

import (
	"reflect"

	"github.com/goliatone/go-flood-alerts/internal/dispatcher"
	"github.com/goliatone/go-flood-alerts/internal/messages"
	"github.com/goliatone/go-flood-alerts/pkg/adapters"
	"github.com/goliatone/go-flood-alerts/pkg/adapters/console"
	"github.com/goliatone/go-flood-alerts/pkg/commands"
	"github.com/goliatone/go-flood-alerts/pkg/config"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/logger"
	"github.com/goliatone/go-flood-alerts/pkg/storage"
	i18n "github.com/goliatone/go-i18n"
)

// Options configure the DI container.
type Options struct {
	Config     config.Config
	Storage    storage.Providers
	Logger     logger.Logger
	Translator i18n.Translator
	Adapters   []adapters.Messenger
}

// Container wires repositories, the message renderer, the dispatcher, and
// the command registry.
type Container struct {
	Config     config.Config
	Storage    storage.Providers
	Messages   *messages.Service
	Dispatcher *dispatcher.Service
	Commands   *commands.Registry
	Adapters   *adapters.Registry
}

func isZeroConfig(cfg config.Config) bool {
	return reflect.ValueOf(cfg).IsZero()
}

// New constructs the container using the supplied options.
func New(opts Options) (*Container, error) {
	cfg := opts.Config
	if isZeroConfig(cfg) {
		cfg = config.Defaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	providers := opts.Storage
	if providers.Alerts == nil {
		providers = storage.NewMemoryProviders()
	}

	lgr := opts.Logger
	if lgr == nil {
		lgr = &logger.Nop{}
	}

	translator := opts.Translator
	if translator == nil {
		var err error
		translator, err = defaultTranslator(cfg.Localization.DefaultLocale)
		if err != nil {
			return nil, err
		}
	}

	messageOpts := []messages.Option{
		messages.WithDefaultLocale(cfg.Localization.DefaultLocale),
	}
	if cfg.Messages.SubjectTemplate != "" {
		messageOpts = append(messageOpts, messages.WithSubjectTemplate(cfg.Messages.SubjectTemplate))
	}
	if cfg.Messages.BodyTemplate != "" {
		messageOpts = append(messageOpts, messages.WithBodyTemplate(cfg.Messages.BodyTemplate))
	}
	messageService, err := messages.NewService(translator, messageOpts...)
	if err != nil {
		return nil, err
	}

	messengers := opts.Adapters
	if len(messengers) == 0 {
		messengers = []adapters.Messenger{console.New(lgr)}
	}
	registry := adapters.NewRegistry(messengers...)

	dispatcherService, err := dispatcher.New(dispatcher.Dependencies{
		Contacts: providers.Contacts,
		Profiles: providers.Profiles,
		Logs:     providers.Logs,
		Messages: messageService,
		Registry: registry,
		Logger:   lgr,
		Config:   cfg.Dispatcher,
	})
	if err != nil {
		return nil, err
	}

	commandRegistry, err := commands.New(commands.Dependencies{
		Alerts:     providers.Alerts,
		Contacts:   providers.Contacts,
		Profiles:   providers.Profiles,
		Dispatcher: dispatcherService,
		Logger:     lgr,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:     cfg,
		Storage:    providers,
		Messages:   messageService,
		Dispatcher: dispatcherService,
		Commands:   commandRegistry,
		Adapters:   registry,
	}, nil
}

// defaultTranslator builds an empty static translator so hosts without
// localization needs can skip wiring go-i18n themselves.
func defaultTranslator(locale string) (i18n.Translator, error) {
	if locale == "" {
		locale = "en"
	}
	translations := i18n.Translations{
		locale: &i18n.TranslationCatalog{
			Locale:   i18n.Locale{Code: locale},
			Messages: map[string]i18n.Message{},
		},
	}
	store := i18n.NewStaticStore(translations)
	return i18n.NewSimpleTranslator(store, i18n.WithTranslatorDefaultLocale(locale))
}
