package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-config/cfgx"
)

// Config captures module-level configuration knobs. Feature packages
// (dispatcher, messages, storage) pull from these nested structs.
type Config struct {
	Localization LocalizationConfig `mapstructure:"localization" json:"localization"`
	Dispatcher   DispatcherConfig   `mapstructure:"dispatcher" json:"dispatcher"`
	Messages     MessageConfig      `mapstructure:"messages" json:"messages"`
	Persistence  PersistenceConfig  `mapstructure:"persistence" json:"persistence"`
}

// LocalizationConfig controls the default locale used for rendered messages.
type LocalizationConfig struct {
	DefaultLocale string `mapstructure:"default_locale" json:"default_locale"`
}

// DispatcherConfig toggles the recipient notifier behavior.
type DispatcherConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// MaskRecipients hides most of each address/number in log lines.
	MaskRecipients bool `mapstructure:"mask_recipients" json:"mask_recipients"`
}

// MessageConfig overrides the rendered subject/body templates.
type MessageConfig struct {
	SubjectTemplate string `mapstructure:"subject_template" json:"subject_template"`
	BodyTemplate    string `mapstructure:"body_template" json:"body_template"`
}

// PersistenceConfig selects the backing store for repositories.
type PersistenceConfig struct {
	Driver string `mapstructure:"driver" json:"driver"`
	DSN    string `mapstructure:"dsn" json:"dsn"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Localization: LocalizationConfig{DefaultLocale: "en"},
		Dispatcher: DispatcherConfig{
			Enabled:        true,
			MaskRecipients: true,
		},
		Messages: MessageConfig{},
		Persistence: PersistenceConfig{
			Driver: "sqlite",
			DSN:    "file:flood_alerts.db?cache=shared",
		},
	}
}

// Validate ensures required fields are present and sane.
func (c *Config) Validate() error {
	if c.Localization.DefaultLocale == "" {
		return errors.New("localization.default_locale is required")
	}
	if driver := strings.TrimSpace(c.Persistence.Driver); driver != "" && driver != "sqlite" {
		return fmt.Errorf("persistence.driver %q is not supported", driver)
	}
	return nil
}

// Load decodes arbitrary input (struct, map, cfg struct) using cfgx helpers.
// While cfgx.Build still returns zero values, we fallback to a lightweight
// decoder to keep smoke tests meaningful. Once cfgx is fully implemented we
// can drop the fallback.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		// Seed with defaults before decoding so keys absent from the input
		// keep their default while explicit false values stick.
		cfg = Defaults()
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	if c.Localization.DefaultLocale == "" {
		c.Localization.DefaultLocale = defaults.Localization.DefaultLocale
	}
	if c.Persistence.Driver == "" {
		c.Persistence.Driver = defaults.Persistence.Driver
	}
	if c.Persistence.DSN == "" {
		c.Persistence.DSN = defaults.Persistence.DSN
	}
	// Dispatcher booleans stay as decoded. The fallback decoder starts from
	// Defaults(), so they are true unless the input set them to false.
	return c
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeMap(v, cfg)
	default:
		return fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
