package console

import (
	"context"
	"fmt"

	"github.com/goliatone/go-flood-alerts/pkg/adapters"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/logger"
)

// Adapter writes notifications to the configured logger/stdout. It is the
// simulated delivery gateway: no message ever leaves the process.
type Adapter struct {
	name string
	base adapters.BaseAdapter
	caps adapters.Capability
	opts Options
}

type Option func(*Adapter)

// Options tweak console output.
type Options struct {
	Structured bool // when true, emit a structured log map instead of a formatted string
}

// WithName overrides the adapter provider name (defaults to "console").
func WithName(name string) Option {
	return func(a *Adapter) {
		if name != "" {
			a.name = name
		}
	}
}

// WithStructured enables structured logging mode.
func WithStructured(enabled bool) Option {
	return func(a *Adapter) {
		a.opts.Structured = enabled
	}
}

// New constructs a console adapter covering both notification channels.
func New(l logger.Logger, opts ...Option) *Adapter {
	adapter := &Adapter{
		name: "console",
		caps: adapters.Capability{
			Name:     "console",
			Channels: []string{"sms", "email"},
			Formats:  []string{"text/plain"},
		},
	}
	adapter.base = adapters.NewBaseAdapter(l)
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	return adapter
}

// Name implements adapters.Messenger.
func (a *Adapter) Name() string {
	return a.name
}

// Capabilities implements adapters.Messenger.
func (a *Adapter) Capabilities() adapters.Capability {
	return a.caps
}

// Send logs the rendered message to the configured logger.
func (a *Adapter) Send(ctx context.Context, msg adapters.Message) error {
	if a.opts.Structured {
		a.base.LogSuccess(a.name, msg)
		a.base.Logger().Info("console delivery",
			logger.Field{Key: "channel", Value: msg.Channel},
			logger.Field{Key: "to", Value: msg.To},
			logger.Field{Key: "subject", Value: msg.Subject},
			logger.Field{Key: "body", Value: msg.Body},
			logger.Field{Key: "metadata", Value: msg.Metadata},
		)
		return nil
	}

	a.base.LogSuccess(a.name, msg)
	a.base.Logger().Info(fmt.Sprintf("[console][%s] subject=%s to=%s body=%s", msg.Channel, msg.Subject, msg.To, msg.Body))
	return nil
}
