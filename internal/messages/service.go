package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-flood-alerts/pkg/domain"
	i18n "github.com/goliatone/go-i18n"
	gotemplate "github.com/goliatone/go-template"
)

// DefaultBodyTemplate mirrors the wire format of every simulated send.
const DefaultBodyTemplate = "Flood Alert: {{ severity }} - {{ title }}. Description: {{ description }}"

// DefaultSubjectTemplate is used for channels that carry a subject line.
const DefaultSubjectTemplate = "Flood Alert: {{ title }}"

var (
	ErrTranslatorRequired = errors.New("messages: translator is required")
	ErrRendererConfig     = errors.New("messages: renderer configuration failed")
	ErrAlertRequired      = errors.New("messages: alert is required")
)

// Service renders the notification body/subject for a flood alert.
type Service struct {
	renderer      *gotemplate.Engine
	translator    i18n.Translator
	subjectTpl    string
	bodyTpl       string
	defaultLocale string
	localeKey     string
	renderMu      sync.Mutex
}

// RenderResult carries the rendered message parts.
type RenderResult struct {
	Subject string
	Body    string
	Locale  string
}

type serviceOptions struct {
	defaultLocale string
	subjectTpl    string
	bodyTpl       string
	rendererOpts  []gotemplate.Option
	localeKey     string
}

// Option configures the message service.
type Option func(*serviceOptions)

// WithDefaultLocale overrides the locale used when callers do not provide one.
func WithDefaultLocale(locale string) Option {
	return func(so *serviceOptions) {
		so.defaultLocale = locale
	}
}

// WithSubjectTemplate overrides the subject template.
func WithSubjectTemplate(tpl string) Option {
	return func(so *serviceOptions) {
		if strings.TrimSpace(tpl) != "" {
			so.subjectTpl = tpl
		}
	}
}

// WithBodyTemplate overrides the body template.
func WithBodyTemplate(tpl string) Option {
	return func(so *serviceOptions) {
		if strings.TrimSpace(tpl) != "" {
			so.bodyTpl = tpl
		}
	}
}

// WithRendererOptions forwards options directly to go-template's renderer.
func WithRendererOptions(opts ...gotemplate.Option) Option {
	return func(so *serviceOptions) {
		so.rendererOpts = append(so.rendererOpts, opts...)
	}
}

// NewService builds the message service wiring the renderer and the
// localization translator together.
func NewService(translator i18n.Translator, opts ...Option) (*Service, error) {
	if translator == nil {
		return nil, ErrTranslatorRequired
	}

	settings := serviceOptions{
		subjectTpl: DefaultSubjectTemplate,
		bodyTpl:    DefaultBodyTemplate,
		localeKey:  "locale",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	defaultLocale := strings.TrimSpace(settings.defaultLocale)
	if defaultLocale == "" {
		if provider, ok := translator.(interface{ DefaultLocale() string }); ok {
			defaultLocale = provider.DefaultLocale()
		}
	}
	if defaultLocale == "" {
		defaultLocale = "en"
	}

	rendererOpts := []gotemplate.Option{
		gotemplate.WithBaseDir("."),
	}
	rendererOpts = append(rendererOpts, settings.rendererOpts...)

	renderer, err := gotemplate.NewRenderer(rendererOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRendererConfig, err)
	}

	service := &Service{
		renderer:      renderer,
		translator:    translator,
		subjectTpl:    settings.subjectTpl,
		bodyTpl:       settings.bodyTpl,
		defaultLocale: defaultLocale,
		localeKey:     settings.localeKey,
	}

	helperCfg := i18n.HelperConfig{
		LocaleKey:         service.localeKey,
		TemplateHelperKey: "t",
	}
	gotemplate.WithTemplateFunc(i18n.TemplateHelpers(translator, helperCfg))(renderer)

	return service, nil
}

// RenderAlert produces the subject/body pair for one alert. The same body is
// reused for every recipient and channel within a dispatch run.
func (s *Service) RenderAlert(ctx context.Context, alert *domain.FloodAlert, locale string) (RenderResult, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return RenderResult{}, err
		}
	}
	if s == nil {
		return RenderResult{}, ErrRendererConfig
	}
	if alert == nil {
		return RenderResult{}, ErrAlertRequired
	}

	resolvedLocale := strings.TrimSpace(locale)
	if resolvedLocale == "" {
		resolvedLocale = s.defaultLocale
	}

	payload := map[string]any{
		"title":       alert.Title,
		"description": alert.Description,
		"severity":    domain.SeverityLabel(alert.SeverityLevel),
		s.localeKey:   resolvedLocale,
	}

	s.renderMu.Lock()
	subject, err := s.renderer.RenderString(s.subjectTpl, payload)
	if err != nil {
		s.renderMu.Unlock()
		return RenderResult{}, fmt.Errorf("messages: render subject: %w", err)
	}
	body, err := s.renderer.RenderString(s.bodyTpl, payload)
	s.renderMu.Unlock()
	if err != nil {
		return RenderResult{}, fmt.Errorf("messages: render body: %w", err)
	}

	return RenderResult{
		Subject: subject,
		Body:    body,
		Locale:  resolvedLocale,
	}, nil
}
