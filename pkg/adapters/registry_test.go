package adapters

import (
	"context"
	"errors"
	"testing"
)

type stubMessenger struct {
	name     string
	channels []string
	sent     []Message
}

func (s *stubMessenger) Name() string { return s.name }

func (s *stubMessenger) Capabilities() Capability {
	return Capability{Name: s.name, Channels: s.channels}
}

func (s *stubMessenger) Send(ctx context.Context, msg Message) error {
	s.sent = append(s.sent, msg)
	return nil
}

func TestRegistryRoutesByChannel(t *testing.T) {
	sms := &stubMessenger{name: "smsgw", channels: []string{"sms"}}
	email := &stubMessenger{name: "mailgw", channels: []string{"email"}}
	registry := NewRegistry(sms, email)

	got, err := registry.Route("sms")
	if err != nil {
		t.Fatalf("route sms: %v", err)
	}
	if got.Name() != "smsgw" {
		t.Fatalf("expected smsgw, got %s", got.Name())
	}

	got, err = registry.Route("EMAIL")
	if err != nil {
		t.Fatalf("route email: %v", err)
	}
	if got.Name() != "mailgw" {
		t.Fatalf("expected mailgw, got %s", got.Name())
	}
}

func TestRegistryRoutesByProvider(t *testing.T) {
	first := &stubMessenger{name: "first", channels: []string{"sms"}}
	second := &stubMessenger{name: "second", channels: []string{"sms"}}
	registry := NewRegistry(first, second)

	got, err := registry.Route("sms:second")
	if err != nil {
		t.Fatalf("route sms:second: %v", err)
	}
	if got.Name() != "second" {
		t.Fatalf("expected second, got %s", got.Name())
	}

	if _, err := registry.Route("sms:missing"); !errors.Is(err, ErrAdapterNotFound) {
		t.Fatalf("expected ErrAdapterNotFound, got %v", err)
	}
}

func TestRegistryRouteUnknownChannel(t *testing.T) {
	registry := NewRegistry(&stubMessenger{name: "smsgw", channels: []string{"sms"}})
	if _, err := registry.Route("pigeon"); !errors.Is(err, ErrAdapterNotFound) {
		t.Fatalf("expected ErrAdapterNotFound, got %v", err)
	}
}

func TestRegistryList(t *testing.T) {
	first := &stubMessenger{name: "first", channels: []string{"sms"}}
	second := &stubMessenger{name: "second", channels: []string{"sms", "email"}}
	registry := NewRegistry(first, second)

	if got := registry.List("sms"); len(got) != 2 {
		t.Fatalf("expected 2 sms messengers, got %d", len(got))
	}
	if got := registry.List("email"); len(got) != 1 {
		t.Fatalf("expected 1 email messenger, got %d", len(got))
	}
}

func TestParseChannel(t *testing.T) {
	cases := []struct {
		in           string
		wantChannel  string
		wantProvider string
	}{
		{"sms", "sms", ""},
		{"SMS:Console", "sms", "console"},
		{" email ", "email", ""},
		{"email:", "email", ""},
	}
	for _, tc := range cases {
		channel, provider := ParseChannel(tc.in)
		if channel != tc.wantChannel || provider != tc.wantProvider {
			t.Fatalf("parse %q: got (%q, %q), want (%q, %q)", tc.in, channel, provider, tc.wantChannel, tc.wantProvider)
		}
	}
}
