package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-flood-alerts/internal/storage/memory"
	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	"github.com/google/uuid"
)

type stubDispatcher struct {
	calls []uuid.UUID
	count int
	err   error
}

func (s *stubDispatcher) Dispatch(ctx context.Context, alert *domain.FloodAlert) (int, error) {
	s.calls = append(s.calls, alert.ID)
	return s.count, s.err
}

type catalogFixture struct {
	alerts     *memory.FloodAlertRepository
	barangays  *memory.BarangayRepository
	contacts   *memory.EmergencyContactRepository
	profiles   *memory.UserProfileRepository
	dispatcher *stubDispatcher
	catalog    *Catalog
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()

	f := &catalogFixture{
		barangays:  memory.NewBarangayRepository(),
		contacts:   memory.NewEmergencyContactRepository(),
		profiles:   memory.NewUserProfileRepository(),
		dispatcher: &stubDispatcher{count: 3},
	}
	f.alerts = memory.NewFloodAlertRepository(f.barangays)

	catalog, err := NewCatalog(Dependencies{
		Alerts:     f.alerts,
		Contacts:   f.contacts,
		Profiles:   f.profiles,
		Dispatcher: f.dispatcher,
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	f.catalog = catalog
	return f
}

func TestNewCatalogValidatesDependencies(t *testing.T) {
	barangays := memory.NewBarangayRepository()
	deps := Dependencies{
		Alerts:     memory.NewFloodAlertRepository(barangays),
		Contacts:   memory.NewEmergencyContactRepository(),
		Profiles:   memory.NewUserProfileRepository(),
		Dispatcher: &stubDispatcher{},
	}

	cases := []struct {
		name   string
		mutate func(*Dependencies)
	}{
		{"missing alerts", func(d *Dependencies) { d.Alerts = nil }},
		{"missing contacts", func(d *Dependencies) { d.Contacts = nil }},
		{"missing profiles", func(d *Dependencies) { d.Profiles = nil }},
		{"missing dispatcher", func(d *Dependencies) { d.Dispatcher = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			broken := deps
			tc.mutate(&broken)
			if _, err := NewCatalog(broken); err == nil {
				t.Fatal("expected dependency validation error")
			}
		})
	}
}

func TestDispatchAlertCommand(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	alert := &domain.FloodAlert{Title: "River overflow", SeverityLevel: domain.SeverityWarning, Active: true}
	if err := f.alerts.Create(ctx, alert); err != nil {
		t.Fatalf("create alert: %v", err)
	}

	if err := f.catalog.DispatchAlert.Execute(ctx, DispatchAlert{AlertID: alert.ID.String()}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(f.dispatcher.calls) != 1 || f.dispatcher.calls[0] != alert.ID {
		t.Fatalf("expected one dispatch for the alert, got %v", f.dispatcher.calls)
	}
}

func TestDispatchAlertCommandRejectsBadID(t *testing.T) {
	f := newCatalogFixture(t)

	if err := f.catalog.DispatchAlert.Execute(context.Background(), DispatchAlert{AlertID: "not-a-uuid"}); err == nil {
		t.Fatal("expected invalid id error")
	}
	if len(f.dispatcher.calls) != 0 {
		t.Fatalf("expected no dispatch calls, got %d", len(f.dispatcher.calls))
	}
}

func TestDispatchAlertCommandUnknownAlert(t *testing.T) {
	f := newCatalogFixture(t)

	err := f.catalog.DispatchAlert.Execute(context.Background(), DispatchAlert{AlertID: uuid.NewString()})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertContactCreatesAndUpdates(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	barangayID := uuid.New()

	err := f.catalog.UpsertContact.Execute(ctx, UpsertContact{
		Name:       "Rescue Post",
		Phone:      "+639170000001",
		BarangayID: barangayID.String(),
	})
	if err != nil {
		t.Fatalf("create via command: %v", err)
	}

	created, err := f.contacts.ListByBarangays(ctx, []uuid.UUID{barangayID})
	if err != nil {
		t.Fatalf("list contacts: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(created))
	}

	err = f.catalog.UpsertContact.Execute(ctx, UpsertContact{
		ID:         created[0].ID.String(),
		Name:       "Rescue Post Main",
		Phone:      "+639170000009",
		BarangayID: barangayID.String(),
	})
	if err != nil {
		t.Fatalf("update via command: %v", err)
	}

	updated, err := f.contacts.GetByID(ctx, created[0].ID)
	if err != nil {
		t.Fatalf("get contact: %v", err)
	}
	if updated.Name != "Rescue Post Main" || updated.Phone != "+639170000009" {
		t.Fatalf("unexpected contact after update: %+v", updated)
	}
}

func TestUpsertContactValidation(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	if err := f.catalog.UpsertContact.Execute(ctx, UpsertContact{BarangayID: uuid.NewString()}); err == nil {
		t.Fatal("expected missing name error")
	}
	if err := f.catalog.UpsertContact.Execute(ctx, UpsertContact{Name: "Rescue Post"}); err == nil {
		t.Fatal("expected missing barangay error")
	}
}

func TestUpsertProfileCreatesAndUpdates(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	barangayID := uuid.New()

	err := f.catalog.UpsertProfile.Execute(ctx, UpsertProfile{
		Username:     "ana",
		Email:        "ana@example.com",
		BarangayID:   barangayID.String(),
		ReceiveEmail: true,
	})
	if err != nil {
		t.Fatalf("create via command: %v", err)
	}

	created, err := f.profiles.ListByAreas(ctx, []uuid.UUID{barangayID}, nil)
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(created))
	}

	err = f.catalog.UpsertProfile.Execute(ctx, UpsertProfile{
		ID:         created[0].ID.String(),
		Username:   "ana",
		Phone:      "+639170000003",
		BarangayID: barangayID.String(),
		ReceiveSMS: true,
	})
	if err != nil {
		t.Fatalf("update via command: %v", err)
	}

	updated, err := f.profiles.GetByID(ctx, created[0].ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if !updated.ReceiveSMS || updated.ReceiveEmail {
		t.Fatalf("expected opt-ins replaced, got %+v", updated)
	}
}

func TestUpsertProfileRequiresArea(t *testing.T) {
	f := newCatalogFixture(t)

	err := f.catalog.UpsertProfile.Execute(context.Background(), UpsertProfile{Username: "ana"})
	if err == nil {
		t.Fatal("expected missing area error")
	}
}

func TestUpsertProfileRejectsMalformedIDs(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	municipalityID := uuid.New()

	// A typo'd barangay id must error instead of degrading to municipality-only.
	err := f.catalog.UpsertProfile.Execute(ctx, UpsertProfile{
		Username:       "ana",
		BarangayID:     "not-a-uuid",
		MunicipalityID: municipalityID.String(),
	})
	if err == nil {
		t.Fatal("expected malformed barangay id error")
	}

	err = f.catalog.UpsertProfile.Execute(ctx, UpsertProfile{
		Username:       "ana",
		MunicipalityID: "not-a-uuid",
	})
	if err == nil {
		t.Fatal("expected malformed municipality id error")
	}

	err = f.catalog.UpsertProfile.Execute(ctx, UpsertProfile{
		ID:             "not-a-uuid",
		Username:       "ana",
		MunicipalityID: municipalityID.String(),
	})
	if err == nil {
		t.Fatal("expected malformed profile id error")
	}

	if got, err := f.profiles.ListByAreas(ctx, nil, []uuid.UUID{municipalityID}); err != nil || len(got) != 0 {
		t.Fatalf("expected no profiles created, got %d (err %v)", len(got), err)
	}
}

func TestUpsertContactRejectsMalformedID(t *testing.T) {
	f := newCatalogFixture(t)

	err := f.catalog.UpsertContact.Execute(context.Background(), UpsertContact{
		ID:         "not-a-uuid",
		Name:       "Rescue Post",
		BarangayID: uuid.NewString(),
	})
	if err == nil {
		t.Fatal("expected malformed contact id error")
	}
}
