package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/goliatone/go-flood-alerts/internal/messages"
	"github.com/goliatone/go-flood-alerts/internal/storage/memory"
	"github.com/goliatone/go-flood-alerts/pkg/adapters"
	"github.com/goliatone/go-flood-alerts/pkg/config"
	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/logger"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	i18n "github.com/goliatone/go-i18n"
	"github.com/google/uuid"
)

func newTestTranslator(t *testing.T) i18n.Translator {
	t.Helper()
	translations := i18n.Translations{
		"en": &i18n.TranslationCatalog{
			Locale:   i18n.Locale{Code: "en"},
			Messages: map[string]i18n.Message{},
		},
	}
	staticStore := i18n.NewStaticStore(translations)
	translator, err := i18n.NewSimpleTranslator(staticStore, i18n.WithTranslatorDefaultLocale("en"))
	if err != nil {
		t.Fatalf("build translator: %v", err)
	}
	return translator
}

func newTestMessages(t *testing.T) *messages.Service {
	t.Helper()
	service, err := messages.NewService(newTestTranslator(t))
	if err != nil {
		t.Fatalf("build message service: %v", err)
	}
	return service
}

// captureAdapter records every routed message so tests can assert on the
// simulated delivery path.
type captureAdapter struct {
	mu       sync.Mutex
	sent     []adapters.Message
	sendErr  error
	channels []string
}

func (a *captureAdapter) Name() string { return "capture" }

func (a *captureAdapter) Capabilities() adapters.Capability {
	channels := a.channels
	if len(channels) == 0 {
		channels = []string{domain.ChannelSMS, domain.ChannelEmail}
	}
	return adapters.Capability{Name: "capture", Channels: channels}
}

func (a *captureAdapter) Send(ctx context.Context, msg adapters.Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sendErr != nil {
		return a.sendErr
	}
	a.sent = append(a.sent, msg)
	return nil
}

func (a *captureAdapter) messages() []adapters.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]adapters.Message, len(a.sent))
	copy(out, a.sent)
	return out
}

type fixture struct {
	contacts *memory.EmergencyContactRepository
	profiles *memory.UserProfileRepository
	logs     *memory.NotificationLogRepository
	adapter  *captureAdapter
	service  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		contacts: memory.NewEmergencyContactRepository(),
		profiles: memory.NewUserProfileRepository(),
		logs:     memory.NewNotificationLogRepository(),
		adapter:  &captureAdapter{},
	}

	service, err := New(Dependencies{
		Contacts: f.contacts,
		Profiles: f.profiles,
		Logs:     f.logs,
		Messages: newTestMessages(t),
		Registry: adapters.NewRegistry(f.adapter),
		Config:   config.DispatcherConfig{Enabled: true, MaskRecipients: true},
	})
	if err != nil {
		t.Fatalf("build dispatcher: %v", err)
	}
	f.service = service
	return f
}

func newAlert(active bool, barangays ...*domain.Barangay) *domain.FloodAlert {
	alert := &domain.FloodAlert{
		Title:         "River overflow",
		Description:   "Water level rising fast.",
		SeverityLevel: domain.SeverityWarning,
		Active:        active,
	}
	alert.ID = uuid.New()
	alert.AffectedBarangays = barangays
	return alert
}

func newBarangay(municipalityID uuid.UUID) *domain.Barangay {
	barangay := &domain.Barangay{Name: "Test Barangay", MunicipalityID: municipalityID}
	barangay.ID = uuid.New()
	return barangay
}

func mustCreateContact(t *testing.T, f *fixture, name, phone string, barangayID uuid.UUID) {
	t.Helper()
	err := f.contacts.Create(context.Background(), &domain.EmergencyContact{
		Name:       name,
		Phone:      phone,
		BarangayID: barangayID,
	})
	if err != nil {
		t.Fatalf("create contact %s: %v", name, err)
	}
}

func mustCreateProfile(t *testing.T, f *fixture, profile *domain.UserProfile) {
	t.Helper()
	if err := f.profiles.Create(context.Background(), profile); err != nil {
		t.Fatalf("create profile %s: %v", profile.Username, err)
	}
}

func logsForAlert(t *testing.T, f *fixture, alertID uuid.UUID) []domain.NotificationLog {
	t.Helper()
	logs, err := f.logs.ListByAlert(context.Background(), alertID)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	return logs
}

func TestDispatchSkipsInactiveAlert(t *testing.T) {
	f := newFixture(t)
	barangay := newBarangay(uuid.Nil)
	mustCreateContact(t, f, "Rescue Post", "+639170000001", barangay.ID)

	alert := newAlert(false, barangay)
	count, err := f.service.Dispatch(context.Background(), alert)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 recipients for inactive alert, got %d", count)
	}
	if logs := logsForAlert(t, f, alert.ID); len(logs) != 0 {
		t.Fatalf("expected no log records, got %d", len(logs))
	}
}

func TestDispatchSkipsAlertWithoutAreas(t *testing.T) {
	f := newFixture(t)
	alert := newAlert(true)

	count, err := f.service.Dispatch(context.Background(), alert)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 recipients without affected areas, got %d", count)
	}
	if logs := logsForAlert(t, f, alert.ID); len(logs) != 0 {
		t.Fatalf("expected no log records, got %d", len(logs))
	}
}

func TestDispatchNotifiesContactsAndProfiles(t *testing.T) {
	f := newFixture(t)
	barangay := newBarangay(uuid.Nil)

	mustCreateContact(t, f, "Rescue Post", "+639170000001", barangay.ID)
	mustCreateProfile(t, f, &domain.UserProfile{
		Username:     "ana",
		Email:        "ana@example.com",
		BarangayID:   barangay.ID,
		ReceiveEmail: true,
	})

	alert := newAlert(true, barangay)
	count, err := f.service.Dispatch(context.Background(), alert)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unique recipients, got %d", count)
	}

	logs := logsForAlert(t, f, alert.ID)
	if len(logs) != 2 {
		t.Fatalf("expected 2 log records, got %d", len(logs))
	}
	for _, record := range logs {
		if record.Status != domain.NotificationStatusSent {
			t.Fatalf("expected status %q, got %q", domain.NotificationStatusSent, record.Status)
		}
		if record.Body == "" {
			t.Fatal("expected rendered body on log record")
		}
	}

	sent := f.adapter.messages()
	if len(sent) != 2 {
		t.Fatalf("expected 2 simulated deliveries, got %d", len(sent))
	}
}

func TestDispatchRendersDefaultBody(t *testing.T) {
	f := newFixture(t)
	barangay := newBarangay(uuid.Nil)
	mustCreateContact(t, f, "Rescue Post", "+639170000001", barangay.ID)

	alert := newAlert(true, barangay)
	if _, err := f.service.Dispatch(context.Background(), alert); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	logs := logsForAlert(t, f, alert.ID)
	if len(logs) != 1 {
		t.Fatalf("expected 1 log record, got %d", len(logs))
	}
	want := "Flood Alert: Flood Warning - River overflow. Description: Water level rising fast."
	if logs[0].Body != want {
		t.Fatalf("body mismatch:\n got: %q\nwant: %q", logs[0].Body, want)
	}
}

func TestDispatchDedupesSharedIdentityAcrossSources(t *testing.T) {
	f := newFixture(t)
	barangay := newBarangay(uuid.Nil)
	shared := "+639170000009"

	mustCreateContact(t, f, "Rescue Post", shared, barangay.ID)
	mustCreateProfile(t, f, &domain.UserProfile{
		Username:   "ana",
		Phone:      shared,
		BarangayID: barangay.ID,
		ReceiveSMS: true,
	})

	alert := newAlert(true, barangay)
	count, err := f.service.Dispatch(context.Background(), alert)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 unique recipient for shared phone, got %d", count)
	}

	logs := logsForAlert(t, f, alert.ID)
	if len(logs) != 1 {
		t.Fatalf("expected 1 log record, got %d", len(logs))
	}
	if logs[0].Recipient != shared {
		t.Fatalf("expected recipient %q, got %q", shared, logs[0].Recipient)
	}
}

func TestDispatchProfileChannelsAreIndependent(t *testing.T) {
	f := newFixture(t)
	barangay := newBarangay(uuid.Nil)

	mustCreateProfile(t, f, &domain.UserProfile{
		Username:     "ana",
		Email:        "ana@example.com",
		Phone:        "+639170000003",
		BarangayID:   barangay.ID,
		ReceiveEmail: true,
		ReceiveSMS:   true,
	})

	alert := newAlert(true, barangay)
	count, err := f.service.Dispatch(context.Background(), alert)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	// Email and phone are distinct identities, so one person counts twice.
	if count != 2 {
		t.Fatalf("expected 2 notified identities for a dual-channel profile, got %d", count)
	}

	channels := map[string]int{}
	for _, record := range logsForAlert(t, f, alert.ID) {
		channels[record.Channel]++
	}
	if channels[domain.ChannelEmail] != 1 || channels[domain.ChannelSMS] != 1 {
		t.Fatalf("expected one email and one sms record, got %v", channels)
	}
}

func TestDispatchHonorsOptOutsAndMissingAddresses(t *testing.T) {
	f := newFixture(t)
	barangay := newBarangay(uuid.Nil)

	// No phone number on file, never SMS-eligible.
	mustCreateContact(t, f, "Silent Post", "", barangay.ID)
	// Opted out of email, no phone at all.
	mustCreateProfile(t, f, &domain.UserProfile{
		Username:   "ben",
		Email:      "ben@example.com",
		BarangayID: barangay.ID,
	})
	// Has a phone but only wants email.
	mustCreateProfile(t, f, &domain.UserProfile{
		Username:     "carla",
		Email:        "carla@example.com",
		Phone:        "+639170000004",
		BarangayID:   barangay.ID,
		ReceiveEmail: true,
	})

	alert := newAlert(true, barangay)
	count, err := f.service.Dispatch(context.Background(), alert)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected only carla's email, got %d recipients", count)
	}
	logs := logsForAlert(t, f, alert.ID)
	if len(logs) != 1 || logs[0].Recipient != "carla@example.com" {
		t.Fatalf("unexpected log records: %+v", logs)
	}
}

func TestDispatchMatchesProfilesByParentMunicipality(t *testing.T) {
	f := newFixture(t)
	municipalityID := uuid.New()
	barangay := newBarangay(municipalityID)

	mustCreateProfile(t, f, &domain.UserProfile{
		Username:       "ben",
		Email:          "ben@example.com",
		MunicipalityID: municipalityID,
		ReceiveEmail:   true,
	})

	alert := newAlert(true, barangay)
	count, err := f.service.Dispatch(context.Background(), alert)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected municipality-level profile to match, got %d", count)
	}
}

func TestDispatchIgnoresRecipientsOutsideScope(t *testing.T) {
	f := newFixture(t)
	affected := newBarangay(uuid.Nil)
	other := newBarangay(uuid.Nil)

	mustCreateContact(t, f, "Other Post", "+639170000005", other.ID)
	mustCreateProfile(t, f, &domain.UserProfile{
		Username:     "dina",
		Email:        "dina@example.com",
		BarangayID:   other.ID,
		ReceiveEmail: true,
	})

	alert := newAlert(true, affected)
	count, err := f.service.Dispatch(context.Background(), alert)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no matches outside the affected areas, got %d", count)
	}
}

func TestDispatchTwiceCreatesDuplicateRecords(t *testing.T) {
	f := newFixture(t)
	barangay := newBarangay(uuid.Nil)
	mustCreateContact(t, f, "Rescue Post", "+639170000001", barangay.ID)

	alert := newAlert(true, barangay)
	for i := 0; i < 2; i++ {
		count, err := f.service.Dispatch(context.Background(), alert)
		if err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
		if count != 1 {
			t.Fatalf("dispatch %d: expected 1 recipient, got %d", i, count)
		}
	}

	// The notified set is per call, so the second run logs the same send again.
	if logs := logsForAlert(t, f, alert.ID); len(logs) != 2 {
		t.Fatalf("expected 2 log records after double dispatch, got %d", len(logs))
	}
}

func TestDispatchAdapterFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.adapter.sendErr = errors.New("gateway offline")
	barangay := newBarangay(uuid.Nil)
	mustCreateContact(t, f, "Rescue Post", "+639170000001", barangay.ID)

	alert := newAlert(true, barangay)
	count, err := f.service.Dispatch(context.Background(), alert)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 recipient despite adapter failure, got %d", count)
	}
	if logs := logsForAlert(t, f, alert.ID); len(logs) != 1 {
		t.Fatalf("expected the log record regardless of delivery, got %d", len(logs))
	}
}

// failingLogs fails every Create so tests can observe error propagation.
type failingLogs struct {
	store.NotificationLogRepository
	err error
}

func (f failingLogs) Create(ctx context.Context, record *domain.NotificationLog) error {
	return f.err
}

// flakyLogs succeeds for the first failAfter creates, then fails.
type flakyLogs struct {
	store.NotificationLogRepository
	failAfter int
	creates   int
	err       error
}

func (f *flakyLogs) Create(ctx context.Context, record *domain.NotificationLog) error {
	if f.creates >= f.failAfter {
		return f.err
	}
	f.creates++
	return f.NotificationLogRepository.Create(ctx, record)
}

// warnRecorder captures Warn fields so tests can inspect abort diagnostics.
type warnRecorder struct {
	logger.Nop
	warns [][]logger.Field
}

func (l *warnRecorder) Warn(msg string, fields ...logger.Field) {
	l.warns = append(l.warns, fields)
}

func TestDispatchPropagatesLogCreateFailure(t *testing.T) {
	contacts := memory.NewEmergencyContactRepository()
	profiles := memory.NewUserProfileRepository()
	logs := failingLogs{
		NotificationLogRepository: memory.NewNotificationLogRepository(),
		err:                       errors.New("disk full"),
	}

	service, err := New(Dependencies{
		Contacts: contacts,
		Profiles: profiles,
		Logs:     logs,
		Messages: newTestMessages(t),
		Config:   config.DispatcherConfig{Enabled: true},
	})
	if err != nil {
		t.Fatalf("build dispatcher: %v", err)
	}

	barangay := newBarangay(uuid.Nil)
	if err := contacts.Create(context.Background(), &domain.EmergencyContact{
		Name:       "Rescue Post",
		Phone:      "+639170000001",
		BarangayID: barangay.ID,
	}); err != nil {
		t.Fatalf("create contact: %v", err)
	}

	count, err := service.Dispatch(context.Background(), newAlert(true, barangay))
	if err == nil {
		t.Fatal("expected create failure to propagate")
	}
	if count != 0 {
		t.Fatalf("expected 0 confirmed recipients on first failure, got %d", count)
	}
}

func TestDispatchLogsPartialCountOnFailure(t *testing.T) {
	contacts := memory.NewEmergencyContactRepository()
	profiles := memory.NewUserProfileRepository()
	logs := &flakyLogs{
		NotificationLogRepository: memory.NewNotificationLogRepository(),
		failAfter:                 1,
		err:                       errors.New("disk full"),
	}
	recorder := &warnRecorder{}

	service, err := New(Dependencies{
		Contacts: contacts,
		Profiles: profiles,
		Logs:     logs,
		Messages: newTestMessages(t),
		Logger:   recorder,
		Config:   config.DispatcherConfig{Enabled: true},
	})
	if err != nil {
		t.Fatalf("build dispatcher: %v", err)
	}

	barangay := newBarangay(uuid.Nil)
	for i, phone := range []string{"+639170000001", "+639170000002"} {
		if err := contacts.Create(context.Background(), &domain.EmergencyContact{
			Name:       fmt.Sprintf("Post %d", i),
			Phone:      phone,
			BarangayID: barangay.ID,
		}); err != nil {
			t.Fatalf("create contact %d: %v", i, err)
		}
	}

	count, err := service.Dispatch(context.Background(), newAlert(true, barangay))
	if err == nil {
		t.Fatal("expected second create to fail")
	}
	if count != 1 {
		t.Fatalf("expected 1 confirmed recipient before the failure, got %d", count)
	}

	if len(recorder.warns) == 0 {
		t.Fatal("expected an abort warning with the partial count")
	}
	var sawPartial bool
	for _, fields := range recorder.warns {
		for _, field := range fields {
			if field.Key == "unique_recipients" && field.Value == 1 {
				sawPartial = true
			}
		}
	}
	if !sawPartial {
		t.Fatalf("expected abort warning to carry unique_recipients=1, got %+v", recorder.warns)
	}
}

func TestDispatchRequiresAlert(t *testing.T) {
	f := newFixture(t)
	if _, err := f.service.Dispatch(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil alert")
	}
}

func TestNewValidatesDependencies(t *testing.T) {
	msgs := newTestMessages(t)
	contacts := memory.NewEmergencyContactRepository()
	profiles := memory.NewUserProfileRepository()
	logs := memory.NewNotificationLogRepository()

	cases := []struct {
		name string
		deps Dependencies
		want error
	}{
		{"missing contacts", Dependencies{Profiles: profiles, Logs: logs, Messages: msgs}, ErrMissingContacts},
		{"missing profiles", Dependencies{Contacts: contacts, Logs: logs, Messages: msgs}, ErrMissingProfiles},
		{"missing logs", Dependencies{Contacts: contacts, Profiles: profiles, Messages: msgs}, ErrMissingLogs},
		{"missing messages", Dependencies{Contacts: contacts, Profiles: profiles, Logs: logs}, ErrMissingMessages},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.deps); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestScopeFromAlertDedupesMunicipalities(t *testing.T) {
	municipalityID := uuid.New()
	first := newBarangay(municipalityID)
	second := newBarangay(municipalityID)
	third := newBarangay(uuid.Nil)

	scope := scopeFromAlert(newAlert(true, first, second, third, nil))
	if len(scope.BarangayIDs) != 3 {
		t.Fatalf("expected 3 barangays, got %d", len(scope.BarangayIDs))
	}
	if len(scope.MunicipalityIDs) != 1 {
		t.Fatalf("expected 1 deduped municipality, got %d", len(scope.MunicipalityIDs))
	}
}

func TestMaskRecipient(t *testing.T) {
	if got := maskRecipient(""); got != "" {
		t.Fatalf("expected empty mask for empty input, got %q", got)
	}
	for _, value := range []string{"+639170000001", "ana@example.com"} {
		masked := maskRecipient(value)
		if masked == "" {
			t.Fatalf("mask %q: expected output", value)
		}
		if masked == value {
			t.Fatalf("mask %q: value not masked", value)
		}
	}
}
