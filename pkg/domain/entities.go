package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordMeta captures identifiers and audit fields shared across entities.
type RecordMeta struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:",soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureID assigns a UUID when the struct is about to be persisted.
func (m *RecordMeta) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// Municipality is the administrative unit one level above a barangay.
type Municipality struct {
	bun.BaseModel `bun:"table:municipalities"`
	RecordMeta

	Name     string `bun:",nullzero,notnull"`
	Province string `bun:",nullzero"`
}

// Barangay is the smallest administrative unit used to scope an alert's
// affected population. MunicipalityID is optional; uuid.Nil means unassigned.
type Barangay struct {
	bun.BaseModel `bun:"table:barangays"`
	RecordMeta

	Name           string    `bun:",nullzero,notnull"`
	MunicipalityID uuid.UUID `bun:",nullzero,type:uuid" json:"municipality_id"`
}

// FloodAlert describes one alert and the barangays it affects.
type FloodAlert struct {
	bun.BaseModel `bun:"table:flood_alerts"`
	RecordMeta

	Title         string `bun:",nullzero,notnull"`
	Description   string `bun:",nullzero"`
	SeverityLevel string `bun:",nullzero,notnull" json:"severity_level"`
	Active        bool   `bun:",nullzero"`

	AffectedBarangays []*Barangay `bun:"m2m:flood_alert_barangays,join:Alert=Barangay" json:"affected_barangays,omitempty"`
}

// FloodAlertBarangay joins alerts to the barangays they affect.
type FloodAlertBarangay struct {
	bun.BaseModel `bun:"table:flood_alert_barangays"`

	AlertID    uuid.UUID   `bun:",pk,type:uuid" json:"alert_id"`
	Alert      *FloodAlert `bun:"rel:belongs-to,join:alert_id=id" json:"-"`
	BarangayID uuid.UUID   `bun:",pk,type:uuid" json:"barangay_id"`
	Barangay   *Barangay   `bun:"rel:belongs-to,join:barangay_id=id" json:"-"`
}

// EmergencyContact is a standing directory entry not tied to a user account.
// It is always eligible for SMS when a phone number is present.
type EmergencyContact struct {
	bun.BaseModel `bun:"table:emergency_contacts"`
	RecordMeta

	Name       string    `bun:",nullzero,notnull"`
	Phone      string    `bun:",nullzero"`
	BarangayID uuid.UUID `bun:",nullzero,notnull,type:uuid" json:"barangay_id"`
}

// UserProfile is an account-linked recipient with independent per-channel
// opt-in flags. A profile may be tied to a barangay, a municipality, or both.
type UserProfile struct {
	bun.BaseModel `bun:"table:user_profiles"`
	RecordMeta

	Username       string    `bun:",nullzero,notnull"`
	Email          string    `bun:",nullzero"`
	Phone          string    `bun:",nullzero"`
	BarangayID     uuid.UUID `bun:",nullzero,type:uuid" json:"barangay_id"`
	MunicipalityID uuid.UUID `bun:",nullzero,type:uuid" json:"municipality_id"`
	ReceiveEmail   bool      `bun:",nullzero" json:"receive_email"`
	ReceiveSMS     bool      `bun:",nullzero" json:"receive_sms"`
}

// NotificationLog records one simulated send. Rows are created by the
// dispatcher and never updated afterwards.
type NotificationLog struct {
	bun.BaseModel `bun:"table:notification_logs"`
	RecordMeta

	AlertID   uuid.UUID `bun:",nullzero,notnull,type:uuid" json:"alert_id"`
	Channel   string    `bun:",nullzero,notnull"`
	Recipient string    `bun:",nullzero,notnull"`
	Status    string    `bun:",nullzero"`
	Body      string    `bun:",nullzero"`
}

// Notification channels.
const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Notification log statuses.
const (
	NotificationStatusSent = "sent"
)

// Severity levels ordered from least to most urgent.
const (
	SeverityAdvisory = "advisory"
	SeverityWatch    = "watch"
	SeverityWarning  = "warning"
	SeveritySevere   = "severe"
)

var severityLabels = map[string]string{
	SeverityAdvisory: "Advisory",
	SeverityWatch:    "Flood Watch",
	SeverityWarning:  "Flood Warning",
	SeveritySevere:   "Severe Flooding",
}

// SeverityLabel returns the human display label for a severity level. Unknown
// levels fall back to the raw value so messages never lose information.
func SeverityLabel(level string) string {
	if label, ok := severityLabels[level]; ok {
		return label
	}
	return level
}
