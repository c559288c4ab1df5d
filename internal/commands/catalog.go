package commands

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/logger"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	"github.com/google/uuid"
)

// Catalog exposes go-command compatible handlers for host transports.
type Catalog struct {
	DispatchAlert command.Commander[DispatchAlert]
	UpsertContact command.Commander[UpsertContact]
	UpsertProfile command.Commander[UpsertProfile]
}

type dispatcherService interface {
	Dispatch(ctx context.Context, alert *domain.FloodAlert) (int, error)
}

// Dependencies wires repositories and services into the command catalog.
type Dependencies struct {
	Alerts     store.FloodAlertRepository
	Contacts   store.EmergencyContactRepository
	Profiles   store.UserProfileRepository
	Dispatcher dispatcherService
	Logger     logger.Logger
}

// NewCatalog builds the command catalog using the supplied dependencies.
func NewCatalog(deps Dependencies) (*Catalog, error) {
	if deps.Alerts == nil {
		return nil, errors.New("commands: alert repository is required")
	}
	if deps.Contacts == nil {
		return nil, errors.New("commands: contact repository is required")
	}
	if deps.Profiles == nil {
		return nil, errors.New("commands: profile repository is required")
	}
	if deps.Dispatcher == nil {
		return nil, errors.New("commands: dispatcher is required")
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}

	return &Catalog{
		DispatchAlert: dispatchAlertCommand{alerts: deps.Alerts, dispatcher: deps.Dispatcher, logger: deps.Logger},
		UpsertContact: contactUpsertCommand{repo: deps.Contacts},
		UpsertProfile: profileUpsertCommand{repo: deps.Profiles},
	}, nil
}

// parseOptionalID treats an empty value as absent and rejects malformed ids,
// so a typo never silently downgrades to "no id given".
func parseOptionalID(value string) (uuid.UUID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(value)
}

// DispatchAlert triggers the recipient notifier for one alert.
type DispatchAlert struct {
	AlertID string `json:"alert_id"`
}

type dispatchAlertCommand struct {
	alerts     store.FloodAlertRepository
	dispatcher dispatcherService
	logger     logger.Logger
}

func (c dispatchAlertCommand) Execute(ctx context.Context, msg DispatchAlert) error {
	alertID, err := uuid.Parse(strings.TrimSpace(msg.AlertID))
	if err != nil {
		return errors.New("commands: a valid alert id is required")
	}
	alert, err := c.alerts.GetWithAreas(ctx, alertID)
	if err != nil {
		return err
	}
	count, err := c.dispatcher.Dispatch(ctx, alert)
	if err != nil {
		return err
	}
	c.logger.Info("dispatch command completed",
		logger.Field{Key: "alert_id", Value: alertID},
		logger.Field{Key: "unique_recipients", Value: count},
	)
	return nil
}

// UpsertContact creates or updates an emergency contact directory entry.
type UpsertContact struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	BarangayID string `json:"barangay_id"`
}

type contactUpsertCommand struct {
	repo store.EmergencyContactRepository
}

func (c contactUpsertCommand) Execute(ctx context.Context, msg UpsertContact) error {
	if strings.TrimSpace(msg.Name) == "" {
		return errors.New("commands: contact name is required")
	}
	id, err := parseOptionalID(msg.ID)
	if err != nil {
		return errors.New("commands: contact id is malformed")
	}
	barangayID, err := uuid.Parse(strings.TrimSpace(msg.BarangayID))
	if err != nil {
		return errors.New("commands: a valid barangay id is required")
	}

	if id != uuid.Nil {
		existing, err := c.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		existing.Name = msg.Name
		existing.Phone = msg.Phone
		existing.BarangayID = barangayID
		return c.repo.Update(ctx, existing)
	}

	return c.repo.Create(ctx, &domain.EmergencyContact{
		Name:       msg.Name,
		Phone:      msg.Phone,
		BarangayID: barangayID,
	})
}

// UpsertProfile creates or updates a user profile directory entry.
type UpsertProfile struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	BarangayID     string `json:"barangay_id"`
	MunicipalityID string `json:"municipality_id"`
	ReceiveEmail   bool   `json:"receive_email"`
	ReceiveSMS     bool   `json:"receive_sms"`
}

type profileUpsertCommand struct {
	repo store.UserProfileRepository
}

func (c profileUpsertCommand) Execute(ctx context.Context, msg UpsertProfile) error {
	if strings.TrimSpace(msg.Username) == "" {
		return errors.New("commands: profile username is required")
	}
	id, err := parseOptionalID(msg.ID)
	if err != nil {
		return errors.New("commands: profile id is malformed")
	}
	barangayID, err := parseOptionalID(msg.BarangayID)
	if err != nil {
		return errors.New("commands: barangay id is malformed")
	}
	municipalityID, err := parseOptionalID(msg.MunicipalityID)
	if err != nil {
		return errors.New("commands: municipality id is malformed")
	}
	if barangayID == uuid.Nil && municipalityID == uuid.Nil {
		return errors.New("commands: profile needs a barangay or municipality")
	}

	if id != uuid.Nil {
		existing, err := c.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		existing.Username = msg.Username
		existing.Email = msg.Email
		existing.Phone = msg.Phone
		existing.BarangayID = barangayID
		existing.MunicipalityID = municipalityID
		existing.ReceiveEmail = msg.ReceiveEmail
		existing.ReceiveSMS = msg.ReceiveSMS
		return c.repo.Update(ctx, existing)
	}

	return c.repo.Create(ctx, &domain.UserProfile{
		Username:       msg.Username,
		Email:          msg.Email,
		Phone:          msg.Phone,
		BarangayID:     barangayID,
		MunicipalityID: municipalityID,
		ReceiveEmail:   msg.ReceiveEmail,
		ReceiveSMS:     msg.ReceiveSMS,
	})
}
