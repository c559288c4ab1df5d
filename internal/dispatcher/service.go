package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-flood-alerts/internal/messages"
	"github.com/goliatone/go-flood-alerts/pkg/adapters"
	"github.com/goliatone/go-flood-alerts/pkg/config"
	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/logger"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
)

// Dependencies groups the repositories/services required by the dispatcher.
type Dependencies struct {
	Contacts store.EmergencyContactRepository
	Profiles store.UserProfileRepository
	Logs     store.NotificationLogRepository
	Messages *messages.Service
	Registry *adapters.Registry
	Logger   logger.Logger
	Config   config.DispatcherConfig
}

// Service resolves recipients for a flood alert and records one simulated
// send per (recipient, channel) pair that passes eligibility.
type Service struct {
	sources  []recipientSource
	logs     store.NotificationLogRepository
	messages *messages.Service
	registry *adapters.Registry
	logger   logger.Logger
	cfg      config.DispatcherConfig
}

var (
	ErrMissingContacts = errors.New("dispatcher: contact repository is required")
	ErrMissingProfiles = errors.New("dispatcher: profile repository is required")
	ErrMissingLogs     = errors.New("dispatcher: notification log repository is required")
	ErrMissingMessages = errors.New("dispatcher: messages service is required")
)

// New builds the dispatcher service.
func New(deps Dependencies) (*Service, error) {
	if deps.Contacts == nil {
		return nil, ErrMissingContacts
	}

	if deps.Profiles == nil {
		return nil, ErrMissingProfiles
	}

	if deps.Logs == nil {
		return nil, ErrMissingLogs
	}

	if deps.Messages == nil {
		return nil, ErrMissingMessages
	}

	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}

	return &Service{
		// Contacts first, then profiles. With the shared dedup set, source
		// order decides which record wins a contested identity.
		sources: []recipientSource{
			contactSource{contacts: deps.Contacts},
			profileSource{profiles: deps.Profiles},
		},
		logs:     deps.Logs,
		messages: deps.Messages,
		registry: deps.Registry,
		logger:   deps.Logger,
		cfg:      deps.Config,
	}, nil
}

// Dispatch resolves recipients for the alert and appends one NotificationLog
// record per eligible, not-yet-notified (recipient, channel) pair. It returns
// the count of distinct notified identities.
//
// The notified set is local to this call: dispatching the same alert twice
// creates the same records twice. Repository failures propagate immediately;
// records created before the failure stay in place.
func (s *Service) Dispatch(ctx context.Context, alert *domain.FloodAlert) (int, error) {
	if alert == nil {
		return 0, errors.New("dispatcher: alert is required")
	}

	if !alert.Active {
		s.logger.Info("alert is not active, skipping notification dispatch",
			logger.Field{Key: "alert_id", Value: alert.ID},
		)
		return 0, nil
	}

	scope := scopeFromAlert(alert)
	if len(scope.BarangayIDs) == 0 {
		s.logger.Warn("alert has no affected barangays, no notifications sent",
			logger.Field{Key: "alert_id", Value: alert.ID},
		)
		return 0, nil
	}

	rendered, err := s.messages.RenderAlert(ctx, alert, "")
	if err != nil {
		return 0, fmt.Errorf("dispatcher: render alert message: %w", err)
	}

	// One identity set shared across both sources and both channels. Dedup is
	// keyed on the raw address string, deliberately channel-agnostic.
	notified := make(map[string]struct{})

	for _, source := range s.sources {
		candidates, err := source.Collect(ctx, scope)
		if err != nil {
			s.logAborted(alert, len(notified), err)
			return len(notified), err
		}
		for _, cand := range candidates {
			if _, ok := notified[cand.Address]; ok {
				continue
			}
			record := &domain.NotificationLog{
				AlertID:   alert.ID,
				Channel:   cand.Channel,
				Recipient: cand.Address,
				Status:    domain.NotificationStatusSent,
				Body:      rendered.Body,
			}
			if err := s.logs.Create(ctx, record); err != nil {
				err = fmt.Errorf("dispatcher: record %s notification: %w", cand.Channel, err)
				s.logAborted(alert, len(notified), err)
				return len(notified), err
			}
			notified[cand.Address] = struct{}{}

			s.simulateDelivery(ctx, record, cand, rendered)

			s.logger.Info(fmt.Sprintf("simulated %s sent", cand.Channel),
				logger.Field{Key: "alert_id", Value: alert.ID},
				logger.Field{Key: "kind", Value: cand.Kind},
				logger.Field{Key: "name", Value: cand.Name},
				logger.Field{Key: "recipient", Value: s.displayRecipient(cand.Address)},
			)
		}
	}

	s.logger.Info("dispatched notifications for alert",
		logger.Field{Key: "alert_id", Value: alert.ID},
		logger.Field{Key: "unique_recipients", Value: len(notified)},
	)
	return len(notified), nil
}

// logAborted records how far a failed run got. Records created before the
// failure stay in place, so the partial count matters for reconciliation.
func (s *Service) logAborted(alert *domain.FloodAlert, notified int, err error) {
	s.logger.Warn("dispatch aborted before completion",
		logger.Field{Key: "alert_id", Value: alert.ID},
		logger.Field{Key: "unique_recipients", Value: notified},
		logger.Field{Key: "error", Value: err},
	)
}

// simulateDelivery routes the record through the adapter registry so the
// configured messenger (console in practice) can emit its delivery line. The
// NotificationLog row is the send; adapter errors are logged, never raised.
func (s *Service) simulateDelivery(ctx context.Context, record *domain.NotificationLog, cand candidate, rendered messages.RenderResult) {
	if s.registry == nil {
		return
	}
	messenger, err := s.registry.Route(cand.Channel)
	if err != nil {
		return
	}
	msg := adapters.Message{
		ID:      record.ID.String(),
		Channel: cand.Channel,
		Subject: rendered.Subject,
		Body:    rendered.Body,
		To:      cand.Address,
		Metadata: map[string]any{
			"alert_id": record.AlertID.String(),
		},
	}
	if err := messenger.Send(ctx, msg); err != nil {
		s.logger.Warn("simulated delivery failed",
			logger.Field{Key: "adapter", Value: messenger.Name()},
			logger.Field{Key: "channel", Value: cand.Channel},
			logger.Field{Key: "error", Value: err},
		)
	}
}

func (s *Service) displayRecipient(address string) string {
	if !s.cfg.MaskRecipients {
		return address
	}
	return maskRecipient(address)
}
