package dispatcher

import (
	"context"
	"fmt"

	"github.com/goliatone/go-flood-alerts/pkg/domain"
	"github.com/goliatone/go-flood-alerts/pkg/interfaces/store"
	"github.com/google/uuid"
)

// Candidate kinds, used for log lines only.
const (
	kindEmergencyContact = "emergency_contact"
	kindUserProfile      = "user_profile"
)

// candidate is one eligible (recipient, channel) pair emitted by a source.
// Eligibility gating (opt-ins, address present) happens at emission; the
// dispatcher only applies the shared dedup set on top.
type candidate struct {
	Kind    string
	Name    string
	Channel string
	Address string
}

// areaScope carries the affected barangays and their parent municipalities.
type areaScope struct {
	BarangayIDs     []uuid.UUID
	MunicipalityIDs []uuid.UUID
}

// scopeFromAlert derives the area scope from the alert's loaded barangays.
func scopeFromAlert(alert *domain.FloodAlert) areaScope {
	scope := areaScope{}
	seen := make(map[uuid.UUID]struct{})
	for _, barangay := range alert.AffectedBarangays {
		if barangay == nil {
			continue
		}
		scope.BarangayIDs = append(scope.BarangayIDs, barangay.ID)
		if barangay.MunicipalityID == uuid.Nil {
			continue
		}
		if _, ok := seen[barangay.MunicipalityID]; ok {
			continue
		}
		seen[barangay.MunicipalityID] = struct{}{}
		scope.MunicipalityIDs = append(scope.MunicipalityIDs, barangay.MunicipalityID)
	}
	return scope
}

// recipientSource resolves candidates from one directory. The dispatcher
// iterates sources in a fixed order; candidate order within a source follows
// directory order and carries no semantics.
type recipientSource interface {
	Name() string
	Collect(ctx context.Context, scope areaScope) ([]candidate, error)
}

// contactSource matches emergency contacts whose barangay is in the affected
// set. Contacts are always SMS-eligible when a phone number is present.
type contactSource struct {
	contacts store.EmergencyContactRepository
}

func (s contactSource) Name() string { return "contacts" }

func (s contactSource) Collect(ctx context.Context, scope areaScope) ([]candidate, error) {
	contacts, err := s.contacts.ListByBarangays(ctx, scope.BarangayIDs)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: list contacts: %w", err)
	}
	var out []candidate
	for _, contact := range contacts {
		if contact.Phone == "" {
			continue
		}
		out = append(out, candidate{
			Kind:    kindEmergencyContact,
			Name:    contact.Name,
			Channel: domain.ChannelSMS,
			Address: contact.Phone,
		})
	}
	return out, nil
}

// profileSource matches user profiles tied to an affected barangay, or to a
// municipality that is the parent of any affected barangay (the broader
// match). Each profile may emit an email candidate and an SMS candidate
// independently, honoring its per-channel opt-ins.
type profileSource struct {
	profiles store.UserProfileRepository
}

func (s profileSource) Name() string { return "profiles" }

func (s profileSource) Collect(ctx context.Context, scope areaScope) ([]candidate, error) {
	profiles, err := s.profiles.ListByAreas(ctx, scope.BarangayIDs, scope.MunicipalityIDs)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: list profiles: %w", err)
	}
	var out []candidate
	for _, profile := range profiles {
		if profile.ReceiveEmail && profile.Email != "" {
			out = append(out, candidate{
				Kind:    kindUserProfile,
				Name:    profile.Username,
				Channel: domain.ChannelEmail,
				Address: profile.Email,
			})
		}
		if profile.ReceiveSMS && profile.Phone != "" {
			out = append(out, candidate{
				Kind:    kindUserProfile,
				Name:    profile.Username,
				Channel: domain.ChannelSMS,
				Address: profile.Phone,
			})
		}
	}
	return out, nil
}
