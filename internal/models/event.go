package models

import (
	"time"

	"github.com/google/uuid"
)

type EventUserStatus string

const (
	EventUserStatusPending  EventUserStatus = "pending"
	EventUserStatusAccepted EventUserStatus = "accepted"
	EventUserStatusRejected EventUserStatus = "rejected"
)

type EventUserRole string

const (
	EventUserRoleOrganizer   EventUserRole = "organizer"
	EventUserRoleParticipant EventUserRole = "participant"
	EventUserRoleViewer      EventUserRole = "viewer"
)

type Event struct {
	ID        int64      `json:"-"`
	PublicID  uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CreatedBy int64      `json:"created_by"`
	EventDate *time.Time `json:"event_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// EventUser is one invitation/membership record. Exactly one of UserID
// (registered invite) or InviteeEmail (email invite) is live at a time; email
// invites convert in place once the address resolves to a registered user.
type EventUser struct {
	ID             int64           `json:"-"`
	PublicID       uuid.UUID       `json:"id"`
	EventID        int64           `json:"event_id"`
	UserID         *int64          `json:"user_id,omitempty"`
	InviteeEmail   *string         `json:"invitee_email,omitempty"`
	Status         EventUserStatus `json:"status"`
	Role           EventUserRole   `json:"role"`
	InvitationDate time.Time       `json:"invitation_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty"`
}

// IsAccepted is the derived view kept for external consumers that still read
// the legacy boolean. Status is the single source of truth.
func (e *EventUser) IsAccepted() bool {
	return e.Status == EventUserStatusAccepted
}
