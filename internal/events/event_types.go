package events

import (
	"time"

	"github.com/theetaz/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordChanged        EventType = "password_changed"
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
)

// Event represents a domain event emitted by services. Subject carries the
// email of the account the event concerns.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PasswordResetRequestedPayload payload. Link is the reset fragment issued
// for out-of-band email delivery; it never appears in API responses for
// accounts that do not exist, only in this internal event.
type PasswordResetRequestedPayload struct {
	Link string `json:"link"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	ComplaintID string `json:"complaint_id"`
	Category    string `json:"category"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	ComplaintID string                 `json:"complaint_id"`
	OldStatus   domain.ComplaintStatus `json:"old_status"`
	NewStatus   domain.ComplaintStatus `json:"new_status"`
}
