package domain

import "time"

// ComplaintStatus represents lifecycle states for a complaint.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusRejected   ComplaintStatus = "rejected"
)

// Complaint is the domain model for reported complaints. Images holds a
// comma-separated list of uploaded attachment URLs.
type Complaint struct {
	ID          string
	Description string
	Category    string
	Place       *string
	Images      *string
	UserID      string
	Status      ComplaintStatus
	Note        *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
