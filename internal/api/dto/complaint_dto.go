package dto

import (
	"time"

	"github.com/theetaz/complaint-service/internal/domain"
	"github.com/theetaz/complaint-service/internal/service"
)

// CreateComplaintRequest payload for new complaints.
type CreateComplaintRequest struct {
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Place       *string `json:"place"`
	Images      *string `json:"images"`
	UserID      string  `json:"user_id"`
}

// UpdateComplaintRequest carries optional complaint updates.
type UpdateComplaintRequest struct {
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Place       *string `json:"place"`
	Status      *string `json:"status"`
	Note        *string `json:"note"`
}

// ComplaintResponse is the public view of a complaint.
type ComplaintResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Place       *string   `json:"place,omitempty"`
	Images      *string   `json:"images,omitempty"`
	UserID      string    `json:"user_id"`
	Status      string    `json:"status"`
	Note        *string   `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(complaint *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:          complaint.ID,
		Description: complaint.Description,
		Category:    complaint.Category,
		Place:       complaint.Place,
		Images:      complaint.Images,
		UserID:      complaint.UserID,
		Status:      string(complaint.Status),
		Note:        complaint.Note,
		CreatedAt:   complaint.CreatedAt,
		UpdatedAt:   complaint.UpdatedAt,
	}
}

// ComplaintListResponse pairs one page of complaints with pagination meta.
type ComplaintListResponse struct {
	Items []ComplaintResponse `json:"items"`
	Meta  service.PageMeta    `json:"meta"`
}

// NewComplaintListResponse maps a page of complaints.
func NewComplaintListResponse(complaints []*domain.Complaint, meta *service.PageMeta) ComplaintListResponse {
	items := make([]ComplaintResponse, 0, len(complaints))
	for _, complaint := range complaints {
		items = append(items, NewComplaintResponse(complaint))
	}
	return ComplaintListResponse{Items: items, Meta: *meta}
}
