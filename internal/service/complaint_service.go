package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/theetaz/complaint-service/internal/domain"
	"github.com/theetaz/complaint-service/internal/events"
	"github.com/theetaz/complaint-service/internal/repository"
	apperrors "github.com/theetaz/complaint-service/pkg/util"
)

// ImageUploader stores a complaint attachment and returns its URL.
type ImageUploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, content []byte) (string, error)
}

// PageMeta describes pagination state for list responses.
type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// ComplaintUpdate carries optional complaint fields; nil means unchanged.
type ComplaintUpdate struct {
	Description *string
	Category    *string
	Place       *string
	Status      *domain.ComplaintStatus
	Note        *string
}

// ComplaintService handles complaint CRUD and attachment uploads.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	images     ImageUploader
	dispatcher events.Dispatcher
}

// NewComplaintService builds the service. images may be nil when object
// storage is not configured; attachment uploads then fail with a validation
// error instead of a nil dereference.
func NewComplaintService(complaints repository.ComplaintRepository, images ImageUploader, dispatcher events.Dispatcher) *ComplaintService {
	return &ComplaintService{complaints: complaints, images: images, dispatcher: dispatcher}
}

// List returns one page of complaints ordered by last update.
func (s *ComplaintService) List(ctx context.Context, page, pageSize int) ([]*domain.Complaint, *PageMeta, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	total, err := s.complaints.Count(ctx)
	if err != nil {
		return nil, nil, err
	}

	complaints, err := s.complaints.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, nil, err
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	return complaints, &PageMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: total,
	}, nil
}

// GetByID returns a single complaint.
func (s *ComplaintService) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, err
	}
	return complaint, nil
}

// Create stores a new complaint in pending status.
func (s *ComplaintService) Create(ctx context.Context, complaint *domain.Complaint) (*domain.Complaint, error) {
	if complaint.Status == "" {
		complaint.Status = domain.ComplaintStatusPending
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventComplaintCreated, complaint.UserID,
		events.ComplaintCreatedPayload{ComplaintID: complaint.ID, Category: complaint.Category})
	return complaint, nil
}

// Update applies partial changes and emits an event on status transitions.
func (s *ComplaintService) Update(ctx context.Context, id string, update ComplaintUpdate) (*domain.Complaint, error) {
	complaint, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	if update.Description != nil {
		complaint.Description = *update.Description
	}
	if update.Category != nil {
		complaint.Category = *update.Category
	}
	if update.Place != nil {
		complaint.Place = update.Place
	}
	if update.Status != nil {
		complaint.Status = *update.Status
	}
	if update.Note != nil {
		complaint.Note = update.Note
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}

	if complaint.Status != oldStatus {
		s.publish(ctx, events.EventComplaintStatusChanged, complaint.UserID,
			events.ComplaintStatusChangedPayload{
				ComplaintID: complaint.ID,
				OldStatus:   oldStatus,
				NewStatus:   complaint.Status,
			})
	}
	return complaint, nil
}

// Delete removes a complaint.
func (s *ComplaintService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.complaints.Delete(ctx, id)
}

// AttachImage uploads an attachment and appends its URL to the complaint's
// image list.
func (s *ComplaintService) AttachImage(ctx context.Context, id, filename, contentType string, content []byte) (*domain.Complaint, error) {
	if s.images == nil {
		return nil, apperrors.NewValidationError("image storage is not configured", nil)
	}

	complaint, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.images.Upload(ctx, "complaints/"+complaint.ID, filename, contentType, content)
	if err != nil {
		return nil, err
	}

	if complaint.Images == nil || *complaint.Images == "" {
		complaint.Images = &url
	} else {
		joined := *complaint.Images + "," + url
		complaint.Images = &joined
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

func (s *ComplaintService) publish(ctx context.Context, eventType events.EventType, subject string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
