package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/theetaz/complaint-service/internal/api/dto"
	"github.com/theetaz/complaint-service/internal/domain"
	"github.com/theetaz/complaint-service/internal/service"
	apperrors "github.com/theetaz/complaint-service/pkg/util"
)

// ComplaintsHandler exposes complaint CRUD endpoints.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
}

// NewComplaintsHandler constructs the handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaintService}
}

// List handles GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	complaints, meta, err := h.complaints.List(c.Context(), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintListResponse(complaints, meta)})
}

// Get handles GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	complaint, err := h.complaints.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// Create handles POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Description == "" || req.Category == "" || req.UserID == "" {
		return apperrors.NewValidationError("description, category and user_id are required", nil)
	}

	complaint, err := h.complaints.Create(c.Context(), &domain.Complaint{
		Description: req.Description,
		Category:    req.Category,
		Place:       req.Place,
		Images:      req.Images,
		UserID:      req.UserID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// Update handles PATCH /complaints/:id.
func (h *ComplaintsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	update := service.ComplaintUpdate{
		Description: req.Description,
		Category:    req.Category,
		Place:       req.Place,
		Note:        req.Note,
	}
	if req.Status != nil {
		status := domain.ComplaintStatus(*req.Status)
		update.Status = &status
	}

	complaint, err := h.complaints.Update(c.Context(), c.Params("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// Delete handles DELETE /complaints/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	if err := h.complaints.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// UploadImage handles POST /complaints/:id/images with a multipart file.
func (h *ComplaintsHandler) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return apperrors.NewValidationError("image file is required", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unable to read image file", nil)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewValidationError("unable to read image file", nil)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	complaint, err := h.complaints.AttachImage(c.Context(), c.Params("id"), fileHeader.Filename, contentType, content)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}
