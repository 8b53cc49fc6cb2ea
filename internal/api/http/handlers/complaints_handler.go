package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/resolution-service/internal/api/dto"
	"github.com/spec-kit/resolution-service/internal/auth"
	"github.com/spec-kit/resolution-service/internal/domain"
	"github.com/spec-kit/resolution-service/internal/service"
	apperrors "github.com/spec-kit/resolution-service/pkg/util"
)

// ComplaintsHandler manages customer-facing complaint endpoints.
type ComplaintsHandler struct {
	resolution *service.ResolutionService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(resolution *service.ResolutionService) *ComplaintsHandler {
	return &ComplaintsHandler{resolution: resolution}
}

// Submit POST /complaints.
func (h *ComplaintsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("customer required")
	}
	var req dto.SubmitComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OrderID == "" || req.Kind == "" {
		return apperrors.NewValidationError("order_id and kind required", nil)
	}

	evidence := make([]service.EvidenceInput, 0, len(req.Evidence))
	for _, ev := range req.Evidence {
		evidence = append(evidence, service.EvidenceInput{ImageURL: ev.ImageURL, Caption: ev.Caption})
	}
	complaint, err := h.resolution.Submit(c.Context(), principal.User.ID, service.SubmitInput{
		OrderID:     req.OrderID,
		Kind:        req.Kind,
		Description: req.Description,
		Evidence:    evidence,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// List GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("customer required")
	}
	limit, offset := parsePagination(c)
	complaints, err := h.resolution.ListForCustomer(c.Context(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintSummary, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintSummary(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("customer required")
	}
	complaint, evidence, attempts, err := h.resolution.GetForCustomer(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(complaint, evidence, attempts)})
}

func complaintSummary(complaint *domain.Complaint) dto.ComplaintSummary {
	return dto.ComplaintSummary{
		ID:                  complaint.ID,
		OrderID:             complaint.OrderID,
		Kind:                complaint.Kind,
		InvestigationStatus: complaint.InvestigationStatus,
		ResolutionType:      complaint.ResolutionType,
		ReturnStatus:        complaint.ReturnStatus,
		PickupAttemptNumber: complaint.PickupAttemptNumber,
		MaxPickupAttempts:   complaint.MaxPickupAttempts,
		CouponCode:          complaint.CouponCode,
		CreatedAt:           complaint.CreatedAt,
		UpdatedAt:           complaint.UpdatedAt,
	}
}

func complaintDetail(complaint *domain.Complaint, evidence []domain.Evidence, attempts []domain.PickupAttempt) dto.ComplaintDetailResponse {
	resp := dto.ComplaintDetailResponse{
		ID:                  complaint.ID,
		OrderID:             complaint.OrderID,
		CustomerID:          complaint.CustomerID,
		Kind:                complaint.Kind,
		Description:         complaint.Description,
		InvestigationStatus: complaint.InvestigationStatus,
		OperatorNotes:       complaint.OperatorNotes,
		ResolutionType:      complaint.ResolutionType,
		ReturnStatus:        complaint.ReturnStatus,
		PickupAttemptNumber: complaint.PickupAttemptNumber,
		MaxPickupAttempts:   complaint.MaxPickupAttempts,
		EligibleForCoupon:   complaint.EligibleForCoupon,
		CouponCode:          complaint.CouponCode,
		RefundRequestID:     complaint.RefundRequestID,
		ReplacementOrderID:  complaint.ReplacementOrderID,
		CreatedAt:           complaint.CreatedAt,
		UpdatedAt:           complaint.UpdatedAt,
		PickupScheduledAt:   complaint.PickupScheduledAt,
		PickupCompletedAt:   complaint.PickupCompletedAt,
		PickupFailedAt:      complaint.PickupFailedAt,
		Evidence:            []dto.EvidenceResponse{},
		PickupAttempts:      []dto.PickupAttemptResponse{},
	}
	for _, ev := range evidence {
		resp.Evidence = append(resp.Evidence, dto.EvidenceResponse{
			ID:        ev.ID,
			ImageURL:  ev.ImageURL,
			Caption:   ev.Caption,
			CreatedAt: ev.CreatedAt,
		})
	}
	for _, attempt := range attempts {
		resp.PickupAttempts = append(resp.PickupAttempts, dto.PickupAttemptResponse{
			ID:            attempt.ID,
			AttemptNumber: attempt.AttemptNumber,
			ScheduledDate: attempt.ScheduledDate,
			Status:        attempt.Status,
			FailureReason: attempt.FailureReason,
			CreatedAt:     attempt.CreatedAt,
		})
	}
	return resp
}

func parsePagination(c *fiber.Ctx) (int, int) {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
