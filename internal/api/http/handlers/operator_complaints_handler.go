package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/resolution-service/internal/api/dto"
	"github.com/spec-kit/resolution-service/internal/auth"
	"github.com/spec-kit/resolution-service/internal/domain"
	"github.com/spec-kit/resolution-service/internal/repository"
	"github.com/spec-kit/resolution-service/internal/service"
	apperrors "github.com/spec-kit/resolution-service/pkg/util"
)

// OperatorComplaintsHandler drives the workflow from the operator console.
type OperatorComplaintsHandler struct {
	resolution *service.ResolutionService
}

// NewOperatorComplaintsHandler constructs handler.
func NewOperatorComplaintsHandler(resolution *service.ResolutionService) *OperatorComplaintsHandler {
	return &OperatorComplaintsHandler{resolution: resolution}
}

// List GET /operator/complaints.
func (h *OperatorComplaintsHandler) List(c *fiber.Ctx) error {
	if _, err := operatorFromContext(c); err != nil {
		return err
	}
	limit, offset := parsePagination(c)
	filter := repository.ComplaintFilter{Limit: limit, Offset: offset}
	if kind := c.Query("kind"); kind != "" {
		k := domain.ComplaintKind(kind)
		filter.Kind = &k
	}
	if status := c.Query("investigation_status"); status != "" {
		s := domain.InvestigationStatus(status)
		filter.InvestigationStatus = &s
	}
	if status := c.Query("return_status"); status != "" {
		s := domain.ReturnStatus(status)
		filter.ReturnStatus = &s
	}
	complaints, err := h.resolution.ListForOperator(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintSummary, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintSummary(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /operator/complaints/:id.
func (h *OperatorComplaintsHandler) Get(c *fiber.Ctx) error {
	if _, err := operatorFromContext(c); err != nil {
		return err
	}
	complaint, evidence, attempts, err := h.resolution.GetForOperator(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(complaint, evidence, attempts)})
}

// History GET /operator/complaints/:id/history.
func (h *OperatorComplaintsHandler) History(c *fiber.Ctx) error {
	if _, err := operatorFromContext(c); err != nil {
		return err
	}
	entries, err := h.resolution.History(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}

// Approve POST /operator/complaints/:id/approve.
func (h *OperatorComplaintsHandler) Approve(c *fiber.Ctx) error {
	operator, err := operatorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.resolution.Approve(c.Context(), operator.ID, c.Params("id"), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// Reject POST /operator/complaints/:id/reject.
func (h *OperatorComplaintsHandler) Reject(c *fiber.Ctx) error {
	operator, err := operatorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.resolution.Reject(c.Context(), operator.ID, c.Params("id"), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// SchedulePickup POST /operator/complaints/:id/pickups.
func (h *OperatorComplaintsHandler) SchedulePickup(c *fiber.Ctx) error {
	operator, err := operatorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.SchedulePickupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Date.IsZero() || req.Date.Before(time.Now().Truncate(24*time.Hour)) {
		return apperrors.NewValidationError("a future pickup date is required", nil)
	}
	attempt, err := h.resolution.SchedulePickup(c.Context(), operator.ID, c.Params("id"), req.Date)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.PickupAttemptResponse{
		ID:            attempt.ID,
		AttemptNumber: attempt.AttemptNumber,
		ScheduledDate: attempt.ScheduledDate,
		Status:        attempt.Status,
		CreatedAt:     attempt.CreatedAt,
	}})
}

// RecordPickupOutcome POST /operator/complaints/:id/pickups/outcome.
func (h *OperatorComplaintsHandler) RecordPickupOutcome(c *fiber.Ctx) error {
	operator, err := operatorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.PickupOutcomeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.resolution.RecordPickupOutcome(c.Context(), operator.ID, c.Params("id"), req.Succeeded, req.FailureReason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// ResolveByReplacement POST /operator/complaints/:id/resolve/replacement.
func (h *OperatorComplaintsHandler) ResolveByReplacement(c *fiber.Ctx) error {
	operator, err := operatorFromContext(c)
	if err != nil {
		return err
	}
	complaint, err := h.resolution.ResolveByReplacement(c.Context(), operator.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// ResolveByRefund POST /operator/complaints/:id/resolve/refund.
func (h *OperatorComplaintsHandler) ResolveByRefund(c *fiber.Ctx) error {
	operator, err := operatorFromContext(c)
	if err != nil {
		return err
	}
	request, err := h.resolution.ResolveByRefund(c.Context(), operator.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": refundResponse(request)})
}

func operatorFromContext(c *fiber.Ctx) (*domain.Operator, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Operator == nil {
		return nil, apperrors.NewUnauthorized("operator required")
	}
	return principal.Operator, nil
}
