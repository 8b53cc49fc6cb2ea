package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/resolution-service/internal/api/dto"
	"github.com/spec-kit/resolution-service/internal/auth"
	"github.com/spec-kit/resolution-service/internal/domain"
	"github.com/spec-kit/resolution-service/internal/service"
	apperrors "github.com/spec-kit/resolution-service/pkg/util"
)

// RefundsHandler exposes refund-method selection to customers and the
// settlement confirmation callback to the payment rail.
type RefundsHandler struct {
	refunds *service.RefundService
}

// NewRefundsHandler constructs handler.
func NewRefundsHandler(refundService *service.RefundService) *RefundsHandler {
	return &RefundsHandler{refunds: refundService}
}

// Get GET /refund-requests/:id.
func (h *RefundsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("customer required")
	}
	request, err := h.refunds.GetForCustomer(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": refundResponse(request)})
}

// SelectMethod POST /refund-requests/:id/method.
func (h *RefundsHandler) SelectMethod(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("customer required")
	}
	var req dto.SelectRefundMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	selection := service.MethodSelection{Method: req.Method}
	if req.Details != nil {
		selection.Details = &domain.OriginalPaymentDetails{
			AccountHolder: req.Details.AccountHolder,
			BankName:      req.Details.BankName,
			AccountNumber: req.Details.AccountNumber,
			IFSC:          req.Details.IFSC,
		}
	}
	request, err := h.refunds.SelectMethod(c.Context(), principal.User.ID, c.Params("id"), selection)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": refundResponse(request)})
}

// ConfirmSettlement POST /callbacks/settlements.
func (h *RefundsHandler) ConfirmSettlement(c *fiber.Ctx) error {
	var req dto.SettlementCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefundRequestID == "" {
		return apperrors.NewValidationError("refund_request_id required", nil)
	}
	request, err := h.refunds.ConfirmSettlement(c.Context(), req.RefundRequestID, req.SettlementRef)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": refundResponse(request)})
}

func refundResponse(request *domain.RefundRequest) dto.RefundRequestResponse {
	return dto.RefundRequestResponse{
		ID:              request.ID,
		ComplaintID:     request.ComplaintID,
		OrderID:         request.OrderID,
		Amount:          request.Amount,
		PaymentMethod:   request.PaymentMethod,
		Method:          request.Method,
		Status:          request.Status,
		StoreCreditCode: request.StoreCreditCode,
		SettlementRef:   request.SettlementRef,
		CreatedAt:       request.CreatedAt,
		CompletedAt:     request.CompletedAt,
	}
}
