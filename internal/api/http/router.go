package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/resolution-service/internal/api/http/handlers"
	"github.com/spec-kit/resolution-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Auth              *handlers.AuthHandler
	Complaints        *handlers.ComplaintsHandler
	OperatorWorkflows *handlers.OperatorComplaintsHandler
	Refunds           *handlers.RefundsHandler
	AuthMiddleware    *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Auth.RegisterUser)
	authGroup.Post("/users/login", cfg.Auth.LoginUser)
	authGroup.Post("/operators/login", cfg.Auth.LoginOperator)

	// Settlement confirmations arrive from the payment rail, not a logged-in
	// principal.
	app.Post("/callbacks/settlements", cfg.Refunds.ConfirmSettlement)

	customer := app.Group("/complaints", cfg.AuthMiddleware.Handle, auth.RequireUser())
	customer.Post("/", cfg.Complaints.Submit)
	customer.Get("/", cfg.Complaints.List)
	customer.Get("/:id", cfg.Complaints.Get)

	refunds := app.Group("/refund-requests", cfg.AuthMiddleware.Handle, auth.RequireUser())
	refunds.Get("/:id", cfg.Refunds.Get)
	refunds.Post("/:id/method", cfg.Refunds.SelectMethod)

	operator := app.Group("/operator/complaints", cfg.AuthMiddleware.Handle, auth.RequireOperatorRole())
	operator.Get("/", cfg.OperatorWorkflows.List)
	operator.Get("/:id", cfg.OperatorWorkflows.Get)
	operator.Get("/:id/history", cfg.OperatorWorkflows.History)
	operator.Post("/:id/approve", cfg.OperatorWorkflows.Approve)
	operator.Post("/:id/reject", cfg.OperatorWorkflows.Reject)
	operator.Post("/:id/pickups", cfg.OperatorWorkflows.SchedulePickup)
	operator.Post("/:id/pickups/outcome", cfg.OperatorWorkflows.RecordPickupOutcome)
	operator.Post("/:id/resolve/replacement", cfg.OperatorWorkflows.ResolveByReplacement)
	operator.Post("/:id/resolve/refund", cfg.OperatorWorkflows.ResolveByRefund)
}
