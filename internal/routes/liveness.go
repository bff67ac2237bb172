package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skyhr/skyhr/internal/liveness"
)

// RegisterLivenessRoutes wires face capture endpoints. guard protects capture
// submissions.
func RegisterLivenessRoutes(r fiber.Router, h *liveness.Handler, guard fiber.Handler) {
	r.Post("/liveness/sessions", h.Open)
	r.Post("/liveness/sessions/:id/captures", guard, h.Capture)
	r.Post("/liveness/sessions/:id/retry", h.Retry)
	r.Delete("/liveness/sessions/:id", h.Close)
}
