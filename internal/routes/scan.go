package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skyhr/skyhr/internal/scan"
)

// RegisterScanRoutes wires QR scanning session endpoints.
func RegisterScanRoutes(r fiber.Router, h *scan.Handler) {
	r.Post("/scan/sessions", h.Open)
	r.Delete("/scan/sessions/:id", h.Close)
	r.Post("/scan/sessions/:id/frames", h.Frame)
	r.Post("/scan/sessions/:id/acknowledge", h.Acknowledge)
}
