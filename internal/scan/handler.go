package scan

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/skyhr/skyhr/internal/attendance"
	"github.com/skyhr/skyhr/internal/geometry"
)

// Handler exposes scanning sessions over HTTP.
type Handler struct {
	registry *Registry
}

// NewHandler builds a scan HTTP handler.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

type openRequest struct {
	Mode           string  `json:"mode"`
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
}

type sessionResponse struct {
	ID     string        `json:"id"`
	Mode   string        `json:"mode"`
	Region geometry.Rect `json:"region"`
}

// Open focuses a new scanning session.
func (h *Handler) Open(c *fiber.Ctx) error {
	var req openRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	mode, err := attendance.ParseMode(req.Mode)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.ViewportWidth <= 0 || req.ViewportHeight <= 0 {
		return fiber.NewError(http.StatusBadRequest, "viewport dimensions must be positive")
	}
	s := h.registry.Open(mode, req.ViewportWidth, req.ViewportHeight)
	return c.Status(http.StatusCreated).JSON(sessionResponse{
		ID:     s.ID(),
		Mode:   string(mode),
		Region: geometry.QRRegion(req.ViewportWidth, req.ViewportHeight),
	})
}

// Close blurs a session.
func (h *Handler) Close(c *fiber.Ctx) error {
	if err := h.registry.Close(c.Params("id")); err != nil {
		return notFound(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Frame submits one decoded frame.
func (h *Handler) Frame(c *fiber.Ctx) error {
	s, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return notFound(err)
	}
	var ev Event
	if err := c.BodyParser(&ev); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(s.HandleFrame(c.UserContext(), ev))
}

// Acknowledge dismisses a failure alert and reopens scanning.
func (h *Handler) Acknowledge(c *fiber.Ctx) error {
	s, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return notFound(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"acknowledged": s.Acknowledge()})
}

func notFound(err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	return fiber.NewError(http.StatusInternalServerError, err.Error())
}
