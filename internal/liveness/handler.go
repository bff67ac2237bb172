package liveness

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/skyhr/skyhr/internal/geometry"
)

// Handler exposes face capture flows over HTTP.
type Handler struct {
	registry *Registry
}

// NewHandler builds a liveness HTTP handler.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

type openRequest struct {
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
}

type captureRequest struct {
	Image      string           `json:"image"`
	FacePoints []geometry.Point `json:"face_points"`
}

// Open starts a capture flow. The viewport size is optional.
func (h *Handler) Open(c *fiber.Ctx) error {
	var req openRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}
	capture := h.registry.Open(req.ViewportWidth, req.ViewportHeight)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": capture.ID()})
}

// Capture submits a captured image.
func (h *Handler) Capture(c *fiber.Ctx) error {
	capture, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return captureError(err)
	}
	var req captureRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Image == "" {
		return fiber.NewError(http.StatusBadRequest, "image is required")
	}
	if len(req.FacePoints) > 0 && capture.Frame(req.FacePoints) != geometry.InFrame {
		return c.Status(http.StatusOK).JSON(Outcome{Status: StatusOutOfFrame})
	}
	out, err := capture.Submit(c.UserContext(), req.Image)
	if err != nil {
		return captureError(err)
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Retry clears the capture-done flag after a rejected capture.
func (h *Handler) Retry(c *fiber.Ctx) error {
	capture, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return captureError(err)
	}
	capture.Retry()
	return c.SendStatus(http.StatusNoContent)
}

// Close abandons a capture flow.
func (h *Handler) Close(c *fiber.Ctx) error {
	if err := h.registry.Close(c.Params("id")); err != nil {
		return captureError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func captureError(err error) error {
	switch {
	case errors.Is(err, ErrCaptureNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrCaptureClosed):
		return fiber.NewError(http.StatusGone, err.Error())
	default:
		return fiber.NewError(http.StatusRequestTimeout, err.Error())
	}
}
