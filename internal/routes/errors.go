package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/skyhr/skyhr/internal/attendance"
	"github.com/skyhr/skyhr/internal/backend"
)

// backendError maps a backend failure to the gateway's response.
func backendError(err error) error {
	if backend.IsNetwork(err) {
		return fiber.NewError(http.StatusServiceUnavailable, attendance.MessageNoConnection)
	}
	if msg := backend.ServerMessage(err); msg != "" {
		return fiber.NewError(http.StatusBadGateway, msg)
	}
	return fiber.NewError(http.StatusBadGateway, err.Error())
}
