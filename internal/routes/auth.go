package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/skyhr/skyhr/internal/session"
)

type signOutRequest struct {
	PushToken string `json:"push_token"`
}

// RegisterAuthRoutes wires session endpoints.
func RegisterAuthRoutes(r fiber.Router, provider *session.Provider) {
	r.Post("/auth/sign-out", func(c *fiber.Ctx) error {
		var req signOutRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(http.StatusBadRequest, err.Error())
			}
		}
		provider.SignOut(c.UserContext(), req.PushToken)
		return c.SendStatus(http.StatusNoContent)
	})
}
