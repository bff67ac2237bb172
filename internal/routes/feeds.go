package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/skyhr/skyhr/internal/announcements"
	"github.com/skyhr/skyhr/internal/permissions"
)

// RegisterFeedRoutes wires the cached list endpoints.
func RegisterFeedRoutes(r fiber.Router, ann *announcements.Service, perms *permissions.Service) {
	r.Get("/announcements", func(c *fiber.Ctx) error {
		res, err := ann.List(c.UserContext(), c.QueryBool("refresh"))
		if err != nil {
			return backendError(err)
		}
		return c.Status(http.StatusOK).JSON(res)
	})

	r.Get("/permissions", func(c *fiber.Ctx) error {
		status, err := permissions.ParseStatus(c.Query("status"))
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		res, err := perms.List(c.UserContext(), status, c.QueryBool("refresh"))
		if err != nil {
			return backendError(err)
		}
		return c.Status(http.StatusOK).JSON(res)
	})
}
