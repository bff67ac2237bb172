package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/skyhr/skyhr/internal/attendance"
)

// RegisterAttendanceRoutes wires attendance lookups.
func RegisterAttendanceRoutes(r fiber.Router, client *attendance.Client) {
	r.Get("/attendance/today/:userId", func(c *fiber.Ctx) error {
		ev, err := client.GetTodayAttendanceEvent(c.UserContext(), c.Params("userId"))
		if err != nil {
			return backendError(err)
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"event": ev})
	})
}
