package paymentValidator

import (
	"coursely/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentIDParam validates the :id route parameter
func EnrollmentIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		enrollmentIDStr := strings.TrimSpace(c.Params("id"))
		if enrollmentIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment ID is required!", nil)
		}

		// Validate EnrollmentID is a valid integer
		enrollmentID, err := strconv.Atoi(enrollmentIDStr)
		if err != nil || enrollmentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		c.Locals("enrollmentID", enrollmentID)
		return c.Next()
	}
}
