package reportController

import (
	"coursely/database"
	"coursely/middleware"
	"coursely/models"
	"coursely/services/report"
	reportValidator "coursely/validators/report"

	"github.com/gofiber/fiber/v2"
)

// GetRevenueReport returns period-bucketed settlement totals for the
// requested range. Admins see the whole platform; teachers see only their
// own courses.
func GetRevenueReport(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	query, ok := c.Locals("validatedRevenueQuery").(*reportValidator.RevenueQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	filter := report.Filter{}
	if user.Role == models.RoleTeacher {
		filter.TeacherID = user.ID
	}

	aggregator := report.NewAggregator(database.Database.Db)

	buckets, err := aggregator.Aggregate(query.Granularity, query.From, query.To, filter)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build revenue report!", nil)
	}

	totals, err := aggregator.Totals(query.From, query.To, filter)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build revenue totals!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Revenue report fetched successfully!", fiber.Map{
		"granularity":   query.Granularity,
		"buckets":       buckets,
		"totals":        totals,
		"trend_percent": report.Trend(buckets),
	})
}
