package reportRoutes

import (
	controllers "coursely/controllers/report"
	"coursely/middleware"
	"coursely/models"
	validators "coursely/validators/report"

	"github.com/gofiber/fiber/v2"
)

// SetupReportRoutes sets up revenue reporting routes
func SetupReportRoutes(app *fiber.App) {
	reportGroup := app.Group("/report")

	reportGroup.Get("/revenue", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin, models.RoleTeacher), validators.RevenueReport(), controllers.GetRevenueReport)
}
