package paymentRoutes

import (
	controllers "coursely/controllers/payment"
	"coursely/middleware"
	"coursely/models"
	validators "coursely/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up enrollment payment settlement routes
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/enrollment")

	paymentGroup.Post("/:id/mark-paid", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin, models.RoleTeacher), validators.EnrollmentIDParam(), controllers.MarkEnrollmentPaid)
	paymentGroup.Get("/:id/settlement", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin, models.RoleTeacher), validators.EnrollmentIDParam(), controllers.GetSettlement)
}
