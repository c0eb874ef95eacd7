package courseRoutes

import (
	controllers "coursely/controllers/course"
	"coursely/middleware"
	"coursely/models"
	validators "coursely/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up certificate criteria and certificate routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Certificate criteria (course owner / admin)
	courseGroup.Get("/:id/certificate-criteria", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher, models.RoleAdmin), validators.CourseIDParam(), controllers.GetCertificateCriteria)
	courseGroup.Put("/:id/certificate-criteria", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher, models.RoleAdmin), validators.CourseIDParam(), validators.SetCriteria(), controllers.SetCertificateCriteria)

	// Eligibility and certificates (student)
	courseGroup.Get("/:id/eligibility", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.GetEligibility)
	courseGroup.Post("/:id/certificate/claim", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.ClaimCertificate)
	courseGroup.Get("/:id/certificate", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.GetMyCertificate)

	// User certificate listing
	userGroup := app.Group("/user")
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)

	// Public certificate verification by serial
	app.Get("/certificate/verify/:serial", validators.SerialParam(), controllers.VerifyCertificate)
}
