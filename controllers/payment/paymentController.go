package paymentController

import (
	"coursely/config"
	"coursely/database"
	"coursely/middleware"
	"coursely/models"
	courseModels "coursely/models/course"
	"coursely/services/settlement"
	"coursely/utils"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// MarkEnrollmentPaid settles an enrollment payment. Exactly-once per
// enrollment: repeated calls (from any entry point) return the original
// settlement record with already_settled set instead of an error.
func MarkEnrollmentPaid(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	var crs courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", enrollment.CourseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Teachers may only mark payments on their own courses
	if user.Role == models.RoleTeacher && crs.TeacherID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	engine := settlement.NewEngine(db)
	record, created, err := engine.Settle(settlement.Payment{
		EnrollmentID: enrollment.ID,
		UserID:       enrollment.UserID,
		CourseID:     enrollment.CourseID,
		GrossCents:   crs.PriceCents,
		PaidAt:       time.Now(),
	}, config.AppConfig.AdminCommissionPercent)
	if err != nil {
		if errors.Is(err, settlement.ErrInvalidAmount) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course price must be positive to settle a payment!", nil)
		}
		if errors.Is(err, settlement.ErrInvalidPercent) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid commission configuration!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to settle payment!", nil)
	}

	if created {
		var student models.User
		if err := db.Where("id = ?", enrollment.UserID).First(&student).Error; err == nil {
			go utils.SendPaymentReceiptEmail(student.Email, student.Name, crs.Title, record.GrossCents)
		}

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment settled successfully!", fiber.Map{
			"settlement":      record,
			"already_settled": false,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment was already settled!", fiber.Map{
		"settlement":      record,
		"already_settled": true,
	})
}

// GetSettlement returns the settlement record for an enrollment
func GetSettlement(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	engine := settlement.NewEngine(database.Database.Db)
	record, err := engine.Get(uint(enrollmentID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch settlement!", nil)
	}
	if record == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No settlement found for this enrollment!", nil)
	}

	if user.Role == models.RoleTeacher {
		var crs courseModels.Course
		if err := database.Database.Db.Where("id = ?", record.CourseID).First(&crs).Error; err != nil || crs.TeacherID != user.ID {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settlement fetched successfully!", record)
}
