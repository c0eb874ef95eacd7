package controllers

import (
	"coursely/database"
	"coursely/middleware"
	"coursely/models"
	courseModels "coursely/models/course"
	courseValidator "coursely/validators/course"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetCertificateCriteria creates or updates the certificate rules for a course
func SetCertificateCriteria(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Teachers may only configure their own courses
	if user.Role == models.RoleTeacher && crs.TeacherID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	reqData, ok := c.Locals("validatedCriteria").(*courseValidator.CertificateCriteriaRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var criteria courseModels.CertificateCriteria
	err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).First(&criteria).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch criteria!", nil)
	}

	criteria.CourseID = uint(courseID)
	criteria.MinProgressPercent = *reqData.MinProgressPercent
	criteria.RequireAssignments = reqData.RequireAssignments
	criteria.RequiredAssignmentCount = 0
	if reqData.RequireAssignments {
		criteria.RequiredAssignmentCount = *reqData.RequiredAssignmentCount
	}
	criteria.RequireExam = reqData.RequireExam
	criteria.PassingMarkPercent = 0
	if reqData.RequireExam {
		criteria.PassingMarkPercent = *reqData.PassingMarkPercent
	}

	if err := db.Save(&criteria).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save criteria!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate criteria saved successfully!", criteria)
}

// GetCertificateCriteria fetches the certificate rules for a course
func GetCertificateCriteria(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var criteria courseModels.CertificateCriteria
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).First(&criteria).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No certificate criteria configured for this course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate criteria fetched successfully!", criteria)
}
