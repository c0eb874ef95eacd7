package courseValidator

import (
	"coursely/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CertificateCriteriaRequest is the payload a course owner submits to
// configure certificate rules for a course.
type CertificateCriteriaRequest struct {
	MinProgressPercent      *int `json:"min_progress_percent" validate:"required,min=0,max=100"`
	RequireAssignments      bool `json:"require_assignments"`
	RequiredAssignmentCount *int `json:"required_assignment_count" validate:"omitempty,min=0"`
	RequireExam             bool `json:"require_exam"`
	PassingMarkPercent      *int `json:"passing_mark_percent" validate:"omitempty,min=0,max=100"`
}

// CourseIDParam validates the :id route parameter
func CourseIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		// Validate CourseID is a valid integer
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// SetCriteria validates the certificate criteria payload
func SetCriteria() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CertificateCriteriaRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "MinProgressPercent":
					errors["min_progress_percent"] = "Minimum progress must be between 0 and 100!"
				case "RequiredAssignmentCount":
					errors["required_assignment_count"] = "Required assignment count must not be negative!"
				case "PassingMarkPercent":
					errors["passing_mark_percent"] = "Passing mark must be between 0 and 100!"
				}
			}
		}

		// Conditionally required fields
		if reqData.RequireAssignments && reqData.RequiredAssignmentCount == nil {
			errors["required_assignment_count"] = "Required assignment count must be set when assignments are required!"
		}
		if reqData.RequireExam && reqData.PassingMarkPercent == nil {
			errors["passing_mark_percent"] = "Passing mark must be set when an exam is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCriteria", reqData)
		return c.Next()
	}
}

// SerialParam validates the :serial route parameter
func SerialParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		serial := strings.TrimSpace(c.Params("serial"))
		if serial == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate serial is required!", nil)
		}

		c.Locals("certificateSerial", serial)
		return c.Next()
	}
}
