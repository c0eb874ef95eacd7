package controllers

import (
	"coursely/database"
	"coursely/middleware"
	"coursely/models"
	courseModels "coursely/models/course"
	"coursely/services/certificate"
	"coursely/services/eligibility"
	"coursely/services/progress"
	"coursely/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// GetEligibility returns the current eligibility verdict for the student in
// a course, plus the certificate when one is already issued. Read-only: it
// never triggers issuance.
func GetEligibility(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	criteria, err := loadCriteria(uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No certificate criteria configured for this course!", nil)
	}

	ledger := certificate.NewLedger(database.Database.Db)

	// Issued certificates short-circuit: later metric changes never revoke them.
	existing, err := ledger.Get(userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate!", nil)
	}
	if existing != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued!", fiber.Map{
			"verdict": eligibility.Verdict{
				Eligible: true,
				Reason:   eligibility.ReasonAlreadyIssued,
			},
			"certificate": existing,
		})
	}

	metrics, err := progress.Current().Metrics(userID, uint(courseID))
	if err != nil {
		return progressErrorResponse(c, err)
	}

	verdict := eligibility.Evaluate(*criteria, metrics)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Eligibility evaluated successfully!", fiber.Map{
		"verdict": verdict,
	})
}

// ClaimCertificate issues a certificate if the student meets the course
// criteria. Safe to call repeatedly; every caller converges on the single
// issued certificate.
func ClaimCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	criteria, err := loadCriteria(uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No certificate criteria configured for this course!", nil)
	}

	// Metrics are fetched before the write path begins; no lock is held
	// across the progress lookup.
	metrics, err := progress.Current().Metrics(userID, uint(courseID))
	if err != nil {
		return progressErrorResponse(c, err)
	}

	ledger := certificate.NewLedger(database.Database.Db)
	cert, verdict, outcome, err := ledger.IssueIfEligible(userID, uint(courseID), *criteria, metrics)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	switch outcome {
	case certificate.Issued:
		var crs courseModels.Course
		database.Database.Db.Where("id = ?", courseID).First(&crs)
		go utils.SendCertificateIssuedEmail(user.Email, user.Name, crs.Title, cert.Serial)

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", fiber.Map{
			"certificate": cert,
			"verdict":     verdict,
		})
	case certificate.AlreadyIssued:
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued!", fiber.Map{
			"certificate": cert,
			"verdict":     verdict,
		})
	default:
		return middleware.JsonResponse(c, fiber.StatusOK, false, "Not eligible for certificate yet!", fiber.Map{
			"verdict": verdict,
		})
	}
}

// GetMyCertificate returns the student's certificate for a course, or 404
func GetMyCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	ledger := certificate.NewLedger(database.Database.Db)
	cert, err := ledger.Get(userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate!", nil)
	}
	if cert == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No certificate issued for this course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", cert)
}

// VerifyCertificate looks up a certificate by its serial. Public: the serial
// is unguessable and is the only token needed to display a certificate.
func VerifyCertificate(c *fiber.Ctx) error {
	serial := c.Locals("certificateSerial").(string)

	ledger := certificate.NewLedger(database.Database.Db)
	cert, err := ledger.GetBySerial(serial)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate!", nil)
	}
	if cert == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	var holder models.User
	var crs courseModels.Course
	database.Database.Db.Where("id = ?", cert.UserID).First(&holder)
	database.Database.Db.Where("id = ?", cert.CourseID).First(&crs)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified successfully!", fiber.Map{
		"certificate": cert,
		"holder_name": holder.Name,
		"course_name": crs.Title,
	})
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseName string `json:"course_name"`
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ?", userID).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var crs courseModels.Course
		database.Database.Db.Where("id = ?", cert.CourseID).First(&crs)
		result[i] = CertificateWithCourse{
			Certificate: cert,
			CourseName:  crs.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}

func loadCriteria(courseID uint) (*courseModels.CertificateCriteria, error) {
	var criteria courseModels.CertificateCriteria
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).First(&criteria).Error; err != nil {
		return nil, err
	}
	return &criteria, nil
}

func progressErrorResponse(c *fiber.Ctx, err error) error {
	if errors.Is(err, progress.ErrNotEnrolled) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Progress data unavailable, please try again!", nil)
}
