package utils

import (
	"coursely/database"
	"coursely/models"
	"coursely/models/course"
	"coursely/services/certificate"
	"coursely/services/progress"
	"log"

	"github.com/robfig/cron/v3"
)

// InitializeCertificateScheduler sets up the daily certificate re-check pass
func InitializeCertificateScheduler() {
	log.Println("[CERT-SCHEDULER] Initializing certificate scheduler...")

	c := cron.New()

	// Run daily at 6 AM to re-check students who are not yet certified
	c.AddFunc("0 6 * * *", func() {
		log.Println("[CERT-SCHEDULER] Running daily certificate re-check...")
		ProcessPendingCertificates()
	})

	c.Start()
	log.Println("[CERT-SCHEDULER] Certificate scheduler started - runs daily at 6 AM")
}

// ProcessPendingCertificates re-evaluates enrollments without a certificate
// and issues where criteria are now met. Everything funnels through the same
// idempotent issuance path the claim endpoint uses, so a student claiming at
// the same moment can never produce a duplicate.
func ProcessPendingCertificates() {
	db := database.Database.Db
	ledger := certificate.NewLedger(db)

	var criteriaList []course.CertificateCriteria
	if err := db.Where("is_deleted = ?", false).Find(&criteriaList).Error; err != nil {
		log.Printf("[CERT-SCHEDULER] Error fetching criteria: %v", err)
		return
	}

	issued := 0
	for _, criteria := range criteriaList {
		// Enrollments in this course that have no certificate yet
		var enrollments []course.Enrollment
		if err := db.
			Where("course_id = ? AND is_deleted = ?", criteria.CourseID, false).
			Where("user_id NOT IN (?)",
				db.Model(&course.Certificate{}).Select("user_id").Where("course_id = ?", criteria.CourseID)).
			Find(&enrollments).Error; err != nil {
			log.Printf("[CERT-SCHEDULER] Error fetching enrollments for course %d: %v", criteria.CourseID, err)
			continue
		}

		for _, enrollment := range enrollments {
			metrics, err := progress.Current().Metrics(enrollment.UserID, enrollment.CourseID)
			if err != nil {
				log.Printf("[CERT-SCHEDULER] Error fetching metrics for user %d course %d: %v", enrollment.UserID, enrollment.CourseID, err)
				continue
			}

			cert, _, outcome, err := ledger.IssueIfEligible(enrollment.UserID, enrollment.CourseID, criteria, metrics)
			if err != nil {
				log.Printf("[CERT-SCHEDULER] Error issuing for user %d course %d: %v", enrollment.UserID, enrollment.CourseID, err)
				continue
			}

			if outcome == certificate.Issued {
				issued++
				var student models.User
				var crs course.Course
				db.Where("id = ?", enrollment.UserID).First(&student)
				db.Where("id = ?", enrollment.CourseID).First(&crs)
				SendCertificateIssuedEmail(student.Email, student.Name, crs.Title, cert.Serial)
				log.Printf("[CERT-SCHEDULER] Issued certificate %s for user %d course %d", cert.Serial, enrollment.UserID, enrollment.CourseID)
			}
		}
	}

	log.Printf("[CERT-SCHEDULER] Re-check complete, %d certificates issued", issued)
}
