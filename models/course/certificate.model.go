package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion.
// Rows are insert-only: the composite unique index on (user_id, course_id)
// is what makes concurrent issuance converge on a single winner, and the
// serial is the only token needed to display or verify the certificate.
type Certificate struct {
	gorm.Model
	UserID           uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`
	CourseID         uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`
	Serial           string         `json:"serial" gorm:"uniqueIndex;not null"`
	IssuedAt         time.Time      `json:"issued_at"`
	CriteriaSnapshot datatypes.JSON `json:"criteria_snapshot"` // criteria the certificate was issued under
}
