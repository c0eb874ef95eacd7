package course

import (
	"time"

	"gorm.io/gorm"
)

// AssignmentSubmission records a student's handed-in assignment for a course.
// The count of these rows feeds the certificate eligibility metrics.
type AssignmentSubmission struct {
	gorm.Model
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	CourseID     uint      `json:"course_id" gorm:"index;not null"`
	AssignmentID uint      `json:"assignment_id" gorm:"index;not null"`
	FileURL      string    `json:"file_url"`
	SubmittedAt  time.Time `json:"submitted_at"`
	IsDeleted    bool      `gorm:"default:false"`
}
