package payment

import (
	"time"

	"gorm.io/gorm"
)

// SettlementRecord is the one-time split of a single enrollment payment
// between the platform and the course teacher. Rows are insert-only and
// keyed uniquely by enrollment, which is what makes settlement exactly-once.
// AdminPercent is frozen at settlement time; later configuration changes
// never touch historical records.
type SettlementRecord struct {
	gorm.Model
	EnrollmentID uint      `json:"enrollment_id" gorm:"uniqueIndex;not null"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	CourseID     uint      `json:"course_id" gorm:"index;not null"`
	GrossCents   int64     `json:"gross_cents" gorm:"not null"`
	AdminCents   int64     `json:"admin_cents" gorm:"not null"`
	TeacherCents int64     `json:"teacher_cents" gorm:"not null"`
	AdminPercent int       `json:"admin_percent" gorm:"not null"`
	SettledAt    time.Time `json:"settled_at" gorm:"index;not null"`
}
