package course

import "gorm.io/gorm"

// CertificateCriteria is the rule set a course owner configures to govern
// certificate issuance. One row per course; the owner may update it, but an
// already issued certificate keeps the snapshot it was issued under.
type CertificateCriteria struct {
	gorm.Model
	CourseID                uint `json:"course_id" gorm:"uniqueIndex;not null"`
	MinProgressPercent      int  `json:"min_progress_percent" gorm:"not null"`
	RequireAssignments      bool `json:"require_assignments" gorm:"default:false"`
	RequiredAssignmentCount int  `json:"required_assignment_count" gorm:"default:0"`
	RequireExam             bool `json:"require_exam" gorm:"default:false"`
	PassingMarkPercent      int  `json:"passing_mark_percent" gorm:"default:0"`
	IsDeleted               bool `gorm:"default:false"`
}
