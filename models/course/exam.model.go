package course

import "gorm.io/gorm"

// ExamAttempt records one exam sitting. The best score across attempts is
// what the certificate eligibility check compares against the passing mark.
type ExamAttempt struct {
	gorm.Model
	UserID        uint `json:"user_id" gorm:"index;not null"`
	CourseID      uint `json:"course_id" gorm:"index;not null"`
	ScorePercent  int  `json:"score_percent"`
	AttemptNumber int  `json:"attempt_number" gorm:"default:1"`
	IsDeleted     bool `gorm:"default:false"`
}
