package progress

import (
	"database/sql"
	"errors"
	"fmt"

	"coursely/models/course"
	"coursely/services/eligibility"

	"gorm.io/gorm"
)

// DBSource derives metrics from the platform's own tables: enrollment
// progress, assignment submission counts and the best exam score.
type DBSource struct {
	db *gorm.DB
}

// NewDBSource creates a database-backed progress source
func NewDBSource(db *gorm.DB) *DBSource {
	return &DBSource{db: db}
}

// Metrics builds a snapshot for the student in the course
func (s *DBSource) Metrics(userID, courseID uint) (eligibility.Metrics, error) {
	var enrollment course.Enrollment
	if err := s.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return eligibility.Metrics{}, ErrNotEnrolled
		}
		return eligibility.Metrics{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var submitted int64
	if err := s.db.Model(&course.AssignmentSubmission{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Count(&submitted).Error; err != nil {
		return eligibility.Metrics{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	metrics := eligibility.Metrics{
		ProgressPercent:      enrollment.ProgressPercent,
		AssignmentsSubmitted: int(submitted),
	}

	// MAX over zero rows is NULL, which maps to "no attempt yet".
	var best sql.NullInt64
	row := s.db.Model(&course.ExamAttempt{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Select("MAX(score_percent)").Row()
	if err := row.Scan(&best); err != nil {
		return eligibility.Metrics{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if best.Valid {
		score := int(best.Int64)
		metrics.ExamScorePercent = &score
	}

	return metrics, nil
}
