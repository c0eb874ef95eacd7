package progress

import (
	"errors"

	"coursely/services/eligibility"

	"gorm.io/gorm"
)

// ErrUnavailable is returned when progress metrics cannot be fetched. The
// caller may retry; no state is ever written on this path.
var ErrUnavailable = errors.New("progress source unavailable")

// ErrNotEnrolled is returned when the student has no enrollment in the course.
var ErrNotEnrolled = errors.New("student not enrolled in course")

// Source supplies a fresh metrics snapshot for a student in a course.
// Metrics are fetched before any certificate write begins, never inside it.
type Source interface {
	Metrics(userID, courseID uint) (eligibility.Metrics, error)
}

var active Source

// Init selects the active progress source for the process: the remote API
// when a base URL is configured, the local database otherwise.
func Init(db *gorm.DB, progressAPIURL string) {
	if progressAPIURL != "" {
		active = NewRemoteSource(progressAPIURL)
		return
	}
	active = NewDBSource(db)
}

// Current returns the active progress source. Init must have been called.
func Current() Source {
	return active
}
