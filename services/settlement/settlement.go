package settlement

import (
	"errors"
	"time"

	"coursely/models/payment"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Validation errors surfaced to the caller immediately, never retried.
var (
	ErrInvalidAmount  = errors.New("payment amount must be positive")
	ErrInvalidPercent = errors.New("admin percent must be between 0 and 100")
)

// Payment is a single enrollment payment event supplied by the caller.
// Amounts are integer cents; no floating point enters the split.
type Payment struct {
	EnrollmentID uint
	UserID       uint
	CourseID     uint
	GrossCents   int64
	PaidAt       time.Time
}

// Engine settles enrollment payments exactly once each.
type Engine struct {
	db *gorm.DB
}

// NewEngine creates a settlement engine on the given database
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Split computes the admin/teacher division of a gross amount. The admin
// share rounds half-up; the teacher share is the remainder, never computed
// independently, so admin + teacher == gross holds for every input.
func Split(grossCents int64, adminPercent int) (adminCents, teacherCents int64) {
	adminCents = (grossCents*int64(adminPercent) + 50) / 100
	teacherCents = grossCents - adminCents
	return adminCents, teacherCents
}

// Settle records the revenue split for one enrollment payment. It is
// exactly-once per enrollment: the unique index on enrollment_id decides a
// single winner under concurrent attempts, and losers get the existing
// record back with created=false. adminPercent is frozen onto the record so
// later configuration changes never alter settled history.
func (e *Engine) Settle(p Payment, adminPercent int) (*payment.SettlementRecord, bool, error) {
	if p.GrossCents <= 0 {
		return nil, false, ErrInvalidAmount
	}
	if adminPercent < 0 || adminPercent > 100 {
		return nil, false, ErrInvalidPercent
	}

	adminCents, teacherCents := Split(p.GrossCents, adminPercent)

	settledAt := p.PaidAt
	if settledAt.IsZero() {
		settledAt = time.Now()
	}

	record := payment.SettlementRecord{
		EnrollmentID: p.EnrollmentID,
		UserID:       p.UserID,
		CourseID:     p.CourseID,
		GrossCents:   p.GrossCents,
		AdminCents:   adminCents,
		TeacherCents: teacherCents,
		AdminPercent: adminPercent,
		SettledAt:    settledAt,
	}

	// Single conditional insert; a conflict means another caller settled
	// this enrollment first, so hand back the winning record.
	result := e.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}},
		DoNothing: true,
	}).Create(&record)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		existing, err := e.Get(p.EnrollmentID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, errors.New("settlement insert conflicted but no row found")
		}
		return existing, false, nil
	}

	return &record, true, nil
}

// Get returns the settlement record for an enrollment, or nil if none exists
func (e *Engine) Get(enrollmentID uint) (*payment.SettlementRecord, error) {
	var record payment.SettlementRecord
	err := e.db.Where("enrollment_id = ?", enrollmentID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
