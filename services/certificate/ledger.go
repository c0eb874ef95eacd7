package certificate

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coursely/models/course"
	"coursely/services/eligibility"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IssueOutcome classifies the result of an issuance attempt. AlreadyIssued
// and NotEligible are normal outcomes, not errors.
type IssueOutcome int

const (
	Issued IssueOutcome = iota
	AlreadyIssued
	NotEligible
)

// Ledger stores at most one certificate per (student, course) pair. All
// writes go through the insert-if-absent path; nothing ever updates or
// deletes an issued row.
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a certificate ledger on the given database
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Get returns the certificate for a student in a course, or nil if none exists
func (l *Ledger) Get(userID, courseID uint) (*course.Certificate, error) {
	var cert course.Certificate
	err := l.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// GetBySerial returns the certificate with the given serial, or nil if none exists
func (l *Ledger) GetBySerial(serial string) (*course.Certificate, error) {
	var cert course.Certificate
	err := l.db.Where("serial = ?", serial).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// IssueIfEligible evaluates the student against the course criteria and, when
// eligible, issues a certificate. The operation is idempotent and race-safe:
// concurrent calls for the same pair converge on a single row, decided by the
// unique index on (user_id, course_id). Losers of the race get the winning
// record back with an AlreadyIssued outcome rather than an error.
func (l *Ledger) IssueIfEligible(userID, courseID uint, criteria course.CertificateCriteria, metrics eligibility.Metrics) (*course.Certificate, eligibility.Verdict, IssueOutcome, error) {
	// Issuance is monotonic: once a certificate exists, later metric changes
	// never revoke it and criteria are not re-evaluated.
	existing, err := l.Get(userID, courseID)
	if err != nil {
		return nil, eligibility.Verdict{}, NotEligible, err
	}
	if existing != nil {
		return existing, alreadyIssuedVerdict(), AlreadyIssued, nil
	}

	verdict := eligibility.Evaluate(criteria, metrics)
	if !verdict.Eligible {
		return nil, verdict, NotEligible, nil
	}

	snapshot, err := json.Marshal(criteria)
	if err != nil {
		return nil, verdict, NotEligible, fmt.Errorf("failed to snapshot criteria: %w", err)
	}

	cert := course.Certificate{
		UserID:           userID,
		CourseID:         courseID,
		Serial:           uuid.NewString(),
		IssuedAt:         time.Now(),
		CriteriaSnapshot: datatypes.JSON(snapshot),
	}

	// Single conditional insert. A conflict means someone else issued the
	// certificate concurrently; re-fetch the winner instead of erroring.
	result := l.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&cert)
	if result.Error != nil {
		return nil, verdict, NotEligible, result.Error
	}
	if result.RowsAffected == 0 {
		winner, err := l.Get(userID, courseID)
		if err != nil {
			return nil, verdict, NotEligible, err
		}
		if winner == nil {
			return nil, verdict, NotEligible, errors.New("certificate insert conflicted but no row found")
		}
		return winner, alreadyIssuedVerdict(), AlreadyIssued, nil
	}

	return &cert, verdict, Issued, nil
}

func alreadyIssuedVerdict() eligibility.Verdict {
	return eligibility.Verdict{Eligible: true, Reason: eligibility.ReasonAlreadyIssued}
}
