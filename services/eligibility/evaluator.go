package eligibility

import (
	"fmt"

	"coursely/models/course"
)

// Metrics is a read-only snapshot of a student's standing in a course at
// evaluation time. ExamScorePercent is nil when the student has no attempt;
// that is never the same thing as a score of zero.
type Metrics struct {
	ProgressPercent      int  `json:"progress_percent"`
	AssignmentsSubmitted int  `json:"assignments_submitted"`
	ExamScorePercent     *int `json:"exam_score_percent"`
}

// Criterion is the per-rule breakdown shown in the eligibility modal.
// Current is nil only for an exam criterion with no attempt on record.
type Criterion struct {
	Name      string `json:"name"`
	Current   *int   `json:"current"`
	Threshold int    `json:"threshold"`
	Met       bool   `json:"met"`
}

// Verdict is the outcome of evaluating a student against a course's
// certificate criteria.
type Verdict struct {
	Eligible bool        `json:"eligible"`
	Reason   string      `json:"reason"`
	Details  []Criterion `json:"details"`
}

// Criterion names as they appear in verdict details.
const (
	CriterionProgress    = "progress"
	CriterionAssignments = "assignments"
	CriterionExam        = "exam"
)

// ReasonAllMet is the verdict reason when every configured criterion passes.
const ReasonAllMet = "all criteria met"

// ReasonAlreadyIssued is the short-circuit reason used by the certificate
// ledger when a certificate already exists; issuance is never revoked by
// later metric changes, so criteria are not re-evaluated.
const ReasonAlreadyIssued = "already issued"

// Evaluate applies a course's certificate criteria to a metrics snapshot.
// It is pure: no I/O, no side effects, identical inputs give identical
// verdicts. Disabled criteria are excluded from both the decision and the
// details list. The reason names the first unmet criterion in the fixed
// order progress > assignments > exam.
func Evaluate(criteria course.CertificateCriteria, m Metrics) Verdict {
	details := make([]Criterion, 0, 3)

	progress := Criterion{
		Name:      CriterionProgress,
		Current:   intPtr(m.ProgressPercent),
		Threshold: criteria.MinProgressPercent,
		Met:       m.ProgressPercent >= criteria.MinProgressPercent,
	}
	details = append(details, progress)

	if criteria.RequireAssignments {
		details = append(details, Criterion{
			Name:      CriterionAssignments,
			Current:   intPtr(m.AssignmentsSubmitted),
			Threshold: criteria.RequiredAssignmentCount,
			Met:       m.AssignmentsSubmitted >= criteria.RequiredAssignmentCount,
		})
	}

	if criteria.RequireExam {
		exam := Criterion{
			Name:      CriterionExam,
			Threshold: criteria.PassingMarkPercent,
		}
		// A missing exam attempt is always unmet, even against a zero
		// passing mark.
		if m.ExamScorePercent != nil {
			exam.Current = intPtr(*m.ExamScorePercent)
			exam.Met = *m.ExamScorePercent >= criteria.PassingMarkPercent
		}
		details = append(details, exam)
	}

	verdict := Verdict{Eligible: true, Reason: ReasonAllMet, Details: details}
	for _, d := range details {
		if !d.Met {
			verdict.Eligible = false
			verdict.Reason = fmt.Sprintf("%s criterion not met", d.Name)
			break
		}
	}

	return verdict
}

func intPtr(v int) *int {
	return &v
}
