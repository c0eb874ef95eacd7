package eligibility

import (
	"testing"

	"coursely/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullCriteria() course.CertificateCriteria {
	return course.CertificateCriteria{
		MinProgressPercent:      80,
		RequireAssignments:      true,
		RequiredAssignmentCount: 3,
		RequireExam:             true,
		PassingMarkPercent:      60,
	}
}

func score(v int) *int {
	return &v
}

func TestEvaluateAllCriteriaMet(t *testing.T) {
	verdict := Evaluate(fullCriteria(), Metrics{
		ProgressPercent:      90,
		AssignmentsSubmitted: 3,
		ExamScorePercent:     score(60),
	})

	assert.True(t, verdict.Eligible)
	assert.Equal(t, ReasonAllMet, verdict.Reason)
	require.Len(t, verdict.Details, 3)
	for _, d := range verdict.Details {
		assert.True(t, d.Met, "criterion %s should be met", d.Name)
	}
}

func TestEvaluateAssignmentsUnmetOnly(t *testing.T) {
	verdict := Evaluate(fullCriteria(), Metrics{
		ProgressPercent:      85,
		AssignmentsSubmitted: 2,
		ExamScorePercent:     score(75),
	})

	assert.False(t, verdict.Eligible)
	assert.Equal(t, "assignments criterion not met", verdict.Reason)

	require.Len(t, verdict.Details, 3)
	unmet := []string{}
	for _, d := range verdict.Details {
		if !d.Met {
			unmet = append(unmet, d.Name)
		}
	}
	assert.Equal(t, []string{CriterionAssignments}, unmet)
}

func TestEvaluateReasonNamesFirstUnmetInPriorityOrder(t *testing.T) {
	// Everything fails; the reason must name progress first.
	verdict := Evaluate(fullCriteria(), Metrics{
		ProgressPercent:      10,
		AssignmentsSubmitted: 0,
		ExamScorePercent:     nil,
	})

	assert.False(t, verdict.Eligible)
	assert.Equal(t, "progress criterion not met", verdict.Reason)
}

func TestEvaluateDisabledCriteriaExcluded(t *testing.T) {
	criteria := course.CertificateCriteria{MinProgressPercent: 50}
	verdict := Evaluate(criteria, Metrics{ProgressPercent: 50})

	assert.True(t, verdict.Eligible)
	require.Len(t, verdict.Details, 1)
	assert.Equal(t, CriterionProgress, verdict.Details[0].Name)
}

func TestEvaluateMissingExamScoreNeverTreatedAsZero(t *testing.T) {
	criteria := course.CertificateCriteria{
		MinProgressPercent: 0,
		RequireExam:        true,
		PassingMarkPercent: 0, // even a zero passing mark needs an attempt
	}

	verdict := Evaluate(criteria, Metrics{ProgressPercent: 100})
	assert.False(t, verdict.Eligible)
	assert.Equal(t, "exam criterion not met", verdict.Reason)

	require.Len(t, verdict.Details, 2)
	exam := verdict.Details[1]
	assert.Equal(t, CriterionExam, exam.Name)
	assert.Nil(t, exam.Current)
	assert.False(t, exam.Met)
}

func TestEvaluateBoundaryValuesCountAsMet(t *testing.T) {
	verdict := Evaluate(fullCriteria(), Metrics{
		ProgressPercent:      80,
		AssignmentsSubmitted: 3,
		ExamScorePercent:     score(60),
	})
	assert.True(t, verdict.Eligible)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	criteria := fullCriteria()
	metrics := Metrics{
		ProgressPercent:      85,
		AssignmentsSubmitted: 2,
		ExamScorePercent:     score(75),
	}

	first := Evaluate(criteria, metrics)
	second := Evaluate(criteria, metrics)

	assert.Equal(t, first.Eligible, second.Eligible)
	assert.Equal(t, first.Reason, second.Reason)
	require.Equal(t, len(first.Details), len(second.Details))
	for i := range first.Details {
		assert.Equal(t, first.Details[i].Name, second.Details[i].Name)
		assert.Equal(t, first.Details[i].Met, second.Details[i].Met)
		assert.Equal(t, first.Details[i].Threshold, second.Details[i].Threshold)
	}
}

func TestEvaluateEligibleIffAllConfiguredMet(t *testing.T) {
	cases := []Metrics{
		{ProgressPercent: 100, AssignmentsSubmitted: 5, ExamScorePercent: score(100)},
		{ProgressPercent: 79, AssignmentsSubmitted: 5, ExamScorePercent: score(100)},
		{ProgressPercent: 100, AssignmentsSubmitted: 0, ExamScorePercent: score(100)},
		{ProgressPercent: 100, AssignmentsSubmitted: 5, ExamScorePercent: score(59)},
		{ProgressPercent: 100, AssignmentsSubmitted: 5, ExamScorePercent: nil},
	}

	for _, m := range cases {
		verdict := Evaluate(fullCriteria(), m)
		allMet := true
		for _, d := range verdict.Details {
			if !d.Met {
				allMet = false
			}
		}
		assert.Equal(t, allMet, verdict.Eligible)
	}
}
