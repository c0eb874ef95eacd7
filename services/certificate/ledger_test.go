package certificate

import (
	"path/filepath"
	"sync"
	"testing"

	"coursely/models/course"
	"coursely/services/eligibility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDb(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "ledger_test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&course.Certificate{}))
	return db
}

func passingMetrics() eligibility.Metrics {
	score := 75
	return eligibility.Metrics{
		ProgressPercent:      90,
		AssignmentsSubmitted: 3,
		ExamScorePercent:     &score,
	}
}

func testCriteria() course.CertificateCriteria {
	return course.CertificateCriteria{
		MinProgressPercent:      80,
		RequireAssignments:      true,
		RequiredAssignmentCount: 3,
		RequireExam:             true,
		PassingMarkPercent:      60,
	}
}

func TestIssueIfEligibleIssuesOnce(t *testing.T) {
	ledger := NewLedger(openTestDb(t))

	cert, verdict, outcome, err := ledger.IssueIfEligible(1, 2, testCriteria(), passingMetrics())
	require.NoError(t, err)
	assert.Equal(t, Issued, outcome)
	assert.True(t, verdict.Eligible)
	require.NotNil(t, cert)
	assert.NotEmpty(t, cert.Serial)
	assert.Equal(t, uint(1), cert.UserID)
	assert.Equal(t, uint(2), cert.CourseID)
	assert.NotEmpty(t, cert.CriteriaSnapshot)
}

func TestIssueIfEligibleNotEligible(t *testing.T) {
	ledger := NewLedger(openTestDb(t))

	metrics := passingMetrics()
	metrics.AssignmentsSubmitted = 1

	cert, verdict, outcome, err := ledger.IssueIfEligible(1, 2, testCriteria(), metrics)
	require.NoError(t, err)
	assert.Equal(t, NotEligible, outcome)
	assert.Nil(t, cert)
	assert.False(t, verdict.Eligible)
	assert.NotEmpty(t, verdict.Details)

	// No partial state left behind.
	got, err := ledger.Get(1, 2)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIssueIfEligibleIdempotent(t *testing.T) {
	ledger := NewLedger(openTestDb(t))

	first, _, outcome, err := ledger.IssueIfEligible(1, 2, testCriteria(), passingMetrics())
	require.NoError(t, err)
	require.Equal(t, Issued, outcome)

	second, verdict, outcome, err := ledger.IssueIfEligible(1, 2, testCriteria(), passingMetrics())
	require.NoError(t, err)
	assert.Equal(t, AlreadyIssued, outcome)
	assert.Equal(t, eligibility.ReasonAlreadyIssued, verdict.Reason)
	assert.Equal(t, first.Serial, second.Serial)

	var count int64
	ledger.db.Model(&course.Certificate{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestIssueShortCircuitsAfterIssuanceEvenIfMetricsRegress(t *testing.T) {
	ledger := NewLedger(openTestDb(t))

	_, _, outcome, err := ledger.IssueIfEligible(1, 2, testCriteria(), passingMetrics())
	require.NoError(t, err)
	require.Equal(t, Issued, outcome)

	// Metrics that would fail evaluation must not revoke the certificate.
	cert, verdict, outcome, err := ledger.IssueIfEligible(1, 2, testCriteria(), eligibility.Metrics{})
	require.NoError(t, err)
	assert.Equal(t, AlreadyIssued, outcome)
	assert.True(t, verdict.Eligible)
	require.NotNil(t, cert)
}

func TestIssueIfEligibleConcurrentSingleWinner(t *testing.T) {
	ledger := NewLedger(openTestDb(t))

	const callers = 10
	serials := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cert, _, _, err := ledger.IssueIfEligible(7, 9, testCriteria(), passingMetrics())
			errs[i] = err
			if cert != nil {
				serials[i] = cert.Serial
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, serials[0], serials[i], "all callers must see the same certificate")
	}

	var count int64
	ledger.db.Model(&course.Certificate{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDifferentPairsAreIndependent(t *testing.T) {
	ledger := NewLedger(openTestDb(t))

	a, _, _, err := ledger.IssueIfEligible(1, 2, testCriteria(), passingMetrics())
	require.NoError(t, err)
	b, _, _, err := ledger.IssueIfEligible(1, 3, testCriteria(), passingMetrics())
	require.NoError(t, err)
	c, _, _, err := ledger.IssueIfEligible(2, 2, testCriteria(), passingMetrics())
	require.NoError(t, err)

	assert.NotEqual(t, a.Serial, b.Serial)
	assert.NotEqual(t, a.Serial, c.Serial)
}

func TestGetBySerial(t *testing.T) {
	ledger := NewLedger(openTestDb(t))

	issued, _, _, err := ledger.IssueIfEligible(1, 2, testCriteria(), passingMetrics())
	require.NoError(t, err)

	found, err := ledger.GetBySerial(issued.Serial)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, issued.ID, found.ID)

	missing, err := ledger.GetBySerial("not-a-serial")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
