package settlement

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"coursely/models/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDb(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "settlement_test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&payment.SettlementRecord{}))
	return db
}

func TestSplitRoundsHalfUp(t *testing.T) {
	// 10% of 9999 is 999.9, which rounds up to 1000.
	admin, teacher := Split(9999, 10)
	assert.Equal(t, int64(1000), admin)
	assert.Equal(t, int64(8999), teacher)
	assert.Equal(t, int64(9999), admin+teacher)
}

func TestSplitNeverLosesACent(t *testing.T) {
	grosses := []int64{0, 1, 3, 49, 50, 99, 100, 101, 9999, 123456789}
	for _, gross := range grosses {
		for percent := 0; percent <= 100; percent++ {
			admin, teacher := Split(gross, percent)
			require.Equal(t, gross, admin+teacher, "gross=%d percent=%d", gross, percent)
			require.GreaterOrEqual(t, admin, int64(0))
			require.GreaterOrEqual(t, teacher, int64(0))
		}
	}
}

func TestSplitEdgePercents(t *testing.T) {
	admin, teacher := Split(500, 0)
	assert.Equal(t, int64(0), admin)
	assert.Equal(t, int64(500), teacher)

	admin, teacher = Split(500, 100)
	assert.Equal(t, int64(500), admin)
	assert.Equal(t, int64(0), teacher)
}

func TestSettleCreatesRecord(t *testing.T) {
	engine := NewEngine(openTestDb(t))

	paidAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	record, created, err := engine.Settle(Payment{
		EnrollmentID: 42,
		UserID:       1,
		CourseID:     2,
		GrossCents:   9999,
		PaidAt:       paidAt,
	}, 10)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(9999), record.GrossCents)
	assert.Equal(t, int64(1000), record.AdminCents)
	assert.Equal(t, int64(8999), record.TeacherCents)
	assert.Equal(t, 10, record.AdminPercent)
	assert.True(t, record.SettledAt.Equal(paidAt))
}

func TestSettleIdempotent(t *testing.T) {
	engine := NewEngine(openTestDb(t))

	p := Payment{EnrollmentID: 42, UserID: 1, CourseID: 2, GrossCents: 5000, PaidAt: time.Now()}

	first, created, err := engine.Settle(p, 10)
	require.NoError(t, err)
	require.True(t, created)

	// Commission changed between the two calls; the frozen record wins.
	second, created, err := engine.Settle(p, 25)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.AdminCents, second.AdminCents)
	assert.Equal(t, 10, second.AdminPercent)

	var count int64
	engine.db.Model(&payment.SettlementRecord{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSettleRejectsNonPositiveAmount(t *testing.T) {
	engine := NewEngine(openTestDb(t))

	_, _, err := engine.Settle(Payment{EnrollmentID: 1, GrossCents: 0}, 10)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = engine.Settle(Payment{EnrollmentID: 1, GrossCents: -500}, 10)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// No record is created on the validation path.
	var count int64
	engine.db.Model(&payment.SettlementRecord{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSettleRejectsOutOfRangePercent(t *testing.T) {
	engine := NewEngine(openTestDb(t))

	_, _, err := engine.Settle(Payment{EnrollmentID: 1, GrossCents: 100}, -1)
	assert.ErrorIs(t, err, ErrInvalidPercent)

	_, _, err = engine.Settle(Payment{EnrollmentID: 1, GrossCents: 100}, 101)
	assert.ErrorIs(t, err, ErrInvalidPercent)
}

func TestSettleConcurrentSingleRecord(t *testing.T) {
	engine := NewEngine(openTestDb(t))

	const callers = 10
	ids := make([]uint, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record, _, err := engine.Settle(Payment{
				EnrollmentID: 77,
				UserID:       1,
				CourseID:     2,
				GrossCents:   10000,
				PaidAt:       time.Now(),
			}, 10)
			errs[i] = err
			if record != nil {
				ids[i] = record.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i], "all callers must see the same settlement")
	}

	var count int64
	engine.db.Model(&payment.SettlementRecord{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSettleDifferentEnrollmentsIndependent(t *testing.T) {
	engine := NewEngine(openTestDb(t))

	for i := uint(1); i <= 3; i++ {
		_, created, err := engine.Settle(Payment{EnrollmentID: i, GrossCents: 1000, PaidAt: time.Now()}, 10)
		require.NoError(t, err)
		assert.True(t, created)
	}

	var count int64
	engine.db.Model(&payment.SettlementRecord{}).Count(&count)
	assert.Equal(t, int64(3), count)
}
