package report

import (
	"errors"
	"fmt"
	"time"

	"coursely/models/course"
	"coursely/models/payment"

	"gorm.io/gorm"
)

// Granularity selects the period width for revenue buckets.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// ErrInvalidRange is returned for a reversed or unparseable date range.
var ErrInvalidRange = errors.New("invalid date range")

// ErrInvalidGranularity is returned for an unsupported period granularity.
var ErrInvalidGranularity = errors.New("invalid period granularity")

// Bucket holds settlement totals for one period. Periods with no
// transactions are still emitted with zero totals so charts can tell a true
// zero from missing data.
type Bucket struct {
	Period       string    `json:"period"`
	PeriodStart  time.Time `json:"period_start"`
	GrossCents   int64     `json:"gross_cents"`
	AdminCents   int64     `json:"admin_cents"`
	TeacherCents int64     `json:"teacher_cents"`
	Transactions int64     `json:"transactions"`
}

// Totals sums settlements across a whole range.
type Totals struct {
	GrossCents   int64 `json:"gross_cents"`
	AdminCents   int64 `json:"admin_cents"`
	TeacherCents int64 `json:"teacher_cents"`
	Transactions int64 `json:"transactions"`
}

// Filter narrows a report to one teacher's courses. Zero value means no
// filtering (admin view).
type Filter struct {
	TeacherID uint
}

// Aggregator is a read model over settlement records. It never mutates them
// and is safe to run concurrently with in-flight settlements.
type Aggregator struct {
	db *gorm.DB
}

// NewAggregator creates a report aggregator on the given database
func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Aggregate returns one bucket per period between from and to (inclusive),
// in chronological order, zero-filled for empty periods.
func (a *Aggregator) Aggregate(g Granularity, from, to time.Time, filter Filter) ([]Bucket, error) {
	if !validGranularity(g) {
		return nil, ErrInvalidGranularity
	}
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	records, err := a.fetch(from, to, filter)
	if err != nil {
		return nil, err
	}

	// Build the full zero-filled period sequence first, then fold records in.
	buckets := []Bucket{}
	index := map[string]int{}
	for start := truncate(from, g); !start.After(to); start = next(start, g) {
		label := periodLabel(start, g)
		index[label] = len(buckets)
		buckets = append(buckets, Bucket{Period: label, PeriodStart: start})
	}

	for _, r := range records {
		label := periodLabel(truncate(r.SettledAt, g), g)
		i, ok := index[label]
		if !ok {
			continue
		}
		buckets[i].GrossCents += r.GrossCents
		buckets[i].AdminCents += r.AdminCents
		buckets[i].TeacherCents += r.TeacherCents
		buckets[i].Transactions++
	}

	return buckets, nil
}

// Totals sums gross/admin/teacher cents and transaction counts over a range.
// Per-transaction averages are for the caller to derive; they are never stored.
func (a *Aggregator) Totals(from, to time.Time, filter Filter) (Totals, error) {
	if to.Before(from) {
		return Totals{}, ErrInvalidRange
	}

	records, err := a.fetch(from, to, filter)
	if err != nil {
		return Totals{}, err
	}

	totals := Totals{}
	for _, r := range records {
		totals.GrossCents += r.GrossCents
		totals.AdminCents += r.AdminCents
		totals.TeacherCents += r.TeacherCents
		totals.Transactions++
	}
	return totals, nil
}

// Trend reports the percentage change of admin revenue between the two
// halves of a bucket sequence. A zero first half reports +100 when the
// second half is positive, else 0, so growth from a zero base still signals
// without dividing by zero.
func Trend(buckets []Bucket) float64 {
	mid := len(buckets) / 2

	var firstHalf, secondHalf int64
	for i, b := range buckets {
		if i < mid {
			firstHalf += b.AdminCents
		} else {
			secondHalf += b.AdminCents
		}
	}

	if firstHalf == 0 {
		if secondHalf > 0 {
			return 100
		}
		return 0
	}

	return float64(secondHalf-firstHalf) / float64(firstHalf) * 100
}

func (a *Aggregator) fetch(from, to time.Time, filter Filter) ([]payment.SettlementRecord, error) {
	query := a.db.Where("settled_at >= ? AND settled_at <= ?", from, to)
	if filter.TeacherID != 0 {
		query = query.Where("course_id IN (?)",
			a.db.Model(&course.Course{}).Select("id").Where("teacher_id = ? AND is_deleted = ?", filter.TeacherID, false))
	}

	var records []payment.SettlementRecord
	if err := query.Order("settled_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func validGranularity(g Granularity) bool {
	switch g {
	case Day, Week, Month, Year:
		return true
	}
	return false
}

// truncate snaps a timestamp to the start of its period. Weeks start on
// Monday (ISO weeks).
func truncate(t time.Time, g Granularity) time.Time {
	switch g {
	case Day:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case Week:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
		return day.AddDate(0, 0, -offset)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default: // Year
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	}
}

func next(start time.Time, g Granularity) time.Time {
	switch g {
	case Day:
		return start.AddDate(0, 0, 1)
	case Week:
		return start.AddDate(0, 0, 7)
	case Month:
		return start.AddDate(0, 1, 0)
	default: // Year
		return start.AddDate(1, 0, 0)
	}
}

func periodLabel(start time.Time, g Granularity) string {
	switch g {
	case Day:
		return start.Format("2006-01-02")
	case Week:
		year, week := start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Month:
		return start.Format("2006-01")
	default: // Year
		return start.Format("2006")
	}
}
