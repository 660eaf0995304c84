package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairDateReplacesStaleYear(t *testing.T) {
	ref := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	date, inferred := RepairDate("2023-03-15", ref)
	assert.Equal(t, "2025-03-15", date)
	assert.False(t, inferred)
}

func TestRepairDateKeepsCurrentAndFutureYears(t *testing.T) {
	ref := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	cases := []string{"2026-01-01", "2025-06-10", "2025-01-31"}
	for _, in := range cases {
		date, inferred := RepairDate(in, ref)
		assert.Equal(t, in, date)
		assert.False(t, inferred, in)
	}
}

func TestRepairDateParsesLooseExpressions(t *testing.T) {
	ref := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	cases := map[string]string{
		"June 3rd":             "2025-06-03",
		"3rd June":             "2025-06-03",
		"Jul 14":               "2025-07-14",
		"March 5, 2023":        "2025-03-05",
		"2027/02/01":           "2027-02-01",
		"2024-12-24T10:00:00Z": "2025-12-24",
	}
	for in, want := range cases {
		date, inferred := RepairDate(in, ref)
		assert.Equal(t, want, date, in)
		assert.False(t, inferred, in)
	}
}

func TestRepairDateFallsBackToReferenceDate(t *testing.T) {
	ref := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	for _, in := range []string{"", "soon", "2025-13-45", "2025-02-30"} {
		date, inferred := RepairDate(in, ref)
		assert.Equal(t, "2025-06-10", date, in)
		assert.True(t, inferred, in)
	}
}

func TestRepairDateLeapDayMovedToNonLeapYear(t *testing.T) {
	ref := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	date, inferred := RepairDate("2024-02-29", ref)
	assert.Equal(t, "2025-01-02", date)
	assert.True(t, inferred)
}

func TestParseCalendarDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	day, err := ParseCalendarDate("2025-06-13", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 13, 0, 0, 0, 0, loc), day)

	// nửa đêm giờ địa phương được client gửi dưới dạng UTC
	day, err = ParseCalendarDate("2025-06-12T17:00:00.000Z", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 13, 0, 0, 0, 0, loc), day)

	_, err = ParseCalendarDate("", loc)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please select a date", verr.Msg)

	_, err = ParseCalendarDate("13/06/2025", loc)
	require.ErrorAs(t, err, &verr)
}

func TestSameDayIgnoresTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	a := time.Date(2025, 6, 12, 17, 0, 0, 0, time.UTC) // 00:00 ngày 13 tại VN
	b := time.Date(2025, 6, 13, 23, 30, 0, 0, loc)
	assert.True(t, SameDay(a, b, loc))
	assert.False(t, SameDay(a, b, time.UTC))
}
