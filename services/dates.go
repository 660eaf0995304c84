package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout là định dạng ngày duy nhất mà draft được phép mang
const DateLayout = "2006-01-02"

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	ordinalSuffix  = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
)

// Các layout không có năm mà model hay trả về ("June 3", "3rd June" sau khi bỏ hậu tố)
var yearlessLayouts = []string{
	"January 2",
	"Jan 2",
	"2 January",
	"2 Jan",
	"Monday, January 2",
	"Mon, Jan 2",
}

// RepairDate chuẩn hoá ngày do model trả về về dạng YYYY-MM-DD.
// Năm nhỏ hơn năm tham chiếu bị thay bằng năm tham chiếu, giữ nguyên tháng/ngày.
// Nếu không đọc được ngày hợp lệ thì trả về ngày tham chiếu và inferred = true.
func RepairDate(raw string, ref time.Time) (date string, inferred bool) {
	s := strings.TrimSpace(raw)
	refYear := ref.Year()

	if isoDatePattern.MatchString(s) {
		year, _ := strconv.Atoi(s[:4])
		if year < refYear {
			s = fmt.Sprintf("%04d%s", refYear, s[4:])
		}
		if isCalendarDate(s) {
			return s, false
		}
		return ref.Format(DateLayout), true
	}

	if t, ok := parseLooseDate(s, ref.Location()); ok {
		year := t.Year()
		if year < refYear {
			year = refYear
		}
		out := fmt.Sprintf("%04d-%02d-%02d", year, int(t.Month()), t.Day())
		if isCalendarDate(out) {
			return out, false
		}
	}

	return ref.Format(DateLayout), true
}

func parseLooseDate(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	cleaned := ordinalSuffix.ReplaceAllString(s, "$1")

	for _, layout := range yearlessLayouts {
		if t, err := time.ParseInLocation(layout, cleaned, loc); err == nil {
			return t, true
		}
	}

	t, err := dateparse.ParseIn(cleaned, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func isCalendarDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ParseCalendarDate đọc "YYYY-MM-DD" hoặc RFC3339 và trả về 00:00 của ngày đó trong loc
func ParseCalendarDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, newValidationError("date", "Please select a date")
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, newValidationError("date", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	t = t.In(loc)
	return StartOfDay(t), nil
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay so sánh theo ngày lịch trong loc, bỏ qua giờ
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
