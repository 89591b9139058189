package domain

import (
	"regexp"
	"strconv"
	"time"
)

const monthLayout = "2006-01"

var monthKeyRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// MonthKey identifies a calendar month as "yyyy-MM". Keys order
// lexicographically in calendar order, so plain string comparison works.
type MonthKey string

// MonthOf returns the month key of t in t's own location.
func MonthOf(t time.Time) MonthKey {
	return MonthKey(t.Format(monthLayout))
}

// ParseMonthKey validates s and returns it as a MonthKey.
func ParseMonthKey(s string) (MonthKey, error) {
	if !monthKeyRegex.MatchString(s) {
		return "", ErrInvalidMonthFormat
	}
	m, _ := strconv.Atoi(s[5:])
	if m < 1 || m > 12 {
		return "", ErrInvalidMonthFormat
	}
	return MonthKey(s), nil
}

// String returns the "yyyy-MM" form.
func (k MonthKey) String() string { return string(k) }

// FirstDay returns midnight UTC on the first day of the month.
func (k MonthKey) FirstDay() time.Time {
	t, err := time.Parse(monthLayout, string(k))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Before reports whether k is an earlier month than o.
func (k MonthKey) Before(o MonthKey) bool { return k < o }

// After reports whether k is a later month than o.
func (k MonthKey) After(o MonthKey) bool { return k > o }

// MonthsSince returns the number of whole months from o to k (negative when
// k precedes o).
func (k MonthKey) MonthsSince(o MonthKey) int {
	a, b := k.FirstDay(), o.FirstDay()
	return (a.Year()-b.Year())*12 + int(a.Month()) - int(b.Month())
}

// DayIn returns the given day of this month at midnight UTC, clamped to the
// month's last day.
func (k MonthKey) DayIn(day int) time.Time {
	first := k.FirstDay()
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
