// Package filter narrows a table to a month and weekday.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danthegoodman1/bikeshare/partitioner"
	"github.com/danthegoodman1/bikeshare/table"
)

// All is the selector text that disables a filter.
const All = "all"

// LastSupportedMonth is the last month the datasets cover.
const LastSupportedMonth = time.June

var (
	ErrInvalidMonth   = errors.New("invalid month")
	ErrInvalidWeekday = errors.New("invalid day")
)

type UnsupportedMonthError struct {
	Month time.Month
}

func (e *UnsupportedMonthError) Error() string {
	return fmt.Sprintf("no data for %s, only january through %s are available", strings.ToLower(e.Month.String()), strings.ToLower(LastSupportedMonth.String()))
}

type (
	// MonthSelector is 0 for all months, else the month to keep.
	MonthSelector time.Month
	// WeekdaySelector is 0 for all days, else the day to keep plus one, so the zero value matches
	// every day as MonthSelector's does.
	WeekdaySelector int
)

const (
	AllMonths   MonthSelector   = 0
	AllWeekdays WeekdaySelector = 0
)

func MonthOf(m time.Month) MonthSelector {
	return MonthSelector(m)
}

func WeekdayOf(d time.Weekday) WeekdaySelector {
	return WeekdaySelector(d) + 1
}

// Weekday is the day to keep. It is meaningless when IsAll.
func (d WeekdaySelector) Weekday() time.Weekday {
	return time.Weekday(d - 1)
}

func (m MonthSelector) IsAll() bool {
	return m == AllMonths
}

func (m MonthSelector) String() string {
	if m.IsAll() {
		return All
	}
	return strings.ToLower(time.Month(m).String())
}

func (d WeekdaySelector) IsAll() bool {
	return d == AllWeekdays
}

func (d WeekdaySelector) String() string {
	if d.IsAll() {
		return All
	}
	return strings.ToLower(d.Weekday().String())
}

// Validate checks a selector built without ParseMonth.
func (m MonthSelector) Validate() error {
	switch {
	case m.IsAll():
		return nil
	case time.Month(m) >= time.January && time.Month(m) <= LastSupportedMonth:
		return nil
	case time.Month(m) > LastSupportedMonth && time.Month(m) <= time.December:
		return &UnsupportedMonthError{Month: time.Month(m)}
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMonth, int(m))
	}
}

func (d WeekdaySelector) Validate() error {
	if d.IsAll() || (d.Weekday() >= time.Sunday && d.Weekday() <= time.Saturday) {
		return nil
	}
	return fmt.Errorf("%w: %d", ErrInvalidWeekday, int(d))
}

// ParseMonth accepts "all", "" or a full month name in any case.
func ParseMonth(s string) (MonthSelector, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, All) {
		return AllMonths, nil
	}
	m, ok := partitioner.LookupMonth(s)
	if !ok {
		return AllMonths, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	sel := MonthOf(m)
	if err := sel.Validate(); err != nil {
		return AllMonths, err
	}
	return sel, nil
}

// ParseWeekday accepts "all", "" or a full weekday name in any case.
func ParseWeekday(s string) (WeekdaySelector, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, All) {
		return AllWeekdays, nil
	}
	d, ok := partitioner.LookupWeekday(s)
	if !ok {
		return AllWeekdays, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
	}
	return WeekdayOf(d), nil
}

// SupportedMonths are the month names ParseMonth accepts besides "all".
func SupportedMonths() []string {
	var names []string
	for m := time.January; m <= LastSupportedMonth; m++ {
		names = append(names, strings.ToLower(m.String()))
	}
	return names
}

// Apply keeps the rows matching both selectors, in source order. t is not modified.
func Apply(t *table.Table, m MonthSelector, d WeekdaySelector) (*table.Table, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if m.IsAll() && d.IsAll() {
		return t.Filter(func(table.Row) bool { return true }), nil
	}
	return t.Filter(func(r table.Row) bool {
		if !m.IsAll() && r.Month != time.Month(m) {
			return false
		}
		if !d.IsAll() && r.Weekday != d.Weekday() {
			return false
		}
		return true
	}), nil
}
