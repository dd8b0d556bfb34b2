package partitioner

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTimeLayout is the start time format of the bikeshare exports, e.g. "2017-06-23 15:09:32".
const DefaultTimeLayout = "2006-01-02 15:04:05"

type (
	// Partition is the set of time buckets a trip falls into.
	Partition struct {
		Month   time.Month
		Weekday time.Weekday
		Hour    int
	}

	PartitionFunc func(t time.Time) string
)

var (
	// Functions render a single bucket of a timestamp, keyed by name.
	Functions = map[string]PartitionFunc{
		"toMonth": func(t time.Time) string {
			return fmt.Sprint(int(t.Month()))
		},
		"toWeekDay": func(t time.Time) string {
			return t.Weekday().String()
		},
		"toHour": func(t time.Time) string {
			return fmt.Sprint(t.Hour())
		},
	}

	// DefaultPlan is the order buckets appear in a partition key.
	DefaultPlan = []PartitionPlan{
		{Func: "toMonth", As: "month"},
		{Func: "toWeekDay", As: "weekday"},
		{Func: "toHour", As: "hour"},
	}

	ErrFuncNotFound = errors.New("partition function not found")
	ErrEmptyTime    = errors.New("empty time value")
)

type PartitionPlan struct {
	Func string
	As   string
}

// ParseTime parses s with layout. Surrounding whitespace is ignored; nothing else is.
func ParseTime(layout, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyTime
	}
	if layout == "" {
		layout = DefaultTimeLayout
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("error in time.Parse: %w", err)
	}
	return t, nil
}

// PartitionOf derives the buckets of t in t's own location.
func PartitionOf(t time.Time) Partition {
	return Partition{
		Month:   t.Month(),
		Weekday: t.Weekday(),
		Hour:    t.Hour(),
	}
}

// GetPartitionKey renders t as "month=6/weekday=Friday/hour=15" following plans.
func GetPartitionKey(t time.Time, plans []PartitionPlan) (string, error) {
	var finalParts []string
	for _, plan := range plans {
		f, ok := Functions[plan.Func]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrFuncNotFound, plan.Func)
		}
		finalParts = append(finalParts, fmt.Sprintf("%s=%s", plan.As, f(t)))
	}
	return strings.Join(finalParts, "/"), nil
}

// WeekdayNames are the English day names, Sunday first to match time.Weekday.
var WeekdayNames = []string{
	time.Sunday.String(),
	time.Monday.String(),
	time.Tuesday.String(),
	time.Wednesday.String(),
	time.Thursday.String(),
	time.Friday.String(),
	time.Saturday.String(),
}

// LookupWeekday matches a full English day name, ignoring case.
func LookupWeekday(name string) (time.Weekday, bool) {
	name = strings.TrimSpace(name)
	for i, n := range WeekdayNames {
		if strings.EqualFold(n, name) {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// LookupMonth matches a full English month name, ignoring case.
func LookupMonth(name string) (time.Month, bool) {
	name = strings.TrimSpace(name)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, true
		}
	}
	return 0, false
}
