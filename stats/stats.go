// Package stats computes the descriptive statistics of a trips table.
//
// Every Compute function is a pure read of its table, so the groups can run concurrently over the
// same table (see Compute). Modes break ties by first occurrence in table order.
package stats

import (
	"errors"
	"math"
	"time"

	"github.com/danthegoodman1/bikeshare/table"
)

var (
	ErrEmptyTable       = errors.New("no data: the table has no rows")
	ErrDurationOverflow = errors.New("total trip duration overflows int64 seconds")
)

// Optional is a statistic that a city's schema may not support. Available is false when the
// column is absent from the source, never because of the row count.
type Optional[T any] struct {
	Available bool `json:"available"`
	Value     T    `json:"value"`
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Available: true, Value: v}
}

func Unavailable[T any]() Optional[T] {
	return Optional[T]{}
}

type (
	TimeStats struct {
		Month   Mode[time.Month] `json:"month"`
		Weekday Mode[string]     `json:"weekday"`
		Hour    Mode[int]        `json:"hour"`
	}

	StationStats struct {
		Start Mode[string] `json:"start"`
		End   Mode[string] `json:"end"`
		// Route is the mode of "start to end", not a pairing of the two modes above
		Route Mode[string] `json:"route"`
	}

	DurationStats struct {
		TotalSeconds int64   `json:"totalSeconds"`
		MeanSeconds  float64 `json:"meanSeconds"`
		Trips        int     `json:"trips"`
	}

	BirthYearStats struct {
		Min  int `json:"min"`
		Max  int `json:"max"`
		Mode int `json:"mode"`
		// Observed is how many rows had a birth year; the other fields are zero when it is 0
		Observed int `json:"observed"`
	}

	UserStats struct {
		UserTypes []Count                  `json:"userTypes"`
		Gender    Optional[[]Count]        `json:"gender"`
		BirthYear Optional[BirthYearStats] `json:"birthYear"`
	}
)

func ComputeTimeStats(t *table.Table) (TimeStats, error) {
	if t.Len() == 0 {
		return TimeStats{}, ErrEmptyTable
	}
	months := newCounter[time.Month]()
	days := newCounter[string]()
	hours := newCounter[int]()
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		months.add(r.Month)
		days.add(r.WeekdayName())
		hours.add(r.Hour)
	}
	var s TimeStats
	s.Month, _ = months.mode()
	s.Weekday, _ = days.mode()
	s.Hour, _ = hours.mode()
	return s, nil
}

// ComputeStationStats skips blank stations; a route needs both ends.
func ComputeStationStats(t *table.Table) (StationStats, error) {
	if t.Len() == 0 {
		return StationStats{}, ErrEmptyTable
	}
	starts := newCounter[string]()
	ends := newCounter[string]()
	routes := newCounter[string]()
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if r.StartStation != "" {
			starts.add(r.StartStation)
		}
		if r.EndStation != "" {
			ends.add(r.EndStation)
		}
		if r.StartStation != "" && r.EndStation != "" {
			routes.add(r.Route())
		}
	}
	var s StationStats
	s.Start, _ = starts.mode()
	s.End, _ = ends.mode()
	s.Route, _ = routes.mode()
	return s, nil
}

// ComputeDurationStats fails on an empty table since the mean is undefined.
func ComputeDurationStats(t *table.Table) (DurationStats, error) {
	if t.Len() == 0 {
		return DurationStats{}, ErrEmptyTable
	}
	var total int64
	for i := 0; i < t.Len(); i++ {
		d := t.Row(i).TripDuration
		if d > 0 && total > math.MaxInt64-d {
			return DurationStats{}, ErrDurationOverflow
		}
		total += d
	}
	return DurationStats{
		TotalSeconds: total,
		MeanSeconds:  float64(total) / float64(t.Len()),
		Trips:        t.Len(),
	}, nil
}

// ComputeUserStats never fails. Blank user types and genders are not counted.
func ComputeUserStats(t *table.Table) UserStats {
	schema := t.Schema()
	types := newCounter[string]()
	genders := newCounter[string]()
	years := newCounter[int]()
	by := BirthYearStats{}

	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if r.UserType != "" {
			types.add(r.UserType)
		}
		if schema.HasGender() && r.Gender != "" {
			genders.add(r.Gender)
		}
		if schema.HasBirthYear() && r.BirthYear != nil {
			y := *r.BirthYear
			if by.Observed == 0 || y < by.Min {
				by.Min = y
			}
			if by.Observed == 0 || y > by.Max {
				by.Max = y
			}
			by.Observed++
			years.add(y)
		}
	}

	ident := func(s string) string { return s }
	s := UserStats{
		UserTypes: types.sorted(ident),
		Gender:    Unavailable[[]Count](),
		BirthYear: Unavailable[BirthYearStats](),
	}
	if schema.HasGender() {
		s.Gender = Some(genders.sorted(ident))
	}
	if schema.HasBirthYear() {
		if m, ok := years.mode(); ok {
			by.Mode = m.Value
		}
		s.BirthYear = Some(by)
	}
	return s
}
