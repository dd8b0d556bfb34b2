package partitioner

import (
	"errors"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	ts, err := ParseTime(DefaultTimeLayout, "2017-06-23 15:09:32")
	if err != nil {
		t.Fatal(err)
	}

	p := PartitionOf(ts)
	if p.Month != time.June {
		t.Fatal("mismatched month", p.Month)
	}
	if p.Weekday != time.Friday {
		t.Fatal("mismatched weekday", p.Weekday)
	}
	if p.Hour != 15 {
		t.Fatal("mismatched hour", p.Hour)
	}

	// empty layout falls back to the default
	if _, err := ParseTime("", " 2017-01-01 00:07:57 "); err != nil {
		t.Fatal(err)
	}

	if _, err := ParseTime(DefaultTimeLayout, ""); !errors.Is(err, ErrEmptyTime) {
		t.Fatal("did not get empty time error", err)
	}

	if _, err := ParseTime(DefaultTimeLayout, "2017-06-23T15:09:32Z"); err == nil {
		t.Fatal("parsed a timestamp in the wrong layout")
	}
}

func TestPartitionBounds(t *testing.T) {
	start := time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24*60; h += 7 {
		p := PartitionOf(start.Add(time.Duration(h) * time.Hour))
		if p.Month < time.January || p.Month > time.December {
			t.Fatal("month out of range", p.Month)
		}
		if p.Hour < 0 || p.Hour > 23 {
			t.Fatal("hour out of range", p.Hour)
		}
		if p.Weekday < time.Sunday || p.Weekday > time.Saturday {
			t.Fatal("weekday out of range", p.Weekday)
		}
	}
}

func TestGetPartitionKey(t *testing.T) {
	ts := time.Date(2017, time.January, 1, 9, 7, 57, 0, time.UTC)
	key, err := GetPartitionKey(ts, DefaultPlan)
	if err != nil {
		t.Fatal(err)
	}
	if key != "month=1/weekday=Sunday/hour=9" {
		t.Fatal("bad key", key)
	}

	_, err = GetPartitionKey(ts, []PartitionPlan{{Func: "toMinute", As: "minute"}})
	if !errors.Is(err, ErrFuncNotFound) {
		t.Fatal("did not get func not found", err)
	}
}

func TestLookups(t *testing.T) {
	if d, ok := LookupWeekday("monday"); !ok || d != time.Monday {
		t.Fatal("monday", d, ok)
	}
	if d, ok := LookupWeekday("SUNDAY"); !ok || d != time.Sunday {
		t.Fatal("sunday", d, ok)
	}
	if _, ok := LookupWeekday("mon"); ok {
		t.Fatal("matched an abbreviation")
	}
	if m, ok := LookupMonth("June"); !ok || m != time.June {
		t.Fatal("june", m, ok)
	}
	if m, ok := LookupMonth("december"); !ok || m != time.December {
		t.Fatal("december", m, ok)
	}
	if _, ok := LookupMonth("smarch"); ok {
		t.Fatal("matched a non-month")
	}
}
