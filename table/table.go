package table

import (
	"time"

	"github.com/danthegoodman1/bikeshare/utils"
)

type (
	// Row is a single trip. Month, Weekday and Hour are derived from StartTime at load time.
	Row struct {
		// Num is the zero-based index of the row among the source's data rows
		Num int

		StartTime    time.Time
		EndTime      time.Time
		TripDuration int64
		StartStation string
		EndStation   string
		UserType     string
		Gender       string
		BirthYear    *int

		Month   time.Month
		Weekday time.Weekday
		Hour    int
	}

	// Table is an ordered, immutable set of rows sharing one schema.
	Table struct {
		city   string
		schema Schema
		rows   []Row
	}
)

func (r Row) WeekdayName() string {
	return r.Weekday.String()
}

// Route is the "A to B" pairing of start and end station.
func (r Row) Route() string {
	return r.StartStation + " to " + r.EndStation
}

// New takes ownership of rows; callers must not modify the slice afterwards.
func New(city string, schema Schema, rows []Row) *Table {
	return &Table{
		city:   city,
		schema: schema,
		rows:   utils.ArrayOrEmpty(rows),
	}
}

func (t *Table) City() string {
	return t.city
}

func (t *Table) Schema() Schema {
	return t.schema
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Rows returns a copy of every row in order.
func (t *Table) Rows() []Row {
	return append([]Row(nil), t.rows...)
}

// Page returns a copy of rows[offset:offset+size], clamped to the table. Out of range yields an empty slice.
func (t *Table) Page(offset, size int) []Row {
	if offset < 0 || size <= 0 || offset >= len(t.rows) {
		return []Row{}
	}
	end := offset + size
	if end > len(t.rows) {
		end = len(t.rows)
	}
	return append([]Row(nil), t.rows[offset:end]...)
}

// Filter returns a new table holding the rows that pass keep, in their original order.
func (t *Table) Filter(keep func(Row) bool) *Table {
	rows := make([]Row, 0, len(t.rows))
	for _, r := range t.rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return New(t.city, t.schema, rows)
}
