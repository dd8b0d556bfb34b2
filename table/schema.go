package table

import "github.com/danthegoodman1/bikeshare/utils"

type Column string

const (
	ColStartTime    Column = "Start Time"
	ColEndTime      Column = "End Time"
	ColTripDuration Column = "Trip Duration"
	ColStartStation Column = "Start Station"
	ColEndStation   Column = "End Station"
	ColUserType     Column = "User Type"
	ColGender       Column = "Gender"
	ColBirthYear    Column = "Birth Year"
)

var (
	// AllColumns is the canonical column order.
	AllColumns = []Column{
		ColStartTime,
		ColEndTime,
		ColTripDuration,
		ColStartStation,
		ColEndStation,
		ColUserType,
		ColGender,
		ColBirthYear,
	}

	RequiredColumns = []Column{
		ColStartTime,
		ColTripDuration,
		ColStartStation,
		ColEndStation,
		ColUserType,
	}
)

// Snake is the column name used in parquet files and the SQL schema, e.g. "start_time".
func (c Column) Snake() string {
	b := []byte(string(c))
	for i, ch := range b {
		switch {
		case ch == ' ':
			b[i] = '_'
		case ch >= 'A' && ch <= 'Z':
			b[i] = ch + ('a' - 'A')
		}
	}
	return string(b)
}

// MatchColumn maps a source header to its canonical column. Case, spaces, underscores and hyphens are ignored.
func MatchColumn(header string) (Column, bool) {
	key := utils.NormalizeKey(header)
	for _, c := range AllColumns {
		if utils.NormalizeKey(string(c)) == key {
			return c, true
		}
	}
	return "", false
}

// Schema records which canonical columns a table's source carried.
type Schema struct {
	columns []Column
}

// NewSchema keeps the canonical columns in canonical order, dropping duplicates.
func NewSchema(cols ...Column) Schema {
	present := make(map[Column]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}
	s := Schema{}
	for _, c := range AllColumns {
		if present[c] {
			s.columns = append(s.columns, c)
		}
	}
	return s
}

func (s Schema) Columns() []Column {
	return append([]Column(nil), s.columns...)
}

func (s Schema) Has(c Column) bool {
	for _, have := range s.columns {
		if have == c {
			return true
		}
	}
	return false
}

func (s Schema) HasEndTime() bool {
	return s.Has(ColEndTime)
}

func (s Schema) HasGender() bool {
	return s.Has(ColGender)
}

func (s Schema) HasBirthYear() bool {
	return s.Has(ColBirthYear)
}

// Missing returns the required columns the schema lacks.
func (s Schema) Missing() []Column {
	var missing []Column
	for _, c := range RequiredColumns {
		if !s.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
