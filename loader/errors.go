package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danthegoodman1/bikeshare/table"
	"github.com/danthegoodman1/bikeshare/utils"
)

var (
	// ErrCityNotConfigured means the city is supported but the mapping has no source for it
	ErrCityNotConfigured = errors.New("city has no configured data source")
	ErrNoDataStore       = utils.PermError("no datastore configured")
	ErrNoDB              = utils.PermError("no database configured")
)

type UnknownCityError struct {
	City string
}

func (e *UnknownCityError) Error() string {
	return fmt.Sprintf("unknown city %q, expected one of: %s", e.City, strings.Join(SupportedCities, ", "))
}

type MissingColumnError struct {
	City    string
	Columns []table.Column
}

func (e *MissingColumnError) Error() string {
	names := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		names[i] = string(c)
	}
	return fmt.Sprintf("%s dataset is missing required columns: %s", e.City, strings.Join(names, ", "))
}

// MalformedRecordError is a cell that failed to parse. Row is the zero-based data row index.
type MalformedRecordError struct {
	Row    int
	Column table.Column
	Value  string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at row %d: bad %s %q: %s", e.Row, e.Column, e.Value, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
