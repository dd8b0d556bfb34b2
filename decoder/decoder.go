// Package decoder turns dataset bytes into a RawTable of header names and text cells.
// Typed parsing happens in the loader, so every format goes through the same rules.
package decoder

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

type Format string

const (
	FormatCSV     Format = "csv"
	FormatNDJSON  Format = "ndjson"
	FormatParquet Format = "parquet"
)

var (
	ErrUnknownFormat = errors.New("unknown dataset format")
	ErrNoHeader      = errors.New("dataset has no header row")
)

// RawTable is a dataset before typing. Every record has len(Columns) cells; missing cells are "".
type RawTable struct {
	Columns []string
	Records [][]string
}

// ColumnIndex returns the index of the first column for which match is true, or -1.
func (rt *RawTable) ColumnIndex(match func(name string) bool) int {
	for i, c := range rt.Columns {
		if match(c) {
			return i
		}
	}
	return -1
}

// FormatFromLocation guesses the format from the location's extension, defaulting to CSV.
func FormatFromLocation(location string) Format {
	switch strings.ToLower(path.Ext(location)) {
	case ".parquet":
		return FormatParquet
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	default:
		return FormatCSV
	}
}

func Decode(format Format, data []byte) (*RawTable, error) {
	switch format {
	case FormatCSV, "":
		return DecodeCSV(data)
	case FormatNDJSON:
		return DecodeNDJSON(data)
	case FormatParquet:
		return DecodeParquet(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
