package main

import (
	"context"
	"fmt"
	"os"

	"github.com/danthegoodman1/bikeshare/loader"
	"github.com/danthegoodman1/bikeshare/parquet_accumulator"
	"github.com/danthegoodman1/bikeshare/partitioner"
	"github.com/danthegoodman1/bikeshare/table"
)

// tripFields lays a table out as parquet rows with snake_case column names, times formatted with
// layout. The declared fields keep every schema column in the file even when all its values are null.
func tripFields(t *table.Table, layout string) (declared []parquet_accumulator.Field, rows [][]parquet_accumulator.Field) {
	cols := t.Schema().Columns()
	for _, c := range cols {
		declared = append(declared, parquet_accumulator.Field{Name: c.Snake(), Value: sampleValue(c)})
	}

	rows = make([][]parquet_accumulator.Field, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		row := make([]parquet_accumulator.Field, 0, len(cols))
		for _, c := range cols {
			row = append(row, parquet_accumulator.Field{Name: c.Snake(), Value: fieldValue(r, c, layout)})
		}
		rows = append(rows, row)
	}
	return declared, rows
}

func sampleValue(c table.Column) any {
	switch c {
	case table.ColTripDuration, table.ColBirthYear:
		return int64(0)
	default:
		return ""
	}
}

func fieldValue(r table.Row, c table.Column, layout string) any {
	if layout == "" {
		layout = partitioner.DefaultTimeLayout
	}
	switch c {
	case table.ColStartTime:
		return r.StartTime.Format(layout)
	case table.ColEndTime:
		if r.EndTime.IsZero() {
			return nil
		}
		return r.EndTime.Format(layout)
	case table.ColTripDuration:
		return r.TripDuration
	case table.ColStartStation:
		return r.StartStation
	case table.ColEndStation:
		return r.EndStation
	case table.ColUserType:
		return r.UserType
	case table.ColGender:
		return r.Gender
	case table.ColBirthYear:
		if r.BirthYear == nil {
			return nil
		}
		return int64(*r.BirthYear)
	}
	return nil
}

// convertCity loads city and writes it to outPath as parquet, returning the rows written. Times keep
// the city's configured layout so the file reloads under the same config.
func convertCity(ctx context.Context, l *loader.Loader, city, outPath string) (int, error) {
	t, err := l.Load(ctx, city)
	if err != nil {
		return 0, fmt.Errorf("error loading %s: %w", city, err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("error in os.Create: %w", err)
	}
	defer f.Close()

	src, _ := l.Source(city)
	declared, rows := tripFields(t, src.TimeLayout)
	acc, err := parquet_accumulator.WriteRows(f, rows, declared...)
	if err != nil {
		return 0, fmt.Errorf("error in WriteRows: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("error closing %s: %w", outPath, err)
	}
	logger.Debug().Strs("columns", acc.GetColumnNames()).Strs("types", acc.GetColumnTypes()).Msg("wrote parquet schema")
	return t.Len(), nil
}
