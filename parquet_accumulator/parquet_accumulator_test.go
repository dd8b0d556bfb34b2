package parquet_accumulator

import (
	"bytes"
	"testing"

	"github.com/danthegoodman1/bikeshare/utils"
)

func TestGetSchemaString(t *testing.T) {
	a := NewParquetAccumulator()
	a.WriteRow([]Field{
		{Name: "start_station", Value: "Clark St"},
		{Name: "birth_year", Value: nil},
	})
	a.WriteRow([]Field{
		{Name: "trip_duration", Value: int64(320)},
	})
	a.WriteRow([]Field{
		{Name: "start_station", Value: "Lake St"},
		{Name: "birth_year", Value: 1992.0},
	})

	schemaString, err := a.GetSchemaString()
	if err != nil {
		t.Fatal(err)
	}
	if schemaString != `{"Tag":"name=parquet_go_root, repetitiontype=REQUIRED","Fields":[{"Tag":"type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN, name=start_station, repetitiontype=OPTIONAL"},{"Tag":"type=INT64, name=trip_duration, repetitiontype=OPTIONAL"},{"Tag":"type=DOUBLE, name=birth_year, repetitiontype=OPTIONAL"}]}` {
		t.Log(schemaString)
		t.Fatal("got incorrect schema string")
	}

	names := a.GetColumnNames()
	types := a.GetColumnTypes()
	if len(names) != 3 || names[2] != "birth_year" || types[1] != "int" || types[2] != "float" {
		t.Fatal("bad columns", names, types)
	}
}

func TestWriteRows(t *testing.T) {
	var b bytes.Buffer
	acc, err := WriteRows(&b, [][]Field{
		{{Name: "gender", Value: "Female"}, {Name: "birth_year", Value: utils.Ptr(int64(1990))}},
		{{Name: "gender", Value: nil}, {Name: "birth_year", Value: (*int64)(nil)}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() == 0 {
		t.Fatal("nothing written")
	}
	// parquet files start and end with the magic bytes
	if !bytes.HasPrefix(b.Bytes(), []byte("PAR1")) || !bytes.HasSuffix(b.Bytes(), []byte("PAR1")) {
		t.Fatal("output is not a parquet file")
	}
	if cols := acc.GetColumnNames(); len(cols) != 2 {
		t.Fatal("bad columns", cols)
	}
}

func TestWriteRowsDeclaredColumns(t *testing.T) {
	var b bytes.Buffer
	acc, err := WriteRows(&b, [][]Field{
		{{Name: "user_type", Value: "Customer"}, {Name: "gender", Value: nil}},
	}, Field{Name: "gender", Value: ""}, Field{Name: "birth_year", Value: int64(0)})
	if err != nil {
		t.Fatal(err)
	}
	names := acc.GetColumnNames()
	if len(names) != 3 || names[0] != "gender" || names[1] != "birth_year" || names[2] != "user_type" {
		t.Fatal("declared columns not kept", names)
	}
}
