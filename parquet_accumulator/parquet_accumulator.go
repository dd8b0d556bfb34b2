package parquet_accumulator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xitongsys/parquet-go/writer"
)

type (
	ParquetSchemaAccumulator struct {
		schema ParquetSchema
	}

	ParquetSchema struct {
		TagStructs SchemaTag        `json:"-,omitempty"`
		Fields     []*ParquetSchema `json:",omitempty"`
	}

	ParquetJSONSchema struct {
		Tag    string               `json:",omitempty"`
		Fields []*ParquetJSONSchema `json:",omitempty"`
	}

	SchemaTag struct {
		Name           string         `json:"name,omitempty"`
		Type           string         `json:"type,omitempty"`
		ConvertedType  string         `json:"convertedtype,omitempty"`
		RepetitionType RepetitionType `json:"repetitiontype,omitempty"`
		Encoding       string         `json:"encoding,omitempty"`
	}

	RepetitionType string

	// Field is one named cell of a row. Nil values are written as nulls.
	Field struct {
		Name  string
		Value any
	}
)

var (
	Optional RepetitionType = "OPTIONAL"
	Required RepetitionType = "REQUIRED"
)

func NewParquetAccumulator() ParquetSchemaAccumulator {
	return ParquetSchemaAccumulator{
		schema: ParquetSchema{
			TagStructs: SchemaTag{
				Name:           "parquet_go_root",
				RepetitionType: Required,
			},
		},
	}
}

// WriteRow adds any column of row not seen yet, in row order. A column whose value is nil is
// deferred until a row gives it a value.
func (pa *ParquetSchemaAccumulator) WriteRow(row []Field) {
	for _, f := range row {
		if f.Value == nil || pa.fieldExists(f.Name) {
			continue
		}
		if s := getParquetSchema(f.Name, f.Value); s != nil {
			pa.schema.Fields = append(pa.schema.Fields, s)
		}
	}
}

func getParquetSchema(key string, item any) *ParquetSchema {
	schema := &ParquetSchema{
		TagStructs: SchemaTag{
			Name:           key,
			RepetitionType: Optional,
		},
	}
	switch item.(type) {
	case string, *string:
		schema.TagStructs.Type = "BYTE_ARRAY"
		schema.TagStructs.ConvertedType = "UTF8"
		schema.TagStructs.Encoding = "PLAIN"
	case int, int32, int64, *int, *int64:
		schema.TagStructs.Type = "INT64"
	case float32, float64, *float64:
		schema.TagStructs.Type = "DOUBLE"
	case bool, *bool:
		schema.TagStructs.Type = "BOOLEAN"
	default:
		return nil
	}
	return schema
}

func (pa *ParquetSchemaAccumulator) fieldExists(fieldName string) (exists bool) {
	for _, field := range pa.schema.Fields {
		if field.TagStructs.Name == fieldName {
			return true
		}
	}
	return
}

func (pa *ParquetSchemaAccumulator) GetColumnNames() []string {
	var cols []string
	for _, field := range pa.schema.Fields {
		cols = append(cols, field.TagStructs.Name)
	}
	return cols
}

func (ps *ParquetSchema) GetType() string {
	switch ps.TagStructs.Type {
	case "BYTE_ARRAY":
		return "string"
	case "DOUBLE":
		return "float"
	case "INT64":
		return "int"
	case "BOOLEAN":
		return "bool"
	default:
		return "unknown"
	}
}

// GetColumnTypes returns the column types in the same order as GetColumnNames
func (pa *ParquetSchemaAccumulator) GetColumnTypes() []string {
	var cols []string
	for _, field := range pa.schema.Fields {
		cols = append(cols, field.GetType())
	}
	return cols
}

func (ps *ParquetSchema) ToParquetJSONSchema() *ParquetJSONSchema {
	var tagArr []string
	if ps.TagStructs.Type != "" {
		tagArr = append(tagArr, "type="+ps.TagStructs.Type)
	}
	if ps.TagStructs.ConvertedType != "" {
		tagArr = append(tagArr, "convertedtype="+ps.TagStructs.ConvertedType)
	}
	if ps.TagStructs.Encoding != "" {
		tagArr = append(tagArr, "encoding="+ps.TagStructs.Encoding)
	}
	if ps.TagStructs.Name != "" {
		tagArr = append(tagArr, "name="+ps.TagStructs.Name)
	}
	if string(ps.TagStructs.RepetitionType) != "" {
		tagArr = append(tagArr, "repetitiontype="+string(ps.TagStructs.RepetitionType))
	}
	var fields []*ParquetJSONSchema
	for _, field := range ps.Fields {
		fields = append(fields, field.ToParquetJSONSchema())
	}
	return &ParquetJSONSchema{
		Tag:    strings.Join(tagArr, ", "),
		Fields: fields,
	}
}

// GetSchemaString returns the JSON formatted schema string
func (pa *ParquetSchemaAccumulator) GetSchemaString() (string, error) {
	var fields []*ParquetJSONSchema
	for _, field := range pa.schema.Fields {
		fields = append(fields, field.ToParquetJSONSchema())
	}
	pjs := ParquetJSONSchema{
		Tag:    "name=parquet_go_root, repetitiontype=REQUIRED",
		Fields: fields,
	}

	b, err := json.Marshal(pjs)
	if err != nil {
		return "", fmt.Errorf("error in json.Marshal: %w", err)
	}
	return string(b), nil
}

// WriteRows accumulates a schema over rows and writes them to w as a parquet file. declared
// columns come first and are kept even if every row leaves them nil; their values only give the type.
// It returns the accumulator so callers can report the columns written.
func WriteRows(w io.Writer, rows [][]Field, declared ...Field) (*ParquetSchemaAccumulator, error) {
	acc := NewParquetAccumulator()
	acc.WriteRow(declared)
	for _, row := range rows {
		acc.WriteRow(row)
	}
	parquetSchema, err := acc.GetSchemaString()
	if err != nil {
		return nil, fmt.Errorf("error in GetSchemaString: %w", err)
	}

	pw, err := writer.NewJSONWriterFromWriter(parquetSchema, w, 4)
	if err != nil {
		return nil, fmt.Errorf("error in NewJSONWriterFromWriter: %w", err)
	}

	for _, row := range rows {
		obj := make(map[string]any, len(row))
		for _, f := range row {
			if f.Value != nil {
				obj[f.Name] = f.Value
			}
		}
		rowBytes, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("error in json.Marshal of row: %w", err)
		}
		if err := pw.Write(string(rowBytes)); err != nil {
			return nil, fmt.Errorf("error in pw.Write for row %s: %w", string(rowBytes), err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("error in pw.WriteStop: %w", err)
	}
	return &acc, nil
}
