package decoder

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/danthegoodman1/bikeshare/utils"
	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/reader"
)

// DecodeParquet reads a flat parquet file using the schema in its footer.
func DecodeParquet(data []byte) (*RawTable, error) {
	pf, err := buffer.NewBufferFile(data)
	if err != nil {
		return nil, fmt.Errorf("error in buffer.NewBufferFile: %w", err)
	}
	pr, err := reader.NewParquetReader(pf, nil, 4)
	if err != nil {
		return nil, fmt.Errorf("error creating parquet reader: %w", err)
	}
	defer pr.ReadStop()

	rt := &RawTable{}
	// element 0 is the root. The reader renames footer elements to Go field names, so the
	// names as written come from the schema handler.
	for _, info := range pr.SchemaHandler.Infos[1:] {
		rt.Columns = append(rt.Columns, info.ExName)
	}
	if len(rt.Columns) == 0 {
		return nil, ErrNoHeader
	}

	num := int(pr.GetNumRows())
	rows, err := pr.ReadByNumber(num)
	if err != nil {
		return nil, fmt.Errorf("error reading parquet rows: %w", err)
	}

	colIdx := make(map[string]int, len(rt.Columns))
	for i, c := range rt.Columns {
		colIdx[utils.NormalizeKey(c)] = i
	}

	rt.Records = make([][]string, 0, len(rows))
	for _, row := range rows {
		// row is a struct whose field names are derived from the column names
		rec := make([]string, len(rt.Columns))
		v := reflect.ValueOf(row)
		typeOf := v.Type()
		for i := 0; i < v.NumField(); i++ {
			idx, ok := colIdx[utils.NormalizeKey(typeOf.Field(i).Name)]
			if !ok {
				continue
			}
			rec[idx] = reflectCell(v.Field(i))
		}
		rt.Records = append(rt.Records, rec)
	}
	return rt, nil
}

func reflectCell(v reflect.Value) string {
	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return fmt.Sprint(v.Interface())
	}
}
