package decoder

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/danthegoodman1/gojsonutils"
)

var (
	ErrNotJSONObject = errors.New("line was not a JSON object")
	ErrNotFlatMap    = errors.New("not a flat map")
)

// DecodeNDJSON reads one JSON object per line. Nested objects are flattened; the columns are
// every key seen, in first-seen order with each line's new keys sorted.
func DecodeNDJSON(data []byte) (*RawTable, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var rows []map[string]any
	colIdx := make(map[string]int)
	rt := &RawTable{}

	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var raw any
		if err := json.Unmarshal(text, &raw); err != nil {
			return nil, fmt.Errorf("error in json.Unmarshal on line %d: %w", line, err)
		}
		jsonMap, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: line %d", ErrNotJSONObject, line)
		}
		flat, err := gojsonutils.Flatten(jsonMap, nil)
		if err != nil {
			return nil, fmt.Errorf("error flattening JSON map on line %d: %w", line, err)
		}
		flatMap, ok := flat.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: line %d", ErrNotFlatMap, line)
		}

		keys := make([]string, 0, len(flatMap))
		for k := range flatMap {
			if _, seen := colIdx[k]; !seen {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			colIdx[k] = len(rt.Columns)
			rt.Columns = append(rt.Columns, k)
		}
		rows = append(rows, flatMap)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning ndjson: %w", err)
	}
	if len(rt.Columns) == 0 {
		return nil, ErrNoHeader
	}

	rt.Records = make([][]string, 0, len(rows))
	for _, row := range rows {
		rec := make([]string, len(rt.Columns))
		for k, v := range row {
			rec[colIdx[k]] = cellString(v)
		}
		rt.Records = append(rt.Records, rec)
	}
	return rt, nil
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
