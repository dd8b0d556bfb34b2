package decoder

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

func DecodeCSV(data []byte) (*RawTable, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	head, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("error reading csv header: %w", err)
	}
	for i := range head {
		head[i] = strings.TrimSpace(head[i])
	}
	r.FieldsPerRecord = len(head)
	r.ReuseRecord = false

	rt := &RawTable{Columns: head}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading csv: %w", err)
		}
		rt.Records = append(rt.Records, rec)
	}
	return rt, nil
}
