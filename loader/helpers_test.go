package loader

import (
	"strconv"
	"testing"

	"github.com/danthegoodman1/bikeshare/decoder"
	"github.com/stretchr/testify/require"
)

func rawCSV(t *testing.T, s string) *decoder.RawTable {
	t.Helper()
	rt, err := decoder.DecodeCSV([]byte(s))
	require.NoError(t, err)
	return rt
}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}
