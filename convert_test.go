package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/danthegoodman1/bikeshare/config"
	"github.com/danthegoodman1/bikeshare/datastore"
	"github.com/danthegoodman1/bikeshare/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
1423854,2017-06-23 15:09:32,2017-06-23 15:14:53,321,Wood St & Hubbard St,Damen Ave & Chicago Ave,Subscriber,Male,1992.0
955915,2017-05-25 18:19:03,2017-05-25 18:45:53,1610,Theater on the Lake,Sheffield Ave & Waveland Ave,Customer,,
`

func TestConvertRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chicago.csv"), []byte(chicagoCSV), 0o644))
	store := datastore.NewDiskDataStore(dir)
	ctx := context.Background()

	n, err := convertCity(ctx, loader.New(config.DefaultCities(), loader.WithDataStore(store)), "chicago", filepath.Join(dir, "chicago.parquet"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	fromCSV, err := loader.New(config.DefaultCities(), loader.WithDataStore(store)).Load(ctx, "chicago")
	require.NoError(t, err)
	fromParquet, err := loader.New(config.Cities{{Name: "chicago", Location: "chicago.parquet"}}, loader.WithDataStore(store)).Load(ctx, "chicago")
	require.NoError(t, err)

	assert.Equal(t, fromCSV.Schema(), fromParquet.Schema())
	assert.Equal(t, fromCSV.Rows(), fromParquet.Rows())
}

func TestTripFieldsKeepEmptyColumns(t *testing.T) {
	dir := t.TempDir()
	csv := "Start Time,Trip Duration,Start Station,End Station,User Type,Birth Year\n2017-01-01 00:00:01,5,A,B,Customer,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chicago.csv"), []byte(csv), 0o644))
	tbl, err := loader.New(config.DefaultCities(), loader.WithDataStore(datastore.NewDiskDataStore(dir))).Load(context.Background(), "chicago")
	require.NoError(t, err)

	declared, rows := tripFields(tbl, "")
	require.Len(t, declared, 6)
	assert.Equal(t, "birth_year", declared[5].Name)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0][5].Value)
}

func TestConvertKeepsTimeLayout(t *testing.T) {
	dir := t.TempDir()
	csv := "Start Time,End Time,Trip Duration,Start Station,End Station,User Type\n06/23/2017 15:09,06/23/2017 15:14,321,A,B,Subscriber\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "washington.csv"), []byte(csv), 0o644))
	store := datastore.NewDiskDataStore(dir)
	ctx := context.Background()
	const layout = "01/02/2006 15:04"

	l := loader.New(config.Cities{{Name: "washington", Location: "washington.csv", TimeLayout: layout}}, loader.WithDataStore(store))
	_, err := convertCity(ctx, l, "washington", filepath.Join(dir, "washington.parquet"))
	require.NoError(t, err)

	fromCSV, err := l.Load(ctx, "washington")
	require.NoError(t, err)
	fromParquet, err := loader.New(config.Cities{{Name: "washington", Location: "washington.parquet", TimeLayout: layout}}, loader.WithDataStore(store)).Load(ctx, "washington")
	require.NoError(t, err)
	assert.Equal(t, fromCSV.Rows(), fromParquet.Rows())
	assert.Equal(t, "06/23/2017 15:09", fromParquet.Row(0).StartTime.Format(layout))
}
