package loader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/danthegoodman1/bikeshare/config"
	"github.com/danthegoodman1/bikeshare/crdb"
	"github.com/danthegoodman1/bikeshare/datastore"
	"github.com/danthegoodman1/bikeshare/parquet_accumulator"
	"github.com/danthegoodman1/bikeshare/partitioner"
	"github.com/danthegoodman1/bikeshare/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
1423854,2017-06-23 15:09:32,2017-06-23 15:14:53,321,Wood St & Hubbard St,Damen Ave & Chicago Ave,Subscriber,Male,1992.0
955915,2017-05-25 18:19:03,2017-05-25 18:45:53,1610,Theater on the Lake,Sheffield Ave & Waveland Ave,Subscriber,Female,1992.0
9031,2017-01-04 08:27:49,2017-01-04 08:34:45,416.4,May St & Taylor St,Wood St & Taylor St,Customer,,
`

const washingtonCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type
1621326,2017-06-21 08:36:34,2017-06-21 08:44:43,489.066,14th & Belmont St NW,15th & K St NW,Subscriber
482740,2017-03-11 10:40:00,2017-03-11 10:46:00,402.549,Yuma St & Tenley Circle NW,Connecticut Ave & Yuma St NW,Subscriber
`

type countingStore struct {
	datastore.DataStore
	calls int
}

func (c *countingStore) ReadObject(ctx context.Context, location string) ([]byte, error) {
	c.calls++
	return c.DataStore.ReadObject(ctx, location)
}

func writeFixtures(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

func TestLoadCSV(t *testing.T) {
	dir := writeFixtures(t, map[string][]byte{
		"chicago.csv":    []byte(chicagoCSV),
		"washington.csv": []byte(washingtonCSV),
	})
	l := New(config.DefaultCities(), WithDataStore(datastore.NewDiskDataStore(dir)))

	tbl, err := l.Load(context.Background(), " Chicago ")
	require.NoError(t, err)
	assert.Equal(t, "chicago", tbl.City())
	require.Equal(t, 3, tbl.Len())
	assert.True(t, tbl.Schema().HasGender())
	assert.True(t, tbl.Schema().HasBirthYear())

	first := tbl.Row(0)
	assert.Equal(t, time.June, first.Month)
	assert.Equal(t, "Friday", first.WeekdayName())
	assert.Equal(t, 15, first.Hour)
	assert.Equal(t, int64(321), first.TripDuration)
	require.NotNil(t, first.BirthYear)
	assert.Equal(t, 1992, *first.BirthYear)
	assert.Equal(t, 14, first.EndTime.Minute())

	last := tbl.Row(2)
	assert.Equal(t, int64(416), last.TripDuration)
	assert.Nil(t, last.BirthYear)
	assert.Equal(t, "", last.Gender)
	assert.Equal(t, 2, last.Num)

	tbl, err = l.Load(context.Background(), "washington")
	require.NoError(t, err)
	assert.False(t, tbl.Schema().HasGender())
	assert.False(t, tbl.Schema().HasBirthYear())
	assert.Equal(t, int64(489), tbl.Row(0).TripDuration)
}

func TestDerivedFieldsInRange(t *testing.T) {
	dir := writeFixtures(t, map[string][]byte{"chicago.csv": []byte(chicagoCSV)})
	tbl, err := New(config.DefaultCities(), WithDataStore(datastore.NewDiskDataStore(dir))).Load(context.Background(), "chicago")
	require.NoError(t, err)
	for _, r := range tbl.Rows() {
		assert.True(t, r.Month >= time.January && r.Month <= time.December)
		assert.True(t, r.Hour >= 0 && r.Hour <= 23)
		assert.Contains(t, partitioner.WeekdayNames, r.WeekdayName())
	}
}

func TestUnknownCityBeforeIO(t *testing.T) {
	store := &countingStore{DataStore: datastore.NewDiskDataStore(t.TempDir())}
	l := New(config.DefaultCities(), WithDataStore(store))

	_, err := l.Load(context.Background(), "boston")
	var uce *UnknownCityError
	require.True(t, errors.As(err, &uce))
	assert.Equal(t, "boston", uce.City)
	assert.Equal(t, 0, store.calls)
}

func TestCityNotConfigured(t *testing.T) {
	l := New(config.Cities{{Name: "chicago", Location: "chicago.csv"}}, WithDataStore(datastore.NewDiskDataStore(t.TempDir())))
	_, err := l.Load(context.Background(), "washington")
	assert.True(t, errors.Is(err, ErrCityNotConfigured))
	assert.Equal(t, []string{"chicago"}, l.Cities())
}

func TestMalformedStartTime(t *testing.T) {
	bad := `Start Time,Trip Duration,Start Station,End Station,User Type
2017-06-23 15:09:32,321,A,B,Subscriber
23/06/2017 15:09,321,A,B,Subscriber
`
	dir := writeFixtures(t, map[string][]byte{"washington.csv": []byte(bad)})
	_, err := New(config.DefaultCities(), WithDataStore(datastore.NewDiskDataStore(dir))).Load(context.Background(), "washington")

	var mre *MalformedRecordError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, 1, mre.Row)
	assert.Equal(t, table.ColStartTime, mre.Column)
	assert.Equal(t, "23/06/2017 15:09", mre.Value)
}

func TestMalformedNumbers(t *testing.T) {
	for name, body := range map[string]string{
		"negative duration": "2017-06-23 15:09:32,-5,A,B,Subscriber,",
		"text duration":     "2017-06-23 15:09:32,long,A,B,Subscriber,",
		"fractional year":   "2017-06-23 15:09:32,5,A,B,Subscriber,1992.5",
		"huge duration":     "2017-06-23 15:09:32,1e30,A,B,Subscriber,1990",
		"huge year":         "2017-06-23 15:09:32,5,A,B,Subscriber,1e30",
		"negative year":     "2017-06-23 15:09:32,5,A,B,Subscriber,-1990",
		"blank stations":    "2017-06-23 15:09:32,5,,,Subscriber,1990",
		"blank end station": "2017-06-23 15:09:32,5,A, ,Subscriber,1990",
	} {
		rt := rawCSV(t, "Start Time,Trip Duration,Start Station,End Station,User Type,Birth Year\n"+body+"\n")
		_, err := Parse("chicago", rt, "")
		var mre *MalformedRecordError
		assert.True(t, errors.As(err, &mre), name)
	}
}

func TestMissingColumn(t *testing.T) {
	rt := rawCSV(t, "Start Time,Start Station,End Station\n2017-06-23 15:09:32,A,B\n")
	_, err := Parse("chicago", rt, "")
	var mce *MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []table.Column{table.ColTripDuration, table.ColUserType}, mce.Columns)
}

func TestCustomTimeLayout(t *testing.T) {
	rt := rawCSV(t, "start_time,trip_duration,start_station,end_station,user_type\n06/23/2017 15:09,60,A,B,Customer\n")
	tbl, err := Parse("chicago", rt, "01/02/2006 15:04")
	require.NoError(t, err)
	assert.Equal(t, time.June, tbl.Row(0).Month)
}

func TestFormatsLoadTheSameTable(t *testing.T) {
	var ndjson bytes.Buffer
	var rows [][]parquet_accumulator.Field
	for _, r := range []struct {
		start, end, from, to, user, gender string
		dur                                int64
		year                               float64
	}{
		{"2017-06-23 15:09:32", "2017-06-23 15:14:53", "Wood St", "Damen Ave", "Subscriber", "Male", 321, 1992},
		{"2017-05-25 18:19:03", "2017-05-25 18:45:53", "Lake Shore", "Sheffield Ave", "Customer", "Female", 1610, 1985},
	} {
		ndjson.WriteString(`{"start_time":"` + r.start + `","end_time":"` + r.end + `","trip_duration":` +
			itoa(r.dur) + `,"start_station":"` + r.from + `","end_station":"` + r.to + `","user_type":"` + r.user +
			`","gender":"` + r.gender + `","birth_year":` + itoa(int64(r.year)) + "}\n")
		rows = append(rows, []parquet_accumulator.Field{
			{Name: "start_time", Value: r.start},
			{Name: "end_time", Value: r.end},
			{Name: "trip_duration", Value: r.dur},
			{Name: "start_station", Value: r.from},
			{Name: "end_station", Value: r.to},
			{Name: "user_type", Value: r.user},
			{Name: "gender", Value: r.gender},
			{Name: "birth_year", Value: r.year},
		})
	}
	var pq bytes.Buffer
	_, err := parquet_accumulator.WriteRows(&pq, rows)
	require.NoError(t, err)

	csv := `Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
2017-06-23 15:09:32,2017-06-23 15:14:53,321,Wood St,Damen Ave,Subscriber,Male,1992.0
2017-05-25 18:19:03,2017-05-25 18:45:53,1610,Lake Shore,Sheffield Ave,Customer,Female,1985.0
`
	dir := writeFixtures(t, map[string][]byte{
		"chicago.csv":     []byte(csv),
		"chicago.jsonl":   ndjson.Bytes(),
		"chicago.parquet": pq.Bytes(),
	})
	store := datastore.NewDiskDataStore(dir)

	load := func(location string) *table.Table {
		tbl, err := New(config.Cities{{Name: "chicago", Location: location}}, WithDataStore(store)).Load(context.Background(), "chicago")
		require.NoError(t, err, location)
		return tbl
	}
	want := load("chicago.csv")
	for _, loc := range []string{"chicago.jsonl", "chicago.parquet"} {
		got := load(loc)
		assert.Equal(t, want.Schema(), got.Schema(), loc)
		assert.Equal(t, want.Rows(), got.Rows(), loc)
	}
}

func TestLoadSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT has_gender, has_birth_year FROM cities WHERE name = $1`)).
		WithArgs("new york city").
		WillReturnRows(sqlmock.NewRows([]string{"has_gender", "has_birth_year"}).AddRow(true, false))
	cols := crdb.TripColumns(true, false)
	mock.ExpectQuery(regexp.QuoteMeta(crdb.TripsQuery(cols))).
		WithArgs("new york city").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("2017-01-01 00:07:57", "2017-01-01 00:20:53", "776", "Columbus Ave", "E 5 St", "Subscriber", "Male"))

	cities := config.Cities{{Name: "new york city", Format: FormatSQL}}
	tbl, err := New(cities, WithDB(db)).Load(context.Background(), "New York City")
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.True(t, tbl.Schema().HasGender())
	assert.False(t, tbl.Schema().HasBirthYear())
	assert.Equal(t, "Sunday", tbl.Row(0).WeekdayName())
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = New(cities).Load(context.Background(), "new york city")
	assert.True(t, errors.Is(err, ErrNoDB))
}

func TestNumberBounds(t *testing.T) {
	rt := rawCSV(t, "Start Time,Trip Duration,Start Station,End Station,User Type,Birth Year\n"+
		"2017-06-23 15:09:32,9007199254740992,A,B,Subscriber,9999\n"+
		"2017-06-23 15:09:32,0,A,B,Subscriber,0\n")
	tbl, err := Parse("chicago", rt, "")
	require.NoError(t, err)
	assert.Equal(t, int64(MaxTripDuration), tbl.Row(0).TripDuration)
	assert.Equal(t, MaxBirthYear, *tbl.Row(0).BirthYear)
	assert.Equal(t, 0, *tbl.Row(1).BirthYear)

	rt = rawCSV(t, "Start Time,Trip Duration,Start Station,End Station,User Type\n"+
		"2017-06-23 15:09:32,5,,B,Subscriber\n")
	_, err = Parse("chicago", rt, "")
	var mre *MalformedRecordError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, table.ColStartStation, mre.Column)
}

func TestCitiesNeverNil(t *testing.T) {
	l := New(config.Cities{})
	assert.NotNil(t, l.Cities())
	assert.Empty(t, l.Cities())
}
