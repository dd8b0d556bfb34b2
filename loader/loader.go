// Package loader reads a city's trips into a table.Table.
package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/danthegoodman1/bikeshare/config"
	"github.com/danthegoodman1/bikeshare/crdb"
	"github.com/danthegoodman1/bikeshare/datastore"
	"github.com/danthegoodman1/bikeshare/decoder"
	"github.com/danthegoodman1/bikeshare/partitioner"
	"github.com/danthegoodman1/bikeshare/table"
	"github.com/danthegoodman1/bikeshare/utils"
	"github.com/rs/zerolog"
)

const FormatSQL = "sql"

const (
	// MaxTripDuration is the largest duration, in seconds, that still rounds exactly.
	MaxTripDuration = 1 << 53
	MaxBirthYear    = 9999
)

var (
	SupportedCities = []string{"chicago", "new york city", "washington"}

	errNegative   = errors.New("must not be negative")
	errNotFinite  = errors.New("must be a finite number")
	errNotInteger = errors.New("must be a whole number")
	errOutOfRange = errors.New("out of range")
	errBlank      = errors.New("must not be blank")
)

type (
	Loader struct {
		cities config.Cities
		store  datastore.DataStore
		db     *sql.DB
	}

	Option func(*Loader)
)

func WithDataStore(ds datastore.DataStore) Option {
	return func(l *Loader) {
		l.store = ds
	}
}

func WithDB(db *sql.DB) Option {
	return func(l *Loader) {
		l.db = db
	}
}

func New(cities config.Cities, opts ...Option) *Loader {
	l := &Loader{cities: cities}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ValidateCity normalizes id and checks it against the supported set.
func ValidateCity(id string) (string, error) {
	city := config.NormalizeCity(id)
	if !utils.ContainsString(SupportedCities, city) {
		return "", &UnknownCityError{City: id}
	}
	return city, nil
}

// Cities lists the supported cities that have a configured source.
func (l *Loader) Cities() []string {
	out := make([]string, 0, len(SupportedCities))
	for _, c := range SupportedCities {
		if _, ok := l.cities.Lookup(c); ok {
			out = append(out, c)
		}
	}
	return out
}

// Source returns the configured source of cityID.
func (l *Loader) Source(cityID string) (config.CitySource, bool) {
	city, err := ValidateCity(cityID)
	if err != nil {
		return config.CitySource{}, false
	}
	return l.cities.Lookup(city)
}

// Load reads the whole dataset for cityID. Any malformed row fails the load.
func (l *Loader) Load(ctx context.Context, cityID string) (*table.Table, error) {
	city, err := ValidateCity(cityID)
	if err != nil {
		return nil, err
	}
	src, ok := l.cities.Lookup(city)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCityNotConfigured, city)
	}

	logger := zerolog.Ctx(ctx).With().Str("city", city).Logger()
	s := time.Now()

	rt, err := l.readRaw(ctx, city, src)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("records", len(rt.Records)).Dur("readTime", time.Since(s)).Msg("read raw dataset")

	t, err := Parse(city, rt, src.TimeLayout)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("rows", t.Len()).Dur("loadTime", time.Since(s)).Msg("loaded table")
	return t, nil
}

func (l *Loader) readRaw(ctx context.Context, city string, src config.CitySource) (*decoder.RawTable, error) {
	if src.Format == FormatSQL {
		if l.db == nil {
			return nil, ErrNoDB
		}
		rt, err := crdb.ReadTrips(ctx, l.db, city)
		if err != nil {
			return nil, fmt.Errorf("error in crdb.ReadTrips: %w", err)
		}
		return rt, nil
	}

	if l.store == nil {
		return nil, ErrNoDataStore
	}
	data, err := l.store.ReadObject(ctx, src.Location)
	if err != nil {
		return nil, fmt.Errorf("error in ReadObject: %w", err)
	}
	format := decoder.Format(src.Format)
	if format == "" {
		format = decoder.FormatFromLocation(src.Location)
	}
	rt, err := decoder.Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", src.Location, err)
	}
	return rt, nil
}

// Parse types a raw dataset. Headers are matched with table.MatchColumn; unknown columns are ignored.
func Parse(city string, rt *decoder.RawTable, layout string) (*table.Table, error) {
	idx := make(map[table.Column]int, len(table.AllColumns))
	var present []table.Column
	for _, c := range table.AllColumns {
		c := c
		i := rt.ColumnIndex(func(name string) bool {
			got, ok := table.MatchColumn(name)
			return ok && got == c
		})
		if i >= 0 {
			idx[c] = i
			present = append(present, c)
		}
	}
	schema := table.NewSchema(present...)
	if missing := schema.Missing(); len(missing) > 0 {
		return nil, &MissingColumnError{City: city, Columns: missing}
	}

	rows := make([]table.Row, 0, len(rt.Records))
	for n, rec := range rt.Records {
		row, err := parseRow(n, rec, idx, layout)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return table.New(city, schema, rows), nil
}

func parseRow(n int, rec []string, idx map[table.Column]int, layout string) (table.Row, error) {
	cell := func(c table.Column) (string, bool) {
		i, ok := idx[c]
		if !ok || i >= len(rec) {
			return "", false
		}
		return rec[i], true
	}
	malformed := func(c table.Column, v string, err error) error {
		return &MalformedRecordError{Row: n, Column: c, Value: v, Err: err}
	}

	row := table.Row{Num: n}

	v, _ := cell(table.ColStartTime)
	start, err := partitioner.ParseTime(layout, v)
	if err != nil {
		return row, malformed(table.ColStartTime, v, err)
	}
	row.StartTime = start
	p := partitioner.PartitionOf(start)
	row.Month, row.Weekday, row.Hour = p.Month, p.Weekday, p.Hour

	if v, ok := cell(table.ColEndTime); ok && strings.TrimSpace(v) != "" {
		end, err := partitioner.ParseTime(layout, v)
		if err != nil {
			return row, malformed(table.ColEndTime, v, err)
		}
		row.EndTime = end
	}

	v, _ = cell(table.ColTripDuration)
	dur, err := parseNumber(v)
	if err != nil {
		return row, malformed(table.ColTripDuration, v, err)
	}
	if dur < 0 {
		return row, malformed(table.ColTripDuration, v, errNegative)
	}
	if dur > MaxTripDuration {
		return row, malformed(table.ColTripDuration, v, errOutOfRange)
	}
	row.TripDuration = int64(math.Round(dur))

	for _, c := range []table.Column{table.ColStartStation, table.ColEndStation} {
		if v, _ := cell(c); strings.TrimSpace(v) == "" {
			return row, malformed(c, v, errBlank)
		}
	}
	row.StartStation, _ = cell(table.ColStartStation)
	row.EndStation, _ = cell(table.ColEndStation)
	row.UserType, _ = cell(table.ColUserType)
	row.Gender, _ = cell(table.ColGender)

	if v, ok := cell(table.ColBirthYear); ok && strings.TrimSpace(v) != "" {
		year, err := parseNumber(v)
		if err != nil {
			return row, malformed(table.ColBirthYear, v, err)
		}
		if year != math.Trunc(year) {
			return row, malformed(table.ColBirthYear, v, errNotInteger)
		}
		if year < 0 || year > MaxBirthYear {
			return row, malformed(table.ColBirthYear, v, errOutOfRange)
		}
		row.BirthYear = utils.Ptr(int(year))
	}

	return row, nil
}

// parseNumber accepts integer and decimal text such as "321", "489.066" and "1992.0".
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}
