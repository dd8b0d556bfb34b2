package crdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danthegoodman1/bikeshare/decoder"
	"github.com/danthegoodman1/bikeshare/gologger"
	"github.com/danthegoodman1/bikeshare/utils"
	"github.com/jackc/pgconn"
	// ensure "pgx" driver is loaded
	_ "github.com/jackc/pgx/v4/stdlib"
)

var (
	StandardContextTimeout = 10 * time.Second
	// MaxElapsed bounds the retries of a single read
	MaxElapsed = 30 * time.Second

	ErrCityNotFound = utils.PermError("city not found in cities table")

	logger = gologger.NewLogger()
)

// Connect opens a pool against a Postgres compatible database (CockroachDB in production) and pings it.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	logger.Debug().Msg("connecting to CRDB...")
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("error in sql.Open: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Minute * 30)
	db.SetConnMaxIdleTime(time.Minute * 30)

	err = utils.Retry(ctx, MaxElapsed, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, StandardContextTimeout)
		defer cancel()
		return classify(db.PingContext(ctx))
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging db: %w", err)
	}
	logger.Debug().Msg("connected to CRDB")
	return db, nil
}

// ReadTrips reads every trip of city in source order. Columns are named as in the trips table
// (start_time, trip_duration, ...); gender and birth_year are only selected when the cities
// table says the city records them. NULL cells become empty strings.
func ReadTrips(ctx context.Context, db *sql.DB, city string) (*decoder.RawTable, error) {
	var rt *decoder.RawTable
	err := utils.Retry(ctx, MaxElapsed, func(ctx context.Context) error {
		var err error
		rt, err = readTrips(ctx, db, city)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func readTrips(ctx context.Context, db *sql.DB, city string) (*decoder.RawTable, error) {
	var hasGender, hasBirthYear bool
	err := db.QueryRowContext(ctx, `SELECT has_gender, has_birth_year FROM cities WHERE name = $1`, city).Scan(&hasGender, &hasBirthYear)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}
	if err != nil {
		return nil, fmt.Errorf("error selecting city: %w", classify(err))
	}

	cols := TripColumns(hasGender, hasBirthYear)
	rows, err := db.QueryContext(ctx, TripsQuery(cols), city)
	if err != nil {
		return nil, fmt.Errorf("error selecting trips: %w", classify(err))
	}
	defer rows.Close()

	rt := &decoder.RawTable{Columns: cols}
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, utils.MarkPermanent(fmt.Errorf("error scanning trip row %d: %w", len(rt.Records), err))
		}
		record := make([]string, len(cols))
		for i, c := range cells {
			record[i] = c.String
		}
		rt.Records = append(rt.Records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trips: %w", classify(err))
	}

	logger.Debug().Str("city", city).Int("rows", len(rt.Records)).Msg("read trips from db")
	return rt, nil
}

func TripColumns(hasGender, hasBirthYear bool) []string {
	cols := []string{"start_time", "end_time", "trip_duration", "start_station", "end_station", "user_type"}
	if hasGender {
		cols = append(cols, "gender")
	}
	if hasBirthYear {
		cols = append(cols, "birth_year")
	}
	return cols
}

func TripsQuery(cols []string) string {
	return fmt.Sprintf("SELECT %s FROM trips WHERE city = $1 ORDER BY row_num", strings.Join(cols, ", "))
}

// classify marks errors that a retry cannot fix: bad SQL, missing relations, auth and data errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "22", "28", "42":
			return utils.MarkPermanent(err)
		}
	}
	return err
}
