package crdb

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/danthegoodman1/bikeshare/utils"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const citySQL = `SELECT has_gender, has_birth_year FROM cities WHERE name = $1`

func TestReadTrips(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(citySQL)).
		WithArgs("chicago").
		WillReturnRows(sqlmock.NewRows([]string{"has_gender", "has_birth_year"}).AddRow(true, true))

	cols := TripColumns(true, true)
	mock.ExpectQuery(regexp.QuoteMeta(TripsQuery(cols))).
		WithArgs("chicago").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("2017-06-23 15:09:32", "2017-06-23 15:14:53", "321", "Wood St", "Damen Ave", "Subscriber", "Male", "1992").
			AddRow("2017-05-25 18:19:03", nil, "1610", "Lake Shore", "Sheffield Ave", "Customer", nil, nil))

	rt, err := ReadTrips(context.Background(), db, "chicago")
	require.NoError(t, err)
	assert.Equal(t, []string{"start_time", "end_time", "trip_duration", "start_station", "end_station", "user_type", "gender", "birth_year"}, rt.Columns)
	require.Len(t, rt.Records, 2)
	assert.Equal(t, "Male", rt.Records[0][6])
	assert.Equal(t, "", rt.Records[1][1])
	assert.Equal(t, "", rt.Records[1][7])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadTripsWithoutOptionalColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(citySQL)).
		WithArgs("washington").
		WillReturnRows(sqlmock.NewRows([]string{"has_gender", "has_birth_year"}).AddRow(false, false))

	cols := TripColumns(false, false)
	assert.NotContains(t, cols, "gender")
	mock.ExpectQuery(regexp.QuoteMeta(TripsQuery(cols))).
		WithArgs("washington").
		WillReturnRows(sqlmock.NewRows(cols))

	rt, err := ReadTrips(context.Background(), db, "washington")
	require.NoError(t, err)
	assert.Len(t, rt.Columns, 6)
	assert.Empty(t, rt.Records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadTripsUnknownCity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(citySQL)).
		WithArgs("boston").
		WillReturnRows(sqlmock.NewRows([]string{"has_gender", "has_birth_year"}))

	_, err = ReadTrips(context.Background(), db, "boston")
	assert.True(t, errors.Is(err, ErrCityNotFound))
	// permanent, so no second attempt was made
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadTripsPermanentPgError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(citySQL)).
		WithArgs("chicago").
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "cities" does not exist`})

	_, err = ReadTrips(context.Background(), db, "chicago")
	require.Error(t, err)
	assert.True(t, utils.IsPermanent(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify(nil))
	assert.False(t, utils.IsPermanent(classify(errors.New("connection reset"))))
	assert.False(t, utils.IsPermanent(classify(&pgconn.PgError{Code: "40001"})))
	assert.True(t, utils.IsPermanent(classify(&pgconn.PgError{Code: "28P01"})))
}
