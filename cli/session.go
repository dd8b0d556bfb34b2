// Package cli is the interactive prompt session: pick a city, month and day, page through raw
// trips and read the statistics, then optionally start over.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danthegoodman1/bikeshare/filter"
	"github.com/danthegoodman1/bikeshare/loader"
	"github.com/danthegoodman1/bikeshare/query"
	"github.com/danthegoodman1/bikeshare/utils"
	"github.com/rs/zerolog"
)

const (
	PageSize = 5
	rule     = "----------------------------------------"
)

var errInputClosed = errors.New("input closed")

type Session struct {
	ID string

	in     *bufio.Scanner
	out    io.Writer
	runner *query.Runner
}

func NewSession(in io.Reader, out io.Writer, runner *query.Runner) *Session {
	return &Session{
		ID:     utils.GenRandomShortID(),
		in:     bufio.NewScanner(in),
		out:    out,
		runner: runner,
	}
}

// Run loops until the user declines to restart or input ends.
func (s *Session) Run(ctx context.Context) error {
	l := zerolog.Ctx(ctx).With().Str("sessionID", s.ID).Logger()
	ctx = l.WithContext(ctx)

	for {
		err := s.once(ctx)
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		again, err := s.confirm("\nWould you like to restart? Enter yes or no.\n")
		if errors.Is(err, errInputClosed) || !again {
			return nil
		}
	}
}

func (s *Session) once(ctx context.Context) error {
	s.printf("Hello! Let's explore some US bikeshare data!\n")

	city, err := prompt(s, "Enter the city name (chicago, new york city, washington): ", loader.ValidateCity)
	if err != nil {
		return err
	}
	month, err := prompt(s, "Enter the month (all, january, february, ... , june): ", filter.ParseMonth)
	if err != nil {
		return err
	}
	day, err := prompt(s, "Enter the day of the week (all, monday, tuesday, ... sunday): ", filter.ParseWeekday)
	if err != nil {
		return err
	}
	s.printf("%s\n", rule)

	res, err := s.runner.Run(ctx, query.Request{City: city, Month: month.String(), Weekday: day.String()})
	if err != nil {
		// the dataset could not be read; report it and let the user choose again
		zerolog.Ctx(ctx).Warn().Err(err).Msg("query failed")
		s.printf("Could not load data for %s: %s\n", city, err)
		return nil
	}

	if err := s.showRawData(res); err != nil {
		return err
	}
	printReport(s.out, res)
	return nil
}

func (s *Session) showRawData(res *query.Result) error {
	for offset := 0; ; offset += PageSize {
		more, err := s.confirm("\nWould you like to see 5 rows of raw data? Enter yes or no.\n")
		if err != nil || !more {
			return err
		}
		page := res.Table.Page(offset, PageSize)
		if len(page) == 0 {
			s.printf("No more rows.\n")
			return nil
		}
		printRows(s.out, res.Table.Schema(), page)
	}
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("error reading input: %w", err)
		}
		return "", errInputClosed
	}
	return s.in.Text(), nil
}

// confirm is true only for "yes" in any case.
func (s *Session) confirm(question string) (bool, error) {
	s.printf("%s", question)
	line, err := s.readLine()
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes"), nil
}

// prompt asks until validate accepts the answer, printing each rejection.
func prompt[T any](s *Session, question string, validate func(string) (T, error)) (T, error) {
	for {
		s.printf("%s", question)
		line, err := s.readLine()
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := validate(line)
		if err == nil {
			return v, nil
		}
		s.printf("%s\n", err)
	}
}
