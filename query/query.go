// Package query runs one city/month/day query end to end.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/danthegoodman1/bikeshare/filter"
	"github.com/danthegoodman1/bikeshare/gologger"
	"github.com/danthegoodman1/bikeshare/loader"
	"github.com/danthegoodman1/bikeshare/metrics"
	"github.com/danthegoodman1/bikeshare/stats"
	"github.com/danthegoodman1/bikeshare/table"
	"github.com/danthegoodman1/bikeshare/utils"
	"github.com/rs/zerolog"
)

type (
	// TableLoader is satisfied by *loader.Loader
	TableLoader interface {
		Load(ctx context.Context, city string) (*table.Table, error)
	}

	Request struct {
		City    string
		Month   string
		Weekday string
	}

	// Selection is a validated Request.
	Selection struct {
		City    string
		Month   filter.MonthSelector
		Weekday filter.WeekdaySelector
	}

	Result struct {
		ID        string
		Selection Selection
		// Table is the filtered table the report was computed over
		Table  *table.Table
		Report stats.Report
	}

	Runner struct {
		Loader   TableLoader
		Recorder metrics.Recorder
	}
)

// Validate checks every field of r without doing any I/O.
func (r Request) Validate() (Selection, error) {
	city, err := loader.ValidateCity(r.City)
	if err != nil {
		return Selection{}, err
	}
	m, err := filter.ParseMonth(r.Month)
	if err != nil {
		return Selection{}, err
	}
	d, err := filter.ParseWeekday(r.Weekday)
	if err != nil {
		return Selection{}, err
	}
	return Selection{City: city, Month: m, Weekday: d}, nil
}

func (s Selection) String() string {
	return fmt.Sprintf("city=%s month=%s day=%s", s.City, s.Month, s.Weekday)
}

func NewRunner(l TableLoader, rec metrics.Recorder) *Runner {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Runner{Loader: l, Recorder: rec}
}

// Filtered validates req, loads the city and applies the filters.
func (r *Runner) Filtered(ctx context.Context, req Request) (Selection, *table.Table, error) {
	sel, err := req.Validate()
	if err != nil {
		return sel, nil, err
	}
	logger := zerolog.Ctx(ctx)

	s := time.Now()
	full, err := r.Loader.Load(ctx, sel.City)
	rows := 0
	if full != nil {
		rows = full.Len()
	}
	r.Recorder.RecordLoad(sel.City, rows, time.Since(s), err)
	if err != nil {
		return sel, nil, fmt.Errorf("error loading %s: %w", sel.City, err)
	}

	t, err := filter.Apply(full, sel.Month, sel.Weekday)
	if err != nil {
		return sel, nil, err
	}
	logger.Debug().Str("selection", sel.String()).Int("loaded", full.Len()).Int("kept", t.Len()).Msg("filtered table")
	return sel, t, nil
}

// Run answers req. Statistic group failures, such as an empty selection, are in Result.Report
// and do not make Run fail.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	id := utils.GenKSortedID("q_")
	ctx = gologger.WithQueryID(ctx, id)
	logger := zerolog.Ctx(ctx)
	s := time.Now()

	sel, t, err := r.Filtered(ctx, req)
	if err != nil {
		r.Recorder.RecordQuery(sel.City, time.Since(s), err)
		logger.Debug().Err(err).Msg("query failed")
		return nil, err
	}

	rep := stats.Compute(ctx, t, r.Recorder)
	r.Recorder.RecordQuery(sel.City, time.Since(s), nil)
	logger.Info().Str("selection", sel.String()).Int("rows", t.Len()).Dur("elapsed", time.Since(s)).AnErr("statsErr", rep.Err()).Msg("ran query")

	return &Result{ID: id, Selection: sel, Table: t, Report: rep}, nil
}
