package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/danthegoodman1/bikeshare/table"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Group string

const (
	GroupTime     Group = "time"
	GroupStation  Group = "station"
	GroupDuration Group = "duration"
	GroupUser     Group = "user"
)

var Groups = []Group{GroupTime, GroupStation, GroupDuration, GroupUser}

// Result is one statistic group's outcome. A failed group never affects the others.
type Result[T any] struct {
	Value   T
	Err     error
	Elapsed time.Duration
}

type (
	Report struct {
		City     string
		Rows     int
		Time     Result[TimeStats]
		Station  Result[StationStats]
		Duration Result[DurationStats]
		User     Result[UserStats]
	}

	// Observer is told how long each group took, e.g. to record metrics
	Observer interface {
		ObserveGroup(group Group, elapsed time.Duration, err error)
	}
)

func timed[T any](f func() (T, error)) Result[T] {
	s := time.Now()
	v, err := f()
	return Result[T]{Value: v, Err: err, Elapsed: time.Since(s)}
}

// Compute runs the four groups concurrently over t. obs may be nil.
func Compute(ctx context.Context, t *table.Table, obs Observer) Report {
	logger := zerolog.Ctx(ctx)
	r := Report{City: t.City(), Rows: t.Len()}

	// each goroutine writes only its own field
	var g errgroup.Group
	g.Go(func() error {
		r.Time = timed(func() (TimeStats, error) { return ComputeTimeStats(t) })
		return nil
	})
	g.Go(func() error {
		r.Station = timed(func() (StationStats, error) { return ComputeStationStats(t) })
		return nil
	})
	g.Go(func() error {
		r.Duration = timed(func() (DurationStats, error) { return ComputeDurationStats(t) })
		return nil
	})
	g.Go(func() error {
		r.User = timed(func() (UserStats, error) { return ComputeUserStats(t), nil })
		return nil
	})
	_ = g.Wait()

	for _, gr := range Groups {
		elapsed, err := r.group(gr)
		logger.Debug().Str("group", string(gr)).Dur("elapsed", elapsed).AnErr("groupErr", err).Msg("computed stats group")
		if obs != nil {
			obs.ObserveGroup(gr, elapsed, err)
		}
	}
	return r
}

func (r Report) group(g Group) (time.Duration, error) {
	switch g {
	case GroupTime:
		return r.Time.Elapsed, r.Time.Err
	case GroupStation:
		return r.Station.Elapsed, r.Station.Err
	case GroupDuration:
		return r.Duration.Elapsed, r.Duration.Err
	default:
		return r.User.Elapsed, r.User.Err
	}
}

// Err joins the groups' errors, or returns nil if every group succeeded.
func (r Report) Err() error {
	var merr *multierror.Error
	for _, g := range Groups {
		if _, err := r.group(g); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s stats: %w", g, err))
		}
	}
	return merr.ErrorOrNil()
}
