package metrics

import (
	"time"

	"github.com/danthegoodman1/bikeshare/stats"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder receives the measurements of a query.
type Recorder interface {
	stats.Observer
	RecordLoad(city string, rows int, elapsed time.Duration, err error)
	RecordQuery(city string, elapsed time.Duration, err error)
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

// NoopRecorder drops everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveGroup(stats.Group, time.Duration, error) {}
func (NoopRecorder) RecordLoad(string, int, time.Duration, error)   {}
func (NoopRecorder) RecordQuery(string, time.Duration, error)       {}

var _ Recorder = NoopRecorder{}
