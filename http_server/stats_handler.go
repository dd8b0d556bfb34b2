package http_server

import (
	"net/http"
	"time"

	"github.com/danthegoodman1/bikeshare/partitioner"
	"github.com/danthegoodman1/bikeshare/query"
	"github.com/danthegoodman1/bikeshare/stats"
	"github.com/danthegoodman1/bikeshare/table"
)

type (
	StatsRequest struct {
		City  string `query:"city" validate:"required"`
		Month string `query:"month"`
		Day   string `query:"day"`
	}

	TripsRequest struct {
		StatsRequest
		Offset int `query:"offset" validate:"gte=0"`
		Limit  int `query:"limit" validate:"gte=1,lte=1000"`
	}

	groupResponse[T any] struct {
		Value     *T      `json:"value,omitempty"`
		Error     string  `json:"error,omitempty"`
		ElapsedMS float64 `json:"elapsedMs"`
	}

	StatsResponse struct {
		QueryID  string                             `json:"queryID"`
		City     string                             `json:"city"`
		Month    string                             `json:"month"`
		Day      string                             `json:"day"`
		Rows     int                                `json:"rows"`
		Time     groupResponse[stats.TimeStats]     `json:"time"`
		Station  groupResponse[stats.StationStats]  `json:"station"`
		Duration groupResponse[stats.DurationStats] `json:"duration"`
		User     groupResponse[stats.UserStats]     `json:"user"`
	}

	Trip struct {
		Num          int    `json:"num"`
		StartTime    string `json:"startTime"`
		EndTime      string `json:"endTime,omitempty"`
		TripDuration int64  `json:"tripDuration"`
		StartStation string `json:"startStation"`
		EndStation   string `json:"endStation"`
		UserType     string `json:"userType"`
		Gender       string `json:"gender,omitempty"`
		BirthYear    *int   `json:"birthYear,omitempty"`
		Month        int    `json:"month"`
		Weekday      string `json:"weekday"`
		Hour         int    `json:"hour"`
		Partition    string `json:"partition"`
	}

	TripsResponse struct {
		City   string `json:"city"`
		Total  int    `json:"total"`
		Offset int    `json:"offset"`
		Trips  []Trip `json:"trips"`
	}
)

// DefaultPageSize matches the five rows the prompt session shows at a time.
const DefaultPageSize = 5

func toGroup[T any](r stats.Result[T]) groupResponse[T] {
	g := groupResponse[T]{ElapsedMS: float64(r.Elapsed) / float64(time.Millisecond)}
	if r.Err != nil {
		g.Error = r.Err.Error()
		return g
	}
	v := r.Value
	g.Value = &v
	return g
}

func toTrip(r table.Row) Trip {
	t := Trip{
		Num:          r.Num,
		StartTime:    r.StartTime.Format(partitioner.DefaultTimeLayout),
		TripDuration: r.TripDuration,
		StartStation: r.StartStation,
		EndStation:   r.EndStation,
		UserType:     r.UserType,
		Gender:       r.Gender,
		BirthYear:    r.BirthYear,
		Month:        int(r.Month),
		Weekday:      r.WeekdayName(),
		Hour:         r.Hour,
	}
	if key, err := partitioner.GetPartitionKey(r.StartTime, partitioner.DefaultPlan); err == nil {
		t.Partition = key
	}
	if !r.EndTime.IsZero() {
		t.EndTime = r.EndTime.Format(partitioner.DefaultTimeLayout)
	}
	return t
}

func (s *HTTPServer) ListCities(c *CustomContext) error {
	return c.JSON(http.StatusOK, s.loader.Cities())
}

func (s *HTTPServer) GetStats(c *CustomContext) error {
	var req StatsRequest
	if err := ValidateRequest(c, &req); err != nil {
		return err
	}

	res, err := s.runner.Run(c.Request().Context(), query.Request{City: req.City, Month: req.Month, Weekday: req.Day})
	if err != nil {
		return c.QueryError(err, "error running query")
	}

	rep := res.Report
	return c.JSON(http.StatusOK, StatsResponse{
		QueryID:  res.ID,
		City:     res.Selection.City,
		Month:    res.Selection.Month.String(),
		Day:      res.Selection.Weekday.String(),
		Rows:     rep.Rows,
		Time:     toGroup(rep.Time),
		Station:  toGroup(rep.Station),
		Duration: toGroup(rep.Duration),
		User:     toGroup(rep.User),
	})
}

func (s *HTTPServer) GetTrips(c *CustomContext) error {
	req := TripsRequest{Limit: DefaultPageSize}
	if err := ValidateRequest(c, &req); err != nil {
		return err
	}

	sel, t, err := s.runner.Filtered(c.Request().Context(), query.Request{City: req.City, Month: req.Month, Weekday: req.Day})
	if err != nil {
		return c.QueryError(err, "error loading trips")
	}

	page := t.Page(req.Offset, req.Limit)
	trips := make([]Trip, 0, len(page))
	for _, r := range page {
		trips = append(trips, toTrip(r))
	}
	return c.JSON(http.StatusOK, TripsResponse{
		City:   sel.City,
		Total:  t.Len(),
		Offset: req.Offset,
		Trips:  trips,
	})
}
