package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/danthegoodman1/bikeshare/partitioner"
	"github.com/danthegoodman1/bikeshare/query"
	"github.com/danthegoodman1/bikeshare/stats"
	"github.com/danthegoodman1/bikeshare/table"
)

func printRows(w io.Writer, schema table.Schema, rows []table.Row) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	cols := schema.Columns()
	header := []string{""}
	for _, c := range cols {
		header = append(header, string(c))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		cells := []string{strconv.Itoa(r.Num)}
		for _, c := range cols {
			cells = append(cells, cell(r, c))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

func cell(r table.Row, c table.Column) string {
	switch c {
	case table.ColStartTime:
		return r.StartTime.Format(partitioner.DefaultTimeLayout)
	case table.ColEndTime:
		if r.EndTime.IsZero() {
			return ""
		}
		return r.EndTime.Format(partitioner.DefaultTimeLayout)
	case table.ColTripDuration:
		return strconv.FormatInt(r.TripDuration, 10)
	case table.ColStartStation:
		return r.StartStation
	case table.ColEndStation:
		return r.EndStation
	case table.ColUserType:
		return r.UserType
	case table.ColGender:
		return r.Gender
	case table.ColBirthYear:
		if r.BirthYear == nil {
			return ""
		}
		return strconv.Itoa(*r.BirthYear)
	}
	return ""
}

func printReport(w io.Writer, res *query.Result) {
	rep := res.Report

	section(w, "Calculating The Most Frequent Times of Travel...", rep.Time.Elapsed, rep.Time.Err, func() {
		v := rep.Time.Value
		fmt.Fprintf(w, "Most Common Month: %s\n", v.Month.Value)
		fmt.Fprintf(w, "Most Common Day of Week: %s\n", v.Weekday.Value)
		fmt.Fprintf(w, "Most Common Start Hour: %d\n", v.Hour.Value)
	})

	section(w, "Calculating The Most Popular Stations and Trip...", rep.Station.Elapsed, rep.Station.Err, func() {
		v := rep.Station.Value
		fmt.Fprintf(w, "Most Commonly Used Start Station: %s\n", v.Start.Value)
		fmt.Fprintf(w, "Most Commonly Used End Station: %s\n", v.End.Value)
		fmt.Fprintf(w, "Most Common Trip from Start to End: %s\n", v.Route.Value)
	})

	section(w, "Calculating Trip Duration...", rep.Duration.Elapsed, rep.Duration.Err, func() {
		v := rep.Duration.Value
		fmt.Fprintf(w, "Total Travel Time: %d seconds\n", v.TotalSeconds)
		fmt.Fprintf(w, "Mean Travel Time: %s seconds\n", strconv.FormatFloat(v.MeanSeconds, 'f', -1, 64))
	})

	section(w, "Calculating User Stats...", rep.User.Elapsed, rep.User.Err, func() {
		v := rep.User.Value
		fmt.Fprintf(w, "User Types:\n")
		printCounts(w, v.UserTypes)

		if v.Gender.Available {
			fmt.Fprintf(w, "\nGender Counts:\n")
			printCounts(w, v.Gender.Value)
		} else {
			fmt.Fprintf(w, "\nGender data not available for this city.\n")
		}

		switch {
		case !v.BirthYear.Available:
			fmt.Fprintf(w, "\nBirth Year data not available for this city.\n")
		case v.BirthYear.Value.Observed == 0:
			fmt.Fprintf(w, "\nNo birth years recorded for this selection.\n")
		default:
			by := v.BirthYear.Value
			fmt.Fprintf(w, "\nEarliest Year of Birth: %d\n", by.Min)
			fmt.Fprintf(w, "Most Recent Year of Birth: %d\n", by.Max)
			fmt.Fprintf(w, "Most Common Year of Birth: %d\n", by.Mode)
		}
	})
}

func printCounts(w io.Writer, counts []stats.Count) {
	if len(counts) == 0 {
		fmt.Fprintf(w, "  (none)\n")
		return
	}
	for _, c := range counts {
		fmt.Fprintf(w, "  %s: %d\n", c.Value, c.Count)
	}
}

// section prints one statistic group. A failed group prints its error; the others still print.
func section(w io.Writer, title string, elapsed time.Duration, err error, body func()) {
	fmt.Fprintf(w, "\n%s\n\n", title)
	if err != nil {
		fmt.Fprintf(w, "%s\n", err)
	} else {
		body()
	}
	fmt.Fprintf(w, "\nThis took %s seconds.\n", strconv.FormatFloat(elapsed.Seconds(), 'f', -1, 64))
	fmt.Fprintf(w, "%s\n", rule)
}
