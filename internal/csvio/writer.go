package csvio

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rhyrak/hall-schedule/internal/scheduler"
	"github.com/rhyrak/hall-schedule/internal/timecode"
	"github.com/rhyrak/hall-schedule/pkg/model"
)

// ScheduleRows formats every lecture and tutorial section of the result.
// Unplaced items have an empty venue.
func ScheduleRows(res *scheduler.Result) []*model.ScheduleCSVRow {
	var rows []*model.ScheduleCSVRow
	for _, a := range res.Assignments() {
		rows = append(rows, &model.ScheduleCSVRow{
			CourseCode: a.CourseCode,
			CourseName: a.CourseName,
			Kind:       a.Kind,
			Section:    a.Section,
			Building:   a.Building,
			Venue:      a.Venue,
			Slots:      timecode.Format(a.Slots),
		})
	}
	return rows
}

// TimelineRows lists every booked half hour of every venue, by building,
// then capacity, then time.
func TimelineRows(catalog *scheduler.Catalog) []*model.TimelineCSVRow {
	var rows []*model.TimelineCSVRow
	for _, v := range catalog.Venues() {
		for _, s := range v.BookedSlots() {
			course, _ := v.Occupant(s)
			rows = append(rows, &model.TimelineCSVRow{
				Building: v.Building,
				Venue:    v.Name,
				Day:      s.Day.String(),
				Time:     fmt.Sprintf("%02d:%02d", s.Hour(), s.Minute()),
				Course:   course,
			})
		}
	}
	return rows
}

// WriteSchedule writes the schedule rows as CSV.
func WriteSchedule(res *scheduler.Result, out io.Writer) error {
	rows := ScheduleRows(res)
	return gocsv.Marshal(&rows, out)
}

// WriteUnassigned writes the unassigned items as CSV.
func WriteUnassigned(res *scheduler.Result, out io.Writer) error {
	rows := res.Unassigned()
	return gocsv.Marshal(&rows, out)
}

// WriteTimeline writes the venue occupancy as CSV.
func WriteTimeline(catalog *scheduler.Catalog, out io.Writer) error {
	rows := TimelineRows(catalog)
	return gocsv.Marshal(&rows, out)
}

// ExportSchedule formats the schedule data into ScheduleCSVRow structs and
// writes it to the CSV file specified by the given path.
func ExportSchedule(res *scheduler.Result, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteSchedule(res, w) })
}

// ExportUnassigned writes the unassigned items to path.
func ExportUnassigned(res *scheduler.Result, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteUnassigned(res, w) })
}

// ExportTimeline writes the venue occupancy of catalog to path.
func ExportTimeline(catalog *scheduler.Catalog, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteTimeline(catalog, w) })
}

func exportFile(path string, write func(io.Writer) error) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(out); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return out.Close()
}

// PrintSchedule prints the weekly schedule grouped by venue.
func PrintSchedule(res *scheduler.Result, w io.Writer) {
	type venueKey struct{ building, name string }
	byVenue := make(map[venueKey][]model.Assignment)
	for _, a := range res.Assignments() {
		k := venueKey{a.Building, a.Venue}
		byVenue[k] = append(byVenue[k], a)
	}
	printed := 0
	for _, v := range res.Catalog.Venues() {
		items := byVenue[venueKey{v.Building, v.Name}]
		if len(items) == 0 {
			continue
		}
		title := fmt.Sprintf("%s %s (%d)", v.Building, v.Name, v.Capacity)
		fmt.Fprintf(w, "\n%s %s %s\n", strings.Repeat("-", max(0, (40-len(title))/2)), title, strings.Repeat("-", max(0, int(0.5+(40-float32(len(title)))/2.0))))
		for _, a := range items {
			fmt.Fprintf(w, "%-24s %-9s %s\n", label(a), a.Kind, timecode.Format(a.Slots))
			printed++
		}
	}
	fmt.Fprintf(w, "Printed rows: %d\n", printed)
}

// PrintVenueTimeline prints each venue's booked half hours.
func PrintVenueTimeline(catalog *scheduler.Catalog, w io.Writer) {
	for _, v := range catalog.Venues() {
		booked := v.BookedSlots()
		fmt.Fprintf(w, "%s %s: %d/%d half hours booked\n", v.Building, v.Name, len(booked), len(v.OpenSlots()))
		for _, s := range booked {
			course, _ := v.Occupant(s)
			fmt.Fprintf(w, "    %s  %s\n", s, course)
		}
	}
}

func label(a model.Assignment) string {
	if a.Kind == model.KindTutorial {
		return fmt.Sprintf("%s/T%d", a.CourseCode, a.Section)
	}
	return a.CourseCode
}
