package scheduler

import (
	"context"
	"errors"

	"github.com/rhyrak/hall-schedule/internal/ctxlog"
	"github.com/rhyrak/hall-schedule/pkg/model"
)

// Result is the outcome of one run. Lectures and Tutorials are in course
// order; Catalog holds the venues with their bookings.
type Result struct {
	Lectures  []*model.Lecture
	Tutorials []*model.Tutorial
	Catalog   *Catalog
	Params    Params
}

// Stats summarizes a Result.
type Stats struct {
	Lectures          int `json:"lectures"`
	LecturesPlaced    int `json:"lecturesPlaced"`
	Sections          int `json:"tutorialSections"`
	SectionsPlaced    int `json:"tutorialSectionsPlaced"`
	Unscheduled       int `json:"unscheduled"`
	Venues            int `json:"venues"`
	VenuesUsed        int `json:"venuesUsed"`
	SlotsOpen         int `json:"slotsOpen"`
	SlotsBooked       int `json:"slotsBooked"`
	ConvenienceFactor int `json:"convenienceFactor"`
}

// Run aggregates the courses, builds the venue catalog and allocates
// lectures, then tutorials. Malformed fragments of the input are logged and
// skipped. Any Params are accepted: an empty building order places nothing.
func Run(ctx context.Context, courses []model.CourseRecord, venues []model.VenueRecord, params Params) *Result {
	logger := ctxlog.FromContext(ctx)

	units, err := Aggregate(ctx, courses)
	logSkipped(ctx, "Skipped malformed course schedule.", err)
	catalog, err := BuildCatalog(ctx, venues)
	logSkipped(ctx, "Skipped malformed venue hours.", err)

	lectures, tutorials := Split(units)
	logger.Info("Inputs prepared.", "courses", len(courses), "units", len(units),
		"lectures", len(lectures), "tutorials", len(tutorials), "venues", len(catalog.Venues()))

	placedLectures := AllocateLectures(ctx, lectures, catalog, params.LectureBuildingPriority, params.ConvenienceFactor)
	placedSections := AllocateTutorials(ctx, tutorials, catalog, params.tutorialPriority(), params.ConvenienceFactor)

	res := &Result{Lectures: lectures, Tutorials: tutorials, Catalog: catalog, Params: params}
	logger.Info("Allocation finished.", "lecturesPlaced", placedLectures, "sectionsPlaced", placedSections,
		"unassigned", len(res.Unassigned()))
	return res
}

func logSkipped(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}
	logger := ctxlog.FromContext(ctx)
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			logger.Warn(msg, "error", e)
		}
		return
	}
	logger.Warn(msg, "error", err)
}

// Assignments lists every lecture and every tutorial section, placed or not.
func (r *Result) Assignments() []model.Assignment {
	var out []model.Assignment
	for _, l := range r.Lectures {
		out = append(out, model.Assignment{
			CourseCode: l.CourseCode,
			CourseName: l.CourseName,
			Kind:       model.KindLecture,
			Building:   l.Building,
			Venue:      l.Venue,
			Slots:      l.Slots,
		})
	}
	for _, t := range r.Tutorials {
		for i, v := range t.Venues {
			out = append(out, model.Assignment{
				CourseCode: t.CourseCode,
				CourseName: t.CourseName,
				Kind:       model.KindTutorial,
				Section:    i + 1,
				Building:   t.Buildings[i],
				Venue:      v,
				Slots:      t.Slots,
			})
		}
	}
	return out
}

// Unassigned lists the lectures and tutorial sections that have slots to
// fill but no venue.
func (r *Result) Unassigned() []model.Unassigned {
	var out []model.Unassigned
	for _, l := range r.Lectures {
		if l.Placed() || len(l.Slots) == 0 {
			continue
		}
		out = append(out, model.Unassigned{
			CourseCode:         l.CourseCode,
			CourseName:         l.CourseName,
			Kind:               model.KindLecture,
			StudentsRegistered: l.StudentsRegistered,
		})
	}
	for _, t := range r.Tutorials {
		if len(t.Slots) == 0 {
			continue
		}
		for i, v := range t.Venues {
			if v != "" {
				continue
			}
			out = append(out, model.Unassigned{
				CourseCode:         t.CourseCode,
				CourseName:         t.CourseName,
				Kind:               model.KindTutorial,
				Section:            i + 1,
				StudentsRegistered: t.StudentsRegistered,
			})
		}
	}
	return out
}

func (r *Result) Stats() Stats {
	s := Stats{ConvenienceFactor: r.Params.ConvenienceFactor}
	for _, l := range r.Lectures {
		s.Lectures++
		if l.Placed() {
			s.LecturesPlaced++
		} else if len(l.Slots) == 0 {
			s.Unscheduled++
		}
	}
	for _, t := range r.Tutorials {
		s.Sections += t.Sections
		s.SectionsPlaced += t.PlacedSections()
		if len(t.Slots) == 0 {
			s.Unscheduled += t.Sections
		}
	}
	for _, v := range r.Catalog.Venues() {
		s.Venues++
		booked := len(v.BookedSlots())
		s.SlotsOpen += len(v.OpenSlots())
		s.SlotsBooked += booked
		if booked > 0 {
			s.VenuesUsed++
		}
	}
	return s
}
