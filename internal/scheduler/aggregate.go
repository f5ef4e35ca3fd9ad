package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rhyrak/hall-schedule/internal/ctxlog"
	"github.com/rhyrak/hall-schedule/internal/timecode"
	"github.com/rhyrak/hall-schedule/pkg/model"
)

// Aggregate turns course sheet rows into schedulable units. Modular children
// are merged into the parent named by their ModularParent field; a child
// whose parent cannot be found becomes a unit of its own. Output order is
// the non-child rows in input order followed by orphaned children.
//
// The returned error joins every schedule fragment that had to be skipped.
// It never means the units are unusable.
func Aggregate(ctx context.Context, records []model.CourseRecord) ([]*model.CourseUnit, error) {
	logger := ctxlog.FromContext(ctx)

	var (
		units    []*model.CourseUnit
		children []int
		errs     []error
	)
	// parent code -> index into units, scoped to this call
	parents := make(map[string]int)

	for i := range records {
		r := &records[i]
		if r.ModularCourse == model.ModularChild {
			children = append(children, i)
			continue
		}
		u, err := newUnit(r)
		if err != nil {
			errs = append(errs, err)
		}
		if r.ModularCourse == model.ModularParent {
			u.Modular = true
			if _, dup := parents[u.Code]; dup {
				logger.Warn("Duplicate modular parent code, keeping the first.", "course", u.Code)
			} else {
				parents[u.Code] = len(units)
			}
		}
		units = append(units, u)
	}

	for _, i := range children {
		r := &records[i]
		u, err := newUnit(r)
		if err != nil {
			errs = append(errs, err)
		}
		u.Modular = true
		parentCode := strings.TrimSpace(r.ModularParent)
		idx, ok := parents[parentCode]
		if !ok {
			logger.Warn("Modular parent not found, scheduling child on its own.",
				"course", u.Code, "parent", parentCode)
			units = append(units, u)
			continue
		}
		units[idx].MergeChild(u, ModularMarker)
		logger.Debug("Merged modular child.", "course", u.Code, "into", units[idx].Code)
	}

	return units, errors.Join(errs...)
}

func newUnit(r *model.CourseRecord) (*model.CourseUnit, error) {
	code := strings.TrimSpace(r.CourseCode)
	if section := strings.TrimSpace(r.Section); section != "" {
		code += SectionSeparator + section
	}
	u := &model.CourseUnit{
		Code:               code,
		Name:               strings.TrimSpace(r.CourseName),
		StudentsRegistered: int(r.StudentsRegistered),
		TutorialCount:      int(r.TutorialCount),
	}

	var errs []error
	var err error
	if u.LectureSlots, err = normalizedSlots(r.LectureSchedule); err != nil {
		errs = append(errs, fmt.Errorf("course %s lecture schedule: %w", code, err))
	}
	if u.TutorialSlots, err = normalizedSlots(r.TutorialSchedule); err != nil {
		errs = append(errs, fmt.Errorf("course %s tutorial schedule: %w", code, err))
	}
	return u, errors.Join(errs...)
}

// normalizedSlots encodes a schedule and returns its slots sorted with
// duplicates removed. Slots of readable spans are kept even on error.
func normalizedSlots(desc string) ([]model.SlotID, error) {
	slots, err := timecode.Encode(desc)
	slices.SortFunc(slots, model.SlotID.Compare)
	return slices.Compact(slots), err
}

// Split derives the lecture of every unit and the tutorial of every unit
// that has tutorial sections.
func Split(units []*model.CourseUnit) ([]*model.Lecture, []*model.Tutorial) {
	lectures := make([]*model.Lecture, 0, len(units))
	var tutorials []*model.Tutorial
	for _, u := range units {
		lectures = append(lectures, model.NewLecture(u))
		if t := model.NewTutorial(u); t != nil {
			tutorials = append(tutorials, t)
		}
	}
	return lectures, tutorials
}
