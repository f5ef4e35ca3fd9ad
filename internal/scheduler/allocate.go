package scheduler

import (
	"cmp"
	"context"
	"slices"
	"sort"

	"github.com/rhyrak/hall-schedule/internal/ctxlog"
	"github.com/rhyrak/hall-schedule/pkg/model"
)

// Threshold is the smallest acceptable capacity for students once the
// convenience factor is applied. Truncates toward zero.
func Threshold(students, convenienceFactor int) int {
	return students * (100 + convenienceFactor) / 100
}

// byStudentsDesc returns the positions of n items ordered by descending
// student count, ties in input order.
func byStudentsDesc(n int, students func(int) int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(students(b), students(a))
	})
	return order
}

// AllocateLectures places every unplaced lecture, largest first, and
// returns how many were placed. Lectures keep their positions in the slice.
func AllocateLectures(ctx context.Context, lectures []*model.Lecture, catalog *Catalog, priority []string, convenienceFactor int) int {
	logger := ctxlog.FromContext(ctx)
	placedCount := 0

	order := byStudentsDesc(len(lectures), func(i int) int { return lectures[i].StudentsRegistered })
	for _, i := range order {
		lecture := lectures[i]
		if lecture.Placed() || len(lecture.Slots) == 0 {
			continue
		}
		venue := catalog.place(lecture.Slots, lecture.StudentsRegistered, lecture.CourseCode, priority, convenienceFactor)
		if venue == nil {
			logger.Debug("No venue for lecture.", "course", lecture.CourseCode, "students", lecture.StudentsRegistered)
			continue
		}
		lecture.Venue, lecture.Building = venue.Name, venue.Building
		placedCount++
		logger.Debug("Placed lecture.", "course", lecture.CourseCode, "venue", venue.Name, "building", venue.Building)
	}
	return placedCount
}

// AllocateTutorials places every unplaced tutorial section, tutorials with
// more students first, and returns how many sections were placed. Each
// section competes for venues on its own.
func AllocateTutorials(ctx context.Context, tutorials []*model.Tutorial, catalog *Catalog, priority []string, convenienceFactor int) int {
	logger := ctxlog.FromContext(ctx)
	placedCount := 0

	order := byStudentsDesc(len(tutorials), func(i int) int { return tutorials[i].StudentsRegistered })
	for _, i := range order {
		tutorial := tutorials[i]
		if len(tutorial.Slots) == 0 {
			continue
		}
		for section := range tutorial.Venues {
			if tutorial.Venues[section] != "" {
				continue
			}
			venue := catalog.place(tutorial.Slots, tutorial.StudentsRegistered, tutorial.CourseCode, priority, convenienceFactor)
			if venue == nil {
				logger.Debug("No venue for tutorial section.", "course", tutorial.CourseCode, "section", section+1)
				continue
			}
			tutorial.Venues[section] = venue.Name
			tutorial.Buildings[section] = venue.Building
			placedCount++
			logger.Debug("Placed tutorial section.", "course", tutorial.CourseCode, "section", section+1, "venue", venue.Name)
		}
	}
	return placedCount
}

// place books the first venue found by findVenue in the first building of
// priority that has one. Returns nil when nothing fits.
func (c *Catalog) place(slots []model.SlotID, students int, course string, priority []string, convenienceFactor int) *model.Venue {
	threshold := Threshold(students, convenienceFactor)
	for _, building := range priority {
		venue := findVenue(c.buildings[building], slots, students, threshold)
		if venue == nil {
			continue
		}
		// findVenue only returns venues free at every slot
		if err := venue.Book(slots, course); err != nil {
			panic(err)
		}
		return venue
	}
	return nil
}

// findVenue searches a capacity-ascending list for the smallest venue with
// at least threshold seats that is free at every slot. If there is none it
// walks back toward smaller venues while they still seat all students.
func findVenue(venues []*model.Venue, slots []model.SlotID, students, threshold int) *model.Venue {
	lb := sort.Search(len(venues), func(i int) bool {
		return venues[i].Capacity >= threshold
	})
	for i := lb; i < len(venues); i++ {
		if venues[i].IsAvailableAll(slots) {
			return venues[i]
		}
	}
	for i := lb - 1; i >= 0 && venues[i].Capacity >= students; i-- {
		if venues[i].IsAvailableAll(slots) {
			return venues[i]
		}
	}
	return nil
}
