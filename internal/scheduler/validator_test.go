package scheduler

import (
	"context"
	"testing"

	"github.com/rhyrak/hall-schedule/pkg/model"
	"github.com/stretchr/testify/require"
)

func TestValidate_DetectsStrayBooking(t *testing.T) {
	t.Parallel()

	catalog := mustCatalog(t, venueRecord("R1", 30, "B1", mondayMorning))
	r1, _ := catalog.Venue("B1", "R1")
	require.NoError(t, r1.Book([]model.SlotID{model.MustSlotID(model.Monday, 9, 0)}, "GHOST"))

	valid, msg := Validate(&Result{Catalog: catalog})
	require.False(t, valid)
	require.Contains(t, msg, "[FAIL]: Booking consistency check.")
	require.Contains(t, msg, "booked by GHOST without an assignment")
}

func TestValidate_DetectsDoubleClaim(t *testing.T) {
	t.Parallel()

	catalog := mustCatalog(t, venueRecord("R1", 30, "B1", mondayMorning))
	slot := []model.SlotID{model.MustSlotID(model.Monday, 9, 0)}
	a := &model.Lecture{CourseCode: "A", StudentsRegistered: 10, Slots: slot, Venue: "R1", Building: "B1"}
	b := &model.Lecture{CourseCode: "B", StudentsRegistered: 10, Slots: slot, Venue: "R1", Building: "B1"}
	r1, _ := catalog.Venue("B1", "R1")
	require.NoError(t, r1.Book(slot, "A"))

	valid, msg := Validate(&Result{Lectures: []*model.Lecture{a, b}, Catalog: catalog})
	require.False(t, valid)
	require.Contains(t, msg, "[FAIL]: Venue collision check.")
	require.Contains(t, msg, "- Venue B1 R1 at Mon 09:00 assigned to both A and B")
}

func TestValidate_UnknownVenue(t *testing.T) {
	t.Parallel()

	catalog := mustCatalog(t, venueRecord("R1", 30, "B1", mondayMorning))
	l := &model.Lecture{CourseCode: "A", Slots: []model.SlotID{model.MustSlotID(model.Monday, 9, 0)}, Venue: "R9", Building: "B1"}

	valid, msg := Validate(&Result{Lectures: []*model.Lecture{l}, Catalog: catalog})
	require.False(t, valid)
	require.Contains(t, msg, "Venue B1 R9 is not in the catalog")
}

func TestValidate_CleanRun(t *testing.T) {
	t.Parallel()

	venues := []model.VenueRecord{venueRecord("R1", 30, "B1", mondayMorning)}
	courses := []model.CourseRecord{{CourseCode: "A", StudentsRegistered: 10, LectureSchedule: "M 09:00-10:00"}}
	res := Run(context.Background(), courses, venues, Params{LectureBuildingPriority: []string{"B1"}})

	valid, msg := Validate(res)
	require.True(t, valid)
	require.Equal(t, "[  OK]: Course has venue check.\n[  OK]: Venue collision check.\n[  OK]: Booking consistency check.\n", msg)
}

func TestValidate_SameVenueNameInTwoBuildings(t *testing.T) {
	t.Parallel()

	venues := []model.VenueRecord{
		venueRecord("R1", 30, "B1", mondayMorning),
		venueRecord("R1", 30, "B2", mondayMorning),
	}
	courses := []model.CourseRecord{
		{CourseCode: "A", StudentsRegistered: 20, LectureSchedule: "M 09:00-10:00"},
		{CourseCode: "B", StudentsRegistered: 10, LectureSchedule: "M 09:00-10:00"},
	}
	res := Run(context.Background(), courses, venues, Params{LectureBuildingPriority: []string{"B1", "B2"}})

	a, b := res.Lectures[0], res.Lectures[1]
	require.Equal(t, []string{"B1", "R1"}, []string{a.Building, a.Venue})
	require.Equal(t, []string{"B2", "R1"}, []string{b.Building, b.Venue})

	valid, msg := Validate(res)
	require.True(t, valid, msg)

	var buildings []string
	for _, as := range res.Assignments() {
		buildings = append(buildings, as.Building)
	}
	require.Equal(t, []string{"B1", "B2"}, buildings)
}
