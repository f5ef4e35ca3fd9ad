package csvio

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rhyrak/hall-schedule/internal/scheduler"
	"github.com/rhyrak/hall-schedule/pkg/model"
	"github.com/stretchr/testify/require"
)

const coursesCSV = "\xEF\xBB\xBFCourse Code;Course Name;Section;Students Registered;Lecture Schedule;Tutorial Schedule;Tutorial Count;Modular Course;Modular Parent\n" +
	"CS101;Intro to CS;;120;MW 09:00-10:00;F 14:00-15:00;2;;\n" +
	"MA101;Calculus;B;80.0;TTh 11:00-12:20;;;1;\n" +
	"MA102;Calculus II;;200;;;;2;MA101_B\n" +
	"HS100;Ethics;;n/a;F 09:00-10:00;;;;\n"

const venuesCSV = "name;capacity;building;monday;tuesday;wednesday;thursday;friday\n" +
	"L1;150;LHC;08:00-17:00;08:00-17:00;08:00-12:00 13:00-17:00;08:00-17:00;08:00-17:00\n" +
	"T1;130;TB;08:00-17:00;;;;08:00-17:00\n"

func TestReadCourses(t *testing.T) {
	t.Parallel()

	courses, err := ReadCourses(strings.NewReader(coursesCSV), ';')
	require.NoError(t, err)
	require.Len(t, courses, 4)

	require.Equal(t, "CS101", courses[0].CourseCode, "BOM must not leak into the first header")
	require.Equal(t, model.Count(120), courses[0].StudentsRegistered)
	require.Equal(t, model.Count(2), courses[0].TutorialCount)
	require.Equal(t, "MW 09:00-10:00", courses[0].LectureSchedule)

	require.Equal(t, "B", courses[1].Section)
	require.Equal(t, model.Count(80), courses[1].StudentsRegistered)
	require.Equal(t, model.Count(model.ModularParent), courses[1].ModularCourse)

	require.Equal(t, model.Count(model.ModularChild), courses[2].ModularCourse)
	require.Equal(t, "MA101_B", courses[2].ModularParent)

	require.Zero(t, courses[3].StudentsRegistered, "non-numeric counts default to zero")
}

func TestReadVenues(t *testing.T) {
	t.Parallel()

	venues, err := ReadVenues(strings.NewReader(venuesCSV), ';')
	require.NoError(t, err)
	require.Len(t, venues, 2)

	require.Equal(t, "LHC", venues[0].Building)
	require.Equal(t, model.Count(150), venues[0].Capacity)
	require.Equal(t, []model.Interval{{Open: "08:00", Close: "12:00"}, {Open: "13:00", Close: "17:00"}}, venues[0].Schedule.Wednesday)
	require.Empty(t, venues[1].Schedule.Tuesday)
	require.Len(t, venues[1].Schedule.Friday, 1)
}

func runSample(t *testing.T) *scheduler.Result {
	t.Helper()
	courses, err := ReadCourses(strings.NewReader(coursesCSV), ';')
	require.NoError(t, err)
	venues, err := ReadVenues(strings.NewReader(venuesCSV), ';')
	require.NoError(t, err)
	return scheduler.Run(context.Background(), courses, venues, scheduler.Params{
		LectureBuildingPriority:  []string{"LHC"},
		TutorialBuildingPriority: []string{"TB", "LHC"},
	})
}

func TestWriteSchedule(t *testing.T) {
	t.Parallel()

	res := runSample(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSchedule(res, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, "course_code,course_name,kind,section,building,venue,slots", lines[0])
	require.Contains(t, buf.String(), `CS101,Intro to CS,lecture,0,LHC,L1,"M 09:00-10:00, W 09:00-10:00"`)
	require.Contains(t, buf.String(), "CS101,Intro to CS,tutorial,1,TB,T1,F 14:00-15:00")
	require.Contains(t, buf.String(), "CS101,Intro to CS,tutorial,2,LHC,L1,F 14:00-15:00")
	require.Contains(t, buf.String(), "MA101_B#MA102,Calculus#Calculus II,lecture,0,,,")
}

func TestWriteUnassignedAndTimeline(t *testing.T) {
	t.Parallel()

	res := runSample(t)

	var unassigned bytes.Buffer
	require.NoError(t, WriteUnassigned(res, &unassigned))
	require.Contains(t, unassigned.String(), "course_code,course_name,kind,section,students_registered")
	require.Contains(t, unassigned.String(), "MA101_B#MA102,Calculus#Calculus II,lecture,0,200")

	var timeline bytes.Buffer
	require.NoError(t, WriteTimeline(res.Catalog, &timeline))
	require.Contains(t, timeline.String(), "LHC,L1,Monday,09:00,CS101")
	require.Contains(t, timeline.String(), "TB,T1,Friday,14:30,CS101")
}

func TestExportFiles(t *testing.T) {
	t.Parallel()

	res := runSample(t)
	dir := t.TempDir()
	schedulePath := filepath.Join(dir, "schedule.csv")
	unassignedPath := filepath.Join(dir, "unassigned.csv")
	timelinePath := filepath.Join(dir, "timeline.csv")

	require.NoError(t, ExportSchedule(res, schedulePath))
	require.NoError(t, ExportUnassigned(res, unassignedPath))
	require.NoError(t, ExportTimeline(res.Catalog, timelinePath))

	timeline, err := os.ReadFile(timelinePath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(timeline), "building,venue,day,time,course\n"))

	content, err := os.ReadFile(schedulePath)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteSchedule(res, &buf))
	require.Equal(t, buf.String(), string(content))

	require.Error(t, ExportSchedule(res, filepath.Join(dir, "missing", "schedule.csv")))
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadCourses(filepath.Join(t.TempDir(), "nope.csv"), ',')
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = LoadVenues(filepath.Join(t.TempDir(), "nope.csv"), ',')
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPrintSchedule(t *testing.T) {
	t.Parallel()

	res := runSample(t)
	var buf bytes.Buffer
	PrintSchedule(res, &buf)
	require.Contains(t, buf.String(), "LHC L1 (150)")
	require.Contains(t, buf.String(), "CS101/T2")

	buf.Reset()
	PrintVenueTimeline(res.Catalog, &buf)
	require.Contains(t, buf.String(), "TB T1: 2/36 half hours booked")
}

func TestPrintSchedule_SameVenueNameInTwoBuildings(t *testing.T) {
	t.Parallel()

	hours := model.WeeklyHours{Monday: []model.Interval{{Open: "09:00", Close: "11:00"}}}
	venues := []model.VenueRecord{
		{Name: "R1", Capacity: 30, Building: "B1", Schedule: hours},
		{Name: "R1", Capacity: 30, Building: "B2", Schedule: hours},
	}
	courses := []model.CourseRecord{
		{CourseCode: "A", StudentsRegistered: 20, LectureSchedule: "M 09:00-10:00"},
		{CourseCode: "B", StudentsRegistered: 10, LectureSchedule: "M 09:00-10:00"},
	}
	res := scheduler.Run(context.Background(), courses, venues, scheduler.Params{LectureBuildingPriority: []string{"B1", "B2"}})

	var buf bytes.Buffer
	PrintSchedule(res, &buf)
	out := buf.String()
	require.Contains(t, out, "Printed rows: 2")
	b1 := strings.Index(out, "B1 R1 (30)")
	b2 := strings.Index(out, "B2 R1 (30)")
	require.True(t, b1 >= 0 && b2 > b1, out)
	require.Equal(t, 1, strings.Count(out[b1:b2], "lecture"), "each venue lists only its own course")

	buf.Reset()
	require.NoError(t, WriteSchedule(res, &buf))
	require.Contains(t, buf.String(), "A,,lecture,0,B1,R1,M 09:00-10:00")
	require.Contains(t, buf.String(), "B,,lecture,0,B2,R1,M 09:00-10:00")
}
