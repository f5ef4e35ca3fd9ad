package model

// Session kinds.
const (
	KindLecture  = "lecture"
	KindTutorial = "tutorial"
)

// Assignment is one placed (or unplaced) session in the result set.
// Section is 0 for lectures and 1-based for tutorial sections.
type Assignment struct {
	CourseCode string
	CourseName string
	Kind       string
	Section    int
	Building   string
	Venue      string
	Slots      []SlotID
}

// Unassigned describes an item that needed a venue and got none.
type Unassigned struct {
	CourseCode         string `csv:"course_code" json:"courseCode"`
	CourseName         string `csv:"course_name" json:"courseName"`
	Kind               string `csv:"kind" json:"kind"`
	Section            int    `csv:"section" json:"section"`
	StudentsRegistered int    `csv:"students_registered" json:"studentsRegistered"`
}

// ScheduleCSVRow is the exported form of an Assignment.
type ScheduleCSVRow struct {
	CourseCode string `csv:"course_code" json:"courseCode"`
	CourseName string `csv:"course_name" json:"courseName"`
	Kind       string `csv:"kind" json:"kind"`
	Section    int    `csv:"section" json:"section"`
	Building   string `csv:"building" json:"building"`
	Venue      string `csv:"venue" json:"venue"`
	Slots      string `csv:"slots" json:"slots"`
}

// TimelineCSVRow is one occupied half hour of one venue.
type TimelineCSVRow struct {
	Building string `csv:"building" json:"building"`
	Venue    string `csv:"venue" json:"venue"`
	Day      string `csv:"day" json:"day"`
	Time     string `csv:"time" json:"time"`
	Course   string `csv:"course" json:"course"`
}
