package model

// Modular course tags as they appear in the "Modular Course" column.
const (
	NotModular    = 0
	ModularParent = 1
	ModularChild  = 2
)

// CourseRecord is one row of the course sheet as entered by the timetable
// office. Schedules are free text such as "MTh 12:00-13:15, W 09:00-10:00".
type CourseRecord struct {
	CourseCode         string `csv:"Course Code" json:"Course Code"`
	CourseName         string `csv:"Course Name" json:"Course Name"`
	Section            string `csv:"Section" json:"Section"`
	StudentsRegistered Count  `csv:"Students Registered" json:"Students Registered"`
	LectureSchedule    string `csv:"Lecture Schedule" json:"Lecture Schedule"`
	TutorialSchedule   string `csv:"Tutorial Schedule" json:"Tutorial Schedule"`
	TutorialCount      Count  `csv:"Tutorial Count" json:"Tutorial Count"`
	ModularCourse      Count  `csv:"Modular Course" json:"Modular Course"`
	ModularParent      string `csv:"Modular Parent" json:"Modular Parent"`
}

// CourseUnit is a schedulable course after modular sections have been merged.
type CourseUnit struct {
	Code               string
	Name               string
	StudentsRegistered int
	LectureSlots       []SlotID
	TutorialSlots      []SlotID
	TutorialCount      int
	Modular            bool
}

// MergeChild folds a modular child section into u. The child's identity is
// appended to u's code and name; capacity needs take the larger section.
func (u *CourseUnit) MergeChild(child *CourseUnit, marker string) {
	u.Code += marker + child.Code
	u.Name += marker + child.Name
	u.StudentsRegistered = max(u.StudentsRegistered, child.StudentsRegistered)
	u.TutorialCount = max(u.TutorialCount, child.TutorialCount)
}
