package model

// Lecture is the lecture part of a CourseUnit. Venue and Building are empty
// until placed; venue names are only unique within a building.
type Lecture struct {
	CourseCode         string
	CourseName         string
	StudentsRegistered int
	Slots              []SlotID
	Modular            bool
	Venue              string
	Building           string
}

func NewLecture(u *CourseUnit) *Lecture {
	return &Lecture{
		CourseCode:         u.Code,
		CourseName:         u.Name,
		StudentsRegistered: u.StudentsRegistered,
		Slots:              u.LectureSlots,
		Modular:            u.Modular,
	}
}

// Placed reports whether a venue has been assigned.
func (l *Lecture) Placed() bool { return l.Venue != "" }

// Tutorial is the tutorial part of a CourseUnit. Every section meets at the
// same Slots, so each section needs its own venue. Venues and Buildings hold
// one entry per section; empty entries are unplaced sections.
type Tutorial struct {
	CourseCode         string
	CourseName         string
	StudentsRegistered int
	Slots              []SlotID
	Sections           int
	Modular            bool
	Venues             []string
	Buildings          []string
}

// NewTutorial returns nil when the unit has no tutorial sections.
func NewTutorial(u *CourseUnit) *Tutorial {
	if u.TutorialCount <= 0 {
		return nil
	}
	return &Tutorial{
		CourseCode:         u.Code,
		CourseName:         u.Name,
		StudentsRegistered: u.StudentsRegistered,
		Slots:              u.TutorialSlots,
		Sections:           u.TutorialCount,
		Modular:            u.Modular,
		Venues:             make([]string, u.TutorialCount),
		Buildings:          make([]string, u.TutorialCount),
	}
}

// PlacedSections counts sections with a venue.
func (t *Tutorial) PlacedSections() int {
	n := 0
	for _, v := range t.Venues {
		if v != "" {
			n++
		}
	}
	return n
}
