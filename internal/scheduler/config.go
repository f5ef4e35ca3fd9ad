package scheduler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

// Separators used when building course codes.
const (
	SectionSeparator = "_"
	ModularMarker    = "#"
)

// Params are the knobs of one allocation run. Run accepts any Params;
// Validate is for inputs taken from users.
type Params struct {
	LectureBuildingPriority  []string `validate:"required,min=1,dive,required"`
	TutorialBuildingPriority []string `validate:"dive,required"`
	// ConvenienceFactor is the percent of extra seats required over the
	// registered count. Negative values tighten the threshold.
	ConvenienceFactor int `validate:"gte=-100"`
}

type Configuration struct {
	CoursesFile string `validate:"required_without=PayloadFile"`
	VenuesFile  string `validate:"required_without=PayloadFile"`
	// PayloadFile is a JSON document holding courses, venues and
	// optionally params. Its params override flags and the run file.
	PayloadFile    string
	ParamsFile     string
	ExportFile     string `validate:"required"`
	UnassignedFile string
	// Print selects an optional console view: schedule or venues.
	Print     string `validate:"omitempty,oneof=schedule venues"`
	Delimiter rune
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`
	Params
}

func NewDefaultConfiguration() *Configuration {
	return &Configuration{
		CoursesFile:    "./res/courses.csv",
		VenuesFile:     "./res/venues.csv",
		ExportFile:     "schedule.csv",
		UnassignedFile: "unassigned.csv",
		Delimiter:      ',',
		LogLevel:       "info",
		LogFormat:      "text",
		Params: Params{
			LectureBuildingPriority:  []string{"LHC", "TB"},
			TutorialBuildingPriority: []string{"TB", "LHC"},
			ConvenienceFactor:        20, // 20% spare seats
		},
	}
}

var validate = validator.New()

// Validate checks the struct tags of p.
func (p *Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return nil
}

// Validate checks the struct tags of c, including the embedded Params.
func (c *Configuration) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return nil
}

// tutorialPriority falls back to the lecture order when no tutorial order is set.
func (p *Params) tutorialPriority() []string {
	if len(p.TutorialBuildingPriority) == 0 {
		return p.LectureBuildingPriority
	}
	return p.TutorialBuildingPriority
}
