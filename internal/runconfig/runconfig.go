// Package runconfig decodes HCL run files. A run file pins the inputs and
// knobs of a scheduling run so it can be repeated:
//
//	courses            = "res/courses.csv"
//	venues             = "res/venues.csv"
//	delimiter          = ";"
//	lecture_buildings  = ["LHC", "TB"]
//	tutorial_buildings = ["TB"]
//	convenience_factor = 15
//
//	output {
//	  schedule   = "out/schedule.csv"
//	  unassigned = "out/unassigned.csv"
//	}
//
// Every attribute is optional. Relative paths are resolved against the
// directory of the run file.
package runconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rhyrak/hall-schedule/internal/ctxlog"
	"github.com/rhyrak/hall-schedule/internal/scheduler"
)

type RunFile struct {
	Courses           *string    `hcl:"courses,optional"`
	Venues            *string    `hcl:"venues,optional"`
	Delimiter         *string    `hcl:"delimiter,optional"`
	LectureBuildings  []string   `hcl:"lecture_buildings,optional"`
	TutorialBuildings []string   `hcl:"tutorial_buildings,optional"`
	ConvenienceFactor *int       `hcl:"convenience_factor,optional"`
	Output            *hclOutput `hcl:"output,block"`

	dir string
}

type hclOutput struct {
	Schedule   *string `hcl:"schedule,optional"`
	Unassigned *string `hcl:"unassigned,optional"`
}

// Load parses and decodes the run file at path.
func Load(ctx context.Context, path string) (*RunFile, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding run file.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}
	rf, err := Parse(src, path)
	if err != nil {
		return nil, err
	}
	rf.dir = filepath.Dir(path)
	return rf, nil
}

// Parse decodes run file source. Relative paths are kept as written;
// Load resolves them against the file's directory.
func Parse(src []byte, filename string) (*RunFile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decode(file, filename)
}

func decode(file *hcl.File, filename string) (*RunFile, error) {
	var rf RunFile
	if diags := gohcl.DecodeBody(file.Body, nil, &rf); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if rf.Delimiter != nil && utf8.RuneCountInString(*rf.Delimiter) != 1 {
		return nil, fmt.Errorf("%w: %s: delimiter must be a single character, got %q",
			scheduler.ErrInvalidConfiguration, filename, *rf.Delimiter)
	}
	return &rf, nil
}

// Apply overwrites the fields of cfg that the run file sets.
func (rf *RunFile) Apply(cfg *scheduler.Configuration) {
	if rf.Courses != nil {
		cfg.CoursesFile = rf.resolve(*rf.Courses)
	}
	if rf.Venues != nil {
		cfg.VenuesFile = rf.resolve(*rf.Venues)
	}
	if rf.Delimiter != nil {
		r, _ := utf8.DecodeRuneInString(*rf.Delimiter)
		cfg.Delimiter = r
	}
	if rf.LectureBuildings != nil {
		cfg.LectureBuildingPriority = rf.LectureBuildings
	}
	if rf.TutorialBuildings != nil {
		cfg.TutorialBuildingPriority = rf.TutorialBuildings
	}
	if rf.ConvenienceFactor != nil {
		cfg.ConvenienceFactor = *rf.ConvenienceFactor
	}
	if rf.Output != nil {
		if rf.Output.Schedule != nil {
			cfg.ExportFile = rf.resolve(*rf.Output.Schedule)
		}
		if rf.Output.Unassigned != nil {
			cfg.UnassignedFile = rf.resolve(*rf.Output.Unassigned)
		}
	}
}

func (rf *RunFile) resolve(p string) string {
	if rf.dir == "" || p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rf.dir, p)
}
