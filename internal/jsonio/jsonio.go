// Package jsonio reads the JSON form of the course and venue sheets, the
// shape produced by the upload page: {"courseData": [...], "hallData": [...]}.
package jsonio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rhyrak/hall-schedule/internal/scheduler"
	"github.com/rhyrak/hall-schedule/pkg/model"
)

// RunParams mirrors scheduler.Params for request bodies.
type RunParams struct {
	LectureBuildingPriority  []string `json:"lectureBuildingPriority"`
	TutorialBuildingPriority []string `json:"tutorialBuildingPriority"`
	ConvenienceFactor        *int     `json:"convenienceFactor"`
}

// Apply overwrites the fields of p that the request sets.
func (r *RunParams) Apply(p *scheduler.Params) {
	if r == nil {
		return
	}
	if r.LectureBuildingPriority != nil {
		p.LectureBuildingPriority = r.LectureBuildingPriority
	}
	if r.TutorialBuildingPriority != nil {
		p.TutorialBuildingPriority = r.TutorialBuildingPriority
	}
	if r.ConvenienceFactor != nil {
		p.ConvenienceFactor = *r.ConvenienceFactor
	}
}

type Payload struct {
	Courses []model.CourseRecord `json:"courseData"`
	Venues  []model.VenueRecord  `json:"hallData"`
	Params  *RunParams           `json:"params,omitempty"`
}

// DecodePayload reads one payload document.
func DecodePayload(in io.Reader) (*Payload, error) {
	var p Payload
	if err := json.NewDecoder(in).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return &p, nil
}

// LoadPayload reads the payload document at path.
func LoadPayload(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	p, err := DecodePayload(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ReadCourses accepts either a bare array of course records or a payload.
func ReadCourses(in io.Reader) ([]model.CourseRecord, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	var courses []model.CourseRecord
	if err := json.Unmarshal(raw, &courses); err == nil {
		return courses, nil
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode course data: %w", err)
	}
	return p.Courses, nil
}

// ReadVenues accepts either a bare array of venue records or a payload.
func ReadVenues(in io.Reader) ([]model.VenueRecord, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	var venues []model.VenueRecord
	if err := json.Unmarshal(raw, &venues); err == nil {
		return venues, nil
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode venue data: %w", err)
	}
	return p.Venues, nil
}

func LoadCourses(path string) ([]model.CourseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCourses(f)
}

func LoadVenues(path string) ([]model.VenueRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadVenues(f)
}
