package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rhyrak/hall-schedule/internal/csvio"
	"github.com/rhyrak/hall-schedule/internal/scheduler"
	"github.com/rhyrak/hall-schedule/pkg/model"
)

const (
	scheduleSuffix   = "-schedule.csv"
	timelineSuffix   = "-venues.csv"
	unassignedSuffix = "-unassigned.csv"
	statsSuffix      = "-stats.json"
)

var errNotFound = errors.New("schedule not found")

// store keeps generated schedules as files named <id><suffix> in dir.
type store struct {
	dir string
	mu  sync.RWMutex
}

func newStore(dir string) (*store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &store{dir: dir}, nil
}

func (s *store) path(id, suffix string) string {
	return filepath.Join(s.dir, id+suffix)
}

// validID rejects anything that is not a uuid so ids never escape dir.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *store) save(id string, res *scheduler.Result) error {
	stats, err := json.Marshal(res.Stats())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := csvio.ExportSchedule(res, s.path(id, scheduleSuffix)); err != nil {
		return err
	}
	if err := csvio.ExportTimeline(res.Catalog, s.path(id, timelineSuffix)); err != nil {
		return err
	}
	if err := csvio.ExportUnassigned(res, s.path(id, unassignedSuffix)); err != nil {
		return err
	}
	return os.WriteFile(s.path(id, statsSuffix), stats, 0o644)
}

func (s *store) read(id, suffix string) ([]byte, error) {
	if !validID(id) {
		return nil, errNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, err := os.ReadFile(s.path(id, suffix))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errNotFound
	}
	return content, err
}

func (s *store) ids() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	allIDs := []string{}
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if id, ok := strings.CutSuffix(file.Name(), scheduleSuffix); ok {
			allIDs = append(allIDs, id)
		}
	}
	slices.Sort(allIDs)
	return allIDs, nil
}

func (s *store) delete(id string) error {
	if !validID(id) {
		return errNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.path(id, scheduleSuffix)); errors.Is(err, fs.ErrNotExist) {
		return errNotFound
	}
	var errs []error
	for _, suffix := range []string{scheduleSuffix, timelineSuffix, unassignedSuffix, statsSuffix} {
		if err := os.Remove(s.path(id, suffix)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// createAndExportSchedule validates params, runs the allocation and stores
// its outputs under a fresh id.
func (s *server) createAndExportSchedule(ctx context.Context, courses []model.CourseRecord, venues []model.VenueRecord, params scheduler.Params) (string, *scheduler.Result, error) {
	if err := params.Validate(); err != nil {
		return "", nil, err
	}
	res := scheduler.Run(ctx, courses, venues, params)
	id := uuid.NewString()
	if err := s.store.save(id, res); err != nil {
		return "", nil, fmt.Errorf("failed to store schedule %s: %w", id, err)
	}
	s.setCatalog(res.Catalog)
	return id, res, nil
}
