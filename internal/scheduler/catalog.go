package scheduler

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rhyrak/hall-schedule/internal/ctxlog"
	"github.com/rhyrak/hall-schedule/internal/timecode"
	"github.com/rhyrak/hall-schedule/pkg/model"
)

// Catalog groups venues by building. Each building's venues are kept in
// ascending capacity order; the allocator relies on that and never re-sorts.
type Catalog struct {
	buildings map[string][]*model.Venue
}

// BuildCatalog creates a venue for every record that names a building and
// opens it during its declared windows. Malformed windows are skipped and
// reported through the joined error without affecting the rest.
func BuildCatalog(ctx context.Context, records []model.VenueRecord) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	c := &Catalog{buildings: make(map[string][]*model.Venue)}
	seen := make(map[string]bool)

	var errs []error
	for i := range records {
		r := &records[i]
		building := strings.TrimSpace(r.Building)
		name := strings.TrimSpace(r.Name)
		if building == "" {
			logger.Warn("Venue has no building, leaving it out of the catalog.", "venue", name)
			continue
		}
		key := building + "/" + name
		if seen[key] {
			logger.Warn("Duplicate venue in building, keeping the first.", "venue", name, "building", building)
			continue
		}
		seen[key] = true

		v := model.NewVenue(name, int(r.Capacity), building)
		for _, day := range model.Weekdays {
			for _, iv := range r.Schedule.On(day) {
				slots, err := timecode.WalkOpen(day, iv.Open, iv.Close)
				if err != nil {
					errs = append(errs, fmt.Errorf("venue %s %s %s-%s: %w", name, day, iv.Open, iv.Close, err))
					continue
				}
				for _, s := range slots {
					v.Open(s)
				}
			}
		}
		c.buildings[building] = append(c.buildings[building], v)
	}

	for _, venues := range c.buildings {
		slices.SortStableFunc(venues, func(a, b *model.Venue) int {
			return cmp.Compare(a.Capacity, b.Capacity)
		})
	}
	logger.Debug("Venue catalog built.", "buildings", len(c.buildings), "venues", len(seen))
	return c, errors.Join(errs...)
}

// Building returns the capacity-ascending venues of id. The slice is owned
// by the catalog.
func (c *Catalog) Building(id string) []*model.Venue {
	return c.buildings[id]
}

// Buildings returns the building ids in lexical order.
func (c *Catalog) Buildings() []string {
	ids := make([]string, 0, len(c.buildings))
	for id := range c.buildings {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Venues returns every venue ordered by building, then capacity.
func (c *Catalog) Venues() []*model.Venue {
	var out []*model.Venue
	for _, id := range c.Buildings() {
		out = append(out, c.buildings[id]...)
	}
	return out
}

// Venue finds a venue by building and name. Names are only unique within a
// building.
func (c *Catalog) Venue(building, name string) (*model.Venue, bool) {
	for _, v := range c.buildings[building] {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}
