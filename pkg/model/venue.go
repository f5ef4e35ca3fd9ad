package model

import (
	"errors"
	"fmt"
	"slices"
)

var ErrSlotUnavailable = errors.New("slot unavailable")

// VenueRecord is a lecture hall as stored by the hall manager.
type VenueRecord struct {
	Name     string      `json:"name"`
	Capacity Count       `json:"capacity"`
	Building string      `json:"building"`
	Schedule WeeklyHours `json:"schedule"`
}

// VenueCSV is the flat sheet form of VenueRecord, one column per day.
type VenueCSV struct {
	Name      string    `csv:"name"`
	Capacity  Count     `csv:"capacity"`
	Building  string    `csv:"building"`
	Monday    OpenHours `csv:"monday"`
	Tuesday   OpenHours `csv:"tuesday"`
	Wednesday OpenHours `csv:"wednesday"`
	Thursday  OpenHours `csv:"thursday"`
	Friday    OpenHours `csv:"friday"`
}

func (v *VenueCSV) Record() VenueRecord {
	return VenueRecord{
		Name:     v.Name,
		Capacity: v.Capacity,
		Building: v.Building,
		Schedule: WeeklyHours{
			Monday:    v.Monday,
			Tuesday:   v.Tuesday,
			Wednesday: v.Wednesday,
			Thursday:  v.Thursday,
			Friday:    v.Friday,
		},
	}
}

// Venue is a bookable hall. A slot missing from the availability table is
// outside opening hours and can never be booked.
type Venue struct {
	Name      string
	Capacity  int
	Building  string
	available map[SlotID]bool
	occupant  map[SlotID]string
}

func NewVenue(name string, capacity int, building string) *Venue {
	return &Venue{
		Name:      name,
		Capacity:  capacity,
		Building:  building,
		available: make(map[SlotID]bool),
		occupant:  make(map[SlotID]string),
	}
}

// Open marks slot as inside opening hours. Booked slots stay booked.
func (v *Venue) Open(slot SlotID) {
	if _, ok := v.available[slot]; ok {
		return
	}
	v.available[slot] = true
}

// IsAvailable checks if the venue is open and unoccupied at slot.
func (v *Venue) IsAvailable(slot SlotID) bool {
	return v.available[slot]
}

// IsAvailableAll checks every slot in slots.
func (v *Venue) IsAvailableAll(slots []SlotID) bool {
	for _, s := range slots {
		if !v.available[s] {
			return false
		}
	}
	return true
}

// Book assigns every slot to course. Either all slots are booked or none is.
// This is the only way availability and occupancy change after opening.
func (v *Venue) Book(slots []SlotID, course string) error {
	for _, s := range slots {
		if !v.available[s] {
			return fmt.Errorf("venue %s at %s: %w", v.Name, s, ErrSlotUnavailable)
		}
	}
	for _, s := range slots {
		v.available[s] = false
		v.occupant[s] = course
	}
	return nil
}

// Occupant returns the course holding slot.
func (v *Venue) Occupant(slot SlotID) (string, bool) {
	c, ok := v.occupant[slot]
	return c, ok
}

// OpenSlots returns every slot inside opening hours in chronological order.
func (v *Venue) OpenSlots() []SlotID {
	out := make([]SlotID, 0, len(v.available))
	for s := range v.available {
		out = append(out, s)
	}
	slices.SortFunc(out, SlotID.Compare)
	return out
}

// BookedSlots returns the occupied slots in chronological order.
func (v *Venue) BookedSlots() []SlotID {
	out := make([]SlotID, 0, len(v.occupant))
	for s := range v.occupant {
		out = append(out, s)
	}
	slices.SortFunc(out, SlotID.Compare)
	return out
}
