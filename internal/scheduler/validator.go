package scheduler

import (
	"fmt"

	"github.com/rhyrak/hall-schedule/pkg/model"
)

// venueKey names a venue; names are only unique within a building.
type venueKey struct {
	building, name string
}

func (k venueKey) String() string {
	return k.building + " " + k.name
}

// Validate checks the result for double bookings, bookings that do not match
// an assignment, and unassigned items.
// Returns false and a message for invalid schedules.
func Validate(res *Result) (bool, string) {
	var message string
	valid := true
	hasCollision := false
	hasStrayBooking := false

	// venue -> slot -> course expected from the assignments
	claims := make(map[venueKey]map[model.SlotID]string)
	for _, a := range res.Assignments() {
		if a.Venue == "" {
			continue
		}
		key := venueKey{building: a.Building, name: a.Venue}
		if claims[key] == nil {
			claims[key] = make(map[model.SlotID]string)
		}
		for _, s := range a.Slots {
			if prev, taken := claims[key][s]; taken {
				valid = false
				hasCollision = true
				message += fmt.Sprintf("- Venue %s at %s assigned to both %s and %s\n", key, s, prev, a.CourseCode)
				continue
			}
			claims[key][s] = a.CourseCode
		}
	}

	for key, slots := range claims {
		v, ok := res.Catalog.Venue(key.building, key.name)
		if !ok {
			valid = false
			hasStrayBooking = true
			message += fmt.Sprintf("- Venue %s is not in the catalog\n", key)
			continue
		}
		for s, course := range slots {
			occupant, booked := v.Occupant(s)
			if !booked || occupant != course || v.IsAvailable(s) {
				valid = false
				hasStrayBooking = true
				message += fmt.Sprintf("- Venue %s at %s not booked for %s\n", key, s, course)
			}
		}
	}

	for _, v := range res.Catalog.Venues() {
		for _, s := range v.BookedSlots() {
			if _, ok := claims[venueKey{building: v.Building, name: v.Name}][s]; !ok {
				valid = false
				hasStrayBooking = true
				occupant, _ := v.Occupant(s)
				message += fmt.Sprintf("- Venue %s %s at %s booked by %s without an assignment\n", v.Building, v.Name, s, occupant)
			}
			if v.IsAvailable(s) {
				valid = false
				hasStrayBooking = true
				message += fmt.Sprintf("- Venue %s %s at %s is booked but marked free\n", v.Building, v.Name, s)
			}
		}
	}

	unassigned := res.Unassigned()
	if len(unassigned) > 0 {
		valid = false
		message += fmt.Sprintf("- There are %d unassigned items:\n", len(unassigned))
		for _, un := range unassigned {
			message += fmt.Sprintf("    %s %s %d %s\n", un.CourseCode, un.Kind, un.StudentsRegistered, un.CourseName)
		}
	}

	if hasStrayBooking {
		message = "[FAIL]: Booking consistency check.\n" + message
	} else {
		message = "[  OK]: Booking consistency check.\n" + message
	}
	if hasCollision {
		message = "[FAIL]: Venue collision check.\n" + message
	} else {
		message = "[  OK]: Venue collision check.\n" + message
	}
	if len(unassigned) > 0 {
		message = "[FAIL]: Course has venue check.\n" + message
	} else {
		message = "[  OK]: Course has venue check.\n" + message
	}

	return valid, message
}
