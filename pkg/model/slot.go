package model

import (
	"cmp"
	"fmt"
)

// Weekday is a teaching day. The zero value is invalid.
type Weekday uint8

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Weekdays lists the teaching days in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// Valid reports whether d is one of Monday..Friday.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Friday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", uint8(d))
	}
	return weekdayNames[d]
}

// HalfHoursPerDay is the number of half-hour blocks between 00:00 and 23:59.
const HalfHoursPerDay = 48

// SlotID identifies one half-hour block on one weekday.
// Two SlotIDs are equal exactly when they name the same block, so the type is
// safe to use as a map key.
type SlotID struct {
	Day      Weekday
	HalfHour uint8 // 0 = 00:00, 1 = 00:30, ..., 47 = 23:30
}

// NewSlotID builds the slot containing hour:minute on day. Minutes are
// truncated to the enclosing half hour.
func NewSlotID(day Weekday, hour, minute int) (SlotID, error) {
	if !day.Valid() {
		return SlotID{}, fmt.Errorf("invalid weekday %d", day)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return SlotID{}, fmt.Errorf("invalid time %02d:%02d", hour, minute)
	}
	return SlotID{Day: day, HalfHour: uint8(hour*2 + minute/30)}, nil
}

// MustSlotID is like NewSlotID but panics on invalid input. Intended for
// tests and constant tables.
func MustSlotID(day Weekday, hour, minute int) SlotID {
	s, err := NewSlotID(day, hour, minute)
	if err != nil {
		panic(err)
	}
	return s
}

// Hour returns the hour of the block start.
func (s SlotID) Hour() int { return int(s.HalfHour) / 2 }

// Minute returns 0 or 30.
func (s SlotID) Minute() int { return int(s.HalfHour) % 2 * 30 }

// Clock returns the block start as HHMM, e.g. 930 for 09:30.
func (s SlotID) Clock() int { return s.Hour()*100 + s.Minute() }

// Key returns the packed day*10000+HHMM form used in exported files,
// e.g. 10930 for Monday 09:30.
func (s SlotID) Key() int { return int(s.Day)*10000 + s.Clock() }

// Compare orders slots by day, then by time of day.
func (s SlotID) Compare(o SlotID) int {
	if c := cmp.Compare(s.Day, o.Day); c != 0 {
		return c
	}
	return cmp.Compare(s.HalfHour, o.HalfHour)
}

// Next returns the following half-hour block on the same day and false when
// s is the last block of the day.
func (s SlotID) Next() (SlotID, bool) {
	if int(s.HalfHour)+1 >= HalfHoursPerDay {
		return s, false
	}
	return SlotID{Day: s.Day, HalfHour: s.HalfHour + 1}, true
}

func (s SlotID) String() string {
	return fmt.Sprintf("%.3s %02d:%02d", s.Day, s.Hour(), s.Minute())
}
