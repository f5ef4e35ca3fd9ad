package model

import (
	"strings"
)

// Interval is one opening window of a venue, "HH:MM" 24-hour clock.
type Interval struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// WeeklyHours lists the opening windows per teaching day.
type WeeklyHours struct {
	Monday    []Interval `json:"monday,omitempty"`
	Tuesday   []Interval `json:"tuesday,omitempty"`
	Wednesday []Interval `json:"wednesday,omitempty"`
	Thursday  []Interval `json:"thursday,omitempty"`
	Friday    []Interval `json:"friday,omitempty"`
}

// On returns the windows declared for day.
func (w WeeklyHours) On(day Weekday) []Interval {
	switch day {
	case Monday:
		return w.Monday
	case Tuesday:
		return w.Tuesday
	case Wednesday:
		return w.Wednesday
	case Thursday:
		return w.Thursday
	case Friday:
		return w.Friday
	}
	return nil
}

// OpenHours is a CSV cell holding a day's windows, e.g. "08:00-12:00 13:00-17:00".
// Windows are separated by spaces or '|'.
type OpenHours []Interval

// UnmarshalCSV implements gocsv.TypeUnmarshaller. Fragments without a '-'
// are kept with an empty close time so the catalog can report and skip them.
func (h *OpenHours) UnmarshalCSV(s string) error {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '|'
	})
	out := make(OpenHours, 0, len(fields))
	for _, f := range fields {
		open, close, _ := strings.Cut(f, "-")
		out = append(out, Interval{Open: open, Close: close})
	}
	*h = out
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (h OpenHours) MarshalCSV() (string, error) {
	parts := make([]string, len(h))
	for i, iv := range h {
		parts[i] = iv.Open + "-" + iv.Close
	}
	return strings.Join(parts, " "), nil
}
