// Package timecode turns the free-text schedule notation used in course and
// venue sheets into half-hour SlotIDs.
//
// A course schedule is a comma separated list of spans, each a run of day
// tokens followed by a time range: "MWF 09:00-09:50, Th 14:00-15:30". Day
// tokens are M, T, W, Th and F. The end of a course span is inclusive of the
// half hour that contains it, while a venue's closing time is exclusive.
package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rhyrak/hall-schedule/pkg/model"
)

var (
	ErrMalformedSpan  = errors.New("malformed schedule span")
	ErrUnknownDay     = errors.New("unknown day token")
	ErrMalformedClock = errors.New("malformed clock time")
)

const minutesPerDay = 24 * 60

// ParseDays reads a run of day tokens such as "MTh" in written order.
func ParseDays(s string) ([]model.Weekday, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty day list", ErrUnknownDay)
	}
	var days []model.Weekday
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'M':
			days = append(days, model.Monday)
		case 'W':
			days = append(days, model.Wednesday)
		case 'F':
			days = append(days, model.Friday)
		case 'T':
			if i+1 < len(s) && s[i+1] == 'h' {
				days = append(days, model.Thursday)
				i++
			} else {
				days = append(days, model.Tuesday)
			}
		default:
			return nil, fmt.Errorf("%w %q in %q", ErrUnknownDay, s[i], s)
		}
	}
	return days, nil
}

// ParseClock reads "H:MM" or "HH:MM". 24:00 is accepted as end of day and
// rejected by callers that need a start time.
func ParseClock(s string) (hour, minute int, err error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(ms) != 2 || len(hs) == 0 || len(hs) > 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedClock, s)
	}
	hour, err = strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedClock, s)
	}
	minute, err = strconv.Atoi(ms)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedClock, s)
	}
	if hour < 0 || minute < 0 || minute > 59 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, 0, fmt.Errorf("%w: %q out of range", ErrMalformedClock, s)
	}
	return hour, minute, nil
}

// QuantizeStart rounds a start time down to the enclosing half hour.
func QuantizeStart(hour, minute int) (int, int) {
	if minute < 30 {
		return hour, 0
	}
	return hour, 30
}

// QuantizeEnd rounds an end time to the last minute of the half hour it
// closes: :00 belongs to the previous hour, :01-:29 to :29, :30-:59 to :59.
func QuantizeEnd(hour, minute int) (int, int) {
	switch {
	case minute == 0:
		return hour - 1, 59
	case minute < 30:
		return hour, 29
	default:
		return hour, 59
	}
}

// Walk emits every half hour touched by the minutes start through end,
// both since midnight and inclusive. Anything past the end of the day is
// dropped.
func Walk(day model.Weekday, start, end int) []model.SlotID {
	end = min(end, minutesPerDay-1)
	if start < 0 || start > end {
		return nil
	}
	s := model.SlotID{Day: day, HalfHour: uint8(start / 30)}
	out := []model.SlotID{s}
	for int(s.HalfHour) < end/30 {
		var ok bool
		if s, ok = s.Next(); !ok {
			break
		}
		out = append(out, s)
	}
	return out
}

// parseStart is ParseClock for opening and starting times, where 24:00 would
// name a block past the end of the day.
func parseStart(s string) (hour, minute int, err error) {
	hour, minute, err = ParseClock(s)
	if err == nil && hour == 24 {
		return 0, 0, fmt.Errorf("%w: %q cannot start a block", ErrMalformedClock, s)
	}
	return hour, minute, err
}

// EncodeSpan expands one time range over days. start and end are clock
// strings; the result lists every day's blocks in chronological order, days
// in the order given.
func EncodeSpan(days []model.Weekday, start, end string) ([]model.SlotID, error) {
	sh, sm, err := parseStart(start)
	if err != nil {
		return nil, err
	}
	eh, em, err := ParseClock(end)
	if err != nil {
		return nil, err
	}
	sh, sm = QuantizeStart(sh, sm)
	eh, em = QuantizeEnd(eh, em)
	from, to := sh*60+sm, eh*60+em
	if to < from {
		return nil, fmt.Errorf("%w: %s-%s ends before it starts", ErrMalformedSpan, start, end)
	}
	var out []model.SlotID
	for _, d := range days {
		out = append(out, Walk(d, from, to)...)
	}
	return out, nil
}

// Encode expands a full schedule description. Spans that cannot be parsed
// are skipped; their errors are joined and returned alongside the slots of
// the spans that could be read. An empty description yields no slots.
func Encode(description string) ([]model.SlotID, error) {
	var (
		out  []model.SlotID
		errs []error
	)
	for _, span := range strings.Split(description, ",") {
		span = strings.TrimSpace(span)
		if span == "" {
			continue
		}
		slots, err := encodeOne(span)
		if err != nil {
			errs = append(errs, fmt.Errorf("span %q: %w", span, err))
			continue
		}
		out = append(out, slots...)
	}
	return out, errors.Join(errs...)
}

func encodeOne(span string) ([]model.SlotID, error) {
	dayPart, timePart, ok := strings.Cut(span, " ")
	if !ok {
		return nil, fmt.Errorf("%w: missing separator between days and time", ErrMalformedSpan)
	}
	days, err := ParseDays(dayPart)
	if err != nil {
		return nil, err
	}
	// tolerate "09:00 - 10:00"
	timePart = strings.ReplaceAll(timePart, " ", "")
	start, end, ok := strings.Cut(timePart, "-")
	if !ok {
		return nil, fmt.Errorf("%w: missing '-' in time range %q", ErrMalformedSpan, timePart)
	}
	return EncodeSpan(days, start, end)
}

// WalkOpen lists the blocks a venue is usable on day between open and
// close. The start is rounded down to its half hour; close is exclusive, so
// "09:00"-"10:00" yields 09:00 and 09:30.
func WalkOpen(day model.Weekday, open, close string) ([]model.SlotID, error) {
	oh, om, err := parseStart(open)
	if err != nil {
		return nil, err
	}
	ch, cm, err := ParseClock(close)
	if err != nil {
		return nil, err
	}
	oh, om = QuantizeStart(oh, om)
	return Walk(day, oh*60+om, ch*60+cm-1), nil
}
