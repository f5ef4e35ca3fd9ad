package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

var ErrMalformedCount = errors.New("malformed count")

// Count is an integer field read from human-edited sheets. Blank and null
// decode as zero. Non-numeric values also decode as zero but are logged.
type Count int

// ParseCount reads a whole number, allowing the 25.0 form spreadsheet exports
// write. Blank input is zero.
func ParseCount(s string) (Count, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCount, s)
	}
	return Count(f), nil
}

// lenientCount is ParseCount that warns instead of failing the whole sheet.
func lenientCount(s string) Count {
	n, err := ParseCount(s)
	if err != nil {
		slog.Default().Warn("Count is not a number, using 0.", "error", err)
	}
	return n
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (c *Count) UnmarshalCSV(s string) error {
	*c = lenientCount(s)
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (c Count) MarshalCSV() (string, error) {
	return strconv.Itoa(int(c)), nil
}

// UnmarshalJSON accepts 12, 12.0, "12" and null.
func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = lenientCount(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*c = 0
		return nil
	}
	*c = lenientCount(string(b))
	return nil
}
