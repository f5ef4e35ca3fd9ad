package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rhyrak/hall-schedule/pkg/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// newReader builds a CSV reader with the given delimiter. Spreadsheet
// exports often start with a BOM, which would otherwise end up in the first
// header name.
func newReader(in io.Reader, delim rune) *csv.Reader {
	br := bufio.NewReader(in)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	r := csv.NewReader(br)
	r.Comma = delim
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	return r
}

// ReadCourses parses course rows. Missing columns decode as zero values.
func ReadCourses(in io.Reader, delim rune) ([]model.CourseRecord, error) {
	var courses []model.CourseRecord
	if err := gocsv.UnmarshalCSV(newReader(in, delim), &courses); err != nil {
		return nil, fmt.Errorf("failed to parse course data: %w", err)
	}
	return courses, nil
}

// LoadCourses reads and parses given csv file for course data.
func LoadCourses(path string, delim rune) ([]model.CourseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	courses, err := ReadCourses(f, delim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return courses, nil
}

// ReadVenues parses venue rows with one opening-hours column per weekday.
func ReadVenues(in io.Reader, delim rune) ([]model.VenueRecord, error) {
	var rows []*model.VenueCSV
	if err := gocsv.UnmarshalCSV(newReader(in, delim), &rows); err != nil {
		return nil, fmt.Errorf("failed to parse venue data: %w", err)
	}
	venues := make([]model.VenueRecord, 0, len(rows))
	for _, r := range rows {
		venues = append(venues, r.Record())
	}
	return venues, nil
}

// LoadVenues reads and parses given csv file for venue data.
func LoadVenues(path string, delim rune) ([]model.VenueRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	venues, err := ReadVenues(f, delim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return venues, nil
}
