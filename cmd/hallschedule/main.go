package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rhyrak/hall-schedule/internal/cli"
	"github.com/rhyrak/hall-schedule/internal/csvio"
	"github.com/rhyrak/hall-schedule/internal/ctxlog"
	"github.com/rhyrak/hall-schedule/internal/jsonio"
	"github.com/rhyrak/hall-schedule/internal/scheduler"
	"github.com/rhyrak/hall-schedule/pkg/model"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run writes the report to outW and logs to logW.
func run(outW, logW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(context.Background(), args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := ctxlog.New(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	courses, venues, err := loadInputs(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	res := scheduler.Run(ctx, courses, venues, cfg.Params)
	elapsed := time.Since(start)

	if err := csvio.ExportSchedule(res, cfg.ExportFile); err != nil {
		return err
	}
	logger.Info("Schedule exported.", "path", cfg.ExportFile)
	if cfg.UnassignedFile != "" {
		if err := csvio.ExportUnassigned(res, cfg.UnassignedFile); err != nil {
			return err
		}
		logger.Info("Unassigned items exported.", "path", cfg.UnassignedFile)
	}

	valid, msg := scheduler.Validate(res)
	if valid {
		fmt.Fprintln(outW, "Passed all tests")
	} else {
		fmt.Fprintln(outW, "Invalid schedule:")
	}
	fmt.Fprint(outW, msg)

	switch cfg.Print {
	case "schedule":
		csvio.PrintSchedule(res, outW)
	case "venues":
		csvio.PrintVenueTimeline(res.Catalog, outW)
	}

	stats := res.Stats()
	fmt.Fprintf(outW, "Lectures placed: %d/%d\n", stats.LecturesPlaced, stats.Lectures)
	fmt.Fprintf(outW, "Tutorial sections placed: %d/%d\n", stats.SectionsPlaced, stats.Sections)
	fmt.Fprintf(outW, "Venues used: %d/%d\n", stats.VenuesUsed, stats.Venues)
	fmt.Fprintf(outW, "Half hours booked: %d/%d\n", stats.SlotsBooked, stats.SlotsOpen)
	fmt.Fprintf(outW, "Timer: %f ms\n", float64(elapsed.Nanoseconds())/1000000.0)
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// loadInputs reads courses and venues from the payload when one is given,
// applying its params to cfg, and from the separate files otherwise.
func loadInputs(cfg *scheduler.Configuration) ([]model.CourseRecord, []model.VenueRecord, error) {
	if cfg.PayloadFile != "" {
		p, err := jsonio.LoadPayload(cfg.PayloadFile)
		if err != nil {
			return nil, nil, err
		}
		p.Params.Apply(&cfg.Params)
		if err := cfg.Params.Validate(); err != nil {
			return nil, nil, &cli.ExitError{Code: 2, Message: err.Error()}
		}
		return p.Courses, p.Venues, nil
	}

	courses, err := loadCourses(cfg)
	if err != nil {
		return nil, nil, err
	}
	venues, err := loadVenues(cfg)
	if err != nil {
		return nil, nil, err
	}
	return courses, venues, nil
}

func loadCourses(cfg *scheduler.Configuration) ([]model.CourseRecord, error) {
	if isJSON(cfg.CoursesFile) {
		return jsonio.LoadCourses(cfg.CoursesFile)
	}
	return csvio.LoadCourses(cfg.CoursesFile, cfg.Delimiter)
}

func loadVenues(cfg *scheduler.Configuration) ([]model.VenueRecord, error) {
	if isJSON(cfg.VenuesFile) {
		return jsonio.LoadVenues(cfg.VenuesFile)
	}
	return csvio.LoadVenues(cfg.VenuesFile, cfg.Delimiter)
}
