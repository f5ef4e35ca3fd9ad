package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rhyrak/hall-schedule/internal/ctxlog"
	"github.com/rhyrak/hall-schedule/internal/runconfig"
	"github.com/rhyrak/hall-schedule/internal/scheduler"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, a ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, a...)}
}

// Parse processes command-line arguments. It returns a populated
// Configuration, a boolean indicating if the program should exit cleanly,
// or an ExitError.
func Parse(ctx context.Context, args []string, output io.Writer) (*scheduler.Configuration, bool, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("CLI parser started.")

	def := scheduler.NewDefaultConfiguration()
	flagSet := flag.NewFlagSet("hallschedule", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
hallschedule - assigns lectures and tutorials to lecture halls.

Usage:
  hallschedule [options]

Course and venue files ending in .json are read as JSON, anything else as CSV.
A -payload file replaces both and its params override every other source.

Options:
`)
		flagSet.PrintDefaults()
	}

	coursesFlag := flagSet.String("courses", def.CoursesFile, "Path to the course sheet (.csv or .json).")
	venuesFlag := flagSet.String("venues", def.VenuesFile, "Path to the venue sheet (.csv or .json).")
	payloadFlag := flagSet.String("payload", "", "Path to a JSON payload with courses, venues and params.")
	paramsFlag := flagSet.String("params", "", "Path to an HCL run file.")
	outFlag := flagSet.String("out", def.ExportFile, "Where to write the schedule CSV.")
	unassignedFlag := flagSet.String("unassigned", def.UnassignedFile, "Where to write unassigned items. Empty disables it.")
	delimiterFlag := flagSet.String("delimiter", string(def.Delimiter), "CSV field delimiter.")
	lectureFlag := flagSet.String("lecture-buildings", strings.Join(def.LectureBuildingPriority, ","), "Comma separated building order for lectures.")
	tutorialFlag := flagSet.String("tutorial-buildings", strings.Join(def.TutorialBuildingPriority, ","), "Comma separated building order for tutorials.")
	printFlag := flagSet.String("print", "", "Print a view after the run. Options: 'schedule' or 'venues'.")
	convenienceFlag := flagSet.Int("convenience", def.ConvenienceFactor, "Percent of spare seats wanted over the registered count.")
	logFormatFlag := flagSet.String("log-format", def.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", def.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	if flagSet.NArg() > 0 {
		return nil, false, usageError("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))
	}

	set := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := def
	if *paramsFlag != "" {
		rf, err := runconfig.Load(ctx, *paramsFlag)
		if err != nil {
			return nil, false, usageError("%s", err.Error())
		}
		rf.Apply(cfg)
		cfg.ParamsFile = *paramsFlag
	}

	if set["courses"] {
		cfg.CoursesFile = *coursesFlag
	}
	if set["venues"] {
		cfg.VenuesFile = *venuesFlag
	}
	if set["payload"] {
		cfg.PayloadFile = *payloadFlag
	}
	if set["print"] {
		cfg.Print = strings.ToLower(*printFlag)
	}
	if set["out"] {
		cfg.ExportFile = *outFlag
	}
	if set["unassigned"] {
		cfg.UnassignedFile = *unassignedFlag
	}
	if set["delimiter"] {
		if utf8.RuneCountInString(*delimiterFlag) != 1 {
			return nil, false, usageError("invalid delimiter %q: must be a single character", *delimiterFlag)
		}
		cfg.Delimiter, _ = utf8.DecodeRuneInString(*delimiterFlag)
	}
	if set["lecture-buildings"] {
		cfg.LectureBuildingPriority = splitList(*lectureFlag)
	}
	if set["tutorial-buildings"] {
		cfg.TutorialBuildingPriority = splitList(*tutorialFlag)
	}
	if set["convenience"] {
		cfg.ConvenienceFactor = *convenienceFlag
	}
	cfg.LogFormat = strings.ToLower(*logFormatFlag)
	cfg.LogLevel = strings.ToLower(*logLevelFlag)

	if err := cfg.Validate(); err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	logger.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

// splitList splits a comma separated list, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
