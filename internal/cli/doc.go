// Package cli parses command-line arguments into a scheduler.Configuration
// and maps failures to process exit codes. Values are layered: defaults,
// then the run file named by -params, then explicitly set flags.
package cli
