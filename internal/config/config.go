// Package config binds the cairovm CLI's flags to a typed struct, the
// smallest ambient configuration layer this repository needs: nothing
// in the memory subsystem reads a config file, so a flag-bound struct
// covers the CLI's few knobs without inventing a layer the codebase
// doesn't use.
package config

import "github.com/spf13/pflag"

// Config holds the cairovm CLI's run-time knobs.
type Config struct {
	// SegmentHint is the value the demo writes into the range_check
	// builtin's first cell; it does not size any segment.
	SegmentHint uint
	// Verbose raises the logger to debug level.
	Verbose bool
	// OutputFormat selects the inspect report's rendering ("table" or "json").
	OutputFormat string
}

// Default returns the CLI's default configuration.
func Default() *Config {
	return &Config{SegmentHint: 8, OutputFormat: "table"}
}

// BindFlags registers c's fields onto fs.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.UintVar(&c.SegmentHint, "segment-hint", c.SegmentHint, "value the demo writes into the range_check builtin cell")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "enable debug logging")
	fs.StringVarP(&c.OutputFormat, "output", "o", c.OutputFormat, "report format: table or json")
}
