// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"

	"chibicart/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	opts.Input = args[0]
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chibicart [options] <cartridge file>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after cartridge file, please pass the cartridge file as last argument", arg),
			}
		}
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.DurationVar(&opts.Bench, "bench", 0, "drive the mapper hot path for the given duration and report throughput")
	flags.BoolVar(&opts.Verify, "verify", false, "exercise a snapshot/restore round trip and report PASS/FAIL")
	flags.StringVar(&opts.SavFile, "sav", "", "battery save file path (default: <cartridge file>.sav)")
	flags.BoolVar(&opts.StatsView, "statsview", false, "launch the runtime stats server (requires the statsview build tag)")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
