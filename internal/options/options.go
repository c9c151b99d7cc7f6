// Package options contains the program options.
package options

import "time"

// Program options of the cartridge tool.
type Program struct {
	Input   string
	SavFile string

	Bench     time.Duration
	Verify    bool
	StatsView bool

	Debug bool
	Quiet bool
}
