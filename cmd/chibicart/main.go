// Package main implements a cartridge mapper tool: it loads and validates
// cartridge images and can benchmark and verify the mapper engine.
package main

import (
	"context"
	"errors"
	"os"

	"chibicart/internal/app"
	"chibicart/internal/cli"
	"chibicart/internal/config"

	rgapp "github.com/retroenv/retrogolib/app"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := rgapp.Context()

	opts, err := cli.ParseFlags()
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			app.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}

	app.PrintBanner(logger, opts, version, commit, date)

	if err := app.Run(ctx, logger, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal(err.Error())
	}
}
