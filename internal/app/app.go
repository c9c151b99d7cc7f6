// Package app provides the main application drivers for the cartridge tool.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"chibicart/chibicart"
	"chibicart/internal/options"
	"chibicart/internal/statsview"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// PrintBanner prints the version banner.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("chibicart", log.String("version", buildinfo.Version(version, commit, date)))
}

// PrintInfo prints the information about the loaded cartridge.
func PrintInfo(logger *log.Logger, opts options.Program, cart *chibicart.Cartridge) {
	if opts.Quiet {
		return
	}

	logger.Info("Cartridge loaded",
		log.String("file", opts.Input),
		log.String("chip", chibicart.ChipName(cart.ChipID)),
		log.Uint8("chip_id", cart.ChipID),
		log.String("rom_size", fmt.Sprintf("%d", cart.ROMSize)),
		log.String("ram_size", fmt.Sprintf("%d", cart.RAMSize)),
		log.String("banks_16k", fmt.Sprintf("%d", chibicart.BankCount(cart.ROMSize, 0x4000))),
		log.String("mirroring", mirroringName(cart.Mapper.Mirroring())),
		log.String("battery", fmt.Sprintf("%t", cart.HasBattery())),
	)
}

func mirroringName(m chibicart.MirroringType) string {
	switch m {
	case chibicart.MirrorHorizontal:
		return "horizontal"
	case chibicart.MirrorVertical:
		return "vertical"
	case chibicart.MirrorSingleScreenA:
		return "single screen A"
	case chibicart.MirrorSingleScreenB:
		return "single screen B"
	}
	return "unknown"
}

// Run loads the cartridge and executes the requested drivers.
func Run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	cart, err := chibicart.LoadCartFile(opts.Input)
	if err != nil {
		return err
	}

	PrintInfo(logger, opts, cart)

	var battery *chibicart.BatteryFile
	if cart.HasBattery() {
		savPath := opts.SavFile
		if savPath == "" {
			savPath = chibicart.BatteryFilePath(opts.Input)
		}
		battery, err = chibicart.OpenBatteryFile(savPath, cart.RAMSize)
		if err != nil {
			return err
		}
		defer func() {
			if storeErr := battery.Store(cart); storeErr != nil {
				logger.Error("Storing battery RAM failed", log.Err(storeErr))
			}
			if closeErr := battery.Close(); closeErr != nil {
				logger.Error("Closing battery file failed", log.Err(closeErr))
			}
		}()
		if err := battery.Load(cart); err != nil {
			return err
		}
		if !opts.Quiet {
			logger.Info("Battery RAM loaded", log.String("file", battery.Path()))
		}
	}

	if opts.StatsView {
		if statsview.Available() {
			statsview.Launch(os.Stdout)
		} else {
			logger.Warn("Stats server not compiled in, rebuild with the statsview build tag")
		}
	}

	if opts.Verify {
		if err := Verify(logger, cart); err != nil {
			return err
		}
	}

	if opts.Bench > 0 {
		Bench(ctx, logger, cart, opts.Bench)
	}

	return nil
}

// Verify runs a snapshot/restore round trip after a randomized register
// write sequence and checks that a fresh mapper bound to the same image
// reproduces the state byte for byte.
func Verify(logger *log.Logger, cart *chibicart.Cartridge) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	mapper := cart.Mapper
	for i := 0; i < 256; i++ {
		mapper.CPUWrite(uint16(rng.Intn(0x10000)), byte(rng.Intn(0x100)))
	}
	snapshot := mapper.Snapshot()

	fresh, err := chibicart.NewMapper(cart)
	if err != nil {
		return err
	}
	if err := fresh.Restore(snapshot); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	restored := fresh.Snapshot()
	if len(restored) != len(snapshot) {
		return fmt.Errorf("verify FAIL: snapshot sizes differ, %d != %d", len(snapshot), len(restored))
	}
	for i := range snapshot {
		if snapshot[i] != restored[i] {
			return fmt.Errorf("verify FAIL: snapshot mismatch at offset %d", i)
		}
	}
	for addr := 0; addr < 0x10000; addr += 0x101 {
		if got, want := fresh.CPURead(uint16(addr)), mapper.CPURead(uint16(addr)); got != want {
			return fmt.Errorf("verify FAIL: read mismatch at 0x%04X: 0x%02X != 0x%02X", addr, got, want)
		}
	}

	logger.Info("Verify PASS", log.String("snapshot_size", fmt.Sprintf("%d", len(snapshot))))
	return nil
}

// Bench drives the mapper hot path with a mixed read/write sweep for the
// given duration and reports the access rate.
func Bench(ctx context.Context, logger *log.Logger, cart *chibicart.Cartridge, duration time.Duration) {
	const batch = 4096

	mapper := cart.Mapper
	start := time.Now()
	deadline := start.Add(duration)
	var accesses uint64
	var sink byte

	addr := uint16(0x8000)
	for time.Now().Before(deadline) && ctx.Err() == nil {
		for i := 0; i < batch; i++ {
			sink += mapper.CPURead(addr)
			sink += mapper.VideoRead(addr & 0x1FFF)
			if i&0x0F == 0 {
				mapper.CPUWrite(addr, byte(addr))
			}
			addr = addr*5 + 1
		}
		accesses += batch * 2
	}
	_ = sink

	elapsed := time.Since(start)
	rate := float64(accesses) / elapsed.Seconds()
	logger.Info("Benchmark finished",
		log.String("duration", elapsed.String()),
		log.String("accesses", fmt.Sprintf("%d", accesses)),
		log.String("accesses_per_second", fmt.Sprintf("%.0f", rate)),
	)
}
