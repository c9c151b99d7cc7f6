package chibicart

import (
	"fmt"

	"chibicart/savestate"
)

// Mapper is the bank-switching engine of one cartridge chip family. It is
// bound 1:1 to a Cartridge at construction and translates every CPU and
// video access into a byte of the image or its RAM.
//
// CPURead, CPUWrite, VideoRead and VideoWrite sit on the hot path: they
// never allocate, never block and never fail for a well-formed address.
// Snapshot and Restore may only run while the emulation thread is quiesced.
type Mapper interface {
	// Reset re-initializes page windows and control registers to their
	// power-on defaults. Called at load time and on every system reset.
	Reset()

	CPURead(addr uint16) byte
	CPUWrite(addr uint16, value byte)

	// Video access, for chips that also remap character/tile memory.
	// Chips without a video side read 0xFF and drop writes.
	VideoRead(addr uint16) byte
	VideoWrite(addr uint16, value byte)

	// OnScanline is called once per rendered line. Chips with a raster
	// counter clock it here; all others ignore it.
	OnScanline()
	IRQAsserted() bool
	IRQAcknowledge()

	// Mirroring reports the current video mirroring, including runtime
	// changes made through a chip's mirroring side channel.
	Mirroring() MirroringType

	// State exposes the mapper's savestate section for machine-wide
	// snapshot registries.
	State() *savestate.Owner
	Snapshot() []byte
	Restore(blob []byte) error
}

// Chip identifiers as used in the cartridge header.
const (
	ChipSega byte = iota
	ChipCodemasters
	ChipKorean
	ChipMSX
	ChipNemesis
	ChipAxROM
	ChipMMC3
)

type chipInfo struct {
	name string
	new  func(cart *Cartridge) Mapper
}

// chipTable is the closed set of supported chip families. New chips are
// added here, never discovered at runtime.
var chipTable = map[byte]chipInfo{
	ChipSega:        {"Sega", NewMapperSega},
	ChipCodemasters: {"Codemasters", NewMapperCodemasters},
	ChipKorean:      {"Korean", NewMapperKorean},
	ChipMSX:         {"MSX", NewMapperMSX},
	ChipNemesis:     {"Nemesis", NewMapperNemesis},
	ChipAxROM:       {"AxROM", NewMapperAxROM},
	ChipMMC3:        {"MMC3", NewMapperMMC3},
}

// NewMapper constructs the mapper variant the cartridge header selects.
// There is no fallback for unknown chips.
func NewMapper(cart *Cartridge) (Mapper, error) {
	info, ok := chipTable[cart.ChipID]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnsupportedChip, cart.ChipID)
	}
	return info.new(cart), nil
}

// IsSupportedChip reports whether a chip identifier has a registered
// mapper variant.
func IsSupportedChip(id byte) bool {
	_, ok := chipTable[id]
	return ok
}

// ChipName returns the human readable name of a chip identifier, or the
// empty string for an unknown chip.
func ChipName(id byte) string {
	return chipTable[id].name
}
