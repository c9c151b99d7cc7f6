// Package chibicart implements the cartridge side of several 8-bit game
// consoles: image loading and validation, the bank-switching mapper chips
// and their save state. Every CPU and video memory access of the host
// machine is routed through a Mapper bound to a loaded Cartridge.
package chibicart

import "fmt"

// MirroringType is the video nametable arrangement a cartridge exposes.
// Most chips fix it from the header; chips with a mirroring side channel
// (AxROM, MMC3) change it at runtime through their control registers.
type MirroringType byte

const (
	MirrorHorizontal MirroringType = iota
	MirrorVertical
	MirrorSingleScreenA
	MirrorSingleScreenB
)

// Cartridge owns a loaded ROM image and, when the header declares a
// battery, the cartridge RAM. The buffers are allocated once at load time
// and never resized; mappers reference them but never reallocate them.
type Cartridge struct {
	ROM []byte
	RAM []byte // nil when the header declares no RAM

	ChipID  byte
	Mirror  MirroringType
	Battery bool

	ROMSize uint32
	RAMSize uint32

	ROMFilePath string

	Mapper Mapper
}

// HasRAM reports whether the image carries cartridge RAM.
func (c *Cartridge) HasRAM() bool {
	return len(c.RAM) > 0
}

// HasBattery reports whether the cartridge RAM is battery backed and worth
// persisting.
func (c *Cartridge) HasBattery() bool {
	return c.Battery
}

// BatteryRAM returns the live cartridge RAM buffer for persistence.
// Callers must not access it concurrently with the emulation thread.
func (c *Cartridge) BatteryRAM() []byte {
	return c.RAM
}

// LoadBatteryRAM replaces the cartridge RAM content with a previously
// persisted image. The image size must match the declared RAM size exactly.
func (c *Cartridge) LoadBatteryRAM(data []byte) error {
	if uint32(len(data)) != c.RAMSize {
		return fmt.Errorf("battery image is %d bytes, cartridge declares %d",
			len(data), c.RAMSize)
	}
	copy(c.RAM, data)
	return nil
}
