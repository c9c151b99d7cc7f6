package chibicart

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Cartridge container format: a fixed 16 byte header followed by the ROM
// payload. All multi-byte fields are little-endian.
var fileMagic = [4]byte{'C', 'H', 'C', 0x1A}

const (
	// ROMSizeCeiling is the largest ROM payload a header may declare.
	ROMSizeCeiling = 512 * 1024
	// RAMSizeCeiling is the largest cartridge RAM a header may declare.
	RAMSizeCeiling = 32 * 1024

	// defaultRAMSize is used when the battery flag is set but the header
	// declares no RAM size.
	defaultRAMSize = 32 * 1024

	headerSize = 16

	batteryFlag = 0x01
)

var (
	// ErrInvalidHeader is returned when the header signature or a header
	// field is malformed.
	ErrInvalidHeader = errors.New("invalid cartridge header")
	// ErrSizeMismatch is returned when a declared size exceeds the payload
	// or a hard ceiling, or describes an image with no usable banks.
	ErrSizeMismatch = errors.New("cartridge size mismatch")
	// ErrUnsupportedChip is returned when the header names a mapper chip
	// with no registered implementation.
	ErrUnsupportedChip = errors.New("unsupported mapper chip")
)

type fileHeader struct {
	Magic    [4]byte
	ChipID   byte
	Mirror   byte
	Flags    byte
	Reserved byte
	ROMSize  uint32
	RAMSize  uint32
}

// LoadCartFile reads a cartridge image from disk.
func LoadCartFile(path string) (*Cartridge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cart, err := LoadCart(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	cart.ROMFilePath = path
	return cart, nil
}

// LoadCart parses and validates a cartridge image, allocates its buffers
// and constructs the mapper the header selects. On any validation failure
// no image is returned. Trailing bytes after the declared ROM payload are
// ignored.
func LoadCart(r io.Reader) (*Cartridge, error) {
	header := fileHeader{}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHeader, err)
	}

	if header.Magic != fileMagic {
		return nil, fmt.Errorf("%w: bad signature % 02x", ErrInvalidHeader, header.Magic[:])
	}
	if header.Mirror > 1 {
		return nil, fmt.Errorf("%w: mirroring mode %d", ErrInvalidHeader, header.Mirror)
	}
	if !IsSupportedChip(header.ChipID) {
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnsupportedChip, header.ChipID)
	}

	if header.ROMSize == 0 {
		return nil, fmt.Errorf("%w: ROM size is zero", ErrSizeMismatch)
	}
	if header.ROMSize > ROMSizeCeiling {
		return nil, fmt.Errorf("%w: ROM size %d exceeds %d", ErrSizeMismatch, header.ROMSize, ROMSizeCeiling)
	}

	battery := header.Flags&batteryFlag != 0
	ramSize := header.RAMSize
	if battery && ramSize == 0 {
		ramSize = defaultRAMSize
	}
	if ramSize > RAMSizeCeiling {
		return nil, fmt.Errorf("%w: RAM size %d exceeds %d", ErrSizeMismatch, ramSize, RAMSizeCeiling)
	}

	rom := make([]byte, header.ROMSize)
	if _, err := io.ReadFull(r, rom); err != nil {
		return nil, fmt.Errorf("%w: ROM payload shorter than declared %d bytes",
			ErrSizeMismatch, header.ROMSize)
	}

	var ram []byte
	if ramSize > 0 {
		// erased-flash pattern, replaced by LoadBatteryRAM when a prior
		// battery image exists
		ram = make([]byte, ramSize)
		for i := range ram {
			ram[i] = 0xFF
		}
	}

	cart := &Cartridge{
		ROM:     rom,
		RAM:     ram,
		ChipID:  header.ChipID,
		Mirror:  MirroringType(header.Mirror),
		Battery: battery,
		ROMSize: header.ROMSize,
		RAMSize: ramSize,
	}

	mapper, err := NewMapper(cart)
	if err != nil {
		return nil, err
	}
	cart.Mapper = mapper

	return cart, nil
}
