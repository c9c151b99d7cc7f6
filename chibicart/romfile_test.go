package chibicart

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// buildHeader assembles a 16 byte cartridge header.
func buildHeader(chip, mirror, flags byte, romSize, ramSize uint32) []byte {
	header := make([]byte, 0, headerSize)
	header = append(header, fileMagic[:]...)
	header = append(header, chip, mirror, flags, 0)
	header = binary.LittleEndian.AppendUint32(header, romSize)
	header = binary.LittleEndian.AppendUint32(header, ramSize)
	return header
}

// buildROM returns a payload where every 8 KiB block is filled with its
// block index plus one, so any mapped bank identifies itself on read.
func buildROM(size uint32) []byte {
	rom := make([]byte, size)
	for i := range rom {
		rom[i] = byte(i>>13) + 1
	}
	return rom
}

func buildImage(chip, mirror, flags byte, romSize, ramSize uint32) []byte {
	return append(buildHeader(chip, mirror, flags, romSize, ramSize), buildROM(romSize)...)
}

// loadTestCart loads a generated image and fails the test on error.
func loadTestCart(t *testing.T, chip byte, romSize, ramSize uint32) *Cartridge {
	t.Helper()

	flags := byte(0)
	if ramSize > 0 {
		flags = batteryFlag
	}
	cart, err := LoadCart(bytes.NewReader(buildImage(chip, 0, flags, romSize, ramSize)))
	assert.NoError(t, err)
	return cart
}

func TestLoadCart(t *testing.T) {
	image := buildImage(ChipSega, 1, batteryFlag, 0x20000, 0x4000)
	cart, err := LoadCart(bytes.NewReader(image))
	assert.NoError(t, err)

	assert.Equal(t, ChipSega, cart.ChipID)
	assert.Equal(t, MirrorVertical, cart.Mirror)
	assert.True(t, cart.HasBattery())
	assert.True(t, cart.HasRAM())
	assert.Equal(t, uint32(0x20000), cart.ROMSize)
	assert.Equal(t, uint32(0x4000), cart.RAMSize)
	assert.Equal(t, 0x20000, len(cart.ROM))
	assert.Equal(t, 0x4000, len(cart.RAM))
	assert.True(t, cart.Mapper != nil)

	for _, b := range cart.RAM {
		if b != 0xFF {
			t.Fatal("cartridge RAM not initialized to 0xFF")
		}
	}
}

func TestLoadCartErrors(t *testing.T) {
	tooLong := buildImage(ChipSega, 0, 0, 0x4000, 0)
	tooLong[8] = 0 // declared ROM size now exceeds the payload

	tests := []struct {
		name  string
		image []byte
		want  error
	}{
		{
			name:  "bad magic",
			image: append([]byte{'X', 'X', 'X', 0x1A}, buildImage(ChipSega, 0, 0, 0x4000, 0)[4:]...),
			want:  ErrInvalidHeader,
		},
		{
			name:  "truncated header",
			image: buildHeader(ChipSega, 0, 0, 0x4000, 0)[:10],
			want:  ErrInvalidHeader,
		},
		{
			name:  "invalid mirroring",
			image: buildImage(ChipSega, 2, 0, 0x4000, 0),
			want:  ErrInvalidHeader,
		},
		{
			name:  "unsupported chip",
			image: buildImage(0x42, 0, 0, 0x4000, 0),
			want:  ErrUnsupportedChip,
		},
		{
			name:  "zero ROM size",
			image: buildHeader(ChipSega, 0, 0, 0, 0),
			want:  ErrSizeMismatch,
		},
		{
			name:  "ROM size over ceiling",
			image: buildHeader(ChipSega, 0, 0, ROMSizeCeiling+1, 0),
			want:  ErrSizeMismatch,
		},
		{
			name:  "RAM size over ceiling",
			image: buildImage(ChipSega, 0, 0, 0x4000, RAMSizeCeiling+1),
			want:  ErrSizeMismatch,
		},
		{
			name:  "payload shorter than declared",
			image: buildImage(ChipSega, 0, 0, 0x8000, 0)[:headerSize+0x4000],
			want:  ErrSizeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCart(bytes.NewReader(tt.image))
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestLoadCartTrailingData(t *testing.T) {
	image := append(buildImage(ChipSega, 0, 0, 0x4000, 0), 0xDE, 0xAD)
	cart, err := LoadCart(bytes.NewReader(image))
	assert.NoError(t, err)
	assert.Equal(t, 0x4000, len(cart.ROM))
}

func TestLoadCartBatteryDefaultRAMSize(t *testing.T) {
	cart, err := LoadCart(bytes.NewReader(buildImage(ChipSega, 0, batteryFlag, 0x4000, 0)))
	assert.NoError(t, err)
	assert.True(t, cart.HasBattery())
	assert.Equal(t, uint32(defaultRAMSize), cart.RAMSize)
	assert.Equal(t, defaultRAMSize, len(cart.RAM))
}

func TestLoadCartNoRAM(t *testing.T) {
	cart, err := LoadCart(bytes.NewReader(buildImage(ChipSega, 0, 0, 0x4000, 0)))
	assert.NoError(t, err)
	assert.False(t, cart.HasRAM())
	assert.False(t, cart.HasBattery())
	assert.True(t, cart.RAM == nil)
}

func TestLoadCartFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.chc")
	assert.NoError(t, os.WriteFile(path, buildImage(ChipKorean, 0, 0, 0x8000, 0), 0644))

	cart, err := LoadCartFile(path)
	assert.NoError(t, err)
	assert.Equal(t, path, cart.ROMFilePath)
	assert.Equal(t, ChipKorean, cart.ChipID)

	_, err = LoadCartFile(filepath.Join(dir, "missing.chc"))
	assert.Error(t, err)
}
