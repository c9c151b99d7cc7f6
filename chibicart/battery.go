package chibicart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// BatteryFile is a memory-mapped .sav file next to the cartridge image. The
// cartridge RAM is copied into the mapping on Store and the mapping is
// flushed, so the save survives a crash without an explicit close.
type BatteryFile struct {
	file *os.File
	mmap mmap.MMap
	path string
}

// BatteryFilePath derives the save file path from the cartridge image path.
func BatteryFilePath(romFilePath string) string {
	romFileName := fileNameWithoutExtension(romFilePath)
	romFileDir := filepath.Dir(filepath.Clean(romFilePath))
	return filepath.Join(romFileDir, romFileName+`.sav`)
}

// OpenBatteryFile opens or creates the save file at path for a
// battery-backed cartridge. A new file is created at the cartridge's RAM
// size and filled with 0xFF, matching uninitialized RAM; an existing file
// must match the RAM size exactly.
func OpenBatteryFile(path string, ramSize uint32) (*BatteryFile, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.Size() != int64(ramSize) {
			return nil, fmt.Errorf("battery file %s: size %d does not match cartridge RAM size %d",
				path, info.Size(), ramSize)
		}
	case os.IsNotExist(err):
		if err := createBatteryFile(path, ramSize); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("battery file %s: %w", path, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("battery file %s: %w", path, err)
	}
	m, err := mmap.Map(file, mmap.RDWR, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("battery file %s: mmap: %w", path, err)
	}

	return &BatteryFile{file: file, mmap: m, path: path}, nil
}

func createBatteryFile(path string, ramSize uint32) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("battery file %s: %w", path, err)
	}
	blank := make([]byte, ramSize)
	for i := range blank {
		blank[i] = 0xFF
	}
	if _, err := file.Write(blank); err != nil {
		file.Close()
		return fmt.Errorf("battery file %s: %w", path, err)
	}
	return file.Close()
}

// Path returns the save file location.
func (b *BatteryFile) Path() string {
	return b.path
}

// Load copies the persisted save into the cartridge RAM.
func (b *BatteryFile) Load(cart *Cartridge) error {
	return cart.LoadBatteryRAM(b.mmap)
}

// Store copies the cartridge RAM into the mapping and flushes it to disk.
func (b *BatteryFile) Store(cart *Cartridge) error {
	ram := cart.BatteryRAM()
	if len(ram) != len(b.mmap) {
		return fmt.Errorf("battery file %s: cartridge RAM size %d does not match file size %d",
			b.path, len(ram), len(b.mmap))
	}
	copy(b.mmap, ram)
	return b.Flush()
}

// Flush forces the mapping out to disk.
func (b *BatteryFile) Flush() error {
	if err := b.mmap.Flush(); err != nil {
		return fmt.Errorf("battery file %s: flush: %w", b.path, err)
	}
	return nil
}

// Close unmaps and closes the save file. The mapping is flushed first.
func (b *BatteryFile) Close() error {
	flushErr := b.Flush()
	if err := b.mmap.Unmap(); err != nil {
		b.file.Close()
		return fmt.Errorf("battery file %s: unmap: %w", b.path, err)
	}
	if err := b.file.Close(); err != nil {
		return fmt.Errorf("battery file %s: close: %w", b.path, err)
	}
	return flushErr
}

func fileNameWithoutExtension(filePath string) string {
	fileName := filepath.Base(filePath)
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
