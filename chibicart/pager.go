package chibicart

// Page resolution arithmetic shared by every mapper chip. Bank numbers are
// always wrapped modulo the image's bank count before resolution, matching
// the address-line wraparound of the real hardware; an out-of-range bank
// select is never an error.

// BankCount returns the number of pageSize banks in an image of romSize
// bytes, counting a trailing partial bank. It is zero only for an empty
// image, which the loader rejects before any mapper sees it.
func BankCount(romSize, pageSize uint32) uint32 {
	if pageSize == 0 {
		return 0
	}
	return (romSize + pageSize - 1) / pageSize
}

// WrapBank wraps a selected bank index into the valid range.
func WrapBank(bank, bankCount uint32) uint32 {
	return bank % bankCount
}

const maxPageSlots = 8

// pageTable tracks which ROM bank each bus window currently exposes. Only
// the bank indices are authoritative state: the resolved byte windows are a
// cache, rebuilt from the indices and the bound image after every restore.
type pageTable struct {
	rom       []byte
	pageSize  uint32
	bankCount uint32

	addrShift  uint
	offsetMask uint16
	slotCount  int

	banks   [maxPageSlots]byte
	windows [maxPageSlots][]byte
	mapped  [maxPageSlots]bool
}

// newPageTable builds an empty table over rom with the given page size.
// pageSize must be a power of two between 8 KiB and 32 KiB.
func newPageTable(rom []byte, pageSize uint32) pageTable {
	shift := uint(0)
	for s := pageSize; s > 1; s >>= 1 {
		shift++
	}
	return pageTable{
		rom:        rom,
		pageSize:   pageSize,
		bankCount:  BankCount(uint32(len(rom)), pageSize),
		addrShift:  shift,
		offsetMask: uint16(pageSize - 1),
		slotCount:  0x10000 >> shift,
	}
}

// selectPage maps bank (wrapped) into the given window slot.
func (t *pageTable) selectPage(slot int, bank byte) {
	wrapped := WrapBank(uint32(bank), t.bankCount)
	start := wrapped * t.pageSize
	end := start + t.pageSize
	if end > uint32(len(t.rom)) {
		end = uint32(len(t.rom))
	}
	t.banks[slot] = bank
	t.windows[slot] = t.rom[start:end]
	t.mapped[slot] = true
}

// read resolves addr through the window cache. Unmapped slots and offsets
// past a short trailing bank read as 0xFF.
func (t *pageTable) read(addr uint16) byte {
	win := t.windows[int(addr)>>t.addrShift]
	offset := int(addr & t.offsetMask)
	if offset < len(win) {
		return win[offset]
	}
	return 0xFF
}

// currentPages returns the selected bank index per slot, the only page
// state worth persisting.
func (t *pageTable) currentPages() [maxPageSlots]byte {
	return t.banks
}

// rederive rebuilds every mapped window from its bank index against the
// bound image. Called after a snapshot restore overwrites the indices.
func (t *pageTable) rederive() {
	for slot := 0; slot < t.slotCount; slot++ {
		if t.mapped[slot] {
			t.selectPage(slot, t.banks[slot])
		}
	}
}

// reset unmaps every window and clears the bank indices.
func (t *pageTable) reset() {
	for slot := range t.banks {
		t.banks[slot] = 0
		t.windows[slot] = nil
		t.mapped[slot] = false
	}
}
