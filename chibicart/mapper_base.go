package chibicart

import "chibicart/savestate"

// mapperBase carries what every chip variant shares: the bound cartridge,
// the page table and the savestate section. Variants embed it and override
// the collaborator hooks their chip actually wires up.
type mapperBase struct {
	cart  *Cartridge
	table pageTable
	state *savestate.Owner
}

func newMapperBase(cart *Cartridge, pageSize uint32) *mapperBase {
	return &mapperBase{
		cart:  cart,
		table: newPageTable(cart.ROM, pageSize),
		state: savestate.NewOwner("mapper"),
	}
}

// mustRegister guards field registration in mapper constructors. The field
// sets are static per variant, so a failure is a programming error.
func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}

// Default collaborator hooks.

func (m *mapperBase) VideoRead(addr uint16) byte        { return 0xFF }
func (m *mapperBase) VideoWrite(addr uint16, value byte) {}
func (m *mapperBase) OnScanline()                        {}
func (m *mapperBase) IRQAsserted() bool                  { return false }
func (m *mapperBase) IRQAcknowledge()                    {}

func (m *mapperBase) Mirroring() MirroringType {
	return m.cart.Mirror
}

func (m *mapperBase) State() *savestate.Owner {
	return m.state
}

func (m *mapperBase) Snapshot() []byte {
	return m.state.Snapshot()
}

// Restore applies a snapshot atomically, then rebuilds the resolved page
// windows from the restored bank indices against the bound image. Persisted
// page state is always bank indices, never resolved offsets, so a snapshot
// taken in another process restores correctly here.
func (m *mapperBase) Restore(blob []byte) error {
	if err := m.state.Restore(blob); err != nil {
		return err
	}
	m.table.rederive()
	return nil
}

// ramRead and ramWrite implement the shared RAM-window fallback rules:
// reads of a disabled window return 0xFF, writes to a disabled window are
// dropped. Neither is an error.

func (m *mapperBase) ramRead(enabled bool, offset uint32) byte {
	if !enabled || offset >= uint32(len(m.cart.RAM)) {
		return 0xFF
	}
	return m.cart.RAM[offset]
}

func (m *mapperBase) ramWrite(enabled bool, offset uint32, value byte) {
	if !enabled || offset >= uint32(len(m.cart.RAM)) {
		return
	}
	m.cart.RAM[offset] = value
}
