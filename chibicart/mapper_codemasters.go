package chibicart

// MapperCodemasters latches a window's bank from a write whose address is
// exactly a 16 KiB page boundary (0x0000, 0x4000, 0x8000). The 0x4000 write
// doubles as the RAM control byte: bit 7 gates the cartridge RAM window at
// 0x8000-0xBFFF.
type MapperCodemasters struct {
	*mapperBase

	controlReg byte
	ramEnabled bool
}

func NewMapperCodemasters(cart *Cartridge) Mapper {
	m := &MapperCodemasters{
		mapperBase: newMapperBase(cart, 0x4000),
	}

	mustRegister(m.state.RegisterByte("codemasters_control_reg", &m.controlReg))
	mustRegister(m.state.RegisterBool("codemasters_ram_enabled", &m.ramEnabled))
	mustRegister(m.state.RegisterBytes("codemasters_current_pages", m.table.banks[:]))

	m.Reset()
	return m
}

func (m *MapperCodemasters) Reset() {
	m.controlReg = 0
	m.ramEnabled = false

	m.table.reset()
	for slot := 0; slot < 3; slot++ {
		m.table.selectPage(slot, byte(slot))
	}
}

func (m *MapperCodemasters) CPURead(addr uint16) byte {
	if addr >= 0x8000 && addr < 0xC000 && m.cart.HasRAM() {
		return m.ramRead(m.ramEnabled, uint32(addr&0x3FFF))
	}
	return m.table.read(addr)
}

func (m *MapperCodemasters) CPUWrite(addr uint16, value byte) {
	switch addr {
	case 0x0000, 0x4000, 0x8000:
		if addr == 0x4000 {
			m.controlReg = value
			m.ramEnabled = value&0x80 != 0
		}
		m.table.selectPage(int(addr>>14), value)
		return
	}

	if addr >= 0x8000 && addr < 0xC000 && m.cart.HasRAM() {
		m.ramWrite(m.ramEnabled, uint32(addr&0x3FFF), value)
	}
}
