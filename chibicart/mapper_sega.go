package chibicart

// MapperSega is the standard Sega bank-switching chip: 16 KiB pages over
// four CPU windows, control registers in the top four bytes of the address
// space. 0xFFFC gates the cartridge RAM window with two independent bits
// (bit 3 enable, bit 2 write enable); 0xFFFD-0xFFFF select the bank for the
// window given by the low two address bits.
type MapperSega struct {
	*mapperBase

	ramEnabled      bool
	ramWriteEnabled bool
	ramPage         byte
	controlReg      byte
	ramControlReg   byte
}

func NewMapperSega(cart *Cartridge) Mapper {
	m := &MapperSega{
		mapperBase: newMapperBase(cart, 0x4000),
	}

	mustRegister(m.state.RegisterBool("sega_ram_enabled", &m.ramEnabled))
	mustRegister(m.state.RegisterBool("sega_ram_write_enabled", &m.ramWriteEnabled))
	mustRegister(m.state.RegisterByte("sega_ram_page", &m.ramPage))
	mustRegister(m.state.RegisterByte("sega_control_reg", &m.controlReg))
	mustRegister(m.state.RegisterByte("sega_ram_control_reg", &m.ramControlReg))
	mustRegister(m.state.RegisterBytes("sega_current_pages", m.table.banks[:]))

	m.Reset()
	return m
}

func (m *MapperSega) Reset() {
	m.ramEnabled = false
	m.ramWriteEnabled = false
	m.ramPage = 0
	m.controlReg = 0
	m.ramControlReg = 0

	m.table.reset()
	for slot := 0; slot < 4; slot++ {
		m.table.selectPage(slot, byte(slot))
	}
}

func (m *MapperSega) CPURead(addr uint16) byte {
	if addr >= 0x8000 && addr < 0xC000 && m.cart.HasRAM() {
		return m.ramRead(m.ramEnabled, uint32(m.ramPage)<<14|uint32(addr&0x3FFF))
	}
	return m.table.read(addr)
}

func (m *MapperSega) CPUWrite(addr uint16, value byte) {
	if addr >= 0xFFFC {
		switch addr & 0x0003 {
		case 0:
			m.ramControlReg = value
			m.ramEnabled = value&0x08 != 0
			m.ramWriteEnabled = value&0x04 != 0
		default:
			m.controlReg = value
			m.table.selectPage(int(addr&0x0003), value)
		}
		return
	}

	if addr >= 0x8000 && addr < 0xC000 && m.cart.HasRAM() {
		m.ramWrite(m.ramEnabled && m.ramWriteEnabled,
			uint32(m.ramPage)<<14|uint32(addr&0x3FFF), value)
	}
}
