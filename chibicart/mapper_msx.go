package chibicart

// MapperMSX maps four 16 KiB windows from four independent registers at
// 0x4000-0x4003 (register index in the low two address bits). The 32 KiB
// RAM is reachable through the 0x8000-0xBFFF window, with the RAM page bit
// selecting which 16 KiB half the window exposes. The enable flag reflects
// cartridge wiring and is latched from the header at reset, there is no
// documented software control for it.
type MapperMSX struct {
	*mapperBase

	controlReg byte
	ramEnabled bool
	ramPage    byte
	bankRegs   [4]byte
}

func NewMapperMSX(cart *Cartridge) Mapper {
	m := &MapperMSX{
		mapperBase: newMapperBase(cart, 0x4000),
	}

	mustRegister(m.state.RegisterByte("msx_control_reg", &m.controlReg))
	mustRegister(m.state.RegisterBool("msx_ram_enabled", &m.ramEnabled))
	mustRegister(m.state.RegisterByte("msx_ram_page", &m.ramPage))
	mustRegister(m.state.RegisterBytes("msx_bank_regs", m.bankRegs[:]))
	mustRegister(m.state.RegisterBytes("msx_current_pages", m.table.banks[:]))

	m.Reset()
	return m
}

func (m *MapperMSX) Reset() {
	m.controlReg = 0
	m.ramEnabled = m.cart.HasRAM()
	m.ramPage = 0
	for i := range m.bankRegs {
		m.bankRegs[i] = 0
	}

	m.table.reset()
	for slot := 0; slot < 4; slot++ {
		m.table.selectPage(slot, byte(slot))
	}
}

func (m *MapperMSX) CPURead(addr uint16) byte {
	if addr >= 0x8000 && addr < 0xC000 && m.cart.HasRAM() {
		return m.ramRead(m.ramEnabled, uint32(m.ramPage)<<14|uint32(addr&0x3FFF))
	}
	return m.table.read(addr)
}

func (m *MapperMSX) CPUWrite(addr uint16, value byte) {
	if addr >= 0x4000 && addr <= 0x4003 {
		reg := addr & 0x0003
		m.bankRegs[reg] = value
		m.table.selectPage(int(reg), value)
		return
	}

	if addr >= 0x8000 && addr < 0xC000 && m.cart.HasRAM() {
		m.ramWrite(m.ramEnabled, uint32(m.ramPage)<<14|uint32(addr&0x3FFF), value)
	}
}
