package chibicart

// MapperNemesis runs 8 KiB pages through a file of eight bank registers,
// decoded from the contiguous control range 0x8000-0xBFFF as
// (addr >> 11) & 0x07. Its 16 KiB RAM window sits at 0xC000-0xFFFF; address
// bit 13 acts as the RAM page sub-field across the two 8 KiB RAM pages.
// Like the MSX family the RAM enable reflects cartridge wiring and is
// latched from the header at reset.
type MapperNemesis struct {
	*mapperBase

	controlReg byte
	ramEnabled bool
	ramPage    byte
	bankRegs   [8]byte
}

func NewMapperNemesis(cart *Cartridge) Mapper {
	m := &MapperNemesis{
		mapperBase: newMapperBase(cart, 0x2000),
	}

	mustRegister(m.state.RegisterByte("nemesis_control_reg", &m.controlReg))
	mustRegister(m.state.RegisterBool("nemesis_ram_enabled", &m.ramEnabled))
	mustRegister(m.state.RegisterByte("nemesis_ram_page", &m.ramPage))
	mustRegister(m.state.RegisterBytes("nemesis_bank_regs", m.bankRegs[:]))
	mustRegister(m.state.RegisterBytes("nemesis_current_pages", m.table.banks[:]))

	m.Reset()
	return m
}

func (m *MapperNemesis) Reset() {
	m.controlReg = 0
	m.ramEnabled = m.cart.HasRAM()
	m.ramPage = 0
	for i := range m.bankRegs {
		m.bankRegs[i] = 0
	}

	m.table.reset()
	for slot := 0; slot < 8; slot++ {
		m.table.selectPage(slot, byte(slot))
	}
}

func (m *MapperNemesis) CPURead(addr uint16) byte {
	if addr >= 0xC000 && m.cart.HasRAM() {
		return m.ramRead(m.ramEnabled, uint32(addr&0x3FFF))
	}
	return m.table.read(addr)
}

func (m *MapperNemesis) CPUWrite(addr uint16, value byte) {
	if addr >= 0x8000 && addr < 0xC000 {
		reg := (addr >> 11) & 0x07
		m.bankRegs[reg] = value
		m.table.selectPage(int(reg), value)
		return
	}

	if addr >= 0xC000 && m.cart.HasRAM() {
		m.ramWrite(m.ramEnabled, uint32(addr&0x3FFF), value)
	}
}
