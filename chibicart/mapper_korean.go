package chibicart

// koreanBankMask is the default bank-select mask, covering 32 banks as
// wired on real cartridges of this family.
const koreanBankMask = 0x1F

// MapperKorean drives the third 16 KiB window from a single register at
// 0xA000. The written value is masked, then wrapped modulo the bank count.
// Bit 7 of the register gates the optional RAM window at 0x8000-0xBFFF.
type MapperKorean struct {
	*mapperBase

	controlReg byte
	ramEnabled bool
	bankMask   byte
}

func NewMapperKorean(cart *Cartridge) Mapper {
	m := &MapperKorean{
		mapperBase: newMapperBase(cart, 0x4000),
	}

	mustRegister(m.state.RegisterByte("korean_control_reg", &m.controlReg))
	mustRegister(m.state.RegisterBool("korean_ram_enabled", &m.ramEnabled))
	mustRegister(m.state.RegisterByte("korean_bank_select_mask", &m.bankMask))
	mustRegister(m.state.RegisterBytes("korean_current_pages", m.table.banks[:]))

	m.Reset()
	return m
}

func (m *MapperKorean) Reset() {
	m.controlReg = 0
	m.ramEnabled = false
	m.bankMask = koreanBankMask

	m.table.reset()
	for slot := 0; slot < 3; slot++ {
		m.table.selectPage(slot, byte(slot))
	}
}

func (m *MapperKorean) CPURead(addr uint16) byte {
	if addr >= 0x8000 && addr < 0xC000 && m.cart.HasRAM() {
		return m.ramRead(m.ramEnabled, uint32(addr&0x3FFF))
	}
	return m.table.read(addr)
}

func (m *MapperKorean) CPUWrite(addr uint16, value byte) {
	if addr == 0xA000 {
		m.controlReg = value
		if m.cart.HasRAM() {
			m.ramEnabled = value&0x80 != 0
		}
		m.table.selectPage(2, value&m.bankMask)
		return
	}

	if addr >= 0x8000 && addr < 0xC000 && m.cart.HasRAM() {
		m.ramWrite(m.ramEnabled, uint32(addr&0x3FFF), value)
	}
}
