package chibicart

// MapperMMC3 pairs 8 KiB program banking with a raster interrupt counter.
// The fixed window rule is the interesting part: the last bank is pinned at
// 0xE000 and either 0x8000 or 0xC000 is pinned to the second-to-last bank
// depending on the mode bit, with the two bank registers filling the rest.
type MapperMMC3 struct {
	*mapperBase

	bankSelect byte
	bankRegs   [8]byte
	mirrorReg  byte
	ramProtect byte

	irqLatch   byte
	irqCounter byte
	irqReload  bool
	irqEnabled bool
	irqFlag    bool

	videoRAM [0x2000]byte
}

func NewMapperMMC3(cart *Cartridge) Mapper {
	m := &MapperMMC3{
		mapperBase: newMapperBase(cart, 0x2000),
	}

	mustRegister(m.state.RegisterByte("mmc3_bank_select", &m.bankSelect))
	mustRegister(m.state.RegisterBytes("mmc3_bank_regs", m.bankRegs[:]))
	mustRegister(m.state.RegisterByte("mmc3_mirror_reg", &m.mirrorReg))
	mustRegister(m.state.RegisterByte("mmc3_ram_protect", &m.ramProtect))
	mustRegister(m.state.RegisterByte("mmc3_irq_latch", &m.irqLatch))
	mustRegister(m.state.RegisterByte("mmc3_irq_counter", &m.irqCounter))
	mustRegister(m.state.RegisterBool("mmc3_irq_reload", &m.irqReload))
	mustRegister(m.state.RegisterBool("mmc3_irq_enabled", &m.irqEnabled))
	mustRegister(m.state.RegisterBool("mmc3_irq_flag", &m.irqFlag))
	mustRegister(m.state.RegisterBytes("mmc3_video_ram", m.videoRAM[:]))
	mustRegister(m.state.RegisterBytes("mmc3_current_pages", m.table.banks[:]))

	m.Reset()
	return m
}

func (m *MapperMMC3) Reset() {
	m.bankSelect = 0
	m.bankRegs = [8]byte{}
	m.mirrorReg = 0
	m.ramProtect = 0
	m.irqLatch = 0
	m.irqCounter = 0
	m.irqReload = false
	m.irqEnabled = false
	m.irqFlag = false
	for i := range m.videoRAM {
		m.videoRAM[i] = 0
	}

	m.table.reset()
	m.updateBanks()
}

// updateBanks applies the current mode bit and bank registers to the four
// program windows. Slots 0-3 stay unmapped; the bus below 0x8000 is the RAM
// window and open bus.
func (m *MapperMMC3) updateBanks() {
	last := byte(m.table.bankCount - 1)
	if m.bankSelect&0x40 == 0 {
		m.table.selectPage(4, m.bankRegs[6])
		m.table.selectPage(5, m.bankRegs[7])
		m.table.selectPage(6, last-1)
	} else {
		m.table.selectPage(4, last-1)
		m.table.selectPage(5, m.bankRegs[7])
		m.table.selectPage(6, m.bankRegs[6])
	}
	m.table.selectPage(7, last)
}

func (m *MapperMMC3) ramEnabled() bool {
	return m.cart.HasRAM() && m.ramProtect&0x80 != 0
}

func (m *MapperMMC3) CPURead(addr uint16) byte {
	if addr >= 0x6000 && addr < 0x8000 && m.cart.HasRAM() {
		return m.ramRead(m.ramEnabled(), uint32(addr&0x1FFF))
	}
	return m.table.read(addr)
}

func (m *MapperMMC3) CPUWrite(addr uint16, value byte) {
	if addr < 0x8000 {
		if addr >= 0x6000 && m.cart.HasRAM() {
			writable := m.ramEnabled() && m.ramProtect&0x40 == 0
			m.ramWrite(writable, uint32(addr&0x1FFF), value)
		}
		return
	}

	switch addr & 0xE001 {
	case 0x8000:
		m.bankSelect = value
		m.updateBanks()
	case 0x8001:
		m.bankRegs[m.bankSelect&0x07] = value
		m.updateBanks()
	case 0xA000:
		m.mirrorReg = value
	case 0xA001:
		m.ramProtect = value
	case 0xC000:
		m.irqLatch = value
	case 0xC001:
		m.irqReload = true
	case 0xE000:
		m.irqEnabled = false
		m.irqFlag = false
	case 0xE001:
		m.irqEnabled = true
	}
}

func (m *MapperMMC3) VideoRead(addr uint16) byte {
	return m.videoRAM[addr&0x1FFF]
}

func (m *MapperMMC3) VideoWrite(addr uint16, value byte) {
	m.videoRAM[addr&0x1FFF] = value
}

// OnScanline clocks the raster counter once per visible line. The counter
// reloads from the latch when it has hit zero or a reload was requested,
// otherwise decrements; reaching zero while enabled raises the interrupt.
func (m *MapperMMC3) OnScanline() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqFlag = true
	}
}

func (m *MapperMMC3) IRQAsserted() bool {
	return m.irqFlag
}

// IRQAcknowledge clears the pending flag without touching the counter, so a
// still-enabled counter can fire again on a later line.
func (m *MapperMMC3) IRQAcknowledge() {
	m.irqFlag = false
}

func (m *MapperMMC3) Mirroring() MirroringType {
	if m.mirrorReg&0x01 != 0 {
		return MirrorHorizontal
	}
	return MirrorVertical
}
