package chibicart

// MapperAxROM switches the whole 32 KiB ROM space as a single window at
// 0x8000-0xFFFF. Any write in the window is the control byte: bits 0-2
// select the 32 KiB bank, bit 4 selects which of the two single-screen
// video pages is active. The chip carries no cartridge RAM and uses 8 KiB
// of on-die video RAM for tile data.
type MapperAxROM struct {
	*mapperBase

	controlReg byte
	videoPage  byte
	videoRAM   [0x2000]byte
}

func NewMapperAxROM(cart *Cartridge) Mapper {
	m := &MapperAxROM{
		mapperBase: newMapperBase(cart, 0x8000),
	}

	mustRegister(m.state.RegisterByte("axrom_control_reg", &m.controlReg))
	mustRegister(m.state.RegisterByte("axrom_video_page", &m.videoPage))
	mustRegister(m.state.RegisterBytes("axrom_video_ram", m.videoRAM[:]))
	mustRegister(m.state.RegisterBytes("axrom_current_pages", m.table.banks[:]))

	m.Reset()
	return m
}

func (m *MapperAxROM) Reset() {
	m.controlReg = 0
	m.videoPage = 0
	for i := range m.videoRAM {
		m.videoRAM[i] = 0
	}

	m.table.reset()
	m.table.selectPage(1, 0)
}

func (m *MapperAxROM) CPURead(addr uint16) byte {
	return m.table.read(addr)
}

func (m *MapperAxROM) CPUWrite(addr uint16, value byte) {
	if addr < 0x8000 {
		return
	}
	m.controlReg = value
	m.videoPage = (value >> 4) & 0x01
	m.table.selectPage(1, value&0x07)
}

func (m *MapperAxROM) VideoRead(addr uint16) byte {
	return m.videoRAM[addr&0x1FFF]
}

func (m *MapperAxROM) VideoWrite(addr uint16, value byte) {
	m.videoRAM[addr&0x1FFF] = value
}

// Mirroring exposes the single-screen select as the mirroring side channel.
func (m *MapperAxROM) Mirroring() MirroringType {
	if m.videoPage == 1 {
		return MirrorSingleScreenB
	}
	return MirrorSingleScreenA
}
