package mmio

// Memory is a sparse, map-backed Bus. Unwritten registers read as zero.
// It has no side effects on access and is meant for host tests and as the
// backing store of simulated peripherals.
type Memory struct {
	regs8  map[uintptr]uint8
	regs32 map[uintptr]uint32
}

// NewMemory constructs an empty register file.
func NewMemory() *Memory {
	return &Memory{
		regs8:  make(map[uintptr]uint8),
		regs32: make(map[uintptr]uint32),
	}
}

// Read8 reads an 8-bit register
func (m *Memory) Read8(addr uintptr) uint8 {
	return m.regs8[addr]
}

// Write8 writes an 8-bit register
func (m *Memory) Write8(addr uintptr, value uint8) {
	m.regs8[addr] = value
}

// Read32 reads a 32-bit register
func (m *Memory) Read32(addr uintptr) uint32 {
	return m.regs32[addr]
}

// Write32 writes a 32-bit register
func (m *Memory) Write32(addr uintptr, value uint32) {
	m.regs32[addr] = value
}
