package sim

// Device is a register-oriented I2C slave.
type Device interface {
	ReadRegister(reg uint8) uint8
	WriteRegister(reg, value uint8)
}

// RegisterFile is a 256-byte slave such as a PMIC or a small EEPROM.
type RegisterFile struct {
	Name   string
	Regs   [256]uint8
	Reads  int
	Writes int
}

// NewRegisterFile constructs a device with the given initial registers.
func NewRegisterFile(name string, init map[uint8]uint8) *RegisterFile {
	d := &RegisterFile{Name: name}
	for reg, v := range init {
		d.Regs[reg] = v
	}
	return d
}

// ReadRegister returns the register value
func (d *RegisterFile) ReadRegister(reg uint8) uint8 {
	d.Reads++
	return d.Regs[reg]
}

// WriteRegister stores the register value
func (d *RegisterFile) WriteRegister(reg, value uint8) {
	d.Writes++
	d.Regs[reg] = value
}
