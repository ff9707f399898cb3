// Package pmic drives the ROHM BD9571MWV power management IC found on R-Car
// Gen3 boards: DVFS core voltage selection, backup (suspend-to-RAM) control
// and the KEEP10 warm-boot marker.
package pmic

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Address is the BD9571MWV 7-bit slave address.
const Address = 0x30

// Registers
const (
	RegBackupModeCnt = 0x20
	RegQLLMCnt       = 0x27
	RegDVFSSetVID    = 0x54
	RegKeep10        = 0x79
)

const (
	BitBackupCtrlOut = 0x10 // Power-down trigger to the backup circuit
	Keep10Magic      = 0x55 // Written by cold boot, cleared before suspend

	// RetryMax bounds the caller-level retries used on the suspend path.
	RetryMax = 100
)

// ErrNotConfigured is returned when no bus is attached.
var ErrNotConfigured = errors.New("pmic: bus not configured")

// RegisterError records the register a failed access targeted.
type RegisterError struct {
	Op  string
	Reg uint8
	Err error
}

func (e *RegisterError) Error() string {
	return "pmic: " + e.Op + " register 0x" + string(hexDigit(e.Reg>>4)) + string(hexDigit(e.Reg&0xF)) + ": " + e.Err.Error()
}

func (e *RegisterError) Unwrap() error {
	return e.Err
}

func hexDigit(n uint8) byte {
	return "0123456789ABCDEF"[n&0xF]
}

// BD9571 is one PMIC on a single-register I2C bus.
type BD9571 struct {
	bus  drivers.I2C
	addr uint16
}

// New returns a PMIC at the standard address.
func New(bus drivers.I2C) *BD9571 {
	return &BD9571{bus: bus, addr: Address}
}

func (p *BD9571) read(reg uint8) (uint8, error) {
	if p.bus == nil {
		return 0, ErrNotConfigured
	}
	buf := []byte{0}
	if err := p.bus.Tx(p.addr, []byte{reg}, buf); err != nil {
		return 0, &RegisterError{Op: "read", Reg: reg, Err: err}
	}
	return buf[0], nil
}

func (p *BD9571) write(reg, value uint8) error {
	if p.bus == nil {
		return ErrNotConfigured
	}
	if err := p.bus.Tx(p.addr, []byte{reg, value}, nil); err != nil {
		return &RegisterError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

// ReadRegister reads one PMIC register.
func (p *BD9571) ReadRegister(reg uint8) (uint8, error) {
	return p.read(reg)
}

// WriteRegister writes one PMIC register.
func (p *BD9571) WriteRegister(reg, value uint8) error {
	return p.write(reg, value)
}

// SetVID programs the DVFS core voltage identifier.
func (p *BD9571) SetVID(vid uint8) error {
	return p.write(RegDVFSSetVID, vid)
}

// SetAVS programs the core voltage for an AVS fuse code.
func (p *BD9571) SetAVS(code uint32) error {
	return p.SetVID(LookupAVS(code).VID)
}

// DisableBackupControl clears the backup power-down trigger. Called once on
// boot so a stale trigger cannot cut power.
func (p *BD9571) DisableBackupControl() error {
	mode, err := p.read(RegBackupModeCnt)
	if err != nil {
		return err
	}
	return p.write(RegBackupModeCnt, mode&^BitBackupCtrlOut)
}

// PrepareSuspend disables QLLM and arms the backup power-down trigger, each
// retried up to RetryMax times on top of the bus driver's own retries.
func (p *BD9571) PrepareSuspend() error {
	var err error
	for i := 0; i < RetryMax; i++ {
		if err = p.write(RegQLLMCnt, 0); err == nil {
			break
		}
	}
	if err != nil {
		return err
	}

	for i := 0; i < RetryMax; i++ {
		var mode uint8
		if mode, err = p.read(RegBackupModeCnt); err != nil {
			continue
		}
		if err = p.write(RegBackupModeCnt, mode|BitBackupCtrlOut); err == nil {
			return nil
		}
	}
	return err
}

// ClearKeep10 clears the warm-boot marker before entering suspend-to-RAM.
func (p *BD9571) ClearKeep10() error {
	return p.write(RegKeep10, 0)
}

// SetKeep10 writes the cold-boot marker.
func (p *BD9571) SetKeep10() error {
	return p.write(RegKeep10, Keep10Magic)
}

// IsWarmBoot reports whether the board is resuming from suspend-to-RAM: the
// marker is anything other than the cold-boot magic.
func (p *BD9571) IsWarmBoot() (bool, error) {
	v, err := p.read(RegKeep10)
	if err != nil {
		return false, err
	}
	return v != Keep10Magic, nil
}
