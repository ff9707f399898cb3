package iic

import (
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// The controller can be handed to TinyGo drivers and periph.io devices as
// long as they only issue single-register transfers.
var (
	_ drivers.I2C = (*Controller)(nil)
	_ i2c.Bus     = (*Controller)(nil)
)

// Tx performs a single-register transfer. w = {reg, data} with no read is a
// register write; w = {reg} with a one-byte r is a register read.
func (c *Controller) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F {
		return ErrInvalidAddress
	}

	switch {
	case len(w) == 2 && len(r) == 0:
		return c.Send(uint8(addr), w[0], w[1])
	case len(w) == 1 && len(r) == 1:
		v, err := c.Receive(uint8(addr), w[0])
		if err != nil {
			return err
		}
		r[0] = v
		return nil
	default:
		return ErrUnsupported
	}
}

// SetSpeed always fails: the SCL timing is fixed by the EXTAL class.
func (c *Controller) SetSpeed(f physic.Frequency) error {
	return ErrUnsupported
}

func (c *Controller) String() string {
	return "IIC-DVFS@" + hex32(uint32(c.base))
}
