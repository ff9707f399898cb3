package iic

import (
	"periph.io/x/conn/v3/physic"

	"dvfsboot/rcar"
)

// ClockSetting holds the SCL divider values for one EXTAL class.
type ClockSetting struct {
	Class rcar.ExtalClass
	ICCL  uint8
	ICCH  uint8

	// CP is the peripheral clock feeding the controller, zero when the
	// product uses a fixed setting.
	CP physic.Frequency
}

// clockTable is indexed by rcar.ExtalClass.
var clockTable = [...]ClockSetting{
	rcar.Extal16M66: {Class: rcar.Extal16M66, ICCL: 0x07, ICCH: 0x01, CP: 8333300 * physic.Hertz},
	rcar.Extal20M:   {Class: rcar.Extal20M, ICCL: 0x09, ICCH: 0x02, CP: 10 * physic.MegaHertz},
	rcar.Extal25M:   {Class: rcar.Extal25M, ICCL: 0x0B, ICCH: 0x03, CP: 12500 * physic.KiloHertz},
	rcar.Extal33M33: {Class: rcar.Extal33M33, ICCL: 0x0E, ICCH: 0x05, CP: 16666600 * physic.Hertz},
	rcar.ExtalE3:    {Class: rcar.ExtalE3, ICCL: 0x15, ICCH: 0x07},
}

// ClockFor returns the divider setting for class. Unknown classes fall back
// to the 33.33MHz entry, matching the strap decoder's default.
func ClockFor(class rcar.ExtalClass) ClockSetting {
	if int(class) < len(clockTable) {
		return clockTable[class]
	}
	return clockTable[rcar.Extal33M33]
}

// configureClock detects the oscillator class and programs ICCL/ICCH.
func (c *Controller) configureClock() ClockSetting {
	setting := ClockFor(rcar.DetectExtal(c.bus))
	c.write(rcar.ICCL, setting.ICCL)
	c.write(rcar.ICCH, setting.ICCH)
	return setting
}
