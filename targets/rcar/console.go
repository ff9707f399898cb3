//go:build tinygo

package main

import "dvfsboot/mmio"

// SCIF2 is the debug console on every Gen3 reference board.
const (
	scif2Base = 0xE6E88000
	scFTDR    = scif2Base + 0x0C // Transmit FIFO data
	scFSR     = scif2Base + 0x10 // Serial status (low byte)

	scFSRTEND = 0x40
	scFSRTDFE = 0x20 // Transmit FIFO data empty
)

// console writes to SCIF2, which the boot ROM has already configured.
type console struct {
	bus mmio.Bus
}

func (c console) putc(b byte) {
	for c.bus.Read8(scFSR)&scFSRTDFE == 0 {
	}
	c.bus.Write8(scFTDR, b)
	mmio.ClearBits8(c.bus, scFSR, scFSRTDFE|scFSRTEND)
}

// Println writes s followed by CRLF.
func (c console) Println(s string) {
	for i := 0; i < len(s); i++ {
		c.putc(s[i])
	}
	c.putc('\r')
	c.putc('\n')
}
