// Package cpg releases peripheral modules from module standby.
package cpg

import (
	"errors"

	"dvfsboot/mmio"
	"dvfsboot/rcar"
)

// ErrTimeout is returned when the module stop status never reports the
// module as running.
var ErrTimeout = errors.New("cpg: module stop status timeout")

// DefaultPollLimit bounds the wait on the module stop status register.
const DefaultPollLimit = 1000000

// Module names a module stop control bit and its status register.
type Module struct {
	Control uintptr // SMSTPCRn or SCMSTPCRn
	Status  uintptr // MSTPSRn
	Bit     uint32
}

// IICDVFS is the IIC for DVFS module on the secure module stop register.
var IICDVFS = Module{
	Control: rcar.SCMSTPCR9,
	Status:  rcar.MSTPSR9,
	Bit:     rcar.MSTP9IICDVFS,
}

// Gate enables a module's clock through the CPG write-protect sequence.
type Gate struct {
	Bus       mmio.Bus
	Module    Module
	PollLimit uint32
}

// NewGate constructs a gate for module m with the default poll limit.
func NewGate(b mmio.Bus, m Module) *Gate {
	return &Gate{Bus: b, Module: m, PollLimit: DefaultPollLimit}
}

// Enable clears the module stop bit and waits until the status register
// confirms the module is supplied with a clock.
func (g *Gate) Enable() error {
	return Enable(g.Bus, g.Module, g.PollLimit)
}

// Enable clears the module stop bit of m. Writes to module stop control
// registers must be preceded by the inverted value in CPGWPR.
func Enable(b mmio.Bus, m Module, limit uint32) error {
	reg := b.Read32(m.Control) &^ m.Bit
	write(b, m.Control, reg)

	for i := uint32(0); b.Read32(m.Status)&m.Bit != 0; i++ {
		if i >= limit {
			return ErrTimeout
		}
	}
	return nil
}

func write(b mmio.Bus, addr uintptr, value uint32) {
	b.Write32(rcar.CPGWPR, ^value)
	b.Write32(addr, value)
}
