// Package sim models an R-Car SoC closely enough to run the IIC DVFS driver
// on a host: the product and mode-pin registers, the CPG module stop
// registers, and a register-level IIC DVFS controller with attached slave
// devices, fault injection and an event trace.
package sim

import (
	"dvfsboot/mmio"
	"dvfsboot/rcar"
)

type phase uint8

const (
	phaseIdle        phase = iota
	phaseAddress           // START issued, expecting slave address
	phaseRegister          // expecting register address
	phaseData              // expecting data byte, or a repeated START
	phaseWritten           // data byte sent, expecting STOP
	phaseReadAddress       // repeated START issued, expecting address with R bit
	phaseReadAcked         // expecting change to receive
	phaseReceived          // byte received, expecting stop-for-read
	phaseLost              // arbitration lost or NACK, bytes go nowhere
)

// Board is a simulated SoC implementing mmio.Bus.
type Board struct {
	mem     *mmio.Memory
	base    uintptr
	devices map[uint8]Device

	// Faults are injected on matching attempts and bytes.
	Faults []Fault

	// StuckBusy keeps ICSR.BUSY set forever once a transfer started.
	StuckBusy bool

	// Trace is every event observed on the simulated bus.
	Trace []Event

	// BusyPolls counts ICSR reads that found BUSY set after a stop condition.
	BusyPolls int

	icdr, iccr, icsr, icic, iccl, icch uint8

	enabled    bool
	phase      phase
	attempt    int
	byteIndex  int
	stopped    bool
	target     Device
	pointer    uint8
	pendingTx  bool
	pendingB   uint8
	pendingCmd bool
	pendingC   uint8
}

// NewBoard constructs a board reporting the given product and MODEMR value.
func NewBoard(product rcar.Product, modemr uint32) *Board {
	b := &Board{
		mem:     mmio.NewMemory(),
		base:    rcar.IICDVFSBase,
		devices: make(map[uint8]Device),
	}
	b.mem.Write32(rcar.PRR, uint32(product))
	b.mem.Write32(rcar.MODEMR, modemr)
	// Every module starts in standby
	b.mem.Write32(rcar.SCMSTPCR9, 0xFFFFFFFF)
	b.mem.Write32(rcar.MSTPSR9, 0xFFFFFFFF)
	return b
}

// Attach connects a device at a 7-bit address.
func (b *Board) Attach(addr uint8, d Device) {
	b.devices[addr&0x7F] = d
}

// Detach removes the device at addr.
func (b *Board) Detach(addr uint8) {
	delete(b.devices, addr&0x7F)
}

// Attempts returns how many START conditions were issued.
func (b *Board) Attempts() int {
	return b.attempt
}

// ResetTrace clears the trace and the attempt counter.
func (b *Board) ResetTrace() {
	b.Trace = nil
	b.attempt = 0
	b.BusyPolls = 0
}

// ClockRunning reports whether the IIC DVFS module was released from standby.
func (b *Board) ClockRunning() bool {
	return b.mem.Read32(rcar.MSTPSR9)&rcar.MSTP9IICDVFS == 0
}

func (b *Board) record(k EventKind, v, extra uint8) {
	b.Trace = append(b.Trace, Event{Kind: k, Value: v, Extra: extra})
}

func (b *Board) isIIC(addr uintptr) bool {
	return addr >= b.base && addr <= b.base+rcar.ICCH
}

// Read8 reads an 8-bit register
func (b *Board) Read8(addr uintptr) uint8 {
	if !b.isIIC(addr) {
		return b.mem.Read8(addr)
	}

	switch addr - b.base {
	case rcar.ICDR:
		b.record(EvRead, b.icdr, 0)
		return b.icdr
	case rcar.ICCR:
		return b.iccr
	case rcar.ICSR:
		if b.stopped && b.icsr&rcar.ICSRBusy != 0 {
			b.BusyPolls++
		}
		return b.icsr
	case rcar.ICIC:
		return b.icic
	case rcar.ICCL:
		return b.iccl
	case rcar.ICCH:
		return b.icch
	}
	return 0
}

// Write8 writes an 8-bit register
func (b *Board) Write8(addr uintptr, value uint8) {
	if !b.isIIC(addr) {
		b.mem.Write8(addr, value)
		return
	}

	switch addr - b.base {
	case rcar.ICDR:
		if b.icsr&rcar.ICSRWait != 0 {
			b.pendingTx, b.pendingB = true, value
			return
		}
		b.transmit(value)
	case rcar.ICCR:
		b.writeControl(value)
	case rcar.ICSR:
		b.writeStatus(value)
	case rcar.ICIC:
		b.icic = value
	case rcar.ICCL:
		b.iccl = value
	case rcar.ICCH:
		b.icch = value
		b.record(EvClock, b.iccl, b.icch)
	}
}

// Read32 reads a 32-bit register
func (b *Board) Read32(addr uintptr) uint32 {
	return b.mem.Read32(addr)
}

// Write32 writes a 32-bit register. Module stop control writes are mirrored
// into the status register immediately.
func (b *Board) Write32(addr uintptr, value uint32) {
	b.mem.Write32(addr, value)
	if addr == rcar.SCMSTPCR9 || addr == rcar.SMSTPCR9 {
		b.mem.Write32(rcar.MSTPSR9, value)
	}
}

func (b *Board) writeControl(value uint8) {
	b.iccr = value
	if value&rcar.ICCREnable == 0 {
		if b.enabled {
			b.record(EvDisable, 0, 0)
		}
		b.enabled = false
		b.phase = phaseIdle
		b.pendingTx, b.pendingCmd = false, false
		b.stopped = false
		b.icsr &= rcar.ICSRBusy
		if !b.StuckBusy {
			b.icsr = 0
		}
		return
	}

	if !b.enabled {
		b.enabled = true
		b.record(EvEnable, 0, 0)
	}

	switch value {
	case rcar.ICCRStart, rcar.ICCRStop, rcar.ICCRChange, rcar.ICCRStopRead:
		if b.icsr&rcar.ICSRWait != 0 {
			b.pendingCmd, b.pendingC = true, value
			return
		}
		b.execute(value)
	}
}

// writeStatus applies write-back clearing. Clearing WAIT releases the bus
// and runs whatever byte or command was queued behind it.
func (b *Board) writeStatus(value uint8) {
	wasWaiting := b.icsr&rcar.ICSRWait != 0
	b.icsr &= value | rcar.ICSRBusy

	if !wasWaiting || b.icsr&rcar.ICSRWait != 0 {
		return
	}
	if b.pendingTx {
		b.pendingTx = false
		b.transmit(b.pendingB)
	}
	if b.pendingCmd {
		b.pendingCmd = false
		b.execute(b.pendingC)
	}
}

func (b *Board) execute(cmd uint8) {
	switch cmd {
	case rcar.ICCRStart:
		if b.phase != phaseIdle {
			b.record(EvRetransmit, 0, 0)
			if b.phase == phaseData {
				b.phase = phaseReadAddress
			}
			b.icsr |= rcar.ICSRDTE
			return
		}
		b.attempt++
		b.byteIndex = 0
		b.stopped = false
		b.record(EvStart, 0, 0)
		b.icsr |= rcar.ICSRBusy
		if b.fault(AtStart) == ArbitrationLost {
			b.record(EvArbLost, 0, 0)
			b.icsr |= rcar.ICSRAL
			b.phase = phaseLost
			return
		}
		b.icsr |= rcar.ICSRDTE
		b.phase = phaseAddress

	case rcar.ICCRStop:
		b.record(EvStop, 0, 0)
		b.finish()

	case rcar.ICCRStopRead:
		b.record(EvStopRead, 0, 0)
		if b.phase == phaseReceived {
			b.icsr |= rcar.ICSRDTE
		}
		b.finish()

	case rcar.ICCRChange:
		b.record(EvChange, 0, 0)
		if b.phase == phaseReadAcked && b.target != nil {
			b.icdr = b.target.ReadRegister(b.pointer)
			b.phase = phaseReceived
		}
		b.icsr |= rcar.ICSRWait
	}
}

func (b *Board) finish() {
	b.phase = phaseIdle
	b.target = nil
	b.stopped = true
	if !b.StuckBusy {
		b.icsr &^= rcar.ICSRBusy
	}
}

// fault returns the kind of fault scheduled for the current attempt and byte.
func (b *Board) fault(byteIndex int) FaultKind {
	for _, f := range b.Faults {
		if f.matches(b.attempt, byteIndex) {
			return f.Kind
		}
	}
	return 0
}

func (b *Board) transmit(value uint8) {
	b.record(EvWrite, value, 0)
	b.icsr &^= rcar.ICSRDTE

	idx := b.byteIndex
	b.byteIndex++

	if b.phase == phaseLost {
		b.icsr |= rcar.ICSRWait
		return
	}

	switch b.fault(idx) {
	case ArbitrationLost:
		b.record(EvArbLost, value, 0)
		b.icsr |= rcar.ICSRAL | rcar.ICSRWait
		b.phase = phaseLost
		return
	case Nack:
		b.nack(value)
		return
	}

	switch b.phase {
	case phaseAddress, phaseReadAddress:
		dev, ok := b.devices[value>>1]
		if !ok {
			b.nack(value)
			return
		}
		b.target = dev
		if b.phase == phaseAddress {
			b.phase = phaseRegister
		} else {
			b.phase = phaseReadAcked
		}
	case phaseRegister:
		b.pointer = value
		b.phase = phaseData
	case phaseData:
		b.target.WriteRegister(b.pointer, value)
		b.phase = phaseWritten
	}
	b.icsr |= rcar.ICSRWait
}

func (b *Board) nack(value uint8) {
	b.record(EvNack, value, 0)
	b.icsr |= rcar.ICSRTACK
	b.phase = phaseLost
}
