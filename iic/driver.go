// Package iic drives the R-Car "IIC for DVFS" controller as a polled,
// single-register I2C master for PMIC and EEPROM access during early boot.
//
// A Controller is not reentrant: callers must guarantee that no two
// transactions on the same register block are in flight at once.
package iic

import (
	"errors"

	"dvfsboot/cpg"
	"dvfsboot/mmio"
	"dvfsboot/rcar"
)

// MaxRetries is the number of recovered bus faults tolerated per transaction.
const MaxRetries = 2

// DefaultPollLimit bounds every busy-wait on the status register.
const DefaultPollLimit = 500000000

// Dummy byte written to release the data latch after losing arbitration
// during slave address transmission.
const dummyByte = 0x52

var (
	// ErrRetriesExhausted signals a permanent failure after MaxRetries
	// recovered arbitration-loss or NACK faults.
	ErrRetriesExhausted = errors.New("iic: bus fault retries exhausted")

	// ErrInvalidAddress signals a slave address outside the 7-bit range.
	ErrInvalidAddress = errors.New("iic: slave address is not 7-bit")

	// ErrUnsupported signals a transfer shape the controller cannot issue.
	ErrUnsupported = errors.New("iic: unsupported transfer")
)

// ClockGate supplies the controller's module clock.
type ClockGate interface {
	Enable() error
}

// Controller is one IIC for DVFS register block.
type Controller struct {
	bus       mmio.Bus
	base      uintptr
	gate      ClockGate
	abort     AbortHandler
	pollLimit uint32
}

// New constructs a controller at the standard register base, gated by the
// secure module stop bit for IIC DVFS.
func New(b mmio.Bus) *Controller {
	return &Controller{
		bus:       b,
		base:      rcar.IICDVFSBase,
		gate:      cpg.NewGate(b, cpg.IICDVFS),
		pollLimit: DefaultPollLimit,
	}
}

// SetBase moves the controller to another register block.
func (c *Controller) SetBase(base uintptr) {
	c.base = base
}

// SetClockGate replaces the module clock gate.
func (c *Controller) SetClockGate(g ClockGate) {
	c.gate = g
}

// SetAbortHandler installs the hook called once before a fatal abort.
func (c *Controller) SetAbortHandler(h AbortHandler) {
	c.abort = h
}

// SetPollLimit changes the busy-wait bound. Only test harnesses need this.
func (c *Controller) SetPollLimit(limit uint32) {
	c.pollLimit = limit
}

func (c *Controller) read(off uintptr) uint8 {
	return c.bus.Read8(c.base + off)
}

func (c *Controller) write(off uintptr, v uint8) {
	c.bus.Write8(c.base+off, v)
}

func (c *Controller) status() uint8 {
	return c.read(rcar.ICSR)
}

// clearStatus clears ICSR flags by writing the register back with them masked.
func (c *Controller) clearStatus(mask uint8) {
	c.write(rcar.ICSR, c.read(rcar.ICSR)&^mask)
}

func (c *Controller) setEnable(mask uint8) {
	mmio.SetBits8(c.bus, c.base+rcar.ICIC, mask)
}

func (c *Controller) clearEnable(mask uint8) {
	mmio.ClearBits8(c.bus, c.base+rcar.ICIC, mask)
}

// Send writes data to register reg of the 7-bit slave.
func (c *Controller) Send(slave, reg, data uint8) error {
	if slave > 0x7F {
		return ErrInvalidAddress
	}
	tx := transaction{slave: slave, reg: reg, data: data}
	if c.run(&tx) != success {
		return ErrRetriesExhausted
	}
	return nil
}

// Receive reads register reg of the 7-bit slave.
func (c *Controller) Receive(slave, reg uint8) (uint8, error) {
	if slave > 0x7F {
		return 0, ErrInvalidAddress
	}
	tx := transaction{slave: slave, reg: reg, read: true}
	if c.run(&tx) != success {
		return 0, ErrRetriesExhausted
	}
	return tx.data, nil
}

// SendCode is Send with the boot-ROM calling convention: 0 on success, -1 on
// permanent failure.
func (c *Controller) SendCode(slave, reg, data uint8) int32 {
	if c.Send(slave, reg, data) != nil {
		return -1
	}
	return 0
}

// ReceiveCode is Receive with the boot-ROM calling convention. out is only
// written on success.
func (c *Controller) ReceiveCode(slave, reg uint8, out *uint8) int32 {
	v, err := c.Receive(slave, reg)
	if err != nil {
		return -1
	}
	*out = v
	return 0
}

// run performs the full gate, disable, transact, disable cycle.
func (c *Controller) run(tx *transaction) result {
	if c.gate != nil {
		if err := c.gate.Enable(); err != nil {
			c.fatal(tx, "module clock did not start")
		}
	}
	c.write(rcar.ICCR, 0x00)

	tx.state = Start
	tx.errors = 0
	RecordEvent(EvtBegin, tx.state, 0, 0)

	for {
		prev := tx.state
		r := c.dispatch(tx)
		if r != inProgress {
			return r
		}
		if tx.state != prev {
			RecordEvent(EvtTransition, tx.state, 0, tx.errors)
			if debugEnabled {
				DebugPrintln("[IIC] " + prev.String() + " -> " + tx.state.String())
			}
		}
	}
}

// dispatch runs the step function for the current state.
func (c *Controller) dispatch(tx *transaction) result {
	switch tx.state {
	case Start:
		return c.start(tx)
	case SetSlave:
		return c.setSlave(tx)
	case WriteAddr:
		return c.writeAddr(tx)
	case Done:
		return c.done(tx)
	}

	if tx.read {
		switch tx.state {
		case Retransmit:
			return c.retransmit(tx)
		case SetSlaveRead:
			return c.setSlaveRead(tx)
		case ChangeSendToReceive:
			return c.changeSendToReceive(tx)
		case StopRead:
			return c.stopRead(tx)
		case Read:
			return c.readData(tx)
		}
	} else {
		switch tx.state {
		case WriteData:
			return c.writeData(tx)
		case Stop:
			return c.stop(tx)
		}
	}

	c.fatal(tx, "undefined state "+tx.state.String())
	return permanentFailure
}
