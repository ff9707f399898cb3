package iic

import "dvfsboot/rcar"

// start enables the controller, programs the bus clock, arms the polled
// status enables and issues the START condition.
func (c *Controller) start(tx *transaction) result {
	c.write(rcar.ICCR, c.read(rcar.ICCR)|rcar.ICCREnable)
	c.configureClock()
	c.setEnable(rcar.ICICTACKE | rcar.ICICWAITE | rcar.ICICDTEE)
	c.write(rcar.ICCR, rcar.ICCRStart)

	tx.state = SetSlave
	return inProgress
}

// setSlave transmits the address byte with the write bit.
func (c *Controller) setSlave(tx *transaction) result {
	if r, faulted := c.checkError(tx, writeMode); faulted {
		return r
	}
	if c.status()&rcar.ICSRDTE == 0 {
		return inProgress
	}

	c.clearEnable(rcar.ICICDTEE)
	c.write(rcar.ICDR, tx.slave<<1)

	tx.state = WriteAddr
	return inProgress
}

// writeAddr transmits the register address. A read continues with a
// repeated START to turn the bus around.
func (c *Controller) writeAddr(tx *transaction) result {
	if r, faulted := c.checkError(tx, writeMode); faulted {
		return r
	}
	if c.status()&rcar.ICSRWait == 0 {
		return inProgress
	}

	c.write(rcar.ICDR, tx.reg)
	c.clearStatus(rcar.ICSRWait)

	if tx.read {
		tx.state = Retransmit
	} else {
		tx.state = WriteData
	}
	return inProgress
}

func (c *Controller) writeData(tx *transaction) result {
	if r, faulted := c.checkError(tx, writeMode); faulted {
		return r
	}
	if c.status()&rcar.ICSRWait == 0 {
		return inProgress
	}

	c.write(rcar.ICDR, tx.data)
	c.clearStatus(rcar.ICSRWait)

	tx.state = Stop
	return inProgress
}

func (c *Controller) stop(tx *transaction) result {
	if r, faulted := c.checkError(tx, writeMode); faulted {
		return r
	}
	if c.status()&rcar.ICSRWait == 0 {
		return inProgress
	}

	c.write(rcar.ICCR, rcar.ICCRStop)
	c.clearStatus(rcar.ICSRWait)

	tx.state = Done
	return inProgress
}

// done waits for the stop condition to finish and disables the controller.
func (c *Controller) done(tx *transaction) result {
	c.waitStatus(tx, rcar.ICSRBusy, 0, "bus busy after stop")
	c.write(rcar.ICCR, 0x00)

	RecordEvent(EvtComplete, tx.state, 0, tx.errors)
	return success
}

func (c *Controller) retransmit(tx *transaction) result {
	if r, faulted := c.checkError(tx, writeMode); faulted {
		return r
	}
	if c.status()&rcar.ICSRWait == 0 {
		return inProgress
	}

	c.write(rcar.ICCR, rcar.ICCRRetransmission)
	c.clearStatus(rcar.ICSRWait)
	c.setEnable(rcar.ICICDTEE)

	tx.state = SetSlaveRead
	return inProgress
}

// setSlaveRead transmits the address byte with the read bit.
func (c *Controller) setSlaveRead(tx *transaction) result {
	if r, faulted := c.checkError(tx, writeMode); faulted {
		return r
	}
	if c.status()&rcar.ICSRDTE == 0 {
		return inProgress
	}

	c.clearEnable(rcar.ICICDTEE)
	c.write(rcar.ICDR, tx.slave<<1|1)

	tx.state = ChangeSendToReceive
	return inProgress
}

func (c *Controller) changeSendToReceive(tx *transaction) result {
	if r, faulted := c.checkError(tx, writeMode); faulted {
		return r
	}
	if c.status()&rcar.ICSRWait == 0 {
		return inProgress
	}

	c.write(rcar.ICCR, rcar.ICCRChange)
	c.clearStatus(rcar.ICSRWait)

	tx.state = StopRead
	return inProgress
}

func (c *Controller) stopRead(tx *transaction) result {
	if r, faulted := c.checkError(tx, readMode); faulted {
		return r
	}
	if c.status()&rcar.ICSRWait == 0 {
		return inProgress
	}

	c.write(rcar.ICCR, rcar.ICCRStopRead)
	c.clearStatus(rcar.ICSRWait)
	c.setEnable(rcar.ICICDTEE)

	tx.state = Read
	return inProgress
}

// readData latches the received byte. No fault check: only the data phase
// remains once the stop-for-read code is issued.
func (c *Controller) readData(tx *transaction) result {
	if c.status()&rcar.ICSRDTE == 0 {
		return inProgress
	}

	c.clearEnable(rcar.ICICDTEE)
	tx.data = c.read(rcar.ICDR)

	tx.state = Done
	return inProgress
}
