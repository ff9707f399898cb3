package iic

import "dvfsboot/rcar"

// checkError classifies AL and TACK and recovers the bus. faulted reports
// whether a recovery sequence ran; the caller must then return r without
// touching the bus further.
func (c *Controller) checkError(tx *transaction, mode direction) (r result, faulted bool) {
	stop := uint8(rcar.ICCRStop)
	if mode == readMode {
		stop = rcar.ICCRStopRead
	}

	status := c.status()
	al := status&rcar.ICSRAL != 0
	tack := status&rcar.ICSRTACK != 0
	if !al && !tack {
		return inProgress, false
	}

	if al {
		RecordEvent(EvtArbLost, tx.state, status, tx.errors)
		c.clearStatus(rcar.ICSRAL)

		if tx.state == SetSlave {
			c.write(rcar.ICDR, dummyByte)
		}
		c.waitStatus(tx, rcar.ICSRWait, rcar.ICSRWait, "wait flag after arbitration loss")

		c.write(rcar.ICCR, stop)
		c.clearStatus(rcar.ICSRWait)
	} else {
		RecordEvent(EvtNack, tx.state, status, tx.errors)
		c.write(rcar.ICCR, stop)
		c.clearEnable(rcar.ICICWAITE | rcar.ICICDTEE)
		c.clearStatus(rcar.ICSRTACK)
	}

	c.waitStatus(tx, rcar.ICSRBusy, 0, "bus busy after recovery")
	c.write(rcar.ICCR, 0x00)

	tx.errors++
	if tx.errors > MaxRetries {
		RecordEvent(EvtGiveUp, tx.state, status, tx.errors)
		DebugPrintln("[IIC] giving up on slave " + hex8(tx.slave) + " after " + itoa(int(tx.errors)) + " faults")
		return permanentFailure, true
	}

	if debugEnabled {
		kind := "nack"
		if al {
			kind = "arbitration lost"
		}
		DebugPrintln("[IIC] " + kind + " in " + tx.state.String() + ", retry " + itoa(int(tx.errors)))
	}
	tx.state = Start
	return inProgress, true
}
