package iic

// AbortHandler is called once with the reason before a fatal abort. It may
// return; the driver still never resumes the transaction.
type AbortHandler func(reason string)

// Fatal is the panic value raised on unrecoverable conditions: a busy-wait
// that exceeded its bound or an undefined state.
type Fatal struct {
	Reason string
	State  BusState
}

func (f *Fatal) Error() string {
	return "iic: fatal: " + f.Reason + " in " + f.State.String()
}

func (c *Controller) fatal(tx *transaction, reason string) {
	status := c.status()
	RecordEvent(EvtAbort, tx.state, status, tx.errors)
	if debugPrintln != nil {
		debugPrintln("[IIC] FATAL: " + reason + " state=" + tx.state.String() + " icsr=" + hex8(status))
	}
	DumpEventRing()

	if c.abort != nil {
		c.abort(reason)
	}
	panic(&Fatal{Reason: reason, State: tx.state})
}

// waitStatus spins until ICSR&mask == want, aborting after the poll limit.
func (c *Controller) waitStatus(tx *transaction, mask, want uint8, reason string) {
	for i := uint32(0); ; i++ {
		if c.status()&mask == want {
			return
		}
		if i >= c.pollLimit {
			c.fatal(tx, reason)
		}
	}
}
