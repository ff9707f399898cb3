package iic

// DebugWriter receives one driver message per call, without a newline.
type DebugWriter func(string)

// Event is one entry of the post-mortem ring.
type Event struct {
	EventType uint8    // Event type code
	State     BusState // State the transaction was in
	Status    uint8    // ICSR snapshot
	Errors    uint8    // Recovered faults so far
}

// Event type codes
const (
	EvtBegin      = 1 // Send/Receive entered
	EvtTransition = 2 // Step moved to a new state
	EvtArbLost    = 3 // AL recovered
	EvtNack       = 4 // TACK recovered
	EvtGiveUp     = 5 // Retry budget exhausted
	EvtComplete   = 6 // Transaction finished successfully
	EvtAbort      = 7 // Fatal abort
)

// EventRingSize is how many events survive for the abort dump.
const EventRingSize = 32

var (
	// Line sink for driver messages; board code installs one.
	debugPrintln DebugWriter = func(s string) {}

	// Gates per-step transition and recovery lines.
	debugEnabled bool

	eventRing     [EventRingSize]Event
	eventRingHead uint8
)

// SetDebugWriter installs the line sink, e.g. a UART or host stdout.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled switches per-step tracing. Fatal messages and the abort
// dump are written regardless.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled reports whether per-step tracing is on.
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln emits msg when tracing is on and a sink is installed.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordEvent appends to the ring, overwriting the oldest entry.
func RecordEvent(eventType uint8, state BusState, status uint8, errors uint32) {
	idx := eventRingHead
	eventRing[idx] = Event{
		EventType: eventType,
		State:     state,
		Status:    status,
		Errors:    uint8(errors),
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the ring contents from oldest to newest, skipping empty slots.
func Events() []Event {
	out := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func eventName(t uint8) string {
	switch t {
	case EvtBegin:
		return "BEGIN"
	case EvtTransition:
		return "STATE"
	case EvtArbLost:
		return "ARB_LOST"
	case EvtNack:
		return "NACK"
	case EvtGiveUp:
		return "GIVE_UP"
	case EvtComplete:
		return "COMPLETE"
	case EvtAbort:
		return "ABORT!"
	default:
		return "UNKNOWN"
	}
}

// DumpEventRing writes the ring, oldest first, framed by marker lines.
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[IIC] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[IIC] " + eventName(evt.EventType) +
			" state=" + evt.State.String() +
			" icsr=" + hex8(evt.Status) +
			" errors=" + itoa(int(evt.Errors)))
	}
	debugPrintln("[IIC] === End Dump ===")
}

// ClearEventRing empties the ring.
func ClearEventRing() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
}
