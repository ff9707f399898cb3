package sim

import "fmt"

// EventKind classifies what the simulated controller observed.
type EventKind uint8

const (
	EvEnable EventKind = iota + 1
	EvDisable
	EvClock
	EvStart
	EvRetransmit
	EvWrite
	EvStop
	EvChange
	EvStopRead
	EvRead
	EvArbLost
	EvNack
)

// Event is one entry of the bus trace.
type Event struct {
	Kind  EventKind
	Value uint8
	Extra uint8
}

func (e Event) String() string {
	switch e.Kind {
	case EvEnable:
		return "enable"
	case EvDisable:
		return "disable"
	case EvClock:
		return fmt.Sprintf("clock-config 0x%02X/0x%02X", e.Value, e.Extra)
	case EvStart:
		return "START"
	case EvRetransmit:
		return "RETRANSMIT"
	case EvWrite:
		return fmt.Sprintf("write 0x%02X", e.Value)
	case EvStop:
		return "STOP"
	case EvChange:
		return "CHANGE-DIRECTION"
	case EvStopRead:
		return "STOP-READ"
	case EvRead:
		return fmt.Sprintf("read 0x%02X", e.Value)
	case EvArbLost:
		return "arbitration-lost"
	case EvNack:
		return "nack"
	default:
		return fmt.Sprintf("event(%d)", e.Kind)
	}
}

// Count returns how many events of kind k are in trace.
func Count(trace []Event, k EventKind) int {
	n := 0
	for _, e := range trace {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Strings renders a trace for comparison and logging.
func Strings(trace []Event) []string {
	out := make([]string, len(trace))
	for i, e := range trace {
		out[i] = e.String()
	}
	return out
}
