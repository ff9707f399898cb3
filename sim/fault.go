package sim

// FaultKind selects the injected bus condition.
type FaultKind uint8

const (
	ArbitrationLost FaultKind = iota + 1
	Nack
)

func (k FaultKind) String() string {
	switch k {
	case ArbitrationLost:
		return "arbitration-lost"
	case Nack:
		return "nack"
	default:
		return "none"
	}
}

// AtStart places a fault on the START condition instead of a byte.
const AtStart = -1

// AnyAttempt makes a fault fire on every attempt.
const AnyAttempt = 0

// Fault describes when the simulated bus misbehaves.
type Fault struct {
	Kind FaultKind

	// Attempt is the 1-based START count the fault applies to, or AnyAttempt.
	Attempt int

	// Byte is the 0-based index of the transmitted byte within the attempt
	// (0 = slave address), or AtStart.
	Byte int
}

func (f Fault) matches(attempt, byteIndex int) bool {
	return (f.Attempt == AnyAttempt || f.Attempt == attempt) && f.Byte == byteIndex
}
