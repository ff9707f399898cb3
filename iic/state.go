package iic

// BusState is the current protocol step of one in-flight transaction.
type BusState uint8

const (
	Start BusState = iota
	SetSlave
	WriteAddr
	WriteData
	Stop
	Done
	Retransmit
	SetSlaveRead
	ChangeSendToReceive
	StopRead
	Read
)

func (s BusState) String() string {
	switch s {
	case Start:
		return "START"
	case SetSlave:
		return "SET_SLAVE"
	case WriteAddr:
		return "WRITE_ADDR"
	case WriteData:
		return "WRITE_DATA"
	case Stop:
		return "STOP"
	case Done:
		return "DONE"
	case Retransmit:
		return "RETRANSMIT"
	case SetSlaveRead:
		return "SET_SLAVE_READ"
	case ChangeSendToReceive:
		return "CHANGE_SEND_TO_RECEIVE"
	case StopRead:
		return "STOP_READ"
	case Read:
		return "READ"
	default:
		return "UNDEFINED(" + itoa(int(s)) + ")"
	}
}

// result is what every step function reports to the driving loop.
type result uint8

const (
	inProgress result = iota
	success
	permanentFailure
)

func (r result) String() string {
	switch r {
	case inProgress:
		return "in-progress"
	case success:
		return "success"
	case permanentFailure:
		return "permanent-failure"
	default:
		return "?"
	}
}

// direction selects the stop condition used by fault recovery.
type direction uint8

const (
	writeMode direction = iota
	readMode
)

// transaction is owned by the stack frame of a single Send or Receive call.
type transaction struct {
	state  BusState
	errors uint32
	read   bool

	slave uint8
	reg   uint8
	data  uint8 // byte to write, or byte received
}
