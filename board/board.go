// Package board identifies the R-Car Gen3 reference board from the ID byte
// stored in the on-board EEPROM.
package board

import (
	"strconv"

	"dvfsboot/rcar"
	"tinygo.org/x/drivers"
)

// EEPROM location of the board ID byte.
const (
	EEPROMAddress = 0x50
	RegBoardID    = 0x70
)

// Type is the board type field of the ID byte.
type Type uint8

const (
	SalvatorX     Type = 0x00
	Kriek         Type = 0x01
	StarterKit    Type = 0x02
	Eagle         Type = 0x03
	SalvatorXS    Type = 0x04
	Ebisu         Type = 0x08
	StarterKitPre Type = 0x0B
	Ebisu4D       Type = 0x0D
	Draak         Type = 0x0E
	Unknown       Type = 0xFF
)

// RevisionUnknown marks a board whose revision was not read.
const RevisionUnknown = 0xFF

var typeNames = map[Type]string{
	SalvatorX:     "Salvator-X",
	Kriek:         "Kriek",
	StarterKit:    "Starter Kit",
	Eagle:         "Eagle",
	SalvatorXS:    "Salvator-XS",
	Ebisu:         "Ebisu",
	StarterKitPre: "Starter Kit Premier",
	Ebisu4D:       "Ebisu-4D",
	Draak:         "Draak",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Info is a decoded board ID.
type Info struct {
	Type     Type
	Revision uint8
}

func (i Info) String() string {
	if i.Revision == RevisionUnknown {
		return i.Type.String()
	}
	return i.Type.String() + " rev " + strconv.Itoa(int(i.Revision))
}

// Decode splits an ID byte into type (upper five bits) and revision code.
func Decode(id uint8) Info {
	t := Type(id >> 3)
	if _, ok := typeNames[t]; !ok {
		return Info{Type: Unknown, Revision: RevisionUnknown}
	}
	return Info{Type: t, Revision: id & 0x07}
}

// DetectError reports a failed EEPROM access.
type DetectError struct {
	Err error
}

func (e *DetectError) Error() string {
	return "board: reading EEPROM ID: " + e.Err.Error()
}

func (e *DetectError) Unwrap() error {
	return e.Err
}

// Default is the board assumed for a product when the EEPROM cannot be read.
func Default(product rcar.Product) Info {
	switch product {
	case rcar.ProductE3:
		return Info{Type: Ebisu, Revision: RevisionUnknown}
	case rcar.ProductD3:
		return Info{Type: Draak, Revision: RevisionUnknown}
	default:
		return Info{Type: SalvatorX, Revision: RevisionUnknown}
	}
}

// Detect reads the ID byte over bus. On a bus failure it returns the
// product default together with a *DetectError.
func Detect(bus drivers.I2C, product rcar.Product) (Info, error) {
	buf := []byte{0}
	if err := bus.Tx(EEPROMAddress, []byte{RegBoardID}, buf); err != nil {
		return Default(product), &DetectError{Err: err}
	}
	return Decode(buf[0]), nil
}
