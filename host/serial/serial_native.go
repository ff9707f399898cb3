package serial

import (
	"fmt"

	"github.com/tarm/serial"
)

// Dial opens the console device through tarm/serial.
func Dial(s Settings) (*Console, error) {
	if s.Device == "" {
		return nil, errNoDevice
	}
	if s.Baud == 0 {
		s.Baud = ConsoleBaud
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        s.Device,
		Baud:        s.Baud,
		ReadTimeout: s.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open console %s: %w", s.Device, err)
	}
	return NewConsole(port), nil
}
