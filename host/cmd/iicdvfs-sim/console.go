package main

import (
	"dvfsboot/config"
	"dvfsboot/host/serial"
)

// openConsole opens the mirror console named by the flag, or by the profile
// when the flag is empty. It returns nil when neither names a device.
func openConsole(device string, p *config.Profile) (*serial.Console, error) {
	if device == "" {
		device = p.Console.Device
	}
	if device == "" {
		return nil, nil
	}

	s := serial.ConsoleSettings(device)
	s.Baud = p.Console.Baud
	return serial.Dial(s)
}
