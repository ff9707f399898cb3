// Package serial mirrors driver output to the board's SCIF debug console
// from a host tool.
package serial

import (
	"errors"
	"io"
	"strings"
	"time"
)

// ConsoleBaud is the SCIF2 boot console rate (8N1).
const ConsoleBaud = 115200

var errNoDevice = errors.New("serial: no console device given")

// Settings select the console device. A zero Baud means ConsoleBaud.
type Settings struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

// ConsoleSettings returns the boot console settings for device.
func ConsoleSettings(device string) Settings {
	return Settings{
		Device:      device,
		Baud:        ConsoleBaud,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// Console writes driver debug lines with CRLF endings. Write failures are
// counted, not returned, so it can be installed as an iic.DebugWriter.
type Console struct {
	w      io.Writer
	errors int
}

// NewConsole wraps w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Println writes one line.
func (c *Console) Println(s string) {
	line := strings.ReplaceAll(strings.TrimRight(s, "\r\n"), "\n", "\r\n") + "\r\n"
	if _, err := c.w.Write([]byte(line)); err != nil {
		c.errors++
	}
}

// Errors returns how many writes failed.
func (c *Console) Errors() int {
	return c.errors
}

// Close releases the underlying device if it has one.
func (c *Console) Close() error {
	if cl, ok := c.w.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
