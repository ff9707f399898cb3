// Package mmio provides raw memory-mapped register access.
//
// Drivers take a Bus instead of dereferencing addresses directly so the same
// code runs against real hardware (Raw, TinyGo only) and against a simulated
// register file on a host.
package mmio

// Bus is the abstract register access interface that drivers use.
type Bus interface {
	// Read8 reads an 8-bit register.
	Read8(addr uintptr) uint8

	// Write8 writes an 8-bit register.
	Write8(addr uintptr, value uint8)

	// Read32 reads a 32-bit register.
	Read32(addr uintptr) uint32

	// Write32 writes a 32-bit register.
	Write32(addr uintptr, value uint32)
}

// Global singleton used by board code.
var defaultBus Bus

// SetBus is called by target-specific code to register its bus.
func SetBus(b Bus) {
	defaultBus = b
}

// MustBus returns the configured bus or panics if missing.
func MustBus() Bus {
	if defaultBus == nil {
		panic("MMIO bus not configured")
	}
	return defaultBus
}

// SetBits8 performs a read-modify-write setting mask.
func SetBits8(b Bus, addr uintptr, mask uint8) {
	b.Write8(addr, b.Read8(addr)|mask)
}

// ClearBits8 performs a read-modify-write clearing mask.
func ClearBits8(b Bus, addr uintptr, mask uint8) {
	b.Write8(addr, b.Read8(addr)&^mask)
}
