//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

// Raw accesses physical addresses through volatile loads and stores.
type Raw struct{}

// Read8 reads an 8-bit register
func (Raw) Read8(addr uintptr) uint8 {
	return (*volatile.Register8)(unsafe.Pointer(addr)).Get()
}

// Write8 writes an 8-bit register
func (Raw) Write8(addr uintptr, value uint8) {
	(*volatile.Register8)(unsafe.Pointer(addr)).Set(value)
}

// Read32 reads a 32-bit register
func (Raw) Read32(addr uintptr) uint32 {
	return (*volatile.Register32)(unsafe.Pointer(addr)).Get()
}

// Write32 writes a 32-bit register
func (Raw) Write32(addr uintptr, value uint32) {
	(*volatile.Register32)(unsafe.Pointer(addr)).Set(value)
}
