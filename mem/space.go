// Package mem provides a RAM-backed register space for emulated peripherals.
package mem

import (
	"log/slog"
	"sync"
)

// registers are at most 4 bytes wide; larger declared sizes are clamped
const registerWidth = 4

// Space is a contiguous block of byte-addressable registers. Values are
// packed little-endian. A space may be shared between a bridge and an
// inspecting caller, so access is guarded by a read/write mutex.
type Space struct {
	mx    sync.RWMutex
	cells []byte
}

// New allocates a zeroed space of the given size in bytes.
func New(size int) *Space {
	return &Space{cells: make([]byte, size)}
}

// Size returns the addressable size in bytes.
func (s *Space) Size() int {
	return len(s.cells)
}

// Read returns the little-endian value of size bytes at addr. Out-of-range
// accesses read as zero.
func (s *Space) Read(addr uint32, size uint8) uint32 {
	n := clamp(size)
	s.mx.RLock()
	defer s.mx.RUnlock()
	if int(addr)+n > len(s.cells) {
		slog.Warn("register read out of range", "addr", addr, "size", size)
		return 0
	}
	var v uint32
	for i := 0; i < n; i++ {
		v |= uint32(s.cells[int(addr)+i]) << (8 * i)
	}
	return v
}

// Write stores the low size bytes of value at addr, little-endian.
// Out-of-range accesses are dropped.
func (s *Space) Write(addr uint32, value uint32, size uint8) {
	n := clamp(size)
	s.mx.Lock()
	defer s.mx.Unlock()
	if int(addr)+n > len(s.cells) {
		slog.Warn("register write out of range", "addr", addr, "size", size)
		return
	}
	for i := 0; i < n; i++ {
		s.cells[int(addr)+i] = byte(value >> (8 * i))
	}
}

// Reset clears the whole space.
func (s *Space) Reset() {
	s.mx.Lock()
	defer s.mx.Unlock()
	for i := range s.cells {
		s.cells[i] = 0
	}
}

func clamp(size uint8) int {
	if size > registerWidth {
		return registerWidth
	}
	return int(size)
}
