package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpace_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		addr  uint32
		value uint32
		size  uint8
	}{
		{name: "byte", addr: 0, value: 0xAB, size: 1},
		{name: "halfword", addr: 8, value: 0x1234, size: 2},
		{name: "three bytes", addr: 16, value: 0xAABBCC, size: 3},
		{name: "word", addr: 32, value: 0xDEADBEEF, size: 4},
	}
	s := New(64)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Write(tt.addr, tt.value, tt.size)
			assert.Equal(t, tt.value, s.Read(tt.addr, tt.size))
		})
	}
}

func TestSpace_SizeClamp(t *testing.T) {
	s := New(64)
	// sizes above the register width behave as full-word accesses
	s.Write(0, 0xCAFEBABE, 63)
	assert.Equal(t, uint32(0xCAFEBABE), s.Read(0, 4))
	assert.Equal(t, uint32(0xCAFEBABE), s.Read(0, 63))
}

func TestSpace_PartialWidth(t *testing.T) {
	s := New(64)
	s.Write(0, 0xDEADBEEF, 4)
	s.Write(0, 0x11, 1)
	// a narrow write leaves the upper bytes untouched
	assert.Equal(t, uint32(0xDEADBE11), s.Read(0, 4))
	assert.Equal(t, uint32(0xBE11), s.Read(0, 2))
}

func TestSpace_OutOfRange(t *testing.T) {
	s := New(8)
	s.Write(6, 0xFFFFFFFF, 4) // crosses the end, dropped
	assert.Equal(t, uint32(0), s.Read(6, 2))
	assert.Equal(t, uint32(0), s.Read(100, 1))
}

func TestSpace_ZeroSize(t *testing.T) {
	s := New(8)
	s.Write(0, 0xFF, 0)
	assert.Equal(t, uint32(0), s.Read(0, 4))
	assert.Equal(t, uint32(0), s.Read(0, 0))
}

func TestSpace_Reset(t *testing.T) {
	s := New(8)
	s.Write(0, 0xFFFFFFFF, 4)
	s.Reset()
	assert.Equal(t, uint32(0), s.Read(0, 4))
}
