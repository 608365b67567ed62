package spi

import "fmt"

// Master clocks whole frames into a peripheral, standing in for the host bus
// runtime's SPI controller.
type Master struct {
	dev Peripheral
}

func NewMaster(dev Peripheral) *Master {
	return &Master{dev: dev}
}

// Read clocks a read frame and returns the value shifted out on the
// completion clock.
func (m *Master) Read(addr uint32, size uint8) (uint32, error) {
	if err := m.header(cmdReadFlag|size, addr, size); err != nil {
		return 0, err
	}
	for i := uint8(0); i < size; i++ {
		m.dev.Transfer(0)
	}
	return m.dev.Transfer(0), nil
}

// Write clocks a write frame carrying the low size bytes of value,
// most-significant-byte-first.
func (m *Master) Write(addr uint32, value uint32, size uint8) error {
	if err := m.header(size, addr, size); err != nil {
		return err
	}
	for i := uint8(0); i < size; i++ {
		shift := int(size-1-i) * 8
		var b byte
		if shift < 32 {
			b = byte(value >> uint(shift))
		}
		m.dev.Transfer(b)
	}
	m.dev.Transfer(0) // completion clock
	return nil
}

// header clocks the command byte, the address bytes and the turnaround byte.
func (m *Master) header(cmd byte, addr uint32, size uint8) error {
	if size > cmdSizeMask {
		return fmt.Errorf("transfer size %d out of range [0,%d]", size, cmdSizeMask)
	}
	if addr > 0xFFFFFF {
		return fmt.Errorf("address %#x exceeds %d-byte range", addr, addrWidth)
	}
	m.dev.Transfer(cmd)
	for i := addrWidth; i > 0; i-- {
		m.dev.Transfer(byte(addr >> (8 * uint(i-1))))
	}
	m.dev.Transfer(0) // turnaround
	return nil
}
