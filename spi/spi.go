// Package spi emulates SPI peripherals clocked by a host bus runtime. SPI is
// full duplex and byte-synchronous both ways, so every clocked byte yields a
// deterministic output even before a response is ready.
package spi

// Peripheral is the capability a device exposes to the bus runtime. Transfer
// exchanges one byte per clock; the returned word carries the response on the
// clock it becomes available and is zero otherwise.
type Peripheral interface {
	Transfer(tx byte) uint32
}
