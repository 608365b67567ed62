package busemu

import "fmt"

var (
	// ErrUnknownEndpoint is reported when a device references a transport
	// endpoint that was never registered.
	ErrUnknownEndpoint = fmt.Errorf("unknown transport endpoint")
	// ErrMissingTransport is reported when a bridge is created without a
	// resolved transport endpoint.
	ErrMissingTransport = fmt.Errorf("transport endpoint is required")
	// ErrMissingRegisterSpace is reported when a bridge is created without a
	// backing register space.
	ErrMissingRegisterSpace = fmt.Errorf("backing register space is required")
)

// PacketTransport exchanges discrete byte packets with a backend endpoint.
// Both calls are synchronous and complete before returning; bridges invoke
// them from inside bus callbacks and treat short counts as collaborator bugs.
type PacketTransport interface {
	// Send transmits p as one packet and returns the number of bytes accepted.
	Send(p []byte) (int, error)
	// Receive fills p with up to len(p) bytes of inbound data and returns the
	// number of bytes written.
	Receive(p []byte) (int, error)
}

// RegisterSpace is an addressable set of backend registers accessed by
// (address, size). Size is a byte count in [0,63]; implementations may clamp
// it to their register width.
type RegisterSpace interface {
	Read(addr uint32, size uint8) uint32
	Write(addr uint32, value uint32, size uint8)
}
