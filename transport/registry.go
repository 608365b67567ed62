package transport

import (
	"fmt"

	"github.com/mklimuk/busemu"
)

// Registry maps endpoint names to configured transports. Devices resolve
// their endpoint once, at creation time; an unresolved name is a
// configuration failure, never a runtime protocol error.
type Registry struct {
	endpoints map[string]busemu.PacketTransport
}

func NewRegistry() *Registry {
	return &Registry{endpoints: make(map[string]busemu.PacketTransport)}
}

// Add registers a transport under name, replacing any previous entry.
func (r *Registry) Add(name string, t busemu.PacketTransport) {
	r.endpoints[name] = t
}

// Resolve returns the transport registered under name.
func (r *Registry) Resolve(name string) (busemu.PacketTransport, error) {
	t, ok := r.endpoints[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", busemu.ErrUnknownEndpoint, name)
	}
	return t, nil
}
