// Package transport provides packet transports for emulated peripherals and
// the named endpoint registry they are bound through.
package transport

import "sync"

// Loopback is an in-memory packet transport. Outbound packets are recorded
// for inspection; inbound bytes are served from a queue the test or monitor
// feeds. A drained queue reads as zero-filled filler so a probing master
// gets a deterministic answer.
type Loopback struct {
	mx   sync.Mutex
	sent [][]byte
	in   []byte
}

func NewLoopback() *Loopback {
	return &Loopback{}
}

func (l *Loopback) Send(p []byte) (int, error) {
	l.mx.Lock()
	defer l.mx.Unlock()
	pkt := make([]byte, len(p))
	copy(pkt, p)
	l.sent = append(l.sent, pkt)
	return len(p), nil
}

func (l *Loopback) Receive(p []byte) (int, error) {
	l.mx.Lock()
	defer l.mx.Unlock()
	n := copy(p, l.in)
	l.in = l.in[n:]
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

// Feed queues bytes for subsequent Receive calls.
func (l *Loopback) Feed(p ...byte) {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.in = append(l.in, p...)
}

// Sent returns the packets recorded so far.
func (l *Loopback) Sent() [][]byte {
	l.mx.Lock()
	defer l.mx.Unlock()
	out := make([][]byte, len(l.sent))
	copy(out, l.sent)
	return out
}

// Drain clears recorded packets and queued bytes.
func (l *Loopback) Drain() {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.sent = nil
	l.in = nil
}
