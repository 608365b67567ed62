package i2c

import (
	"fmt"
	"log/slog"

	"github.com/mklimuk/busemu"
)

// DefaultBufferSize is the write buffer capacity unless overridden.
const DefaultBufferSize = 4096

// sentinel returned by Recv outside of a read transaction
const sentinelByte = 0xFF

type mode uint8

const (
	modeIdle mode = iota
	modeWriting
	modeReading
	modeDone
	modeConfused
)

func (m mode) String() string {
	switch m {
	case modeIdle:
		return "idle"
	case modeWriting:
		return "writing-data"
	case modeReading:
		return "reading-data"
	case modeDone:
		return "done"
	case modeConfused:
		return "confused"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

type NetBridgeOpts struct {
	BufferSize int
}

type NetBridgeOpt func(*NetBridgeOpts)

func WithBufferSize(size int) NetBridgeOpt {
	return func(o *NetBridgeOpts) {
		o.BufferSize = size
	}
}

// NetBridge is an I2C slave that forwards written bytes to a packet transport
// and streams read bytes back from it. The full write payload is buffered and
// emitted as a single packet, because its length is only known at the next
// stop or repeated-start boundary; reads are pulled one byte per clock since
// I2C is byte-synchronous in the response direction.
//
// Protocol violations never surface to the master as errors. The bridge logs
// a diagnostic, parks itself in the sticky confused mode and answers with
// sentinel bytes until Reset is called.
type NetBridge struct {
	addr      byte
	mode      mode
	buf       []byte
	length    int
	transport busemu.PacketTransport
}

// NewNetBridge binds a bridge at the given bus address to a resolved
// transport endpoint. A missing transport is a configuration failure; the
// device does not become operational.
func NewNetBridge(addr byte, transport busemu.PacketTransport, opts ...NetBridgeOpt) (*NetBridge, error) {
	if transport == nil {
		return nil, fmt.Errorf("i2c netbridge %#02x: %w", addr, busemu.ErrMissingTransport)
	}
	config := NetBridgeOpts{BufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(&config)
	}
	if config.BufferSize <= 0 {
		return nil, fmt.Errorf("i2c netbridge %#02x: invalid buffer size %d", addr, config.BufferSize)
	}
	return &NetBridge{
		addr:      addr,
		buf:       make([]byte, config.BufferSize),
		transport: transport,
	}, nil
}

// Addr returns the bus address the bridge answers on.
func (d *NetBridge) Addr() byte { return d.addr }

// Event applies one bus condition to the bridge state machine. Any
// (mode, event) pair outside the documented table is a protocol violation
// that lands in the sticky confused mode.
func (d *NetBridge) Event(ev Event) {
	switch ev {
	case StartSend:
		if d.mode == modeIdle {
			slog.Debug("incoming data", "addr", d.addr)
			d.mode = modeWriting
			return
		}
		d.violation(ev)
	case StartRecv:
		switch d.mode {
		case modeIdle:
			slog.Debug("read mode", "addr", d.addr)
			d.mode = modeReading
		case modeWriting:
			if d.length == 0 {
				slog.Error("read after write with no data", "addr", d.addr)
				d.mode = modeConfused
				return
			}
			d.flush()
			slog.Debug("read mode", "addr", d.addr)
			d.mode = modeReading
		default:
			d.violation(ev)
		}
	case Finish:
		switch d.mode {
		case modeWriting:
			d.flush()
			d.mode = modeIdle
			d.length = 0
		case modeReading:
			slog.Error("unexpected stop during receive", "addr", d.addr)
			d.mode = modeIdle
			d.length = 0
		default:
			d.violation(ev)
		}
	case Nack:
		switch d.mode {
		case modeReading:
			d.mode = modeDone
		case modeDone:
			// the master may keep nacking until it raises the stop condition
		default:
			d.violation(ev)
		}
	default:
		d.violation(ev)
	}
}

// Send appends one master-written byte to the pending packet. Past capacity
// the byte is dropped and the transaction continues; earlier bytes stay
// intact and unreordered.
func (d *NetBridge) Send(b byte) {
	if d.mode != modeWriting {
		slog.Error("unexpected write", "addr", d.addr, "mode", d.mode, "data", b)
		return
	}
	if d.length >= len(d.buf) {
		slog.Error("write buffer overflow, byte dropped", "addr", d.addr, "capacity", len(d.buf))
		return
	}
	d.buf[d.length] = b
	d.length++
}

// Recv acquires exactly one byte from the transport and returns it. Outside
// a read transaction it returns the sentinel byte and confuses the bridge.
func (d *NetBridge) Recv() byte {
	if d.mode != modeReading {
		slog.Error("unexpected read", "addr", d.addr, "mode", d.mode)
		d.mode = modeConfused
		return sentinelByte
	}
	var b [1]byte
	n, err := d.transport.Receive(b[:])
	if err != nil || n != 1 {
		panic(fmt.Sprintf("i2c netbridge %#02x: transport receive returned (%d, %v), want 1 byte", d.addr, n, err))
	}
	slog.Debug("read data", "addr", d.addr, "data", b[0])
	return b[0]
}

// Reset returns the bridge to idle, discarding any pending transaction. It
// is the only way out of the confused mode and models the host runtime's
// device reset.
func (d *NetBridge) Reset() {
	d.mode = modeIdle
	d.length = 0
}

// flush emits the buffered payload as one outbound packet. A short send is a
// collaborator bug, not a recoverable protocol event.
func (d *NetBridge) flush() {
	slog.Debug("flush", "addr", d.addr, "len", d.length)
	n, err := d.transport.Send(d.buf[:d.length])
	if err != nil || n != d.length {
		panic(fmt.Sprintf("i2c netbridge %#02x: transport send returned (%d, %v), want %d bytes", d.addr, n, err, d.length))
	}
}

func (d *NetBridge) violation(ev Event) {
	slog.Error("unexpected event", "addr", d.addr, "event", ev, "mode", d.mode)
	d.mode = modeConfused
}

// NetBridgeState is the persisted image of an in-flight transaction.
type NetBridgeState struct {
	Mode   uint8  `yaml:"mode"`
	Buffer []byte `yaml:"buffer"`
}

// State captures the bridge for a snapshot. Buffer holds the valid prefix of
// the write buffer only.
func (d *NetBridge) State() NetBridgeState {
	buf := make([]byte, d.length)
	copy(buf, d.buf[:d.length])
	return NetBridgeState{Mode: uint8(d.mode), Buffer: buf}
}

// Restore resumes an in-flight transaction from a snapshot.
func (d *NetBridge) Restore(st NetBridgeState) error {
	if st.Mode > uint8(modeConfused) {
		return fmt.Errorf("i2c netbridge %#02x: invalid mode %d in snapshot", d.addr, st.Mode)
	}
	if len(st.Buffer) > len(d.buf) {
		return fmt.Errorf("i2c netbridge %#02x: snapshot buffer of %d bytes exceeds capacity %d", d.addr, len(st.Buffer), len(d.buf))
	}
	d.mode = mode(st.Mode)
	d.length = copy(d.buf, st.Buffer)
	return nil
}
