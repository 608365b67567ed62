package spi

import (
	"fmt"
	"log/slog"

	"github.com/mklimuk/busemu"
)

// Command byte layout: bit 7 selects the direction (1 = read), bits 5..0
// carry the declared transfer size in bytes.
const (
	cmdReadFlag byte = 0x80
	cmdSizeMask byte = 0x3F
)

// addrWidth is the number of address bytes in the frame; a turnaround byte
// follows them before the data phase.
const addrWidth = 3

// accumWidth is the data accumulator width. Declared sizes may exceed it;
// bytes past the accumulator are counted but not retained.
const accumWidth = 4

type phase uint8

const (
	phaseIdle phase = iota
	phaseAddress
	phaseData
)

// RegBridge decodes the command/address/data framing of an SPI link into
// register accesses against a backing register space.
//
// Frame layout, one byte per clock: a command byte, addrWidth address bytes
// assembled most-significant-byte-first, one turnaround byte, declaredSize
// data bytes, and one completion clock. The register access fires on the
// completion clock rather than on the last stored byte, so a read result can
// be returned on that same clock without an extra round trip.
//
// The bridge has no error state: a protocol violation cannot be told apart
// from a command byte, and any unrecognized phase value resynchronizes as
// idle on the next clock.
type RegBridge struct {
	phase   phase
	cmd     byte
	addr    uint32
	addrIdx uint8
	data    uint32
	dataIdx uint8
	regs    busemu.RegisterSpace
}

// NewRegBridge composes a bridge over its backing register space. A missing
// space is a configuration failure; the device does not become operational.
func NewRegBridge(regs busemu.RegisterSpace) (*RegBridge, error) {
	if regs == nil {
		return nil, fmt.Errorf("spi regbridge: %w", busemu.ErrMissingRegisterSpace)
	}
	return &RegBridge{regs: regs}, nil
}

// Transfer clocks one byte into the bridge and returns the byte(s) shifted
// out on the same clock. Only the completion clock of a read command carries
// a non-zero value.
func (d *RegBridge) Transfer(tx byte) uint32 {
	switch d.phase {
	case phaseAddress:
		if d.addrIdx == 0 {
			// turnaround byte, consumed and discarded
			d.phase = phaseData
			return 0
		}
		d.addrIdx--
		d.addr |= uint32(tx) << (8 * d.addrIdx)
		return 0
	case phaseData:
		if d.dataIdx == 0 {
			return d.complete()
		}
		d.dataIdx--
		if d.dataIdx < accumWidth {
			d.data |= uint32(tx) << (8 * d.dataIdx)
		}
		return 0
	default:
		// idle, plus defensive resynchronization for any phase value the
		// bridge does not recognize
		d.cmd = tx
		d.addr = 0
		d.data = 0
		d.addrIdx = addrWidth
		d.dataIdx = tx & cmdSizeMask
		d.phase = phaseAddress
		return 0
	}
}

// complete performs the decoded register access on the completion clock and
// returns the bridge to idle.
func (d *RegBridge) complete() uint32 {
	size := d.cmd & cmdSizeMask
	var r uint32
	if d.cmd&cmdReadFlag != 0 {
		r = d.regs.Read(d.addr, size)
		slog.Debug("register read", "addr", d.addr, "size", size, "value", r)
	} else {
		d.regs.Write(d.addr, d.data, size)
		slog.Debug("register write", "addr", d.addr, "size", size, "value", d.data)
	}
	d.phase = phaseIdle
	return r
}

// Reset returns the bridge to idle with cleared accumulators.
func (d *RegBridge) Reset() {
	d.phase = phaseIdle
	d.cmd = 0
	d.addr = 0
	d.data = 0
	d.addrIdx = 0
	d.dataIdx = 0
}

// RegBridgeState is the persisted image of an in-flight frame.
type RegBridgeState struct {
	Phase    uint8  `yaml:"phase"`
	Command  uint8  `yaml:"command"`
	Address  uint32 `yaml:"address"`
	AddrFill uint8  `yaml:"addr_fill"`
	Data     uint32 `yaml:"data"`
	DataFill uint8  `yaml:"data_fill"`
}

// State captures the bridge for a snapshot.
func (d *RegBridge) State() RegBridgeState {
	return RegBridgeState{
		Phase:    uint8(d.phase),
		Command:  d.cmd,
		Address:  d.addr,
		AddrFill: d.addrIdx,
		Data:     d.data,
		DataFill: d.dataIdx,
	}
}

// Restore resumes an in-flight frame from a snapshot. Counters are bounded
// by the frame layout; an unknown phase value is accepted and resynchronizes
// as idle on the next clock.
func (d *RegBridge) Restore(st RegBridgeState) error {
	if st.AddrFill > addrWidth {
		return fmt.Errorf("spi regbridge: address fill %d exceeds width %d", st.AddrFill, addrWidth)
	}
	if st.DataFill > uint8(cmdSizeMask) {
		return fmt.Errorf("spi regbridge: data fill %d exceeds maximum declared size %d", st.DataFill, cmdSizeMask)
	}
	d.phase = phase(st.Phase)
	d.cmd = st.Command
	d.addr = st.Address
	d.addrIdx = st.AddrFill
	d.data = st.Data
	d.dataIdx = st.DataFill
	return nil
}
