// Package i2c emulates I2C slave peripherals driven by a host bus runtime.
// The runtime delivers bus events and transferred bytes one synchronous,
// non-reentrant callback at a time; slaves never see concurrent invocations.
package i2c

import "fmt"

// Event is a bus-level condition delivered to a slave.
type Event int

const (
	// StartSend opens a master-to-slave (write) transaction.
	StartSend Event = iota
	// StartRecv opens a slave-to-master (read) transaction.
	StartRecv
	// Finish is the stop condition closing a transaction.
	Finish
	// Ack acknowledges a transferred byte.
	Ack
	// Nack signals the master will read no further bytes.
	Nack
)

func (e Event) String() string {
	switch e {
	case StartSend:
		return "start-send"
	case StartRecv:
		return "start-recv"
	case Finish:
		return "finish"
	case Ack:
		return "ack"
	case Nack:
		return "nack"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// Slave is the capability a peripheral exposes to the bus runtime. Event
// reports bus conditions, Send delivers one master-written byte, Recv asks
// for one byte of the slave's response. All calls are synchronous.
type Slave interface {
	Event(ev Event)
	Recv() byte
	Send(b byte)
}
