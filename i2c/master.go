package i2c

// Resetter is implemented by slaves that support a device-level reset.
type Resetter interface {
	Reset()
}

// Master drives whole transactions against a single attached slave, standing
// in for the host bus runtime. Each bus primitive maps to one synchronous
// slave callback.
type Master struct {
	slave Slave
}

func NewMaster(slave Slave) *Master {
	return &Master{slave: slave}
}

// Write performs one write transaction: start, payload bytes, stop.
func (m *Master) Write(p []byte) {
	m.slave.Event(StartSend)
	for _, b := range p {
		m.slave.Send(b)
	}
	m.slave.Event(Finish)
}

// Read performs one read transaction of n bytes, closed by a nack and a
// device reset standing in for the stop condition.
func (m *Master) Read(n int) []byte {
	m.slave.Event(StartRecv)
	return m.finishRead(n)
}

// WriteRead writes p, then issues a repeated start and reads n bytes. The
// repeated start is what makes the slave emit the buffered payload.
func (m *Master) WriteRead(p []byte, n int) []byte {
	m.slave.Event(StartSend)
	for _, b := range p {
		m.slave.Send(b)
	}
	m.slave.Event(StartRecv)
	return m.finishRead(n)
}

func (m *Master) finishRead(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = m.slave.Recv()
	}
	m.slave.Event(Nack)
	// A read transaction parks the slave in its done mode; the stop condition
	// is routed as the reset-equivalent that returns it to idle.
	if r, ok := m.slave.(Resetter); ok {
		r.Reset()
	}
	return out
}
