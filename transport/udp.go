package transport

import (
	"fmt"
	"net"
	"sync"
)

const udpReceiveBuflen = 1500

// UDP is a datagram-backed packet transport. Each Send emits one datagram;
// received datagrams are buffered and served byte-at-a-time, since the
// consuming bridge pulls one byte per bus clock. Send writes to the conn
// directly, relying on net.Conn's own concurrency guarantees; the mutex only
// guards the receive buffer.
type UDP struct {
	mx       sync.Mutex // guards leftover
	conn     *net.UDPConn
	leftover []byte
}

// DialUDP connects to the backend at addr (host:port).
func DialUDP(addr string) (*UDP, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not resolve endpoint %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("could not connect to endpoint %s: %w", addr, err)
	}
	return &UDP{conn: conn}, nil
}

func (u *UDP) Send(p []byte) (int, error) {
	n, err := u.conn.Write(p)
	if err != nil {
		return n, fmt.Errorf("could not send packet to %s: %w", u.conn.RemoteAddr(), err)
	}
	return n, nil
}

func (u *UDP) Receive(p []byte) (int, error) {
	u.mx.Lock()
	defer u.mx.Unlock()
	if len(u.leftover) == 0 {
		buf := make([]byte, udpReceiveBuflen)
		n, err := u.conn.Read(buf)
		if err != nil {
			return 0, fmt.Errorf("could not receive packet from %s: %w", u.conn.RemoteAddr(), err)
		}
		u.leftover = buf[:n]
	}
	n := copy(p, u.leftover)
	u.leftover = u.leftover[n:]
	return n, nil
}

func (u *UDP) Close() error {
	return u.conn.Close()
}
