package transport

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/busemu"
)

func TestLoopback_SendRecordsPackets(t *testing.T) {
	lo := NewLoopback()
	n, err := lo.Send([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = lo.Send(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	sent := lo.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, []byte{1, 2, 3}, sent[0])
	assert.Empty(t, sent[1])
}

func TestLoopback_ReceiveServesFedBytes(t *testing.T) {
	lo := NewLoopback()
	lo.Feed(0xAA, 0xBB)

	var b [1]byte
	n, err := lo.Receive(b[:])
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(0xAA), b[0])

	// a drained queue still satisfies the one-byte contract with filler
	buf := []byte{0xFF, 0xFF}
	n, err = lo.Receive(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0xBB, 0x00}, buf)
}

func TestLoopback_Drain(t *testing.T) {
	lo := NewLoopback()
	lo.Feed(1)
	_, _ = lo.Send([]byte{2})
	lo.Drain()
	assert.Empty(t, lo.Sent())
	var b [1]byte
	n, err := lo.Receive(b[:])
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(0), b[0])
}

func TestRegistry_Resolve(t *testing.T) {
	reg := NewRegistry()
	lo := NewLoopback()
	reg.Add("bmc", lo)

	got, err := reg.Resolve("bmc")
	require.NoError(t, err)
	assert.Same(t, lo, got.(*Loopback))

	_, err = reg.Resolve("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, busemu.ErrUnknownEndpoint))
}

func listenPacket(t *testing.T) (net.PacketConn, error) {
	t.Helper()
	peer, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err == nil {
		t.Cleanup(func() { _ = peer.Close() })
	}
	return peer, err
}

func TestUDP_RoundTrip(t *testing.T) {
	// a real datagram socket pair: the peer echoes one packet back
	peer, err := listenPacket(t)
	require.NoError(t, err)

	u, err := DialUDP(peer.LocalAddr().String())
	require.NoError(t, err)
	defer u.Close()

	n, err := u.Send([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	buf := make([]byte, 16)
	n, addr, err := peer.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, buf[:n])

	_, err = peer.WriteTo([]byte{0xAA, 0xBB}, addr)
	require.NoError(t, err)

	// the datagram is served byte-at-a-time
	var b [1]byte
	n, err = u.Receive(b[:])
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(0xAA), b[0])
	n, err = u.Receive(b[:])
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(0xBB), b[0])
}

func TestUDP_ConcurrentSend(t *testing.T) {
	peer, err := listenPacket(t)
	require.NoError(t, err)

	u, err := DialUDP(peer.LocalAddr().String())
	require.NoError(t, err)
	defer u.Close()

	// Send takes no lock; concurrent senders lean on the conn's own
	// goroutine safety and every datagram must still arrive whole
	const senders = 4
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(b byte) {
			defer wg.Done()
			_, err := u.Send([]byte{b})
			assert.NoError(t, err)
		}(byte(i))
	}
	wg.Wait()

	require.NoError(t, peer.SetReadDeadline(time.Now().Add(2*time.Second)))
	got := make(map[byte]bool)
	buf := make([]byte, 16)
	for i := 0; i < senders; i++ {
		n, _, err := peer.ReadFrom(buf)
		require.NoError(t, err)
		require.Equal(t, 1, n)
		got[buf[0]] = true
	}
	assert.Len(t, got, senders)
}
