package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/busemu/transport"
)

const sampleConfig = `
endpoints:
  - name: bmc
i2c:
  - address: 0x3E
    endpoint: bmc
  - address: 0x42
    endpoint: bmc
    buffer_size: 128
spi:
  - memory: 4096
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	require.Len(t, m.Endpoints, 1)
	require.Len(t, m.I2C, 2)
	require.Len(t, m.SPI, 1)
	assert.Equal(t, uint8(0x3E), m.I2C[0].Address)
	assert.Equal(t, "bmc", m.I2C[0].Endpoint)
	assert.Equal(t, 128, m.I2C[1].BufferSize)
	assert.Equal(t, 4096, m.SPI[0].Memory)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "malformed yaml", raw: "endpoints: ["},
		{name: "unnamed endpoint", raw: "endpoints:\n  - udp: 127.0.0.1:5555\n"},
		{name: "duplicate endpoint", raw: "endpoints:\n  - name: a\n  - name: a\n"},
		{name: "address out of range", raw: "i2c:\n  - address: 0x90\n    endpoint: a\n"},
		{name: "duplicate address", raw: "i2c:\n  - address: 0x10\n    endpoint: a\n  - address: 0x10\n    endpoint: a\n"},
		{name: "missing endpoint name", raw: "i2c:\n  - address: 0x10\n"},
		{name: "non-positive memory", raw: "spi:\n  - memory: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestBuild(t *testing.T) {
	m, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	reg, err := m.BuildRegistry()
	require.NoError(t, err)
	devs, err := m.Build(reg)
	require.NoError(t, err)

	require.Len(t, devs.I2C, 2)
	assert.Equal(t, uint8(0x3E), devs.I2C[0].Addr())
	require.Len(t, devs.SPI, 1)
	require.Len(t, devs.Spaces, 1)
	assert.Equal(t, 4096, devs.Spaces[0].Size())
}

func TestBuild_UnresolvedEndpoint(t *testing.T) {
	m, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	// a registry that does not carry the configured endpoint
	_, err = m.Build(transport.NewRegistry())
	assert.Error(t, err)
}
