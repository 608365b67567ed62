// Package config describes an emulated machine: transport endpoints and the
// bus peripherals bound to them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/busemu/i2c"
	"github.com/mklimuk/busemu/mem"
	"github.com/mklimuk/busemu/spi"
	"github.com/mklimuk/busemu/transport"
)

// Machine is the top-level yaml document.
//
//	endpoints:
//	  - name: bmc
//	    udp: 127.0.0.1:5555
//	i2c:
//	  - address: 0x3E
//	    endpoint: bmc
//	spi:
//	  - memory: 4096
type Machine struct {
	Endpoints []Endpoint  `yaml:"endpoints"`
	I2C       []I2CDevice `yaml:"i2c"`
	SPI       []SPIDevice `yaml:"spi"`
}

// Endpoint names a packet transport. With a udp address the endpoint is
// datagram-backed; without one it is an in-memory loopback.
type Endpoint struct {
	Name string `yaml:"name"`
	UDP  string `yaml:"udp,omitempty"`
}

type I2CDevice struct {
	Address    uint8  `yaml:"address"`
	Endpoint   string `yaml:"endpoint"`
	BufferSize int    `yaml:"buffer_size,omitempty"`
}

type SPIDevice struct {
	// Memory is the backing register space size in bytes.
	Memory int `yaml:"memory"`
}

// Load reads and validates a machine description.
func Load(path string) (*Machine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read machine config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a machine description.
func Parse(raw []byte) (*Machine, error) {
	var m Machine
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("could not parse machine config: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Machine) validate() error {
	names := make(map[string]bool, len(m.Endpoints))
	for _, e := range m.Endpoints {
		if e.Name == "" {
			return fmt.Errorf("endpoint without a name")
		}
		if names[e.Name] {
			return fmt.Errorf("duplicate endpoint %q", e.Name)
		}
		names[e.Name] = true
	}
	addrs := make(map[uint8]bool, len(m.I2C))
	for _, d := range m.I2C {
		if d.Address > 0x7F {
			return fmt.Errorf("i2c address %#02x out of 7-bit range", d.Address)
		}
		if addrs[d.Address] {
			return fmt.Errorf("duplicate i2c address %#02x", d.Address)
		}
		addrs[d.Address] = true
		if d.Endpoint == "" {
			return fmt.Errorf("i2c device %#02x missing endpoint", d.Address)
		}
		if d.BufferSize < 0 {
			return fmt.Errorf("i2c device %#02x: negative buffer size", d.Address)
		}
	}
	for i, d := range m.SPI {
		if d.Memory <= 0 {
			return fmt.Errorf("spi device %d: memory size must be positive", i)
		}
	}
	return nil
}

// BuildRegistry opens every configured endpoint and registers it under its
// name.
func (m *Machine) BuildRegistry() (*transport.Registry, error) {
	reg := transport.NewRegistry()
	for _, e := range m.Endpoints {
		if e.UDP == "" {
			reg.Add(e.Name, transport.NewLoopback())
			continue
		}
		t, err := transport.DialUDP(e.UDP)
		if err != nil {
			return nil, fmt.Errorf("endpoint %q: %w", e.Name, err)
		}
		reg.Add(e.Name, t)
	}
	return reg, nil
}

// Devices holds an assembled machine. SPI bridges and their backing spaces
// are index-aligned.
type Devices struct {
	I2C    []*i2c.NetBridge
	SPI    []*spi.RegBridge
	Spaces []*mem.Space
}

// Build assembles all configured devices against resolved endpoints. Any
// unresolved endpoint fails the build; no device becomes operational.
func (m *Machine) Build(reg *transport.Registry) (*Devices, error) {
	devs := &Devices{}
	for _, d := range m.I2C {
		t, err := reg.Resolve(d.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("i2c device %#02x: %w", d.Address, err)
		}
		var opts []i2c.NetBridgeOpt
		if d.BufferSize > 0 {
			opts = append(opts, i2c.WithBufferSize(d.BufferSize))
		}
		br, err := i2c.NewNetBridge(d.Address, t, opts...)
		if err != nil {
			return nil, err
		}
		devs.I2C = append(devs.I2C, br)
	}
	for i, d := range m.SPI {
		space := mem.New(d.Memory)
		br, err := spi.NewRegBridge(space)
		if err != nil {
			return nil, fmt.Errorf("spi device %d: %w", i, err)
		}
		devs.SPI = append(devs.SPI, br)
		devs.Spaces = append(devs.Spaces, space)
	}
	return devs, nil
}
