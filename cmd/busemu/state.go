package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/busemu/cmd/busemu/console"
	"github.com/mklimuk/busemu/config"
	"github.com/mklimuk/busemu/i2c"
	"github.com/mklimuk/busemu/spi"
)

// machineState is the snapshot document covering every attached device.
type machineState struct {
	I2C map[string]i2c.NetBridgeState `yaml:"i2c"`
	SPI []spi.RegBridgeState          `yaml:"spi"`
}

func snapshot(devs *config.Devices) machineState {
	st := machineState{I2C: make(map[string]i2c.NetBridgeState, len(devs.I2C))}
	for _, br := range devs.I2C {
		st.I2C[fmt.Sprintf("%#02x", br.Addr())] = br.State()
	}
	for _, br := range devs.SPI {
		st.SPI = append(st.SPI, br.State())
	}
	return st
}

var stateCmd = cli.Command{
	Name:  "state",
	Usage: "dump the snapshot state of all configured devices",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		devs, err := buildMachine(c)
		if err != nil {
			return console.Exit(1, "machine build error: %s", console.Red(err))
		}
		raw, err := yaml.Marshal(snapshot(devs))
		if err != nil {
			return console.Exit(1, "snapshot error: %s", console.Red(err))
		}
		console.Print(string(raw))
		return nil
	},
}
