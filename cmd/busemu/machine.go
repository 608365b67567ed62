package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/busemu/cmd/busemu/console"
	"github.com/mklimuk/busemu/config"
	"github.com/mklimuk/busemu/i2c"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "machine description file",
	Value:   "machine.yaml",
}

func buildMachine(c *cli.Context) (*config.Devices, error) {
	m, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	reg, err := m.BuildRegistry()
	if err != nil {
		return nil, err
	}
	devs, err := m.Build(reg)
	if err != nil {
		return nil, err
	}
	if len(devs.I2C) == 0 && len(devs.SPI) == 0 {
		console.Warnf("machine %q has no devices", c.String("config"))
	}
	return devs, nil
}

func findI2C(devs *config.Devices, addr uint64) (*i2c.NetBridge, error) {
	for _, br := range devs.I2C {
		if uint64(br.Addr()) == addr {
			return br, nil
		}
	}
	return nil, fmt.Errorf("no i2c device at address %#02x", addr)
}

func parseNumber(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), base(s), 32)
}

func base(s string) int {
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		return 16
	}
	return 10
}

func parseHexBytes(s string) ([]byte, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid data hex string: %w", err)
	}
	return data, nil
}
