package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/busemu/cmd/busemu/console"
	"github.com/mklimuk/busemu/spi"
)

var spiCmd = cli.Command{
	Name: "spi",
	Subcommands: []*cli.Command{
		&spiReadCmd,
		&spiWriteCmd,
	},
}

var spiDeviceFlag = &cli.IntFlag{
	Name:    "device",
	Aliases: []string{"i"},
	Usage:   "spi device index",
	Value:   0,
}

var spiReadCmd = cli.Command{
	Name:    "read",
	Usage:   "read a register through an emulated spi device",
	Aliases: []string{"rd"},
	Flags: []cli.Flag{
		configFlag,
		spiDeviceFlag,
		&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "register address", Required: true},
		&cli.UintFlag{Name: "size", Aliases: []string{"s"}, Usage: "register size in bytes", Value: 4},
	},
	Action: func(c *cli.Context) error {
		devs, err := buildMachine(c)
		if err != nil {
			return console.Exit(1, "machine build error: %s", console.Red(err))
		}
		idx := c.Int("device")
		if idx < 0 || idx >= len(devs.SPI) {
			return console.Exit(1, "no spi device at index %d", idx)
		}
		addr, err := parseNumber(c.String("address"))
		if err != nil {
			return console.Exit(1, "invalid address: %s", console.Red(err))
		}
		value, err := spi.NewMaster(devs.SPI[idx]).Read(uint32(addr), uint8(c.Uint("size")))
		if err != nil {
			return console.Exit(1, "read error: %s", console.Red(err))
		}
		console.Printf("%#08x\n", value)
		return nil
	},
}

var spiWriteCmd = cli.Command{
	Name:    "write",
	Usage:   "write a register through an emulated spi device",
	Aliases: []string{"wr"},
	Flags: []cli.Flag{
		configFlag,
		spiDeviceFlag,
		&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "register address", Required: true},
		&cli.StringFlag{Name: "value", Aliases: []string{"v"}, Usage: "value to write", Required: true},
		&cli.UintFlag{Name: "size", Aliases: []string{"s"}, Usage: "register size in bytes", Value: 4},
	},
	Action: func(c *cli.Context) error {
		devs, err := buildMachine(c)
		if err != nil {
			return console.Exit(1, "machine build error: %s", console.Red(err))
		}
		idx := c.Int("device")
		if idx < 0 || idx >= len(devs.SPI) {
			return console.Exit(1, "no spi device at index %d", idx)
		}
		addr, err := parseNumber(c.String("address"))
		if err != nil {
			return console.Exit(1, "invalid address: %s", console.Red(err))
		}
		value, err := parseNumber(c.String("value"))
		if err != nil {
			return console.Exit(1, "invalid value: %s", console.Red(err))
		}
		err = spi.NewMaster(devs.SPI[idx]).Write(uint32(addr), uint32(value), uint8(c.Uint("size")))
		if err != nil {
			return console.Exit(1, "write error: %s", console.Red(err))
		}
		console.Print(console.Green("ok"))
		return nil
	},
}
