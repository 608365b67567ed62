package main

import (
	"encoding/hex"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/busemu/cmd/busemu/console"
	"github.com/mklimuk/busemu/i2c"
)

var i2cCmd = cli.Command{
	Name: "i2c",
	Subcommands: []*cli.Command{
		&i2cSendCmd,
		&i2cRecvCmd,
	},
}

var i2cSendCmd = cli.Command{
	Name:    "send",
	Usage:   "write a packet through an emulated i2c device",
	Aliases: []string{"wr"},
	Flags: []cli.Flag{
		configFlag,
		&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "device bus address", Required: true},
		&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "hex bytes to write (e.g. 'AABBCC')", Required: true},
	},
	Action: func(c *cli.Context) error {
		devs, err := buildMachine(c)
		if err != nil {
			return console.Exit(1, "machine build error: %s", console.Red(err))
		}
		addr, err := parseNumber(c.String("address"))
		if err != nil {
			return console.Exit(1, "invalid address: %s", console.Red(err))
		}
		br, err := findI2C(devs, addr)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		data, err := parseHexBytes(c.String("data"))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		i2c.NewMaster(br).Write(data)
		console.Printf("sent %d bytes to %#02x\n", len(data), br.Addr())
		return nil
	},
}

var i2cRecvCmd = cli.Command{
	Name:    "recv",
	Usage:   "read bytes from an emulated i2c device",
	Aliases: []string{"rd"},
	Flags: []cli.Flag{
		configFlag,
		&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "device bus address", Required: true},
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "number of bytes to read", Value: 1},
	},
	Action: func(c *cli.Context) error {
		devs, err := buildMachine(c)
		if err != nil {
			return console.Exit(1, "machine build error: %s", console.Red(err))
		}
		addr, err := parseNumber(c.String("address"))
		if err != nil {
			return console.Exit(1, "invalid address: %s", console.Red(err))
		}
		br, err := findI2C(devs, addr)
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		data := i2c.NewMaster(br).Read(c.Int("count"))
		console.Printf("%s\n", hex.EncodeToString(data))
		return nil
	},
}
