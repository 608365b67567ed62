package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/busemu/cmd/busemu/console"
	"github.com/mklimuk/busemu/config"
	"github.com/mklimuk/busemu/i2c"
	"github.com/mklimuk/busemu/spi"
)

var monitorCmd = cli.Command{
	Name:    "monitor",
	Usage:   "interactive console driving the emulated buses",
	Aliases: []string{"mon"},
	Flags:   []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		devs, err := buildMachine(c)
		if err != nil {
			return console.Exit(1, "machine build error: %s", console.Red(err))
		}
		rl, err := readline.New(console.Bold("busemu> "))
		if err != nil {
			return console.Exit(1, "console error: %s", console.Red(err))
		}
		defer func() { _ = rl.Close() }()
		for {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			if err != nil {
				return console.Exit(1, "console error: %s", console.Red(err))
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			if fields[0] == "q" || fields[0] == "quit" {
				return nil
			}
			if err := dispatch(devs, fields); err != nil {
				console.Error(err.Error())
			}
		}
	},
}

func dispatch(devs *config.Devices, fields []string) error {
	console.Debugf("dispatch %v", fields)
	switch fields[0] {
	case "iw":
		if len(fields) != 3 {
			return fmt.Errorf("usage: iw <addr> <hexbytes>")
		}
		addr, err := parseNumber(fields[1])
		if err != nil {
			return err
		}
		br, err := findI2C(devs, addr)
		if err != nil {
			return err
		}
		data, err := parseHexBytes(fields[2])
		if err != nil {
			return err
		}
		i2c.NewMaster(br).Write(data)
		console.Infof("sent %d bytes", len(data))
	case "ir":
		if len(fields) != 3 {
			return fmt.Errorf("usage: ir <addr> <count>")
		}
		addr, err := parseNumber(fields[1])
		if err != nil {
			return err
		}
		br, err := findI2C(devs, addr)
		if err != nil {
			return err
		}
		n, err := parseNumber(fields[2])
		if err != nil {
			return err
		}
		console.Print(hex.EncodeToString(i2c.NewMaster(br).Read(int(n))))
	case "sr":
		if len(fields) < 3 || len(fields) > 4 {
			return fmt.Errorf("usage: sr <addr> <size> [device]")
		}
		return spiAccess(devs, fields[1], "0", fields[2], optional(fields, 3), true)
	case "sw":
		if len(fields) < 4 || len(fields) > 5 {
			return fmt.Errorf("usage: sw <addr> <value> <size> [device]")
		}
		return spiAccess(devs, fields[1], fields[2], fields[3], optional(fields, 4), false)
	case "rst", "reset":
		ok, err := console.Confirm("reset all devices?")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		for _, br := range devs.I2C {
			br.Reset()
		}
		for _, br := range devs.SPI {
			br.Reset()
		}
		for _, sp := range devs.Spaces {
			sp.Reset()
		}
		console.Info("devices reset")
	case "st":
		raw, err := yaml.Marshal(snapshot(devs))
		if err != nil {
			return err
		}
		console.Print(string(raw))
	case "h", "help":
		console.Print("iw <addr> <hexbytes>            i2c write transaction")
		console.Print("ir <addr> <count>               i2c read transaction")
		console.Print("sr <addr> <size> [device]       spi register read")
		console.Print("sw <addr> <value> <size> [dev]  spi register write")
		console.Print("st                              snapshot state dump")
		console.Print("rst                             reset all devices")
		console.Print("q                               quit")
	default:
		return fmt.Errorf("unknown command %q, try 'help'", fields[0])
	}
	return nil
}

// optional returns the i-th field or "0" when the command line is shorter.
func optional(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return "0"
}

func spiAccess(devs *config.Devices, addrStr, valueStr, sizeStr, idxStr string, read bool) error {
	idx, err := parseNumber(idxStr)
	if err != nil {
		return err
	}
	if int(idx) >= len(devs.SPI) {
		return fmt.Errorf("no spi device at index %d", idx)
	}
	addr, err := parseNumber(addrStr)
	if err != nil {
		return err
	}
	size, err := parseNumber(sizeStr)
	if err != nil {
		return err
	}
	m := spi.NewMaster(devs.SPI[idx])
	if read {
		value, err := m.Read(uint32(addr), uint8(size))
		if err != nil {
			return err
		}
		console.Printf("%#08x\n", value)
		return nil
	}
	value, err := parseNumber(valueStr)
	if err != nil {
		return err
	}
	return m.Write(uint32(addr), uint32(value), uint8(size))
}
