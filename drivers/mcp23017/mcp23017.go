// Package mcp23017 provides a register-level driver for the MCP23017 16-bit
// I2C port expander, covering the subset needed for interrupt-on-change use:
//
//	d.Configure(cfg)             // all pins input, interrupts disabled
//	v, err := d.ReadPort(BankA)  // current levels (also releases INT)
//	d.SetIntEnableBit(BankA, 3, true)
//
// The chip exposes two 8-bit banks, each with its own INT output line.
// GPINTEN is the per-pin interrupt-enable (mask) register; GPIO is the live
// sample register; INTCAP latches the sample at interrupt time.
//
// The GPINTEN value is shadowed so single-bit updates cost one bus write and
// IntEnable never touches the bus.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided, without releasing the bus.
package mcp23017

import (
	"errors"

	"tinygo.org/x/drivers"
)

// I2C address with A2..A0 strapped low.
const DefaultAddress = 0x20

// Bank selectors.
const (
	BankA = 0
	BankB = 1
)

// Register addresses with IOCON.BANK = 0, the power-on default.
// B-bank registers sit one past their A-bank counterparts.
const (
	regIODIRA   = 0x00
	regIPOLA    = 0x02
	regGPINTENA = 0x04
	regDEFVALA  = 0x06
	regINTCONA  = 0x08
	regIOCON    = 0x0A
	regGPPUA    = 0x0C
	regINTFA    = 0x0E
	regINTCAPA  = 0x10
	regGPIOA    = 0x12
	regOLATA    = 0x14
)

// Errors returned by the driver.
var ErrBadBank = errors.New("mcp23017: bank out of range")

// Config controls initial pin setup. All fields are optional.
type Config struct {
	// Address defaults to 0x20 if zero.
	Address uint16
	// PullUps enables the 100k pull-up per pin and bank (GPPU).
	PullUps [2]uint8
	// InvertInputs flips the polarity per pin and bank (IPOL).
	InvertInputs [2]uint8
}

// Device wraps an I2C connection to an MCP23017.
type Device struct {
	bus     drivers.I2C
	Address uint16

	inten [2]uint8 // GPINTEN shadow
	buf   [2]byte  // reuse buffer to avoid allocations
}

// New creates a new MCP23017 connection. The I2C bus must already be
// configured. This function only creates the Device object; it does not touch
// the device.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: DefaultAddress}
}

// Configure puts every pin of both banks into input mode with interrupts
// disabled, applies the optional pull-up and polarity config, and selects
// change-mode interrupt comparison (INTCON = 0: compare against the previous
// value, not DEFVAL). IOCON keeps its power-on value: BANK=0, active-low
// push-pull INT outputs.
func (d *Device) Configure(cfgs ...Config) error {
	var c Config
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.Address != 0 {
		d.Address = c.Address
	}

	for bank := uint8(BankA); bank <= BankB; bank++ {
		steps := []struct {
			reg, val uint8
		}{
			{regIODIRA + bank, 0xFF}, // all inputs
			{regGPINTENA + bank, 0x00},
			{regINTCONA + bank, 0x00},
			{regDEFVALA + bank, 0x00},
			{regGPPUA + bank, c.PullUps[bank]},
			{regIPOLA + bank, c.InvertInputs[bank]},
		}
		for _, s := range steps {
			if err := d.writeReg(s.reg, s.val); err != nil {
				return err
			}
		}
		d.inten[bank] = 0
	}
	return nil
}

// ReadPort returns the bank's current input levels (GPIO register). Reading
// GPIO also clears a pending interrupt condition on that bank.
func (d *Device) ReadPort(bank uint8) (uint8, error) {
	if bank > BankB {
		return 0, ErrBadBank
	}
	return d.readReg(regGPIOA + bank)
}

// ReadCaptured returns the bank's levels as latched at interrupt time
// (INTCAP register). Reading it also clears the pending interrupt.
func (d *Device) ReadCaptured(bank uint8) (uint8, error) {
	if bank > BankB {
		return 0, ErrBadBank
	}
	return d.readReg(regINTCAPA + bank)
}

// IntFlags returns the bank's interrupt-flag register (INTF): which pin
// raised the pending interrupt. Cleared by ReadPort or ReadCaptured.
func (d *Device) IntFlags(bank uint8) (uint8, error) {
	if bank > BankB {
		return 0, ErrBadBank
	}
	return d.readReg(regINTFA + bank)
}

// SetIntEnableBit sets or clears one pin's interrupt-enable bit (GPINTEN).
func (d *Device) SetIntEnableBit(bank, bit uint8, on bool) error {
	if bank > BankB || bit > 7 {
		return ErrBadBank
	}
	v := d.inten[bank]
	if on {
		v |= 1 << bit
	} else {
		v &^= 1 << bit
	}
	return d.SetIntEnable(bank, v)
}

// SetIntEnable writes the bank's whole GPINTEN register.
func (d *Device) SetIntEnable(bank, mask uint8) error {
	if bank > BankB {
		return ErrBadBank
	}
	if err := d.writeReg(regGPINTENA+bank, mask); err != nil {
		return err
	}
	d.inten[bank] = mask
	return nil
}

// IntEnable returns the shadowed GPINTEN value without bus traffic.
func (d *Device) IntEnable(bank uint8) uint8 {
	if bank > BankB {
		return 0
	}
	return d.inten[bank]
}

func (d *Device) writeReg(reg, val uint8) error {
	d.buf[0], d.buf[1] = reg, val
	return d.bus.Tx(d.Address, d.buf[:2], nil)
}

func (d *Device) readReg(reg uint8) (uint8, error) {
	d.buf[0] = reg
	if err := d.bus.Tx(d.Address, d.buf[:1], d.buf[1:2]); err != nil {
		return 0, err
	}
	return d.buf[1], nil
}
