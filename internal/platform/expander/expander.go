// Package expander adapts an MCP23017 port expander to pcint.Platform.
//
// Banks A and B are port groups 0 and 1; logical pins 0..15 map across them.
// The chip's GPINTEN register carries the per-pin mask-enable bits. It has no
// group-level interrupt gate short of clearing GPINTEN (which would lose the
// per-pin state), so the master enable bit lives here in software and gates
// ServiceINT, which the caller wires to the MCU pin watching the bank's
// INTA/INTB output.
package expander

import (
	"sync/atomic"

	"pcint-go/drivers/mcp23017"
	"pcint-go/pcint"
)

// Compile-time check.
var _ pcint.Platform = (*Platform)(nil)

const groups = 2

type Platform struct {
	dev *mcp23017.Device

	master [groups]atomic.Bool
	isr    [groups]func()
	last   [groups]uint8 // fallback sample when a bus read fails

	err error // first registration-side bus error, for diagnostics
}

// New wraps a configured device. The I2C bus and the device's Configure must
// already have run.
func New(dev *mcp23017.Device) *Platform {
	return &Platform{dev: dev}
}

func (p *Platform) ResolvePin(pin uint8) (pcint.PinInfo, bool) {
	if pin > 15 {
		return pcint.PinInfo{}, false
	}
	bit := pin % 8
	return pcint.PinInfo{Group: pin / 8, Bit: bit, Mask: 1 << bit}, true
}

// ReadPort is called from the INT service path and must not fail at the
// pcint boundary: on a bus error it returns the previous sample, so the edge
// detector sees no transitions rather than inventing some.
func (p *Platform) ReadPort(group uint8) uint8 {
	if group >= groups {
		return 0
	}
	v, err := p.dev.ReadPort(group)
	if err != nil {
		return p.last[group]
	}
	p.last[group] = v
	return v
}

func (p *Platform) SetPinEnable(group, bit uint8, on bool) {
	if group >= groups {
		return
	}
	if err := p.dev.SetIntEnableBit(group, bit, on); err != nil && p.err == nil {
		p.err = err
	}
}

func (p *Platform) SetGroupEnable(group uint8, on bool) {
	if group >= groups {
		return
	}
	p.master[group].Store(on)
}

func (p *Platform) AllPinsDisabled(group uint8) bool {
	return group < groups && p.dev.IntEnable(group) == 0
}

func (p *Platform) Groups() int { return groups }

func (p *Platform) Install(group uint8, isr func()) {
	if group < groups {
		p.isr[group] = isr
	}
}

// ServiceINT runs the bank's edge detector if the group is enabled. Wire it
// to the falling edge of the expander's INTA (group 0) or INTB (group 1)
// line, e.g. via machine.Pin.SetInterrupt on the MCU pin they land on.
func (p *Platform) ServiceINT(group uint8) {
	if group >= groups || !p.master[group].Load() {
		return
	}
	if isr := p.isr[group]; isr != nil {
		isr()
	}
}

// Err returns the first bus error seen on the registration side, nil if
// none. Like SetPinEnable, it must be called from registration context only;
// the field is not synchronized against the INT service path, which never
// touches it.
func (p *Platform) Err() error { return p.err }
