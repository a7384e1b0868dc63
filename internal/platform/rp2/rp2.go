//go:build rp2040 || rp2350

// Package rp2 maps banks of 8 consecutive RP2 GPIOs onto pcint port groups.
//
// The RP2 delivers interrupts per pin, not per port, and has no group-level
// gate, so the per-pin mask-enable bit is realised with Pin.SetInterrupt and
// the master enable bit is tracked in software. Whichever pin of a group
// fires, the group's edge detector is raised and re-derives the edges from a
// fresh whole-port sample, exactly as on port-interrupt hardware.
package rp2

import (
	"machine"

	"pcint-go/pcint"
	"pcint-go/x/mathx"
)

// Compile-time check.
var _ pcint.Platform = (*Platform)(nil)

type Platform struct {
	bases  []machine.Pin // first GPIO of each group
	enable [pcint.MaxGroups]uint8
	master [pcint.MaxGroups]bool
	isr    [pcint.MaxGroups]func()
}

// New builds a platform whose group g covers GPIOs bases[g]..bases[g]+7,
// all configured as plain inputs. Call ConfigurePulls afterwards for pins
// that need a pull. At most pcint.MaxGroups bases are used.
func New(bases ...machine.Pin) *Platform {
	n := mathx.Clamp(len(bases), 0, pcint.MaxGroups)
	p := &Platform{bases: bases[:n]}
	for _, base := range p.bases {
		for bit := 0; bit < 8; bit++ {
			(base + machine.Pin(bit)).Configure(machine.PinConfig{Mode: machine.PinInput})
		}
	}
	return p
}

// ConfigurePulls reconfigures one group's pins with pull-ups (mask bit set)
// or plain input (mask bit clear).
func (p *Platform) ConfigurePulls(group uint8, pullUps uint8) {
	if int(group) >= len(p.bases) {
		return
	}
	for bit := uint8(0); bit < 8; bit++ {
		mode := machine.PinInput
		if pullUps&(1<<bit) != 0 {
			mode = machine.PinInputPullup
		}
		(p.bases[group] + machine.Pin(bit)).Configure(machine.PinConfig{Mode: mode})
	}
}

func (p *Platform) ResolvePin(pin uint8) (pcint.PinInfo, bool) {
	group := pin / 8
	if int(group) >= len(p.bases) {
		return pcint.PinInfo{}, false
	}
	bit := pin % 8
	return pcint.PinInfo{Group: group, Bit: bit, Mask: 1 << bit}, true
}

func (p *Platform) ReadPort(group uint8) uint8 {
	if int(group) >= len(p.bases) {
		return 0
	}
	var v uint8
	for bit := uint8(0); bit < 8; bit++ {
		if (p.bases[group] + machine.Pin(bit)).Get() {
			v |= 1 << bit
		}
	}
	return v
}

func (p *Platform) SetPinEnable(group, bit uint8, on bool) {
	if int(group) >= len(p.bases) || bit > 7 {
		return
	}
	hw := p.bases[group] + machine.Pin(bit)
	if on {
		g := group
		_ = hw.SetInterrupt(machine.PinToggle, func(machine.Pin) { p.service(g) })
		p.enable[group] |= 1 << bit
	} else {
		var zero machine.PinChange
		_ = hw.SetInterrupt(zero, nil)
		p.enable[group] &^= 1 << bit
	}
}

func (p *Platform) SetGroupEnable(group uint8, on bool) {
	if int(group) < len(p.bases) {
		p.master[group] = on
	}
}

func (p *Platform) AllPinsDisabled(group uint8) bool {
	return int(group) < len(p.bases) && p.enable[group] == 0
}

func (p *Platform) Groups() int { return len(p.bases) }

func (p *Platform) Install(group uint8, isr func()) {
	if int(group) < len(p.bases) {
		p.isr[group] = isr
	}
}

func (p *Platform) service(group uint8) {
	if !p.master[group] {
		return
	}
	if isr := p.isr[group]; isr != nil {
		isr()
	}
}
