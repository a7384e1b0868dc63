// Package sim provides an in-memory pcint.Platform for host-side tests and
// demos. Port levels are driven from test code; the installed interrupt
// routine runs synchronously on the driving goroutine, the way a real vector
// preempts the main flow.
package sim

import (
	"sync"

	"pcint-go/pcint"
	"pcint-go/x/mathx"
)

// Compile-time check.
var _ pcint.Platform = (*Platform)(nil)

// Platform models up to pcint.MaxGroups port groups of 8 lines each.
// Logical pin n maps to group n/8, bit n%8.
type Platform struct {
	mu     sync.Mutex
	ngroup int
	ports  [pcint.MaxGroups]uint8
	enable [pcint.MaxGroups]uint8 // per-pin mask-enable bits
	master [pcint.MaxGroups]bool
	isr    [pcint.MaxGroups]func()
}

// New creates a platform with the given number of port groups (1..MaxGroups).
func New(groups int) *Platform {
	return &Platform{ngroup: mathx.Clamp(groups, 1, pcint.MaxGroups)}
}

func (p *Platform) ResolvePin(pin uint8) (pcint.PinInfo, bool) {
	group := pin / 8
	if int(group) >= p.ngroup {
		return pcint.PinInfo{}, false
	}
	bit := pin % 8
	return pcint.PinInfo{Group: group, Bit: bit, Mask: 1 << bit}, true
}

func (p *Platform) ReadPort(group uint8) uint8 {
	p.mu.Lock()
	v := p.ports[group]
	p.mu.Unlock()
	return v
}

func (p *Platform) SetPinEnable(group, bit uint8, on bool) {
	p.mu.Lock()
	if on {
		p.enable[group] |= 1 << bit
	} else {
		p.enable[group] &^= 1 << bit
	}
	p.mu.Unlock()
}

func (p *Platform) SetGroupEnable(group uint8, on bool) {
	p.mu.Lock()
	p.master[group] = on
	p.mu.Unlock()
}

func (p *Platform) AllPinsDisabled(group uint8) bool {
	p.mu.Lock()
	v := p.enable[group]
	p.mu.Unlock()
	return v == 0
}

func (p *Platform) Groups() int { return p.ngroup }

func (p *Platform) Install(group uint8, isr func()) {
	p.mu.Lock()
	p.isr[group] = isr
	p.mu.Unlock()
}

// Drive sets the group's 8 lines to value and raises the group's interrupt
// if an enabled pin changed while the master enable is set. The interrupt
// routine runs on the caller's goroutine, outside the lock.
func (p *Platform) Drive(group, value uint8) {
	p.mu.Lock()
	changed := p.ports[group] ^ value
	p.ports[group] = value
	fire := changed&p.enable[group] != 0 && p.master[group]
	isr := p.isr[group]
	p.mu.Unlock()
	if fire && isr != nil {
		isr()
	}
}

// SetLevel drives a single pin's line, leaving the rest of its group alone.
func (p *Platform) SetLevel(pin uint8, level bool) {
	info, ok := p.ResolvePin(pin)
	if !ok {
		return
	}
	p.mu.Lock()
	v := p.ports[info.Group]
	p.mu.Unlock()
	if level {
		v |= info.Mask
	} else {
		v &^= info.Mask
	}
	p.Drive(info.Group, v)
}

// Seed sets the group's lines without raising an interrupt, for establishing
// a starting level before registration.
func (p *Platform) Seed(group, value uint8) {
	p.mu.Lock()
	p.ports[group] = value
	p.mu.Unlock()
}

// PinEnabled reports the per-pin mask-enable bit, for assertions.
func (p *Platform) PinEnabled(group, bit uint8) bool {
	p.mu.Lock()
	v := p.enable[group]
	p.mu.Unlock()
	return v&(1<<bit) != 0
}

// GroupEnabled reports the group's master enable bit, for assertions.
func (p *Platform) GroupEnabled(group uint8) bool {
	p.mu.Lock()
	v := p.master[group]
	p.mu.Unlock()
	return v
}
