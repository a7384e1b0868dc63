// Package pcint multiplexes a port-change interrupt onto per-pin callbacks.
//
// Hardware of this class raises one interrupt per 8-pin port group and says
// nothing about which pin moved or in which direction. The Mux keeps the last
// observed sample per group, diffs it against the live sample inside the
// interrupt routine, filters through per-direction arming masks, and invokes
// the callback registered for each pin whose configured edge occurred:
//
//	mux := pcint.New(hw)
//	mux.Attach(pin, onAlert, pcint.Falling)
//
// Attach/Detach/EnableInterrupt/DisableInterrupt run in normal program
// context; the edge detector runs in interrupt context. Multi-field updates
// on the registration side mask the group's interrupt for their duration so
// the detector never observes a half-written registration.
package pcint

import (
	"pcint-go/errcode"
	"pcint-go/x/mathx"
)

// MaxGroups is the most port groups any supported chip exposes.
const MaxGroups = 4

// Func is a simple pin-change callback. It receives nothing; the handler is
// expected to know its pin and read it if it cares about the level.
type Func func()

// ArgFunc is an argument-carrying callback. arg is the opaque value given to
// AttachArg; level is the pin's logical level after the transition.
type ArgFunc func(arg any, level bool)

// slot holds at most one handler per bit position. Exactly one of fn and afn
// is non-nil for an occupied slot; the detector branches on which.
type slot struct {
	fn  Func
	afn ArgFunc
	arg any
}

func (s *slot) empty() bool { return s.fn == nil && s.afn == nil }

// portGroup is the per-group dispatch state. last is written only by the edge
// detector and by attach (reseed); the masks and slots are written only with
// the group's interrupt masked.
type portGroup struct {
	last    uint8
	rising  uint8
	falling uint8
	slots   [8]slot
}

// Mux owns the dispatch state for every port group on one chip. Construct it
// once at program start with New; it lives for the lifetime of the device.
type Mux struct {
	hw     Platform
	ngroup int
	groups [MaxGroups]portGroup
}

// New builds a Mux over hw and binds the edge detector to every existing
// group's interrupt vector. All masks and slots start cleared.
func New(hw Platform) *Mux {
	m := &Mux{hw: hw, ngroup: mathx.Clamp(hw.Groups(), 0, MaxGroups)}
	for g := 0; g < m.ngroup; g++ {
		group := uint8(g)
		hw.Install(group, func() { m.service(group) })
	}
	return m
}

// Resolve maps a logical pin to its port-group position, reporting false for
// pins the platform does not map or that fall outside the existing groups.
func (m *Mux) Resolve(pin uint8) (PinInfo, bool) {
	info, ok := m.hw.ResolvePin(pin)
	if !ok || int(info.Group) >= m.ngroup || info.Bit > 7 {
		return PinInfo{}, false
	}
	return info, true
}

// Attach registers a simple handler for pin and arms it for mode. See
// AttachArg for the full semantics.
func (m *Mux) Attach(pin uint8, fn Func, mode Mode) error {
	return m.attach(pin, slot{fn: fn}, mode)
}

// AttachArg registers an argument-carrying handler for pin and arms it for
// mode. The previous handler at that position, if any, is replaced. The
// group's last sample is reseeded from the live port so the next interrupt
// reflects only transitions after this call, and both the per-pin and the
// group master enable bits are set.
//
// Direction-mask bits accumulate across re-attach: a pin armed Change and
// re-attached as Rising stays armed for Falling until detached. Detach first
// to narrow a pin's arming.
func (m *Mux) AttachArg(pin uint8, fn ArgFunc, arg any, mode Mode) error {
	return m.attach(pin, slot{afn: fn, arg: arg}, mode)
}

func (m *Mux) attach(pin uint8, s slot, mode Mode) error {
	if !mode.valid() {
		return errcode.InvalidMode
	}
	info, ok := m.Resolve(pin)
	if !ok {
		return errcode.UnknownPin
	}
	g := &m.groups[info.Group]

	// Mask the group while slots and masks are inconsistent.
	m.hw.SetGroupEnable(info.Group, false)
	g.slots[info.Bit] = s
	if mode&Rising != 0 {
		g.rising |= info.Mask
	}
	if mode&Falling != 0 {
		g.falling |= info.Mask
	}
	g.last = m.hw.ReadPort(info.Group)
	m.hw.SetPinEnable(info.Group, info.Bit, true)
	m.hw.SetGroupEnable(info.Group, true)
	return nil
}

// Detach clears pin's handler and both direction-mask bits, drops the per-pin
// enable bit, and drops the group's master enable bit if that made the
// group's mask register read all-disabled. Detaching a pin that was never
// attached is a no-op. Unmapped pins report errcode.UnknownPin; the hardware
// is not touched.
func (m *Mux) Detach(pin uint8) error {
	info, ok := m.Resolve(pin)
	if !ok {
		return errcode.UnknownPin
	}
	g := &m.groups[info.Group]

	m.hw.SetGroupEnable(info.Group, false)
	g.slots[info.Bit] = slot{}
	g.rising &^= info.Mask
	g.falling &^= info.Mask
	m.hw.SetPinEnable(info.Group, info.Bit, false)
	if !m.hw.AllPinsDisabled(info.Group) {
		m.hw.SetGroupEnable(info.Group, true)
	}
	return nil
}

// EnableInterrupt sets only the per-pin mask-enable bit. The stored handler
// and direction masks are untouched, so a pin silenced with DisableInterrupt
// resumes with its original configuration.
func (m *Mux) EnableInterrupt(pin uint8) error {
	info, ok := m.Resolve(pin)
	if !ok {
		return errcode.UnknownPin
	}
	m.hw.SetPinEnable(info.Group, info.Bit, true)
	return nil
}

// DisableInterrupt clears only the per-pin mask-enable bit, leaving the
// stored handler and direction masks in place.
func (m *Mux) DisableInterrupt(pin uint8) error {
	info, ok := m.Resolve(pin)
	if !ok {
		return errcode.UnknownPin
	}
	m.hw.SetPinEnable(info.Group, info.Bit, false)
	return nil
}

// GetFunc returns the simple handler stored at (group, bit), for diagnostics.
// It returns nil when bit is out of range, the group does not exist, the slot
// is empty, or the slot holds an argument-carrying handler (which has no
// meaningful simple form).
func (m *Mux) GetFunc(group, bit uint8) Func {
	if int(group) >= m.ngroup || bit > 7 {
		return nil
	}
	return m.groups[group].slots[bit].fn
}

// service is the edge detector, bound to one group's interrupt vector. It is
// the sole reader of the slots during interrupt context and the sole writer
// of last. It must not block.
func (m *Mux) service(group uint8) {
	g := &m.groups[group]
	sample := m.hw.ReadPort(group)

	// A bit fires when it changed since the last observation and its new
	// level matches an armed direction.
	triggered := (g.last ^ sample) & ((g.rising & sample) | (g.falling &^ sample))

	// Store before dispatch so a handler that reattaches or inspects state
	// sees the sample it was called for.
	g.last = sample

	for bit := uint8(0); bit < 8; bit++ {
		if triggered&(1<<bit) == 0 {
			continue
		}
		s := &g.slots[bit]
		switch {
		case s.afn != nil:
			s.afn(s.arg, sample&(1<<bit) != 0)
		case s.fn != nil:
			s.fn()
		}
	}
}
