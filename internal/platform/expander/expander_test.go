package expander

import (
	"errors"
	"testing"

	"pcint-go/drivers/mcp23017"
	"pcint-go/pcint"
)

// Register-map fake of the chip (IOCON.BANK = 0 layout).
const (
	regGPINTENA = 0x04
	regGPIOA    = 0x12
)

type fakeChip struct {
	regs [0x16]uint8
	fail error
}

func (f *fakeChip) Tx(addr uint16, w, r []byte) error {
	if f.fail != nil {
		return f.fail
	}
	switch {
	case len(w) == 2 && len(r) == 0:
		f.regs[w[0]] = w[1]
		return nil
	case len(w) == 1 && len(r) == 1:
		r[0] = f.regs[w[0]]
		return nil
	}
	return errors.New("unexpected transaction shape")
}

func newPlatform(t *testing.T) (*fakeChip, *Platform) {
	t.Helper()
	chip := &fakeChip{}
	dev := mcp23017.New(chip)
	if err := dev.Configure(); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	return chip, New(&dev)
}

func TestResolvePin(t *testing.T) {
	_, p := newPlatform(t)
	if info, ok := p.ResolvePin(10); !ok || info.Group != 1 || info.Bit != 2 || info.Mask != 0x04 {
		t.Fatalf("pin 10 resolved to %+v, ok=%v", info, ok)
	}
	if _, ok := p.ResolvePin(16); ok {
		t.Fatal("pin 16 must not resolve")
	}
}

func TestEnableBitsReachGPINTEN(t *testing.T) {
	chip, p := newPlatform(t)
	p.SetPinEnable(0, 3, true)
	p.SetPinEnable(1, 0, true)
	if chip.regs[regGPINTENA] != 0x08 || chip.regs[regGPINTENA+1] != 0x01 {
		t.Fatalf("GPINTEN = %#02x/%#02x", chip.regs[regGPINTENA], chip.regs[regGPINTENA+1])
	}
	if p.AllPinsDisabled(0) || p.AllPinsDisabled(1) {
		t.Fatal("banks with enabled pins must not read all-disabled")
	}
	p.SetPinEnable(0, 3, false)
	if !p.AllPinsDisabled(0) {
		t.Fatal("bank A must read all-disabled again")
	}
}

func TestMuxOverExpander(t *testing.T) {
	chip, p := newPlatform(t)
	m := pcint.New(p)

	var levels []bool
	if err := m.AttachArg(11, func(_ any, level bool) { levels = append(levels, level) }, nil, pcint.Change); err != nil {
		t.Fatalf("AttachArg: %v", err)
	}

	// Pin 11 = bank B bit 3. The INT line fires; the detector reads GPIOB.
	chip.regs[regGPIOA+1] = 0x08
	p.ServiceINT(1)
	chip.regs[regGPIOA+1] = 0x00
	p.ServiceINT(1)

	if len(levels) != 2 || !levels[0] || levels[1] {
		t.Fatalf("levels = %v, want [true false]", levels)
	}
}

func TestServiceINT_GatedByMasterEnable(t *testing.T) {
	chip, p := newPlatform(t)
	m := pcint.New(p)

	var calls int
	m.Attach(2, func() { calls++ }, pcint.Change)
	p.SetGroupEnable(0, false) // silence the whole group

	chip.regs[regGPIOA] = 0x04
	p.ServiceINT(0)
	if calls != 0 {
		t.Fatalf("calls = %d with master enable off", calls)
	}

	p.SetGroupEnable(0, true)
	p.ServiceINT(0) // level already latched high; detector diffs now
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestReadPort_FallsBackOnBusError(t *testing.T) {
	chip, p := newPlatform(t)

	chip.regs[regGPIOA] = 0x42
	if v := p.ReadPort(0); v != 0x42 {
		t.Fatalf("ReadPort = %#02x", v)
	}

	chip.fail = errors.New("bus stuck")
	if v := p.ReadPort(0); v != 0x42 {
		t.Fatalf("ReadPort during bus error = %#02x, want previous sample", v)
	}
}
