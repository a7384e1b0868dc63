package sim

import (
	"testing"

	"pcint-go/pcint"
)

func TestResolvePinBounds(t *testing.T) {
	p := New(2)
	if _, ok := p.ResolvePin(15); !ok {
		t.Fatal("pin 15 must resolve with 2 groups")
	}
	if info, _ := p.ResolvePin(13); info.Group != 1 || info.Bit != 5 || info.Mask != 0x20 {
		t.Fatalf("pin 13 resolved to %+v", info)
	}
	if _, ok := p.ResolvePin(16); ok {
		t.Fatal("pin 16 must not resolve with 2 groups")
	}
}

func TestDriveGatesOnEnables(t *testing.T) {
	p := New(1)
	var fired int
	p.Install(0, func() { fired++ })

	p.Drive(0, 0x01) // nothing enabled: silent
	if fired != 0 {
		t.Fatal("interrupt with no pins enabled")
	}

	p.SetPinEnable(0, 1, true)
	p.Drive(0, 0x03) // master still off
	if fired != 0 {
		t.Fatal("interrupt with master enable off")
	}

	p.SetGroupEnable(0, true)
	p.Drive(0, 0x01) // bit 1 falls, enabled, master on
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	p.Drive(0, 0x05) // only bit 2 changes; bit 2 not enabled
	if fired != 1 {
		t.Fatal("interrupt for a change on a disabled pin")
	}
}

func TestSeedIsSilent(t *testing.T) {
	p := New(1)
	var fired int
	p.Install(0, func() { fired++ })
	p.SetPinEnable(0, 0, true)
	p.SetGroupEnable(0, true)

	p.Seed(0, 0xFF)
	if fired != 0 {
		t.Fatal("Seed must not raise an interrupt")
	}
	if p.ReadPort(0) != 0xFF {
		t.Fatal("Seed must set the port value")
	}
}

func TestAllPinsDisabled(t *testing.T) {
	p := New(1)
	if !p.AllPinsDisabled(0) {
		t.Fatal("fresh group must read all-disabled")
	}
	p.SetPinEnable(0, 3, true)
	if p.AllPinsDisabled(0) {
		t.Fatal("group with an enabled pin must not read all-disabled")
	}
	p.SetPinEnable(0, 3, false)
	if !p.AllPinsDisabled(0) {
		t.Fatal("group must read all-disabled again")
	}
}

// End-to-end through the Mux: the scenario a sketch would run.
func TestMuxOverSim(t *testing.T) {
	p := New(2)
	p.Seed(0, 0x00)
	m := pcint.New(p)

	var order []uint8
	m.Attach(5, func() { order = append(order, 5) }, pcint.Change)
	m.Attach(0, func() { order = append(order, 0) }, pcint.Change)

	p.Seed(1, 0x02) // pin 9 idles high before registration
	var level9 []bool
	m.AttachArg(9, func(_ any, level bool) { level9 = append(level9, level) }, nil, pcint.Falling)

	// Both bit 0 and bit 5 flip in one interrupt: ascending dispatch.
	p.Drive(0, 0b0010_0001)
	if len(order) != 2 || order[0] != 0 || order[1] != 5 {
		t.Fatalf("order = %v, want [0 5]", order)
	}

	// Falling pin 9: level reported false.
	p.SetLevel(9, false)
	if len(level9) != 1 || level9[0] {
		t.Fatalf("level9 = %v, want [false]", level9)
	}
}
