package pcint

// PinInfo locates a logical pin inside a port group.
type PinInfo struct {
	Group uint8 // port group index, 0..Groups()-1
	Bit   uint8 // bit position within the group, 0..7
	Mask  uint8 // 1 << Bit
}

// Platform is the hardware boundary consumed by the Mux. Implementations map
// logical pin numbers onto port groups and perform the actual interrupt-enable
// register writes; the Mux only decides the intended state.
//
// SetPinEnable and SetGroupEnable are called from normal program context.
// ReadPort is additionally called from the installed interrupt routine and
// must be safe there (a plain register read on real hardware).
type Platform interface {
	// ResolvePin maps a logical pin number to its place in a port group.
	// The second return is false for pins that do not belong to any group.
	ResolvePin(pin uint8) (PinInfo, bool)

	// ReadPort returns the current level of the group's 8 input lines.
	ReadPort(group uint8) uint8

	// SetPinEnable programs the per-pin mask-enable bit.
	SetPinEnable(group, bit uint8, on bool)

	// SetGroupEnable programs the group's master interrupt-enable bit.
	SetGroupEnable(group uint8, on bool)

	// AllPinsDisabled reports whether the group's mask register reads the
	// all-disabled sentinel. Detach uses it to decide whether to also drop
	// the master enable bit.
	AllPinsDisabled(group uint8) bool

	// Groups returns how many port groups physically exist, at most MaxGroups.
	Groups() int

	// Install binds isr to the group's interrupt vector. Called once per
	// existing group when the Mux is constructed.
	Install(group uint8, isr func())
}
