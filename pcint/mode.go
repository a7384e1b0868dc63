package pcint

import "strings"

// Mode selects which transitions arm a pin. The values form a bitfield:
// Change is Rising | Falling and fires on either transition.
type Mode uint8

const (
	Rising  Mode = 0b01
	Falling Mode = 0b10
	Change  Mode = Rising | Falling
)

func (m Mode) valid() bool { return m&Change != 0 && m&^Change == 0 }

func (m Mode) String() string {
	switch m {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	case Change:
		return "change"
	default:
		return "none"
	}
}

// ParseMode converts a string to a Mode.
// Accepts: "rising", "falling", "change", "both" (case-insensitive).
// Anything else, including "", yields the zero Mode, which no operation accepts.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rising":
		return Rising
	case "falling":
		return Falling
	case "change", "both":
		return Change
	default:
		return 0
	}
}
