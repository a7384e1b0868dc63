package pcint

import "testing"

func TestModeBitfield(t *testing.T) {
	if Change != Rising|Falling {
		t.Fatal("Change must be Rising|Falling")
	}
	if !Rising.valid() || !Falling.valid() || !Change.valid() {
		t.Fatal("standard modes must be valid")
	}
	if Mode(0).valid() || Mode(0b100).valid() {
		t.Fatal("zero and out-of-range modes must be invalid")
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		{"rising", Rising},
		{"FALLING", Falling},
		{"change", Change},
		{"both", Change},
		{" Rising ", Rising},
		{"", 0},
		{"level", 0},
	}
	for _, c := range cases {
		if got := ParseMode(c.in); got != c.want {
			t.Errorf("ParseMode(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestModeString(t *testing.T) {
	if Rising.String() != "rising" || Falling.String() != "falling" ||
		Change.String() != "change" || Mode(0).String() != "none" {
		t.Fatal("Mode.String mismatch")
	}
}
