// Package pinconfig applies a declarative pin list to a pcint.Mux, so a
// program can keep its interrupt wiring in config instead of code.
package pinconfig

import (
	"encoding/json"
	"strconv"

	"pcint-go/errcode"
	"pcint-go/pcint"
)

// Config is the decodable root document.
type Config struct {
	Pins []PinSpec `json:"pins"`
}

// PinSpec describes one pin registration.
type PinSpec struct {
	Pin     uint8  `json:"pin"`
	Mode    string `json:"mode"`    // "rising" | "falling" | "change"
	Handler string `json:"handler"` // name resolved by the caller's lookup
}

// Decode accepts raw JSON bytes, a JSON string, or an already-decoded value
// (e.g. a map from a config service) and returns the typed Config.
func Decode(src any) (Config, error) {
	var cfg Config
	switch v := src.(type) {
	case []byte:
		return cfg, json.Unmarshal(v, &cfg)
	case string:
		return cfg, json.Unmarshal([]byte(v), &cfg)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return cfg, err
		}
		return cfg, json.Unmarshal(b, &cfg)
	}
}

// Apply attaches every listed pin, resolving handler names through lookup.
// It stops at the first failure; pins attached before the failure stay
// attached.
func Apply(m *pcint.Mux, cfg Config, lookup func(name string) pcint.Func) error {
	for _, ps := range cfg.Pins {
		mode := pcint.ParseMode(ps.Mode)
		if !(mode == pcint.Rising || mode == pcint.Falling || mode == pcint.Change) {
			return &errcode.E{C: errcode.InvalidMode, Op: "pinconfig.Apply", Msg: ps.Mode}
		}
		fn := lookup(ps.Handler)
		if fn == nil {
			return &errcode.E{C: errcode.UnknownHandler, Op: "pinconfig.Apply", Msg: ps.Handler}
		}
		if err := m.Attach(ps.Pin, fn, mode); err != nil {
			return &errcode.E{C: errcode.Of(err), Op: "pinconfig.Apply", Msg: "pin " + strconv.Itoa(int(ps.Pin)), Err: err}
		}
	}
	return nil
}
