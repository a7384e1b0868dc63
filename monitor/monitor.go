// Package monitor bridges interrupt-context pin dispatch to normal-context
// consumers. It registers argument-carrying handlers on a pcint.Mux and
// forwards each observed edge as an Event on a buffered channel, so
// application code can range over pin activity instead of doing work inside
// the interrupt routine.
package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"pcint-go/errcode"
	"pcint-go/pcint"
	"pcint-go/x/mathx"
)

// Event is delivered once per observed edge on a watched pin.
type Event struct {
	Pin   uint8
	Group uint8
	Bit   uint8
	Level bool // logical level after the transition
	Mode  pcint.Mode
	TS    time.Time
}

type Monitor struct {
	mux *pcint.Mux

	// Written by the pin handler in interrupt context; MUST NOT block it:
	isrQ chan isrEvent
	// Consumed by the application:
	outQ    chan Event
	stopped chan struct{}

	mu   sync.Mutex
	pins map[uint8]*watch

	drops uint32 // interrupt-side drop counter
}

type isrEvent struct {
	w     *watch
	level bool // captured in the interrupt routine
}

type watch struct {
	pin  uint8
	info pcint.PinInfo
	mode pcint.Mode
}

// New creates a monitor over mux. Buffer sizes <= 0 default to 64; both are
// clamped to [8, 4096].
func New(mux *pcint.Mux, isrBuf, outBuf int) *Monitor {
	if isrBuf <= 0 {
		isrBuf = 64
	}
	if outBuf <= 0 {
		outBuf = 64
	}
	return &Monitor{
		mux:     mux,
		isrQ:    make(chan isrEvent, mathx.Clamp(isrBuf, 8, 4096)),
		outQ:    make(chan Event, mathx.Clamp(outBuf, 8, 4096)),
		stopped: make(chan struct{}),
		pins:    map[uint8]*watch{},
	}
}

// Start runs the forwarding loop until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		defer close(m.stopped)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-m.isrQ:
				m.forward(ev)
			}
		}
	}()
}

// Events returns the channel edges are delivered on.
func (m *Monitor) Events() <-chan Event { return m.outQ }

// Drops returns how many edges were discarded because the interrupt-side
// queue was full.
func (m *Monitor) Drops() uint32 { return atomic.LoadUint32(&m.drops) }

// Watch attaches pin for mode and streams its edges. The returned cancel
// function detaches the pin. A pin can have one watch at a time.
func (m *Monitor) Watch(pin uint8, mode pcint.Mode) (func(), error) {
	info, ok := m.mux.Resolve(pin)
	if !ok {
		return nil, errcode.UnknownPin
	}

	m.mu.Lock()
	if _, exists := m.pins[pin]; exists {
		m.mu.Unlock()
		return nil, errcode.PinInUse
	}
	w := &watch{pin: pin, info: info, mode: mode}
	m.pins[pin] = w
	m.mu.Unlock()

	if err := m.mux.AttachArg(pin, m.isr, w, mode); err != nil {
		m.mu.Lock()
		delete(m.pins, pin)
		m.mu.Unlock()
		return nil, err
	}

	return func() {
		m.mu.Lock()
		if _, ok := m.pins[pin]; ok {
			_ = m.mux.Detach(pin)
			delete(m.pins, pin)
		}
		m.mu.Unlock()
	}, nil
}

// isr runs in interrupt context: capture the level and hand off, nothing else.
func (m *Monitor) isr(arg any, level bool) {
	select {
	case m.isrQ <- isrEvent{w: arg.(*watch), level: level}:
	default:
		atomic.AddUint32(&m.drops, 1) // protect the interrupt path
	}
}

func (m *Monitor) forward(ev isrEvent) {
	out := Event{
		Pin:   ev.w.pin,
		Group: ev.w.info.Group,
		Bit:   ev.w.info.Bit,
		Level: ev.level,
		Mode:  ev.w.mode,
		TS:    time.Now(),
	}
	select {
	case m.outQ <- out:
	default:
		// drop to protect the system if the consumer is slow
	}
}
