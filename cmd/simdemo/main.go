// cmd/simdemo/main.go
//
// Host-side walkthrough of the multiplexer over the simulated platform:
// direct handlers for the interrupt-context style, a monitor watch for the
// event-stream style, then a burst of simulated port activity.
package main

import (
	"context"
	"strconv"
	"time"

	"pcint-go/internal/platform/sim"
	"pcint-go/monitor"
	"pcint-go/pcint"
)

func main() {
	println("pcint simdemo")

	hw := sim.New(2)
	hw.Seed(1, 0x02) // pin 9 idles high
	mux := pcint.New(hw)

	// Direct callbacks, the way handlers are written on real hardware.
	_ = mux.Attach(0, func() { println("pin 0: changed") }, pcint.Change)
	_ = mux.AttachArg(5, func(_ any, level bool) {
		println("pin 5: level now " + strconv.FormatBool(level))
	}, nil, pcint.Change)

	// Event-stream consumption through the monitor.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := monitor.New(mux, 0, 0)
	m.Start(ctx)
	cancelWatch, err := m.Watch(9, pcint.Falling)
	if err != nil {
		println("watch failed: " + err.Error())
		return
	}
	defer cancelWatch()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range m.Events() {
			println("monitor: pin " + strconv.Itoa(int(ev.Pin)) +
				" group " + strconv.Itoa(int(ev.Group)) +
				" level " + strconv.FormatBool(ev.Level))
		}
	}()

	// Pins 0 and 5 flip in one port interrupt: handlers run in ascending
	// bit order.
	hw.Drive(0, 0b0010_0001)

	// Pin 9 falls; only the falling edge reaches the monitor.
	hw.SetLevel(9, false)
	hw.SetLevel(9, true)

	// Silence pin 0 without losing its handler, then bring it back.
	_ = mux.DisableInterrupt(0)
	hw.SetLevel(0, false) // no output
	_ = mux.EnableInterrupt(0)
	hw.SetLevel(0, true) // "pin 0: changed"

	time.Sleep(50 * time.Millisecond)
	println("drops: " + strconv.FormatUint(uint64(m.Drops()), 10))
}
