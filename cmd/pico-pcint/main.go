//go:build rp2040

// cmd/pico-pcint/main.go
//
// Pico demo: GP0..GP7 form one port group with pull-ups; every edge is
// reported over UART0. Ground a pin to see its falling and rising reports.
package main

import (
	"context"
	"strconv"
	"time"

	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"pcint-go/internal/platform/rp2"
	"pcint-go/monitor"
	"pcint-go/pcint"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)

	u := uartx.UART0
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	line := func(s string) { _, _ = u.Write([]byte(s + "\r\n")) }

	hw := rp2.New(machine.GP0) // one group: GP0..GP7
	hw.ConfigurePulls(0, 0xFF)
	mux := pcint.New(hw)

	m := monitor.New(mux, 0, 0)
	m.Start(context.Background())
	for pin := uint8(0); pin < 8; pin++ {
		if _, err := m.Watch(pin, pcint.Change); err != nil {
			line("watch " + strconv.Itoa(int(pin)) + ": " + err.Error())
		}
	}
	line("pcint ready")

	for ev := range m.Events() {
		lvl := "low"
		if ev.Level {
			lvl = "high"
		}
		line("pin " + strconv.Itoa(int(ev.Pin)) + " " + lvl)
	}
}
