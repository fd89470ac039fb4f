//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/buzzer"
)

// BuzzerPin drives an optional piezo buzzer for the Ctrl-B bell
const BuzzerPin = machine.GP15

// Bell plays a short beep on a buzzer. Ring only queues the beep; the tone
// itself is played by Run so the serial task never waits for it.
type Bell struct {
	dev  buzzer.Device
	ring chan struct{}
}

// NewBell configures pin as a buzzer output
func NewBell(pin machine.Pin) *Bell {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Bell{
		dev:  buzzer.New(pin),
		ring: make(chan struct{}, 1),
	}
}

// Ring requests a beep. Requests while a beep is pending are merged.
func (b *Bell) Ring() {
	select {
	case b.ring <- struct{}{}:
	default:
	}
}

// Run plays requested beeps forever
func (b *Bell) Run() {
	for range b.ring {
		if err := b.dev.Tone(buzzer.A5, buzzer.Eighth); err != nil {
			DebugPrintln("[BELL] " + err.Error())
		}
		b.dev.Off()
	}
}
