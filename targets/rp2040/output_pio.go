//go:build rp2040

package main

// LED output driven by a PIO state machine. The CPU only pushes levels
// into the TX FIFO; the state machine shifts each one onto the pin.

import (
	"errors"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"placebo/core"
)

var (
	errNoStateMachine = errors.New("no free PIO state machine")
	errFIFOFull       = errors.New("PIO TX FIFO full")
)

// buildOutputProgram creates the level output program:
//
//	.wrap_target
//	pull block   ; wait for a level
//	out pins, 1  ; drive it
//	.wrap
func buildOutputProgram() []uint16 {
	return []uint16{
		rp2pio.EncodePull(false, true),
		rp2pio.EncodeOut(rp2pio.SrcDestPins, 1),
	}
}

// PIOOutput implements core.OutputPin with a PIO state machine
type PIOOutput struct {
	pio   *rp2pio.PIO
	sm    rp2pio.StateMachine
	pin   machine.Pin
	level core.Level
}

// NewPIOOutput claims a state machine on PIO block pioNum and drives pin
func NewPIOOutput(pioNum uint8, pin machine.Pin) (*PIOOutput, error) {
	pioHW := rp2pio.PIO0
	if pioNum != 0 {
		pioHW = rp2pio.PIO1
	}

	sm, err := pioHW.ClaimStateMachine()
	if err != nil {
		return nil, errNoStateMachine
	}

	program := buildOutputProgram()
	offset, err := pioHW.AddProgram(program, -1)
	if err != nil {
		return nil, err
	}

	pin.Configure(machine.PinConfig{Mode: pioHW.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(pin, 1)
	// Shift right so bit 0 of every word is the level; explicit pull
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset, offset+uint8(len(program))-1)

	// Initialize state machine first, then pin directions
	sm.Init(offset, cfg)
	sm.SetPindirsConsecutive(pin, 1, true)
	sm.SetPinsConsecutive(pin, 1, false)
	sm.SetEnabled(true)

	return &PIOOutput{pio: pioHW, sm: sm, pin: pin, level: core.Low}, nil
}

// Set implements core.OutputPin
func (o *PIOOutput) Set(level core.Level) error {
	if o.sm.IsTxFIFOFull() {
		return errFIFOFull
	}
	o.sm.TxPut(uint32(level))
	o.level = level
	return nil
}

// Toggle implements core.OutputPin
func (o *PIOOutput) Toggle() error {
	return o.Set(o.level.Invert())
}

// Level implements core.OutputPin
func (o *PIOOutput) Level() (core.Level, error) {
	return o.level, nil
}

// GPIOOutput implements core.OutputPin on a plain GPIO
type GPIOOutput struct {
	pin machine.Pin
}

// NewGPIOOutput configures pin as an output, initially low
func NewGPIOOutput(pin machine.Pin) *GPIOOutput {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return &GPIOOutput{pin: pin}
}

func (o *GPIOOutput) Set(level core.Level) error {
	o.pin.Set(level == core.High)
	return nil
}

func (o *GPIOOutput) Toggle() error {
	o.pin.Set(!o.pin.Get())
	return nil
}

func (o *GPIOOutput) Level() (core.Level, error) {
	return core.LevelOf(o.pin.Get()), nil
}
