package core

import (
	"io"
	"math/bits"
)

// Pattern is a blink rhythm. The output is low on every tick whose bits
// include all of the mask bits and high otherwise.
type Pattern uint32

// Shipped patterns
const (
	PatternBlink  Pattern = 0x1 // alternate every tick
	PatternPulse  Pattern = 0x5 // two short lows every eight ticks
	PatternBeacon Pattern = 0x7 // one low tick in eight
)

// NextLevel returns the output level for a tick
func NextLevel(tick uint32, mask Pattern) Level {
	if tick&uint32(mask) == uint32(mask) {
		return Low
	}
	return High
}

// Period returns the number of ticks after which the pattern repeats
func (p Pattern) Period() uint64 {
	return 1 << uint(bits.Len32(uint32(p)))
}

// BlinkMode selects how the blinker drives the output
type BlinkMode uint8

const (
	// ModePattern drives the output from NextLevel
	ModePattern BlinkMode = iota
	// ModeToggle inverts the output on every tick and ignores the pattern
	ModeToggle
)

// Blinker is the timer task. It owns the tick counter and the output pin.
type Blinker struct {
	out      OutputPin
	timer    *SharedTimer
	pattern  Pattern
	mode     BlinkMode
	tick     uint32
	announce io.Writer
}

// NewBlinker creates a blinker driving out from timer interrupts
func NewBlinker(out OutputPin, timer *SharedTimer, pattern Pattern, mode BlinkMode) *Blinker {
	return &Blinker{
		out:     out,
		timer:   timer,
		pattern: pattern,
		mode:    mode,
	}
}

// SetAnnouncer makes the blinker write "tick" or "tock" for every high or
// low level it drives
func (b *Blinker) SetAnnouncer(w io.Writer) {
	b.announce = w
}

// HandleTimer is bound to the timer interrupt
func (b *Blinker) HandleTimer(ctx *Context) {
	b.timer.Lock(ctx, func(t LockedTimer) {
		level, err := b.drive()
		if err != nil {
			RecordEvent(EvtOutputError, 0, b.tick, 0)
		} else if b.announce != nil {
			b.sayLevel(level)
		}
		b.tick++
		t.Acknowledge()
	})
}

func (b *Blinker) drive() (Level, error) {
	if b.mode == ModeToggle {
		if err := b.out.Toggle(); err != nil {
			return Low, err
		}
		return b.out.Level()
	}

	level := NextLevel(b.tick, b.pattern)
	return level, b.out.Set(level)
}

var (
	tickLine = []byte("tick\r\n")
	tockLine = []byte("tock\r\n")
)

func (b *Blinker) sayLevel(level Level) {
	line := tockLine
	if level == High {
		line = tickLine
	}
	if _, err := b.announce.Write(line); err != nil {
		RecordEvent(EvtWriteError, 0, b.tick, 0)
	}
}
