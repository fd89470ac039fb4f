package core

import "time"

// Timer limits
const (
	MaxBlinkFrequency = 1000000 // Highest blink frequency the shell accepts, in Hz
	DefaultPeriod     = 250 * time.Millisecond
)

// Hertz is an interrupt or blink rate
type Hertz uint32

// Period returns the duration of one cycle at this rate.
// A zero rate has no period and returns 0.
func (h Hertz) Period() time.Duration {
	if h == 0 {
		return 0
	}
	return time.Second / time.Duration(h)
}

// BlinkPeriod returns the timer period for a visible blink rate.
// Every timer interrupt produces one edge, so a full on/off cycle
// takes two interrupts.
func BlinkPeriod(freq Hertz) time.Duration {
	return (freq * 2).Period()
}

// PeriodicTimer is the periodic hardware timer capability.
type PeriodicTimer interface {
	// Start begins counting with the given period
	Start(period time.Duration)

	// Listen enables the update interrupt
	Listen()

	// Acknowledge clears the pending interrupt flag. Calling it with
	// nothing pending has no effect.
	Acknowledge()

	// Reprogram changes the period of a running timer
	Reprogram(period time.Duration)
}

// TimerToUS converts a period to whole microseconds
func TimerToUS(period time.Duration) uint32 {
	return uint32(period / time.Microsecond)
}
