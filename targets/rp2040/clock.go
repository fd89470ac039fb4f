//go:build rp2040

package main

import (
	"device/rp"
	"runtime/interrupt"
	"time"

	"placebo/core"
)

// The runtime sleeps on alarm 0, the blink timer uses alarm 1
const (
	timerIRQ  = core.IRQ(rp.IRQ_TIMER_IRQ_1)
	serialIRQ = core.IRQ(rp.IRQ_UART0_IRQ)

	alarm1Bit = 1 << 1

	// Shortest alarm period the handler can keep up with
	minPeriodUS = 4
)

// AlarmTimer is the periodic blink timer on the 1MHz system timer.
// The alarm is one-shot, so every acknowledge re-arms it one period later.
type AlarmTimer struct {
	periodUS uint32
	next     uint32
}

// NewAlarmTimer creates a stopped timer
func NewAlarmTimer() *AlarmTimer {
	return &AlarmTimer{}
}

// GetHardwareTime reads the low 32 bits of the microsecond counter
func GetHardwareTime() uint32 {
	return rp.TIMER.TIMERAWL.Get()
}

func toAlarmPeriod(period time.Duration) uint32 {
	us := core.TimerToUS(period)
	if us < minPeriodUS {
		us = minPeriodUS
	}
	return us
}

// Start implements core.PeriodicTimer
func (t *AlarmTimer) Start(period time.Duration) {
	t.periodUS = toAlarmPeriod(period)
	t.arm(GetHardwareTime() + t.periodUS)
}

// Listen implements core.PeriodicTimer
func (t *AlarmTimer) Listen() {
	rp.TIMER.INTE.SetBits(alarm1Bit)
}

// Acknowledge implements core.PeriodicTimer. It only re-arms when the
// alarm actually fired.
func (t *AlarmTimer) Acknowledge() {
	if !rp.TIMER.INTR.HasBits(alarm1Bit) {
		return
	}
	rp.TIMER.INTR.Set(alarm1Bit)

	next := t.next + t.periodUS
	now := GetHardwareTime()
	// Missed the slot, restart from now instead of firing a burst
	if int32(next-now) <= 0 {
		next = now + t.periodUS
	}
	t.arm(next)
}

// Reprogram implements core.PeriodicTimer
func (t *AlarmTimer) Reprogram(period time.Duration) {
	t.periodUS = toAlarmPeriod(period)
	t.arm(GetHardwareTime() + t.periodUS)
}

func (t *AlarmTimer) arm(at uint32) {
	t.next = at
	rp.TIMER.ALARM1.Set(at)
}

// EnableTimerInterrupt installs the alarm 1 handler at a priority above
// the thread mode serial task
func EnableTimerInterrupt() {
	irq := interrupt.New(rp.IRQ_TIMER_IRQ_1, timerISR)
	irq.SetPriority(0x40)
	irq.Enable()
}

func timerISR(interrupt.Interrupt) {
	if app != nil {
		app.TimerInterrupt()
	}
}
