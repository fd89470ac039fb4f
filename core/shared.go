package core

import "time"

// SharedTimer is the periodic timer shared by the task it drives and the
// lower priority tasks that retune it. All access goes through Lock.
type SharedTimer struct {
	timer   PeriodicTimer
	period  time.Duration
	ceiling Priority
}

// NewSharedTimer wraps a timer capability as a shared resource
func NewSharedTimer(timer PeriodicTimer) *SharedTimer {
	return &SharedTimer{timer: timer}
}

// ResourceName implements Resource
func (s *SharedTimer) ResourceName() string {
	return "timer"
}

// Ceiling implements Resource
func (s *SharedTimer) Ceiling() Priority {
	return s.ceiling
}

func (s *SharedTimer) setCeiling(p Priority) {
	s.ceiling = p
}

// Lock runs fn with exclusive access to the timer. A caller at or above
// the ceiling takes the fast path; a lower priority caller runs fn at the
// ceiling, holding off the timer interrupt until fn returns.
// A nil ctx means the idle context.
func (s *SharedTimer) Lock(ctx *Context, fn func(t LockedTimer)) {
	from := PriorityIdle
	if ctx != nil {
		from = ctx.Priority
	}

	state := raiseCeiling(from, s.ceiling)
	defer restoreCeiling(state)

	fn(LockedTimer{s: s})
}

// LockedTimer is the access guard passed to a Lock callback.
// It is only valid until the callback returns.
type LockedTimer struct {
	s *SharedTimer
}

// Period returns the last programmed period
func (t LockedTimer) Period() time.Duration {
	return t.s.period
}

// Start starts the timer with an initial period
func (t LockedTimer) Start(period time.Duration) {
	t.s.period = period
	t.s.timer.Start(period)
}

// Listen enables the timer interrupt
func (t LockedTimer) Listen() {
	t.s.timer.Listen()
}

// Acknowledge clears the pending timer interrupt
func (t LockedTimer) Acknowledge() {
	t.s.timer.Acknowledge()
}

// Reprogram changes the period of the running timer
func (t LockedTimer) Reprogram(period time.Duration) {
	t.s.period = period
	t.s.timer.Reprogram(period)
	RecordEvent(EvtReprogram, 0, TimerToUS(period), 0)
}
