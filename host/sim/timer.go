package sim

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// MinPeriod is the shortest period the emulated timer runs at. Shorter
// periods are clamped; a host ticker cannot keep up with them anyway.
const MinPeriod = 100 * time.Microsecond

// Timer is an emulated periodic timer. Run delivers its interrupts by
// calling the interrupt callback from the timer goroutine.
type Timer struct {
	log       *zap.Logger
	interrupt func()

	period    atomic.Int64
	listening atomic.Bool
	pending   atomic.Bool
	fired     atomic.Uint64
	overruns  atomic.Uint64

	// reset wakes Run after the period changed
	reset chan struct{}
}

// NewTimer creates a stopped timer
func NewTimer(log *zap.Logger) *Timer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Timer{
		log:   log,
		reset: make(chan struct{}, 1),
	}
}

// SetInterrupt sets the interrupt callback. Call before Run.
func (t *Timer) SetInterrupt(fn func()) {
	t.interrupt = fn
}

// Start implements core.PeriodicTimer
func (t *Timer) Start(period time.Duration) {
	t.program(period)
}

// Listen implements core.PeriodicTimer
func (t *Timer) Listen() {
	t.listening.Store(true)
}

// Acknowledge implements core.PeriodicTimer
func (t *Timer) Acknowledge() {
	t.pending.Store(false)
}

// Reprogram implements core.PeriodicTimer. It never blocks, so it is safe
// to call while the timer goroutine waits for the interrupt to be taken.
func (t *Timer) Reprogram(period time.Duration) {
	t.program(period)
}

func (t *Timer) program(period time.Duration) {
	if period > 0 && period < MinPeriod {
		t.log.Warn("period clamped", zap.Duration("requested", period), zap.Duration("period", MinPeriod))
		period = MinPeriod
	}
	t.period.Store(int64(period))
	select {
	case t.reset <- struct{}{}:
	default:
	}
}

// Period returns the programmed period
func (t *Timer) Period() time.Duration {
	return time.Duration(t.period.Load())
}

// Fired returns the number of delivered interrupts
func (t *Timer) Fired() uint64 {
	return t.fired.Load()
}

// Overruns returns how often an interrupt fired while the previous one was
// still unacknowledged
func (t *Timer) Overruns() uint64 {
	return t.overruns.Load()
}

// Run delivers interrupts until ctx is done
func (t *Timer) Run(ctx context.Context) error {
	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-t.reset:
			period := t.Period()
			if period <= 0 {
				continue
			}
			if ticker == nil {
				ticker = time.NewTicker(period)
				tick = ticker.C
			} else {
				ticker.Reset(period)
			}
			t.log.Debug("timer programmed", zap.Duration("period", period))

		case <-tick:
			if !t.listening.Load() || t.interrupt == nil {
				continue
			}
			if t.pending.Swap(true) {
				t.overruns.Add(1)
			}
			t.fired.Add(1)
			t.interrupt()
		}
	}
}
