// Package sim emulates the board peripherals the firmware drives, so the
// whole application runs as a host process.
package sim

import (
	"sync/atomic"

	"go.uber.org/zap"

	"placebo/core"
)

// LED is an emulated output pin. Every edge is logged at debug level.
type LED struct {
	log   *zap.Logger
	level atomic.Uint32
	edges atomic.Uint64
}

// NewLED creates a LED that starts low
func NewLED(log *zap.Logger) *LED {
	if log == nil {
		log = zap.NewNop()
	}
	return &LED{log: log}
}

// Set implements core.OutputPin
func (l *LED) Set(level core.Level) error {
	old := core.Level(l.level.Swap(uint32(level)))
	if old != level {
		n := l.edges.Add(1)
		l.log.Debug("led", zap.Stringer("level", level), zap.Uint64("edge", n))
	}
	return nil
}

// Toggle implements core.OutputPin
func (l *LED) Toggle() error {
	return l.Set(core.Level(l.level.Load()).Invert())
}

// Level implements core.OutputPin
func (l *LED) Level() (core.Level, error) {
	return core.Level(l.level.Load()), nil
}

// Edges returns the number of level changes so far
func (l *LED) Edges() uint64 {
	return l.edges.Load()
}
