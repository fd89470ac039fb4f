package core

import (
	"errors"
	"time"
)

// recordingPin is an OutputPin that remembers every level it was driven to
type recordingPin struct {
	level  Level
	levels []Level
	err    error
}

func (p *recordingPin) Set(level Level) error {
	if p.err != nil {
		return p.err
	}
	p.level = level
	p.levels = append(p.levels, level)
	return nil
}

func (p *recordingPin) Toggle() error {
	return p.Set(p.level.Invert())
}

func (p *recordingPin) Level() (Level, error) {
	return p.level, nil
}

// countingTimer is a PeriodicTimer that counts calls
type countingTimer struct {
	period       time.Duration
	started      bool
	listening    bool
	acks         int
	reprogrammed int
}

func (c *countingTimer) Start(period time.Duration) {
	c.period = period
	c.started = true
}

func (c *countingTimer) Listen()      { c.listening = true }
func (c *countingTimer) Acknowledge() { c.acks++ }

func (c *countingTimer) Reprogram(period time.Duration) {
	c.period = period
	c.reprogrammed++
}

var errPinFault = errors.New("pin fault")
