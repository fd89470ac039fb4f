//go:build tinygo

package core

import "runtime/interrupt"

// State holds the interrupt mask saved by raiseCeiling
type State struct {
	saved  interrupt.State
	masked bool
}

// enterTask is a no-op: the interrupt controller already keeps a handler
// from being re-entered by tasks at or below its own priority.
func enterTask(p Priority) {}

// exitTask is a no-op
func exitTask(p Priority) {}

// raiseCeiling disables interrupts when the caller runs below the ceiling.
// Masking everything is a conservative ceiling: the only shared resource
// is already owned by the highest priority task.
func raiseCeiling(from, ceiling Priority) State {
	if from >= ceiling {
		return State{}
	}
	return State{saved: interrupt.Disable(), masked: true}
}

// restoreCeiling restores the interrupt state
func restoreCeiling(state State) {
	if state.masked {
		interrupt.Restore(state.saved)
	}
}

// disableInterrupts disables interrupts and returns the previous state
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
