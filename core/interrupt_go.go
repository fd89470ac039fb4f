//go:build !tinygo

package core

import "sync"

// Regular Go builds emulate the interrupt controller with one gate per
// priority level. A task runs holding the gate of its own level. A ceiling
// lock takes every gate above the caller's level up to the ceiling, always
// lowest first, so no two contexts can wait on each other.
var priorityGates [NumPriorities]sync.Mutex

// State records the gates held by a raised ceiling
type State struct {
	from Priority
	to   Priority
}

// enterTask blocks until no context at or above p holds the gate for p
func enterTask(p Priority) {
	if p > PriorityIdle {
		priorityGates[p].Lock()
	}
}

// exitTask releases the gate taken by enterTask
func exitTask(p Priority) {
	if p > PriorityIdle {
		priorityGates[p].Unlock()
	}
}

// raiseCeiling holds off every task in (from, ceiling]
func raiseCeiling(from, ceiling Priority) State {
	for p := from + 1; p <= ceiling; p++ {
		priorityGates[p].Lock()
	}
	return State{from: from, to: ceiling}
}

// restoreCeiling releases the gates in reverse order
func restoreCeiling(state State) {
	for p := state.to; p > state.from; p-- {
		priorityGates[p].Unlock()
	}
}

var ringMu sync.Mutex

// disableInterrupts serializes access to the event ring on regular Go
func disableInterrupts() uintptr {
	ringMu.Lock()
	return 0
}

// restoreInterrupts releases the event ring
func restoreInterrupts(state uintptr) {
	ringMu.Unlock()
}
