package shell

import "bytes"

// HistorySize is the number of lines History keeps
const HistorySize = 32

// HistoryStore keeps committed lines, newest first
type HistoryStore interface {
	// Push stores a committed line
	Push(line []byte)

	// Len returns the number of stored lines
	Len() int

	// Entry returns line i, where 0 is the newest. The slice is only
	// valid until the next Push.
	Entry(i int) []byte
}

// History is a fixed ring of the most recently used lines. Pushing a line
// that is already stored moves it to the front instead of duplicating it.
type History struct {
	entries [HistorySize][MaxLineLen]byte
	lens    [HistorySize]int
	head    int // next slot to write
	count   int
}

// Push stores line as the newest entry, evicting the oldest when full.
// Empty lines are ignored and long lines are truncated to MaxLineLen.
func (h *History) Push(line []byte) {
	if len(line) == 0 {
		return
	}
	if len(line) > MaxLineLen {
		line = line[:MaxLineLen]
	}

	for i := 0; i < h.count; i++ {
		if bytes.Equal(h.Entry(i), line) {
			h.remove(i)
			break
		}
	}

	h.lens[h.head] = copy(h.entries[h.head][:], line)
	h.head = (h.head + 1) % HistorySize
	if h.count < HistorySize {
		h.count++
	}
}

// Len returns the number of stored lines
func (h *History) Len() int {
	return h.count
}

// Entry returns line i, newest first, or nil when out of range
func (h *History) Entry(i int) []byte {
	if i < 0 || i >= h.count {
		return nil
	}
	slot := h.slot(i)
	return h.entries[slot][:h.lens[slot]]
}

// Clear drops every entry
func (h *History) Clear() {
	h.head = 0
	h.count = 0
}

func (h *History) slot(i int) int {
	return (h.head - 1 - i + 2*HistorySize) % HistorySize
}

// remove drops entry i by shifting every newer entry one slot back
func (h *History) remove(i int) {
	for j := i; j > 0; j-- {
		dst, src := h.slot(j), h.slot(j-1)
		h.entries[dst] = h.entries[src]
		h.lens[dst] = h.lens[src]
	}
	h.head = (h.head - 1 + HistorySize) % HistorySize
	h.count--
}
