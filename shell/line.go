// Package shell implements a small line-oriented serial shell: a fixed size
// line editor with history, tab completion and command dispatch. It never
// allocates while editing and is driven one received byte at a time.
package shell

// MaxLineLen is the capacity of the line buffer and of every history entry
const MaxLineLen = 32

// LineBuffer is the line being edited
type LineBuffer struct {
	buf    [MaxLineLen]byte
	length int
	cursor int
}

// Len returns the number of characters in the line
func (l *LineBuffer) Len() int {
	return l.length
}

// Cursor returns the cursor position, between 0 and Len
func (l *LineBuffer) Cursor() int {
	return l.cursor
}

// Bytes returns the line content. The slice is only valid until the next edit.
func (l *LineBuffer) Bytes() []byte {
	return l.buf[:l.length]
}

// Tail returns the content right of the cursor
func (l *LineBuffer) Tail() []byte {
	return l.buf[l.cursor:l.length]
}

func (l *LineBuffer) String() string {
	return string(l.buf[:l.length])
}

// Insert inserts b at the cursor and advances it.
// A full buffer drops the byte and returns false.
func (l *LineBuffer) Insert(b byte) bool {
	if l.length >= MaxLineLen {
		return false
	}
	copy(l.buf[l.cursor+1:l.length+1], l.buf[l.cursor:l.length])
	l.buf[l.cursor] = b
	l.length++
	l.cursor++
	return true
}

// Backspace removes the character left of the cursor
func (l *LineBuffer) Backspace() bool {
	if l.cursor == 0 {
		return false
	}
	copy(l.buf[l.cursor-1:], l.buf[l.cursor:l.length])
	l.length--
	l.cursor--
	return true
}

// DeleteAt removes the character under the cursor
func (l *LineBuffer) DeleteAt() bool {
	if l.cursor >= l.length {
		return false
	}
	copy(l.buf[l.cursor:], l.buf[l.cursor+1:l.length])
	l.length--
	return true
}

// MoveLeft moves the cursor one position left
func (l *LineBuffer) MoveLeft() bool {
	if l.cursor == 0 {
		return false
	}
	l.cursor--
	return true
}

// MoveRight moves the cursor one position right
func (l *LineBuffer) MoveRight() bool {
	if l.cursor >= l.length {
		return false
	}
	l.cursor++
	return true
}

// Home moves the cursor to the start and returns how far it moved
func (l *LineBuffer) Home() int {
	n := l.cursor
	l.cursor = 0
	return n
}

// End moves the cursor to the end and returns how far it moved
func (l *LineBuffer) End() int {
	n := l.length - l.cursor
	l.cursor = l.length
	return n
}

// Set replaces the content, truncated to MaxLineLen, and puts the cursor
// at the end
func (l *LineBuffer) Set(p []byte) {
	l.length = copy(l.buf[:], p)
	l.cursor = l.length
}

// Reset empties the line
func (l *LineBuffer) Reset() {
	l.length = 0
	l.cursor = 0
}
