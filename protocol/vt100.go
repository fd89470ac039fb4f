package protocol

// Control bytes
const (
	CtrlA     = 0x01
	CtrlB     = 0x02
	CtrlC     = 0x03
	CtrlE     = 0x05
	Bell      = 0x07
	Backspace = 0x08
	Tab       = 0x09
	LF        = 0x0A
	CR        = 0x0D
	Escape    = 0x1B
	Delete    = 0x7F
)

// Fixed sequences
const (
	ClearScreen  = "\x1b[H\x1b[2J" // Home cursor, erase display
	EraseToEnd   = "\x1b[K"        // Erase from cursor to end of line
	NewLine      = "\r\n"
	EraseBackOne = "\b \b" // Erase the character left of the cursor
)

// AppendCursorLeft appends the sequence moving the cursor n columns left.
// Nothing is appended for n <= 0.
func AppendCursorLeft(dst []byte, n int) []byte {
	return appendCSI(dst, n, 'D')
}

// AppendCursorRight appends the sequence moving the cursor n columns right.
// Nothing is appended for n <= 0.
func AppendCursorRight(dst []byte, n int) []byte {
	return appendCSI(dst, n, 'C')
}

func appendCSI(dst []byte, n int, final byte) []byte {
	if n <= 0 {
		return dst
	}
	dst = append(dst, Escape, '[')
	if n > 1 {
		dst = appendDecimal(dst, n)
	}
	return append(dst, final)
}

func appendDecimal(dst []byte, n int) []byte {
	var digits [10]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return append(dst, digits[i:]...)
}

// IsPrintable reports whether b is a printable ASCII character
func IsPrintable(b byte) bool {
	return b >= 0x20 && b < Delete
}
