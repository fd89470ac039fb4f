package shell

import (
	"bytes"

	"placebo/protocol"
)

// MaxCandidates bounds the number of completions considered for one Tab cycle
const MaxCandidates = 40

// Stream is the byte stream a shell runs on
type Stream interface {
	Write(p []byte) (int, error)
	TryReadByte() (byte, bool)
}

// Environment executes what the shell collects. It is called from the
// context that feeds the shell.
type Environment interface {
	// Command handles a committed line. It is responsible for writing the
	// response and the next prompt.
	Command(sh *Shell, line string) error

	// Control handles a control byte the line editor does not use itself
	Control(sh *Shell, code byte) error
}

type escState uint8

const (
	escNone  escState = iota
	escStart          // ESC received
	escCSI            // ESC [ received, collecting parameters
	escSS3            // ESC O received
)

// Shell is a line editing session on a byte stream
type Shell struct {
	stream    Stream
	completer Completer
	history   HistoryStore

	line LineBuffer

	esc      escState
	escParam int
	escSemi  bool
	prevCR   bool

	// history navigation: index of the shown entry, -1 while editing a new line
	nav      int
	draft    [MaxLineLen]byte
	draftLen int

	// tab completion cycle: candIdx is -1 outside of a cycle
	cands    [MaxCandidates][]byte
	numCands int
	candIdx  int

	out [2*MaxLineLen + 16]byte
}

// New creates a shell. A nil completer disables catalog completion; a nil
// history gets a fresh History.
func New(stream Stream, completer Completer, history HistoryStore) *Shell {
	if history == nil {
		history = &History{}
	}
	return &Shell{
		stream:    stream,
		completer: completer,
		history:   history,
		nav:       -1,
		candIdx:   -1,
	}
}

// Line returns the content of the line being edited
func (s *Shell) Line() string {
	return s.line.String()
}

// Cursor returns the cursor position in the line being edited
func (s *Shell) Cursor() int {
	return s.line.Cursor()
}

// History returns the history store
func (s *Shell) History() HistoryStore {
	return s.history
}

// Reset drops the line being edited and any pending escape sequence
func (s *Shell) Reset() {
	s.line.Reset()
	s.esc = escNone
	s.prevCR = false
	s.nav = -1
	s.draftLen = 0
	s.endCompletion()
}

// Spin feeds every pending byte of the stream to the shell. All pending
// bytes are consumed even if a write fails; the first failure is returned.
func (s *Shell) Spin(env Environment) error {
	var first error
	for {
		b, ok := s.stream.TryReadByte()
		if !ok {
			return first
		}
		if err := s.Feed(b, env); err != nil && first == nil {
			first = err
		}
	}
}

// Feed processes one received byte
func (s *Shell) Feed(b byte, env Environment) error {
	if s.esc != escNone {
		return s.feedEscape(b, env)
	}
	if b != protocol.Tab {
		s.endCompletion()
	}

	afterCR := s.prevCR
	s.prevCR = b == protocol.CR

	switch {
	case b == protocol.CR:
		return s.commit(env)
	case b == protocol.LF:
		if afterCR {
			return nil
		}
		return s.commit(env)
	case b == protocol.Backspace || b == protocol.Delete:
		return s.backspace()
	case b == protocol.Tab:
		return s.complete()
	case b == protocol.Escape:
		s.esc = escStart
		s.escParam = 0
		s.escSemi = false
		return nil
	case protocol.IsPrintable(b):
		return s.insert(b)
	case b < 0x20:
		return env.Control(s, b)
	default:
		// Non-ASCII input is dropped
		return nil
	}
}

// Write implements io.Writer on the underlying stream
func (s *Shell) Write(p []byte) (int, error) {
	n, err := s.stream.Write(p)
	if err != nil {
		return n, &FormatError{Err: err}
	}
	return n, nil
}

// WriteString writes text to the stream
func (s *Shell) WriteString(str string) error {
	_, err := s.Write([]byte(str))
	return err
}

// Clear clears the terminal display
func (s *Shell) Clear() error {
	return s.WriteString(protocol.ClearScreen)
}

// Bell rings the terminal bell
func (s *Shell) Bell() error {
	return s.write([]byte{protocol.Bell})
}

func (s *Shell) write(p []byte) error {
	_, err := s.Write(p)
	return err
}

func (s *Shell) commit(env Environment) error {
	line := s.line.String()
	if s.line.Len() > 0 {
		s.history.Push(s.line.Bytes())
	}
	s.line.Reset()
	s.nav = -1
	s.draftLen = 0
	return env.Command(s, line)
}

func (s *Shell) insert(b byte) error {
	if !s.line.Insert(b) {
		return nil
	}
	tail := s.line.Tail()
	out := append(s.out[:0], b)
	out = append(out, tail...)
	out = protocol.AppendCursorLeft(out, len(tail))
	return s.write(out)
}

func (s *Shell) backspace() error {
	if !s.line.Backspace() {
		return nil
	}
	tail := s.line.Tail()
	if len(tail) == 0 {
		return s.write(append(s.out[:0], protocol.EraseBackOne...))
	}
	out := append(s.out[:0], '\b')
	out = append(out, tail...)
	out = append(out, ' ')
	out = protocol.AppendCursorLeft(out, len(tail)+1)
	return s.write(out)
}

func (s *Shell) deleteAtCursor() error {
	if !s.line.DeleteAt() {
		return nil
	}
	tail := s.line.Tail()
	out := append(s.out[:0], tail...)
	out = append(out, ' ')
	out = protocol.AppendCursorLeft(out, len(tail)+1)
	return s.write(out)
}

// replaceLine redraws the line with new content. The cursor only moves
// relative to the line start so the prompt is left alone.
func (s *Shell) replaceLine(p []byte) error {
	out := protocol.AppendCursorLeft(s.out[:0], s.line.Cursor())
	out = append(out, protocol.EraseToEnd...)
	s.line.Set(p)
	out = append(out, s.line.Bytes()...)
	return s.write(out)
}

func (s *Shell) historyUp() error {
	if s.nav+1 >= s.history.Len() {
		return nil
	}
	if s.nav < 0 {
		s.draftLen = copy(s.draft[:], s.line.Bytes())
	}
	s.nav++
	return s.replaceLine(s.history.Entry(s.nav))
}

func (s *Shell) historyDown() error {
	switch {
	case s.nav < 0:
		return nil
	case s.nav == 0:
		s.nav = -1
		return s.replaceLine(s.draft[:s.draftLen])
	default:
		s.nav--
		return s.replaceLine(s.history.Entry(s.nav))
	}
}

func (s *Shell) complete() error {
	if s.candIdx < 0 {
		s.collect(s.line.Bytes())
		if s.numCands == 0 {
			return nil
		}
		s.candIdx = 0
	} else {
		s.candIdx = (s.candIdx + 1) % s.numCands
	}

	cand := s.cands[s.candIdx]
	if bytes.Equal(cand, s.line.Bytes()) && s.line.Cursor() == s.line.Len() {
		return nil
	}
	return s.replaceLine(cand)
}

// collect gathers catalog candidates in catalog order, then history
// candidates newest first, without duplicates
func (s *Shell) collect(prefix []byte) {
	s.numCands = 0
	if s.completer != nil {
		s.completer.Suggest(prefix, s.addCandidate)
	}
	for i := 0; i < s.history.Len(); i++ {
		entry := s.history.Entry(i)
		if bytes.HasPrefix(entry, prefix) && !s.addCandidate(entry) {
			break
		}
	}
}

func (s *Shell) addCandidate(c []byte) bool {
	for _, existing := range s.cands[:s.numCands] {
		if bytes.Equal(existing, c) {
			return true
		}
	}
	if s.numCands >= MaxCandidates {
		return false
	}
	s.cands[s.numCands] = c
	s.numCands++
	return true
}

func (s *Shell) endCompletion() {
	s.candIdx = -1
	s.numCands = 0
}

func (s *Shell) feedEscape(b byte, env Environment) error {
	switch s.esc {
	case escStart:
		switch b {
		case '[':
			s.esc = escCSI
		case 'O':
			s.esc = escSS3
		default:
			// Not a sequence: a lone ESC is dropped, the byte is not
			s.esc = escNone
			return s.Feed(b, env)
		}
		return nil

	case escCSI:
		// Parameter bytes
		if b >= 0x30 && b <= 0x3F {
			switch {
			case b == ';':
				s.escSemi = true
			case b >= '0' && b <= '9' && !s.escSemi && s.escParam < 100:
				s.escParam = s.escParam*10 + int(b-'0')
			}
			return nil
		}
		// Intermediate bytes
		if b >= 0x20 && b <= 0x2F {
			return nil
		}
		s.esc = escNone
		return s.finishEscape(b, s.escParam)

	default:
		s.esc = escNone
		return s.finishEscape(b, 0)
	}
}

func (s *Shell) finishEscape(final byte, param int) error {
	switch final {
	case 'A':
		return s.historyUp()
	case 'B':
		return s.historyDown()
	case 'C':
		if s.line.MoveRight() {
			return s.write(protocol.AppendCursorRight(s.out[:0], 1))
		}
	case 'D':
		if s.line.MoveLeft() {
			return s.write(protocol.AppendCursorLeft(s.out[:0], 1))
		}
	case 'H':
		return s.home()
	case 'F':
		return s.end()
	case '~':
		switch param {
		case 1, 7:
			return s.home()
		case 4, 8:
			return s.end()
		case 3:
			return s.deleteAtCursor()
		}
	}
	return nil
}

func (s *Shell) home() error {
	return s.write(protocol.AppendCursorLeft(s.out[:0], s.line.Home()))
}

func (s *Shell) end() error {
	return s.write(protocol.AppendCursorRight(s.out[:0], s.line.End()))
}
