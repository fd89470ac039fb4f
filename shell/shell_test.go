package shell

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeStream struct {
	in  []byte
	out bytes.Buffer
	err error
}

func (f *fakeStream) Write(p []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.out.Write(p)
}

func (f *fakeStream) TryReadByte() (byte, bool) {
	if len(f.in) == 0 {
		return 0, false
	}
	b := f.in[0]
	f.in = f.in[1:]
	return b, true
}

type recordingEnv struct {
	lines    []string
	controls []byte
}

func (e *recordingEnv) Command(sh *Shell, line string) error {
	e.lines = append(e.lines, line)
	return nil
}

func (e *recordingEnv) Control(sh *Shell, code byte) error {
	e.controls = append(e.controls, code)
	return nil
}

func newTestShell() (*Shell, *fakeStream, *recordingEnv) {
	stream := &fakeStream{}
	return New(stream, NewCatalog(DefaultCompletions...), nil), stream, &recordingEnv{}
}

// feed sends input and returns what the shell echoed for it
func feed(t *testing.T, sh *Shell, stream *fakeStream, env *recordingEnv, input string) string {
	t.Helper()
	stream.out.Reset()
	stream.in = append(stream.in, input...)
	if err := sh.Spin(env); err != nil {
		t.Fatalf("Spin(%q): %v", input, err)
	}
	return stream.out.String()
}

func TestShellEcho(t *testing.T) {
	sh, stream, env := newTestShell()

	if got := feed(t, sh, stream, env, "abc"); got != "abc" {
		t.Errorf("Expected echo %q, got %q", "abc", got)
	}
	if sh.Line() != "abc" || sh.Cursor() != 3 {
		t.Errorf("Expected line %q at 3, got %q at %d", "abc", sh.Line(), sh.Cursor())
	}
}

func TestShellCommit(t *testing.T) {
	sh, stream, env := newTestShell()

	feed(t, sh, stream, env, "help\r")
	if len(env.lines) != 1 || env.lines[0] != "help" {
		t.Fatalf("Expected one command %q, got %q", "help", env.lines)
	}
	if sh.Line() != "" {
		t.Errorf("Line should be empty after commit, got %q", sh.Line())
	}
	if string(sh.History().Entry(0)) != "help" {
		t.Errorf("Committed line missing from history")
	}

	// Empty lines are dispatched but not stored
	feed(t, sh, stream, env, "\r")
	if len(env.lines) != 2 || env.lines[1] != "" {
		t.Errorf("Expected empty command, got %q", env.lines)
	}
	if sh.History().Len() != 1 {
		t.Errorf("Empty line was stored in history")
	}
}

func TestShellLineEndings(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a\r\n", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\r\r", []string{"a", ""}},
		{"a\n\n", []string{"a", ""}},
		{"a\r\nb\r\n", []string{"a", "b"}},
	}

	for _, test := range tests {
		sh, stream, env := newTestShell()
		feed(t, sh, stream, env, test.input)
		if diff := cmp.Diff(test.want, env.lines); diff != "" {
			t.Errorf("%q: commands mismatch (-want +got):\n%s", test.input, diff)
		}
	}
}

func TestShellBackspace(t *testing.T) {
	sh, stream, env := newTestShell()
	feed(t, sh, stream, env, "ab")

	if got := feed(t, sh, stream, env, "\x7f"); got != "\b \b" {
		t.Errorf("Expected %q, got %q", "\b \b", got)
	}
	if got := feed(t, sh, stream, env, "\b"); got != "\b \b" {
		t.Errorf("Expected %q, got %q", "\b \b", got)
	}
	if got := feed(t, sh, stream, env, "\b"); got != "" {
		t.Errorf("Backspace on an empty line echoed %q", got)
	}
	if sh.Line() != "" {
		t.Errorf("Expected empty line, got %q", sh.Line())
	}
}

func TestShellMidLineEditing(t *testing.T) {
	sh, stream, env := newTestShell()
	feed(t, sh, stream, env, "ac")

	if got := feed(t, sh, stream, env, "\x1b[D"); got != "\x1b[D" {
		t.Errorf("Left arrow echoed %q", got)
	}
	if got := feed(t, sh, stream, env, "b"); got != "bc\x1b[D" {
		t.Errorf("Mid-line insert echoed %q", got)
	}
	if sh.Line() != "abc" || sh.Cursor() != 2 {
		t.Fatalf("Expected %q at 2, got %q at %d", "abc", sh.Line(), sh.Cursor())
	}

	if got := feed(t, sh, stream, env, "\x7f"); got != "\bc \x1b[2D" {
		t.Errorf("Mid-line backspace echoed %q", got)
	}
	if sh.Line() != "ac" || sh.Cursor() != 1 {
		t.Errorf("Expected %q at 1, got %q at %d", "ac", sh.Line(), sh.Cursor())
	}

	if got := feed(t, sh, stream, env, "\x1b[C"); got != "\x1b[C" {
		t.Errorf("Right arrow echoed %q", got)
	}
	if got := feed(t, sh, stream, env, "\x1b[C"); got != "" {
		t.Errorf("Right arrow at end of line echoed %q", got)
	}
}

func TestShellHomeEndDelete(t *testing.T) {
	sh, stream, env := newTestShell()
	feed(t, sh, stream, env, "abc")

	tests := []struct {
		name   string
		input  string
		echo   string
		line   string
		cursor int
	}{
		{"home", "\x1b[H", "\x1b[3D", "abc", 0},
		{"end", "\x1b[F", "\x1b[3C", "abc", 3},
		{"home tilde", "\x1b[1~", "\x1b[3D", "abc", 0},
		{"delete", "\x1b[3~", "bc \x1b[3D", "bc", 0},
		{"end tilde", "\x1b[4~", "\x1b[2C", "bc", 2},
		{"home ss3", "\x1bOH", "\x1b[2D", "bc", 0},
		{"end ss3", "\x1bOF", "\x1b[2C", "bc", 2},
		{"delete at end", "\x1b[3~", "", "bc", 2},
		{"unknown final", "\x1b[Z", "", "bc", 2},
	}

	for _, test := range tests {
		if got := feed(t, sh, stream, env, test.input); got != test.echo {
			t.Errorf("%s: expected echo %q, got %q", test.name, test.echo, got)
		}
		if sh.Line() != test.line || sh.Cursor() != test.cursor {
			t.Errorf("%s: expected %q at %d, got %q at %d",
				test.name, test.line, test.cursor, sh.Line(), sh.Cursor())
		}
	}
}

func TestShellLoneEscape(t *testing.T) {
	tests := []struct {
		input string
		line  string
	}{
		{"ab\x1bcd", "abcd"},
		{"\x1b\x1b[D", ""},
		{"x\x1b\r", ""},
	}

	for _, test := range tests {
		sh, stream, env := newTestShell()
		feed(t, sh, stream, env, test.input)
		if sh.Line() != test.line {
			t.Errorf("%q: expected line %q, got %q", test.input, test.line, sh.Line())
		}
	}
}

func TestShellDropsOverflow(t *testing.T) {
	sh, stream, env := newTestShell()

	input := strings.Repeat("x", MaxLineLen+1)
	got := feed(t, sh, stream, env, input)
	if got != input[:MaxLineLen] {
		t.Errorf("Expected %d echoed bytes, got %d", MaxLineLen, len(got))
	}
	if sh.Line() != input[:MaxLineLen] {
		t.Errorf("Expected a full line, got %q", sh.Line())
	}
}

func TestShellHistoryNavigation(t *testing.T) {
	sh, stream, env := newTestShell()
	feed(t, sh, stream, env, "one\rtwo\rdr")

	if got := feed(t, sh, stream, env, "\x1b[A"); got != "\x1b[2D\x1b[Ktwo" {
		t.Errorf("Up echoed %q", got)
	}
	if got := feed(t, sh, stream, env, "\x1b[A"); got != "\x1b[3D\x1b[Kone" {
		t.Errorf("Up echoed %q", got)
	}
	if got := feed(t, sh, stream, env, "\x1b[A"); got != "" {
		t.Errorf("Up past the oldest entry echoed %q", got)
	}
	if sh.Line() != "one" {
		t.Errorf("Expected %q, got %q", "one", sh.Line())
	}

	feed(t, sh, stream, env, "\x1b[B")
	if sh.Line() != "two" {
		t.Errorf("Expected %q, got %q", "two", sh.Line())
	}
	feed(t, sh, stream, env, "\x1b[B")
	if sh.Line() != "dr" {
		t.Errorf("Expected the draft %q back, got %q", "dr", sh.Line())
	}
	if got := feed(t, sh, stream, env, "\x1b[B"); got != "" {
		t.Errorf("Down past the draft echoed %q", got)
	}

	// A recalled line can be edited and committed
	feed(t, sh, stream, env, "\x1b[A!\r")
	if last := env.lines[len(env.lines)-1]; last != "two!" {
		t.Errorf("Expected command %q, got %q", "two!", last)
	}
}

func TestShellCompletion(t *testing.T) {
	sh, stream, env := newTestShell()
	feed(t, sh, stream, env, "bl")

	if got := feed(t, sh, stream, env, "\t"); got != "\x1b[2D\x1b[Kblink " {
		t.Errorf("Tab echoed %q", got)
	}
	if sh.Line() != "blink " {
		t.Errorf("Expected %q, got %q", "blink ", sh.Line())
	}

	// Single candidate equal to the line is a no-op
	if got := feed(t, sh, stream, env, "\t"); got != "" {
		t.Errorf("Tab on a complete line echoed %q", got)
	}
}

func TestShellCompletionCycle(t *testing.T) {
	sh, stream, env := newTestShell()
	feed(t, sh, stream, env, "hello\rh")

	var got []string
	for i := 0; i < 4; i++ {
		feed(t, sh, stream, env, "\t")
		got = append(got, sh.Line())
	}

	want := []string{"help", "help pinout", "hello", "help"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Completion cycle mismatch (-want +got):\n%s", diff)
	}

	// Typing ends the cycle
	feed(t, sh, stream, env, "x\t")
	if sh.Line() != "helpx" {
		t.Errorf("Expected %q, got %q", "helpx", sh.Line())
	}
}

func TestShellCompletionNoMatch(t *testing.T) {
	sh, stream, env := newTestShell()
	feed(t, sh, stream, env, "zz")

	if got := feed(t, sh, stream, env, "\t"); got != "" {
		t.Errorf("Tab without candidates echoed %q", got)
	}
}

func TestShellControlAndNonASCII(t *testing.T) {
	sh, stream, env := newTestShell()

	if got := feed(t, sh, stream, env, "\x02\x80\xff\x01"); got != "" {
		t.Errorf("Control bytes echoed %q", got)
	}
	if !bytes.Equal(env.controls, []byte{0x02, 0x01}) {
		t.Errorf("Expected controls [2 1], got %v", env.controls)
	}
	if sh.Line() != "" {
		t.Errorf("Expected empty line, got %q", sh.Line())
	}
}

func TestShellWriteError(t *testing.T) {
	errBroken := errors.New("broken pipe")
	stream := &fakeStream{err: errBroken, in: []byte("ab")}
	sh := New(stream, nil, nil)

	err := sh.Spin(&recordingEnv{})
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected *FormatError, got %v", err)
	}
	if !errors.Is(err, errBroken) {
		t.Errorf("FormatError should wrap the stream error")
	}

	// Every pending byte was consumed and edited in
	if sh.Line() != "ab" {
		t.Errorf("Expected %q, got %q", "ab", sh.Line())
	}
}

func TestShellClearAndBell(t *testing.T) {
	sh, stream, _ := newTestShell()

	if err := sh.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := sh.Bell(); err != nil {
		t.Fatal(err)
	}
	if got := stream.out.String(); got != "\x1b[H\x1b[2J\x07" {
		t.Errorf("Expected clear and bell, got %q", got)
	}
}

func TestShellReset(t *testing.T) {
	sh, stream, env := newTestShell()
	feed(t, sh, stream, env, "abc\x1b[")

	sh.Reset()
	feed(t, sh, stream, env, "D")
	if sh.Line() != "D" {
		t.Errorf("Reset should drop the pending escape, got %q", sh.Line())
	}
}
