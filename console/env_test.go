package console

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"placebo/core"
	"placebo/shell"
)

type fakeTimer struct {
	period     time.Duration
	reprograms int
}

func (f *fakeTimer) Start(period time.Duration)     { f.period = period }
func (f *fakeTimer) Listen()                        {}
func (f *fakeTimer) Acknowledge()                   {}
func (f *fakeTimer) Reprogram(period time.Duration) { f.period = period; f.reprograms++ }

type fakeStream struct {
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
	return 0, false
}

type fixture struct {
	timer  *fakeTimer
	shared *core.SharedTimer
	stream *fakeStream
	sh     *shell.Shell
	env    *Env
}

func newFixture() *fixture {
	f := &fixture{timer: &fakeTimer{}, stream: &fakeStream{}}
	f.shared = core.NewSharedTimer(f.timer)
	f.shared.Lock(core.IdleContext, func(t core.LockedTimer) {
		t.Start(core.DefaultPeriod)
	})
	f.sh = shell.New(f.stream, nil, nil)
	f.env = &Env{Ctx: &core.Context{Task: "serial", Priority: 1}, Timer: f.shared}
	return f
}

func (f *fixture) run(t *testing.T, line string) string {
	t.Helper()
	f.stream.out.Reset()
	if err := f.env.Command(f.sh, line); err != nil {
		t.Fatalf("Command(%q): %v", line, err)
	}
	return f.stream.out.String()
}

func TestEnvBlink(t *testing.T) {
	f := newFixture()

	if got := f.run(t, "blink 100"); got != "\r\n» " {
		t.Errorf("Expected %q, got %q", "\r\n» ", got)
	}
	if f.timer.period != 5*time.Millisecond {
		t.Errorf("Expected period 5ms, got %v", f.timer.period)
	}

	var period time.Duration
	f.shared.Lock(nil, func(t core.LockedTimer) { period = t.Period() })
	if period != 5*time.Millisecond {
		t.Errorf("Shared period not updated, got %v", period)
	}
}

func TestEnvBlinkUnsupported(t *testing.T) {
	f := newFixture()

	tests := []struct {
		line string
		want string
	}{
		{"blink 2000000", "\r\nunsupported blink frequency: \"2000000\"\r\n» "},
		{"blink 0", "\r\nunsupported blink frequency: \"0\"\r\n» "},
		{"blink x1", "\r\nunsupported blink frequency: \"x1\"\r\n» "},
		{"blink", "\r\nunsupported blink frequency: \"\"\r\n» "},
	}

	for _, test := range tests {
		if got := f.run(t, test.line); got != test.want {
			t.Errorf("%q: expected %q, got %q", test.line, test.want, got)
		}
	}
	if f.timer.reprograms != 0 || f.timer.period != core.DefaultPeriod {
		t.Errorf("Unsupported blink changed the timer: %v after %d reprograms",
			f.timer.period, f.timer.reprograms)
	}
}

func TestEnvResponses(t *testing.T) {
	f := newFixture()

	tests := []struct {
		line string
		want string
	}{
		{"", "\r\n» "},
		{"clear", "\x1b[H\x1b[2J» "},
		{"help", GeneralHelp + "» "},
		{"help me", GeneralHelp + "» "},
		{"help pinout", DefaultPinout + "» "},
		{"frobnicate", "\r\nunsupported command: \"frobnicate\"\r\n» "},
		{"frobnicate now", "\r\nunsupported command: \"frobnicate\"\r\n» "},
	}

	for _, test := range tests {
		if got := f.run(t, test.line); got != test.want {
			t.Errorf("%q: expected %q, got %q", test.line, test.want, got)
		}
	}
}

func TestEnvCustomPinout(t *testing.T) {
	f := newFixture()
	f.env.Pinout = "\r\nboard\r\n"

	if got := f.run(t, "help pinout"); got != "\r\nboard\r\n» " {
		t.Errorf("Expected custom pinout, got %q", got)
	}
}

func TestEnvControl(t *testing.T) {
	f := newFixture()
	rings := 0
	f.env.OnBell = func() { rings++ }

	if err := f.env.Control(f.sh, 0x02); err != nil {
		t.Fatal(err)
	}
	if err := f.env.Control(f.sh, 0x01); err != nil {
		t.Fatal(err)
	}
	if got := f.stream.out.String(); got != "\x07" {
		t.Errorf("Expected a single bell, got %q", got)
	}
	if rings != 1 {
		t.Errorf("Expected OnBell once, got %d", rings)
	}
}

func TestEnvWriteError(t *testing.T) {
	f := newFixture()
	f.stream.err = errors.New("tx overrun")

	err := f.env.Command(f.sh, "blink 50")
	var fe *shell.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected *shell.FormatError, got %v", err)
	}

	// The command still took effect
	if f.timer.period != 10*time.Millisecond {
		t.Errorf("Expected period 10ms, got %v", f.timer.period)
	}
}

func TestEnvThroughShell(t *testing.T) {
	f := newFixture()
	sh := shell.New(&scriptedStream{fakeStream: f.stream, in: []byte("blink 250\r")}, shell.NewCatalog(shell.DefaultCompletions...), nil)

	if err := sh.Spin(f.env); err != nil {
		t.Fatal(err)
	}
	if got := f.stream.out.String(); got != "blink 250\r\n» " {
		t.Errorf("Expected echo and prompt, got %q", got)
	}
	if f.timer.period != 2*time.Millisecond {
		t.Errorf("Expected period 2ms, got %v", f.timer.period)
	}
}

type scriptedStream struct {
	*fakeStream
	in []byte
}

func (s *scriptedStream) TryReadByte() (byte, bool) {
	if len(s.in) == 0 {
		return 0, false
	}
	b := s.in[0]
	s.in = s.in[1:]
	return b, true
}
