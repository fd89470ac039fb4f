package firmware

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placebo/core"
)

type fakePin struct {
	level  core.Level
	levels []core.Level
}

func (p *fakePin) Set(level core.Level) error {
	p.level = level
	p.levels = append(p.levels, level)
	return nil
}

func (p *fakePin) Toggle() error              { return p.Set(p.level.Invert()) }
func (p *fakePin) Level() (core.Level, error) { return p.level, nil }

type fakeTimer struct {
	period    time.Duration
	listening bool
	acks      int
}

func (t *fakeTimer) Start(period time.Duration)     { t.period = period }
func (t *fakeTimer) Listen()                        { t.listening = true }
func (t *fakeTimer) Acknowledge()                   { t.acks++ }
func (t *fakeTimer) Reprogram(period time.Duration) { t.period = period }

type fakeStream struct {
	in  []byte
	out bytes.Buffer
	err error
}

func (s *fakeStream) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.out.Write(p)
}

func (s *fakeStream) TryReadByte() (byte, bool) {
	if len(s.in) == 0 {
		return 0, false
	}
	b := s.in[0]
	s.in = s.in[1:]
	return b, true
}

// receive queues input and raises the serial interrupt
func (s *fakeStream) receive(t *testing.T, app *App, input string) string {
	t.Helper()
	s.out.Reset()
	s.in = append(s.in, input...)
	require.True(t, app.SerialInterrupt())
	return s.out.String()
}

func TestNewRequiresCapabilities(t *testing.T) {
	cfg := DefaultConfig()

	_, err := New(cfg, nil, &fakeTimer{}, &fakeStream{})
	require.ErrorIs(t, err, ErrNoOutput)
	_, err = New(cfg, &fakePin{}, nil, &fakeStream{})
	require.ErrorIs(t, err, ErrNoTimer)
	_, err = New(cfg, &fakePin{}, &fakeTimer{}, nil)
	require.ErrorIs(t, err, ErrNoStream)
}

func TestNewRejectsBadTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SerialPriority = cfg.TimerPriority
	_, err := New(cfg, &fakePin{}, &fakeTimer{}, &fakeStream{})
	require.ErrorIs(t, err, ErrPriorityOrder)

	cfg = DefaultConfig()
	cfg.SerialIRQ = cfg.TimerIRQ
	_, err = New(cfg, &fakePin{}, &fakeTimer{}, &fakeStream{})
	require.ErrorIs(t, err, core.ErrTaskExists)

	cfg = DefaultConfig()
	cfg.TimerPriority = core.MaxPriority + 1
	_, err = New(cfg, &fakePin{}, &fakeTimer{}, &fakeStream{})
	require.ErrorIs(t, err, core.ErrPriorityRange)
}

func TestBoot(t *testing.T) {
	timer := &fakeTimer{}
	stream := &fakeStream{}
	app, err := New(DefaultConfig(), &fakePin{}, timer, stream)
	require.NoError(t, err)

	app.Boot()
	assert.Equal(t, "hello\r\n", stream.out.String())
	assert.Equal(t, core.DefaultPeriod, timer.period)
	assert.True(t, timer.listening)
	assert.Equal(t, core.DefaultPeriod, app.Period())
	assert.Equal(t, core.Priority(2), app.Timer().Ceiling())
}

func TestBootDebugLine(t *testing.T) {
	var lines []string
	core.SetDebugWriter(func(s string) { lines = append(lines, s) })
	core.SetDebugEnabled(true)
	defer func() {
		core.SetDebugEnabled(false)
		core.SetDebugWriter(func(string) {})
	}()

	app, err := New(TickTockConfig(), &fakePin{}, &fakeTimer{}, &fakeStream{})
	require.NoError(t, err)
	app.Boot()

	assert.Equal(t, []string{"[APP] ticktock started"}, lines)
}

func TestBootIgnoresBannerError(t *testing.T) {
	timer := &fakeTimer{}
	app, err := New(DefaultConfig(), &fakePin{}, timer, &fakeStream{err: errors.New("no host")})
	require.NoError(t, err)

	app.Boot()
	assert.True(t, timer.listening)
}

func TestShellSession(t *testing.T) {
	pin := &fakePin{}
	timer := &fakeTimer{}
	stream := &fakeStream{}
	app, err := New(DefaultConfig(), pin, timer, stream)
	require.NoError(t, err)
	app.Boot()

	assert.Equal(t, "blink 100\r\n» ", stream.receive(t, app, "blink 100\r"))
	assert.Equal(t, 5*time.Millisecond, timer.period)
	assert.Equal(t, 5*time.Millisecond, app.Period())

	out := stream.receive(t, app, "blink 2000000\r")
	assert.Equal(t, "blink 2000000\r\nunsupported blink frequency: \"2000000\"\r\n» ", out)
	assert.Equal(t, 5*time.Millisecond, timer.period)

	out = stream.receive(t, app, "frobnicate\r")
	assert.Contains(t, out, "unsupported command: \"frobnicate\"\r\n» ")

	// Completion and history go through the same session
	assert.Equal(t, "bl\x1b[2D\x1b[Kblink ", stream.receive(t, app, "bl\t"))
	stream.receive(t, app, "\x1b[2K\r")
	assert.Equal(t, 4, app.Shell().History().Len())
}

func TestTimerTaskDrivesPattern(t *testing.T) {
	pin := &fakePin{}
	timer := &fakeTimer{}
	app, err := New(DefaultConfig(), pin, timer, &fakeStream{})
	require.NoError(t, err)
	app.Boot()

	for i := 0; i < 8; i++ {
		require.True(t, app.TimerInterrupt())
	}

	want := []core.Level{
		core.High, core.High, core.High, core.High,
		core.High, core.High, core.High, core.Low,
	}
	assert.Equal(t, want, pin.levels)
	assert.Equal(t, 8, timer.acks)
}

func TestTickTockVariant(t *testing.T) {
	pin := &fakePin{}
	stream := &fakeStream{}
	app, err := New(TickTockConfig(), pin, &fakeTimer{}, stream)
	require.NoError(t, err)
	app.Boot()

	assert.Nil(t, app.Shell())
	assert.False(t, app.SerialInterrupt(), "tick-tock has no serial task")

	for i := 0; i < 4; i++ {
		app.TimerInterrupt()
	}
	assert.Equal(t, "tick\r\ntock\r\ntick\r\ntock\r\n", stream.out.String())
	assert.Equal(t, core.Low, pin.level)
}

func TestSerialWriteErrorIsRecorded(t *testing.T) {
	core.ClearEvents()
	defer core.ClearEvents()

	stream := &fakeStream{}
	app, err := New(DefaultConfig(), &fakePin{}, &fakeTimer{}, stream)
	require.NoError(t, err)

	stream.err = errors.New("tx overrun")
	stream.in = []byte("help\r")
	require.True(t, app.SerialInterrupt())

	events := core.Events()
	require.Len(t, events, 1)
	assert.Equal(t, uint8(core.EvtWriteError), events[0].Type)
	assert.Equal(t, uint8(DefaultSerialIRQ), events[0].Arg)
}

func TestBellHook(t *testing.T) {
	stream := &fakeStream{}
	app, err := New(DefaultConfig(), &fakePin{}, &fakeTimer{}, stream)
	require.NoError(t, err)

	rang := false
	app.SetBell(func() { rang = true })
	assert.Equal(t, "\x07", stream.receive(t, app, "\x02"))
	assert.True(t, rang)
}
