// Package firmware wires the blink engine, the shell and the interrupt
// table into a runnable application. Board code supplies the output pin,
// the periodic timer and the serial stream, then forwards interrupts.
package firmware

import (
	"errors"
	"time"

	"placebo/console"
	"placebo/core"
	"placebo/shell"
)

var (
	ErrNoOutput      = errors.New("no output pin")
	ErrNoTimer       = errors.New("no periodic timer")
	ErrNoStream      = errors.New("no serial stream")
	ErrPriorityOrder = errors.New("timer priority must be above serial priority")
)

// App owns the board singletons. Each is handed to exactly one task.
type App struct {
	cfg     Config
	sched   *core.Scheduler
	stream  core.ByteStream
	timer   *core.SharedTimer
	blinker *core.Blinker
	shell   *shell.Shell
	env     *console.Env
}

// New builds the interrupt table for cfg and starts the scheduler.
// Interrupts must not be forwarded before New returns.
func New(cfg Config, led core.OutputPin, tim core.PeriodicTimer, stream core.ByteStream) (*App, error) {
	if led == nil {
		return nil, ErrNoOutput
	}
	if tim == nil {
		return nil, ErrNoTimer
	}
	if stream == nil {
		return nil, ErrNoStream
	}
	if cfg.InitialPeriod <= 0 {
		cfg.InitialPeriod = core.DefaultPeriod
	}

	a := &App{
		cfg:    cfg,
		sched:  core.NewScheduler(),
		stream: stream,
		timer:  core.NewSharedTimer(tim),
	}
	a.blinker = core.NewBlinker(led, a.timer, cfg.Pattern, cfg.Mode)

	err := a.sched.Bind(core.Task{
		Name:     "timer",
		IRQ:      cfg.TimerIRQ,
		Priority: cfg.TimerPriority,
		Handler:  a.blinker.HandleTimer,
		Shared:   []core.Resource{a.timer},
	})
	if err != nil {
		return nil, err
	}

	switch cfg.Variant {
	case VariantTickTock:
		a.blinker.SetAnnouncer(stream)
	default:
		if cfg.TimerPriority <= cfg.SerialPriority {
			return nil, ErrPriorityOrder
		}
		a.shell = shell.New(stream, shell.NewCatalog(cfg.Completions...), &shell.History{})
		a.env = &console.Env{Timer: a.timer, Pinout: cfg.Pinout}
		err = a.sched.Bind(core.Task{
			Name:     "serial",
			IRQ:      cfg.SerialIRQ,
			Priority: cfg.SerialPriority,
			Handler:  a.handleSerial,
			Shared:   []core.Resource{a.timer},
		})
		if err != nil {
			return nil, err
		}
	}

	if err := a.sched.Start(); err != nil {
		return nil, err
	}
	return a, nil
}

// Boot writes the banner and starts the blink timer. It runs in the idle
// context after New and before interrupts are enabled on the board.
func (a *App) Boot() {
	if a.cfg.Banner != "" {
		// Nobody may be listening yet
		_, _ = a.stream.Write([]byte(a.cfg.Banner))
	}
	a.timer.Lock(core.IdleContext, func(t core.LockedTimer) {
		t.Start(a.cfg.InitialPeriod)
		t.Listen()
	})
	core.DebugPrintln("[APP] " + a.cfg.Variant.String() + " started")
}

func (a *App) handleSerial(ctx *core.Context) {
	a.env.Ctx = ctx
	if err := a.shell.Spin(a.env); err != nil {
		core.RecordEvent(core.EvtWriteError, uint8(a.cfg.SerialIRQ), 0, 0)
		core.DebugAsync("serial: " + err.Error())
	}
}

// SetBell registers an extra action for the Ctrl-B bell
func (a *App) SetBell(fn func()) {
	if a.env != nil {
		a.env.OnBell = fn
	}
}

// TimerInterrupt runs the timer task. Board code calls it from the timer ISR.
func (a *App) TimerInterrupt() bool {
	return a.sched.Dispatch(a.cfg.TimerIRQ)
}

// SerialInterrupt runs the serial task. Board code calls it when bytes arrive.
func (a *App) SerialInterrupt() bool {
	return a.sched.Dispatch(a.cfg.SerialIRQ)
}

// Period returns the current blink timer period. It takes the timer lock
// from the idle context.
func (a *App) Period() time.Duration {
	var period time.Duration
	a.timer.Lock(core.IdleContext, func(t core.LockedTimer) {
		period = t.Period()
	})
	return period
}

func (a *App) Config() Config             { return a.cfg }
func (a *App) Scheduler() *core.Scheduler { return a.sched }

// Timer returns the shared blink timer resource
func (a *App) Timer() *core.SharedTimer { return a.timer }

// Shell returns the serial shell, or nil in the tick-tock variant
func (a *App) Shell() *shell.Shell { return a.shell }

// DumpEvents writes the diagnostic event ring through the debug writer
func (a *App) DumpEvents() {
	core.DumpEvents()
}
