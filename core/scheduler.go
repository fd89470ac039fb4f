package core

import "errors"

// Priority is a fixed interrupt priority. Higher values preempt lower ones.
type Priority uint8

const (
	PriorityIdle  Priority = 0 // init and idle loop
	MaxPriority   Priority = 7
	NumPriorities          = int(MaxPriority) + 1
)

// IRQ identifies an interrupt source
type IRQ uint8

// Context describes the task a handler is running in
type Context struct {
	Task     string
	Priority Priority
}

// IdleContext is used by init code and the idle loop
var IdleContext = &Context{Task: "idle", Priority: PriorityIdle}

// Handler runs to completion for one interrupt
type Handler func(ctx *Context)

// Resource is state shared between tasks through a priority ceiling lock.
// Its ceiling is computed by Scheduler.Start.
type Resource interface {
	ResourceName() string
	Ceiling() Priority
	setCeiling(p Priority)
}

// Task binds an interrupt source to a handler
type Task struct {
	Name     string
	IRQ      IRQ
	Priority Priority
	Handler  Handler

	// Shared lists every resource the handler locks
	Shared []Resource

	ctx Context
}

var (
	ErrTaskExists    = errors.New("interrupt already bound")
	ErrPriorityRange = errors.New("task priority out of range")
	ErrNoHandler     = errors.New("task has no handler")
	ErrNilResource   = errors.New("nil shared resource")
	ErrStarted       = errors.New("scheduler already started")
)

// TaskError reports a configuration problem with a single task
type TaskError struct {
	Task string
	Err  error
}

func (e *TaskError) Error() string {
	return e.Task + ": " + e.Err.Error()
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// Scheduler is the static interrupt table: interrupt source, handler and
// the resources each handler may lock. Tasks are bound during init, then
// Start freezes the table and assigns every resource its ceiling.
type Scheduler struct {
	tasks   map[IRQ]*Task
	order   []*Task
	started bool
}

// NewScheduler creates an empty interrupt table
func NewScheduler() *Scheduler {
	return &Scheduler{
		tasks: make(map[IRQ]*Task),
	}
}

// Bind adds a task to the table
func (s *Scheduler) Bind(t Task) error {
	if s.started {
		return ErrStarted
	}
	if t.Priority == PriorityIdle || t.Priority > MaxPriority {
		return &TaskError{Task: t.Name, Err: ErrPriorityRange}
	}
	if t.Handler == nil {
		return &TaskError{Task: t.Name, Err: ErrNoHandler}
	}
	if _, exists := s.tasks[t.IRQ]; exists {
		return &TaskError{Task: t.Name, Err: ErrTaskExists}
	}
	for _, r := range t.Shared {
		if r == nil {
			return &TaskError{Task: t.Name, Err: ErrNilResource}
		}
	}

	task := t
	task.ctx = Context{Task: t.Name, Priority: t.Priority}
	s.tasks[t.IRQ] = &task
	s.order = append(s.order, &task)
	return nil
}

// Start computes the ceiling of every shared resource as the highest
// priority among the tasks that declare it. No task may be bound after.
func (s *Scheduler) Start() error {
	if s.started {
		return ErrStarted
	}
	for _, t := range s.order {
		for _, r := range t.Shared {
			r.setCeiling(PriorityIdle)
		}
	}
	for _, t := range s.order {
		for _, r := range t.Shared {
			if t.Priority > r.Ceiling() {
				r.setCeiling(t.Priority)
			}
		}
	}
	s.started = true
	return nil
}

// Started reports whether the table is frozen
func (s *Scheduler) Started() bool {
	return s.started
}

// Task returns the task bound to irq
func (s *Scheduler) Task(irq IRQ) (*Task, bool) {
	t, ok := s.tasks[irq]
	return t, ok
}

// Dispatch runs the handler bound to irq to completion. It returns false
// for unbound interrupts and before Start. A panicking handler loses that
// one interrupt instead of taking the whole system down.
func (s *Scheduler) Dispatch(irq IRQ) bool {
	if !s.started {
		return false
	}
	t, ok := s.tasks[irq]
	if !ok {
		RecordEvent(EvtSpurious, uint8(irq), 0, 0)
		return false
	}

	enterTask(t.Priority)
	defer exitTask(t.Priority)

	s.run(t)
	return true
}

func (s *Scheduler) run(t *Task) {
	defer func() {
		if r := recover(); r != nil {
			RecordEvent(EvtPanic, uint8(t.IRQ), uint32(t.Priority), 0)
		}
	}()

	t.Handler(&t.ctx)
}
