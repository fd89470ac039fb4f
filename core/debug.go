package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures an interrupt-side occurrence for post-mortem analysis
type Event struct {
	Seq    uint32 // Monotonic event number
	Type   uint8  // Event type code
	Arg    uint8  // IRQ or other small argument
	Value1 uint32 // Context-dependent value
	Value2 uint32 // Context-dependent value
}

// Event type codes
const (
	EvtSpurious    = 1 // Interrupt with no bound task
	EvtPanic       = 2 // Handler panicked, interrupt dropped
	EvtReprogram   = 3 // Shared timer period changed (us)
	EvtOutputError = 4 // Output pin write failed
	EvtWriteError  = 5 // Stream write failed in a handler
)

const (
	EventRingSize = 32 // Keep last 32 events
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether DebugPrintln and DebugAsync output is active
	debugEnabled bool = false

	eventRing     [EventRingSize]Event
	eventRingHead uint8
	eventSeq      uint32

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, a logger, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16) // Buffer 16 messages
	go debugOutputWorker(debugChan)
}

func debugOutputWorker(ch chan string) {
	for msg := range ch {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Blocks while the writer runs; handlers should use DebugAsync.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Drops the message if debug output is disabled, the channel is full or
// async output is not running
func DebugAsync(msg string) {
	if debugEnabled && debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordEvent stores an event in the ring buffer, overwriting the oldest
func RecordEvent(eventType, arg uint8, value1, value2 uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	eventSeq++
	idx := eventRingHead
	eventRing[idx] = Event{
		Seq:    eventSeq,
		Type:   eventType,
		Arg:    arg,
		Value1: value1,
		Value2: value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the recorded events, oldest first
func Events() []Event {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	out := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Type == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// EventName returns a short label for an event type
func EventName(eventType uint8) string {
	switch eventType {
	case EvtSpurious:
		return "SPURIOUS"
	case EvtPanic:
		return "PANIC"
	case EvtReprogram:
		return "REPROGRAM"
	case EvtOutputError:
		return "OUTPUT_ERR"
	case EvtWriteError:
		return "WRITE_ERR"
	default:
		return "UNKNOWN"
	}
}

// DumpEvents outputs the event ring (call on shutdown/error)
func DumpEvents() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[EVENTS] #" + utoa(evt.Seq) + " " + EventName(evt.Type) +
			" arg=" + itoa(int(evt.Arg)) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEvents clears the event ring
func ClearEvents() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
	eventSeq = 0
}
