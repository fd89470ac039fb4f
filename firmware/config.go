package firmware

import (
	"errors"
	"strings"
	"time"

	"placebo/core"
	"placebo/shell"
)

// Variant selects what the firmware does with the serial port
type Variant uint8

const (
	// VariantShell runs the command shell on the serial port
	VariantShell Variant = iota
	// VariantTickTock writes "tick" and "tock" on every LED edge instead
	VariantTickTock
)

func (v Variant) String() string {
	switch v {
	case VariantShell:
		return "shell"
	case VariantTickTock:
		return "ticktock"
	default:
		return "unknown"
	}
}

var (
	ErrUnknownVariant = errors.New("unknown variant")
	ErrUnknownPattern = errors.New("unknown pattern")
	ErrUnknownMode    = errors.New("unknown blink mode")
)

// ParseVariant accepts "shell" or "ticktock"
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(name) {
	case "shell":
		return VariantShell, nil
	case "ticktock", "tick-tock":
		return VariantTickTock, nil
	}
	return 0, ErrUnknownVariant
}

// Patterns lists the shipped blink patterns by name
var Patterns = []struct {
	Name    string
	Pattern core.Pattern
}{
	{"blink", core.PatternBlink},
	{"pulse", core.PatternPulse},
	{"beacon", core.PatternBeacon},
}

// ParsePattern accepts a shipped pattern name or a mask as a decimal number
func ParsePattern(s string) (core.Pattern, error) {
	for _, p := range Patterns {
		if strings.EqualFold(p.Name, s) {
			return p.Pattern, nil
		}
	}
	if n, ok := core.ParseUint32(s); ok && n != 0 {
		return core.Pattern(n), nil
	}
	return 0, ErrUnknownPattern
}

// ParseMode accepts "pattern" or "toggle"
func ParseMode(s string) (core.BlinkMode, error) {
	switch strings.ToLower(s) {
	case "pattern":
		return core.ModePattern, nil
	case "toggle":
		return core.ModeToggle, nil
	}
	return 0, ErrUnknownMode
}

// Config is the build-time configuration of the firmware
type Config struct {
	Variant Variant

	// Blink behavior
	Pattern       core.Pattern
	Mode          core.BlinkMode
	InitialPeriod time.Duration

	// Banner is written once at boot
	Banner string

	// Interrupt table. The timer task must preempt the serial task.
	TimerIRQ       core.IRQ
	SerialIRQ      core.IRQ
	TimerPriority  core.Priority
	SerialPriority core.Priority

	// Shell
	Pinout      string
	Completions []string
}

// Default interrupt lines. Boards with real interrupt numbers override them.
const (
	DefaultTimerIRQ  core.IRQ = 1
	DefaultSerialIRQ core.IRQ = 2
)

// DefaultConfig returns the configuration of the shell firmware
func DefaultConfig() Config {
	return Config{
		Variant:        VariantShell,
		Pattern:        core.PatternBeacon,
		Mode:           core.ModePattern,
		InitialPeriod:  core.DefaultPeriod,
		Banner:         "hello\r\n",
		TimerIRQ:       DefaultTimerIRQ,
		SerialIRQ:      DefaultSerialIRQ,
		TimerPriority:  2,
		SerialPriority: 1,
		Completions:    shell.DefaultCompletions,
	}
}

// TickTockConfig returns the configuration of the tick-tock firmware
func TickTockConfig() Config {
	cfg := DefaultConfig()
	cfg.Variant = VariantTickTock
	cfg.Mode = core.ModeToggle
	cfg.InitialPeriod = time.Second
	cfg.Banner = ""
	return cfg
}
