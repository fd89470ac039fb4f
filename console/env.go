package console

import (
	"placebo/core"
	"placebo/protocol"
	"placebo/shell"
)

// Prompt is written after every command
const Prompt = "» "

// GeneralHelp is the response to help without a known topic
const GeneralHelp = "\r\n" +
	"Placebo Shell v0.0.1\r\n\r\n" +
	"COMMANDS:\r\n" +
	"  blink <freq>     Set blink freqency\r\n" +
	"  help [pinout]    Print help message\r\n" +
	"  clear            Clear screen\r\n" +
	"CONTROL KEYS:\r\n" +
	"  Ctrl+B           Bell\r\n\r\n"

// DefaultPinout is the pinout diagram of the reference board
const DefaultPinout = "\r\n" +
	"             STM32G0xxFx  \r\n" +
	"            ╔═══════════╗ \r\n" +
	"    PB7|PB8 ╣1 ¤      20╠ PB3|PB4|PB5|PB6  \r\n" +
	"   PC9|PC14 ╣2        19╠ PA14|PA15 (SWDIO)\r\n" +
	" (LED) PC15 ╣3        18╠ PA13     (SWDCLK)\r\n" +
	"        Vdd ╣4        17╠ PA12[PA10]       \r\n" +
	"        Vss ╣5        16╠ PA11[PA9]        \r\n" +
	"       nRst ╣6        15╠ PA8|PB0|PB1|PB2  \r\n" +
	"        PA0 ╣7        14╠ PA7              \r\n" +
	"        PA1 ╣8        13╠ PA6              \r\n" +
	" (TX)   PA2 ╣9        12╠ PA5              \r\n" +
	" (RX)   PA3 ╣10       11╠ PA4              \r\n" +
	"            ╚═══════════╝ \r\n\r\n"

// Env executes console commands for a shell running in the serial task.
// It implements shell.Environment.
type Env struct {
	// Ctx is the context of the task the shell runs in
	Ctx *core.Context

	// Timer is the blink timer retuned by the blink command
	Timer *core.SharedTimer

	// Pinout is printed by "help pinout". Empty means DefaultPinout.
	Pinout string

	// OnBell is called on Ctrl-B after the terminal bell was written
	OnBell func()
}

// Command implements shell.Environment
func (e *Env) Command(sh *shell.Shell, line string) error {
	cmd, err := Parse(line)
	if err == nil {
		err = e.execute(sh, cmd)
	} else {
		// Argument errors are reported to the user, not the caller
		err = sh.WriteString("\r\nunsupported blink frequency: \"" + cmd.Args + "\"\r\n")
	}
	if err != nil {
		return err
	}
	return sh.WriteString(Prompt)
}

func (e *Env) execute(sh *shell.Shell, cmd Command) error {
	switch cmd.Kind {
	case KindClear:
		return sh.Clear()
	case KindHelp:
		if cmd.Topic == "pinout" {
			return sh.WriteString(e.pinout())
		}
		return sh.WriteString(GeneralHelp)
	case KindBlink:
		period := core.BlinkPeriod(cmd.Frequency)
		e.Timer.Lock(e.Ctx, func(t core.LockedTimer) {
			t.Reprogram(period)
		})
		return sh.WriteString(protocol.NewLine)
	case KindEmpty:
		return sh.WriteString(protocol.NewLine)
	default:
		return sh.WriteString("\r\nunsupported command: \"" + cmd.Verb + "\"\r\n")
	}
}

func (e *Env) pinout() string {
	if e.Pinout != "" {
		return e.Pinout
	}
	return DefaultPinout
}

// Control implements shell.Environment
func (e *Env) Control(sh *shell.Shell, code byte) error {
	if code != protocol.CtrlB {
		return nil
	}
	err := sh.Bell()
	if e.OnBell != nil {
		e.OnBell()
	}
	return err
}
