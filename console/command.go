// Package console turns committed shell lines into blink controller
// commands and writes their responses.
package console

import (
	"errors"

	"placebo/core"
)

// Kind identifies a console command
type Kind uint8

const (
	KindEmpty Kind = iota
	KindClear
	KindHelp
	KindBlink
	KindUnknown
)

var kindNames = [...]string{"empty", "clear", "help", "blink", "unknown"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Command is a parsed command line
type Command struct {
	Kind Kind
	Verb string
	Args string

	Topic     string     // help
	Frequency core.Hertz // blink
}

var (
	ErrNotANumber = errors.New("not an unsigned decimal number")
	ErrOutOfRange = errors.New("frequency out of range")
)

// ParseError reports a blink argument that is not a supported frequency
type ParseError struct {
	Arg string
	Err error
}

func (e *ParseError) Error() string {
	return "blink frequency \"" + e.Arg + "\": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse splits a line into verb and arguments at the first run of
// whitespace and classifies it. Leading whitespace is ignored.
// Argument errors come back as *ParseError together with the partially
// filled Command.
func Parse(line string) (Command, error) {
	verb, args := split(line)
	cmd := Command{Verb: verb, Args: args}

	switch verb {
	case "":
		cmd.Kind = KindEmpty
	case "clear":
		cmd.Kind = KindClear
	case "help":
		cmd.Kind = KindHelp
		cmd.Topic = args
	case "blink":
		cmd.Kind = KindBlink
		freq, err := parseFrequency(args)
		if err != nil {
			return cmd, err
		}
		cmd.Frequency = freq
	default:
		cmd.Kind = KindUnknown
	}
	return cmd, nil
}

func parseFrequency(arg string) (core.Hertz, error) {
	n, ok := core.ParseUint32(arg)
	if !ok {
		return 0, &ParseError{Arg: arg, Err: ErrNotANumber}
	}
	if n == 0 || n > core.MaxBlinkFrequency {
		return 0, &ParseError{Arg: arg, Err: ErrOutOfRange}
	}
	return core.Hertz(n), nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func split(line string) (verb, args string) {
	start := 0
	for start < len(line) && isSpace(line[start]) {
		start++
	}
	line = line[start:]

	end := 0
	for end < len(line) && !isSpace(line[end]) {
		end++
	}
	verb = line[:end]

	rest := end
	for rest < len(line) && isSpace(line[rest]) {
		rest++
	}
	return verb, line[rest:]
}
