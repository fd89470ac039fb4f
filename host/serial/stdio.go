//go:build unix

package serial

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"
)

// StdioPort runs the stream on the controlling terminal. The terminal is
// put in raw mode so every key press reaches the shell unprocessed.
type StdioPort struct {
	in    *os.File
	out   *os.File
	fd    int
	state *term.State
}

// OpenStdio puts stdin in raw mode and returns it as a Port
func OpenStdio() (*StdioPort, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to set raw mode: %w", err)
	}

	// A non-blocking descriptor goes through the runtime poller, so Close
	// interrupts a pending Read
	if err := syscall.SetNonblock(fd, true); err != nil {
		_ = term.Restore(fd, state)
		return nil, fmt.Errorf("failed to set non-blocking stdin: %w", err)
	}

	return &StdioPort{
		in:    os.NewFile(uintptr(fd), "/dev/stdin"),
		out:   os.Stdout,
		fd:    fd,
		state: state,
	}, nil
}

// Read reads key presses
func (p *StdioPort) Read(b []byte) (int, error) {
	return p.in.Read(b)
}

// Write writes to stdout
func (p *StdioPort) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

// Flush is a no-op; stdout is unbuffered
func (p *StdioPort) Flush() error {
	return nil
}

// Close restores the terminal
func (p *StdioPort) Close() error {
	_ = syscall.SetNonblock(p.fd, false)
	err := term.Restore(p.fd, p.state)
	if cerr := p.in.Close(); err == nil {
		err = cerr
	}
	return err
}
