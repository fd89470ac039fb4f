//go:build !unix

package serial

import "errors"

// StdioPort is only available on unix terminals
type StdioPort struct {
	Port
}

// OpenStdio is not supported on this platform
func OpenStdio() (*StdioPort, error) {
	return nil, errors.New("terminal mode is not supported on this platform, use --device")
}
