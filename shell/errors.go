package shell

import "fmt"

// FormatError reports that output to the stream failed. The session state is
// still consistent; only the terminal display may be stale.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("shell: write failed: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
