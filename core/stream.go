package core

// ByteStream is the serial port capability.
// The receive interrupt is delivered by board code through Scheduler.Dispatch.
type ByteStream interface {
	// Write sends bytes to the remote end
	Write(p []byte) (int, error)

	// TryReadByte returns the next received byte, or false if none is pending
	TryReadByte() (byte, bool)
}
