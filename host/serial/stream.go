package serial

import (
	"context"
	"errors"
	"io"
	"sync"

	"go.uber.org/zap"

	"placebo/protocol"
)

// DefaultRxBuffer is the receive FIFO size of a Stream
const DefaultRxBuffer = 256

// Stream turns a Port into the byte stream capability of the firmware.
// A reader goroutine fills a receive FIFO and raises the receive interrupt
// through the notify callback after every chunk.
type Stream struct {
	port   Port
	log    *zap.Logger
	notify func()

	mu sync.Mutex
	rx *protocol.FifoBuffer

	dropped int
}

// NewStream wraps port. notify is called from the reader goroutine.
func NewStream(port Port, rxSize int, log *zap.Logger) *Stream {
	if log == nil {
		log = zap.NewNop()
	}
	if rxSize <= 0 {
		rxSize = DefaultRxBuffer
	}
	return &Stream{
		port: port,
		log:  log,
		rx:   protocol.NewFifoBuffer(rxSize),
	}
}

// SetNotify sets the receive interrupt callback. Call before Run.
func (s *Stream) SetNotify(fn func()) {
	s.notify = fn
}

// Write sends bytes to the port
func (s *Stream) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// TryReadByte returns the next received byte
func (s *Stream) TryReadByte() (byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rx.ReadByte()
}

// Dropped returns the number of bytes lost to a full receive FIFO
func (s *Stream) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Pending returns the number of received bytes not yet read by the shell
func (s *Stream) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rx.Available()
}

// Run reads from the port until ctx is done or the port fails. The port is
// closed when ctx is done so a blocked read returns.
func (s *Stream) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		if err := s.port.Close(); err != nil {
			s.log.Debug("close port", zap.Error(err))
		}
	})
	defer stop()

	buf := make([]byte, 64)
	for {
		n, err := s.port.Read(buf)
		if n > 0 {
			s.receive(buf[:n])
		}
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (s *Stream) receive(data []byte) {
	s.mu.Lock()
	if free := s.rx.Free(); len(data) > free {
		lost := len(data) - free
		s.dropped += lost
		s.log.Warn("receive buffer full", zap.Int("dropped", lost))
		data = data[:free]
	}
	s.rx.Write(data)
	s.mu.Unlock()

	if s.notify != nil {
		s.notify()
	}
}
