//go:build rp2040

package main

import (
	"machine"
)

// ConsoleBaud is the shell UART baud rate
const ConsoleBaud = 115200

// UARTStream implements core.ByteStream on a hardware UART. Reception is
// buffered by the machine package's UART interrupt.
type UARTStream struct {
	uart *machine.UART
}

// NewUARTStream configures uart as the 8N1 shell console
func NewUARTStream(uart *machine.UART, tx, rx machine.Pin) (*UARTStream, error) {
	err := uart.Configure(machine.UARTConfig{
		BaudRate: ConsoleBaud,
		TX:       tx,
		RX:       rx,
	})
	if err != nil {
		return nil, err
	}
	return &UARTStream{uart: uart}, nil
}

// Write implements core.ByteStream
func (s *UARTStream) Write(p []byte) (int, error) {
	return s.uart.Write(p)
}

// TryReadByte implements core.ByteStream
func (s *UARTStream) TryReadByte() (byte, bool) {
	if s.uart.Buffered() == 0 {
		return 0, false
	}
	b, err := s.uart.ReadByte()
	if err != nil {
		return 0, false
	}
	return b, true
}

// Buffered returns the number of received bytes waiting
func (s *UARTStream) Buffered() int {
	return s.uart.Buffered()
}
