package transport

import (
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/beezly/turbine/internal/mnerr"
)

// SerialStream is a ByteStream backed by a direct UART link: 38400 baud,
// 8 data bits, no parity, 1 stop bit, no flow control.
type SerialStream struct {
	device string
	mode   *serial.Mode
	port   serial.Port
	mu     sync.Mutex
	opTO   time.Duration
}

// NewSerial opens devicePath at the given baud rate (38400 for the
// Gaia-Wind 131 family) with 8N1 framing and the given per-operation
// timeout.
func NewSerial(devicePath string, baud int, opTimeout time.Duration) (*SerialStream, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	s := &SerialStream{device: devicePath, mode: mode, opTO: opTimeout}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SerialStream) open() error {
	port, err := serial.Open(s.device, s.mode)
	if err != nil {
		return &mnerr.TransportError{Op: "open " + s.device, Err: err}
	}
	// A short per-Read timeout turns a blocked read into a (0, nil)
	// return so readFull can enforce the overall operation deadline
	// itself, rather than blocking forever on a silent line.
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		port.Close()
		return &mnerr.TransportError{Op: "configure " + s.device, Err: err}
	}
	s.port = port
	return nil
}

// ReadExact blocks until len(buf) bytes arrive or the per-operation
// timeout elapses.
func (s *SerialStream) ReadExact(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return &mnerr.TransportError{Op: "read", Err: fmt.Errorf("serial port closed")}
	}
	return readFull(s.port, buf, "serial read", s.opTO)
}

// WriteAll blocks until every byte of buf has been written.
func (s *SerialStream) WriteAll(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return &mnerr.TransportError{Op: "write", Err: fmt.Errorf("serial port closed")}
	}
	total := 0
	for total < len(buf) {
		n, err := s.port.Write(buf[total:])
		if err != nil {
			return &mnerr.TransportError{Op: "serial write", Err: err}
		}
		total += n
	}
	return nil
}

// Close releases the serial port. Idempotent.
func (s *SerialStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

// Reconnect closes and reopens the same device path, mirroring the
// teacher's clearUARTAttributes-then-reopen recovery used before every
// fresh USOCK connection.
func (s *SerialStream) Reconnect() error {
	s.mu.Lock()
	if s.port != nil {
		s.port.Close()
		s.port = nil
	}
	s.mu.Unlock()
	time.Sleep(100 * time.Millisecond)
	return s.open()
}
