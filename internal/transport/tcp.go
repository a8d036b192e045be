package transport

import (
	"net"
	"sync"
	"time"

	"github.com/beezly/turbine/internal/mnerr"
)

// TCPStream is a ByteStream backed by a transparent TCP tunnel (a
// ser2net-style bridge) carrying the same raw Mnet byte stream as the
// serial link.
type TCPStream struct {
	addr string
	opTO time.Duration
	mu   sync.Mutex
	conn net.Conn
}

// NewTCP dials addr and wraps the resulting connection.
func NewTCP(addr string, opTimeout time.Duration) (*TCPStream, error) {
	t := &TCPStream{addr: addr, opTO: opTimeout}
	if err := t.open(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TCPStream) open() error {
	conn, err := net.DialTimeout("tcp", t.addr, 5*time.Second)
	if err != nil {
		return &mnerr.TransportError{Op: "dial " + t.addr, Err: err}
	}
	t.conn = conn
	return nil
}

// ReadExact blocks until len(buf) bytes arrive or the per-operation
// timeout elapses.
func (t *TCPStream) ReadExact(buf []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return &mnerr.TransportError{Op: "read", Err: net.ErrClosed}
	}
	if t.opTO > 0 {
		t.conn.SetReadDeadline(time.Now().Add(t.opTO))
	}
	return readFull(t.conn, buf, "tcp read", t.opTO)
}

// WriteAll blocks until every byte of buf has been written.
func (t *TCPStream) WriteAll(buf []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return &mnerr.TransportError{Op: "write", Err: net.ErrClosed}
	}
	total := 0
	for total < len(buf) {
		n, err := t.conn.Write(buf[total:])
		if err != nil {
			return &mnerr.TransportError{Op: "tcp write", Err: err}
		}
		total += n
	}
	return nil
}

// Close releases the connection. Idempotent.
func (t *TCPStream) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// Reconnect dials addr again after a prior close or transport error.
func (t *TCPStream) Reconnect() error {
	t.mu.Lock()
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	t.mu.Unlock()
	return t.open()
}
