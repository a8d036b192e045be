// Package transport implements the blocking byte-stream contract the
// Mnet core is built on: read-exact, write-all, close, and an optional
// reconnect, over either a direct UART or a transparent TCP tunnel.
package transport

import (
	"net"
	"time"

	"github.com/beezly/turbine/internal/mnerr"
)

// ByteStream is the capability the Mnet core depends on. A direct serial
// port and a TCP connection to a ser2net-style bridge both implement it;
// the core never distinguishes between the two.
type ByteStream interface {
	// ReadExact blocks until exactly len(buf) bytes have been read, the
	// per-operation timeout elapses, or the stream errors.
	ReadExact(buf []byte) error
	// WriteAll blocks until every byte of buf has been written.
	WriteAll(buf []byte) error
	// Close releases the underlying connection. Idempotent.
	Close() error
}

// Reconnector is implemented by transports that support reopening the
// same target after a close or a transport error.
type Reconnector interface {
	Reconnect() error
}

// readFull drives a reader whose individual Read calls may legitimately
// return (0, nil) on an internal per-call timeout (go.bug.st/serial with
// SetReadTimeout behaves this way): it keeps calling Read until buf is
// full, a real error occurs, or the overall operation deadline passes. A
// net.Conn past its read deadline returns a timeout error instead, which
// is reported as a TransportTimeout.
func readFull(r interface{ Read([]byte) (int, error) }, buf []byte, op string, opTimeout time.Duration) error {
	total := 0
	var deadline time.Time
	if opTimeout > 0 {
		deadline = time.Now().Add(opTimeout)
	}
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		if n > 0 {
			total += n
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return &mnerr.TransportTimeout{Op: op}
			}
			return &mnerr.TransportError{Op: op, Err: err}
		}
		if total >= len(buf) {
			break
		}
		if n == 0 {
			if !deadline.IsZero() && time.Now().After(deadline) {
				return &mnerr.TransportTimeout{Op: op}
			}
			time.Sleep(time.Millisecond)
		}
	}
	return nil
}
