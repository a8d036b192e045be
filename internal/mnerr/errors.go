// Package mnerr defines the Mnet driver's error taxonomy.
//
// Each kind is a concrete type so callers can dispatch with errors.As
// instead of matching on string content.
package mnerr

import "fmt"

// TransportError reports an I/O failure on the underlying byte stream:
// closed pipe, connect refused, or a short read/write. The caller must
// reconnect before issuing further requests.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mnet: transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TransportTimeout reports that no byte arrived within the transport's
// per-operation deadline. The session remains usable, but a partial
// response may be sitting in the read buffer; recover with
// frame.DrainToSOH before the next request.
type TransportTimeout struct {
	Op string
}

func (e *TransportTimeout) Error() string {
	return fmt.Sprintf("mnet: transport timeout during %s", e.Op)
}

// FramingError reports a desynced or malformed frame: missing SOH/EOT,
// a length mismatch, or a CRC failure.
type FramingError struct {
	Reason string
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("mnet: framing error: %s", e.Reason)
}

// DecodeError reports a well-framed payload this module cannot interpret:
// an unknown data-type or conversion-type, a truncated typed-value body,
// or an unparseable ASCII timestamp.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("mnet: decode error: %s", e.Reason)
}

// ProtocolError reports a well-formed frame whose type or length
// disagrees with what the request expected — e.g. a serial-number reply
// whose payload isn't exactly 4 bytes.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("mnet: protocol error: %s", e.Reason)
}

// NotAuthenticated reports that the controller rejected a request
// because no login has been performed yet. The caller should call
// Session.Login and retry once.
type NotAuthenticated struct{}

func (e *NotAuthenticated) Error() string {
	return "mnet: not authenticated: login required"
}
