// Package tracer defines the optional observation hooks a Session
// invokes around each request/response pair, replacing the original
// Python driver's function-valued _log_callback/_debug_callback
// attributes with an injected capability.
package tracer

import "github.com/beezly/turbine/pkg/codec"

// Tracer receives notifications as a session issues requests and
// decodes responses. All methods are no-ops on NoOp, so a Session
// never needs a nil check.
type Tracer interface {
	// OnTx fires just before a frame is written to the transport.
	OnTx(requestID string, packetType uint16, payload []byte)
	// OnRx fires just after a frame is read, CRC-verified, and its
	// packet type matched against the request's.
	OnRx(requestID string, packetType uint16, payload []byte)
	// OnDecodedElement fires once per decoded element of a
	// request_data or request_multiple response.
	OnDecodedElement(requestID string, mainID, subID uint16, value codec.Value)
}

// NoOp is the default Tracer: every method is a no-op.
type NoOp struct{}

func (NoOp) OnTx(string, uint16, []byte)                         {}
func (NoOp) OnRx(string, uint16, []byte)                          {}
func (NoOp) OnDecodedElement(string, uint16, uint16, codec.Value) {}
