package session

import (
	"time"

	"github.com/rs/xid"

	"github.com/beezly/turbine/internal/mnerr"
	"github.com/beezly/turbine/pkg/datadict"
	"github.com/beezly/turbine/pkg/frame"
	"github.com/beezly/turbine/pkg/obfuscate"
)

// exchange writes one frame and reads back the matched response,
// observing the serial write discipline in spec.md §4.4: exactly one
// outstanding request at a time over the transport. Callers must hold
// s.mu for the duration of the call.
func (s *Session) exchange(destination byte, packetType datadict.PacketType, payload []byte) (*frame.Frame, error) {
	requestID := xid.New().String()

	out, err := frame.Build(destination, s.source, uint16(packetType), payload)
	if err != nil {
		s.recordOutcome(packetType, "build_error")
		return nil, err
	}

	s.tracer.OnTx(requestID, uint16(packetType), payload)
	start := time.Now()

	if err := s.stream.WriteAll(out); err != nil {
		s.recordOutcome(packetType, "write_error")
		return nil, err
	}

	resp, err := frame.Read(s.stream)
	if err != nil {
		if fe, ok := err.(*mnerr.FramingError); ok {
			_ = fe
			// Desync recovery: resync on the next SOH and surface the
			// original error so the caller can decide whether to retry.
			_ = frame.DrainToSOH(s.stream, frame.MaxFrameSize)
		}
		s.recordOutcome(packetType, "read_error")
		return nil, err
	}

	s.recordDuration(packetType, time.Since(start))

	if resp.Type != uint16(packetType) {
		s.recordOutcome(packetType, "protocol_error")
		return nil, &mnerr.ProtocolError{Reason: "response type does not match request type"}
	}

	s.tracer.OnRx(requestID, resp.Type, resp.Payload)
	s.recordOutcome(packetType, "ok")
	return resp, nil
}

func (s *Session) recordOutcome(packetType datadict.PacketType, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RequestsTotal.WithLabelValues(packetTypeLabel(packetType), outcome).Inc()
}

func (s *Session) recordDuration(packetType datadict.PacketType, d time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RequestDuration.WithLabelValues(packetTypeLabel(packetType)).Observe(d.Seconds())
}

func packetTypeLabel(t datadict.PacketType) string {
	switch t {
	case datadict.ReqSerialNumber:
		return "serial_number"
	case datadict.ReqLogin:
		return "login"
	case datadict.ReqData:
		return "data"
	case datadict.ReqMultipleData:
		return "multiple_data"
	case datadict.ReqWriteData:
		return "write_data"
	case datadict.ReqCommand:
		return "command"
	default:
		return "unknown"
	}
}

// ensureKeyed fetches the controller's serial number and derives the
// session key if it hasn't been done yet. Called lazily by every
// operation that needs obfuscation, and eagerly by Login.
func (s *Session) ensureKeyed(destination byte) error {
	if s.haveSerial {
		if s.state < StateKeyed {
			s.state = StateKeyed
		}
		return nil
	}

	resp, err := s.exchange(destination, datadict.ReqSerialNumber, nil)
	if err != nil {
		return err
	}
	if len(resp.Payload) != 4 {
		return &mnerr.ProtocolError{Reason: "serial-number reply is not 4 bytes"}
	}

	copy(s.serial[:], resp.Payload)
	s.key = obfuscate.DeriveKey(s.serial)
	s.haveSerial = true
	s.state = StateKeyed
	return nil
}

// SerialNumber returns the controller's 4-byte serial number, fetching
// it first if necessary.
func (s *Session) SerialNumber(destination byte) ([4]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureKeyed(destination); err != nil {
		return [4]byte{}, err
	}
	return s.serial, nil
}
