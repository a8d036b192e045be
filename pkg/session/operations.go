package session

import (
	"encoding/binary"
	"time"

	"github.com/beezly/turbine/internal/mnerr"
	"github.com/beezly/turbine/pkg/codec"
	"github.com/beezly/turbine/pkg/datadict"
	"github.com/beezly/turbine/pkg/obfuscate"
)

// IDPair addresses one element of a request_multiple call.
type IDPair struct {
	MainID uint16
	SubID  uint16
}

// RequestData issues REQ_DATA for (mainID, subID) and decodes the
// single typed-value response.
func (s *Session) RequestData(destination byte, mainID, subID uint16) (codec.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureKeyed(destination); err != nil {
		return codec.Value{}, err
	}

	body := make([]byte, 4)
	binary.BigEndian.PutUint16(body[0:2], mainID)
	binary.BigEndian.PutUint16(body[2:4], subID)

	resp, err := s.exchange(destination, datadict.ReqData, body)
	if err != nil {
		return codec.Value{}, err
	}

	plain := obfuscate.Decode(resp.Payload, s.key)
	val, err := codec.DecodeValue(plain, mainID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.DecodeErrors.WithLabelValues(err.Error()).Inc()
		}
		return codec.Value{}, err
	}
	s.tracer.OnDecodedElement("", mainID, subID, val)
	return val, nil
}

// RequestMultiple issues REQ_MULTIPLE_DATA for a batch of (mainID,
// subID) pairs and decodes the aggregated response. Elements return in
// request order; the controller never reorders them.
func (s *Session) RequestMultiple(destination byte, ids []IDPair) ([]codec.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureKeyed(destination); err != nil {
		return nil, err
	}
	if len(ids) > 255 {
		return nil, &mnerr.ProtocolError{Reason: "request_multiple supports at most 255 elements"}
	}

	body := make([]byte, 0, 1+4*len(ids))
	body = append(body, byte(len(ids)))
	for _, id := range ids {
		var buf [4]byte
		binary.BigEndian.PutUint16(buf[0:2], id.MainID)
		binary.BigEndian.PutUint16(buf[2:4], id.SubID)
		body = append(body, buf[:]...)
	}

	resp, err := s.exchange(destination, datadict.ReqMultipleData, body)
	if err != nil {
		return nil, err
	}

	plain := obfuscate.Decode(resp.Payload, s.key)
	elements, err := codec.DecodeMultiple(plain)
	for _, el := range elements {
		s.tracer.OnDecodedElement("", el.MainID, el.SubID, el.Value)
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.DecodeErrors.WithLabelValues(err.Error()).Inc()
		}
		return elements, err
	}
	return elements, nil
}

// WriteData issues REQ_WRITE_DATA with a plain (unobfuscated) body:
// main-id, sub-id, then the raw bytes to write.
func (s *Session) WriteData(destination byte, mainID, subID uint16, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureKeyed(destination); err != nil {
		return err
	}

	body := make([]byte, 0, 4+len(raw))
	var buf [4]byte
	binary.BigEndian.PutUint16(buf[0:2], mainID)
	binary.BigEndian.PutUint16(buf[2:4], subID)
	body = append(body, buf[:]...)
	body = append(body, raw...)

	_, err := s.exchange(destination, datadict.ReqWriteData, body)
	return err
}

// SendCommand issues REQ_COMMAND with a 2-byte command id body.
func (s *Session) SendCommand(destination byte, cmd datadict.CommandID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureKeyed(destination); err != nil {
		return err
	}

	body := make([]byte, 2)
	binary.BigEndian.PutUint16(body, uint16(cmd))

	_, err := s.exchange(destination, datadict.ReqCommand, body)
	return err
}

// GetControllerTime reads the controller's clock (a 12-character ASCII
// YYMMDDHHMMSS string at DATA_ID_CONTROLLER_TIME sub-id 0) and parses
// it as a UTC instant. It also records the offset between the
// controller clock and the host clock at the moment of this call, for
// TimeOffset.
func (s *Session) GetControllerTime(destination byte) (time.Time, error) {
	val, err := s.RequestData(destination, datadict.DataIDControllerTime, 0)
	if err != nil {
		return time.Time{}, err
	}
	if val.Kind != codec.KindText {
		return time.Time{}, &mnerr.DecodeError{Reason: "controller time response is not text"}
	}

	t, err := time.Parse("060102150405", val.Text)
	if err != nil {
		return time.Time{}, &mnerr.DecodeError{Reason: "unparseable controller timestamp: " + err.Error()}
	}
	t = t.UTC()

	s.mu.Lock()
	s.controllerTimeAtRead = t
	s.hostTimeAtRead = time.Now().UTC()
	s.haveTimeOffset = true
	s.mu.Unlock()

	return t, nil
}

// SetControllerTime writes the controller's clock via WriteData at
// DATA_ID_CONTROLLER_TIME sub-id 1: a 4-byte unsigned seconds-from-1980
// value. Passing the zero time.Time sets the controller clock to now.
func (s *Session) SetControllerTime(destination byte, at time.Time) error {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	seconds := uint32(at.UTC().Sub(codec.Epoch).Seconds())
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], seconds)
	return s.WriteData(destination, datadict.DataIDControllerTime, 1, buf[:])
}
