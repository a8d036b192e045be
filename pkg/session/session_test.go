package session

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/beezly/turbine/pkg/codec"
	"github.com/beezly/turbine/pkg/datadict"
	"github.com/beezly/turbine/pkg/frame"
	"github.com/beezly/turbine/pkg/obfuscate"
)

// connStream adapts a net.Conn (one end of a net.Pipe) to transport.ByteStream
// for tests; it needs none of the real transports' timeout plumbing.
type connStream struct {
	conn net.Conn
}

func (c *connStream) ReadExact(buf []byte) error {
	_, err := io.ReadFull(c.conn, buf)
	return err
}

func (c *connStream) WriteAll(buf []byte) error {
	_, err := c.conn.Write(buf)
	return err
}

func (c *connStream) Close() error { return c.conn.Close() }

// fakeController runs on its own goroutine, playing the part of the
// turbine controller: it answers serial-number, login, and data requests
// with scripted responses so the session layer can be exercised without a
// real link.
type fakeController struct {
	stream *connStream
	serial [4]byte
	key    obfuscate.Key
}

func newFakeController(conn net.Conn, serial [4]byte) *fakeController {
	return &fakeController{
		stream: &connStream{conn: conn},
		serial: serial,
		key:    obfuscate.DeriveKey(serial),
	}
}

func (c *fakeController) run(t *testing.T, handle func(req *frame.Frame) []byte) {
	for {
		req, err := frame.Read(c.stream)
		if err != nil {
			return
		}
		switch req.Type {
		case uint16(datadict.ReqSerialNumber):
			wire, err := frame.Build(req.Source, req.Destination, req.Type, c.serial[:])
			if err != nil {
				t.Errorf("fakeController: build serial reply: %v", err)
				return
			}
			if err := c.stream.WriteAll(wire); err != nil {
				return
			}
		default:
			respPayload := handle(req)
			wire, err := frame.Build(req.Source, req.Destination, req.Type, respPayload)
			if err != nil {
				t.Errorf("fakeController: build reply: %v", err)
				return
			}
			if err := c.stream.WriteAll(wire); err != nil {
				return
			}
		}
	}
}

func newTestSession(t *testing.T, serial [4]byte, handle func(req *frame.Frame) []byte) (*Session, func()) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	controller := newFakeController(serverConn, serial)
	go controller.run(t, handle)

	sess := New(&connStream{conn: clientConn})
	return sess, func() { clientConn.Close(); serverConn.Close() }
}

func TestSessionSerialNumberAndKeying(t *testing.T) {
	serial := [4]byte{0x01, 0x02, 0x03, 0x04}
	sess, cleanup := newTestSession(t, serial, nil)
	defer cleanup()

	got, err := sess.SerialNumber(0x02)
	if err != nil {
		t.Fatalf("SerialNumber: %v", err)
	}
	if got != serial {
		t.Errorf("SerialNumber = %x, want %x", got, serial)
	}
	if sess.State() != StateKeyed {
		t.Errorf("State = %v, want StateKeyed", sess.State())
	}
}

func TestSessionLogin(t *testing.T) {
	serial := [4]byte{0xAA, 0xBB, 0xCC, 0xDD}
	sess, cleanup := newTestSession(t, serial, func(req *frame.Frame) []byte {
		return []byte{0x00} // login ack body is not interpreted
	})
	defer cleanup()

	if err := sess.Login(0x02); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.State() != StateLoggedIn {
		t.Errorf("State = %v, want StateLoggedIn", sess.State())
	}
}

func TestSessionRequestData(t *testing.T) {
	serial := [4]byte{0x05, 0x06, 0x07, 0x08}
	key := obfuscate.DeriveKey(serial)

	sess, cleanup := newTestSession(t, serial, func(req *frame.Frame) []byte {
		// wind speed: uint16 raw 123, conversion div-pow10 value 1 -> 12.3
		plain := []byte{byte(codec.DataTypeUint16), byte(codec.ConversionDivPow10), 0x00, 0x01, 0x00, 0x00, 0x7B}
		return obfuscate.Encode(plain, key)
	})
	defer cleanup()

	val, err := sess.RequestData(0x02, datadict.DataIDWindSpeed, datadict.AveragingInstantaneous)
	if err != nil {
		t.Fatalf("RequestData: %v", err)
	}
	if val.Kind != codec.KindFloat {
		t.Fatalf("Kind = %v, want KindFloat", val.Kind)
	}
	if val.Float < 12.29 || val.Float > 12.31 {
		t.Errorf("Float = %v, want ~12.3", val.Float)
	}
}

func TestSessionRequestMultiple(t *testing.T) {
	serial := [4]byte{0x10, 0x20, 0x30, 0x40}
	key := obfuscate.DeriveKey(serial)

	sess, cleanup := newTestSession(t, serial, func(req *frame.Frame) []byte {
		plain := []byte{0x02}
		plain = append(plain, 0x9C, 0x43, 0x00, 0x00) // wind speed, sub 0
		plain = append(plain, byte(codec.DataTypeUint16), byte(codec.ConversionNone), 0x00, 0x00, 0x00, 0x00, 0x0A)
		plain = append(plain, 0x9C, 0x46, 0x00, 0x00) // rotor revs, sub 0
		plain = append(plain, byte(codec.DataTypeUint16), byte(codec.ConversionNone), 0x00, 0x00, 0x00, 0x00, 0x14)
		return obfuscate.Encode(plain, key)
	})
	defer cleanup()

	elements, err := sess.RequestMultiple(0x02, []IDPair{
		{MainID: datadict.DataIDWindSpeed, SubID: 0},
		{MainID: datadict.DataIDRotorRevs, SubID: 0},
	})
	if err != nil {
		t.Fatalf("RequestMultiple: %v", err)
	}
	if len(elements) != 2 {
		t.Fatalf("len(elements) = %d, want 2", len(elements))
	}
	if elements[0].Value.Integer != 10 || elements[1].Value.Integer != 20 {
		t.Errorf("elements = %+v, want integers 10 and 20", elements)
	}
}

func TestSessionGetControllerTime(t *testing.T) {
	serial := [4]byte{0x01, 0x01, 0x01, 0x01}
	key := obfuscate.DeriveKey(serial)
	want := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	sess, cleanup := newTestSession(t, serial, func(req *frame.Frame) []byte {
		s := want.Format("060102150405")
		plain := []byte{byte(codec.DataTypeString), byte(codec.ConversionNone), 0x00, 0x00, byte(len(s))}
		plain = append(plain, []byte(s)...)
		return obfuscate.Encode(plain, key)
	})
	defer cleanup()

	got, err := sess.GetControllerTime(0x02)
	if err != nil {
		t.Fatalf("GetControllerTime: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("GetControllerTime = %v, want %v", got, want)
	}
	if _, ok := sess.TimeOffset(); !ok {
		t.Error("TimeOffset should report an observation after GetControllerTime")
	}
}

func TestSessionWriteDataIsNotObfuscated(t *testing.T) {
	serial := [4]byte{0x02, 0x02, 0x02, 0x02}
	var gotMainID uint16

	sess, cleanup := newTestSession(t, serial, func(req *frame.Frame) []byte {
		gotMainID = binary.BigEndian.Uint16(req.Payload[0:2])
		return nil
	})
	defer cleanup()

	if err := sess.WriteData(0x02, datadict.DataIDControllerTime, 1, []byte{0, 0, 0, 1}); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	if gotMainID != datadict.DataIDControllerTime {
		t.Errorf("controller observed main-id %#04x, want %#04x (write_data must stay plaintext)", gotMainID, datadict.DataIDControllerTime)
	}
}
