// Package frame implements the Mnet wire frame: SOH, header, a byte-
// stuffed payload, a CRC-16/XMODEM trailer, and EOT.
package frame

import (
	"encoding/binary"

	"github.com/beezly/turbine/internal/mnerr"
	"github.com/beezly/turbine/internal/transport"
)

const (
	SOH byte = 0x01
	EOT byte = 0x04

	// MaxPayloadSize is the largest stuffed payload the length byte can
	// describe.
	MaxPayloadSize = 255
	// MaxFrameSize is the protocol's end-to-end cap on a single frame.
	MaxFrameSize = 300
)

// Frame is a decoded Mnet message: addressing, message kind, and the
// payload as carried on the wire (Read does not unstuff it).
type Frame struct {
	Destination byte
	Source      byte
	Type        uint16
	Payload     []byte
}

// Stuff doubles every 0xFF byte in payload, the wire representation of
// the logical payload.
func Stuff(payload []byte) []byte {
	out := make([]byte, 0, len(payload))
	for _, b := range payload {
		out = append(out, b)
		if b == 0xFF {
			out = append(out, 0xFF)
		}
	}
	return out
}

// Unstuff collapses doubled 0xFF bytes back into single ones. An odd
// trailing run of 0xFF (a 0xFF with no following byte, or with a
// following byte that isn't itself 0xFF) is a framing error: the stream
// has desynced.
func Unstuff(wire []byte) ([]byte, error) {
	out := make([]byte, 0, len(wire))
	for i := 0; i < len(wire); i++ {
		b := wire[i]
		out = append(out, b)
		if b == 0xFF {
			i++
			if i >= len(wire) || wire[i] != 0xFF {
				return nil, &mnerr.FramingError{Reason: "unterminated 0xFF stuffing run"}
			}
		}
	}
	return out, nil
}

// Build serializes (destination, source, packetType, payload) into the
// bytes written to the wire: SOH, header, stuffed payload, CRC, EOT.
func Build(destination, source byte, packetType uint16, payload []byte) ([]byte, error) {
	stuffed := Stuff(payload)
	if len(stuffed) > MaxPayloadSize {
		return nil, &mnerr.ProtocolError{Reason: "stuffed payload exceeds 255 bytes"}
	}

	logical := make([]byte, 0, 5+len(stuffed))
	logical = append(logical, destination, source)
	logical = append(logical, byte(packetType>>8), byte(packetType))
	logical = append(logical, byte(len(stuffed)))
	logical = append(logical, stuffed...)

	crc := CRC16XModem(logical)

	out := make([]byte, 0, 2+len(logical)+2)
	out = append(out, SOH)
	out = append(out, logical...)
	out = append(out, byte(crc>>8), byte(crc))
	out = append(out, EOT)

	if len(out) > MaxFrameSize {
		return nil, &mnerr.ProtocolError{Reason: "frame exceeds protocol cap of 300 bytes"}
	}
	return out, nil
}

// Read parses one frame from stream: 6-byte header, the declared number
// of stuffed payload bytes, then a 2-byte CRC and EOT. The payload
// returned is still stuffed; callers that need the logical payload call
// Unstuff themselves (no caller in this module does, since in practice
// response payloads never carry a stuffed 0xFF).
func Read(stream transport.ByteStream) (*Frame, error) {
	soh := make([]byte, 1)
	if err := stream.ReadExact(soh); err != nil {
		return nil, err
	}
	if soh[0] != SOH {
		return nil, &mnerr.FramingError{Reason: "missing SOH"}
	}
	return readAfterSOH(stream)
}

// readAfterSOH reads the rest of a frame assuming the leading SOH byte
// has already been consumed (by Read, or by DrainToSOH during
// desync recovery).
func readAfterSOH(stream transport.ByteStream) (*Frame, error) {
	header := make([]byte, 5)
	if err := stream.ReadExact(header); err != nil {
		return nil, err
	}
	destination := header[0]
	source := header[1]
	packetType := binary.BigEndian.Uint16(header[2:4])
	length := int(header[4])

	payload := make([]byte, length)
	if length > 0 {
		if err := stream.ReadExact(payload); err != nil {
			return nil, err
		}
	}

	tail := make([]byte, 3)
	if err := stream.ReadExact(tail); err != nil {
		return nil, err
	}
	receivedCRC := binary.BigEndian.Uint16(tail[0:2])
	eot := tail[2]
	if eot != EOT {
		return nil, &mnerr.FramingError{Reason: "missing EOT"}
	}

	logical := make([]byte, 0, 5+length)
	logical = append(logical, header...)
	logical = append(logical, payload...)
	if crc := CRC16XModem(logical); crc != receivedCRC {
		return nil, &mnerr.FramingError{Reason: "CRC mismatch"}
	}

	return &Frame{
		Destination: destination,
		Source:      source,
		Type:        packetType,
		Payload:     payload,
	}, nil
}

// DrainToSOH discards bytes from stream until a SOH is seen (or maxBytes
// have been discarded), the recommended recovery from a FramingError: a
// desync is easiest to resolve by resyncing on the next frame start
// rather than guessing how many stray bytes were lost.
func DrainToSOH(stream transport.ByteStream, maxBytes int) error {
	b := make([]byte, 1)
	for i := 0; i < maxBytes; i++ {
		if err := stream.ReadExact(b); err != nil {
			return err
		}
		if b[0] == SOH {
			return nil
		}
	}
	return &mnerr.FramingError{Reason: "no SOH found while draining"}
}

// ReadAfterDrain reads one frame assuming DrainToSOH already consumed
// the leading SOH byte.
func ReadAfterDrain(stream transport.ByteStream) (*Frame, error) {
	return readAfterSOH(stream)
}
