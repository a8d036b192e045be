package codec

import (
	"encoding/binary"
	"math"
	"strings"
	"time"

	"github.com/beezly/turbine/internal/mnerr"
)

// Epoch is the controller timestamp epoch: 1980-01-01 00:00:00 UTC.
var Epoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Sentinel is the "never occurred" alarm timestamp: 2032-05-09
// 06:24:00 UTC.
var Sentinel = time.Date(2032, time.May, 9, 6, 24, 0, 0, time.UTC)

// sentinelFloor is the conservative boundary from spec.md §9(c): any
// timestamp at or beyond this instant is also treated as "never
// occurred", to tolerate minor firmware-clock drift around the
// hard-coded 2032 sentinel. Flagged to the operator in DESIGN.md as an
// interpretive choice, not a literal protocol constant.
var sentinelFloor = time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)

// IsNeverOccurred reports whether t should be treated as the "never
// occurred" alarm sentinel.
func IsNeverOccurred(t time.Time) bool {
	return !t.Before(sentinelFloor)
}

// TimestampDenyList holds main-ids whose data-type tag claims
// "controller timestamp" (0x06) but whose value is actually a
// magnitude: grid frequency and the error/error-stop-duration
// counters. Values for these ids stay numeric regardless of sub-id.
var TimestampDenyList = map[uint16]bool{
	0x9CAE: true, // grid frequency
	0xC739: true, // error counter
	0xC79D: true, // error counter
	0xC73A: true, // error-stop duration
	0xC79E: true, // error-stop duration
	0xC79C: true,
}

// DataType enumerates the raw-body encodings a typed-value header can
// declare.
type DataType byte

const (
	DataTypeAbsent      DataType = 0x00
	DataTypeInt8        DataType = 0x01
	DataTypeInt8Alt     DataType = 0x02
	DataTypeInt16       DataType = 0x03
	DataTypeUint16      DataType = 0x04
	DataTypeInt32       DataType = 0x05
	DataTypeTimestamp   DataType = 0x06
	DataTypeUint32      DataType = 0x07
	DataTypeString      DataType = 0x09
	DataTypeInt8Historic DataType = 0x0A
)

// ConversionType enumerates how a raw numeric body is scaled into a
// physical value.
type ConversionType byte

const (
	ConversionNone      ConversionType = 0x00
	ConversionDivPow10   ConversionType = 0x01
	ConversionDiv        ConversionType = 0x02
	ConversionMul        ConversionType = 0x03
	ConversionMulPow10   ConversionType = 0x04
	ConversionDivPow10Alt ConversionType = 0x05
)

// Header is the parsed 5-byte typed-value header.
type Header struct {
	DataType         DataType
	ConversionType   ConversionType
	ConversionValue  int16
	Length           byte
}

const headerSize = 5

// ParseHeader reads the 5-byte typed-value header from the front of
// data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, &mnerr.DecodeError{Reason: "typed-value header truncated"}
	}
	return Header{
		DataType:        DataType(data[0]),
		ConversionType:  ConversionType(data[1]),
		ConversionValue: int16(binary.BigEndian.Uint16(data[2:4])),
		Length:          data[4],
	}, nil
}

// rawValue is the pre-conversion decode of the body: either an int64,
// a string, or nil for the absent data-type.
type rawValue struct {
	asInt    int64
	asString string
	isString bool
	isNil    bool
}

func decodeBody(h Header, body []byte) (rawValue, error) {
	switch h.DataType {
	case DataTypeAbsent:
		return rawValue{isNil: true}, nil
	case DataTypeInt8, DataTypeInt8Alt, DataTypeInt8Historic:
		if len(body) < 1 {
			return rawValue{}, &mnerr.DecodeError{Reason: "truncated int8 body"}
		}
		return rawValue{asInt: int64(int8(body[0]))}, nil
	case DataTypeInt16:
		if len(body) < 2 {
			return rawValue{}, &mnerr.DecodeError{Reason: "truncated int16 body"}
		}
		return rawValue{asInt: int64(int16(binary.BigEndian.Uint16(body)))}, nil
	case DataTypeUint16:
		if len(body) < 2 {
			return rawValue{}, &mnerr.DecodeError{Reason: "truncated uint16 body"}
		}
		return rawValue{asInt: int64(binary.BigEndian.Uint16(body))}, nil
	case DataTypeInt32:
		if len(body) < 4 {
			return rawValue{}, &mnerr.DecodeError{Reason: "truncated int32 body"}
		}
		return rawValue{asInt: int64(int32(binary.BigEndian.Uint32(body)))}, nil
	case DataTypeTimestamp, DataTypeUint32:
		if len(body) < 4 {
			return rawValue{}, &mnerr.DecodeError{Reason: "truncated uint32 body"}
		}
		return rawValue{asInt: int64(binary.BigEndian.Uint32(body))}, nil
	case DataTypeString:
		n := int(h.Length)
		if len(body) < n {
			return rawValue{}, &mnerr.DecodeError{Reason: "truncated string body"}
		}
		s := strings.TrimRight(string(body[:n]), "\x00")
		return rawValue{asString: s, isString: true}, nil
	default:
		return rawValue{}, &mnerr.DecodeError{Reason: "unknown data-type"}
	}
}

func convert(raw rawValue, h Header) (Value, error) {
	if raw.isNil {
		return Value{Kind: KindAbsent}, nil
	}
	if raw.isString {
		return Value{Kind: KindText, Text: raw.asString}, nil
	}

	r := raw.asInt
	v := int64(h.ConversionValue)

	switch h.ConversionType {
	case ConversionNone:
		return Value{Kind: KindInteger, Integer: r}, nil
	case ConversionDivPow10, ConversionDivPow10Alt:
		f := float64(r) / math.Pow(10, float64(v))
		return Value{Kind: KindFloat, Float: f}, nil
	case ConversionDiv:
		if v == 0 {
			return Value{Kind: KindFloat, Float: float64(r)}, nil
		}
		return Value{Kind: KindFloat, Float: float64(r) / float64(v)}, nil
	case ConversionMul:
		if v == 0 {
			return Value{Kind: KindFloat, Float: float64(r)}, nil
		}
		return Value{Kind: KindFloat, Float: float64(r) * float64(v)}, nil
	case ConversionMulPow10:
		f := float64(r) * math.Pow(10, float64(v))
		return Value{Kind: KindFloat, Float: f}, nil
	default:
		return Value{}, &mnerr.DecodeError{Reason: "unknown conversion-type"}
	}
}

// DecodeValue decodes one typed-value block (5-byte header + raw body)
// into a Value. mainID is the main-id the block was read under, used
// only to apply the timestamp deny-list override for data-type 0x06.
func DecodeValue(data []byte, mainID uint16) (Value, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return Value{}, err
	}
	bodyLen := bodyLength(h)
	if len(data) < headerSize+bodyLen {
		return Value{}, &mnerr.DecodeError{Reason: "typed-value body truncated"}
	}
	body := data[headerSize : headerSize+bodyLen]

	raw, err := decodeBody(h, body)
	if err != nil {
		return Value{}, err
	}

	val, err := convert(raw, h)
	if err != nil {
		return Value{}, err
	}

	if h.DataType == DataTypeTimestamp && !TimestampDenyList[mainID] {
		seconds := val.Integer
		if val.Kind == KindFloat {
			seconds = int64(val.Float)
		}
		return Value{Kind: KindInstant, Instant: Epoch.Add(time.Duration(seconds) * time.Second)}, nil
	}
	return val, nil
}

// bodyLength returns the number of raw body bytes a header's data-type
// declares, independent of the declared Length field (which only
// matters for strings).
func bodyLength(h Header) int {
	switch h.DataType {
	case DataTypeAbsent:
		return 0
	case DataTypeInt8, DataTypeInt8Alt, DataTypeInt8Historic:
		return 1
	case DataTypeInt16, DataTypeUint16:
		return 2
	case DataTypeInt32, DataTypeTimestamp, DataTypeUint32:
		return 4
	case DataTypeString:
		return int(h.Length)
	default:
		return 0
	}
}

// BlockSize returns the total size (header + body) of one typed-value
// block, used by the multi-element decoder to advance past each
// element.
func BlockSize(data []byte) (int, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return 0, err
	}
	return headerSize + bodyLength(h), nil
}
