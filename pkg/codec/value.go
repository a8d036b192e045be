// Package codec decodes Mnet typed-value payloads: the 5-byte
// data-type/conversion-type/conversion-value/length header, the raw
// body, and the multi-element aggregation framing.
package codec

import (
	"strconv"
	"time"
)

// Kind tags the semantic shape of a decoded Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindInteger
	KindFloat
	KindText
	KindInstant
)

// Value is the tagged union every decode operation produces: an
// Integer, a Float (after non-trivial scaling), Text, an Instant
// (for controller timestamps), or Absent.
type Value struct {
	Kind    Kind
	Integer int64
	Float   float64
	Text    string
	Instant time.Time
}

func (v Value) String() string {
	switch v.Kind {
	case KindAbsent:
		return "<absent>"
	case KindInteger:
		return strconv.FormatInt(v.Integer, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindText:
		return v.Text
	case KindInstant:
		return v.Instant.Format(time.RFC3339)
	default:
		return "<unknown>"
	}
}

