package codec

import (
	"encoding/binary"

	"github.com/beezly/turbine/internal/mnerr"
)

// Element is one decoded entry of a multi-data response: the main-id
// and sub-id the controller addressed, plus the decoded Value.
type Element struct {
	MainID uint16
	SubID  uint16
	Value  Value
}

// minElementHeader is main-id(2) + sub-id(2) + typed-value header(5).
const minElementHeader = 9

// DecodeMultiple decodes a multi-data response body: a 1-byte element
// count followed by that many (main-id, sub-id, typed-value) triples.
//
// A short run truncates the result rather than erroring, matching the
// controller's observed behavior of padding short replies: per spec.md
// §4.3, decoding stops cleanly once fewer than 9 bytes remain. A decode
// error on a single element is a different case: per spec.md §7, it
// truncates the list at that element and is reported alongside the
// partial result, rather than being masked or skipped past — a
// corrupted element must never be relabeled as a legitimate KindAbsent
// entry. A declared body length that would make an element's span
// negative is rejected as a FramingError rather than silently skipped.
func DecodeMultiple(data []byte) ([]Element, error) {
	if len(data) < 1 {
		return nil, &mnerr.DecodeError{Reason: "multi-data body empty"}
	}
	count := int(data[0])
	pos := 1
	elements := make([]Element, 0, count)

	for i := 0; i < count; i++ {
		if len(data)-pos < minElementHeader {
			break
		}
		mainID := binary.BigEndian.Uint16(data[pos : pos+2])
		subID := binary.BigEndian.Uint16(data[pos+2 : pos+4])
		typedStart := pos + 4

		blockSize, err := BlockSize(data[typedStart:])
		if err != nil {
			break
		}
		if blockSize < 0 {
			return nil, &mnerr.FramingError{Reason: "negative-length element body"}
		}
		if len(data)-typedStart < blockSize {
			break
		}

		val, err := DecodeValue(data[typedStart:typedStart+blockSize], mainID)
		if err != nil {
			return elements, err
		}

		elements = append(elements, Element{MainID: mainID, SubID: subID, Value: val})
		pos = typedStart + blockSize
	}

	return elements, nil
}
