package session

import (
	"github.com/beezly/turbine/pkg/codec"
	"github.com/beezly/turbine/pkg/datadict"
)

// Event is one entry of the controller's 100-slot event stack: index 0
// is the most recent.
type Event struct {
	Index     int
	Code      codec.Value
	Timestamp codec.Value
	Text      codec.Value
}

// maxEventsPerBatch is the largest number of event slots (3 sub-ids
// each) that fits in one request_multiple round-trip within the
// protocol's response size budget: 33*3 = 99 elements.
const maxEventsPerBatch = 33

// Events reads up to limit entries of the event stack (capped at
// EventStackSize), batching them into request_multiple calls of at
// most maxEventsPerBatch slots. Iteration stops at the first absent
// slot — a slot whose code field decodes to KindAbsent — which is a
// normal end-of-stack condition, not a protocol error.
func (s *Session) Events(destination byte, limit int) ([]Event, error) {
	if limit <= 0 || limit > datadict.EventStackSize {
		limit = datadict.EventStackSize
	}

	var events []Event
	for start := 0; start < limit; start += maxEventsPerBatch {
		end := start + maxEventsPerBatch
		if end > limit {
			end = limit
		}
		ids := make([]IDPair, 0, 3*(end-start))
		for idx := start; idx < end; idx++ {
			ids = append(ids,
				IDPair{MainID: datadict.DataIDEventStackStatusCode, SubID: datadict.EventSubID(idx, datadict.EventFieldCode)},
				IDPair{MainID: datadict.DataIDEventStackStatusCode, SubID: datadict.EventSubID(idx, datadict.EventFieldTimestamp)},
				IDPair{MainID: datadict.DataIDEventStackStatusCode, SubID: datadict.EventSubID(idx, datadict.EventFieldText)},
			)
		}

		elements, err := s.RequestMultiple(destination, ids)
		if err != nil {
			return events, err
		}

		stopped := false
		for i := 0; i+2 < len(elements); i += 3 {
			code := elements[i].Value
			if code.Kind == codec.KindAbsent {
				stopped = true
				break
			}
			events = append(events, Event{
				Index:     start + i/3,
				Code:      code,
				Timestamp: elements[i+1].Value,
				Text:      elements[i+2].Value,
			})
		}
		if stopped || len(elements) < 3*(end-start) {
			break
		}
	}

	return events, nil
}
