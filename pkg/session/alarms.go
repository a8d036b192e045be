package session

import (
	"github.com/beezly/turbine/pkg/codec"
	"github.com/beezly/turbine/pkg/datadict"
)

// AlarmRecord is one entry of the controller's alarm history: which
// known alarm sub-id, when it last occurred (if ever), its description,
// and whether it has occurred at all.
type AlarmRecord struct {
	SubID       uint16
	Description string
	LastOccurred codec.Value // KindInstant, or KindAbsent if never occurred
	HasOccurred  bool
}

// AlarmHistory reads the last-occurrence timestamp and description for
// every sub-id in datadict.AlarmTable, batched into request_multiple
// calls. When onlyOccurred is true, alarms that have not occurred are
// omitted from the result: those whose timestamp is not an instant, or
// is at or after 2030-01-01 UTC (codec.IsNeverOccurred, which covers the
// 2032 "never occurred" sentinel with a drift tolerance).
func (s *Session) AlarmHistory(destination byte, onlyOccurred bool) ([]AlarmRecord, error) {
	const batchSize = 16 // 2 ids per alarm; keeps each request_multiple well under the frame cap

	var records []AlarmRecord
	table := datadict.AlarmTable

	for start := 0; start < len(table); start += batchSize {
		end := start + batchSize
		if end > len(table) {
			end = len(table)
		}
		batch := table[start:end]

		ids := make([]IDPair, 0, 2*len(batch))
		for _, a := range batch {
			ids = append(ids,
				IDPair{MainID: datadict.DataIDAlarmLastOccurred, SubID: a.SubID},
				IDPair{MainID: datadict.DataIDAlarmDescription, SubID: a.SubID},
			)
		}

		elements, err := s.RequestMultiple(destination, ids)
		if err != nil {
			return records, err
		}

		for i, a := range batch {
			tsIdx, descIdx := 2*i, 2*i+1
			if tsIdx >= len(elements) || descIdx >= len(elements) {
				break
			}
			ts := elements[tsIdx].Value
			desc := elements[descIdx].Value

			hasOccurred := ts.Kind == codec.KindInstant && !codec.IsNeverOccurred(ts.Instant)
			record := AlarmRecord{
				SubID:       a.SubID,
				Description: a.Description,
				HasOccurred: hasOccurred,
			}
			if hasOccurred {
				record.LastOccurred = ts
			} else {
				record.LastOccurred = codec.Value{Kind: codec.KindAbsent}
			}
			if desc.Kind == codec.KindText && desc.Text != "" {
				record.Description = desc.Text
			}

			if onlyOccurred && !hasOccurred {
				continue
			}
			records = append(records, record)
		}
	}

	return records, nil
}
