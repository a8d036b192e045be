package codec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func element(mainID, subID uint16, dataType DataType, body []byte) []byte {
	out := []byte{byte(mainID >> 8), byte(mainID), byte(subID >> 8), byte(subID)}
	out = append(out, byte(dataType), byte(ConversionNone), 0x00, 0x00, 0x00)
	out = append(out, body...)
	return out
}

func TestDecodeMultipleTwoElements(t *testing.T) {
	body := []byte{0x02} // count = 2
	body = append(body, element(0x1000, 0x0000, DataTypeUint16, []byte{0x00, 0x0A})...)
	body = append(body, element(0x1001, 0x0000, DataTypeInt8, []byte{0xFE})...)

	got, err := DecodeMultiple(body)
	if err != nil {
		t.Fatalf("DecodeMultiple: %v", err)
	}

	want := []Element{
		{MainID: 0x1000, SubID: 0x0000, Value: Value{Kind: KindInteger, Integer: 10}},
		{MainID: 0x1001, SubID: 0x0000, Value: Value{Kind: KindInteger, Integer: -2}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMultipleTruncatesCleanly(t *testing.T) {
	body := []byte{0x05} // claims 5 elements
	body = append(body, element(0x1000, 0x0000, DataTypeUint16, []byte{0x00, 0x0A})...)
	// only one full element present; decoding must stop, not error

	got, err := DecodeMultiple(body)
	if err != nil {
		t.Fatalf("DecodeMultiple: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
}

func TestDecodeMultipleElementDecodeErrorTruncatesAndReturnsError(t *testing.T) {
	body := []byte{0x02} // count = 2
	body = append(body, element(0x1000, 0x0000, DataTypeUint16, []byte{0x00, 0x0A})...)
	body = append(body, element(0x1001, 0x0000, DataType(0xEE), nil)...) // unrecognized data-type

	got, err := DecodeMultiple(body)
	if err == nil {
		t.Fatal("expected a decode error for the unrecognized data-type element")
	}

	want := []Element{
		{MainID: 0x1000, SubID: 0x0000, Value: Value{Kind: KindInteger, Integer: 10}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("partial result mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMultipleEmptyBody(t *testing.T) {
	if _, err := DecodeMultiple(nil); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestDecodeMultipleZeroCount(t *testing.T) {
	got, err := DecodeMultiple([]byte{0x00})
	if err != nil {
		t.Fatalf("DecodeMultiple: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(got) = %d, want 0", len(got))
	}
}
