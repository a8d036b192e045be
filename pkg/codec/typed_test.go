package codec

import (
	"testing"
	"time"
)

func TestDecodeValueDivPow10(t *testing.T) {
	// uint16 body 1234, conversion div-pow10 with value 2 -> 12.34
	data := []byte{byte(DataTypeUint16), byte(ConversionDivPow10), 0x00, 0x02, 0x00, 0x04, 0xD2}
	v, err := DecodeValue(data, 0x1000)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v.Kind != KindFloat {
		t.Fatalf("Kind = %v, want KindFloat", v.Kind)
	}
	if got, want := v.Float, 12.34; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("Float = %v, want %v", got, want)
	}
}

func TestDecodeValueTimestamp(t *testing.T) {
	// uint32 body 86400 (seconds) under a timestamp data-type -> 1980-01-02.
	data := []byte{byte(DataTypeTimestamp), byte(ConversionNone), 0x00, 0x00, 0x00, 0x00, 0x01, 0x51, 0x80}
	v, err := DecodeValue(data, 0x1000)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v.Kind != KindInstant {
		t.Fatalf("Kind = %v, want KindInstant", v.Kind)
	}
	want := time.Date(1980, time.January, 2, 0, 0, 0, 0, time.UTC)
	if !v.Instant.Equal(want) {
		t.Errorf("Instant = %v, want %v", v.Instant, want)
	}
}

func TestDecodeValueTimestampDenyListStaysNumeric(t *testing.T) {
	data := []byte{byte(DataTypeTimestamp), byte(ConversionNone), 0x00, 0x00, 0x00, 0x00, 0x01, 0x51, 0x80}
	v, err := DecodeValue(data, 0x9CAE) // grid frequency: deny-listed
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v.Kind != KindInteger {
		t.Fatalf("Kind = %v, want KindInteger for deny-listed main-id", v.Kind)
	}
	if v.Integer != 86400 {
		t.Errorf("Integer = %d, want 86400", v.Integer)
	}
}

func TestDecodeValueAbsent(t *testing.T) {
	data := []byte{byte(DataTypeAbsent), 0x00, 0x00, 0x00, 0x00}
	v, err := DecodeValue(data, 0x1000)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v.Kind != KindAbsent {
		t.Errorf("Kind = %v, want KindAbsent", v.Kind)
	}
}

func TestDecodeValueString(t *testing.T) {
	body := []byte("240101120000\x00\x00\x00\x00")
	data := append([]byte{byte(DataTypeString), byte(ConversionNone), 0x00, 0x00, byte(len(body))}, body...)
	v, err := DecodeValue(data, 0x1000)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v.Kind != KindText {
		t.Fatalf("Kind = %v, want KindText", v.Kind)
	}
	if v.Text != "240101120000" {
		t.Errorf("Text = %q, want trimmed trailing NULs", v.Text)
	}
}

func TestDecodeValueTruncatedHeaderErrors(t *testing.T) {
	if _, err := DecodeValue([]byte{0x01, 0x02}, 0x1000); err == nil {
		t.Fatal("expected error for truncated header")
	}
}

func TestIsNeverOccurred(t *testing.T) {
	if !IsNeverOccurred(Sentinel) {
		t.Error("Sentinel itself must read as never-occurred")
	}
	if !IsNeverOccurred(sentinelFloor) {
		t.Error("sentinelFloor must read as never-occurred")
	}
	if IsNeverOccurred(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("a real 2024 timestamp must not read as never-occurred")
	}
}
