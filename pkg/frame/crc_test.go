package frame

import "testing"

func TestCRC16XModemVectors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want uint16
	}{
		{"wind-speed-request", []byte{0x02, 0x01, 0x0c, 0x28, 0x02, 0x9c, 0x43}, 0x57A4},
		{"serial-number-request", []byte{0x02, 0x01, 0x0c, 0x2e, 0x00}, 0x62BF},
		{"command-start", []byte{0x02, 0x01, 0x0c, 0x32, 0x02, 0x00, 0x01}, 0x11A8},
		{"empty", []byte{}, 0x0000},
		{"single-ff", []byte{0xff}, 0x1EF0},
		{"four-ff", []byte{0xff, 0xff, 0xff, 0xff}, 0x99CF},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CRC16XModem(tc.data); got != tc.want {
				t.Errorf("CRC16XModem(%x) = %#04x, want %#04x", tc.data, got, tc.want)
			}
		})
	}
}

func TestCRC16XModemOrderSensitive(t *testing.T) {
	a := CRC16XModem([]byte{0x01, 0x02})
	b := CRC16XModem([]byte{0x02, 0x01})
	if a == b {
		t.Fatalf("expected order-sensitive CRC, got equal values %#04x", a)
	}
}
