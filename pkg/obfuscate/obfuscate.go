// Package obfuscate implements the per-session symmetric stream
// transform Mnet applies to data payloads, keyed by a 5-byte value
// derived from the controller's 4-byte serial number.
package obfuscate

// constant is the additive constant mixed into every transformed byte.
const constant = 0x34

// Key is the 5-byte secret derived from a controller's serial number.
type Key [5]byte

// DeriveKey derives the 5-byte key from the controller's 4-byte
// big-endian serial number. All arithmetic is unsigned 8-bit; the
// expression is evaluated strictly left-to-right as documented.
func DeriveKey(serial [4]byte) Key {
	p0, p1, p2, p3 := serial[0], serial[1], serial[2], serial[3]
	var k Key
	k[0] = byte((p2 & p1) - p2)
	k[1] = byte(p1 + p0 + p3)
	k[2] = byte((p3+p0)^p1)
	k[3] = byte((p3 & p1) + p2)
	k[4] = byte((p3 | p2) - p3)
	return k
}

// Encode applies the outbound transform: used for the login payload
// only, never for the plain command body or the serial-number request.
func Encode(data []byte, key Key) []byte {
	out := make([]byte, len(data))
	var prev byte
	for i, b := range data {
		out[i] = byte((key[i%5]-prev)^b) + constant
		prev = b
	}
	return out
}

// Decode applies the inbound transform, the exact inverse of Encode.
// Note the asymmetry: Encode's running byte is the plaintext input;
// Decode's running byte is the recovered plaintext output. The
// subtraction binds before the XOR on both sides — (key[i%5] - prev)
// XOR (in[i] - C) — which is what makes the two transforms exact
// inverses; grouping the XOR as (in[i] - C) XOR key[i%5] and subtracting
// prev afterwards looks equivalent but is not, since XOR does not
// distribute over subtraction.
func Decode(data []byte, key Key) []byte {
	out := make([]byte, len(data))
	var prev byte
	for i, b := range data {
		out[i] = (key[i%5] - prev) ^ byte(b-constant)
		prev = out[i]
	}
	return out
}
