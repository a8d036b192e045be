package session

import (
	"encoding/binary"

	"github.com/beezly/turbine/pkg/datadict"
	"github.com/beezly/turbine/pkg/obfuscate"
)

// buildLoginDescriptor assembles the fixed 32-byte login payload: the
// 20-byte vendor-product tag, two 0xFF pad bytes, the 4-byte big-endian
// login packet id, a constant 0x05, and five trailing 0x00 bytes.
func buildLoginDescriptor() []byte {
	d := make([]byte, 0, 32)
	d = append(d, datadict.LoginVendorTag[:]...)
	d = append(d, 0xFF, 0xFF)
	var idBuf [4]byte
	binary.BigEndian.PutUint32(idBuf[:], datadict.LoginPacketID)
	d = append(d, idBuf[:]...)
	d = append(d, 0x05)
	d = append(d, 0x00, 0x00, 0x00, 0x00, 0x00)
	return d
}

// Login performs the Mnet login handshake: ensures the session is
// keyed, encrypts the fixed login descriptor with the derived key, and
// sends it as REQ_LOGIN. A response is required but its payload is not
// further interpreted, matching the source behavior.
func (s *Session) Login(destination byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureKeyed(destination); err != nil {
		return err
	}

	payload := obfuscate.Encode(buildLoginDescriptor(), s.key)
	if _, err := s.exchange(destination, datadict.ReqLogin, payload); err != nil {
		return err
	}

	s.state = StateLoggedIn
	return nil
}
