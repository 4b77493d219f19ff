package bytes

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// HexBytes is a wrapper around []byte that marshals to and from JSON as an
// uppercase hex string, matching the encoding every address and hash field
// in the /validators and /commit documents uses.
type HexBytes []byte

// MarshalText encodes a HexBytes value as uppercase hexadecimal digits.
// This method is used by json.Marshal.
func (bz HexBytes) MarshalText() ([]byte, error) {
	enc := hex.EncodeToString([]byte(bz))
	return []byte(strings.ToUpper(enc)), nil
}

// UnmarshalText handles decoding of HexBytes from JSON strings. It accepts
// hex first (addresses, header/commit hash fields) and falls back to
// base64 (signatures, public keys), since both appear in the same document
// family depending on the field.
func (bz *HexBytes) UnmarshalText(data []byte) error {
	input := string(data)
	if input == "" || input == "null" {
		*bz = nil
		return nil
	}
	dec, err := hex.DecodeString(input)
	if err != nil {
		dec, err = base64.StdEncoding.DecodeString(input)
		if err != nil {
			return fmt.Errorf("not valid hex or base64: %w", err)
		}
	}
	*bz = HexBytes(dec)
	return nil
}

// Bytes returns the raw byte slice.
func (bz HexBytes) Bytes() []byte {
	return bz
}

func (bz HexBytes) String() string {
	return strings.ToUpper(hex.EncodeToString(bz))
}

// Format writes HexBytes as an uppercase hexadecimal string for %X/%v/%s, and
// falls back to the pointer address for %p.
func (bz HexBytes) Format(s fmt.State, verb rune) {
	switch verb {
	case 'p':
		fmt.Fprintf(s, "%p", bz)
	default:
		fmt.Fprintf(s, "%X", []byte(bz))
	}
}

func (bz HexBytes) Equal(b []byte) bool {
	return bytes.Equal(bz, b)
}
