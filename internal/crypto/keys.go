// Package crypto decrypts the payload of encrypted BMD model files:
// version 12 uses a chained XOR, version 15 uses LEA-256 in ECB mode.
package crypto

import (
	"encoding/hex"
	"fmt"
)

// XORKey is the 16-byte repeating key of the v12 chained XOR.
var XORKey = [16]byte{
	0xD1, 0x73, 0x52, 0xF6, 0xD2, 0x9A, 0xCB, 0x27,
	0x3E, 0xAF, 0x59, 0x31, 0x37, 0xB3, 0xE7, 0xA2,
}

// LEAKeyDelta holds the LEA key-schedule constants δ[0..7].
var LEAKeyDelta = [8]uint32{
	0xc3efe9db, 0x44626b02, 0x79e27c8a, 0x78df30ec,
	0x715ea49e, 0xc785da0a, 0xe04ef22a, 0xe5c40957,
}

// ParseLEAKey decodes a 64-character hex string into a LEA-256 key.
func ParseLEAKey(s string) ([32]byte, error) {
	var key [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return key, fmt.Errorf("crypto: parse LEA key: %w", err)
	}
	if len(raw) != len(key) {
		return key, fmt.Errorf("crypto: LEA key is %d bytes, want %d", len(raw), len(key))
	}
	copy(key[:], raw)
	return key, nil
}
