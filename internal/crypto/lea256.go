package crypto

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

const leaBlockSize = 16

// leaKeySchedule expands a 32-byte key into 192 uint32 round keys for LEA-256.
func leaKeySchedule(key [32]byte) [192]uint32 {
	var T [8]uint32
	for i := 0; i < 8; i++ {
		T[i] = binary.LittleEndian.Uint32(key[i*4:])
	}

	var rk [192]uint32
	shifts := [6]int{1, 3, 6, 11, 13, 17}

	for i := uint32(0); i < 32; i++ {
		d := LEAKeyDelta[i&7]
		s := (i * 6) & 7

		for j := uint32(0); j < 6; j++ {
			idx := (s + j) & 7
			T[idx] = bits.RotateLeft32(T[idx]+bits.RotateLeft32(d, int(i+j)), shifts[j])
		}
		for j := uint32(0); j < 6; j++ {
			rk[i*6+j] = T[(s+j)&7]
		}
	}
	return rk
}

func checkBlocks(data []byte) error {
	if len(data)%leaBlockSize != 0 {
		return fmt.Errorf("crypto: LEA input length %d is not a multiple of %d", len(data), leaBlockSize)
	}
	return nil
}

// DecryptLEA decrypts data in 16-byte blocks using LEA-256 ECB mode.
func DecryptLEA(data []byte, key [32]byte) ([]byte, error) {
	if err := checkBlocks(data); err != nil {
		return nil, err
	}
	rk := leaKeySchedule(key)
	out := make([]byte, len(data))

	for off := 0; off < len(data); off += leaBlockSize {
		s0 := binary.LittleEndian.Uint32(data[off:])
		s1 := binary.LittleEndian.Uint32(data[off+4:])
		s2 := binary.LittleEndian.Uint32(data[off+8:])
		s3 := binary.LittleEndian.Uint32(data[off+12:])

		for r := 31; r >= 0; r-- {
			k := rk[r*6 : r*6+6]
			t0 := s3
			t1 := (bits.RotateLeft32(s0, -9) - (t0 ^ k[0])) ^ k[1]
			t2 := (bits.RotateLeft32(s1, 5) - (t1 ^ k[2])) ^ k[3]
			t3 := (bits.RotateLeft32(s2, 3) - (t2 ^ k[4])) ^ k[5]
			s0, s1, s2, s3 = t0, t1, t2, t3
		}

		binary.LittleEndian.PutUint32(out[off:], s0)
		binary.LittleEndian.PutUint32(out[off+4:], s1)
		binary.LittleEndian.PutUint32(out[off+8:], s2)
		binary.LittleEndian.PutUint32(out[off+12:], s3)
	}
	return out, nil
}

// EncryptLEA is the inverse of DecryptLEA.
func EncryptLEA(data []byte, key [32]byte) ([]byte, error) {
	if err := checkBlocks(data); err != nil {
		return nil, err
	}
	rk := leaKeySchedule(key)
	out := make([]byte, len(data))

	for off := 0; off < len(data); off += leaBlockSize {
		s0 := binary.LittleEndian.Uint32(data[off:])
		s1 := binary.LittleEndian.Uint32(data[off+4:])
		s2 := binary.LittleEndian.Uint32(data[off+8:])
		s3 := binary.LittleEndian.Uint32(data[off+12:])

		for r := 0; r < 32; r++ {
			k := rk[r*6 : r*6+6]
			t0 := bits.RotateLeft32((s0^k[0])+(s1^k[1]), 9)
			t1 := bits.RotateLeft32((s1^k[2])+(s2^k[3]), -5)
			t2 := bits.RotateLeft32((s2^k[4])+(s3^k[5]), -3)
			s0, s1, s2, s3 = t0, t1, t2, s0
		}

		binary.LittleEndian.PutUint32(out[off:], s0)
		binary.LittleEndian.PutUint32(out[off+4:], s1)
		binary.LittleEndian.PutUint32(out[off+8:], s2)
		binary.LittleEndian.PutUint32(out[off+12:], s3)
	}
	return out, nil
}
