package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
)

// BlockSize is the number of keystream bytes produced per counter value
const BlockSize = sha256.Size

// Keystream returns n pseudorandom bytes for key and iv. Each counter value
// is used exactly once.
func Keystream(key, iv []byte, n int) []byte {
	out := make([]byte, 0, n+BlockSize)
	h := sha256.New()
	var ctr [8]byte

	for counter := uint64(0); len(out) < n; counter++ {
		h.Reset()
		h.Write(key)
		h.Write(iv)
		binary.BigEndian.PutUint64(ctr[:], counter)
		h.Write(ctr[:])
		out = h.Sum(out)
	}

	ClearBytes(out[n:cap(out)])
	return out[:n]
}

// XORKeyStream combines data with the keystream for key and iv. Applying it
// twice with the same key and iv returns the original data.
func XORKeyStream(key, iv, data []byte) []byte {
	dst := make([]byte, len(data))
	if len(data) == 0 {
		return dst
	}

	ks := Keystream(key, iv, len(data))
	defer ClearBytes(ks)

	subtle.XORBytes(dst, data, ks)
	return dst
}
