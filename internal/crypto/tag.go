package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
)

// TagSize is the length of an integrity tag
const TagSize = sha256.Size

// ComputeTag returns HMAC-SHA256(key, ciphertext || context)
func ComputeTag(key, ciphertext, context []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(ciphertext)
	mac.Write(context)
	return mac.Sum(nil)
}

// VerifyTag recomputes the tag and compares it in constant time
func VerifyTag(key, ciphertext, context, tag []byte) bool {
	return hmac.Equal(ComputeTag(key, ciphertext, context), tag)
}
