// Package crypto provides the cryptographic primitives for tokensafe.
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 16-byte random salt (stored unencrypted next to the ciphertext)
//   - 100,000 iterations by default, never fewer
//
// Encryption uses a hash-based keystream:
//   - block i = SHA-256(key || iv || uint64_be(i)), i starting at 0
//   - keystream truncated to the data length and XORed with it
//   - the same call encrypts and decrypts
//
// The keystream provides no integrity. Tags are HMAC-SHA256 over
// ciphertext || context and are compared in constant time.
//
// Memory safety:
//   - Use ClearBytes() to zero keys and plaintext after use
package crypto
