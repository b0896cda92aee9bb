// Package encryption produces and consumes password-protected envelopes.
//
// An envelope carries four fields, all required to decrypt:
//   - encrypted_data: keystream ciphertext, same length as the plaintext
//   - salt: PBKDF2 salt, fresh per call
//   - iv: keystream IV, fresh per call
//   - mac: HMAC-SHA256 over encrypted_data || salt || iv
//
// One PBKDF2 derivation yields 64 bytes; the first half keys the keystream,
// the second half keys the MAC. Decrypt verifies the MAC before touching the
// ciphertext and reports every mismatch as errors.ErrIntegrity.
package encryption
