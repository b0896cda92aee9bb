package crypto

import (
	"crypto/sha256"
	"fmt"

	"github.com/illarion/tokensafe/internal/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize      = 16     // Salt size in bytes
	MinSaltSize   = 16     // Shortest salt accepted by Derive
	KeySize       = 32     // Derived key size, matches the SHA-256 digest
	MinIterations = 100000 // Lowest accepted PBKDF2 cost
	DefaultIters  = 100000 // Default PBKDF2 iterations
)

// KDF handles key derivation from passwords
type KDF struct {
	Salt       []byte
	Iterations int
	KeyLen     int
}

// NewKDF creates a new KDF with a random salt and the given cost
func NewKDF(iterations int) (*KDF, error) {
	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &KDF{
		Salt:       salt,
		Iterations: iterations,
		KeyLen:     KeySize,
	}, nil
}

// DeriveKey derives a key from a password using the KDF's salt and cost
func (k *KDF) DeriveKey(password []byte) ([]byte, error) {
	keyLen := k.KeyLen
	if keyLen == 0 {
		keyLen = KeySize
	}
	return Derive(password, k.Salt, k.Iterations, keyLen)
}

// Derive runs PBKDF2-HMAC-SHA256 over password and salt. The same inputs
// always yield the same key. The loop is not interruptible.
func Derive(password, salt []byte, iterations, keyLen int) ([]byte, error) {
	switch {
	case len(password) == 0:
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty password")
	case len(salt) < MinSaltSize:
		return nil, fmt.Errorf("%w: salt must be at least %d bytes", errors.ErrInvalidInput, MinSaltSize)
	case iterations < MinIterations:
		return nil, fmt.Errorf("%w: iterations must be at least %d", errors.ErrInvalidInput, MinIterations)
	case keyLen <= 0:
		return nil, errors.Wrap(errors.ErrInvalidInput, "key length must be positive")
	}

	return pbkdf2.Key(password, salt, iterations, keyLen, sha256.New), nil
}
