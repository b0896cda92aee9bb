package encryption

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/illarion/tokensafe/internal/crypto"
	"github.com/illarion/tokensafe/internal/errors"
)

const (
	IVSize = 16 // Keystream IV size in bytes

	encKeyLen = crypto.KeySize
	macKeyLen = crypto.KeySize
)

// Service encrypts and decrypts byte payloads under a password
type Service struct {
	iterations int
	logger     *slog.Logger
}

// NewService creates a Service with the given PBKDF2 cost. A nil logger
// discards output.
func NewService(iterations int, logger *slog.Logger) (*Service, error) {
	if iterations < crypto.MinIterations {
		return nil, fmt.Errorf("%w: iterations must be at least %d", errors.ErrInvalidInput, crypto.MinIterations)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{iterations: iterations, logger: logger}, nil
}

// Encrypt protects plaintext under password. Empty plaintext is valid.
func (s *Service) Encrypt(plaintext, password []byte) (*Envelope, error) {
	if len(password) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty password")
	}
	start := time.Now()

	kdf, err := crypto.NewKDF(s.iterations)
	if err != nil {
		return nil, err
	}
	kdf.KeyLen = encKeyLen + macKeyLen

	iv, err := crypto.GenerateRandom(IVSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	encKey, macKey, err := deriveKeys(kdf, password)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(encKey)
	defer crypto.ClearBytes(macKey)

	ciphertext := crypto.XORKeyStream(encKey, iv, plaintext)
	tag := crypto.ComputeTag(macKey, ciphertext, tagContext(kdf.Salt, iv))

	s.logger.Debug("payload encrypted",
		"bytes", len(plaintext),
		"iterations", s.iterations,
		"duration", time.Since(start))

	return &Envelope{
		Ciphertext: ciphertext,
		Salt:       kdf.Salt,
		IV:         iv,
		Tag:        tag,
	}, nil
}

// Decrypt verifies the envelope under password and returns the plaintext.
// Any verification failure yields errors.ErrIntegrity and no plaintext.
func (s *Service) Decrypt(env *Envelope, password []byte) ([]byte, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty password")
	}
	start := time.Now()

	kdf := &crypto.KDF{Salt: env.Salt, Iterations: s.iterations, KeyLen: encKeyLen + macKeyLen}
	encKey, macKey, err := deriveKeys(kdf, password)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(encKey)
	defer crypto.ClearBytes(macKey)

	if !crypto.VerifyTag(macKey, env.Ciphertext, tagContext(env.Salt, env.IV), env.Tag) {
		s.logger.Debug("envelope rejected", "duration", time.Since(start))
		return nil, errors.ErrIntegrity
	}

	plaintext := crypto.XORKeyStream(encKey, env.IV, env.Ciphertext)

	s.logger.Debug("payload decrypted",
		"bytes", len(plaintext),
		"duration", time.Since(start))

	return plaintext, nil
}

// deriveKeys splits one PBKDF2 output into the keystream key and the MAC key
func deriveKeys(kdf *crypto.KDF, password []byte) ([]byte, []byte, error) {
	material, err := kdf.DeriveKey(password)
	if err != nil {
		return nil, nil, err
	}
	return material[:encKeyLen], material[encKeyLen:], nil
}

// tagContext binds the tag to the rest of the envelope
func tagContext(salt, iv []byte) []byte {
	ctx := make([]byte, 0, len(salt)+len(iv))
	ctx = append(ctx, salt...)
	return append(ctx, iv...)
}
