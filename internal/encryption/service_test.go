package encryption

import (
	"bytes"
	"testing"

	"github.com/illarion/tokensafe/internal/crypto"
	"github.com/illarion/tokensafe/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(crypto.MinIterations, nil)
	require.NoError(t, err)
	return svc
}

func TestNewServiceRejectsLowCost(t *testing.T) {
	_, err := NewService(crypto.MinIterations-1, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	svc := newTestService(t)

	payloads := [][]byte{
		{},
		[]byte("x"),
		[]byte("hello world"),
		bytes.Repeat([]byte{0x00, 0xff}, 100),
	}
	for _, p := range payloads {
		env, err := svc.Encrypt(p, []byte("pw123"))
		require.NoError(t, err)

		assert.Len(t, env.Ciphertext, len(p))
		assert.Len(t, env.Salt, crypto.SaltSize)
		assert.Len(t, env.IV, IVSize)
		assert.Len(t, env.Tag, crypto.TagSize)

		got, err := svc.Decrypt(env, []byte("pw123"))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestEncryptHelloWorld(t *testing.T) {
	svc := newTestService(t)

	env, err := svc.Encrypt([]byte("hello world"), []byte("pw123"))
	require.NoError(t, err)
	assert.NotEqual(t, []byte("hello world"), env.Ciphertext)

	got, err := svc.Decrypt(env, []byte("pw123"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), got)
}

func TestEncryptUsesFreshSaltAndIV(t *testing.T) {
	svc := newTestService(t)

	a, err := svc.Encrypt([]byte("same"), []byte("pw"))
	require.NoError(t, err)
	b, err := svc.Encrypt([]byte("same"), []byte("pw"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.IV, b.IV)
	assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
}

func TestDecryptWrongPassword(t *testing.T) {
	svc := newTestService(t)

	env, err := svc.Encrypt([]byte("hello world"), []byte("pw123"))
	require.NoError(t, err)

	got, err := svc.Decrypt(env, []byte("pw124"))
	assert.ErrorIs(t, err, errors.ErrIntegrity)
	assert.Nil(t, got)
}

func TestDecryptDetectsBitFlips(t *testing.T) {
	svc := newTestService(t)
	plaintext := []byte("abc")

	env, err := svc.Encrypt(plaintext, []byte("pw"))
	require.NoError(t, err)

	flip := func(field []byte, bit int) []byte {
		out := append([]byte(nil), field...)
		out[bit/8] ^= 1 << (bit % 8)
		return out
	}

	for bit := 0; bit < len(env.Ciphertext)*8; bit++ {
		tampered := *env
		tampered.Ciphertext = flip(env.Ciphertext, bit)
		got, err := svc.Decrypt(&tampered, []byte("pw"))
		require.ErrorIs(t, err, errors.ErrIntegrity, "ciphertext bit %d", bit)
		require.Nil(t, got)
	}

	for _, bit := range []int{0, 7, 100, crypto.TagSize*8 - 1} {
		tampered := *env
		tampered.Tag = flip(env.Tag, bit)
		_, err := svc.Decrypt(&tampered, []byte("pw"))
		assert.ErrorIs(t, err, errors.ErrIntegrity, "mac bit %d", bit)
	}

	tampered := *env
	tampered.IV = flip(env.IV, 3)
	_, err = svc.Decrypt(&tampered, []byte("pw"))
	assert.ErrorIs(t, err, errors.ErrIntegrity, "iv is bound to the tag")
}

func TestWrongPasswordAndCorruptionLookAlike(t *testing.T) {
	svc := newTestService(t)

	env, err := svc.Encrypt([]byte("data"), []byte("pw"))
	require.NoError(t, err)

	_, wrongPw := svc.Decrypt(env, []byte("nope"))

	tampered := *env
	tampered.Ciphertext = append([]byte(nil), env.Ciphertext...)
	tampered.Ciphertext[0] ^= 0xff
	_, corrupted := svc.Decrypt(&tampered, []byte("pw"))

	require.Error(t, wrongPw)
	require.Error(t, corrupted)
	assert.Equal(t, wrongPw.Error(), corrupted.Error())
}

func TestEncryptDecryptInvalidInput(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Encrypt([]byte("data"), nil)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	env, err := svc.Encrypt([]byte("data"), []byte("pw"))
	require.NoError(t, err)

	_, err = svc.Decrypt(env, []byte{})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = svc.Decrypt(nil, []byte("pw"))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	partial := *env
	partial.Tag = nil
	_, err = svc.Decrypt(&partial, []byte("pw"))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestEncryptDerivesBothKeysFromOnePBKDF2Output(t *testing.T) {
	svc := newTestService(t)
	password := []byte("pw123")

	env, err := svc.Encrypt([]byte("hello world"), password)
	require.NoError(t, err)

	material, err := crypto.Derive(password, env.Salt, crypto.MinIterations, 2*crypto.KeySize)
	require.NoError(t, err)
	encKey, macKey := material[:crypto.KeySize], material[crypto.KeySize:]

	assert.True(t, crypto.VerifyTag(macKey, env.Ciphertext, tagContext(env.Salt, env.IV), env.Tag))
	assert.Equal(t, []byte("hello world"), crypto.XORKeyStream(encKey, env.IV, env.Ciphertext))
}
