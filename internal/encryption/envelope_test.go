package encryption

import (
	"encoding/json"
	"testing"

	"github.com/illarion/tokensafe/internal/crypto"
	"github.com/illarion/tokensafe/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeWireForm(t *testing.T) {
	svc, err := NewService(crypto.MinIterations, nil)
	require.NoError(t, err)

	env, err := svc.Encrypt([]byte("hello world"), []byte("pw123"))
	require.NoError(t, err)

	data, err := MarshalEnvelope(env)
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Len(t, fields, 4)
	for _, name := range []string{"encrypted_data", "salt", "iv", "mac"} {
		assert.NotEmpty(t, fields[name], name)
	}

	parsed, err := ParseEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, env, parsed)

	got, err := svc.Decrypt(parsed, []byte("pw123"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
}

func TestEnvelopeEmptyCiphertextSurvivesWireForm(t *testing.T) {
	svc, err := NewService(crypto.MinIterations, nil)
	require.NoError(t, err)

	env, err := svc.Encrypt(nil, []byte("pw"))
	require.NoError(t, err)

	data, err := MarshalEnvelope(env)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"encrypted_data": ""`)

	parsed, err := ParseEnvelope(data)
	require.NoError(t, err)

	got, err := svc.Decrypt(parsed, []byte("pw"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseEnvelopeRejectsPartial(t *testing.T) {
	const salt = "AAAAAAAAAAAAAAAAAAAAAA=="
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{"salt":`},
		{"missing encrypted_data", `{"salt":"` + salt + `","iv":"` + salt + `","mac":"` + salt + `"}`},
		{"missing salt", `{"encrypted_data":"","iv":"` + salt + `","mac":"` + salt + `"}`},
		{"missing iv", `{"encrypted_data":"","salt":"` + salt + `","mac":"` + salt + `"}`},
		{"missing mac", `{"encrypted_data":"","salt":"` + salt + `","iv":"` + salt + `"}`},
		{"bad base64", `{"encrypted_data":"!!","salt":"` + salt + `","iv":"` + salt + `","mac":"` + salt + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope([]byte(tt.json))
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
			assert.Nil(t, env)
		})
	}
}

func TestMarshalEnvelopeRejectsPartial(t *testing.T) {
	_, err := MarshalEnvelope(&Envelope{Ciphertext: []byte{}, Salt: []byte("s")})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}
