package encryption

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/illarion/tokensafe/internal/errors"
)

var fieldEncoding = base64.URLEncoding

// Envelope is the self-describing output of Encrypt. Treat it as immutable.
type Envelope struct {
	Ciphertext []byte
	Salt       []byte
	IV         []byte
	Tag        []byte
}

// wireEnvelope is the external JSON form. Field names are a public contract.
type wireEnvelope struct {
	EncryptedData *string `json:"encrypted_data"`
	Salt          string  `json:"salt"`
	IV            string  `json:"iv"`
	MAC           string  `json:"mac"`
}

// Validate checks that every field needed for decryption is present
func (e *Envelope) Validate() error {
	if e == nil {
		return errors.Wrap(errors.ErrInvalidInput, "nil envelope")
	}
	switch {
	case e.Ciphertext == nil:
		return missingField("encrypted_data")
	case len(e.Salt) == 0:
		return missingField("salt")
	case len(e.IV) == 0:
		return missingField("iv")
	case len(e.Tag) == 0:
		return missingField("mac")
	}
	return nil
}

// MarshalJSON encodes the envelope in its four-field wire form
func (e Envelope) MarshalJSON() ([]byte, error) {
	data := fieldEncoding.EncodeToString(e.Ciphertext)
	return json.Marshal(wireEnvelope{
		EncryptedData: &data,
		Salt:          fieldEncoding.EncodeToString(e.Salt),
		IV:            fieldEncoding.EncodeToString(e.IV),
		MAC:           fieldEncoding.EncodeToString(e.Tag),
	})
}

// UnmarshalJSON decodes the wire form and rejects partial envelopes
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: malformed envelope: %v", errors.ErrInvalidInput, err)
	}

	if w.EncryptedData == nil {
		return missingField("encrypted_data")
	}

	var decoded Envelope
	fields := []struct {
		name  string
		value string
		dst   *[]byte
	}{
		{"encrypted_data", *w.EncryptedData, &decoded.Ciphertext},
		{"salt", w.Salt, &decoded.Salt},
		{"iv", w.IV, &decoded.IV},
		{"mac", w.MAC, &decoded.Tag},
	}
	for _, f := range fields {
		b, err := fieldEncoding.DecodeString(f.value)
		if err != nil {
			return fmt.Errorf("%w: field %s is not valid base64", errors.ErrInvalidInput, f.name)
		}
		*f.dst = b
	}

	if err := decoded.Validate(); err != nil {
		return err
	}

	*e = decoded
	return nil
}

// ParseEnvelope decodes an envelope from its JSON wire form
func ParseEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if errors.Is(err, errors.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: malformed envelope: %v", errors.ErrInvalidInput, err)
	}
	return &env, nil
}

// MarshalEnvelope encodes an envelope as indented JSON
func MarshalEnvelope(env *Envelope) ([]byte, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(env, "", "  ")
}

func missingField(name string) error {
	return fmt.Errorf("%w: envelope field %s is required", errors.ErrInvalidInput, name)
}
