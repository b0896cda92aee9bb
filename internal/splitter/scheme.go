package splitter

import (
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/illarion/tokensafe/internal/crypto"
	"github.com/illarion/tokensafe/internal/errors"
	"github.com/wbrc/shamir"
)

// Scheme names a secret sharing construction
type Scheme string

const (
	SchemeXOR    Scheme = "xor"
	SchemeShamir Scheme = "shamir"
)

// ParseScheme validates a scheme name. The empty string selects SchemeXOR.
func ParseScheme(name string) (Scheme, error) {
	switch Scheme(name) {
	case "", SchemeXOR:
		return SchemeXOR, nil
	case SchemeShamir:
		return SchemeShamir, nil
	}
	return "", fmt.Errorf("%w: unknown scheme %q", errors.ErrInvalidInput, name)
}

type sharer interface {
	split(random io.Reader, secret []byte, n int) ([][]byte, error)
	// combine receives shares in ascending index order
	combine(shares [][]byte) ([]byte, error)
}

func sharerFor(s Scheme) (sharer, error) {
	switch s {
	case SchemeXOR:
		return xorSharer{}, nil
	case SchemeShamir:
		return shamirSharer{}, nil
	}
	return nil, fmt.Errorf("%w: unknown scheme %q", errors.ErrInvalidInput, s)
}

type xorSharer struct{}

func (xorSharer) split(random io.Reader, secret []byte, n int) ([][]byte, error) {
	shares := make([][]byte, n)
	last := append([]byte(nil), secret...)

	for i := 0; i < n-1; i++ {
		pad := make([]byte, len(secret))
		if _, err := io.ReadFull(random, pad); err != nil {
			crypto.ClearBytes(last)
			return nil, fmt.Errorf("failed to generate pad: %w", err)
		}
		subtle.XORBytes(last, last, pad)
		shares[i] = pad
	}
	shares[n-1] = last

	return shares, nil
}

func (xorSharer) combine(shares [][]byte) ([]byte, error) {
	secret := make([]byte, len(shares[0]))
	for _, share := range shares {
		if len(share) != len(secret) {
			crypto.ClearBytes(secret)
			return nil, errors.Wrap(errors.ErrInvalidInput, "inconsistent fragment length")
		}
		subtle.XORBytes(secret, secret, share)
	}
	return secret, nil
}

// shamirSharer frames the secret as | pad length | secret | pad | so that it
// is a whole number of GF(2^16) words.
type shamirSharer struct{}

func (shamirSharer) split(random io.Reader, secret []byte, n int) ([][]byte, error) {
	padLen := (1 + len(secret)) % 2
	framed := make([]byte, 1+len(secret)+padLen)
	defer crypto.ClearBytes(framed)

	framed[0] = byte(padLen)
	copy(framed[1:], secret)

	dealer := &shamir.Dealer{Rand: random}
	shares, err := dealer.Split(n, n, framed)
	if err != nil {
		return nil, fmt.Errorf("failed to split secret: %w", err)
	}
	return shares, nil
}

// minShamirShare is the x word plus one word of framed secret
const minShamirShare = 4

func (shamirSharer) combine(shares [][]byte) ([]byte, error) {
	for _, share := range shares {
		if len(share) != len(shares[0]) {
			return nil, errors.Wrap(errors.ErrInvalidInput, "inconsistent fragment length")
		}
		if len(share) < minShamirShare || len(share)%2 != 0 {
			return nil, fmt.Errorf("%w: shamir fragment length %d is not a whole number of words",
				errors.ErrInvalidInput, len(share))
		}
	}

	framed, err := shamir.Combine(shares)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}
	defer crypto.ClearBytes(framed)

	if len(framed) == 0 || framed[0] > 1 || len(framed) < 1+int(framed[0]) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "malformed shamir framing")
	}

	end := len(framed) - int(framed[0])
	return append([]byte(nil), framed[1:end]...), nil
}
