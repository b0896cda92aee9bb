package splitter

import (
	"crypto/rand"
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"
	"github.com/illarion/tokensafe/internal/crypto"
	"github.com/illarion/tokensafe/internal/errors"
)

const (
	MinFragments = 2
	MaxFragments = 255
)

// Splitter splits secrets using a fixed scheme. A zero-value Splitter uses
// SchemeXOR and crypto/rand.
type Splitter struct {
	Scheme Scheme
	Rand   io.Reader
}

// New creates a Splitter for the named scheme
func New(scheme string) (*Splitter, error) {
	s, err := ParseScheme(scheme)
	if err != nil {
		return nil, err
	}
	return &Splitter{Scheme: s, Rand: rand.Reader}, nil
}

// Split divides secret into count fragments. All count fragments are needed
// to reassemble it.
func (s *Splitter) Split(secret []byte, count int) (FragmentSet, error) {
	if len(secret) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty secret")
	}
	if count < MinFragments || count > MaxFragments {
		return nil, fmt.Errorf("%w: fragment count must be between %d and %d",
			errors.ErrInvalidInput, MinFragments, MaxFragments)
	}

	scheme, err := ParseScheme(string(s.Scheme))
	if err != nil {
		return nil, err
	}
	sh, err := sharerFor(scheme)
	if err != nil {
		return nil, err
	}
	random := s.Rand
	if random == nil {
		random = rand.Reader
	}

	setID, err := uuid.NewRandomFromReader(random)
	if err != nil {
		return nil, fmt.Errorf("failed to generate set id: %w", err)
	}

	shares, err := sh.split(random, secret, count)
	if err != nil {
		return nil, err
	}

	set := make(FragmentSet, count)
	for i, share := range shares {
		salt := make([]byte, FragmentSaltSize)
		if _, err := io.ReadFull(random, salt); err != nil {
			return nil, fmt.Errorf("failed to generate fragment salt: %w", err)
		}
		set[i] = Fragment{
			Index:   i,
			Total:   count,
			SetID:   setID.String(),
			Scheme:  scheme,
			Salt:    salt,
			Payload: share,
		}
		set[i].ID = set[i].computeID()
	}

	return set, nil
}

// Reassemble rebuilds the secret from a complete fragment set. Input order
// does not matter; fragments are combined in ascending index order.
func Reassemble(fragments []Fragment) ([]byte, error) {
	if len(fragments) == 0 {
		return nil, errors.Wrap(errors.ErrIncompleteFragmentSet, "no fragments")
	}

	first := fragments[0]
	for _, f := range fragments[1:] {
		if f.SetID != first.SetID || f.Scheme != first.Scheme || f.Total != first.Total {
			return nil, errors.ErrFragmentSetMismatch
		}
	}

	if first.Total < MinFragments {
		return nil, fmt.Errorf("%w: fragment set declares %d fragments", errors.ErrInvalidInput, first.Total)
	}
	if len(fragments) != first.Total {
		return nil, fmt.Errorf("%w: have %d of %d fragments",
			errors.ErrIncompleteFragmentSet, len(fragments), first.Total)
	}

	sorted := slices.Clone(fragments)
	slices.SortFunc(sorted, func(a, b Fragment) int { return a.Index - b.Index })
	for i := range sorted {
		if sorted[i].Index != i {
			return nil, fmt.Errorf("%w: fragment index %d missing", errors.ErrIncompleteFragmentSet, i)
		}
		if err := sorted[i].Verify(); err != nil {
			return nil, err
		}
	}

	sh, err := sharerFor(first.Scheme)
	if err != nil {
		return nil, err
	}

	shares := make([][]byte, len(sorted))
	for i := range sorted {
		shares[i] = sorted[i].Payload
	}
	return sh.combine(shares)
}

// Wipe zeroes every payload in the set
func (fs FragmentSet) Wipe() {
	for i := range fs {
		crypto.ClearBytes(fs[i].Payload)
	}
}
