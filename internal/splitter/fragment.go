package splitter

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/illarion/tokensafe/internal/errors"
)

const (
	FragmentSaltSize = 8
	fragmentIDLen    = 16 // hex characters
)

// Fragment is one piece of a split secret
type Fragment struct {
	Index   int    `json:"fragment_index"`
	Total   int    `json:"total_fragments"`
	SetID   string `json:"set_id"`
	Scheme  Scheme `json:"scheme"`
	Salt    []byte `json:"fragment_salt"`
	Payload []byte `json:"fragment_bytes"`
	ID      string `json:"fragment_id"`
}

// FragmentSet is the full list of fragments produced by one Split call
type FragmentSet []Fragment

// computeID derives the fragment ID from the fragment's own fields
func (f *Fragment) computeID() string {
	h := sha256.New()
	h.Write(f.Salt)
	h.Write([]byte(f.SetID))
	h.Write([]byte(f.Scheme))
	var hdr [16]byte
	binary.BigEndian.PutUint64(hdr[:8], uint64(f.Index))
	binary.BigEndian.PutUint64(hdr[8:], uint64(f.Total))
	h.Write(hdr[:])
	h.Write(f.Payload)
	return hex.EncodeToString(h.Sum(nil))[:fragmentIDLen]
}

// Verify checks that the fragment ID matches the fragment contents
func (f *Fragment) Verify() error {
	if f.ID != f.computeID() {
		return fmt.Errorf("%w: fragment %d is corrupted", errors.ErrInvalidInput, f.Index)
	}
	return nil
}

// String renders the fragment as index/total:scheme:set:salt:payload:id, the
// form accepted by ParseFragment
func (f Fragment) String() string {
	enc := base64.RawURLEncoding
	return fmt.Sprintf("%d/%d:%s:%s:%s:%s:%s",
		f.Index, f.Total, f.Scheme, f.SetID,
		enc.EncodeToString(f.Salt), enc.EncodeToString(f.Payload), f.ID)
}

// ParseFragment parses the textual form produced by Fragment.String
func ParseFragment(s string) (Fragment, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 6 {
		return Fragment{}, fmt.Errorf("%w: fragment must have 6 fields", errors.ErrInvalidInput)
	}

	pos := strings.SplitN(parts[0], "/", 2)
	if len(pos) != 2 {
		return Fragment{}, fmt.Errorf("%w: fragment position must be index/total", errors.ErrInvalidInput)
	}
	index, err := strconv.Atoi(pos[0])
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: invalid fragment index %q", errors.ErrInvalidInput, pos[0])
	}
	total, err := strconv.Atoi(pos[1])
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: invalid fragment total %q", errors.ErrInvalidInput, pos[1])
	}

	enc := base64.RawURLEncoding
	salt, err := enc.DecodeString(parts[3])
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: invalid fragment salt", errors.ErrInvalidInput)
	}
	payload, err := enc.DecodeString(parts[4])
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: invalid fragment payload", errors.ErrInvalidInput)
	}

	f := Fragment{
		Index:   index,
		Total:   total,
		Scheme:  Scheme(parts[1]),
		SetID:   parts[2],
		Salt:    salt,
		Payload: payload,
		ID:      parts[5],
	}
	if err := f.Verify(); err != nil {
		return Fragment{}, err
	}
	return f, nil
}
