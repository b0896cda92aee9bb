package storage

import (
	"time"

	"github.com/illarion/tokensafe/internal/splitter"
)

// RecordVersion is the current TokenRecord format
const RecordVersion = 1

// TokenRecord is the persisted form of one named token
type TokenRecord struct {
	Version   int                  `json:"version"`
	Name      string               `json:"name"`
	Created   time.Time            `json:"created"`
	Updated   time.Time            `json:"updated"`
	Fragments splitter.FragmentSet `json:"fragments"`
}

// IndexEntry describes a stored token without any fragment material
type IndexEntry struct {
	Name      string          `json:"name"`
	Fragments int             `json:"fragments"`
	Scheme    splitter.Scheme `json:"scheme"`
	Created   time.Time       `json:"created"`
	Updated   time.Time       `json:"updated"`
}

// NewTokenRecord creates a record for a freshly split token
func NewTokenRecord(name string, fragments splitter.FragmentSet) *TokenRecord {
	now := time.Now()
	return &TokenRecord{
		Version:   RecordVersion,
		Name:      name,
		Created:   now,
		Updated:   now,
		Fragments: fragments,
	}
}

// IndexEntry returns the public summary of the record
func (r *TokenRecord) IndexEntry() IndexEntry {
	entry := IndexEntry{
		Name:      r.Name,
		Fragments: len(r.Fragments),
		Created:   r.Created,
		Updated:   r.Updated,
	}
	if len(r.Fragments) > 0 {
		entry.Scheme = r.Fragments[0].Scheme
	}
	return entry
}
