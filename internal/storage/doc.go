// Package storage provides the BBolt database interface for tokensafe.
//
// Database structure uses three buckets:
//   - config: format version, timestamps, store ID
//   - tokens: token name -> JSON TokenRecord (every fragment of the set)
//   - index: token name -> JSON IndexEntry (counts and timestamps only)
//
// The index bucket lets list and status run without reading fragment
// payloads. Fragments are NOT encrypted at rest: anyone who can read the
// database file can reassemble every token in it.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
