// Package core provides the main tokensafe operations.
//
// Core operations include:
//   - Store: Split a token into fragments and persist them under a name
//   - Retrieve: Load a token's fragments and reassemble it
//   - List/Delete/Fragments: Inspect and manage stored tokens
//   - Status: Summarize the store and its git exposure
//
// Stored fragments are not encrypted at rest. Protect the store file like
// the tokens themselves, or encrypt tokens with the encryption package
// before storing them.
package core
