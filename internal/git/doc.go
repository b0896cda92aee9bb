// Package git checks whether the token store is exposed to version control.
//
// Fragments are stored unencrypted, so the store file should never be
// tracked and should be listed in .gitignore.
package git
