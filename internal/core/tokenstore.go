package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/illarion/tokensafe/internal/errors"
	"github.com/illarion/tokensafe/internal/git"
	"github.com/illarion/tokensafe/internal/splitter"
	"github.com/illarion/tokensafe/internal/storage"
)

const (
	StoreFile        = ".tokensafe"
	DefaultFragments = 3
	MaxNameLength    = 256
)

// Options configures a TokenStore
type Options struct {
	Fragments int          // Fragments per token, DefaultFragments if zero
	Scheme    string       // Splitting scheme, "xor" if empty
	Logger    *slog.Logger // Discards output if nil
}

// TokenStore persists named tokens as fragment sets. It owns the store file
// exclusively while open; each operation runs in a single transaction.
type TokenStore struct {
	db        *storage.Storage
	splitter  *splitter.Splitter
	fragments int
	logger    *slog.Logger
}

// Open opens or creates the token store at path
func Open(path string, opts Options) (*TokenStore, error) {
	sp, err := splitter.New(opts.Scheme)
	if err != nil {
		return nil, err
	}

	fragments := opts.Fragments
	if fragments == 0 {
		fragments = DefaultFragments
	}
	if fragments < splitter.MinFragments {
		return nil, fmt.Errorf("%w: fragment count must be at least %d", errors.ErrInvalidInput, splitter.MinFragments)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}

	return &TokenStore{
		db:        db,
		splitter:  sp,
		fragments: fragments,
		logger:    logger,
	}, nil
}

// Close releases the store file
func (t *TokenStore) Close() error {
	return t.db.Close()
}

// Path returns the store file path
func (t *TokenStore) Path() string {
	return t.db.Path()
}

// Store splits secret into the default number of fragments and saves them
// under name. See StoreParts.
func (t *TokenStore) Store(ctx context.Context, name string, secret []byte) (splitter.FragmentSet, error) {
	return t.StoreParts(ctx, name, secret, t.fragments)
}

// StoreParts splits secret into parts fragments and saves them under name.
// An existing token with the same name is replaced (last write wins).
// Fragments are persisted unencrypted: anyone who can read the store file
// can recover the token.
func (t *TokenStore) StoreParts(ctx context.Context, name string, secret []byte, parts int) (splitter.FragmentSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	set, err := t.splitter.Split(secret, parts)
	if err != nil {
		return nil, err
	}

	if err := t.db.PutRecord(storage.NewTokenRecord(name, set)); err != nil {
		return nil, fmt.Errorf("failed to store token %q: %w", name, err)
	}

	t.logger.Debug("token stored", "name", name, "fragments", parts, "scheme", t.splitter.Scheme)
	return set, nil
}

// Retrieve loads and reassembles the token stored under name
func (t *TokenStore) Retrieve(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	record, err := t.db.GetRecord(name)
	if err != nil {
		return nil, err
	}
	defer record.Fragments.Wipe()

	secret, err := splitter.Reassemble(record.Fragments)
	if err != nil {
		return nil, fmt.Errorf("token %q: %w", name, err)
	}

	t.logger.Debug("token retrieved", "name", name)
	return secret, nil
}

// Fragments returns the stored fragments of a token without reassembling it
func (t *TokenStore) Fragments(ctx context.Context, name string) (splitter.FragmentSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	record, err := t.db.GetRecord(name)
	if err != nil {
		return nil, err
	}
	return record.Fragments, nil
}

// List returns the names of all stored tokens in sorted order
func (t *TokenStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names, err := t.db.GetNames()
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the token stored under name
func (t *TokenStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}

	if err := t.db.DeleteRecord(name); err != nil {
		return err
	}

	t.logger.Debug("token deleted", "name", name)
	return nil
}

// Compact rewrites the store file to reclaim space left by deleted tokens
func (t *TokenStore) Compact() error {
	return t.db.Compact()
}

// GetStoreID retrieves the store ID used for keyring lookups
func (t *TokenStore) GetStoreID() (string, error) {
	return t.db.GetStoreID()
}

// GetOrCreateStoreID retrieves or creates the store ID
func (t *TokenStore) GetOrCreateStoreID() (string, error) {
	return t.db.GetOrCreateStoreID()
}

// StatusInfo summarizes the store without reading any fragment payloads
type StatusInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
	Tokens       []storage.IndexEntry
	GitStatus    *git.GitStatus
}

// Status returns the current store summary and its git exposure
func (t *TokenStore) Status(ctx context.Context) (*StatusInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	status := &StatusInfo{Path: t.db.Path()}

	if info, err := os.Stat(status.Path); err == nil {
		status.Size = info.Size()
	}
	if modified, err := t.db.GetModified(); err == nil {
		status.LastModified = modified
	}

	entries, err := t.db.GetIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	status.Tokens = entries

	absPath, err := filepath.Abs(status.Path)
	if err == nil {
		gitStatus, err := git.CheckStoreExposure(filepath.Dir(absPath), filepath.Base(absPath))
		if err == nil && gitStatus.IsRepo {
			status.GitStatus = gitStatus
		}
	}

	return status, nil
}

func validateName(name string) error {
	if name == "" {
		return errors.Wrap(errors.ErrInvalidInput, "token name must not be empty")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: token name longer than %d bytes", errors.ErrInvalidInput, MaxNameLength)
	}
	return nil
}
