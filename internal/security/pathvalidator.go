package security

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize bounds reads of envelope and comparison files
const MaxFileSize = 64 << 20

var (
	ErrPathEscapes  = errors.New("path escapes working directory")
	ErrAbsolutePath = errors.New("absolute paths are not allowed")
	ErrEmptyPath    = errors.New("empty path not allowed")
	ErrFileTooLarge = errors.New("file too large")
)

// PathValidator confines envelope file reads and writes to a single
// directory tree. All access goes through os.Root, so symlinks that point
// outside the tree are rejected by the kernel as well.
type PathValidator struct {
	root    *os.Root
	rootDir string
}

// New opens dir as the confinement root
func New(dir string) (*PathValidator, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open root directory: %w", err)
	}

	return &PathValidator{
		root:    root,
		rootDir: absPath,
	}, nil
}

// Close releases the root handle
func (pv *PathValidator) Close() error {
	if pv.root != nil {
		return pv.root.Close()
	}
	return nil
}

// Dir returns the absolute root directory
func (pv *PathValidator) Dir() string {
	return pv.rootDir
}

// Normalize validates a user-provided path and returns it cleaned and
// relative to the root. Empty, absolute and escaping paths are rejected.
func (pv *PathValidator) Normalize(userPath string) (string, error) {
	if userPath == "" {
		return "", ErrEmptyPath
	}

	if !filepath.IsLocal(userPath) {
		if filepath.IsAbs(userPath) {
			return "", fmt.Errorf("%w: %s", ErrAbsolutePath, userPath)
		}
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
	}

	cleanPath := filepath.Clean(userPath)
	relPath, err := filepath.Rel(pv.rootDir, filepath.Join(pv.rootDir, cleanPath))
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path: %w", err)
	}
	if strings.HasPrefix(relPath, "..") || filepath.IsAbs(relPath) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
	}

	return relPath, nil
}

// ReadFile reads a file inside the root, refusing anything over MaxFileSize
func (pv *PathValidator) ReadFile(path string) ([]byte, error) {
	rel, err := pv.Normalize(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	f, err := pv.root.Open(rel)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, path)
	}
	return data, nil
}

// WriteFile writes data to a file inside the root with owner-only
// permissions, creating missing parent directories.
func (pv *PathValidator) WriteFile(path string, data []byte) error {
	rel, err := pv.Normalize(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	if dir := filepath.Dir(rel); dir != "." {
		if err := pv.mkdirAll(dir); err != nil {
			return err
		}
	}

	f, err := pv.root.OpenFile(rel, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Stat stats a file inside the root
func (pv *PathValidator) Stat(path string) (os.FileInfo, error) {
	rel, err := pv.Normalize(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	return pv.root.Stat(rel)
}

func (pv *PathValidator) mkdirAll(dir string) error {
	var current string
	for _, part := range strings.Split(dir, string(filepath.Separator)) {
		current = filepath.Join(current, part)
		err := pv.root.Mkdir(current, 0700)
		if err != nil && !errors.Is(err, os.ErrExist) {
			return err
		}
	}
	return nil
}
