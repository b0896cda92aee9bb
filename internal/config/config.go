// Package config provides tokensafe configuration through environment variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/allisson/go-env"
	"github.com/illarion/tokensafe/internal/crypto"
	"github.com/illarion/tokensafe/internal/errors"
	"github.com/illarion/tokensafe/internal/splitter"
	"github.com/joho/godotenv"
)

// Config holds all tokensafe configuration.
type Config struct {
	// StorePath is the token store database file.
	StorePath string
	// KDFIterations is the PBKDF2 cost used for encrypt and decrypt.
	KDFIterations int
	// Fragments is the default number of fragments per token.
	Fragments int
	// Scheme is the default splitting scheme ("xor" or "shamir").
	Scheme string
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string
	// KeyringService is the service name used for OS keyring entries.
	KeyringService string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		StorePath:      env.GetString("TOKENSAFE_STORE", ".tokensafe"),
		KDFIterations:  env.GetInt("TOKENSAFE_KDF_ITERATIONS", crypto.DefaultIters),
		Fragments:      env.GetInt("TOKENSAFE_FRAGMENTS", 3),
		Scheme:         env.GetString("TOKENSAFE_SCHEME", string(splitter.SchemeXOR)),
		LogLevel:       env.GetString("TOKENSAFE_LOG_LEVEL", "warn"),
		KeyringService: env.GetString("TOKENSAFE_KEYRING_SERVICE", "tokensafe"),
	}
}

// Validate rejects settings the core would refuse later.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return errors.Wrap(errors.ErrInvalidInput, "TOKENSAFE_STORE must not be empty")
	}
	if c.KDFIterations < crypto.MinIterations {
		return fmt.Errorf("%w: TOKENSAFE_KDF_ITERATIONS must be at least %d",
			errors.ErrInvalidInput, crypto.MinIterations)
	}
	if c.Fragments < splitter.MinFragments || c.Fragments > splitter.MaxFragments {
		return fmt.Errorf("%w: TOKENSAFE_FRAGMENTS must be between %d and %d",
			errors.ErrInvalidInput, splitter.MinFragments, splitter.MaxFragments)
	}
	if _, err := splitter.ParseScheme(c.Scheme); err != nil {
		return fmt.Errorf("TOKENSAFE_SCHEME: %w", err)
	}
	return nil
}

// NewLogger creates a text logger on w at the given level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// Logger creates the stderr logger for the configured level.
func (c *Config) Logger() *slog.Logger {
	return NewLogger(os.Stderr, c.LogLevel)
}

// loadDotEnv searches for a .env file from the current directory up to the
// root and loads the first one found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
