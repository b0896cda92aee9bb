package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/illarion/tokensafe/internal/config"
	"github.com/illarion/tokensafe/internal/core"
	"github.com/illarion/tokensafe/internal/errors"
	"github.com/illarion/tokensafe/internal/keyring"
	"github.com/illarion/tokensafe/internal/security"
)

// LoadConfig loads and validates configuration, exiting on error
func LoadConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		HandleError(err)
	}
	return cfg
}

// OpenStore opens the configured token store, exiting on error
func OpenStore(cfg *config.Config, scheme string) *core.TokenStore {
	if scheme == "" {
		scheme = cfg.Scheme
	}
	store, err := core.Open(cfg.StorePath, core.Options{
		Fragments: cfg.Fragments,
		Scheme:    scheme,
		Logger:    cfg.Logger(),
	})
	if err != nil {
		HandleError(err)
	}
	return store
}

// GetPassword retrieves the password from the environment, then the OS
// keyring, then the terminal. When confirm is set a prompted password must
// be typed twice. The caller clears the returned bytes.
func GetPassword(cfg *config.Config, prompt string, confirm bool) ([]byte, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		return password, nil
	}

	if password := passwordFromKeyring(cfg); password != nil {
		return password, nil
	}

	if confirm {
		return core.ReadPasswordConfirm(prompt)
	}
	return core.ReadPassword(prompt)
}

// GetPasswordOrExit is like GetPassword but exits on error
func GetPasswordOrExit(cfg *config.Config, prompt string, confirm bool) []byte {
	password, err := GetPassword(cfg, prompt, confirm)
	if err != nil {
		HandleError(err)
	}
	return password
}

// passwordFromKeyring only looks at an existing store; it never creates one
func passwordFromKeyring(cfg *config.Config) []byte {
	if _, err := os.Stat(cfg.StorePath); err != nil {
		return nil
	}

	store, err := core.Open(cfg.StorePath, core.Options{Logger: cfg.Logger()})
	if err != nil {
		return nil
	}
	storeID, err := store.GetStoreID()
	store.Close()
	if err != nil {
		return nil
	}

	password, err := keyring.New(cfg.KeyringService).GetPassword(storeID)
	if err != nil || password == "" {
		return nil
	}
	cfg.Logger().Debug("using password from keyring", "store_id", storeID)
	return []byte(password)
}

// HandleError prints err and exits with status 1
func HandleError(err error) {
	switch {
	case errors.Is(err, errors.ErrIntegrity):
		fmt.Fprintf(os.Stderr, "Error: %s (wrong password or corrupted data)\n", err)
	case errors.Is(err, errors.ErrNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use 'tokensafe token list' to see stored tokens\n")
	case errors.Is(err, errors.ErrIncompleteFragmentSet):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Every fragment of the set is required\n")
	case errors.Is(err, errors.ErrFragmentSetMismatch):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Fragments come from different splits\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}

// readInput reads path confined to the working directory, or stdin for "" and "-"
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(io.LimitReader(os.Stdin, security.MaxFileSize))
	}

	validator, err := security.New(".")
	if err != nil {
		return nil, err
	}
	defer validator.Close()

	return validator.ReadFile(path)
}

// writeOutput writes data to path confined to the working directory, or
// stdout for "" and "-"
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	validator, err := security.New(".")
	if err != nil {
		return err
	}
	defer validator.Close()

	return validator.WriteFile(path, data)
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
