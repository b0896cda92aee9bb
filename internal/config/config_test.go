package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/illarion/tokensafe/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ".tokensafe", cfg.StorePath)
				assert.Equal(t, 100000, cfg.KDFIterations)
				assert.Equal(t, 3, cfg.Fragments)
				assert.Equal(t, "xor", cfg.Scheme)
				assert.Equal(t, "warn", cfg.LogLevel)
				assert.Equal(t, "tokensafe", cfg.KeyringService)
				assert.NoError(t, cfg.Validate())
			},
		},
		{
			name: "load custom configuration",
			envVars: map[string]string{
				"TOKENSAFE_STORE":          "/tmp/tokens.db",
				"TOKENSAFE_KDF_ITERATIONS": "600000",
				"TOKENSAFE_FRAGMENTS":      "5",
				"TOKENSAFE_SCHEME":         "shamir",
				"TOKENSAFE_LOG_LEVEL":      "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/tokens.db", cfg.StorePath)
				assert.Equal(t, 600000, cfg.KDFIterations)
				assert.Equal(t, 5, cfg.Fragments)
				assert.Equal(t, "shamir", cfg.Scheme)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.NoError(t, cfg.Validate())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Run from an empty directory so no .env file is picked up
			t.Chdir(t.TempDir())
			for _, key := range []string{
				"TOKENSAFE_STORE", "TOKENSAFE_KDF_ITERATIONS", "TOKENSAFE_FRAGMENTS",
				"TOKENSAFE_SCHEME", "TOKENSAFE_LOG_LEVEL", "TOKENSAFE_KEYRING_SERVICE",
			} {
				t.Setenv(key, "")
				os.Unsetenv(key)
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			tt.validate(t, Load())
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TOKENSAFE_FRAGMENTS=4\n"), 0600))

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0700))
	t.Chdir(sub)

	t.Setenv("TOKENSAFE_FRAGMENTS", "")
	os.Unsetenv("TOKENSAFE_FRAGMENTS")

	assert.Equal(t, 4, Load().Fragments)
}

func TestValidate(t *testing.T) {
	valid := Config{StorePath: ".tokensafe", KDFIterations: 100000, Fragments: 3, Scheme: "xor"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty store", func(c *Config) { c.StorePath = "" }},
		{"low iterations", func(c *Config) { c.KDFIterations = 1000 }},
		{"one fragment", func(c *Config) { c.Fragments = 1 }},
		{"unknown scheme", func(c *Config) { c.Scheme = "rot13" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), errors.ErrInvalidInput)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	NewLogger(&buf, "DEBUG").Debug("details")
	assert.Contains(t, buf.String(), "details")
}
