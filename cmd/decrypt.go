package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/tokensafe/internal/config"
	"github.com/illarion/tokensafe/internal/crypto"
	"github.com/illarion/tokensafe/internal/encryption"
)

// Decrypt verifies and opens an envelope read from in (stdin if empty)
func Decrypt(ctx context.Context, in, out string) {
	cfg := LoadConfig()

	plaintext := openEnvelope(ctx, cfg, in)
	defer crypto.ClearBytes(plaintext)

	if err := writeOutput(out, plaintext); err != nil {
		HandleError(err)
	}
	if out != "" && out != "-" {
		fmt.Fprintf(os.Stderr, "Decrypted %s into %s\n", formatSize(int64(len(plaintext))), out)
	}
}

// openEnvelope reads, parses and decrypts the envelope at in, exiting on error
func openEnvelope(ctx context.Context, cfg *config.Config, in string) []byte {
	raw, err := readInput(in)
	if err != nil {
		HandleError(err)
	}

	env, err := encryption.ParseEnvelope(raw)
	if err != nil {
		HandleError(err)
	}

	if err := ctx.Err(); err != nil {
		HandleError(err)
	}

	password := GetPasswordOrExit(cfg, "Enter password: ", false)
	defer crypto.ClearBytes(password)

	service, err := encryption.NewService(cfg.KDFIterations, cfg.Logger())
	if err != nil {
		HandleError(err)
	}

	plaintext, err := service.Decrypt(env, password)
	if err != nil {
		HandleError(err)
	}
	return plaintext
}
