package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/tokensafe/internal/crypto"
	"github.com/illarion/tokensafe/internal/encryption"
)

// Encrypt seals plaintext into an envelope. The plaintext comes from data,
// or the in file, or stdin, in that order.
func Encrypt(ctx context.Context, data, in, out string) {
	cfg := LoadConfig()

	var plaintext []byte
	if data != "" {
		plaintext = []byte(data)
	} else {
		var err error
		plaintext, err = readInput(in)
		if err != nil {
			HandleError(err)
		}
	}
	defer crypto.ClearBytes(plaintext)

	if err := ctx.Err(); err != nil {
		HandleError(err)
	}

	password := GetPasswordOrExit(cfg, "Enter password: ", true)
	defer crypto.ClearBytes(password)

	service, err := encryption.NewService(cfg.KDFIterations, cfg.Logger())
	if err != nil {
		HandleError(err)
	}

	env, err := service.Encrypt(plaintext, password)
	if err != nil {
		HandleError(err)
	}

	encoded, err := encryption.MarshalEnvelope(env)
	if err != nil {
		HandleError(err)
	}
	encoded = append(encoded, '\n')

	if err := writeOutput(out, encoded); err != nil {
		HandleError(err)
	}
	if out != "" && out != "-" {
		fmt.Fprintf(os.Stderr, "Encrypted %s into %s\n", formatSize(int64(len(plaintext))), out)
	}
}
