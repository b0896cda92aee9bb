package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/illarion/tokensafe/internal/core"
	"github.com/illarion/tokensafe/internal/crypto"
)

// Diff compares the contents of an envelope with a local file
func Diff(ctx context.Context, in, local string) {
	cfg := LoadConfig()

	localData, err := readInput(local)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(localData)

	plaintext := openEnvelope(ctx, cfg, in)
	defer crypto.ClearBytes(plaintext)

	diff, err := core.GenerateUnifiedDiff(filepath.ToSlash(local), plaintext, localData)
	if err != nil {
		HandleError(err)
	}

	if diff == "" {
		fmt.Printf("%s: unchanged\n", local)
		return
	}
	fmt.Print(diff)
}
