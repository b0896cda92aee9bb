package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/illarion/tokensafe/internal/git"
)

// Status shows the token store summary. It never reads fragment payloads.
func Status(ctx context.Context) {
	cfg := LoadConfig()

	if _, err := os.Stat(cfg.StorePath); err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No token store at %s\n", cfg.StorePath)
			fmt.Println("Run 'tokensafe token split <name>' to create one")
			return
		}
		HandleError(err)
	}

	store := OpenStore(cfg, "")
	defer store.Close()

	status, err := store.Status(ctx)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Store: %s (%s)\n", status.Path, formatSize(status.Size))
	if !status.LastModified.IsZero() {
		fmt.Printf("Last modified: %s\n", status.LastModified.Format(time.RFC3339))
	}
	fmt.Printf("Defaults: %d fragments, %s scheme, %d KDF iterations\n",
		cfg.Fragments, cfg.Scheme, cfg.KDFIterations)

	fmt.Printf("\nTokens (%d):\n", len(status.Tokens))
	if len(status.Tokens) == 0 {
		fmt.Println("  (none)")
	}
	for _, entry := range status.Tokens {
		fmt.Printf("  %-24s %d fragments, %s, updated %s\n",
			entry.Name, entry.Fragments, entry.Scheme, entry.Updated.Format(time.RFC3339))
	}

	fmt.Print(git.FormatGitStatus(status.GitStatus))
}
