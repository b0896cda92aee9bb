package cmd

import (
	"context"
	"fmt"
	"os"
)

// Compact compacts the token store to reclaim unused space
func Compact(ctx context.Context) {
	cfg := LoadConfig()

	if _, err := os.Stat(cfg.StorePath); os.IsNotExist(err) {
		fmt.Printf("No token store at %s\n", cfg.StorePath)
		return
	}

	store := OpenStore(cfg, "")
	defer store.Close()

	info, err := os.Stat(store.Path())
	if err != nil {
		HandleError(err)
	}
	sizeBefore := info.Size()

	if err := ctx.Err(); err != nil {
		HandleError(err)
	}
	if err := store.Compact(); err != nil {
		HandleError(err)
	}

	info, err = os.Stat(store.Path())
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(info.Size()))
}
