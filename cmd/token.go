package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/tokensafe/internal/core"
	"github.com/illarion/tokensafe/internal/crypto"
	"github.com/illarion/tokensafe/internal/splitter"
)

// TokenSplit splits a token into fragments and stores them under name.
// The token is read from the prompt when not given.
func TokenSplit(ctx context.Context, name string, parts int, scheme, token string) {
	cfg := LoadConfig()
	if parts == 0 {
		parts = cfg.Fragments
	}

	var secret []byte
	if token != "" {
		secret = []byte(token)
	} else {
		var err error
		secret, err = core.ReadPassword(fmt.Sprintf("Enter token for %s: ", name))
		if err != nil {
			HandleError(err)
		}
	}
	defer crypto.ClearBytes(secret)

	store := OpenStore(cfg, scheme)
	defer store.Close()

	set, err := store.StoreParts(ctx, name, secret, parts)
	if err != nil {
		HandleError(err)
	}
	defer set.Wipe()

	fmt.Printf("Stored %s as %d %s fragments\n", name, len(set), set[0].Scheme)
	warnIfExposed(ctx, store)
}

// TokenList lists stored token names
func TokenList(ctx context.Context) {
	cfg := LoadConfig()
	store := OpenStore(cfg, "")
	defer store.Close()

	names, err := store.List(ctx)
	if err != nil {
		HandleError(err)
	}

	if len(names) == 0 {
		fmt.Println("No tokens stored")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

// TokenRetrieve reassembles a stored token and prints it
func TokenRetrieve(ctx context.Context, name string) {
	cfg := LoadConfig()
	store := OpenStore(cfg, "")
	defer store.Close()

	secret, err := store.Retrieve(ctx, name)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(secret)

	os.Stdout.Write(secret)
	fmt.Println()
}

// TokenDelete removes a stored token
func TokenDelete(ctx context.Context, name string) {
	cfg := LoadConfig()
	store := OpenStore(cfg, "")
	defer store.Close()

	if err := store.Delete(ctx, name); err != nil {
		HandleError(err)
	}
	fmt.Printf("Deleted %s\n", name)
}

// TokenShow prints the encoded fragments of a stored token, one per line.
// Together they are the token; handle them like the token itself.
func TokenShow(ctx context.Context, name string) {
	cfg := LoadConfig()
	store := OpenStore(cfg, "")
	defer store.Close()

	set, err := store.Fragments(ctx, name)
	if err != nil {
		HandleError(err)
	}
	defer set.Wipe()

	for _, f := range set {
		fmt.Println(f.String())
	}
}

// TokenReassemble rebuilds a token from encoded fragments given as arguments.
// It does not touch the store.
func TokenReassemble(encoded []string) {
	if len(encoded) == 0 {
		fmt.Fprintf(os.Stderr, "Error: reassemble requires fragment arguments\n")
		fmt.Fprintf(os.Stderr, "Usage: tokensafe token reassemble <fragment> [fragment...]\n")
		os.Exit(1)
	}

	set := make(splitter.FragmentSet, 0, len(encoded))
	for _, s := range encoded {
		f, err := splitter.ParseFragment(s)
		if err != nil {
			HandleError(err)
		}
		set = append(set, f)
	}
	defer set.Wipe()

	secret, err := splitter.Reassemble(set)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(secret)

	os.Stdout.Write(secret)
	fmt.Println()
}

func warnIfExposed(ctx context.Context, store *core.TokenStore) {
	status, err := store.Status(ctx)
	if err != nil || status.GitStatus == nil || !status.GitStatus.Exposed() {
		return
	}
	fmt.Fprintf(os.Stderr, "warning: %s holds unencrypted fragments and is not ignored by git\n", status.GitStatus.StoreFile)
}
