package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/tokensafe/internal/core"
	"github.com/illarion/tokensafe/internal/crypto"
	"github.com/illarion/tokensafe/internal/keyring"
)

// KeyringSave saves the envelope password to the OS keyring, keyed by the
// store ID
func KeyringSave() {
	cfg := LoadConfig()
	store := OpenStore(cfg, "")
	defer store.Close()

	password, err := core.ReadPasswordConfirm("Enter password: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	storeID, err := store.GetOrCreateStoreID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.New(cfg.KeyringService).SavePassword(storeID, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the password from the OS keyring
func KeyringDelete() {
	cfg := LoadConfig()
	if _, err := os.Stat(cfg.StorePath); err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	store := OpenStore(cfg, "")
	defer store.Close()

	storeID, err := store.GetStoreID()
	if err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.New(cfg.KeyringService).DeletePassword(storeID); err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a password is stored in the keyring
func KeyringStatus() {
	cfg := LoadConfig()
	if _, err := os.Stat(cfg.StorePath); err != nil {
		fmt.Println("Password: not stored")
		return
	}

	store := OpenStore(cfg, "")
	defer store.Close()

	storeID, err := store.GetStoreID()
	if err != nil {
		fmt.Println("Password: not stored")
		return
	}

	if keyring.New(cfg.KeyringService).HasPassword(storeID) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
