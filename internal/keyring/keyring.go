// Package keyring caches passwords in the OS keyring, keyed by store ID.
package keyring

import (
	"github.com/zalando/go-keyring"
)

// DefaultService is the keyring service name used when none is configured
const DefaultService = "tokensafe"

// Keyring stores passwords under one service name
type Keyring struct {
	service string
}

// New creates a Keyring for the given service name
func New(service string) *Keyring {
	if service == "" {
		service = DefaultService
	}
	return &Keyring{service: service}
}

// SavePassword stores a password in the OS keyring
func (k *Keyring) SavePassword(storeID string, password string) error {
	return keyring.Set(k.service, storeID, password)
}

// GetPassword retrieves a password from the OS keyring
func (k *Keyring) GetPassword(storeID string) (string, error) {
	return keyring.Get(k.service, storeID)
}

// DeletePassword removes a password from the OS keyring
func (k *Keyring) DeletePassword(storeID string) error {
	return keyring.Delete(k.service, storeID)
}

// HasPassword checks if a password is stored in the keyring
func (k *Keyring) HasPassword(storeID string) bool {
	_, err := keyring.Get(k.service, storeID)
	return err == nil
}
