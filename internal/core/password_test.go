package core

import (
	"testing"
)

func TestGetPasswordFromEnv(t *testing.T) {
	t.Setenv(PasswordEnv, "s3cret")

	password := GetPasswordFromEnv()
	if string(password) != "s3cret" {
		t.Fatalf("GetPasswordFromEnv() = %q, want %q", password, "s3cret")
	}

	// The returned slice is a copy; clearing it must not affect later reads
	for i := range password {
		password[i] = 0
	}
	if again := GetPasswordFromEnv(); string(again) != "s3cret" {
		t.Errorf("second read = %q, want %q", again, "s3cret")
	}
}

func TestGetPasswordFromEnvUnset(t *testing.T) {
	t.Setenv(PasswordEnv, "")

	if password := GetPasswordFromEnv(); password != nil {
		t.Errorf("expected nil password for empty variable, got %q", password)
	}
}
