package security

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestPathValidator_Normalize(t *testing.T) {
	validator, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}
	defer validator.Close()

	tests := []struct {
		name    string
		input   string
		want    string
		errType error
	}{
		{"simple file", "token.json", "token.json", nil},
		{"file in subdirectory", "env/token.json", filepath.Join("env", "token.json"), nil},
		{"hidden file", ".envelope", ".envelope", nil},
		{"dot slash", "./token.json", "token.json", nil},
		{"dot segments", "a/./b/../token.json", filepath.Join("a", "token.json"), nil},

		{"parent directory", "../token.json", "", ErrPathEscapes},
		{"nested parent", "a/../../token.json", "", ErrPathEscapes},
		{"absolute path", "/etc/passwd", "", ErrAbsolutePath},
		{"empty path", "", "", ErrEmptyPath},
	}

	if runtime.GOOS == "windows" {
		t.Skip("unix path table")
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validator.Normalize(tt.input)
			if tt.errType != nil {
				if !errors.Is(err, tt.errType) {
					t.Fatalf("Normalize(%q) error = %v, want %v", tt.input, err, tt.errType)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPathValidator_WriteAndRead(t *testing.T) {
	tmpDir := t.TempDir()

	validator, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}
	defer validator.Close()

	data := []byte(`{"encrypted_data":"AA=="}`)
	if err := validator.WriteFile("out/nested/env.json", data); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	fullPath := filepath.Join(tmpDir, "out", "nested", "env.json")
	info, err := os.Stat(fullPath)
	if err != nil {
		t.Fatalf("written file missing: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := validator.ReadFile("out/nested/env.json")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("content mismatch: got %q, want %q", got, data)
	}

	// Overwrite truncates
	if err := validator.WriteFile("out/nested/env.json", []byte("x")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, _ = validator.ReadFile("out/nested/env.json")
	if string(got) != "x" {
		t.Errorf("overwrite content = %q, want %q", got, "x")
	}

	if _, err := validator.Stat("out/nested/env.json"); err != nil {
		t.Errorf("Stat failed: %v", err)
	}
}

func TestPathValidator_ReadMissing(t *testing.T) {
	validator, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}
	defer validator.Close()

	_, err = validator.ReadFile("missing.json")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestPathValidator_ActualEscapePrevention(t *testing.T) {
	tmpDir := t.TempDir()
	targetFile := filepath.Join(filepath.Dir(tmpDir), "should_not_be_written.json")
	defer os.Remove(targetFile)

	validator, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}
	defer validator.Close()

	if err := validator.WriteFile("../should_not_be_written.json", []byte("pwned")); err == nil {
		t.Error("Expected error when writing outside root, got none")
	}
	if _, statErr := os.Stat(targetFile); statErr == nil {
		t.Error("File was created outside the root")
	}
}

func TestPathValidator_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	tmpDir := t.TempDir()
	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "secret.json"), []byte("outside"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(tmpDir, "link")); err != nil {
		t.Fatal(err)
	}

	validator, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}
	defer validator.Close()

	if _, err := validator.ReadFile("link/secret.json"); err == nil {
		t.Error("Expected error reading through escaping symlink")
	}
}
