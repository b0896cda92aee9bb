package core

import (
	"strings"
	"testing"
)

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		text bool
	}{
		{"empty", nil, true},
		{"plain", []byte("API_KEY=abc\nDB=x\n"), true},
		{"null byte", []byte("abc\x00def"), false},
		{"invalid utf8", []byte{0xff, 0xfe, 0xfd}, false},
		{"control chars", []byte(strings.Repeat("\x01", 50) + "abc"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFileType(tt.data); got != tt.text {
				t.Errorf("DetectFileType() = %v, want %v", got, tt.text)
			}
		})
	}
}

func TestGenerateUnifiedDiff(t *testing.T) {
	diff, err := GenerateUnifiedDiff(".env", []byte("A=1\nB=2\n"), []byte("A=1\nB=2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if diff != "" {
		t.Errorf("expected empty diff for identical content, got %q", diff)
	}

	diff, err = GenerateUnifiedDiff(".env", []byte("A=1\nB=2\n"), []byte("A=1\nB=3\n"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"--- envelope/.env", "+++ local/.env", "-B=2", "+B=3"} {
		if !strings.Contains(diff, want) {
			t.Errorf("diff missing %q:\n%s", want, diff)
		}
	}

	diff, err = GenerateUnifiedDiff("blob", []byte{0, 1, 2}, []byte{0, 1, 3})
	if err != nil {
		t.Fatal(err)
	}
	if diff != "Binary content blob differs\n" {
		t.Errorf("unexpected binary diff %q", diff)
	}
}
