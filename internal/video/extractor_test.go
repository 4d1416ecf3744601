package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestIsSocialURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.instagram.com/reel/abc123/", true},
		{"https://x.com/user/status/1", true},
		{"https://TWITTER.com/user/status/1", true},
		{"https://youtube.com/watch?v=abc", false},
		{"not a url", false},
	}
	for _, tt := range tests {
		if got := IsSocialURL(tt.url); got != tt.want {
			t.Errorf("IsSocialURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestExtractRejectsUnsupportedURL(t *testing.T) {
	e := NewExtractor(t.TempDir(), 50, zap.NewNop())

	_, err := e.Extract(context.Background(), "https://youtube.com/watch?v=abc")
	if err == nil || !strings.Contains(err.Error(), "Instagram or X") {
		t.Fatalf("expected unsupported-URL error, got %v", err)
	}
}

func TestExtractEnforcesSizeLimit(t *testing.T) {
	dir := t.TempDir()
	e := NewExtractor(dir, 1, zap.NewNop())

	big := filepath.Join(dir, "big.mp4")
	if err := os.WriteFile(big, make([]byte, 2*1024*1024), 0o644); err != nil {
		t.Fatal(err)
	}
	e.runner = func(ctx context.Context, args ...string) (string, error) {
		return big, nil
	}

	_, err := e.Extract(context.Background(), "https://x.com/user/status/1")
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected size-limit error, got %v", err)
	}
	if _, statErr := os.Stat(big); !os.IsNotExist(statErr) {
		t.Error("oversized file should be removed")
	}
}

func TestExtractClassifiesDownloadErrors(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"ERROR: this account is private", "private or protected"},
		{"ERROR: video age restricted", "age-restricted"},
		{"ERROR: content unavailable", "unavailable or deleted"},
		{"ERROR: something odd", "Download failed"},
	}
	for _, tt := range tests {
		e := NewExtractor(t.TempDir(), 50, zap.NewNop())
		e.runner = func(ctx context.Context, args ...string) (string, error) {
			return "", errors.New(tt.raw)
		}
		_, err := e.Extract(context.Background(), "https://x.com/user/status/1")
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("raw %q: got %v, want %q", tt.raw, err, tt.want)
		}
	}
}

func TestExtractSuccess(t *testing.T) {
	dir := t.TempDir()
	e := NewExtractor(dir, 50, zap.NewNop())

	small := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(small, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	e.runner = func(ctx context.Context, args ...string) (string, error) {
		return small, nil
	}

	path, err := e.Extract(context.Background(), "https://instagram.com/reel/zzz/")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if path != small {
		t.Errorf("path = %q, want %q", path, small)
	}
}
