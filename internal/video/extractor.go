// Package video wraps yt-dlp to pull videos out of Instagram and X posts.
package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

var socialDomains = []string{
	"instagram.com", "instagr.am", "insta.am",
	"x.com", "twitter.com", "post.x.com",
}

// Extractor downloads social videos into a working directory, capped at
// the transport's upload limit.
type Extractor struct {
	downloadDir string
	maxSizeMB   int
	logger      *zap.Logger
	// runner executes yt-dlp; swapped out in tests.
	runner func(ctx context.Context, args ...string) (string, error)
}

func NewExtractor(downloadDir string, maxSizeMB int, logger *zap.Logger) *Extractor {
	e := &Extractor{
		downloadDir: downloadDir,
		maxSizeMB:   maxSizeMB,
		logger:      logger,
	}
	e.runner = e.runYtdlp
	return e
}

// Extract validates the URL, downloads the video and returns the local
// path. The error messages are user-facing.
func (e *Extractor) Extract(ctx context.Context, url string) (string, error) {
	if !IsSocialURL(url) {
		return "", fmt.Errorf("❌ Please provide a valid Instagram or X (Twitter) post link")
	}

	if err := os.MkdirAll(e.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("❌ Failed to prepare download directory")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	outTemplate := filepath.Join(e.downloadDir, "%(id)s.%(ext)s")
	path, err := e.runner(ctx,
		"--format", "best[ext=mp4]/best",
		"--output", outTemplate,
		"--quiet", "--no-warnings",
		"--socket-timeout", "30",
		"--print", "after_move:filepath",
		"--no-simulate",
		url,
	)
	if err != nil {
		return "", classifyError(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("❌ Failed to download video")
	}

	sizeMB := float64(info.Size()) / (1024 * 1024)
	if sizeMB > float64(e.maxSizeMB) {
		if err := os.Remove(path); err != nil {
			e.logger.Warn("Failed to remove oversized video", zap.Error(err), zap.String("path", path))
		}
		return "", fmt.Errorf("❌ Video too large (%.1fMB). Telegram limit is %dMB", sizeMB, e.maxSizeMB)
	}

	return path, nil
}

func (e *Extractor) runYtdlp(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "yt-dlp", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		e.logger.Error("yt-dlp failed",
			zap.Error(err),
			zap.String("stderr", truncate(stderr.String(), 300)))
		return "", fmt.Errorf("%s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// IsSocialURL reports whether the URL points at a supported platform.
func IsSocialURL(url string) bool {
	lower := strings.ToLower(url)
	for _, domain := range socialDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}

// classifyError maps yt-dlp failures to user-facing messages.
func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "private") || strings.Contains(msg, "protected"):
		return fmt.Errorf("❌ This video is private or protected")
	case strings.Contains(msg, "age restricted"):
		return fmt.Errorf("❌ This video is age-restricted")
	case strings.Contains(msg, "unavailable"):
		return fmt.Errorf("❌ This video is unavailable or deleted")
	default:
		return fmt.Errorf("❌ Download failed: %s", truncate(msg, 80))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
