// Package generation wraps the text-generation backend behind a small
// interface with a structured silence flag, so sentinel detection never
// leaks into dispatched text.
package generation

import (
	"context"
	"strings"

	"github.com/theshul/ayaka-bot/internal/prompt"
)

// Result is the structured outcome of a generation call. ShouldReply false
// means the backend (or persona) chose silence; that is a valid policy
// outcome, not an error.
type Result struct {
	Text        string
	ShouldReply bool
}

// Generator produces a reply for a built request, with optional inline
// image bytes from the current message.
type Generator interface {
	Generate(ctx context.Context, req prompt.Request, imageData []byte) (Result, error)
}

// resolve classifies raw backend output. Empty output and the silence
// sentinel (alone or as a prefix) both mean "say nothing".
func resolve(raw string) Result {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Result{ShouldReply: false}
	}

	upper := strings.ToUpper(text)
	if strings.HasPrefix(upper, prompt.SilenceSentinel) {
		return Result{ShouldReply: false}
	}

	return Result{Text: text, ShouldReply: true}
}
