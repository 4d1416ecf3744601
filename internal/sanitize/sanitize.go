// Package sanitize neutralizes chat-markup syntax in generated text.
// Telegram rejects an entire message on malformed markup, so the safe
// contract is to strip formatting rather than validate or repair it.
package sanitize

import "regexp"

var (
	codeBlockRe = regexp.MustCompile("```[^`]*```")
	inlineRe    = regexp.MustCompile("`([^`]+)`")
	linkRe      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	boldRe      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe    = regexp.MustCompile(`\*([^*]+)\*`)
)

// Clean strips code fences, inline code, link markers, bold and italic.
// It is idempotent: cleaning already-clean text is a no-op. Code spans are
// resolved before emphasis so that asterisks inside backticks cannot merge
// the surrounding code markers and leave markup for a later pass.
func Clean(text string) string {
	cleaned := codeBlockRe.ReplaceAllString(text, "[code block]")
	cleaned = inlineRe.ReplaceAllString(cleaned, `"$1"`)
	cleaned = linkRe.ReplaceAllString(cleaned, "$1")
	cleaned = boldRe.ReplaceAllString(cleaned, "$1")
	cleaned = italicRe.ReplaceAllString(cleaned, "$1")
	return cleaned
}
