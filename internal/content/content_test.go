package content

import (
	"math/rand"
	"testing"
)

func TestQuizAnswersIndexOptions(t *testing.T) {
	for _, q := range quizzes {
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			t.Errorf("quiz %q has answer index %d outside its %d options", q.Question, q.Answer, len(q.Options))
		}
	}
}

func TestNewsDigestPicksDistinctSnippets(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	digest := NewsDigest(r, 3)
	if len(digest) != 3 {
		t.Fatalf("expected 3 snippets, got %d", len(digest))
	}
	seen := make(map[string]bool)
	for _, s := range digest {
		if seen[s] {
			t.Errorf("duplicate snippet: %q", s)
		}
		seen[s] = true
	}
}

func TestNewsDigestClampsToPool(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	digest := NewsDigest(r, 100)
	if len(digest) != len(newsSnippets) {
		t.Fatalf("expected clamp to %d, got %d", len(newsSnippets), len(digest))
	}
}

func TestFindModule(t *testing.T) {
	if _, ok := FindModule("crypto_basics"); !ok {
		t.Error("crypto_basics should exist")
	}
	if _, ok := FindModule("nope"); ok {
		t.Error("unknown module should not resolve")
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		toLang string
		want   string
	}{
		{"known phrase", "hello", "hindi", "🌐 Hindi: नमस्ते"},
		{"case folded", "THANKS", "Hindi", "🌐 Hindi: धन्यवाद"},
		{"unknown phrase", "moon", "hindi", "🌐 Hindi: 'moon' (not in database)"},
		{"unsupported language", "hello", "french", "Only Hindi translation available for now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Translate(tt.text, tt.toLang); got != tt.want {
				t.Errorf("Translate(%q, %q) = %q, want %q", tt.text, tt.toLang, got, tt.want)
			}
		})
	}
}

func TestRandomGifComesFromPool(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	got := RandomGif(r)
	found := false
	for _, g := range gifs {
		if g == got {
			found = true
		}
	}
	if !found {
		t.Errorf("RandomGif returned %q, not in the pool", got)
	}
}
