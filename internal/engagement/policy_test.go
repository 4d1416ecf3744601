package engagement

import (
	"testing"

	"github.com/theshul/ayaka-bot/internal/models"
)

var testKeywords = []string{"market", "strategy", "loss", "profit"}

func neverDraw() float64  { return 1.0 }
func alwaysDraw() float64 { return 0.0 }

func TestDirectScopeAlwaysEngagesDirect(t *testing.T) {
	p := NewPolicy("Ayaka", testKeywords, 0.15).WithRand(neverDraw)

	for _, text := range []string{"", "hello", "nothing topical here", "market strategy"} {
		got := p.Decide(Signal{Scope: models.ScopeDirect, Text: text})
		if got != models.EngageDirect {
			t.Errorf("Decide(direct, %q) = %v, want EngageDirect", text, got)
		}
	}
}

func TestGroupAddressedEngagesDirect(t *testing.T) {
	p := NewPolicy("Ayaka", testKeywords, 0.15).WithRand(neverDraw)

	tests := []struct {
		name string
		sig  Signal
	}{
		{"mention", Signal{Scope: models.ScopeGroup, Text: "what do you think", MentionsBot: true}},
		{"reply", Signal{Scope: models.ScopeGroup, Text: "and you?", RepliesToBot: true}},
		{"name call", Signal{Scope: models.ScopeGroup, Text: "ayaka can you help"}},
		{"name call mixed case", Signal{Scope: models.ScopeGroup, Text: "hey AYAKA"}},
	}
	for _, tt := range tests {
		if got := p.Decide(tt.sig); got != models.EngageDirect {
			t.Errorf("%s: Decide() = %v, want EngageDirect", tt.name, got)
		}
	}
}

func TestGroupTopicalKeywordIsDeterministicallyProactive(t *testing.T) {
	// Random draw pinned to never fire: the keyword alone must trigger.
	p := NewPolicy("Ayaka", testKeywords, 0.15).WithRand(neverDraw)

	got := p.Decide(Signal{Scope: models.ScopeGroup, Text: "took a big loss today"})
	if got != models.EngageProactive {
		t.Fatalf("Decide() = %v, want EngageProactive", got)
	}
}

func TestGroupRandomDrawBelowThresholdIsProactive(t *testing.T) {
	p := NewPolicy("Ayaka", testKeywords, 0.15).WithRand(alwaysDraw)

	got := p.Decide(Signal{Scope: models.ScopeGroup, Text: "what's for lunch"})
	if got != models.EngageProactive {
		t.Fatalf("Decide() = %v, want EngageProactive", got)
	}
}

func TestGroupUnaddressedOffTopicSkips(t *testing.T) {
	p := NewPolicy("Ayaka", testKeywords, 0.15).WithRand(neverDraw)

	got := p.Decide(Signal{Scope: models.ScopeGroup, Text: "what's for lunch"})
	if got != models.Skip {
		t.Fatalf("Decide() = %v, want Skip", got)
	}
}

func TestNameCallWinsOverTopicalKeyword(t *testing.T) {
	// Overlapping triggers: being addressed decides the mode.
	p := NewPolicy("Ayaka", testKeywords, 0.15).WithRand(neverDraw)

	got := p.Decide(Signal{Scope: models.ScopeGroup, Text: "ayaka what's your market strategy"})
	if got != models.EngageDirect {
		t.Fatalf("Decide() = %v, want EngageDirect", got)
	}
}
