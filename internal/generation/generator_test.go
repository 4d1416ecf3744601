package generation

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantText    string
		shouldReply bool
	}{
		{"normal reply", "Staking locks coins to earn rewards.", "Staking locks coins to earn rewards.", true},
		{"empty", "", "", false},
		{"whitespace only", "   \n\t", "", false},
		{"sentinel", "[SILENCE]", "", false},
		{"sentinel lowercase", "[silence]", "", false},
		{"sentinel with trailing text", "[SILENCE] nothing to add here", "", false},
		{"sentinel padded", "  [SILENCE]  ", "", false},
		{"sentinel mentioned mid-reply", "The token [SILENCE] is how I stay quiet.", "The token [SILENCE] is how I stay quiet.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolve(tt.raw)
			if got.ShouldReply != tt.shouldReply {
				t.Fatalf("resolve(%q).ShouldReply = %v, want %v", tt.raw, got.ShouldReply, tt.shouldReply)
			}
			if got.Text != tt.wantText {
				t.Fatalf("resolve(%q).Text = %q, want %q", tt.raw, got.Text, tt.wantText)
			}
		})
	}
}
