package sanitize

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"bold stripped", "this is **important** advice", "this is important advice"},
		{"italic stripped", "a *gentle* nudge", "a gentle nudge"},
		{"code fence replaced", "see ```x = 1\ny = 2``` above", "see [code block] above"},
		{"inline code quoted", "run `go test` now", `run "go test" now`},
		{"link flattened", "read [the docs](https://example.com) first", "read the docs first"},
		{"mixed markup", "**Buy low**, *sell high*, use `limit orders`", `Buy low, sell high, use "limit orders"`},
		{"emphasis inside inline code", "use `**bold**` literally", `use "bold" literally`},
		{"emphasized link text", "see [*the docs*](https://example.com)", "see the docs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Fatalf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		"hello world",
		"this is **important** advice",
		"see ```code``` and `more` plus [link](http://x)",
		"unbalanced **bold and *stray markers",
		`already "quoted" text with [code block]`,
		"`*`x`*`",
		"use `**bold**` literally",
		"see [*the docs*](https://example.com)",
	}

	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
