// Package engagement decides, per inbound message, whether the bot should
// reply at all and in what mode. The decision only gates reply generation:
// a skipped group message is still appended to group memory so later
// context windows include it.
package engagement

import (
	"math/rand"
	"strings"

	"github.com/theshul/ayaka-bot/internal/models"
)

// Signal is everything the policy needs to know about one inbound message.
type Signal struct {
	Scope        models.ScopeKind
	Text         string
	MentionsBot  bool
	RepliesToBot bool
}

// Policy evaluates engagement for group and private chats. The random
// source is injectable so tests can pin the proactive draw.
type Policy struct {
	botName              string
	keywords             []string
	proactiveProbability float64
	rand                 func() float64
}

func NewPolicy(botName string, keywords []string, proactiveProbability float64) *Policy {
	return &Policy{
		botName:              botName,
		keywords:             keywords,
		proactiveProbability: proactiveProbability,
		rand:                 rand.Float64,
	}
}

// WithRand replaces the uniform random source. Used by tests.
func (p *Policy) WithRand(f func() float64) *Policy {
	p.rand = f
	return p
}

// Decide maps a message to Skip, EngageDirect or EngageProactive.
//
// Private chats always engage directly. In groups the bot engages directly
// when addressed (mention, reply, or name-call), volunteers proactively on
// topical keywords or a baseline random draw, and otherwise stays quiet.
// Overlapping triggers are non-exclusive; being addressed wins the mode.
func (p *Policy) Decide(sig Signal) models.EngagementDecision {
	if sig.Scope == models.ScopeDirect {
		return models.EngageDirect
	}

	if sig.MentionsBot || sig.RepliesToBot || p.nameCalled(sig.Text) {
		return models.EngageDirect
	}

	if p.topical(sig.Text) {
		return models.EngageProactive
	}
	if p.rand() < p.proactiveProbability {
		return models.EngageProactive
	}

	return models.Skip
}

func (p *Policy) nameCalled(text string) bool {
	if p.botName == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(p.botName))
}

func (p *Policy) topical(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range p.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
