// Package prompt assembles generation requests from stored memory, the
// user's profile and the current message. Build is a pure function: given
// identical inputs it produces identical output.
package prompt

import (
	"fmt"
	"strings"

	"github.com/theshul/ayaka-bot/internal/models"
)

// RosterEntry is a known group participant with a mention handle, so the
// persona can tag or address people when asked to.
type RosterEntry struct {
	Name   string
	Handle string
}

// Request is the payload handed to the generation backend.
type Request struct {
	System string
	Prompt string
	Mode   models.EngagementDecision
}

// SilenceSentinel is the designated "say nothing" token the persona may
// emit, especially when engaged proactively. Detection happens in the
// generation wrapper, never on the dispatched text.
const SilenceSentinel = "[SILENCE]"

// DefaultSystemInstruction is the fallback persona when the config file
// supplies none.
const DefaultSystemInstruction = `You are Ayaka, a friendly and knowledgeable AI tutor for cryptocurrency and stock trading. You live in a Telegram chat with a small group of friends who are learning to trade.

Personality:
- Warm, encouraging and a little playful
- Patient with beginners, never condescending
- You celebrate progress and gently nudge people who slack off

Rules:
- Keep replies short and conversational, like a chat message
- Use plain text without markdown formatting
- Never give financial advice that promises returns; teach concepts instead
- If you have nothing useful to add, reply with exactly [SILENCE]`

// BuildInput collects everything the builder needs. ScopeTurns is the
// window for the conversation's own scope; UserTurns is the supplementary
// slice of the sender's private history, only populated in group mode.
type BuildInput struct {
	BotName      string
	System       string
	Profile      models.UserProfile
	Progress     *models.Progress
	TotalModules int
	ScopeTurns   []models.ConversationTurn
	UserTurns    []models.ConversationTurn
	Roster       []RosterEntry
	Message      string
	Scope        models.ScopeKind
	Mode         models.EngagementDecision
}

// Build serializes persona instructions, chat metadata, the recent-turn
// windows and the current message into a single request.
func Build(in BuildInput) Request {
	var b strings.Builder

	b.WriteString("User Information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", in.Profile.DisplayName)
	if in.Progress != nil {
		fmt.Fprintf(&b, "- Learning Progress: %d%% complete\n", in.Progress.OverallScore(in.TotalModules))
		fmt.Fprintf(&b, "- Completed Modules: %d\n", len(in.Progress.CompletedModules))
		if len(in.Progress.RecentTopics) > 0 {
			fmt.Fprintf(&b, "- Recent Topics: %s\n", strings.Join(in.Progress.RecentTopics, ", "))
		}
	}

	if in.Scope == models.ScopeGroup && len(in.Roster) > 0 {
		b.WriteString("\nGroup Members (use these handles to tag or address someone):\n")
		for _, r := range in.Roster {
			fmt.Fprintf(&b, "- %s: %s\n", r.Name, r.Handle)
		}
	}

	b.WriteString("\nConversation History:\n")
	b.WriteString(renderTurns(in.BotName, in.ScopeTurns))

	if in.Scope == models.ScopeGroup && len(in.UserTurns) > 0 {
		fmt.Fprintf(&b, "\nEarlier private conversation with %s:\n", in.Profile.DisplayName)
		b.WriteString(renderTurns(in.BotName, in.UserTurns))
	}

	fmt.Fprintf(&b, "\nCurrent Message: %s\n", in.Message)

	system := in.System
	if in.Mode == models.EngageProactive {
		system += fmt.Sprintf("\nYou were not addressed directly; you are choosing to chime in. Only reply if you genuinely add value to the conversation. If you have nothing worth saying, reply with exactly %s and nothing else.", SilenceSentinel)
	}

	return Request{
		System: system,
		Prompt: b.String(),
		Mode:   in.Mode,
	}
}

// renderTurns writes each turn as "speaker: message" followed by the bot's
// reply line, omitted for observation-only turns.
func renderTurns(botName string, turns []models.ConversationTurn) string {
	if len(turns) == 0 {
		return "No previous conversations\n"
	}

	var b strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&b, "%s: %s\n", t.Speaker, t.Message)
		if t.HasReply() {
			fmt.Fprintf(&b, "%s: %s\n", botName, t.Reply)
		}
	}
	return b.String()
}
