// Package pipeline orchestrates free-form message handling: engagement
// policy, context assembly, generation, the silence contract, memory
// write-back and dispatch. HandleInboundText is the single entry point the
// command layer invokes for non-command messages.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/theshul/ayaka-bot/internal/engagement"
	"github.com/theshul/ayaka-bot/internal/generation"
	"github.com/theshul/ayaka-bot/internal/metrics"
	"github.com/theshul/ayaka-bot/internal/models"
	"github.com/theshul/ayaka-bot/internal/progress"
	"github.com/theshul/ayaka-bot/internal/prompt"
	"github.com/theshul/ayaka-bot/internal/sanitize"
	"github.com/theshul/ayaka-bot/internal/storage"
	"go.uber.org/zap"
)

// retryMessage is sent on a backend failure, but only when the user
// addressed the bot directly. Proactive failures die silently.
const retryMessage = "Sorry, I'm having trouble processing that right now. Please try again in a moment!"

// Inbound is one free-form text message from the transport layer.
type Inbound struct {
	MessageID    int
	UserID       int64
	ChatID       int64
	Scope        models.ScopeKind
	Text         string
	ImageData    []byte
	MentionsBot  bool
	RepliesToBot bool
}

// Dispatcher abstracts the outbound side of the transport.
type Dispatcher interface {
	// SendReply sends text as a threaded reply to a specific message.
	SendReply(chatID int64, replyToID int, text string) error
	// SendMessage sends a freestanding message.
	SendMessage(chatID int64, text string) error
	// SendTyping shows a typing indicator. Best effort.
	SendTyping(chatID int64)
}

// Options are the static knobs for one pipeline instance.
type Options struct {
	BotName          string
	System           string
	Roster           []prompt.RosterEntry
	GroupWindow      int
	DirectWindow     int
	DirectSupplement int
	TotalModules     int
}

type Pipeline struct {
	store      storage.Storage
	policy     *engagement.Policy
	generator  generation.Generator
	dispatcher Dispatcher
	tracker    *progress.Tracker
	metrics    *metrics.Metrics
	opts       Options
	logger     *zap.Logger
	now        func() time.Time
}

func New(
	store storage.Storage,
	policy *engagement.Policy,
	generator generation.Generator,
	dispatcher Dispatcher,
	tracker *progress.Tracker,
	m *metrics.Metrics,
	opts Options,
	logger *zap.Logger,
) *Pipeline {
	if opts.GroupWindow <= 0 {
		opts.GroupWindow = 5
	}
	if opts.DirectWindow <= 0 {
		opts.DirectWindow = 5
	}
	if opts.DirectSupplement <= 0 {
		opts.DirectSupplement = 3
	}
	return &Pipeline{
		store:      store,
		policy:     policy,
		generator:  generator,
		dispatcher: dispatcher,
		tracker:    tracker,
		metrics:    m,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// HandleInboundText runs the full pipeline for one message. Errors inside
// the pipeline degrade to "no reply sent" plus a log entry; nothing here
// may take down the hosting process.
func (p *Pipeline) HandleInboundText(ctx context.Context, msg Inbound) {
	if p.metrics != nil {
		p.metrics.InboundMessages.WithLabelValues(string(msg.Scope)).Inc()
	}

	profile, err := p.store.GetUser(ctx, msg.UserID)
	if err != nil {
		p.logger.Error("Failed to resolve user profile",
			zap.Error(err),
			zap.Int64("user_id", msg.UserID))
		profile = &models.UserProfile{UserID: msg.UserID, DisplayName: storage.UnknownDisplayName}
	}

	turn := &models.ConversationTurn{
		ID:        uuid.New().String(),
		UserID:    msg.UserID,
		Speaker:   profile.DisplayName,
		Message:   msg.Text,
		CreatedAt: p.now(),
	}

	decision := p.policy.Decide(engagement.Signal{
		Scope:        msg.Scope,
		Text:         msg.Text,
		MentionsBot:  msg.MentionsBot,
		RepliesToBot: msg.RepliesToBot,
	})
	if p.metrics != nil {
		p.metrics.Decisions.WithLabelValues(decision.String()).Inc()
	}

	if decision == models.Skip {
		// Observed but not answered: remember it so future windows
		// include the surrounding chatter.
		p.appendTurn(ctx, models.ScopeGroup, msg.ChatID, turn)
		return
	}

	p.dispatcher.SendTyping(msg.ChatID)

	if p.tracker != nil {
		p.tracker.Touch(ctx, msg.UserID, msg.Text)
	}

	req := p.buildRequest(ctx, profile, msg, decision)

	result, err := p.generator.Generate(ctx, req, msg.ImageData)
	if err != nil {
		if p.metrics != nil {
			p.metrics.GenerationFailures.Inc()
		}
		p.logger.Error("Generation backend call failed",
			zap.Error(err),
			zap.Int64("user_id", msg.UserID),
			zap.String("mode", decision.String()))
		p.appendObservation(ctx, msg, turn)
		if decision == models.EngageDirect {
			if sendErr := p.dispatcher.SendReply(msg.ChatID, msg.MessageID, retryMessage); sendErr != nil {
				p.logger.Error("Failed to send retry message", zap.Error(sendErr), zap.Int64("chat_id", msg.ChatID))
			}
		}
		return
	}

	if !result.ShouldReply {
		// The silence contract: a valid outcome, not an error. The
		// inbound text is still remembered, the reply slot stays empty.
		if p.metrics != nil {
			p.metrics.GenerationSilences.Inc()
		}
		p.appendObservation(ctx, msg, turn)
		return
	}

	cleaned := sanitize.Clean(result.Text)
	turn.Reply = cleaned

	if msg.Scope == models.ScopeGroup {
		p.appendTurn(ctx, models.ScopeGroup, msg.ChatID, turn)
		p.appendTurn(ctx, models.ScopeDirect, msg.UserID, turn)
	} else {
		p.appendTurn(ctx, models.ScopeDirect, msg.UserID, turn)
	}

	// Proactive replies go out freestanding so they don't draw attention
	// to whoever happened to trigger them.
	var sendErr error
	if decision == models.EngageProactive {
		sendErr = p.dispatcher.SendMessage(msg.ChatID, cleaned)
	} else {
		sendErr = p.dispatcher.SendReply(msg.ChatID, msg.MessageID, cleaned)
	}
	if sendErr != nil {
		p.logger.Error("Failed to dispatch reply",
			zap.Error(sendErr),
			zap.Int64("chat_id", msg.ChatID))
	}
}

func (p *Pipeline) buildRequest(ctx context.Context, profile *models.UserProfile, msg Inbound, decision models.EngagementDecision) prompt.Request {
	var scopeTurns, userTurns []models.ConversationTurn
	var err error

	if msg.Scope == models.ScopeGroup {
		scopeTurns, err = p.store.RecentTurns(ctx, models.ScopeGroup, msg.ChatID, p.opts.GroupWindow)
		if err != nil {
			p.logger.Error("Failed to read group memory", zap.Error(err), zap.Int64("chat_id", msg.ChatID))
		}
		userTurns, err = p.store.RecentTurns(ctx, models.ScopeDirect, msg.UserID, p.opts.DirectSupplement)
		if err != nil {
			p.logger.Error("Failed to read direct memory", zap.Error(err), zap.Int64("user_id", msg.UserID))
		}
	} else {
		scopeTurns, err = p.store.RecentTurns(ctx, models.ScopeDirect, msg.UserID, p.opts.DirectWindow)
		if err != nil {
			p.logger.Error("Failed to read direct memory", zap.Error(err), zap.Int64("user_id", msg.UserID))
		}
	}

	var prog *models.Progress
	if p.tracker != nil {
		prog, err = p.tracker.Get(ctx, msg.UserID)
		if err != nil {
			p.logger.Error("Failed to read progress", zap.Error(err), zap.Int64("user_id", msg.UserID))
			prog = nil
		}
	}

	return prompt.Build(prompt.BuildInput{
		BotName:      p.opts.BotName,
		System:       p.opts.System,
		Profile:      *profile,
		Progress:     prog,
		TotalModules: p.opts.TotalModules,
		ScopeTurns:   scopeTurns,
		UserTurns:    userTurns,
		Roster:       p.opts.Roster,
		Message:      msg.Text,
		Scope:        msg.Scope,
		Mode:         decision,
	})
}

// appendObservation persists an inbound-only turn to the conversation's
// own scope when no reply was produced.
func (p *Pipeline) appendObservation(ctx context.Context, msg Inbound, turn *models.ConversationTurn) {
	if msg.Scope == models.ScopeGroup {
		p.appendTurn(ctx, models.ScopeGroup, msg.ChatID, turn)
	} else {
		p.appendTurn(ctx, models.ScopeDirect, msg.UserID, turn)
	}
}

// appendTurn is best effort: a storage failure must never block delivery.
func (p *Pipeline) appendTurn(ctx context.Context, kind models.ScopeKind, key int64, turn *models.ConversationTurn) {
	if err := p.store.AppendTurn(ctx, kind, key, turn); err != nil {
		p.logger.Error("Failed to append turn",
			zap.Error(err),
			zap.String("scope_kind", string(kind)),
			zap.Int64("scope_key", key))
	}
}
