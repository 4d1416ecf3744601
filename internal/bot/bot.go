package bot

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/theshul/ayaka-bot/internal/content"
	"github.com/theshul/ayaka-bot/internal/market"
	"github.com/theshul/ayaka-bot/internal/models"
	"github.com/theshul/ayaka-bot/internal/penalty"
	"github.com/theshul/ayaka-bot/internal/pipeline"
	"github.com/theshul/ayaka-bot/internal/progress"
	"github.com/theshul/ayaka-bot/internal/storage"
	"github.com/theshul/ayaka-bot/internal/utilities"
	"github.com/theshul/ayaka-bot/internal/video"
	"go.uber.org/zap"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	storage   storage.Storage
	pipeline  *pipeline.Pipeline
	tracker   *progress.Tracker
	penalties *penalty.Manager
	extractor *video.Extractor
	prices    *market.PriceClient
	reminders *utilities.ReminderStore
	todos     *utilities.TodoStore
	watchlist *utilities.Watchlist
	scores    *utilities.Leaderboard
	stats     *utilities.GroupStats
	polls     *utilities.PollStore
	logger    *zap.Logger

	// rand backs the content pickers, which run on handler goroutines.
	randMu sync.Mutex
	rand   *rand.Rand

	// pendingQuiz maps a user to the answer index of their open question.
	quizMu      sync.Mutex
	pendingQuiz map[int64]int
}

type Deps struct {
	Storage   storage.Storage
	Tracker   *progress.Tracker
	Penalties *penalty.Manager
	Extractor *video.Extractor
	Prices    *market.PriceClient
	Logger    *zap.Logger
}

func New(token string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:         api,
		storage:     deps.Storage,
		tracker:     deps.Tracker,
		penalties:   deps.Penalties,
		extractor:   deps.Extractor,
		prices:      deps.Prices,
		reminders:   utilities.NewReminderStore(),
		todos:       utilities.NewTodoStore(),
		watchlist:   utilities.NewWatchlist(),
		scores:      utilities.NewLeaderboard(),
		stats:       utilities.NewGroupStats(),
		polls:       utilities.NewPollStore(),
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      deps.Logger,
		pendingQuiz: make(map[int64]int),
	}, nil
}

// Self returns the bot's own username, for mention detection in wiring.
func (b *Bot) Self() string {
	return b.api.Self.UserName
}

// AttachPipeline wires the conversational pipeline. The pipeline itself
// needs this bot's Dispatcher, so it is built after the bot and attached
// before Start.
func (b *Bot) AttachPipeline(p *pipeline.Pipeline) {
	b.pipeline = p
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

// Dispatcher adapts the Telegram API to the pipeline's outbound contract.
func (b *Bot) Dispatcher() pipeline.Dispatcher {
	return &telegramDispatcher{api: b.api, logger: b.logger}
}

type telegramDispatcher struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

func (d *telegramDispatcher) SendReply(chatID int64, replyToID int, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyToID
	if _, err := d.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

func (d *telegramDispatcher) SendMessage(chatID int64, text string) error {
	if _, err := d.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (d *telegramDispatcher) SendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := d.api.Request(action); err != nil {
		d.logger.Debug("Failed to send typing action", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.From == nil {
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	scope := models.ScopeGroup
	if message.Chat.IsPrivate() {
		scope = models.ScopeDirect
	}

	if scope == models.ScopeGroup {
		b.stats.TrackMessage(displayName(message.From))
	}

	// An open quiz swallows a bare numeric answer.
	if b.tryQuizAnswer(ctx, message) {
		return
	}

	text := message.Text
	if message.Caption != "" {
		text = message.Caption
	}
	if text == "" && len(message.Photo) == 0 {
		return
	}

	b.pipeline.HandleInboundText(ctx, pipeline.Inbound{
		MessageID:    message.MessageID,
		UserID:       message.From.ID,
		ChatID:       message.Chat.ID,
		Scope:        scope,
		Text:         text,
		ImageData:    b.photoBytes(message),
		MentionsBot:  b.mentionsSelf(message),
		RepliesToBot: b.repliesToSelf(message),
	})
}

func (b *Bot) mentionsSelf(message *tgbotapi.Message) bool {
	handle := "@" + b.api.Self.UserName
	return strings.Contains(message.Text, handle) || strings.Contains(message.Caption, handle)
}

func (b *Bot) repliesToSelf(message *tgbotapi.Message) bool {
	return message.ReplyToMessage != nil &&
		message.ReplyToMessage.From != nil &&
		message.ReplyToMessage.From.ID == b.api.Self.ID
}

// photoBytes downloads the largest size of an attached photo, if any.
// Best effort: on failure the message is still processed text-only.
func (b *Bot) photoBytes(message *tgbotapi.Message) []byte {
	if len(message.Photo) == 0 {
		return nil
	}

	largest := message.Photo[len(message.Photo)-1]
	url, err := b.api.GetFileDirectURL(largest.FileID)
	if err != nil {
		b.logger.Error("Failed to resolve photo URL", zap.Error(err), zap.String("file_id", largest.FileID))
		return nil
	}

	resp, err := http.Get(url)
	if err != nil {
		b.logger.Error("Failed to download photo", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		b.logger.Error("Failed to read photo body", zap.Error(err))
		return nil
	}
	return data
}

// tryQuizAnswer resolves an open quiz when the message is just a number.
func (b *Bot) tryQuizAnswer(ctx context.Context, message *tgbotapi.Message) bool {
	b.quizMu.Lock()
	answer, open := b.pendingQuiz[message.From.ID]
	b.quizMu.Unlock()
	if !open {
		return false
	}

	choice, err := strconv.Atoi(strings.TrimSpace(message.Text))
	if err != nil {
		return false
	}

	b.quizMu.Lock()
	delete(b.pendingQuiz, message.From.ID)
	b.quizMu.Unlock()

	if err := b.tracker.RecordQuiz(ctx, message.From.ID); err != nil {
		b.logger.Error("Failed to record quiz", zap.Error(err), zap.Int64("user_id", message.From.ID))
	}

	if choice-1 == answer {
		b.scores.AddScore(displayName(message.From), 10)
		b.sendMessage(message.Chat.ID, "🎉 Correct! +10 points. Use /leaderboard to see where you stand.")
	} else {
		b.sendMessage(message.Chat.ID, fmt.Sprintf("❌ Not quite - the right answer was option %d. Keep learning!", answer+1))
	}
	return true
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(ctx, message)
	case "help":
		b.handleHelp(message)
	case "learn":
		b.handleLearn(ctx, message)
	case "crypto":
		b.handleModuleContent(ctx, message, "crypto_basics", content.CryptoBasics)
	case "stocks":
		b.handleModuleContent(ctx, message, "stocks_basics", content.StocksBasics)
	case "complete":
		b.handleComplete(ctx, message)
	case "progress":
		b.handleProgress(ctx, message)
	case "quiz", "trivia":
		b.handleQuiz(message)
	case "reset":
		b.handleReset(ctx, message)
	case "price":
		b.handlePrice(ctx, message)
	case "convert":
		b.handleConvert(message)
	case "news":
		b.randMu.Lock()
		digest := content.NewsDigest(b.rand, 3)
		b.randMu.Unlock()
		b.sendMessage(message.Chat.ID, "📰 Crypto News Digest\n\n"+strings.Join(digest, "\n"))
	case "quote":
		b.randMu.Lock()
		quote := content.RandomQuote(b.rand)
		b.randMu.Unlock()
		b.sendMessage(message.Chat.ID, "💭 Quote of the Day:\n\n"+quote)
	case "tip":
		b.randMu.Lock()
		tip := content.RandomTip(b.rand)
		b.randMu.Unlock()
		b.sendMessage(message.Chat.ID, "🎯 Trading Tip:\n\n"+tip)
	case "remind":
		b.handleRemind(message)
	case "reminders":
		b.sendMessage(message.Chat.ID, b.reminders.List(message.From.ID))
	case "todo":
		b.handleTodo(message)
	case "todos":
		b.sendMessage(message.Chat.ID, b.todos.List(message.From.ID))
	case "done":
		b.handleDone(message)
	case "watch":
		b.handleWatch(message, true)
	case "unwatch":
		b.handleWatch(message, false)
	case "watchlist":
		b.sendMessage(message.Chat.ID, b.watchlist.List(message.From.ID))
	case "leaderboard":
		b.sendMessage(message.Chat.ID, b.scores.Render())
	case "stats":
		b.sendMessage(message.Chat.ID, b.stats.Render())
	case "poll":
		b.handlePoll(message)
	case "vote":
		b.handleVote(message)
	case "pollresults":
		b.sendMessage(message.Chat.ID, b.polls.Results(message.Chat.ID))
	case "gif":
		b.randMu.Lock()
		gif := content.RandomGif(b.rand)
		b.randMu.Unlock()
		b.sendMessage(message.Chat.ID, gif)
	case "translate":
		b.handleTranslate(message)
	case "achievements":
		b.handleAchievements(ctx, message)
	case "penalty":
		b.handlePenalty(message)
	case "progress_done":
		b.sendMessage(message.Chat.ID, b.penalties.MarkProgressDone(message.From.UserName))
	case "payfine":
		b.handlePayFine(message)
	case "video":
		b.handleVideo(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

// displayName applies the registration fallback chain: first name, else
// username, else the placeholder.
func displayName(user *tgbotapi.User) string {
	if user.FirstName != "" {
		return user.FirstName
	}
	if user.UserName != "" {
		return user.UserName
	}
	return storage.UnknownDisplayName
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	profile := &models.UserProfile{
		UserID:      message.From.ID,
		Username:    message.From.UserName,
		DisplayName: displayName(message.From),
		ChatID:      message.Chat.ID,
	}

	if err := b.storage.UpsertUser(ctx, profile); err != nil {
		b.logger.Error("Failed to register user",
			zap.Error(err),
			zap.Int64("user_id", message.From.ID))
	}

	welcome := fmt.Sprintf(`🚀 Welcome to Crypto & Stocks Learning Bot!

Hey %s! I'm Ayaka, your friendly AI tutor. I'm here to help you learn about cryptocurrency and stock trading!

🎯 What I can do:
• Teach you crypto and stocks fundamentals
• Remember our conversations and your progress
• Track your learning milestones
• Be your supportive learning companion

📚 Use /help to see all commands, or just chat with me naturally!`, profile.DisplayName)

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `🤖 Ayaka - Commands

Learning:
/learn - Browse learning modules
/crypto - Cryptocurrency fundamentals
/stocks - Stock trading basics
/complete <module> - Mark a module finished
/quiz - Test your knowledge
/progress - View your learning progress
/achievements - See your achievements
/reset - Reset progress and chat memory

Market:
/price <coin> - Live crypto price
/convert <amount> <from> <to> - Currency conversion
/news - Crypto news digest
/watch <symbol> - Add to watchlist
/watchlist - Show watchlist

Group & fun:
/quote - Motivational quote
/tip - Trading tip
/gif - Random reaction GIF
/translate <phrase> - Phrasebook Hindi translation
/poll <q> | <opt> | <opt> - Start a group poll
/vote <number> - Vote on the open poll
/pollresults - Show poll results
/leaderboard - Quiz scores
/stats - Group statistics
/penalty <status|done|skip|pay|tips> - Penalty tracker
/video <link> - Extract video from Instagram/X

Productivity:
/remind <minutes> <text> - Set a reminder
/todo <task> - Add a todo
/todos - List todos
/done <number> - Complete a todo

💡 Tip: You can also just chat with me naturally! I'll remember our conversations and help you learn step by step.`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleLearn(ctx context.Context, message *tgbotapi.Message) {
	prog, err := b.tracker.Get(ctx, message.From.ID)
	if err != nil {
		b.logger.Error("Failed to get progress", zap.Error(err), zap.Int64("user_id", message.From.ID))
		prog = &models.Progress{}
	}

	var sb strings.Builder
	sb.WriteString("📚 Available Learning Modules:\n\n")
	for _, m := range content.Modules {
		status := "📖"
		if prog.HasCompleted(m.ID) {
			status = "✅"
		}
		fmt.Fprintf(&sb, "%s %s\n   └ %s\n   └ Finish with: /complete %s\n\n", status, m.Title, m.Description, m.ID)
	}

	b.sendMessage(message.Chat.ID, sb.String())
}

func (b *Bot) handleModuleContent(ctx context.Context, message *tgbotapi.Message, moduleID, text string) {
	if err := b.tracker.StartModule(ctx, message.From.ID, moduleID); err != nil {
		b.logger.Error("Failed to start module",
			zap.Error(err),
			zap.Int64("user_id", message.From.ID),
			zap.String("module", moduleID))
	}
	b.sendMessage(message.Chat.ID, text)
}

func (b *Bot) handleComplete(ctx context.Context, message *tgbotapi.Message) {
	moduleID := strings.TrimSpace(message.CommandArguments())
	module, ok := content.FindModule(moduleID)
	if !ok {
		b.sendMessage(message.Chat.ID, "Unknown module. Use /learn to see the catalogue.")
		return
	}

	if err := b.tracker.CompleteModule(ctx, message.From.ID, moduleID); err != nil {
		b.logger.Error("Failed to complete module", zap.Error(err), zap.Int64("user_id", message.From.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't save that. Please try again.")
		return
	}
	b.sendMessage(message.Chat.ID, fmt.Sprintf("🏆 Module completed: %s! Check /progress to see your score.", module.Title))
}

func (b *Bot) handleProgress(ctx context.Context, message *tgbotapi.Message) {
	profile, err := b.storage.GetUser(ctx, message.From.ID)
	if err != nil {
		b.logger.Error("Failed to get user", zap.Error(err), zap.Int64("user_id", message.From.ID))
		profile = &models.UserProfile{DisplayName: storage.UnknownDisplayName}
	}
	prog, err := b.tracker.Get(ctx, message.From.ID)
	if err != nil {
		b.logger.Error("Failed to get progress", zap.Error(err), zap.Int64("user_id", message.From.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't load your progress right now.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Learning Progress for %s\n\n", profile.DisplayName)
	fmt.Fprintf(&sb, "🎯 Overall Progress: %d%%\n", prog.OverallScore(len(content.Modules)))
	fmt.Fprintf(&sb, "📅 Days Learning: %d\n", prog.DaysActive)
	fmt.Fprintf(&sb, "🏆 Completed Modules: %d\n", len(prog.CompletedModules))
	fmt.Fprintf(&sb, "❓ Quizzes Taken: %d\n", prog.QuizzesTaken)

	if len(prog.RecentTopics) > 0 {
		sb.WriteString("\n📚 Recent Topics:\n")
		for _, topic := range prog.RecentTopics {
			fmt.Fprintf(&sb, "• %s\n", topic)
		}
	}

	if earned := prog.Achievements(len(content.Modules)); len(earned) > 0 {
		sb.WriteString("\n🏅 Achievements:\n")
		for _, a := range earned {
			fmt.Fprintf(&sb, "🏆 %s\n", a)
		}
	}

	b.sendMessage(message.Chat.ID, sb.String())
}

func (b *Bot) handleQuiz(message *tgbotapi.Message) {
	b.randMu.Lock()
	q := content.RandomQuiz(b.rand)
	b.randMu.Unlock()
	b.quizMu.Lock()
	b.pendingQuiz[message.From.ID] = q.Answer
	b.quizMu.Unlock()

	var sb strings.Builder
	sb.WriteString("🧠 Quiz Time!\n\n")
	fmt.Fprintf(&sb, "Question: %s\n\n", q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, opt)
	}
	sb.WriteString("\n💡 Reply with the number of your answer!")

	b.sendMessage(message.Chat.ID, sb.String())
}

func (b *Bot) handleReset(ctx context.Context, message *tgbotapi.Message) {
	if err := b.storage.ResetUserMemory(ctx, message.From.ID); err != nil {
		b.logger.Error("Failed to reset memory", zap.Error(err), zap.Int64("user_id", message.From.ID))
	}
	if err := b.tracker.Reset(ctx, message.From.ID); err != nil {
		b.logger.Error("Failed to reset progress", zap.Error(err), zap.Int64("user_id", message.From.ID))
	}

	b.sendMessage(message.Chat.ID, "🔄 Progress Reset Complete!\n\nYour learning progress and our chat history have been reset. Ready to start fresh! Use /learn to begin again.")
}

func (b *Bot) handlePrice(ctx context.Context, message *tgbotapi.Message) {
	symbol := strings.TrimSpace(message.CommandArguments())
	if symbol == "" {
		b.sendMessage(message.Chat.ID, "Usage: /price <coin>, e.g. /price bitcoin")
		return
	}

	quote, err := b.prices.Quote(ctx, symbol)
	if err != nil {
		b.logger.Error("Price lookup failed", zap.Error(err), zap.String("symbol", symbol))
		b.sendErrorMessage(message.Chat.ID, "Couldn't fetch the price right now. Please try again.")
		return
	}
	b.sendMessage(message.Chat.ID, quote)
}

func (b *Bot) handleConvert(message *tgbotapi.Message) {
	parts := strings.Fields(message.CommandArguments())
	if len(parts) != 3 {
		b.sendMessage(message.Chat.ID, "Usage: /convert <amount> <from> <to>, e.g. /convert 100 USD INR")
		return
	}

	amount, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		b.sendMessage(message.Chat.ID, "Amount must be a number, e.g. /convert 100 USD INR")
		return
	}

	result, err := market.Convert(amount, parts[1], parts[2])
	if err != nil {
		b.sendMessage(message.Chat.ID, "❌ "+err.Error())
		return
	}
	b.sendMessage(message.Chat.ID, result)
}

func (b *Bot) handleRemind(message *tgbotapi.Message) {
	parts := strings.SplitN(message.CommandArguments(), " ", 2)
	if len(parts) != 2 {
		b.sendMessage(message.Chat.ID, "Usage: /remind <minutes> <text>")
		return
	}

	minutes, err := strconv.Atoi(parts[0])
	if err != nil || minutes <= 0 {
		b.sendMessage(message.Chat.ID, "Minutes must be a positive number")
		return
	}
	text := strings.TrimSpace(parts[1])

	b.sendMessage(message.Chat.ID, b.reminders.Add(message.From.ID, text, minutes))

	chatID := message.Chat.ID
	name := displayName(message.From)
	time.AfterFunc(time.Duration(minutes)*time.Minute, func() {
		b.sendMessage(chatID, fmt.Sprintf("⏰ %s, reminder: %s", name, text))
	})
}

func (b *Bot) handleTodo(message *tgbotapi.Message) {
	task := strings.TrimSpace(message.CommandArguments())
	if task == "" {
		b.sendMessage(message.Chat.ID, "Usage: /todo <task>")
		return
	}
	b.sendMessage(message.Chat.ID, b.todos.Add(message.From.ID, task))
}

func (b *Bot) handleDone(message *tgbotapi.Message) {
	num, err := strconv.Atoi(strings.TrimSpace(message.CommandArguments()))
	if err != nil {
		b.sendMessage(message.Chat.ID, "Usage: /done <number>")
		return
	}
	b.sendMessage(message.Chat.ID, b.todos.Complete(message.From.ID, num))
}

func (b *Bot) handleWatch(message *tgbotapi.Message, add bool) {
	symbol := strings.TrimSpace(message.CommandArguments())
	if symbol == "" {
		b.sendMessage(message.Chat.ID, "Usage: /watch <symbol> or /unwatch <symbol>")
		return
	}
	if add {
		b.sendMessage(message.Chat.ID, b.watchlist.Add(message.From.ID, symbol))
	} else {
		b.sendMessage(message.Chat.ID, b.watchlist.Remove(message.From.ID, symbol))
	}
}

func (b *Bot) handlePoll(message *tgbotapi.Message) {
	parts := strings.Split(message.CommandArguments(), "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 3 || parts[0] == "" {
		b.sendMessage(message.Chat.ID, "Usage: /poll <question> | <option 1> | <option 2> [| more options]")
		return
	}
	b.sendMessage(message.Chat.ID, b.polls.Create(message.Chat.ID, parts[0], parts[1:]))
}

func (b *Bot) handleVote(message *tgbotapi.Message) {
	option, err := strconv.Atoi(strings.TrimSpace(message.CommandArguments()))
	if err != nil {
		b.sendMessage(message.Chat.ID, "Usage: /vote <option number>")
		return
	}
	b.sendMessage(message.Chat.ID, b.polls.Vote(message.Chat.ID, message.From.ID, option))
}

func (b *Bot) handleTranslate(message *tgbotapi.Message) {
	text := strings.TrimSpace(message.CommandArguments())
	if text == "" {
		b.sendMessage(message.Chat.ID, "Usage: /translate <phrase>")
		return
	}
	b.sendMessage(message.Chat.ID, content.Translate(text, "hindi"))
}

func (b *Bot) handleAchievements(ctx context.Context, message *tgbotapi.Message) {
	prog, err := b.tracker.Get(ctx, message.From.ID)
	if err != nil {
		b.logger.Error("Failed to get progress", zap.Error(err), zap.Int64("user_id", message.From.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't load your achievements right now.")
		return
	}

	earned := prog.Achievements(len(content.Modules))
	if len(earned) == 0 {
		b.sendMessage(message.Chat.ID, "🏅 No achievements yet. Complete a module with /learn to earn your first!")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏅 Achievements:\n")
	for _, a := range earned {
		fmt.Fprintf(&sb, "🏆 %s\n", a)
	}
	b.sendMessage(message.Chat.ID, sb.String())
}

func (b *Bot) handlePenalty(message *tgbotapi.Message) {
	username := message.From.UserName
	args := strings.Fields(message.CommandArguments())
	sub := "status"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}

	switch sub {
	case "status":
		b.sendMessage(message.Chat.ID, b.penalties.Status(username))
	case "done":
		b.sendMessage(message.Chat.ID, b.penalties.MarkProgressDone(username))
	case "skip":
		b.sendMessage(message.Chat.ID, b.penalties.RecordMissedProgress(username))
		if donated, msg := b.penalties.CheckDonationTrigger(username); donated > 0 {
			b.sendMessage(message.Chat.ID, msg)
		}
	case "pay":
		if len(args) < 2 {
			b.sendMessage(message.Chat.ID, "Usage: /penalty pay <amount>")
			return
		}
		amount, err := strconv.Atoi(args[1])
		if err != nil {
			b.sendMessage(message.Chat.ID, "Amount must be a number")
			return
		}
		b.sendMessage(message.Chat.ID, b.penalties.Pay(username, amount))
	case "tips":
		b.sendMessage(message.Chat.ID, penalty.RecoveryTips())
	case "exception":
		reason := strings.TrimSpace(strings.Join(args[1:], " "))
		if reason == "" {
			b.sendMessage(message.Chat.ID, "Usage: /penalty exception <reason>")
			return
		}
		b.sendMessage(message.Chat.ID, b.penalties.RequestException(username, reason))
	default:
		b.sendMessage(message.Chat.ID, "Usage: /penalty <status|done|skip|pay|tips|exception>")
	}
}

func (b *Bot) handlePayFine(message *tgbotapi.Message) {
	amount, err := strconv.Atoi(strings.TrimSpace(message.CommandArguments()))
	if err != nil {
		b.sendMessage(message.Chat.ID, "Usage: /payfine <amount>")
		return
	}
	b.sendMessage(message.Chat.ID, b.penalties.Pay(message.From.UserName, amount))
}

func (b *Bot) handleVideo(ctx context.Context, message *tgbotapi.Message) {
	url := strings.TrimSpace(message.CommandArguments())
	if url == "" {
		b.sendMessage(message.Chat.ID, "Usage: /video <Instagram or X link>")
		return
	}

	b.sendMessage(message.Chat.ID, "📥 Extracting video, give me a moment...")

	path, err := b.extractor.Extract(ctx, url)
	if err != nil {
		b.sendMessage(message.Chat.ID, err.Error())
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			b.logger.Warn("Failed to remove downloaded video", zap.Error(err), zap.String("path", path))
		}
	}()

	upload := tgbotapi.NewVideo(message.Chat.ID, tgbotapi.FilePath(path))
	upload.ReplyToMessageID = message.MessageID
	if _, err := b.api.Send(upload); err != nil {
		b.logger.Error("Failed to send video", zap.Error(err), zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Downloaded the video but couldn't upload it.")
		return
	}

	if !message.Chat.IsPrivate() {
		b.stats.TrackVideo(displayName(message.From))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
