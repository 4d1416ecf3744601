// Package utilities bundles the small stateful side features: reminders,
// todos, watchlists, the quiz leaderboard and group stats. Each store is a
// constructor-built instance injected where needed, not process-wide
// state, so deployments and tests never share data by accident.
package utilities

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type Reminder struct {
	Text      string
	Minutes   int
	CreatedAt time.Time
}

type ReminderStore struct {
	mu        sync.Mutex
	reminders map[int64][]Reminder
	now       func() time.Time
}

func NewReminderStore() *ReminderStore {
	return &ReminderStore{reminders: make(map[int64][]Reminder), now: time.Now}
}

func (s *ReminderStore) Add(userID int64, text string, minutes int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reminders[userID] = append(s.reminders[userID], Reminder{
		Text:      text,
		Minutes:   minutes,
		CreatedAt: s.now(),
	})
	return fmt.Sprintf("⏰ Reminder set: '%s' in %d minutes", text, minutes)
}

func (s *ReminderStore) List(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.reminders[userID]
	if len(items) == 0 {
		return "No reminders set"
	}

	var b strings.Builder
	b.WriteString("📝 Your Reminders:\n")
	for i, r := range items {
		fmt.Fprintf(&b, "%d. %s (%d min)\n", i+1, r.Text, r.Minutes)
	}
	return b.String()
}

type todo struct {
	Task      string
	Done      bool
	CreatedAt time.Time
}

type TodoStore struct {
	mu    sync.Mutex
	todos map[int64][]todo
	now   func() time.Time
}

func NewTodoStore() *TodoStore {
	return &TodoStore{todos: make(map[int64][]todo), now: time.Now}
}

func (s *TodoStore) Add(userID int64, task string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.todos[userID] = append(s.todos[userID], todo{Task: task, CreatedAt: s.now()})
	return fmt.Sprintf("✅ Added todo: '%s'", task)
}

func (s *TodoStore) List(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.todos[userID]
	if len(items) == 0 {
		return "📝 No todos yet!"
	}

	var b strings.Builder
	b.WriteString("📝 Your Todos:\n")
	for i, t := range items {
		status := "⬜"
		if t.Done {
			status = "✅"
		}
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, status, t.Task)
	}
	return b.String()
}

func (s *TodoStore) Complete(userID int64, taskNum int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.todos[userID]
	if taskNum < 1 || taskNum > len(items) {
		return "❌ Todo not found"
	}
	items[taskNum-1].Done = true
	return fmt.Sprintf("✅ Completed: '%s'", items[taskNum-1].Task)
}

type Watchlist struct {
	mu      sync.Mutex
	symbols map[int64][]string
}

func NewWatchlist() *Watchlist {
	return &Watchlist{symbols: make(map[int64][]string)}
}

func (w *Watchlist) Add(userID int64, symbol string) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	symbol = strings.ToUpper(symbol)
	for _, existing := range w.symbols[userID] {
		if existing == symbol {
			return fmt.Sprintf("%s already in watchlist", symbol)
		}
	}
	w.symbols[userID] = append(w.symbols[userID], symbol)
	return fmt.Sprintf("✅ Added %s to watchlist", symbol)
}

func (w *Watchlist) Remove(userID int64, symbol string) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	symbol = strings.ToUpper(symbol)
	items := w.symbols[userID]
	for i, existing := range items {
		if existing == symbol {
			w.symbols[userID] = append(items[:i], items[i+1:]...)
			return fmt.Sprintf("✅ Removed %s from watchlist", symbol)
		}
	}
	return fmt.Sprintf("%s not in watchlist", symbol)
}

func (w *Watchlist) List(userID int64) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	items := w.symbols[userID]
	if len(items) == 0 {
		return "📋 Your watchlist is empty"
	}
	return "📋 Your Watchlist:\n" + strings.Join(items, "\n")
}

type Leaderboard struct {
	mu     sync.Mutex
	scores map[string]int
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{scores: make(map[string]int)}
}

func (l *Leaderboard) AddScore(userName string, points int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scores[userName] += points
}

func (l *Leaderboard) Render() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.scores) == 0 {
		return "🏆 Leaderboard is empty. Start taking quizzes!"
	}

	type entry struct {
		name  string
		score int
	}
	entries := make([]entry, 0, len(l.scores))
	for name, score := range l.scores {
		entries = append(entries, entry{name, score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].name < entries[j].name
	})

	medals := []string{"🥇", "🥈", "🥉"}
	var b strings.Builder
	b.WriteString("🏆 Leaderboard 🏆\n\n")
	for i, e := range entries {
		if i >= 10 {
			break
		}
		medal := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			medal = medals[i]
		}
		fmt.Fprintf(&b, "%s %s: %d points\n", medal, e.name, e.score)
	}
	return b.String()
}

type poll struct {
	question string
	options  []string
	votes    []int
	voters   map[int64]bool
}

// PollStore keeps at most one open poll per chat. Creating a new poll in
// a chat replaces the previous one; every user votes once.
type PollStore struct {
	mu    sync.Mutex
	polls map[int64]*poll
}

func NewPollStore() *PollStore {
	return &PollStore{polls: make(map[int64]*poll)}
}

func (p *PollStore) Create(chatID int64, question string, options []string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.polls[chatID] = &poll{
		question: question,
		options:  options,
		votes:    make([]int, len(options)),
		voters:   make(map[int64]bool),
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Poll created: %s\n", question)
	for i, opt := range options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	b.WriteString("\nVote with /vote <number>")
	return b.String()
}

// Vote records a 1-based option choice for the chat's open poll.
func (p *PollStore) Vote(chatID, userID int64, option int) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	open, ok := p.polls[chatID]
	if !ok {
		return "Poll not found"
	}
	if open.voters[userID] {
		return "You already voted!"
	}
	if option < 1 || option > len(open.options) {
		return "Invalid option"
	}

	open.voters[userID] = true
	open.votes[option-1]++
	return fmt.Sprintf("✅ Vote registered for: %s", open.options[option-1])
}

func (p *PollStore) Results(chatID int64) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	open, ok := p.polls[chatID]
	if !ok {
		return "Poll not found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n", open.question)
	for i, opt := range open.options {
		fmt.Fprintf(&b, "%d. %s: %d votes\n", i+1, opt, open.votes[i])
	}
	return b.String()
}

// GroupStats counts per-user messages and shared videos.
type GroupStats struct {
	mu       sync.Mutex
	messages map[string]int
	videos   map[string]int
}

func NewGroupStats() *GroupStats {
	return &GroupStats{messages: make(map[string]int), videos: make(map[string]int)}
}

func (g *GroupStats) TrackMessage(userName string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.messages[userName]++
}

func (g *GroupStats) TrackVideo(userName string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.videos[userName]++
}

func (g *GroupStats) Render() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.WriteString("📊 Group Stats\n\n")

	if len(g.messages) > 0 {
		b.WriteString("💬 Most Active:\n")
		writeTop(&b, g.messages, "messages")
	}
	if len(g.videos) > 0 {
		b.WriteString("\n📹 Most Videos Shared:\n")
		writeTop(&b, g.videos, "videos")
	}
	return b.String()
}

func writeTop(b *strings.Builder, counts map[string]int, unit string) {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	for i, e := range entries {
		if i >= 3 {
			break
		}
		fmt.Fprintf(b, "%d. %s: %d %s\n", i+1, e.name, e.count, unit)
	}
}
