// Package penalty implements the group's accountability mini-game: a
// fine ledger for missed daily progress, scoped to one designated leader.
// The ledger is a JSON file owned by a Manager instance; the path comes
// from configuration, never a package-level default.
package penalty

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	penaltyAmount = 100  // ₹ per missed day
	interestRate  = 0.28 // applied to the pending amount in status output
	skipThreshold = 2    // consecutive skips before the donation trigger
)

type historyEntry struct {
	Date         string `json:"date"`
	Penalty      int    `json:"penalty"`
	Reason       string `json:"reason"`
	CurrentTotal int    `json:"current_total"`
}

type paymentEntry struct {
	Date      string `json:"date"`
	Amount    int    `json:"amount"`
	Remaining int    `json:"remaining"`
}

type exceptionEntry struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
	Status string `json:"status"`
}

type ledger struct {
	TotalPenalty     int              `json:"total_penalty"`
	PaidAmount       int              `json:"paid_amount"`
	MissedDays       int              `json:"missed_days"`
	ConsecutiveSkips int              `json:"consecutive_skips"`
	LastSkipDate     string           `json:"last_skip_date"`
	History          []historyEntry   `json:"history"`
	PaidHistory      []paymentEntry   `json:"paid_history"`
	DonatedAmount    int              `json:"donated_amount"`
	Exceptions       []exceptionEntry `json:"exceptions"`
}

// Manager owns the penalty ledger for the designated leader.
type Manager struct {
	mu         sync.Mutex
	file       string
	leader     string
	adminEmail string
	logger     *zap.Logger
	now        func() time.Time
	ledgers    map[string]*ledger
}

func NewManager(file, leaderUsername, adminEmail string, logger *zap.Logger) (*Manager, error) {
	m := &Manager{
		file:       file,
		leader:     leaderUsername,
		adminEmail: adminEmail,
		logger:     logger,
		now:        time.Now,
		ledgers:    make(map[string]*ledger),
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading penalty file: %w", err)
	}
	if err := json.Unmarshal(data, &m.ledgers); err != nil {
		m.logger.Warn("Penalty file corrupted, starting fresh", zap.Error(err), zap.String("file", m.file))
		m.ledgers = make(map[string]*ledger)
	}
	return nil
}

// save is best effort; a failed write is logged and the in-memory ledger
// stays authoritative for the process lifetime.
func (m *Manager) save() {
	if err := os.MkdirAll(filepath.Dir(m.file), 0o755); err != nil {
		m.logger.Error("Failed to create penalty data dir", zap.Error(err))
		return
	}
	data, err := json.MarshalIndent(m.ledgers, "", "  ")
	if err != nil {
		m.logger.Error("Failed to marshal penalty ledger", zap.Error(err))
		return
	}
	if err := os.WriteFile(m.file, data, 0o644); err != nil {
		m.logger.Error("Failed to write penalty file", zap.Error(err), zap.String("file", m.file))
	}
}

func (m *Manager) ledgerFor(username string) *ledger {
	l, ok := m.ledgers[username]
	if !ok {
		l = &ledger{}
		m.ledgers[username] = l
	}
	return l
}

func (m *Manager) isLeader(username string) bool {
	return username == m.leader
}

func (m *Manager) today() string {
	return m.now().Format("2006-01-02")
}

// RecordMissedProgress adds a day's fine and advances the skip streak.
func (m *Manager) RecordMissedProgress(username string) string {
	if !m.isLeader(username) {
		return "Only the group leader needs penalties 😅"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.ledgerFor(username)
	today := m.today()
	if l.LastSkipDate != today {
		l.ConsecutiveSkips++
	}
	l.MissedDays++
	l.TotalPenalty += penaltyAmount
	l.LastSkipDate = today
	l.History = append(l.History, historyEntry{
		Date:         today,
		Penalty:      penaltyAmount,
		Reason:       "Missed daily progress",
		CurrentTotal: l.TotalPenalty,
	})
	m.save()

	return fmt.Sprintf("❌ ₹%d penalty added!\nTotal penalty: ₹%d", penaltyAmount, l.TotalPenalty)
}

// MarkProgressDone resets the skip streak for the day.
func (m *Manager) MarkProgressDone(username string) string {
	if !m.isLeader(username) {
		return "Only the group leader uses this system"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.ledgers[username]
	if !ok {
		return "✅ No penalty for you today!"
	}

	if l.LastSkipDate != m.today() {
		l.ConsecutiveSkips = 0
	}
	m.save()

	if l.TotalPenalty-l.PaidAmount > 0 {
		return "✅ Great work! You maintained progress today.\nKeep it up to recover penalties!"
	}
	return "✅ Progress recorded!"
}

// Pay records a payment against the pending amount.
func (m *Manager) Pay(username string, amount int) string {
	if !m.isLeader(username) {
		return "Only the group leader needs to pay penalties"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.ledgers[username]
	if !ok {
		return "No penalties found"
	}
	if amount <= 0 {
		return "Amount must be positive"
	}

	pending := l.TotalPenalty - l.PaidAmount
	if amount > pending {
		return fmt.Sprintf("Amount exceeds pending penalty!\nPending: ₹%d", pending)
	}

	l.PaidAmount += amount
	remaining := pending - amount
	l.PaidHistory = append(l.PaidHistory, paymentEntry{
		Date:      m.today(),
		Amount:    amount,
		Remaining: remaining,
	})
	m.save()

	if remaining == 0 {
		return fmt.Sprintf("✅ Penalty fully paid! ₹%d received.\nYou're free to go! 🎉", amount)
	}
	return fmt.Sprintf("✅ Payment of ₹%d recorded!\nRemaining: ₹%d", amount, remaining)
}

// CheckDonationTrigger donates the pending amount once the skip streak
// passes the threshold. Returns the donated amount, zero if nothing fired.
func (m *Manager) CheckDonationTrigger(username string) (int, string) {
	if !m.isLeader(username) {
		return 0, ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.ledgers[username]
	if !ok || l.ConsecutiveSkips <= skipThreshold {
		return 0, ""
	}

	pending := l.TotalPenalty - l.PaidAmount
	if pending <= 0 {
		return 0, ""
	}

	l.DonatedAmount += pending
	l.TotalPenalty = 0
	l.PaidAmount = 0
	m.save()

	return pending, fmt.Sprintf("🫀 Penalty of ₹%d donated to local foundation with your name!\nLet's get back on track!", pending)
}

// RequestException files a pending-approval exception for a valid reason.
func (m *Manager) RequestException(username, reason string) string {
	if !m.isLeader(username) {
		return "Only the group leader can request exceptions"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.ledgerFor(username)
	l.Exceptions = append(l.Exceptions, exceptionEntry{
		Date:   m.today(),
		Reason: reason,
		Status: "pending_approval",
	})
	m.save()

	m.logger.Info("Penalty exception requested",
		zap.String("username", username),
		zap.String("reason", reason),
		zap.String("admin_email", m.adminEmail))

	return fmt.Sprintf("📧 Exception request sent to %s\nReason: %s\nWaiting for approval...", m.adminEmail, reason)
}

// Status renders the leader's current ledger.
func (m *Manager) Status(username string) string {
	if !m.isLeader(username) {
		return "✅ You're doing great, no penalties needed!"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.ledgers[username]
	if !ok {
		return "📊 No penalties recorded yet. Keep doing the work!"
	}

	pending := l.TotalPenalty - l.PaidAmount
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s - Penalty Status\n\n", username)
	fmt.Fprintf(&b, "💰 Total Penalty: ₹%d\n", l.TotalPenalty)
	fmt.Fprintf(&b, "✅ Paid Amount: ₹%d\n", l.PaidAmount)
	fmt.Fprintf(&b, "⏳ Pending: ₹%d\n\n", pending)
	fmt.Fprintf(&b, "📅 Missed Days: %d\n", l.MissedDays)
	fmt.Fprintf(&b, "🔄 Consecutive Skips: %d\n", l.ConsecutiveSkips)
	fmt.Fprintf(&b, "🫀 Donated to Foundation: ₹%d\n\n", l.DonatedAmount)
	fmt.Fprintf(&b, "⚠️ Interest (28%%): ₹%d if not paid soon!\n\n", int(float64(pending)*interestRate))
	fmt.Fprintf(&b, "📧 Have a valid reason? Email: %s\n", m.adminEmail)
	b.WriteString("Accepted: Medical emergency, health issues, family functions, holidays, college work, etc.")
	return b.String()
}

// RecoveryTips is the static how-to-get-out-of-the-hole text.
func RecoveryTips() string {
	return strings.TrimSpace(`
🎯 How to Recover from Penalties 🎯

1. ✅ Maintain Daily Progress: Complete your tasks on time
2. 🔄 Consistent Work: Don't skip more than allowed days
3. 💳 Pay Penalties: Settle pending amounts to avoid interest
4. 📧 Report Issues: Email admin for valid exceptions
5. 🏃 Speed Recovery: More consistent days = faster penalty reduction

💡 Pro Tip: Better to work daily than pay penalties! 😄

Remember: After 2 skips without payment, penalty gets donated to local foundation with your name!`)
}

// DailyReminder nudges the leader about anything pending.
func (m *Manager) DailyReminder(username string) string {
	if !m.isLeader(username) {
		return ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.ledgers[username]
	if !ok {
		return "💪 New day, fresh start! Show me your progress today!"
	}

	pending := l.TotalPenalty - l.PaidAmount
	if pending > 0 {
		return fmt.Sprintf("⚠️ Daily Reminder: You have ₹%d pending penalty.\nDo your work today to recover! 💪", pending)
	}
	return "✅ You're all clear! Keep up the good work!"
}
