package penalty

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

const leader = "Er_Stranger"

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "penalties.json"), leader, "admin@example.com", zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestOnlyLeaderAccumulatesPenalties(t *testing.T) {
	m := newTestManager(t)

	got := m.RecordMissedProgress("someone_else")
	if !strings.Contains(got, "Only the group leader") {
		t.Errorf("non-leader should be refused, got %q", got)
	}

	got = m.RecordMissedProgress(leader)
	if !strings.Contains(got, "₹100") {
		t.Errorf("leader miss should add ₹100, got %q", got)
	}
}

func TestConsecutiveSkipsCountOncePerDay(t *testing.T) {
	m := newTestManager(t)
	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return day }

	m.RecordMissedProgress(leader)
	m.RecordMissedProgress(leader) // same day, streak must not advance

	if skips := m.ledgers[leader].ConsecutiveSkips; skips != 1 {
		t.Errorf("ConsecutiveSkips = %d, want 1", skips)
	}

	m.now = func() time.Time { return day.Add(24 * time.Hour) }
	m.RecordMissedProgress(leader)
	if skips := m.ledgers[leader].ConsecutiveSkips; skips != 2 {
		t.Errorf("ConsecutiveSkips = %d, want 2", skips)
	}
}

func TestPayReducesPending(t *testing.T) {
	m := newTestManager(t)
	m.RecordMissedProgress(leader)
	m.RecordMissedProgress(leader)

	if got := m.Pay(leader, 500); !strings.Contains(got, "exceeds pending") {
		t.Errorf("overpayment should be rejected, got %q", got)
	}
	if got := m.Pay(leader, 100); !strings.Contains(got, "fully paid") {
		t.Errorf("exact payment should settle, got %q", got)
	}
}

func TestDonationTriggerFiresAfterThreshold(t *testing.T) {
	m := newTestManager(t)
	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		d := day.Add(time.Duration(i) * 24 * time.Hour)
		m.now = func() time.Time { return d }
		m.RecordMissedProgress(leader)
	}

	donated, msg := m.CheckDonationTrigger(leader)
	if donated != 300 {
		t.Fatalf("donated = %d, want 300", donated)
	}
	if !strings.Contains(msg, "₹300") {
		t.Errorf("donation message = %q", msg)
	}

	// Ledger zeroed after donation.
	if again, _ := m.CheckDonationTrigger(leader); again != 0 {
		t.Errorf("second trigger should be a no-op, donated %d", again)
	}
}

func TestLedgerSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "penalties.json")

	m, err := NewManager(file, leader, "admin@example.com", zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	m.RecordMissedProgress(leader)

	reloaded, err := NewManager(file, leader, "admin@example.com", zap.NewNop())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.ledgers[leader].TotalPenalty != 100 {
		t.Errorf("ledger lost on reload: %+v", reloaded.ledgers[leader])
	}
}

func TestStatusForOutsiders(t *testing.T) {
	m := newTestManager(t)
	if got := m.Status("random"); !strings.Contains(got, "doing great") {
		t.Errorf("Status(non-leader) = %q", got)
	}
}
