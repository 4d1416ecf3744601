package models

import "testing"

func TestOverallScoreCountsModulesAndQuizzes(t *testing.T) {
	tests := []struct {
		name     string
		progress Progress
		total    int
		want     int
	}{
		{"fresh user", Progress{}, 4, 0},
		{"empty catalogue", Progress{CompletedModules: []string{"a"}}, 0, 0},
		{"one of four modules", Progress{CompletedModules: []string{"a"}}, 4, 20},
		{"quizzes alone move the score", Progress{QuizzesTaken: 2}, 4, 10},
		{"quiz contribution is capped", Progress{QuizzesTaken: 50}, 4, 20},
		{"all modules plus quizzes hits 100", Progress{
			CompletedModules: []string{"a", "b", "c", "d"},
			QuizzesTaken:     4,
		}, 4, 100},
		{"score never exceeds 100", Progress{
			CompletedModules: []string{"a", "b", "c", "d", "e"},
			QuizzesTaken:     50,
		}, 4, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.progress.OverallScore(tt.total); got != tt.want {
				t.Errorf("OverallScore(%d) = %d, want %d", tt.total, got, tt.want)
			}
		})
	}
}

func TestAchievements(t *testing.T) {
	fresh := Progress{}
	if got := fresh.Achievements(4); len(got) != 0 {
		t.Errorf("fresh user earned %v, want none", got)
	}

	full := Progress{
		CompletedModules: []string{"a", "b", "c", "d"},
		QuizzesTaken:     5,
		DaysActive:       7,
	}
	got := full.Achievements(4)
	if len(got) != 4 {
		t.Fatalf("expected 4 achievements, got %d: %v", len(got), got)
	}

	partial := Progress{CompletedModules: []string{"a"}}
	earned := partial.Achievements(4)
	if len(earned) != 1 || earned[0] != "First Steps: completed your first module" {
		t.Errorf("one module should earn only First Steps, got %v", earned)
	}
}
