package models

import "time"

// Progress tracks a user's learning state across modules and quizzes.
type Progress struct {
	UserID           int64     `json:"user_id"`
	CompletedModules []string  `json:"completed_modules"`
	StartedModules   []string  `json:"started_modules"`
	RecentTopics     []string  `json:"recent_topics"`
	QuizzesTaken     int       `json:"quizzes_taken"`
	DaysActive       int       `json:"days_active"`
	LastActiveAt     time.Time `json:"last_active_at"`
}

// Quiz activity can lift the overall score by at most this much; module
// completion carries the rest.
const (
	quizScorePoints = 5
	quizScoreCap    = 20
)

// OverallScore derives a 0-100 completion percentage. Completed modules
// carry up to 80 points, quizzes add quizScorePoints each up to
// quizScoreCap. totalModules guards against division by zero for an
// empty content catalogue.
func (p Progress) OverallScore(totalModules int) int {
	if totalModules <= 0 {
		return 0
	}
	score := len(p.CompletedModules) * (100 - quizScoreCap) / totalModules
	quizPart := p.QuizzesTaken * quizScorePoints
	if quizPart > quizScoreCap {
		quizPart = quizScoreCap
	}
	score += quizPart
	if score > 100 {
		score = 100
	}
	return score
}

// Achievements derives earned badges from the progress counters, in a
// fixed presentation order.
func (p Progress) Achievements(totalModules int) []string {
	var earned []string
	if len(p.CompletedModules) >= 1 {
		earned = append(earned, "First Steps: completed your first module")
	}
	if totalModules > 0 && len(p.CompletedModules) >= totalModules {
		earned = append(earned, "Scholar: completed every module")
	}
	if p.QuizzesTaken >= 5 {
		earned = append(earned, "Quiz Enthusiast: took 5 quizzes")
	}
	if p.DaysActive >= 7 {
		earned = append(earned, "Consistent Learner: active 7 days")
	}
	return earned
}

// HasCompleted reports whether the module was finished.
func (p Progress) HasCompleted(moduleID string) bool {
	for _, m := range p.CompletedModules {
		if m == moduleID {
			return true
		}
	}
	return false
}
