package store

import (
	"math"
	"sort"
	"time"

	"github.com/skillcheck/interviewer/internal/model"
)

// TopQuestion is a bank question summarized for analytics.
type TopQuestion struct {
	ID            int     `json:"id"`
	Question      string  `json:"question"`
	Effectiveness float64 `json:"effectiveness"`
}

// Analytics summarizes the state of the question bank.
type Analytics struct {
	TotalQuestions         int                      `json:"total_questions"`
	TotalUsage             int                      `json:"total_usage"`
	AverageEffectiveness   float64                  `json:"average_effectiveness"`
	CategoryDistribution   map[model.Category]int   `json:"category_distribution"`
	DifficultyDistribution map[model.Difficulty]int `json:"difficulty_distribution"`
	TopQuestions           []TopQuestion            `json:"top_questions"`
	LastUpdated            time.Time                `json:"last_updated"`
}

// Analytics computes bank-wide statistics and the five most effective
// questions.
func (s *Store) Analytics() Analytics {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := Analytics{
		TotalQuestions:         len(s.questions),
		CategoryDistribution:   make(map[model.Category]int),
		DifficultyDistribution: make(map[model.Difficulty]int),
		LastUpdated:            s.metadata.LastUpdated,
	}
	if len(s.questions) == 0 {
		return a
	}

	var effectivenessSum float64
	for _, q := range s.questions {
		a.TotalUsage += q.UsageCount
		effectivenessSum += q.EffectivenessScore
		a.CategoryDistribution[q.Category]++
		a.DifficultyDistribution[q.Difficulty]++
	}
	a.AverageEffectiveness = math.Round(effectivenessSum/float64(len(s.questions))*1000) / 1000

	top := make([]model.Question, len(s.questions))
	copy(top, s.questions)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].EffectivenessScore > top[j].EffectivenessScore
	})
	if len(top) > 5 {
		top = top[:5]
	}
	for _, q := range top {
		a.TopQuestions = append(a.TopQuestions, TopQuestion{
			ID:            q.ID,
			Question:      truncate(q.Text, 50),
			Effectiveness: q.EffectivenessScore,
		})
	}
	return a
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
