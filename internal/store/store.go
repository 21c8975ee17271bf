// Package store owns the question bank: performance statistics, ranking,
// and whole-file snapshot persistence.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/skillcheck/interviewer/internal/model"
)

const bankVersion = "1.0"

// Store holds the question bank in memory and persists it as one JSON
// document after every mutation. A write failure is logged, not propagated;
// the bank keeps serving from memory.
type Store struct {
	mu        sync.Mutex
	path      string
	questions []model.Question
	metadata  model.BankMetadata
}

type snapshot struct {
	Questions []model.Question   `json:"questions"`
	Metadata  model.BankMetadata `json:"metadata"`
}

// New loads the bank from path, seeding the built-in questions when no
// snapshot exists yet.
func New(path string) (*Store, error) {
	s := &Store{
		path:     path,
		metadata: model.BankMetadata{Version: bankVersion, LastUpdated: time.Now()},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.questions = seedQuestions()
		s.save()
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse question bank %s: %w", path, err)
	}
	s.questions = snap.Questions
	if snap.Metadata.Version != "" {
		s.metadata = snap.Metadata
	}
	return s, nil
}

// Criteria filters bank queries. Zero values mean no filtering on that field.
type Criteria struct {
	Category         model.Category
	Difficulty       model.Difficulty
	Role             model.Role
	MinEffectiveness float64
	Count            int // 0 means no limit
}

// QuestionsByCriteria returns questions matching all supplied predicates,
// sorted by effectiveness descending. No matches yields an empty list.
func (s *Store) QuestionsByCriteria(c Criteria) []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	var filtered []model.Question
	for _, q := range s.questions {
		if c.Category != "" && q.Category != c.Category {
			continue
		}
		if c.Difficulty != "" && q.Difficulty != c.Difficulty {
			continue
		}
		if c.Role != "" && !q.TargetsRole(c.Role) {
			continue
		}
		if c.MinEffectiveness > 0 && q.EffectivenessScore < c.MinEffectiveness {
			continue
		}
		filtered = append(filtered, q)
	}

	SortByEffectiveness(filtered)
	if c.Count > 0 && len(filtered) > c.Count {
		filtered = filtered[:c.Count]
	}
	return filtered
}

// BestQuestions picks up to two top-effectiveness role questions per
// difficulty tier, then fills any shortfall with the next-best role questions.
// May return fewer than count when the role pool is small.
func (s *Store) BestQuestions(role model.Role, count int) []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	var roleQuestions []model.Question
	for _, q := range s.questions {
		if q.TargetsRole(role) {
			roleQuestions = append(roleQuestions, q)
		}
	}

	var selected []model.Question
	picked := make(map[int]bool)
	for _, difficulty := range model.Difficulties {
		var tier []model.Question
		for _, q := range roleQuestions {
			if q.Difficulty == difficulty {
				tier = append(tier, q)
			}
		}
		SortByEffectiveness(tier)
		for i := 0; i < len(tier) && i < 2; i++ {
			selected = append(selected, tier[i])
			picked[tier[i].ID] = true
		}
	}

	if len(selected) < count {
		var remaining []model.Question
		for _, q := range roleQuestions {
			if !picked[q.ID] {
				remaining = append(remaining, q)
			}
		}
		SortByEffectiveness(remaining)
		need := count - len(selected)
		if need > len(remaining) {
			need = len(remaining)
		}
		selected = append(selected, remaining[:need]...)
	}

	if len(selected) > count {
		selected = selected[:count]
	}
	return selected
}

// UpdatePerformance folds one answer score (and optional hiring outcome) into
// a question's running statistics and recomputes its effectiveness. Unknown
// ids are a silent no-op.
func (s *Store) UpdatePerformance(id int, score int, outcome model.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	q := &s.questions[i]

	q.UsageCount++
	n := float64(q.UsageCount)
	q.AvgScore = (q.AvgScore*(n-1) + float64(score)) / n

	switch outcome {
	case model.OutcomeHired:
		q.SuccessRate = (q.SuccessRate*(n-1) + 1) / n
	case model.OutcomeNotHired:
		q.SuccessRate = (q.SuccessRate * (n - 1)) / n
	}

	q.PerformanceHistory = append(q.PerformanceHistory, model.PerformanceRecord{
		Score:     score,
		Timestamp: time.Now(),
		Outcome:   outcome,
	})
	q.EffectivenessScore = effectiveness(*q)

	s.save()
}

// effectiveness blends score discrimination, usage volume, and hiring
// correlation into a 0-1 diagnostic estimate. Under three uses there is not
// enough data and the neutral default applies.
func effectiveness(q model.Question) float64 {
	if q.UsageCount < 3 {
		return 0.5
	}

	discrimination := abs(q.AvgScore-70) / 30
	usage := float64(q.UsageCount) / 50
	if usage > 1 {
		usage = 1
	}

	e := discrimination*0.4 + usage*0.3 + q.SuccessRate*0.3
	if e < 0 {
		return 0
	}
	if e > 1 {
		return 1
	}
	return e
}

// StoreQuestion adds a question to the bank with fresh statistics, assigning
// a new id when none is set or the content-derived one collides.
func (s *Store) StoreQuestion(q model.Question) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q.ID == 0 || s.indexOf(q.ID) >= 0 {
		q.ID = s.nextID()
	}
	q.UsageCount = 0
	q.AvgScore = 0
	q.SuccessRate = 0
	q.EffectivenessScore = 0.5
	q.PerformanceHistory = nil
	if q.CreatedDate.IsZero() {
		q.CreatedDate = time.Now()
	}

	s.questions = append(s.questions, q)
	s.save()
	return q.ID
}

// DeleteQuestion removes a question by id. Returns false if the id is
// unknown.
func (s *Store) DeleteQuestion(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.questions = append(s.questions[:i], s.questions[i+1:]...)
	s.save()
	return true
}

// QuestionByID returns a question by id.
func (s *Store) QuestionByID(id int) (model.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Question{}, false
	}
	return s.questions[i], true
}

// Questions returns a copy of the full bank.
func (s *Store) Questions() []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Count returns the number of questions in the bank.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// Metadata returns the bank metadata block.
func (s *Store) Metadata() model.BankMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metadata
}

// IncrementInterviews bumps the completed-interview counter.
func (s *Store) IncrementInterviews() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata.TotalInterviews++
	s.save()
}

// Backup writes an independent point-in-time copy of the bank. Backups are
// never read back automatically. An empty path derives a timestamped name.
func (s *Store) Backup(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path == "" {
		path = fmt.Sprintf("questions_backup_%s.json", time.Now().Format("20060102_150405"))
	}
	data, err := json.MarshalIndent(snapshot{Questions: s.questions, Metadata: s.metadata}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal backup: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

// save writes the whole bank atomically (temp file + rename). Failures are
// logged and the in-memory state stays authoritative until the next save.
func (s *Store) save() {
	s.metadata.LastUpdated = time.Now()

	data, err := json.MarshalIndent(snapshot{Questions: s.questions, Metadata: s.metadata}, "", "  ")
	if err != nil {
		slog.Error("marshal question bank", "error", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		slog.Error("write question bank", "path", s.path, "error", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		slog.Error("replace question bank", "path", s.path, "error", err)
	}
}

func (s *Store) indexOf(id int) int {
	for i, q := range s.questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nextID() int {
	max := 0
	for _, q := range s.questions {
		if q.ID > max {
			max = q.ID
		}
	}
	return max + 1
}

// SortByEffectiveness orders questions by effectiveness descending, keeping
// the incoming order among ties.
func SortByEffectiveness(qs []model.Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		return qs[i].EffectivenessScore > qs[j].EffectivenessScore
	})
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
