// Package orchestrator runs the interview session state machine: question
// selection, answer dispatch, follow-up branching, and completion.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillcheck/interviewer/internal/catalog"
	"github.com/skillcheck/interviewer/internal/evaluator"
	"github.com/skillcheck/interviewer/internal/model"
	"github.com/skillcheck/interviewer/internal/report"
	"github.com/skillcheck/interviewer/internal/store"
)

// Invalid-call conditions. These are results to check for, not crashes: the
// orchestrator must stay serviceable whatever the caller does.
var (
	ErrNoSession  = errors.New("no active interview session")
	ErrNoQuestion = errors.New("no current question available")
	ErrNotPaused  = errors.New("interview is not in paused state")
)

const (
	defaultQuestionCount = 6
	followUpThreshold    = 60
)

// Orchestrator coordinates one interview session at a time.
type Orchestrator struct {
	mu        sync.Mutex
	store     *store.Store
	evaluator *evaluator.Evaluator
	archiver  Archiver

	current *model.Session
	history []model.Session
}

// Archiver records completed sessions. May be nil; archiving failures never
// block completion.
type Archiver interface {
	Record(sess model.Session, rep model.Report) error
}

// New creates an orchestrator over the given store and evaluator.
func New(st *store.Store, ev *evaluator.Evaluator, ar Archiver) *Orchestrator {
	return &Orchestrator{store: st, evaluator: ev, archiver: ar}
}

// StartResult is returned by StartInterview.
type StartResult struct {
	InterviewID    string          `json:"interview_id"`
	TotalQuestions int             `json:"total_questions"`
	FirstQuestion  *model.Question `json:"first_question"`
	Status         string          `json:"status"`
}

// SubmitResult carries the outcome of one answer submission. Exactly one of
// the follow_up / continue / completed shapes is populated, per Status.
type SubmitResult struct {
	Status           string           `json:"status"`
	Evaluation       model.Evaluation `json:"evaluation"`
	FollowUpQuestion *model.Question  `json:"follow_up_question,omitempty"`
	NextQuestion     *model.Question  `json:"next_question,omitempty"`
	Progress         *model.Progress  `json:"progress,omitempty"`
	InterviewID      string           `json:"interview_id,omitempty"`
	FinalReport      *model.Report    `json:"final_report,omitempty"`
	TotalTime        *model.Duration  `json:"total_time,omitempty"`
}

// StatusResult describes the active session, if any.
type StatusResult struct {
	Status      string          `json:"status"`
	InterviewID string          `json:"interview_id,omitempty"`
	Role        model.Role      `json:"role,omitempty"`
	Progress    *model.Progress `json:"progress,omitempty"`
	ElapsedTime *model.Duration `json:"elapsed_time,omitempty"`
}

// SystemAnalytics is the operational overview of bank and interview volume.
type SystemAnalytics struct {
	QuestionBankStats        store.Analytics `json:"question_bank_stats"`
	TotalInterviewsConducted int             `json:"total_interviews_conducted"`
	ActiveInterview          bool            `json:"active_interview"`
	SystemStatus             string          `json:"system_status"`
}

// StartInterview selects a balanced question set for the role and opens a
// new session, replacing any session still active. Freshly generated
// questions that made the cut are persisted to the bank.
func (o *Orchestrator) StartInterview(role model.Role, candidateInfo map[string]string, questionCount int) StartResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	if questionCount <= 0 {
		questionCount = defaultQuestionCount
	}

	questions := o.selectQuestions(role, questionCount)

	// Relaxed fallback tier: re-fetch by role and count alone, then top up
	// with generated questions before rebalancing.
	if len(questions) < questionCount {
		pool := o.store.QuestionsByCriteria(store.Criteria{Role: role, Count: questionCount})
		if len(pool) < questionCount {
			pool = append(pool, catalog.GenerateInterviewQuestions(role, questionCount-len(pool))...)
		}
		questions = balanceSelection(pool, questionCount)
	}

	for i, q := range questions {
		if q.Generated && !q.FollowUp {
			// The store may reassign the content-derived id on collision.
			questions[i].ID = o.store.StoreQuestion(q)
		}
	}

	if candidateInfo == nil {
		candidateInfo = map[string]string{}
	}
	o.current = &model.Session{
		InterviewID:   newInterviewID(),
		Role:          role,
		CandidateInfo: candidateInfo,
		Questions:     questions,
		StartTime:     time.Now(),
		Status:        model.StatusInProgress,
	}

	result := StartResult{
		InterviewID:    o.current.InterviewID,
		TotalQuestions: len(questions),
		Status:         "started",
	}
	if len(questions) > 0 {
		q := questions[0]
		result.FirstQuestion = &q
	}

	slog.Info("interview started",
		"interview_id", result.InterviewID, "role", role, "questions", len(questions))
	return result
}

// selectQuestions blends the store's best questions with generated ones and
// balances the result across difficulty tiers.
func (o *Orchestrator) selectQuestions(role model.Role, count int) []model.Question {
	stored := o.store.BestQuestions(role, count)

	var pool []model.Question
	if len(stored) < count {
		pool = append(stored, catalog.GenerateInterviewQuestions(role, count-len(stored))...)
	} else {
		pool = stored[:count]
	}

	return balanceSelection(pool, count)
}

// balanceSelection spreads the selection across difficulty tiers: count/3
// each, remainder to intermediate first, then basic, then advanced. Within a
// tier the most effective questions win.
func balanceSelection(questions []model.Question, target int) []model.Question {
	if len(questions) <= target {
		return questions
	}

	dist := map[model.Difficulty]int{
		model.DifficultyBasic:        target / 3,
		model.DifficultyIntermediate: target / 3,
		model.DifficultyAdvanced:     target / 3,
	}
	remaining := target % 3
	for _, d := range []model.Difficulty{model.DifficultyIntermediate, model.DifficultyBasic, model.DifficultyAdvanced} {
		if remaining == 0 {
			break
		}
		dist[d]++
		remaining--
	}

	var selected []model.Question
	picked := make(map[int]bool)
	for _, difficulty := range model.Difficulties {
		var tier []model.Question
		for _, q := range questions {
			if q.Difficulty == difficulty {
				tier = append(tier, q)
			}
		}
		store.SortByEffectiveness(tier)
		for i := 0; i < len(tier) && i < dist[difficulty]; i++ {
			selected = append(selected, tier[i])
			picked[tier[i].ID] = true
		}
	}

	if len(selected) < target {
		var rest []model.Question
		for _, q := range questions {
			if !picked[q.ID] {
				rest = append(rest, q)
			}
		}
		store.SortByEffectiveness(rest)
		need := target - len(selected)
		if need > len(rest) {
			need = len(rest)
		}
		selected = append(selected, rest[:need]...)
	}

	if len(selected) > target {
		selected = selected[:target]
	}
	return selected
}

// CurrentQuestion returns the question awaiting an answer, or false when the
// sequence is exhausted or no session is active.
func (o *Orchestrator) CurrentQuestion() (model.Question, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.currentQuestionLocked()
}

func (o *Orchestrator) currentQuestionLocked() (model.Question, bool) {
	if o.current == nil {
		return model.Question{}, false
	}
	if o.current.CurrentQuestionIndex >= len(o.current.Questions) {
		return model.Question{}, false
	}
	return o.current.Questions[o.current.CurrentQuestionIndex], true
}

// SubmitAnswer evaluates one answer, updates bank statistics, and decides
// whether to follow up, advance, or complete the session.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, response string) (SubmitResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil {
		return SubmitResult{}, ErrNoSession
	}
	question, ok := o.currentQuestionLocked()
	if !ok {
		return SubmitResult{}, ErrNoQuestion
	}

	eval := o.evaluator.EvaluateComprehensive(ctx, question, response)

	o.current.Responses = append(o.current.Responses, model.ResponseRecord{
		QuestionID: question.ID,
		Response:   response,
		Timestamp:  time.Now(),
	})
	o.current.Evaluations = append(o.current.Evaluations, eval)

	o.store.UpdatePerformance(question.ID, eval.Score, "")

	return o.determineNextAction(eval), nil
}

// determineNextAction applies the branching rule: one follow-up per question
// on a weak answer, otherwise advance or complete.
func (o *Orchestrator) determineNextAction(eval model.Evaluation) SubmitResult {
	if eval.Score < followUpThreshold && !o.current.HasAskedFollowUp {
		o.current.HasAskedFollowUp = true
		question, _ := o.currentQuestionLocked()
		followUp := catalog.GenerateFollowUp(question, eval)
		return SubmitResult{
			Status:           "follow_up",
			Evaluation:       eval,
			FollowUpQuestion: &followUp,
		}
	}

	o.current.CurrentQuestionIndex++
	o.current.HasAskedFollowUp = false

	if o.current.CurrentQuestionIndex >= len(o.current.Questions) {
		return o.completeInterview(eval)
	}

	next := o.current.Questions[o.current.CurrentQuestionIndex]
	progress := o.progressLocked()
	return SubmitResult{
		Status:       "continue",
		Evaluation:   eval,
		NextQuestion: &next,
		Progress:     &progress,
	}
}

// completeInterview finalizes the session, moves it into history, and frees
// the active slot for the next candidate.
func (o *Orchestrator) completeInterview(eval model.Evaluation) SubmitResult {
	o.current.Status = model.StatusCompleted
	o.current.EndTime = time.Now()

	rep := report.GenerateFinalReport(o.current.Evaluations, o.current.Role)
	sess := *o.current

	o.history = append(o.history, sess)
	o.store.IncrementInterviews()
	if o.archiver != nil {
		if err := o.archiver.Record(sess, rep); err != nil {
			slog.Error("archive interview", "interview_id", sess.InterviewID, "error", err)
		}
	}
	o.current = nil

	duration := sessionDuration(sess)
	slog.Info("interview completed",
		"interview_id", sess.InterviewID,
		"decision", rep.HiringDecision.Decision,
		"overall_score", rep.OverallScore)

	return SubmitResult{
		Status:      "completed",
		Evaluation:  eval,
		InterviewID: sess.InterviewID,
		FinalReport: &rep,
		TotalTime:   &duration,
	}
}

// Pause suspends the active session; the question index and evaluations are
// untouched.
func (o *Orchestrator) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil {
		return ErrNoSession
	}
	o.current.Status = model.StatusPaused
	return nil
}

// Resume puts a paused session back in progress and returns the question
// awaiting an answer.
func (o *Orchestrator) Resume() (model.Question, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil {
		return model.Question{}, ErrNoSession
	}
	if o.current.Status != model.StatusPaused {
		return model.Question{}, ErrNotPaused
	}
	o.current.Status = model.StatusInProgress
	q, _ := o.currentQuestionLocked()
	return q, nil
}

// Status reports the active session, or a no_active_interview marker.
func (o *Orchestrator) Status() StatusResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil {
		return StatusResult{Status: "no_active_interview"}
	}

	progress := o.progressLocked()
	elapsed := elapsedTime(*o.current)
	return StatusResult{
		Status:      string(o.current.Status),
		InterviewID: o.current.InterviewID,
		Role:        o.current.Role,
		Progress:    &progress,
		ElapsedTime: &elapsed,
	}
}

// History returns the most recent completed sessions, oldest first.
func (o *Orchestrator) History(limit int) []model.Session {
	o.mu.Lock()
	defer o.mu.Unlock()

	if limit <= 0 || limit > len(o.history) {
		limit = len(o.history)
	}
	out := make([]model.Session, limit)
	copy(out, o.history[len(o.history)-limit:])
	return out
}

// Analytics combines bank statistics with interview volume.
func (o *Orchestrator) Analytics() SystemAnalytics {
	o.mu.Lock()
	active := o.current != nil
	conducted := len(o.history)
	o.mu.Unlock()

	return SystemAnalytics{
		QuestionBankStats:        o.store.Analytics(),
		TotalInterviewsConducted: conducted,
		ActiveInterview:          active,
		SystemStatus:             "operational",
	}
}

func (o *Orchestrator) progressLocked() model.Progress {
	total := len(o.current.Questions)
	current := o.current.CurrentQuestionIndex
	p := model.Progress{Current: current, Total: total}
	if total > 0 {
		p.Percentage = float64(current) / float64(total) * 100
	}
	return p
}

func newInterviewID() string {
	return fmt.Sprintf("interview_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
}

// sessionDuration computes the total interview time. Missing timestamps
// produce an error-shaped result instead of failing completion.
func sessionDuration(sess model.Session) model.Duration {
	if sess.StartTime.IsZero() || sess.EndTime.IsZero() {
		return model.Duration{Error: "missing timestamp data"}
	}
	d := sess.EndTime.Sub(sess.StartTime)
	return model.Duration{
		TotalSeconds: d.Seconds(),
		TotalMinutes: math.Round(d.Minutes()*10) / 10,
		Formatted:    d.Truncate(time.Second).String(),
	}
}

func elapsedTime(sess model.Session) model.Duration {
	if sess.StartTime.IsZero() {
		return model.Duration{Error: "missing start time"}
	}
	d := time.Since(sess.StartTime)
	return model.Duration{
		TotalSeconds: d.Seconds(),
		TotalMinutes: math.Round(d.Minutes()*10) / 10,
		Formatted:    d.Truncate(time.Second).String(),
	}
}
