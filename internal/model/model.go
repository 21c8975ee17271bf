package model

import "time"

// QuestionType distinguishes formula questions from conceptual ones.
type QuestionType string

const (
	TypeFormula QuestionType = "formula"
	TypeConcept QuestionType = "concept"
)

// Category is one of the fixed skill areas a question belongs to.
type Category string

const (
	CategoryBasicFormulas    Category = "basic_formulas"
	CategoryLookupFunctions  Category = "lookup_functions"
	CategoryDataAnalysis     Category = "data_analysis"
	CategoryAdvancedFormulas Category = "advanced_formulas"
	CategoryDataManipulation Category = "data_manipulation"
	CategoryScenarioBased    Category = "scenario_based"
)

// Difficulty represents question difficulty level.
type Difficulty string

const (
	DifficultyBasic        Difficulty = "basic"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Difficulties lists all tiers in ascending order. Selection and balancing
// iterate this slice, so the order is part of the contract.
var Difficulties = []Difficulty{DifficultyBasic, DifficultyIntermediate, DifficultyAdvanced}

// Role is a hiring role tag. Unknown roles are allowed and fall back to
// default thresholds in reporting.
type Role string

const (
	RoleFinance       Role = "finance"
	RoleOperations    Role = "operations"
	RoleDataAnalytics Role = "data_analytics"
)

// SessionStatus represents the status of an interview session.
type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusPaused     SessionStatus = "paused"
	StatusCompleted  SessionStatus = "completed"
)

// EvaluationSource records which evaluation path produced a score.
type EvaluationSource string

const (
	SourceAI       EvaluationSource = "AI"
	SourceAIText   EvaluationSource = "AI_Text"
	SourceFallback EvaluationSource = "Fallback"
)

// Outcome is the binary hiring signal optionally fed back into question stats.
type Outcome string

const (
	OutcomeHired    Outcome = "hired"
	OutcomeNotHired Outcome = "not_hired"
)

// PerformanceRecord is one append-only entry in a question's history.
type PerformanceRecord struct {
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
	Outcome   Outcome   `json:"outcome,omitempty"`
}

// Question is a bank question together with its performance statistics.
// Owned exclusively by the store; statistics change only through
// UpdatePerformance.
type Question struct {
	ID                 int                 `json:"id"`
	Text               string              `json:"question"`
	Type               QuestionType        `json:"type"`
	Category           Category            `json:"category"`
	Difficulty         Difficulty          `json:"difficulty"`
	Keywords           []string            `json:"keywords"`
	TargetRoles        []Role              `json:"target_roles"`
	UsageCount         int                 `json:"usage_count"`
	AvgScore           float64             `json:"avg_score"`
	SuccessRate        float64             `json:"success_rate"`
	EffectivenessScore float64             `json:"effectiveness_score"`
	PerformanceHistory []PerformanceRecord `json:"performance_history"`
	CreatedDate        time.Time           `json:"created_date"`
	Generated          bool                `json:"generated"`
	FollowUp           bool                `json:"follow_up,omitempty"`
}

// TargetsRole reports whether the question is eligible for a role.
func (q Question) TargetsRole(role Role) bool {
	for _, r := range q.TargetRoles {
		if r == role {
			return true
		}
	}
	return false
}

// ResponseLength holds size metadata about a candidate answer.
type ResponseLength struct {
	Words      int    `json:"words"`
	Characters int    `json:"characters"`
	Quality    string `json:"quality"`
}

// Evaluation is the immutable result of scoring one submitted answer.
type Evaluation struct {
	Score                int              `json:"score"`
	TechnicalAccuracy    int              `json:"technical_accuracy"`
	Depth                int              `json:"depth"`
	PracticalApplication int              `json:"practical_application"`
	Strengths            []string         `json:"strengths"`
	Improvements         []string         `json:"improvements"`
	OverallFeedback      string           `json:"overall_feedback"`
	Source               EvaluationSource `json:"evaluation_source"`
	ResponseLength       ResponseLength   `json:"response_length"`
	Timestamp            time.Time        `json:"timestamp"`
	QuestionID           int              `json:"question_id"`
}

// ResponseRecord is one submitted answer, parallel to the evaluations track
// for main questions.
type ResponseRecord struct {
	QuestionID int       `json:"question_id"`
	Response   string    `json:"response"`
	Timestamp  time.Time `json:"timestamp"`
}

// Session is the orchestrator's aggregate for one candidate's interview.
// The question sequence is fixed once the session starts.
type Session struct {
	InterviewID          string            `json:"interview_id"`
	Role                 Role              `json:"role"`
	CandidateInfo        map[string]string `json:"candidate_info"`
	Questions            []Question        `json:"questions"`
	Responses            []ResponseRecord  `json:"responses"`
	Evaluations          []Evaluation      `json:"evaluations"`
	StartTime            time.Time         `json:"start_time"`
	EndTime              time.Time         `json:"end_time,omitzero"`
	CurrentQuestionIndex int               `json:"current_question_index"`
	Status               SessionStatus     `json:"status"`
	HasAskedFollowUp     bool              `json:"has_asked_follow_up"`
}

// Decision is the final hiring recommendation tier.
type Decision string

const (
	DecisionStrongHire      Decision = "STRONG HIRE"
	DecisionConditionalHire Decision = "CONDITIONAL HIRE"
	DecisionNoHireTraining  Decision = "NO HIRE - TRAINING REQUIRED"
	DecisionReject          Decision = "REJECT"
)

// HiringDecision carries the decision with its confidence and the threshold
// check. MeetsThreshold is computed from the average alone, so it can be true
// even when a majority of critical failures forces a REJECT.
type HiringDecision struct {
	Decision       Decision `json:"decision"`
	Confidence     string   `json:"confidence"`
	MeetsThreshold bool     `json:"meets_threshold"`
}

// DetailedScores are the unweighted dimension averages over all evaluations.
type DetailedScores struct {
	TechnicalAccuracy    float64 `json:"technical_accuracy"`
	DepthOfUnderstanding float64 `json:"depth_of_understanding"`
	PracticalApplication float64 `json:"practical_application"`
}

// SkillLevel is a qualitative tier in the skills breakdown.
type SkillLevel string

const (
	SkillStrong   SkillLevel = "STRONG"
	SkillAdequate SkillLevel = "ADEQUATE"
	SkillWeak     SkillLevel = "WEAK"
)

// Report is the derived, read-only hiring report for a completed session.
type Report struct {
	OverallScore            float64               `json:"overall_score"`
	HiringDecision          HiringDecision        `json:"hiring_decision"`
	ExecutiveSummary        string                `json:"executive_summary"`
	DetailedScores          DetailedScores        `json:"detailed_scores"`
	SkillsBreakdown         map[string]SkillLevel `json:"skills_breakdown"`
	CriticalGaps            []string              `json:"critical_gaps"`
	RecommendationRationale string                `json:"recommendation_rationale"`
	NextSteps               []string              `json:"next_steps"`
}

// Duration summarizes elapsed interview time. Error is set instead of the
// totals when timestamps are missing.
type Duration struct {
	TotalSeconds float64 `json:"total_seconds"`
	TotalMinutes float64 `json:"total_minutes"`
	Formatted    string  `json:"formatted"`
	Error        string  `json:"error,omitempty"`
}

// Progress reports position within the fixed question sequence.
type Progress struct {
	Current    int     `json:"current"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// BankMetadata is the metadata block of the persisted question bank.
type BankMetadata struct {
	TotalInterviews int       `json:"total_interviews"`
	LastUpdated     time.Time `json:"last_updated"`
	Version         string    `json:"version"`
}
