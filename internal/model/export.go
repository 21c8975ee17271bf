package model

import "time"

// AnswerResult is one scored answer in an archived interview.
type AnswerResult struct {
	QuestionID   int              `json:"question_id"`
	QuestionText string           `json:"question_text"`
	Category     Category         `json:"category"`
	Difficulty   Difficulty       `json:"difficulty"`
	Response     string           `json:"response"`
	Score        int              `json:"score"`
	Source       EvaluationSource `json:"evaluation_source"`
	FollowUp     bool             `json:"follow_up,omitempty"`
	AnsweredAt   time.Time        `json:"answered_at"`
}

// InterviewResult is one archived interview with its outcome.
type InterviewResult struct {
	InterviewID   string         `json:"interview_id"`
	Role          Role           `json:"role"`
	CandidateName string         `json:"candidate_name,omitempty"`
	Status        SessionStatus  `json:"status"`
	StartedAt     time.Time      `json:"started_at"`
	EndedAt       time.Time      `json:"ended_at"`
	OverallScore  float64        `json:"overall_score"`
	Decision      Decision       `json:"decision"`
	Answers       []AnswerResult `json:"answers"`
}

// InterviewExport is the top-level document written by the export command.
type InterviewExport struct {
	ExportedAt time.Time         `json:"exported_at"`
	Count      int               `json:"count"`
	Results    []InterviewResult `json:"results"`
}
