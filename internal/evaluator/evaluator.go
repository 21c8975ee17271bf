// Package evaluator scores candidate answers. It asks the oracle first and
// degrades through a text-scan parse and a local heuristic scorer, so
// evaluation always produces a result.
package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/skillcheck/interviewer/internal/model"
)

// Oracle is the external scoring service. It returns the model's raw text or
// an error when the call itself fails.
type Oracle interface {
	Score(ctx context.Context, question model.Question, response string) (string, error)
}

// Evaluator wraps the oracle with parsing and fallback scoring.
type Evaluator struct {
	oracle Oracle
}

// New creates an evaluator backed by the given oracle.
func New(oracle Oracle) *Evaluator {
	return &Evaluator{oracle: oracle}
}

var (
	jsonBlockRegex = regexp.MustCompile(`\{[\s\S]*\}`)
	numberRegex    = regexp.MustCompile(`\d+`)
)

// fallbackFunctions is the fixed vocabulary the local scorer rewards.
var fallbackFunctions = []string{"SUM", "AVERAGE", "VLOOKUP", "IF", "COUNT", "PIVOT", "INDEX", "MATCH"}

// EvaluateComprehensive scores one answer against its question. It never
// returns an error: an oracle outage only shows up as a degraded
// evaluation_source and an error excerpt in the feedback.
func (e *Evaluator) EvaluateComprehensive(ctx context.Context, question model.Question, response string) model.Evaluation {
	var eval model.Evaluation

	raw, err := e.oracle.Score(ctx, question, response)
	if err != nil {
		slog.Warn("oracle unavailable, using local scorer", "question_id", question.ID, "error", err)
		eval = fallbackEvaluation(response, err)
	} else {
		eval = parseOracleResponse(raw)
	}

	words := len(strings.Fields(response))
	eval.ResponseLength = model.ResponseLength{
		Words:      words,
		Characters: len(strings.TrimSpace(response)),
		Quality:    lengthQuality(words),
	}
	eval.Timestamp = time.Now()
	eval.QuestionID = question.ID
	return eval
}

// oracleResult is the structured shape the oracle is asked to return.
// Pointer fields so absent values can default to a neutral 50.
type oracleResult struct {
	Score                *int     `json:"score"`
	TechnicalAccuracy    *int     `json:"technical_accuracy"`
	Depth                *int     `json:"depth"`
	PracticalApplication *int     `json:"practical_application"`
	Strengths            []string `json:"strengths"`
	Improvements         []string `json:"improvements"`
	OverallFeedback      string   `json:"overall_feedback"`
}

// parseOracleResponse maps oracle output to one of two paths: structured
// JSON, or the lenient text scan when the output is not well-formed.
func parseOracleResponse(raw string) model.Evaluation {
	block := jsonBlockRegex.FindString(raw)
	if block == "" {
		return parseTextResponse(raw)
	}

	var result oracleResult
	if err := json.Unmarshal([]byte(block), &result); err != nil {
		return parseTextResponse(raw)
	}

	feedback := result.OverallFeedback
	if feedback == "" {
		feedback = "Response evaluated"
	}

	return model.Evaluation{
		Score:                intOr(result.Score, 50),
		TechnicalAccuracy:    intOr(result.TechnicalAccuracy, 50),
		Depth:                intOr(result.Depth, 50),
		PracticalApplication: intOr(result.PracticalApplication, 50),
		Strengths:            result.Strengths,
		Improvements:         result.Improvements,
		OverallFeedback:      feedback,
		Source:               model.SourceAI,
	}
}

// parseTextResponse extracts a score from free-form oracle text: the first
// number on the first line mentioning "score" or "/100", capped at 100,
// defaulting to 70.
func parseTextResponse(raw string) model.Evaluation {
	score := 70
	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(strings.ToLower(line), "score") && !strings.Contains(line, "/100") {
			continue
		}
		if m := numberRegex.FindString(line); m != "" {
			n, err := strconv.Atoi(m)
			if err == nil {
				score = min(n, 100)
				break
			}
		}
	}

	return model.Evaluation{
		Score:                score,
		TechnicalAccuracy:    score,
		Depth:                max(score-10, 0),
		PracticalApplication: max(score-5, 0),
		Strengths:            []string{"AI provided feedback"},
		Improvements:         []string{"See detailed feedback below"},
		OverallFeedback:      excerpt(raw, 200),
		Source:               model.SourceAIText,
	}
}

// fallbackEvaluation is the fully local heuristic used when the oracle call
// fails: base 40, length bonus, function vocabulary bonus, formula-syntax
// bonus, capped at 100.
func fallbackEvaluation(response string, oracleErr error) model.Evaluation {
	score := 40
	words := len(strings.Fields(response))
	switch {
	case words > 30:
		score += 25
	case words > 15:
		score += 15
	case words > 5:
		score += 10
	}

	lower := strings.ToLower(response)
	var found []string
	for _, fn := range fallbackFunctions {
		if strings.Contains(lower, strings.ToLower(fn)) {
			found = append(found, fn)
		}
	}
	if len(found) > 0 {
		score += 20
	}
	if strings.Contains(response, "=") || strings.Contains(response, "()") {
		score += 15
	}
	score = min(score, 100)

	strengths := []string{"Response provided"}
	if len(found) > 0 {
		mention := found
		if len(mention) > 2 {
			mention = mention[:2]
		}
		strengths = append(strengths, "Mentioned: "+strings.Join(mention, ", "))
	}

	return model.Evaluation{
		Score:                score,
		TechnicalAccuracy:    score,
		Depth:                max(score-10, 0),
		PracticalApplication: max(score-5, 0),
		Strengths:            strengths,
		Improvements:         []string{"Could provide more detail", "Add specific Excel function examples"},
		OverallFeedback:      fmt.Sprintf("Fallback evaluation (oracle error: %s)", excerpt(oracleErr.Error(), 50)),
		Source:               model.SourceFallback,
	}
}

func lengthQuality(words int) string {
	switch {
	case words > 20:
		return "detailed"
	case words > 5:
		return "brief"
	default:
		return "minimal"
	}
}

func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
