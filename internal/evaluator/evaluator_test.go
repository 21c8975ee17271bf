package evaluator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/skillcheck/interviewer/internal/model"
)

// fakeOracle returns a canned response or error.
type fakeOracle struct {
	raw string
	err error
}

func (f fakeOracle) Score(context.Context, model.Question, string) (string, error) {
	return f.raw, f.err
}

func TestEvaluateComprehensiveStructured(t *testing.T) {
	raw := `{"score": 85, "technical_accuracy": 90, "depth": 80, "practical_application": 75,
		"strengths": ["good formula knowledge"], "improvements": ["add examples"],
		"overall_feedback": "Solid answer"}`
	e := New(fakeOracle{raw: raw})

	eval := e.EvaluateComprehensive(context.Background(), model.Question{ID: 7}, "I would use SUM for that range")

	if eval.Source != model.SourceAI {
		t.Errorf("Source = %q, want %q", eval.Source, model.SourceAI)
	}
	if eval.Score != 85 || eval.TechnicalAccuracy != 90 || eval.Depth != 80 || eval.PracticalApplication != 75 {
		t.Errorf("scores = %d/%d/%d/%d, want 85/90/80/75",
			eval.Score, eval.TechnicalAccuracy, eval.Depth, eval.PracticalApplication)
	}
	if eval.OverallFeedback != "Solid answer" {
		t.Errorf("OverallFeedback = %q", eval.OverallFeedback)
	}
	if eval.QuestionID != 7 {
		t.Errorf("QuestionID = %d, want 7", eval.QuestionID)
	}
	if eval.ResponseLength.Words != 7 {
		t.Errorf("Words = %d, want 7", eval.ResponseLength.Words)
	}
}

func TestEvaluateComprehensiveMissingFieldsDefault(t *testing.T) {
	e := New(fakeOracle{raw: `{"score": 62}`})

	eval := e.EvaluateComprehensive(context.Background(), model.Question{}, "answer")

	if eval.Score != 62 {
		t.Errorf("Score = %d, want 62", eval.Score)
	}
	if eval.TechnicalAccuracy != 50 || eval.Depth != 50 || eval.PracticalApplication != 50 {
		t.Errorf("missing dimensions = %d/%d/%d, want 50 defaults",
			eval.TechnicalAccuracy, eval.Depth, eval.PracticalApplication)
	}
	if eval.OverallFeedback != "Response evaluated" {
		t.Errorf("OverallFeedback = %q, want default", eval.OverallFeedback)
	}
}

func TestEvaluateComprehensiveTextScan(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantScore int
	}{
		{"score line", "The candidate did well.\nScore: 82 overall.", 82},
		{"slash hundred", "I would rate this 55/100 overall", 55},
		{"capped at 100", "score: 250", 100},
		{"no number", "no usable rating here", 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(fakeOracle{raw: tt.raw})
			eval := e.EvaluateComprehensive(context.Background(), model.Question{}, "answer")

			if eval.Source != model.SourceAIText {
				t.Errorf("Source = %q, want %q", eval.Source, model.SourceAIText)
			}
			if eval.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", eval.Score, tt.wantScore)
			}
			if eval.Depth != max(tt.wantScore-10, 0) {
				t.Errorf("Depth = %d, want %d", eval.Depth, max(tt.wantScore-10, 0))
			}
			if eval.PracticalApplication != max(tt.wantScore-5, 0) {
				t.Errorf("PracticalApplication = %d, want %d", eval.PracticalApplication, max(tt.wantScore-5, 0))
			}
		})
	}
}

func TestEvaluateComprehensiveFallback(t *testing.T) {
	e := New(fakeOracle{err: errors.New("connection refused")})

	tests := []struct {
		name      string
		response  string
		wantScore int
	}{
		{"empty", "", 40},
		{"short no vocabulary", "I do not know much about spreadsheets here", 50},
		{"vocabulary bonus", "Use the SUM function", 60},
		{"formula syntax bonus", "=A1+B1 does the trick very quickly", 65},
		{
			"all bonuses capped",
			"I would use SUM and VLOOKUP with =SUM(A1:A10) and then INDEX with MATCH " +
				"to look up values across sheets, plus PIVOT tables for the summary view " +
				"and COUNTIF for the conditional counting of matching rows in the data",
			100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := e.EvaluateComprehensive(context.Background(), model.Question{}, tt.response)

			if eval.Source != model.SourceFallback {
				t.Errorf("Source = %q, want %q", eval.Source, model.SourceFallback)
			}
			if eval.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", eval.Score, tt.wantScore)
			}
			if !strings.Contains(eval.OverallFeedback, "connection refused") {
				t.Errorf("OverallFeedback = %q, want oracle error excerpt", eval.OverallFeedback)
			}
		})
	}
}

func TestFallbackStrengthsMentionFunctions(t *testing.T) {
	eval := fallbackEvaluation("SUM then AVERAGE then VLOOKUP", errors.New("down"))

	if len(eval.Strengths) != 2 {
		t.Fatalf("Strengths = %v, want 2 entries", eval.Strengths)
	}
	if eval.Strengths[0] != "Response provided" {
		t.Errorf("Strengths[0] = %q", eval.Strengths[0])
	}
	// Only the first two found functions are named.
	if eval.Strengths[1] != "Mentioned: SUM, AVERAGE" {
		t.Errorf("Strengths[1] = %q, want %q", eval.Strengths[1], "Mentioned: SUM, AVERAGE")
	}
}

func TestLengthQuality(t *testing.T) {
	tests := []struct {
		words int
		want  string
	}{
		{0, "minimal"},
		{5, "minimal"},
		{6, "brief"},
		{20, "brief"},
		{21, "detailed"},
	}

	for _, tt := range tests {
		if got := lengthQuality(tt.words); got != tt.want {
			t.Errorf("lengthQuality(%d) = %q, want %q", tt.words, got, tt.want)
		}
	}
}

func TestParseOracleResponseMalformedJSONFallsToTextScan(t *testing.T) {
	eval := parseOracleResponse("Here is my take {score: not json} final score 44/100")
	if eval.Source != model.SourceAIText {
		t.Errorf("Source = %q, want %q", eval.Source, model.SourceAIText)
	}
	if eval.Score != 44 {
		t.Errorf("Score = %d, want 44", eval.Score)
	}
}
