package llm

import (
	"strings"
	"testing"

	"github.com/skillcheck/interviewer/internal/model"
)

func TestBuildEvaluationPrompt(t *testing.T) {
	q := model.Question{
		Text:       "How would you use SUMIF to calculate total sales?",
		Type:       model.TypeFormula,
		Difficulty: model.DifficultyIntermediate,
		Keywords:   []string{"SUMIF", "conditional"},
	}

	prompt := buildEvaluationPrompt(q, "I would set the criteria range first")

	if !strings.Contains(prompt, q.Text) {
		t.Error("prompt should contain question text")
	}
	if !strings.Contains(prompt, "I would set the criteria range first") {
		t.Error("prompt should contain the candidate's response")
	}
	if !strings.Contains(prompt, "Type: formula") {
		t.Error("prompt should name the question type")
	}
	if !strings.Contains(prompt, "Difficulty: intermediate") {
		t.Error("prompt should name the difficulty")
	}
	if !strings.Contains(prompt, "SUMIF, conditional") {
		t.Error("prompt should list expected concepts")
	}
	if !strings.Contains(prompt, `"score": <0-100>`) {
		t.Error("prompt should pin the JSON output shape")
	}
}

func TestBuildEvaluationPromptNoKeywords(t *testing.T) {
	prompt := buildEvaluationPrompt(model.Question{Text: "Explain pivot tables."}, "answer")

	if strings.Contains(prompt, "Expected concepts") {
		t.Error("prompt should omit the concepts section without keywords")
	}
}

func TestNewUsesBaseURL(t *testing.T) {
	c := New("http://localhost:11434/v1", "key", "llama3.2")
	if c.model != "llama3.2" {
		t.Errorf("model = %q, want llama3.2", c.model)
	}
	if c.api == nil {
		t.Error("api client is nil")
	}
}
