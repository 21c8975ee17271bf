// Package llm is the scoring oracle client. It talks to any
// OpenAI-compatible endpoint and returns the model's raw text; parsing and
// fallback live in the evaluator.
package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/skillcheck/interviewer/internal/model"
)

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new oracle client.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Ping verifies the endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("oracle health check: %w", err)
	}
	return nil
}

// Score sends one candidate answer for evaluation and returns the model's
// raw response text. Any transport or API failure is returned as an error so
// the evaluator can degrade to its local scorer.
func (c *Client) Score(ctx context.Context, question model.Question, response string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildEvaluationPrompt(question, response)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("oracle API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("oracle returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

const systemPrompt = "You are an expert Excel interviewer evaluating candidate responses. " +
	"Assess technical accuracy, depth of understanding, and practical application, " +
	"rate answers on a scale of 0-100, and provide specific feedback."

func buildEvaluationPrompt(q model.Question, response string) string {
	var sb strings.Builder
	sb.WriteString("EXCEL INTERVIEW QUESTION:\n")
	sb.WriteString("Type: " + string(q.Type) + "\n")
	sb.WriteString("Difficulty: " + string(q.Difficulty) + "\n")
	sb.WriteString("Question: \"" + q.Text + "\"\n\n")
	sb.WriteString("CANDIDATE'S RESPONSE:\n\"" + response + "\"\n\n")
	sb.WriteString("EVALUATION CRITERIA:\n")
	sb.WriteString("- Technical accuracy of Excel functions/formulas mentioned\n")
	sb.WriteString("- Depth of understanding shown\n")
	sb.WriteString("- Practical application and problem-solving approach\n")
	sb.WriteString("- Communication clarity\n")

	if len(q.Keywords) > 0 {
		sb.WriteString("\nExpected concepts to cover: " + strings.Join(q.Keywords, ", ") + "\n")
	}

	sb.WriteString("\nRespond ONLY with a JSON object in this EXACT format:\n")
	sb.WriteString(`{"score": <0-100>, "technical_accuracy": <0-100>, "depth": <0-100>, "practical_application": <0-100>, "strengths": ["..."], "improvements": ["..."], "overall_feedback": "<brief overall assessment>"}`)
	sb.WriteString("\n")

	return sb.String()
}
