package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domain "github.com/bryanwahyu/drive-sentinel/internal/domain/classify"
	"github.com/bryanwahyu/drive-sentinel/internal/infra/ai/prompt"
)

const maxTokens = 1024

// Client implements the classify.Analyzer port against the OpenAI API.
type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

func (c *Client) Analyze(ctx context.Context, filename, mimeType string, content []byte) (domain.Result, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(filename, mimeType)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Result{}, fmt.Errorf("empty completion response")
	}

	return parseVerdict(resp.Choices[0].Message.Content)
}

// parseVerdict maps the model's JSON verdict onto a classification result.
func parseVerdict(raw string) (domain.Result, error) {
	var verdict struct {
		Category    string   `json:"category"`
		Confidence  float64  `json:"confidence_score"`
		Explanation string   `json:"explanation"`
		KeyTopics   []string `json:"key_topics"`
	}
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return domain.Result{}, fmt.Errorf("parse verdict: %w", err)
	}

	res := domain.Result{
		Confidence:    clamp01(verdict.Confidence),
		MatchedTopics: verdict.KeyTopics,
		Explanation:   verdict.Explanation,
	}
	if res.MatchedTopics == nil {
		res.MatchedTopics = []string{}
	}

	switch cat := domain.Category(strings.ToLower(verdict.Category)); cat {
	case domain.CategoryPII, domain.CategoryFinancial, domain.CategoryLegal, domain.CategoryConfidential:
		res.Primary = &cat
	default:
		res.Confidence = 0
	}
	return res, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
