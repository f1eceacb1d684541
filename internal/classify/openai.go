package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const scoringPrompt = "You are a zero-shot topic classifier. Given a text and a list of topics, " +
	"estimate for each topic how well it describes the text as a confidence between 0 and 1. " +
	"Scores are independent and do not need to sum to 1. " +
	"Return only a JSON object mapping each topic name to its score, with no extra text."

// OpenAIClient scores text by asking a chat completion model to emit a
// per-topic JSON score map.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

var _ Scorer = (*OpenAIClient)(nil)

// NewOpenAIClient builds a scorer backed by the OpenAI chat completion API.
func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Score asks the model for a confidence per topic. Topics the model omits
// score zero; out-of-range values are clamped to [0,1].
func (c *OpenAIClient) Score(ctx context.Context, text string, topics []string) (Ranking, error) {
	userPrompt := fmt.Sprintf("Topics: %s\nText: %s", strings.Join(topics, ", "), text)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: scoringPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices returned by model")
	}

	return parseScoreMap(resp.Choices[0].Message.Content, topics)
}

func parseScoreMap(content string, topics []string) (Ranking, error) {
	cleaned := cleanupResponse(content)

	var scores map[string]float64
	if err := json.Unmarshal([]byte(cleaned), &scores); err != nil {
		return nil, fmt.Errorf("parse model response %q: %w", cleaned, err)
	}

	ranking := make(Ranking, 0, len(topics))
	for _, topic := range topics {
		score := scores[topic]
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		ranking = append(ranking, Result{Topic: topic, Score: score})
	}
	ranking.sortDesc()
	return ranking, nil
}

// cleanupResponse removes code fences the model sometimes wraps JSON in.
func cleanupResponse(s string) string {
	c := strings.TrimSpace(s)
	if strings.HasPrefix(c, "```") {
		if idx := strings.Index(c, "\n"); idx != -1 {
			c = c[idx+1:]
		}
		c = strings.TrimSuffix(c, "```")
		c = strings.TrimSpace(c)
	}
	return c
}
