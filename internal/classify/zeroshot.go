package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ZeroShotClient scores text through a hosted zero-shot classification
// endpoint speaking the Hugging Face inference protocol.
type ZeroShotClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ Scorer = (*ZeroShotClient)(nil)

// NewZeroShotClient creates a reusable HTTP client for the given endpoint.
func NewZeroShotClient(endpoint, apiKey string) *ZeroShotClient {
	return &ZeroShotClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Score sends the text for classification against the candidate topics.
func (c *ZeroShotClient) Score(ctx context.Context, text string, topics []string) (Ranking, error) {
	body, err := json.Marshal(zeroShotRequest{
		Inputs:     text,
		Parameters: zeroShotParameters{CandidateLabels: topics},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var decoded zeroShotResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Labels) != len(decoded.Scores) {
		return nil, fmt.Errorf("mismatched labels/scores lengths: %d vs %d", len(decoded.Labels), len(decoded.Scores))
	}

	ranking := make(Ranking, 0, len(decoded.Labels))
	for i, label := range decoded.Labels {
		ranking = append(ranking, Result{Topic: label, Score: decoded.Scores[i]})
	}
	ranking.sortDesc()
	return ranking, nil
}
