package classify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Result is one (topic, score) pair produced by a Scorer.
type Result struct {
	Topic string
	Score float64
}

// Ranking is a list of results ordered by score, highest first. It contains
// exactly one entry per configured topic; scores are in [0,1] and are not
// required to sum to 1.
type Ranking []Result

// Best returns the highest-scored entry.
func (r Ranking) Best() Result {
	if len(r) == 0 {
		return Result{}
	}
	return r[0]
}

func (r Ranking) sortDesc() {
	sort.SliceStable(r, func(i, j int) bool { return r[i].Score > r[j].Score })
}

// Scorer scores a text against a list of topics. Implementations are
// stateless per call and treated as black boxes.
type Scorer interface {
	Score(ctx context.Context, text string, topics []string) (Ranking, error)
}

// Filter applies the acceptance policy on top of a Scorer.
type Filter struct {
	scorer Scorer
	logger *slog.Logger
}

// NewFilter wires a scorer into an acceptance filter.
func NewFilter(scorer Scorer, logger *slog.Logger) *Filter {
	return &Filter{scorer: scorer, logger: logger}
}

// Accept classifies the raw title and description concatenated with a single
// space and accepts the item when the best score strictly exceeds the
// threshold. Every decision is logged with the winning topic and score.
func (f *Filter) Accept(ctx context.Context, title, description string, topics []string, threshold float64) (bool, Result, error) {
	content := fmt.Sprintf("%s %s", title, description)

	ranking, err := f.scorer.Score(ctx, content, topics)
	if err != nil {
		return false, Result{}, fmt.Errorf("classify %q: %w", title, err)
	}

	best := ranking.Best()
	if best.Score > threshold {
		f.logger.Info("news accepted", "title", title, "topic", best.Topic, "score", best.Score)
		return true, best, nil
	}
	f.logger.Info("news rejected", "title", title, "closest_topic", best.Topic, "score", best.Score)
	return false, best, nil
}
