package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/entity"
	"github.com/meomeocoj/user-intent-classisifer/internal/domain/service"
)

// ErrEmptyQuery is returned when a query is empty after normalization
var ErrEmptyQuery = errors.New("query cannot be empty")

// routeLabels is the fixed label set in tie-break order: when two
// hypotheses score equally the first-listed label wins.
var routeLabels = []entity.Route{
	entity.RouteSimple,
	entity.RouteSemantic,
	entity.RouteAgent,
}

// routeHypotheses are the natural-language category descriptions scored by
// the zero-shot model, index-aligned with routeLabels.
var routeHypotheses = []string{
	"This question requires a brief, factual answer that can be provided directly without research or analysis.",
	"This question requires retrieving and synthesizing information from external sources or documents.",
	"This question involves complex planning, multi-step reasoning, or designing a detailed strategy.",
}

// complexityKeywords nudge scoring toward the agent/semantic categories
// for planning-flavored phrasing
var complexityKeywords = []string{"plan", "design", "strategy", "research"}

var (
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	punctuationRuns = regexp.MustCompile(`[.!?]{2,}`)
	disallowedRunes = regexp.MustCompile(`[^\w\s.,!?]`)
)

// PrimaryClassifier maps a query to one of the three substantive routes
// using an external zero-shot scoring capability. It is the fast,
// low-latency first stage consulted for every non-blocked request.
type PrimaryClassifier struct {
	scorer service.Scorer
	slots  *semaphore.Weighted
	logger *zap.Logger
}

// NewPrimaryClassifier creates a primary classifier. workers bounds the
// number of concurrent calls into the scoring model so a request burst
// cannot pile unbounded inference onto it.
func NewPrimaryClassifier(scorer service.Scorer, workers int, logger *zap.Logger) *PrimaryClassifier {
	if workers < 1 {
		workers = 1
	}
	return &PrimaryClassifier{
		scorer: scorer,
		slots:  semaphore.NewWeighted(int64(workers)),
		logger: logger,
	}
}

// PreprocessQuery cleans and normalizes the query text. For queries
// without complexity keywords normalization is a stable fixed point:
// applying it to already-normalized text returns the same string (the
// keyword marker is re-prepended on repeat passes, so marked queries are
// not). Returns ErrEmptyQuery when nothing remains after normalization.
func PreprocessQuery(query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	query = whitespaceRuns.ReplaceAllString(strings.TrimSpace(query), " ")
	query = punctuationRuns.ReplaceAllString(query, ".")
	query = disallowedRunes.ReplaceAllString(query, "")

	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	lower := strings.ToLower(query)
	for _, keyword := range complexityKeywords {
		if strings.Contains(lower, keyword) {
			return "Complex task: " + query, nil
		}
	}
	return query, nil
}

// Classify scores the query against the three category hypotheses and
// returns the argmax route with its score. History is accepted for
// contract parity but does not alter the score.
func (c *PrimaryClassifier) Classify(ctx context.Context, query string, _ []entity.ConversationTurn) (entity.Route, float64, error) {
	normalized, err := PreprocessQuery(query)
	if err != nil {
		return "", 0, err
	}

	if err := c.slots.Acquire(ctx, 1); err != nil {
		return "", 0, err
	}
	defer c.slots.Release(1)

	scores, err := c.scorer.Score(ctx, normalized, routeHypotheses)
	if err != nil {
		return "", 0, err
	}
	if len(scores) != len(routeLabels) {
		return "", 0, errors.New("scorer returned wrong number of scores")
	}

	// Argmax with first-listed tie-break: strict greater-than keeps the
	// earlier label on equal scores.
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}

	route := routeLabels[best]
	c.logger.Debug("primary classification",
		zap.String("query", normalized),
		zap.String("route", string(route)),
		zap.Float64("confidence", scores[best]),
		zap.Float64s("scores", scores),
	)

	return route, scores[best], nil
}
