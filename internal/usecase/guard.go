package usecase

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/entity"
	"github.com/meomeocoj/user-intent-classisifer/internal/domain/service"
)

// logPrefixLen bounds how much offending text is written to the log when
// unsafe content is detected
const logPrefixLen = 100

// DefaultGuardCacheSize matches the reference memoization capacity
const DefaultGuardCacheSize = 128

type safetyScores struct {
	safe      float64
	dangerous float64
}

// SafetyGate runs a binary safe/unsafe check over a single text before
// classification. A failing safety model never denies service: internal
// failures report safe with full confidence (fail open). Identical inputs
// are served from a bounded cache; only successfully computed scores are
// cached, so a hit can never mask the fail-open path.
type SafetyGate struct {
	model  service.SafetyClassifier
	cache  *ristretto.Cache[string, safetyScores]
	slots  *semaphore.Weighted
	logger *zap.Logger
}

// NewSafetyGate creates a safety gate with a cache of at most cacheSize
// entries. workers bounds concurrent calls into the safety model.
func NewSafetyGate(model service.SafetyClassifier, cacheSize, workers int, logger *zap.Logger) (*SafetyGate, error) {
	if cacheSize < 1 {
		cacheSize = DefaultGuardCacheSize
	}
	if workers < 1 {
		workers = 1
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, safetyScores]{
		NumCounters: int64(cacheSize) * 10,
		MaxCost:     int64(cacheSize),
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create safety cache: %w", err)
	}

	return &SafetyGate{
		model:  model,
		cache:  cache,
		slots:  semaphore.NewWeighted(int64(workers)),
		logger: logger,
	}, nil
}

// CheckQuery checks whether a user query is safe
func (g *SafetyGate) CheckQuery(ctx context.Context, query string) (bool, float64) {
	return g.check(ctx, query, true)
}

// CheckAnswer checks whether a generated answer is safe
func (g *SafetyGate) CheckAnswer(ctx context.Context, answer string) (bool, float64) {
	return g.check(ctx, answer, false)
}

func (g *SafetyGate) check(ctx context.Context, text string, isQuery bool) (bool, float64) {
	scores := g.classify(ctx, text)

	isSafe := scores.safe > scores.dangerous
	confidence := scores.safe
	if scores.dangerous > confidence {
		confidence = scores.dangerous
	}

	if !isSafe {
		g.logger.Warn("unsafe content detected",
			zap.Bool("is_query", isQuery),
			zap.Float64("dangerous_score", scores.dangerous),
			zap.String("text_prefix", textPrefix(text)),
		)
	}

	return isSafe, confidence
}

func (g *SafetyGate) classify(ctx context.Context, text string) safetyScores {
	if text == "" {
		return safetyScores{safe: 1.0}
	}

	if cached, ok := g.cache.Get(text); ok {
		return cached
	}

	if err := g.slots.Acquire(ctx, 1); err != nil {
		// Could not reach the model; fail open.
		return safetyScores{safe: 1.0}
	}
	defer g.slots.Release(1)

	safe, dangerous, err := g.model.ClassifyText(ctx, text)
	if err != nil {
		g.logger.Error("safety check failed, failing open",
			zap.Error(err),
			zap.String("text_prefix", textPrefix(text)),
		)
		return safetyScores{safe: 1.0}
	}

	scores := safetyScores{safe: safe, dangerous: dangerous}
	if g.cache.Set(text, scores, 1) {
		g.cache.Wait()
	}
	return scores
}

// BlockedDecision produces the canonical decision for vetoed content.
// isQuery distinguishes a blocked query from a blocked generated answer in
// the reason string.
func (g *SafetyGate) BlockedDecision(traceID string, isQuery bool) *entity.Decision {
	kind := "query"
	if !isQuery {
		kind = "response"
	}
	return &entity.Decision{
		TraceID:    traceID,
		Route:      entity.RouteBlocked,
		Confidence: 0.0,
		Reason:     fmt.Sprintf("The %s was flagged as potentially unsafe and has been blocked.", kind),
	}
}

func textPrefix(text string) string {
	if len(text) <= logPrefixLen {
		return text
	}
	// Back up to a rune boundary so the prefix stays valid UTF-8.
	cut := logPrefixLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
