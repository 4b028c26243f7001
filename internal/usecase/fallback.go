package usecase

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/entity"
	"github.com/meomeocoj/user-intent-classisifer/internal/domain/service"
)

// fallbackSystemPrompt demands a single-field JSON object so the
// completion can be parsed strictly
const fallbackSystemPrompt = "You are a router. Classify the user's query into one of: simple, semantic, or agent. " +
	`Respond ONLY with a JSON object: {"route": "simple|semantic|agent"}`

// FallbackResult is the outcome of one fallback classification. Err is set
// on degraded results. The completion backend produces no score of its
// own, so Confident stays false and the caller supplies a default.
type FallbackResult struct {
	Route      entity.Route
	Confidence float64
	Confident  bool
	Raw        string
	Err        string
}

// FallbackClassifier delegates routing to a generative completion backend
// when the primary stage's result is not trusted. It never fails a
// request: every failure mode degrades to the safe middle category
// (semantic) with a diagnostic error string, because by construction it is
// only invoked after the primary stage already expressed low confidence.
type FallbackClassifier struct {
	completer service.Completer
	logger    *zap.Logger
}

// NewFallbackClassifier creates a fallback classifier
func NewFallbackClassifier(completer service.Completer, logger *zap.Logger) *FallbackClassifier {
	return &FallbackClassifier{completer: completer, logger: logger}
}

// buildPrompt assembles the instruction prompt: fixed system message,
// history turns in chronological order, query last
func buildPrompt(query string, history []entity.ConversationTurn) []service.Message {
	messages := make([]service.Message, 0, len(history)+2)
	messages = append(messages, service.Message{Role: "system", Content: fallbackSystemPrompt})
	for _, turn := range history {
		messages = append(messages, service.Message{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, service.Message{Role: "user", Content: query})
	return messages
}

// Route classifies the query via the completion backend and parses the
// result out of the response text
func (f *FallbackClassifier) Route(ctx context.Context, query string, history []entity.ConversationTurn) FallbackResult {
	content, err := f.completer.Complete(ctx, buildPrompt(query, history))
	if err != nil {
		f.logger.Error("fallback completion failed", zap.Error(err))
		return FallbackResult{Route: entity.RouteSemantic, Err: err.Error()}
	}

	var parsed struct {
		Route      entity.Route `json:"route"`
		Confidence *float64     `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil || !parsed.Route.IsSubstantive() {
		f.logger.Error("fallback returned unparseable route", zap.String("content", content))
		return FallbackResult{
			Route: entity.RouteSemantic,
			Raw:   content,
			Err:   "json_parse_error",
		}
	}

	f.logger.Debug("fallback classification",
		zap.String("route", string(parsed.Route)),
		zap.String("raw", content),
	)

	result := FallbackResult{Route: parsed.Route, Raw: content}
	if parsed.Confidence != nil {
		result.Confidence = *parsed.Confidence
		result.Confident = true
	}
	return result
}
