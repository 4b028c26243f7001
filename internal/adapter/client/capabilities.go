package client

import (
	"context"
	"fmt"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/service"
)

// ZeroShotScorer adapts MLClient to the Scorer interface
type ZeroShotScorer struct {
	client *MLClient
}

// NewZeroShotScorer creates a new ZeroShotScorer
func NewZeroShotScorer(client *MLClient) service.Scorer {
	return &ZeroShotScorer{client: client}
}

// Score returns one score per label, in label order
func (s *ZeroShotScorer) Score(ctx context.Context, text string, labels []string) ([]float64, error) {
	resp, err := s.client.Score(ctx, text, labels, "")
	if err != nil {
		return nil, err
	}
	if len(resp.Scores) != len(labels) {
		return nil, fmt.Errorf("expected %d scores, got %d", len(labels), len(resp.Scores))
	}
	return resp.Scores, nil
}

// GuardClassifier adapts MLClient to the SafetyClassifier interface
type GuardClassifier struct {
	client *MLClient
}

// NewGuardClassifier creates a new GuardClassifier
func NewGuardClassifier(client *MLClient) service.SafetyClassifier {
	return &GuardClassifier{client: client}
}

// ClassifyText returns the raw safe/dangerous class scores for a text
func (g *GuardClassifier) ClassifyText(ctx context.Context, text string) (float64, float64, error) {
	resp, err := g.client.ClassifySafety(ctx, text, "")
	if err != nil {
		return 0, 0, err
	}
	return resp.Safe, resp.Dangerous, nil
}
