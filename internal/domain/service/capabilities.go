package service

import "context"

// Message is a single prompt message sent to a completion backend
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Scorer is the zero-shot scoring capability consumed by the primary
// classifier: given a text and candidate label descriptions it returns one
// score per label, in label order. The backing model is read-only during
// inference and safe for concurrent calls.
type Scorer interface {
	Score(ctx context.Context, text string, labels []string) ([]float64, error)
}

// Completer is the generative completion capability consumed by the
// fallback classifier
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// SafetyClassifier is the binary content classifier behind the safety
// gate. It returns the raw safe/dangerous class scores for a text.
type SafetyClassifier interface {
	ClassifyText(ctx context.Context, text string) (safe, dangerous float64, err error)
}
