package entity

import (
	"time"

	"github.com/google/uuid"
)

// DecisionRecord is the persisted form of a Decision, written to the audit
// log after the request completes. The core never reads it back; it exists
// for offline evaluation and replay.
type DecisionRecord struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	TraceID    string    `json:"trace_id" gorm:"type:varchar(36);not null;index"`
	Query      string    `json:"query" gorm:"type:text;not null"`
	Route      Route     `json:"route" gorm:"type:varchar(20);not null;index"`
	Confidence float64   `json:"confidence" gorm:"type:decimal(5,4)"`
	Stage      Stage     `json:"stage" gorm:"type:varchar(20)"`
	PrimaryMs  int64     `json:"primary_ms" gorm:"default:0"`
	FallbackMs int64     `json:"fallback_ms" gorm:"default:0"`
	TotalMs    int64     `json:"total_ms" gorm:"default:0"`
	Reason     string    `json:"reason,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (DecisionRecord) TableName() string {
	return "decisions"
}

// NewDecisionRecord flattens a Decision into its persisted form
func NewDecisionRecord(query string, d *Decision) *DecisionRecord {
	return &DecisionRecord{
		ID:         uuid.New(),
		TraceID:    d.TraceID,
		Query:      query,
		Route:      d.Route,
		Confidence: d.Confidence,
		Stage:      d.Stage,
		PrimaryMs:  d.Timings.PrimaryMs,
		FallbackMs: d.Timings.FallbackMs,
		TotalMs:    d.Timings.TotalMs,
		Reason:     d.Reason,
	}
}
