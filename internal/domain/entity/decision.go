package entity

// Route represents the categorical outcome of a routing decision
type Route string

const (
	RouteSimple   Route = "simple"
	RouteSemantic Route = "semantic"
	RouteAgent    Route = "agent"
	RouteBlocked  Route = "blocked"
	RouteError    Route = "error"
)

// Stage identifies which classifier produced the terminal route
type Stage string

const (
	StagePrimary  Stage = "primary"
	StageFallback Stage = "fallback"
)

// Role tags the origin of a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is a single prior dialogue entry. History is ordered
// chronologically; insertion order is meaningful.
type ConversationTurn struct {
	Role    Role   `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// StageTimings holds per-stage wall-clock durations in milliseconds.
// FallbackMs is zero when the primary result was accepted directly.
type StageTimings struct {
	PrimaryMs  int64 `json:"primary_ms"`
	FallbackMs int64 `json:"fallback_ms"`
	TotalMs    int64 `json:"total_ms"`
}

// Decision is the immutable output of one routing request. It is created
// once by the orchestrator and never mutated afterwards.
type Decision struct {
	TraceID    string       `json:"trace_id"`
	Route      Route        `json:"route"`
	Confidence float64      `json:"confidence"`
	Stage      Stage        `json:"stage,omitempty"`
	Timings    StageTimings `json:"timings"`
	Reason     string       `json:"reason,omitempty"`
	Err        string       `json:"error,omitempty"`

	// Raw preserves the fallback classifier's payload (parsed object or
	// unparseable completion text) for diagnostics.
	Raw string `json:"raw,omitempty"`
}

// IsValid reports whether the route is one of the known values
func (r Route) IsValid() bool {
	switch r {
	case RouteSimple, RouteSemantic, RouteAgent, RouteBlocked, RouteError:
		return true
	}
	return false
}

// IsSubstantive reports whether the route is one of the three categories
// a downstream processing tier can act on
func (r Route) IsSubstantive() bool {
	return r == RouteSimple || r == RouteSemantic || r == RouteAgent
}

// IsBlocked returns true for decisions vetoed by the safety gate
func (d *Decision) IsBlocked() bool {
	return d.Route == RouteBlocked
}

// IsError returns true for decisions that failed validation or primary
// classification
func (d *Decision) IsError() bool {
	return d.Route == RouteError
}
