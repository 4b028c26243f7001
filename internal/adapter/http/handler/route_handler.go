package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/entity"
	"github.com/meomeocoj/user-intent-classisifer/internal/usecase"
)

// DecisionCache memoizes terminal decisions for identical queries. It is
// implemented by infrastructure/cache.DecisionCache.
type DecisionCache interface {
	Get(ctx context.Context, query string) *entity.Decision
	Set(ctx context.Context, query string, decision *entity.Decision)
}

// RouteRequest is the body of POST /api/v1/route. Query is a pointer so a
// missing key is a schema violation (422) while an empty string reaches
// the orchestrator's own validation (500 with route=error).
type RouteRequest struct {
	Query   *string                   `json:"query" binding:"required"`
	History []entity.ConversationTurn `json:"history" binding:"omitempty,dive"`
}

// RouteResponse is the success body of POST /api/v1/route
type RouteResponse struct {
	Route      entity.Route `json:"route"`
	Confidence float64      `json:"confidence"`
	TraceID    string       `json:"trace_id"`
}

// RouteHandler handles routing decision requests
type RouteHandler struct {
	routeUC usecase.RouteUsecase
	cache   DecisionCache
}

// NewRouteHandler creates a new route handler. decisionCache may be nil.
func NewRouteHandler(routeUC usecase.RouteUsecase, decisionCache DecisionCache) *RouteHandler {
	return &RouteHandler{routeUC: routeUC, cache: decisionCache}
}

// Route handles POST /api/v1/route
func (h *RouteHandler) Route(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleMalformedRequest(c, err.Error())
		return
	}
	if len(req.History) > MaxHistoryTurns {
		HandleMalformedRequest(c, "history exceeds maximum length")
		return
	}

	query := *req.Query
	ctx := c.Request.Context()

	// Identical queries with no history are served from the decision
	// cache when one is configured. Each hit still gets its own trace id;
	// trace ids are per-request, never shared between requests.
	cacheable := len(req.History) == 0 && query != "" && h.cache != nil
	if cacheable {
		if cached := h.cache.Get(ctx, query); cached != nil && cached.Route.IsSubstantive() {
			c.JSON(http.StatusOK, RouteResponse{
				Route:      cached.Route,
				Confidence: cached.Confidence,
				TraceID:    uuid.New().String(),
			})
			return
		}
	}

	decision := h.routeUC.Route(ctx, query, req.History)

	if decision.IsBlocked() || decision.IsError() {
		HandleDecisionError(c, decision)
		return
	}

	if cacheable {
		h.cache.Set(ctx, query, decision)
	}

	c.JSON(http.StatusOK, RouteResponse{
		Route:      decision.Route,
		Confidence: decision.Confidence,
		TraceID:    decision.TraceID,
	})
}
