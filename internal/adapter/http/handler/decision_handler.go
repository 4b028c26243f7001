package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/entity"
	"github.com/meomeocoj/user-intent-classisifer/internal/domain/repository"
)

// DecisionHandler exposes the decision audit log for offline evaluation
type DecisionHandler struct {
	repo repository.DecisionRepository
}

// NewDecisionHandler creates a new decision log handler
func NewDecisionHandler(repo repository.DecisionRepository) *DecisionHandler {
	return &DecisionHandler{repo: repo}
}

// List handles GET /api/v1/decisions
func (h *DecisionHandler) List(c *gin.Context) {
	if h.repo == nil {
		respondError(c, http.StatusServiceUnavailable, "NOT_CONFIGURED", "decision audit log is not configured")
		return
	}

	p := ParsePagination(c)
	records, total, err := h.repo.ListRecent(c.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	respondSuccess(c, http.StatusOK, map[string]interface{}{
		"decisions": records,
		"total":     total,
		"limit":     p.Limit,
		"offset":    p.Offset,
		"has_more":  int64(p.Offset+p.Limit) < total,
	})
}

// Stats handles GET /api/v1/decisions/stats
func (h *DecisionHandler) Stats(c *gin.Context) {
	if h.repo == nil {
		respondError(c, http.StatusServiceUnavailable, "NOT_CONFIGURED", "decision audit log is not configured")
		return
	}

	routes := []entity.Route{
		entity.RouteSimple,
		entity.RouteSemantic,
		entity.RouteAgent,
		entity.RouteBlocked,
		entity.RouteError,
	}

	counts := make(map[string]int64, len(routes))
	for _, route := range routes {
		count, err := h.repo.CountByRoute(c.Request.Context(), route)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
			return
		}
		counts[string(route)] = count
	}

	respondSuccess(c, http.StatusOK, map[string]interface{}{
		"by_route": counts,
	})
}
