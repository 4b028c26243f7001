package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/entity"
)

// MockDecisionRepository is a mock implementation of
// repository.DecisionRepository
type MockDecisionRepository struct {
	mock.Mock
}

func (m *MockDecisionRepository) Create(ctx context.Context, record *entity.DecisionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDecisionRepository) ListRecent(ctx context.Context, limit, offset int) ([]*entity.DecisionRecord, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.DecisionRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockDecisionRepository) CountByRoute(ctx context.Context, route entity.Route) (int64, error) {
	args := m.Called(ctx, route)
	return args.Get(0).(int64), args.Error(1)
}

func newDecisionTestRouter(repo *MockDecisionRepository) *gin.Engine {
	router := gin.New()
	var handler *DecisionHandler
	if repo != nil {
		handler = NewDecisionHandler(repo)
	} else {
		handler = NewDecisionHandler(nil)
	}
	router.GET("/api/v1/decisions", handler.List)
	return router
}

func TestDecisionHandler_List(t *testing.T) {
	t.Run("returns paginated records", func(t *testing.T) {
		records := []*entity.DecisionRecord{
			{TraceID: "trace-1", Query: "q1", Route: entity.RouteSimple, Confidence: 0.91},
			{TraceID: "trace-2", Query: "q2", Route: entity.RouteAgent, Confidence: 0.8},
		}

		repo := new(MockDecisionRepository)
		repo.On("ListRecent", mock.Anything, DefaultLimit, DefaultOffset).
			Return(records, int64(42), nil)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/decisions", http.NoBody)
		w := httptest.NewRecorder()
		newDecisionTestRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Len(t, data["decisions"], 2)
		assert.EqualValues(t, 42, data["total"])
		assert.EqualValues(t, DefaultLimit, data["limit"])
		assert.EqualValues(t, DefaultOffset, data["offset"])
		assert.Equal(t, true, data["has_more"])
		repo.AssertExpectations(t)
	})

	t.Run("honors pagination params", func(t *testing.T) {
		repo := new(MockDecisionRepository)
		repo.On("ListRecent", mock.Anything, 5, 40).
			Return([]*entity.DecisionRecord{}, int64(42), nil)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/decisions?limit=5&offset=40", http.NoBody)
		w := httptest.NewRecorder()
		newDecisionTestRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, false, data["has_more"])
		repo.AssertExpectations(t)
	})

	t.Run("returns 503 when audit log is not configured", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/decisions", http.NoBody)
		w := httptest.NewRecorder()
		newDecisionTestRouter(nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "NOT_CONFIGURED")
	})

	t.Run("returns 500 on repository failure", func(t *testing.T) {
		repo := new(MockDecisionRepository)
		repo.On("ListRecent", mock.Anything, DefaultLimit, DefaultOffset).
			Return(nil, int64(0), errors.New("connection lost"))

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/decisions", http.NoBody)
		w := httptest.NewRecorder()
		newDecisionTestRouter(repo).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "connection lost")
	})
}

func TestDecisionHandler_Stats(t *testing.T) {
	newStatsRouter := func(handler *DecisionHandler) *gin.Engine {
		router := gin.New()
		router.GET("/api/v1/decisions/stats", handler.Stats)
		return router
	}

	t.Run("returns counts per route", func(t *testing.T) {
		repo := new(MockDecisionRepository)
		repo.On("CountByRoute", mock.Anything, entity.RouteSimple).Return(int64(10), nil)
		repo.On("CountByRoute", mock.Anything, entity.RouteSemantic).Return(int64(5), nil)
		repo.On("CountByRoute", mock.Anything, entity.RouteAgent).Return(int64(3), nil)
		repo.On("CountByRoute", mock.Anything, entity.RouteBlocked).Return(int64(2), nil)
		repo.On("CountByRoute", mock.Anything, entity.RouteError).Return(int64(1), nil)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/decisions/stats", http.NoBody)
		w := httptest.NewRecorder()
		newStatsRouter(NewDecisionHandler(repo)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		counts := data["by_route"].(map[string]interface{})
		assert.EqualValues(t, 10, counts["simple"])
		assert.EqualValues(t, 2, counts["blocked"])
		repo.AssertExpectations(t)
	})

	t.Run("returns 503 when audit log is not configured", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/decisions/stats", http.NoBody)
		w := httptest.NewRecorder()
		newStatsRouter(NewDecisionHandler(nil)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("returns 500 on repository failure", func(t *testing.T) {
		repo := new(MockDecisionRepository)
		repo.On("CountByRoute", mock.Anything, entity.RouteSimple).
			Return(int64(0), errors.New("connection lost"))

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/decisions/stats", http.NoBody)
		w := httptest.NewRecorder()
		newStatsRouter(NewDecisionHandler(repo)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
