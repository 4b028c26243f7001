package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/entity"
)

func TestMapDecision(t *testing.T) {
	tests := []struct {
		name               string
		decision           *entity.Decision
		expectedStatusCode int
		expectedCode       string
		expectedMessage    string
	}{
		{
			name: "blocked decision",
			decision: &entity.Decision{
				Route:  entity.RouteBlocked,
				Reason: "The query was flagged as potentially unsafe and has been blocked.",
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       "BLOCKED",
			expectedMessage:    "The query was flagged as potentially unsafe and has been blocked.",
		},
		{
			name: "blocked decision without reason",
			decision: &entity.Decision{
				Route: entity.RouteBlocked,
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       "BLOCKED",
			expectedMessage:    "Query contains unsafe content",
		},
		{
			name: "errored decision",
			decision: &entity.Decision{
				Route: entity.RouteError,
				Err:   "invalid query format",
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       "INTERNAL_ERROR",
			expectedMessage:    "invalid query format",
		},
		{
			name: "errored decision without detail",
			decision: &entity.Decision{
				Route: entity.RouteError,
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       "INTERNAL_ERROR",
			expectedMessage:    "Failed to process query",
		},
		{
			name: "substantive decision",
			decision: &entity.Decision{
				Route:      entity.RouteSimple,
				Confidence: 0.91,
			},
			expectedStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapDecision(tt.decision)

			assert.Equal(t, tt.expectedStatusCode, result.StatusCode)
			assert.Equal(t, tt.expectedCode, result.Code)
			assert.Equal(t, tt.expectedMessage, result.Message)
		})
	}
}

func TestHandleDecisionError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("blocked decision returns 400 with trace id", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleDecisionError(c, &entity.Decision{
			TraceID: "trace-123",
			Route:   entity.RouteBlocked,
			Reason:  "unsafe content",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unsafe content")
		assert.Contains(t, w.Body.String(), "trace-123")
	})

	t.Run("errored decision returns 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleDecisionError(c, &entity.Decision{
			TraceID: "trace-456",
			Route:   entity.RouteError,
			Err:     "classifier unavailable",
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "classifier unavailable")
	})
}

func TestHandleMalformedRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleMalformedRequest(c, "missing required field")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "missing required field")
}
