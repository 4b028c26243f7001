package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/entity"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapDecision maps a terminal decision to its HTTP outcome. Clients see
// exactly three decision outcomes: 200 success, 400 blocked, 500 internal.
func MapDecision(d *entity.Decision) ErrorResponse {
	switch {
	case d.IsBlocked():
		message := d.Reason
		if message == "" {
			message = "Query contains unsafe content"
		}
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "BLOCKED",
			Message:    message,
		}
	case d.IsError():
		message := d.Err
		if message == "" {
			message = "Failed to process query"
		}
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    message,
		}
	default:
		return ErrorResponse{StatusCode: http.StatusOK}
	}
}

// HandleDecisionError responds for a blocked or errored decision,
// threading the trace id into the response metadata
func HandleDecisionError(c *gin.Context, d *entity.Decision) {
	errResp := MapDecision(d)
	respondErrorTraced(c, errResp.StatusCode, errResp.Code, errResp.Message, d.TraceID)
}

// HandleMalformedRequest handles an unparseable or schema-invalid body
func HandleMalformedRequest(c *gin.Context, message string) {
	respondError(c, http.StatusUnprocessableEntity, "INVALID_REQUEST", message)
}
