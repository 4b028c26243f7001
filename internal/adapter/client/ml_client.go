package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ScoreRequest represents a zero-shot scoring request to the model service
type ScoreRequest struct {
	Text      string   `json:"text"`
	Labels    []string `json:"labels"`
	RequestID string   `json:"request_id,omitempty"`
}

// ScoreResponse represents the zero-shot scoring response
type ScoreResponse struct {
	Scores       []float64 `json:"scores"`
	ModelVersion string    `json:"model_version"`
	RequestID    string    `json:"request_id,omitempty"`
}

// SafetyRequest represents a safety classification request
type SafetyRequest struct {
	Text      string `json:"text"`
	RequestID string `json:"request_id,omitempty"`
}

// SafetyResponse represents the safe/dangerous class scores
type SafetyResponse struct {
	Safe         float64 `json:"safe"`
	Dangerous    float64 `json:"dangerous"`
	ModelVersion string  `json:"model_version"`
	RequestID    string  `json:"request_id,omitempty"`
}

// HealthResponse represents the model service health check response
type HealthResponse struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	ModelVersion string `json:"model_version"`
}

// MLClient is an HTTP client for a model-serving process. The same client
// shape serves both the zero-shot scorer and the safety classifier; each
// gets its own instance pointed at its own base URL.
type MLClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewMLClient creates a new model service client
func NewMLClient(baseURL string, timeout time.Duration) *MLClient {
	return &MLClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Score requests zero-shot scores for a text against candidate labels
func (c *MLClient) Score(ctx context.Context, text string, labels []string, requestID string) (*ScoreResponse, error) {
	reqBody := ScoreRequest{
		Text:      text,
		Labels:    labels,
		RequestID: requestID,
	}

	var result ScoreResponse
	if err := c.post(ctx, "/score", reqBody, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ClassifySafety requests safe/dangerous class scores for a text
func (c *MLClient) ClassifySafety(ctx context.Context, text, requestID string) (*SafetyResponse, error) {
	reqBody := SafetyRequest{
		Text:      text,
		RequestID: requestID,
	}

	var result SafetyResponse
	if err := c.post(ctx, "/classify", reqBody, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *MLClient) post(ctx context.Context, path string, reqBody, result interface{}) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("model service returned status %d", resp.StatusCode)
		}
		return fmt.Errorf("model service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Health checks the model service health
func (c *MLClient) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model service returned status %d", resp.StatusCode)
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Ready checks if the model service has finished loading weights
func (c *MLClient) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ready", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model service not ready: status %d", resp.StatusCode)
	}

	return nil
}
