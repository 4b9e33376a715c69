// Package summarizer talks to the external summary-generation backend.
// The backend is opaque to this server: it takes a source and returns
// the derived summary output.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harlo-app/harlo-server/internal/model"
)

// Request is a generation request for one source.
type Request struct {
	SourceType model.SourceType `json:"sourceType"`
	Content    string           `json:"content,omitempty"`
	Document   []byte           `json:"document,omitempty"`
	Filename   string           `json:"filename,omitempty"`
}

// Output is the generated summary payload.
type Output struct {
	Summary   string           `json:"summary"`
	KeyPoints []string         `json:"keyPoints"`
	Roadmap   []string         `json:"roadmap"`
	Resources []model.Resource `json:"resources"`
}

// Client generates summaries from submitted sources.
type Client interface {
	Summarize(ctx context.Context, req Request) (Output, error)
}

// HTTPClient is a Client over the backend's JSON HTTP API.
type HTTPClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPClient creates a client for the backend at endpoint.
func NewHTTPClient(endpoint, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

var _ Client = (*HTTPClient)(nil)

// Summarize submits the source and waits for the generated output.
func (c *HTTPClient) Summarize(ctx context.Context, req Request) (Output, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Output{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Output{}, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Output{}, fmt.Errorf("failed to call summarizer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Output{}, fmt.Errorf("summarizer returned %d: %s", resp.StatusCode, payload)
	}

	var out Output
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Output{}, fmt.Errorf("failed to decode summarizer response: %w", err)
	}

	return out, nil
}
