// Package graphql talks to the Performance Management GraphQL API on behalf
// of agent tools. Outbound calls carry the bearer credential of the request
// that triggered them, resolved through tokenctx.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pulse-agent-service/internal/pkg/tokenctx"

	"go.uber.org/zap"
)

const defaultBaseURL = "http://localhost:8080/api/v1/performance-management/graphql"

type Client struct {
	baseURL       string
	fallbackToken string
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewClient builds a client for baseURL. fallbackToken is a statically
// configured service-account credential used only when the request context
// carries no token.
func NewClient(baseURL, fallbackToken string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:       baseURL,
		fallbackToken: fallbackToken,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        logger,
	}
}

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type response struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Execute runs a query or mutation and returns the data object. The bearer
// credential is resolved as: explicit token > request context > fallback.
// A response carrying a GraphQL errors array fails the whole call.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]interface{}, token string) (map[string]interface{}, error) {
	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if authToken := tokenctx.Resolve(ctx, token, c.fallbackToken); authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read graphql response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("graphql call rejected",
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("graphql request failed with status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode graphql response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		msgs := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("graphql errors: %v", msgs)
	}
	if parsed.Data == nil {
		return map[string]interface{}{}, nil
	}
	return parsed.Data, nil
}
