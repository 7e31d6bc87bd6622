// Package insight calls the AI coaching endpoint. The contract is
// deliberately loose: a JSON summary payload goes out, opaque text comes
// back. Failures never propagate past SummarizeOrApology.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Apology replaces the coaching text whenever the endpoint fails.
const Apology = "Sorry, insights are unavailable right now. Your focus data is safe — try again later."

// SummaryRequest is the context payload sent to the endpoint.
type SummaryRequest struct {
	Period       string         `json:"period"` // e.g. "week of 2026-08-24"
	FocusMinutes int64          `json:"focus_minutes"`
	Sessions     int            `json:"sessions"`
	TasksDone    int            `json:"tasks_done"`
	TagMinutes   map[string]int `json:"tag_minutes,omitempty"`
	ProjectNotes []string       `json:"project_notes,omitempty"`
}

type summaryResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New returns a client for the given endpoint. An empty baseURL produces a
// client whose calls always fail, which SummarizeOrApology degrades cleanly.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Summarize posts the payload and returns the coaching text.
func (c *Client) Summarize(ctx context.Context, req SummaryRequest) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("insight endpoint not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal summary request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call insight endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("insight endpoint returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var sr summaryResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if sr.Error != "" {
		return "", fmt.Errorf("insight endpoint error: %s", sr.Error)
	}
	return sr.Text, nil
}

// SummarizeOrApology never fails: any error becomes the static apology.
func (c *Client) SummarizeOrApology(ctx context.Context, req SummaryRequest) string {
	text, err := c.Summarize(ctx, req)
	if err != nil || text == "" {
		return Apology
	}
	return text
}
