// Package annotstore is a thin client for the external annotation store,
// which persists user edits and annotations keyed by session id and page URL.
// Persistence is best effort; the core never depends on it succeeding.
package annotstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tbconrad/trailview/internal/session"
)

// Client communicates with the annotation store HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// noteRequest is the body for PUT /sessions/{id}/notes.
type noteRequest struct {
	PageURL   string       `json:"page_url"`
	Note      session.Note `json:"note"`
}

// metadataRequest is the body for PUT /sessions/{id}/metadata.
type metadataRequest struct {
	PageURL  string               `json:"page_url"`
	Metadata session.PageMetadata `json:"metadata"`
}

// SaveNote persists a page annotation.
func (c *Client) SaveNote(ctx context.Context, sessionID, pageURL string, note session.Note) error {
	return c.put(ctx, "/sessions/"+url.PathEscape(sessionID)+"/notes",
		noteRequest{PageURL: pageURL, Note: note})
}

// SaveMetadata persists edited page metadata.
func (c *Client) SaveMetadata(ctx context.Context, sessionID, pageURL string, meta session.PageMetadata) error {
	return c.put(ctx, "/sessions/"+url.PathEscape(sessionID)+"/metadata",
		metadataRequest{PageURL: pageURL, Metadata: meta})
}

// DeletePage removes all persisted annotations for a page.
func (c *Client) DeletePage(ctx context.Context, sessionID, pageURL string) error {
	u := c.baseURL + "/sessions/" + url.PathEscape(sessionID) + "/pages?url=" + url.QueryEscape(pageURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete page annotations: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("delete page annotations: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) put(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal annotation: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("put annotation: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put annotation %s: status %d: %s", path, resp.StatusCode, string(respBody))
	}
	return nil
}

// Close releases any resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
