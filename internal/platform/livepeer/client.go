package livepeer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the Livepeer Studio REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// APIError is a non-2xx answer from Studio.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("livepeer studio returned %d: %s", e.StatusCode, e.Body)
}

// AssetStatus accepts both the string and the object form Studio has used.
type AssetStatus struct {
	Phase        string  `json:"phase"`
	UpdatedAt    int64   `json:"updatedAt,omitempty"`
	Progress     float64 `json:"progress,omitempty"`
	ErrorMessage string  `json:"errorMessage,omitempty"`
}

func (s *AssetStatus) UnmarshalJSON(data []byte) error {
	var phase string
	if err := json.Unmarshal(data, &phase); err == nil {
		*s = AssetStatus{Phase: phase}
		return nil
	}
	type plain AssetStatus
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*s = AssetStatus(obj)
	return nil
}

type Asset struct {
	ID          string      `json:"id"`
	Name        string      `json:"name,omitempty"`
	Size        int64       `json:"size,omitempty"`
	Status      AssetStatus `json:"status"`
	UserID      string      `json:"userId,omitempty"`
	CreatedAt   int64       `json:"createdAt,omitempty"`
	PlaybackID  string      `json:"playbackId,omitempty"`
	PlaybackURL string      `json:"playbackUrl,omitempty"`
	DownloadURL string      `json:"downloadUrl,omitempty"`
}

type Task struct {
	ID            string      `json:"id"`
	Type          string      `json:"type"`
	OutputAssetID string      `json:"outputAssetId"`
	Status        AssetStatus `json:"status"`
}

type ImportResult struct {
	Asset Asset `json:"asset"`
	Task  Task  `json:"task"`
}

// ImportAsset asks Studio to fetch url into a new asset.
func (c *Client) ImportAsset(ctx context.Context, name, sourceURL string) (*ImportResult, error) {
	payload, err := json.Marshal(map[string]string{"name": name, "url": sourceURL})
	if err != nil {
		return nil, err
	}
	var result ImportResult
	if err := c.do(ctx, http.MethodPost, "/asset/import", bytes.NewReader(payload), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetAsset(ctx context.Context, id string) (*Asset, error) {
	var asset Asset
	if err := c.do(ctx, http.MethodGet, "/asset/"+url.PathEscape(id), nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
