package importer

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

	"verifiable-media-backend/internal/features/asset/models"
	"verifiable-media-backend/internal/platform/livepeer"
)

// HTTPAPI calls the asset endpoints served by cmd/app.
type HTTPAPI struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPAPI(baseURL string) *HTTPAPI {
	return &HTTPAPI{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *HTTPAPI) Create(ctx context.Context, hash string) (*models.CreateAssetResponse, error) {
	body, err := json.Marshal(models.CreateAssetRequest{Hash: hash})
	if err != nil {
		return nil, err
	}
	var res models.CreateAssetResponse
	if err := a.do(ctx, http.MethodPost, "/asset/create", bytes.NewReader(body), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *HTTPAPI) Asset(ctx context.Context, id string) (*livepeer.Asset, error) {
	var asset livepeer.Asset
	if err := a.do(ctx, http.MethodGet, "/asset/"+url.PathEscape(id), nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (a *HTTPAPI) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
			return fmt.Errorf("%s %s: %s (%s)", method, path, envelope.Error.Message, envelope.Error.Code)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
