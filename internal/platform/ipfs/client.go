package ipfs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client speaks the Kubo compatible HTTP API (Infura and self-hosted nodes).
type Client struct {
	httpClient    *http.Client
	apiURL        string
	gatewayURL    string
	projectID     string
	projectSecret string
}

func NewClient(apiURL, gatewayURL, projectID, projectSecret string) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: 10 * time.Minute},
		apiURL:        strings.TrimRight(apiURL, "/"),
		gatewayURL:    strings.TrimRight(gatewayURL, "/") + "/",
		projectID:     projectID,
		projectSecret: projectSecret,
	}
}

type AddResult struct {
	Hash string `json:"Hash"`
	Name string `json:"Name"`
	Size string `json:"Size"`
}

// Add uploads r as a single pinned file.
func (c *Client) Add(ctx context.Context, filename string, r io.Reader) (*AddResult, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, "/api/v0/add?pin=true", pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.send(req)
	if err != nil {
		pr.Close()
		return nil, err
	}
	defer resp.Body.Close()

	var result AddResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode add response: %w", err)
	}
	if result.Hash == "" {
		return nil, fmt.Errorf("ipfs add returned no hash")
	}
	return &result, nil
}

// Cat returns at most limit bytes of the object at cid.
func (c *Client) Cat(ctx context.Context, cid string, limit int64) ([]byte, error) {
	req, err := c.newRequest(ctx, "/api/v0/cat?arg="+url.QueryEscape(cid), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cid, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("object %s exceeds %d bytes", cid, limit)
	}
	return data, nil
}

// GatewayURL is the public HTTP address of cid.
func (c *Client) GatewayURL(cid string) string {
	return c.gatewayURL + cid
}

func (c *Client) newRequest(ctx context.Context, path string, body io.Reader) (*http.Request, error) {
	// The IPFS RPC API only accepts POST, reads included.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.projectID != "" {
		req.SetBasicAuth(c.projectID, c.projectSecret)
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ipfs %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, fmt.Errorf("ipfs %s returned %d: %s", req.URL.Path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return resp, nil
}
