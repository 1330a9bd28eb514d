package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	apperrors "verifiable-media-backend/internal/common/errors"
)

const maxDocumentBytes = 64 << 10

// RemoteSource fetches `{base}/json-schemas/{kind}.types.json` on every call.
// Domain, primary type and proof-of-age field still come from the registry,
// so a remote host can only change the field layout.
type RemoteSource struct {
	baseURL    string
	timeout    time.Duration
	registry   *Registry
	httpClient *http.Client
}

func NewRemoteSource(baseURL string, timeout time.Duration, registry *Registry) *RemoteSource {
	return &RemoteSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		registry:   registry,
		httpClient: &http.Client{},
	}
}

func (s *RemoteSource) Document(ctx context.Context, kind string) (Document, error) {
	doc, err := s.registry.Lookup(kind)
	if err != nil {
		return Document{}, err
	}

	url := fmt.Sprintf("%s/json-schemas/%s.types.json", s.baseURL, kind)
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Document{}, apperrors.NewRemoteFetchError(url, err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Document{}, apperrors.NewRemoteFetchError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Document{}, apperrors.NewRemoteFetchError(url, fmt.Errorf("unexpected status %d", resp.StatusCode)).
			WithDetail("status", resp.StatusCode)
	}

	var types apitypes.Types
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentBytes)).Decode(&types); err != nil {
		return Document{}, apperrors.NewRemoteFetchError(url, fmt.Errorf("decode types: %w", err))
	}
	doc.Types = types
	if err := doc.Validate(); err != nil {
		return Document{}, apperrors.NewRemoteFetchError(url, err)
	}
	return doc, nil
}
