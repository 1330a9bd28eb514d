package livepeer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/asset/import", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ipfs://Qm", body["name"])
		assert.Equal(t, "https://gw/ipfs/Qm", body["url"])

		_, _ = w.Write([]byte(`{"asset":{"id":"a1","status":{"phase":"waiting"}},"task":{"id":"t1","outputAssetId":"a1"}}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL+"/api/", "secret").ImportAsset(context.Background(), "ipfs://Qm", "https://gw/ipfs/Qm")
	require.NoError(t, err)
	assert.Equal(t, "a1", res.Task.OutputAssetID)
	assert.Equal(t, "waiting", res.Asset.Status.Phase)
}

func TestGetAssetStatusForms(t *testing.T) {
	bodies := map[string]string{
		"a1": `{"id":"a1","status":{"phase":"ready","updatedAt":5},"playbackUrl":"https://cdn/a1.m3u8"}`,
		"a2": `{"id":"a2","status":"failed"}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/asset/"):]
		body, ok := bodies[id]
		if !ok {
			http.Error(w, `{"errors":["not found"]}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()
	client := NewClient(srv.URL, "")

	a1, err := client.GetAsset(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "ready", a1.Status.Phase)
	assert.Equal(t, "https://cdn/a1.m3u8", a1.PlaybackURL)

	a2, err := client.GetAsset(context.Background(), "a2")
	require.NoError(t, err)
	assert.Equal(t, "failed", a2.Status.Phase)

	_, err = client.GetAsset(context.Background(), "missing")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
