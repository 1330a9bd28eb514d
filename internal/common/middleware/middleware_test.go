package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "verifiable-media-backend/internal/common/errors"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), ErrorHandler(), Logger())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })
	router.GET("/validation", func(c *gin.Context) {
		AbortWithError(c, apperrors.NewValidationError("hash", "Bad IPFS hash"))
	})
	router.GET("/plain", func(c *gin.Context) {
		AbortWithError(c, errors.New("disk on fire"))
	})
	router.GET("/wrapped", HandleErrorWrapper()(func(c *gin.Context) {
		_ = c.Error(apperrors.New(apperrors.ErrCodeStaleBlockHash, "stale"))
	}))
	router.NoRoute(NotFound())
	return router
}

func decode(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRequestIDPropagation(t *testing.T) {
	router := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/validation", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-123", decode(t, w).RequestID)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/validation", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestErrorResponses(t *testing.T) {
	router := setupRouter()

	cases := []struct {
		path   string
		status int
		code   apperrors.ErrorCode
	}{
		{"/validation", http.StatusBadRequest, apperrors.ErrCodeValidation},
		{"/plain", http.StatusInternalServerError, apperrors.ErrCodeInternal},
		{"/wrapped", http.StatusUnprocessableEntity, apperrors.ErrCodeStaleBlockHash},
		{"/panic", http.StatusInternalServerError, apperrors.ErrCodeInternal},
		{"/missing", http.StatusNotFound, apperrors.ErrCodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
			assert.Equal(t, tc.path, resp.Path)
		})
	}
}
