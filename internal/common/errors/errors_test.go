package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrCodeRemoteFetch, "failed to fetch schema")

	assert.Equal(t, "failed to fetch schema: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, err.IsInternal())
	assert.False(t, err.IsValidation())
}

func TestAsAppErrorFollowsWrapping(t *testing.T) {
	inner := NewMalformedTokenError("bad base64", nil)
	wrapped := fmt.Errorf("decode: %w", inner)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeMalformedToken, appErr.Code)
	assert.True(t, Is(wrapped, ErrCodeMalformedToken))
	assert.False(t, Is(stderrors.New("plain"), ErrCodeMalformedToken))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeMalformedToken:     http.StatusBadRequest,
		ErrCodeNotFound:           http.StatusNotFound,
		ErrCodeUnauthorizedSigner: http.StatusForbidden,
		ErrCodeStaleBlockHash:     http.StatusUnprocessableEntity,
		ErrCodePayloadTooLarge:    http.StatusRequestEntityTooLarge,
		ErrCodeRemoteFetch:        http.StatusBadGateway,
		ErrCodeImportTimeout:      http.StatusGatewayTimeout,
		ErrCodeInternal:           http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(New(code, "x")), string(code))
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrors.New("plain")))
}

func TestValidationErrorDetails(t *testing.T) {
	err := NewValidationError("name", "must not be empty")
	assert.Equal(t, "name", err.Details["field"])
	assert.True(t, err.IsValidation())
	assert.NotEmpty(t, err.Stack)
}
