package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/common/logger"
	"verifiable-media-backend/internal/common/middleware"
	"verifiable-media-backend/internal/features/ingest"
)

const (
	maxWebhookBody = 64 << 10

	hookPushRewrite   = "PUSH_REWRITE"
	hookDefaultStream = "DEFAULT_STREAM"

	// ModeRedirect and ModeReject select how non-POST requests are answered.
	ModeRedirect = "redirect"
	ModeReject   = "reject"
)

var nonPostMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodOptions,
}

// IngestHandler answers media server webhooks in plain text.
type IngestHandler struct {
	service     *ingest.Service
	nonPostMode string
	redirectURL string
}

func NewIngestHandler(service *ingest.Service, nonPostMode, redirectURL string) *IngestHandler {
	return &IngestHandler{service: service, nonPostMode: nonPostMode, redirectURL: redirectURL}
}

func (h *IngestHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/", h.verifyBody)
	router.POST("/hooks/:hook", h.handleHook)
	for _, method := range nonPostMethods {
		router.Handle(method, "/", h.nonPost)
		router.Handle(method, "/hooks/:hook", h.nonPost)
	}
}

// @Summary Verify a stream key
// @Description The trimmed body is the stream key. Answers `stream+<address>` in plain text.
// @Tags ingest
// @Accept plain
// @Produce plain
// @Success 200 {string} string "stream+0x..."
// @Failure 403 {string} string "signer is not authorized to publish"
// @Failure 422 {string} string "stale block hash"
// @Failure 500 {string} string "error message"
// @Router / [post]
func (h *IngestHandler) verifyBody(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	h.authorize(c, strings.TrimSpace(body))
}

// @Summary Media server webhook
// @Description PUSH_REWRITE verifies the key in the push URL; DEFAULT_STREAM passes the requested name through.
// @Tags ingest
// @Accept plain
// @Produce plain
// @Param hook path string true "PUSH_REWRITE or DEFAULT_STREAM"
// @Success 200 {string} string "stream+..."
// @Failure 404 {string} string "not found"
// @Failure 500 {string} string "error message"
// @Router /hooks/{hook} [post]
func (h *IngestHandler) handleHook(c *gin.Context) {
	hook := c.Param("hook")
	if hook != hookPushRewrite && hook != hookDefaultStream {
		c.String(http.StatusNotFound, "not found")
		return
	}
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	if hook == hookDefaultStream {
		c.String(http.StatusOK, h.service.StreamName(ingest.DefaultStreamName(body)))
		return
	}

	token, err := ingest.PushRewriteToken(body)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.authorize(c, token)
}

func (h *IngestHandler) authorize(c *gin.Context, token string) {
	decision, err := h.service.Authorize(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.String(http.StatusOK, decision.StreamName)
}

func (h *IngestHandler) nonPost(c *gin.Context) {
	if h.nonPostMode == ModeReject {
		c.Header("Allow", http.MethodPost)
		c.String(http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	c.Redirect(http.StatusFound, h.redirectURL)
}

func (h *IngestHandler) readBody(c *gin.Context) (string, bool) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.fail(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "failed to read body"))
		return "", false
	}
	return string(raw), true
}

// fail answers with the error message as plain text. Media servers treat
// any non-200 as a denial, so everything except explicit authorization
// outcomes stays a 500.
func (h *IngestHandler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := apperrors.ErrCodeInternal
	if appErr, ok := apperrors.AsAppError(err); ok {
		code = appErr.Code
		switch appErr.Code {
		case apperrors.ErrCodeUnauthorizedSigner:
			status = http.StatusForbidden
		case apperrors.ErrCodeStaleBlockHash:
			status = http.StatusUnprocessableEntity
		}
	}

	event := logger.Warn
	if status == http.StatusInternalServerError && !isCallerError(code) {
		event = logger.Error
	}
	event().
		Str("request_id", middleware.GetRequestID(c)).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(code)).
		Err(err).
		Msg("Stream key rejected")

	c.Header("X-Error-Code", string(code))
	c.String(status, err.Error())
}

func isCallerError(code apperrors.ErrorCode) bool {
	switch code {
	case apperrors.ErrCodeMalformedToken, apperrors.ErrCodeInvalidURLScheme,
		apperrors.ErrCodeMissingPathPrefix, apperrors.ErrCodeSignatureRecovery,
		apperrors.ErrCodeUnknownSchema, apperrors.ErrCodeBadRequest:
		return true
	}
	return false
}
