package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/common/middleware"
	"verifiable-media-backend/internal/features/attestation"
)

type AttestationHandler struct {
	service *attestation.Service
}

func NewAttestationHandler(service *attestation.Service) *AttestationHandler {
	return &AttestationHandler{service: service}
}

func (h *AttestationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/attestations/verify", h.verify)
}

// @Summary Verify a video attestation
// @Tags attestations
// @Accept json
// @Produce json
// @Param request body attestation.VerifyRequest true "Attestation message and signature"
// @Success 200 {object} attestation.VerifyResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /api/attestations/verify [post]
func (h *AttestationHandler) verify(c *gin.Context) {
	var req attestation.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "invalid request body"))
		return
	}
	res, err := h.service.Verify(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
