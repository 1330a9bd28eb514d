package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/common/middleware"
	"verifiable-media-backend/internal/features/message"
	"verifiable-media-backend/internal/features/upload/service"
)

const maxMetadataBody = 1 << 20

type UploadHandler struct {
	service        service.UploadService
	maxUploadBytes int64
}

func NewUploadHandler(service service.UploadService, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/upload-video", h.uploadVideo)
	router.POST("/upload-metadata", h.uploadMetadata)
}

// @Summary Upload a video to IPFS
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Video file"
// @Success 200 {object} models.UploadResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 413 {object} middleware.ErrorResponse
// @Router /api/upload-video [post]
func (h *UploadHandler) uploadVideo(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	reader, err := c.Request.MultipartReader()
	if err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "expected multipart form"))
		return
	}
	for {
		part, err := reader.NextPart()
		if err != nil {
			middleware.AbortWithError(c, bodyError(err, "form field 'file' is required"))
			return
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}

		res, err := h.service.UploadVideo(c.Request.Context(), part.FileName(), part)
		part.Close()
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				err = bodyError(maxErr, "")
			}
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}
}

// @Summary Pin signed metadata to IPFS
// @Description Verifies the signature of a signed message envelope and pins it
// @Tags uploads
// @Accept json
// @Produce json
// @Param request body message.SignedMessage true "Signed message"
// @Success 200 {object} models.MetadataUploadResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /api/upload-metadata [post]
func (h *UploadHandler) uploadMetadata(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMetadataBody)

	var signed message.SignedMessage
	if err := c.ShouldBindJSON(&signed); err != nil {
		middleware.AbortWithError(c, bodyError(err, "invalid signed message"))
		return
	}
	res, err := h.service.UploadMetadata(c.Request.Context(), signed)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func bodyError(err error, message string) *apperrors.AppError {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.Wrap(err, apperrors.ErrCodePayloadTooLarge, "File too large.").
			WithDetail("limit", maxErr.Limit)
	}
	return apperrors.Wrap(err, apperrors.ErrCodeBadRequest, message)
}
