package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/common/middleware"
	"verifiable-media-backend/internal/features/asset/models"
	"verifiable-media-backend/internal/features/asset/service"
)

type AssetHandler struct {
	service service.AssetService
}

func NewAssetHandler(service service.AssetService) *AssetHandler {
	return &AssetHandler{service: service}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	assets := router.Group("/asset")
	{
		assets.POST("/create", h.create)
		assets.GET("/:id", h.get)
	}
}

// @Summary Import a signed video
// @Description Reads signed video metadata from IPFS, verifies the signer and starts a Livepeer Studio import
// @Tags assets
// @Accept json
// @Produce json
// @Param request body models.CreateAssetRequest true "IPFS hash of the signed metadata"
// @Success 200 {object} models.CreateAssetResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /api/asset/create [post]
func (h *AssetHandler) create(c *gin.Context) {
	var req models.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, apperrors.NewValidationError("hash", err.Error()))
		return
	}

	res, err := h.service.Create(c.Request.Context(), req.Hash)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Get an asset
// @Description Proxies the Livepeer Studio asset, including status phase and playback URL
// @Tags assets
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} livepeer.Asset
// @Failure 404 {object} middleware.ErrorResponse
// @Router /api/asset/{id} [get]
func (h *AssetHandler) get(c *gin.Context) {
	asset, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}
