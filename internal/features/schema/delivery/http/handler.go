package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/common/middleware"
	"verifiable-media-backend/internal/features/schema"
)

const (
	typesSuffix  = ".types.json"
	schemaSuffix = ".schema.json"
)

type SchemaHandler struct {
	registry *schema.Registry
}

func NewSchemaHandler(registry *schema.Registry) *SchemaHandler {
	return &SchemaHandler{registry: registry}
}

func (h *SchemaHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/json-schemas/:file", h.getDocument)
}

// @Summary Get a typed-data document
// @Description Returns `{kind}.types.json` (field layout) or `{kind}.schema.json` (domain, primary type and layout)
// @Tags schemas
// @Produce json
// @Param file path string true "Document file name, e.g. stream.types.json"
// @Success 200 {object} schema.SchemaDocument
// @Failure 404 {object} middleware.ErrorResponse
// @Router /json-schemas/{file} [get]
func (h *SchemaHandler) getDocument(c *gin.Context) {
	file := c.Param("file")

	var kind string
	var asSchema bool
	switch {
	case strings.HasSuffix(file, typesSuffix):
		kind = strings.TrimSuffix(file, typesSuffix)
	case strings.HasSuffix(file, schemaSuffix):
		kind = strings.TrimSuffix(file, schemaSuffix)
		asSchema = true
	default:
		middleware.AbortWithError(c, apperrors.NewNotFoundError("schema document", file))
		return
	}

	doc, err := h.registry.Lookup(kind)
	if err != nil {
		middleware.AbortWithError(c, apperrors.NewNotFoundError("schema document", file))
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	if asSchema {
		c.JSON(http.StatusOK, doc.Schema())
		return
	}
	c.JSON(http.StatusOK, doc.Types)
}
