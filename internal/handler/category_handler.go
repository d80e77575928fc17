package handler

import (
	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/service"
	"github.com/diwan-maarifa/diwan-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles public category reads
type CategoryHandler struct {
	service service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(service service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  common.APIResponse{data=[]domain.Category}
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, categories, nil)
}

// GetBySlug godoc
// @Summary      Category with its published content
// @Tags         categories
// @Produce      json
// @Param        slug   path   string  true   "Category slug"
// @Param        page   query  int     false  "Page"   default(1)
// @Param        limit  query  int     false  "Limit"  default(20)
// @Success      200  {object}  common.APIResponse{data=service.CategoryContent}
// @Failure      404  {object}  common.APIResponse
// @Router       /categories/{slug} [get]
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	content, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"),
		ginutil.QueryInt(c, "page", 1), ginutil.QueryInt(c, "limit", 20))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, content, nil)
}
