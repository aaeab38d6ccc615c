package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

const featuredVideosLimit = 6

type Handler struct {
	repo *Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(db),
	}
}

// ListCategories godoc
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  Category
// @Router       /categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.repo.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// ListFeaturedVideos godoc
// @Summary      Featured videos
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  Video
// @Router       /videos/featured [get]
func (h *Handler) ListFeaturedVideos(c *gin.Context) {
	videos, err := h.repo.ListFeaturedVideos(c.Request.Context(), featuredVideosLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load videos"})
		return
	}

	c.JSON(http.StatusOK, videos)
}
