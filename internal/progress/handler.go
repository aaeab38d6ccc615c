package progress

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Serg2206/ssvnauka-platform/internal/api"
	"github.com/Serg2206/ssvnauka-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Update godoc
// @Summary      Update lesson progress
// @Description  Stores watch position and completion for a lesson, recomputes course progress and awards XP on first completion.
// @Tags         progress
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        lessonID  path      int            true  "Lesson ID"
// @Param        input     body      UpdateRequest  true  "Progress state"
// @Success      200       {object}  UpdateResult
// @Failure      400       {object}  gin.H
// @Failure      401       {object}  gin.H
// @Failure      404       {object}  gin.H
// @Failure      500       {object}  gin.H
// @Router       /lessons/{lessonID}/progress [post]
func (h *Handler) Update(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	lessonID, err := strconv.Atoi(c.Param("lessonID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lesson ID"})
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	result, err := h.service.UpdateLessonProgress(c.Request.Context(), userID, lessonID, req)
	if err != nil {
		if errors.Is(err, ErrLessonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update progress"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary      Get lesson progress
// @Description  Returns the caller's stored progress for a lesson; an untouched lesson reports zero values.
// @Tags         progress
// @Security     BearerAuth
// @Produce      json
// @Param        lessonID  path      int  true  "Lesson ID"
// @Success      200       {object}  LessonProgress
// @Failure      400       {object}  gin.H
// @Failure      401       {object}  gin.H
// @Failure      500       {object}  gin.H
// @Router       /lessons/{lessonID}/progress [get]
func (h *Handler) Get(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	lessonID, err := strconv.Atoi(c.Param("lessonID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lesson ID"})
		return
	}

	progress, err := h.service.GetForLesson(c.Request.Context(), userID, lessonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load progress"})
		return
	}

	c.JSON(http.StatusOK, progress)
}
