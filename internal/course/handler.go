package course

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Serg2206/ssvnauka-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary      List courses
// @Description  Returns published courses, optionally filtered by level, category or featured flag.
// @Tags         courses
// @Produce      json
// @Param        level        query     string  false  "Course level"
// @Param        category_id  query     int     false  "Category ID"
// @Param        featured     query     bool    false  "Featured only"
// @Success      200  {array}   Course
// @Failure      500  {object}  gin.H
// @Router       /courses [get]
func (h *Handler) List(c *gin.Context) {
	filter := ListFilter{Level: c.Query("level")}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		filter.CategoryID = id
	}
	filter.Featured = c.Query("featured") == "true"

	courses, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load courses"})
		return
	}

	c.JSON(http.StatusOK, courses)
}

// Get godoc
// @Summary      Get course by slug
// @Description  Returns the course with its lessons. For a signed-in caller the enrollment and per-lesson progress are included.
// @Tags         courses
// @Produce      json
// @Param        slug  path      string  true  "Course slug"
// @Success      200   {object}  Detail
// @Failure      404   {object}  gin.H
// @Failure      500   {object}  gin.H
// @Router       /courses/{slug} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	detail, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"), userID)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load course"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Enroll godoc
// @Summary      Enroll in course
// @Description  Enrolls the caller in the course. Re-enrolling returns the existing enrollment.
// @Tags         courses
// @Security     BearerAuth
// @Produce      json
// @Param        slug  path      string  true  "Course slug"
// @Success      200   {object}  Enrollment
// @Failure      401   {object}  gin.H
// @Failure      404   {object}  gin.H
// @Failure      500   {object}  gin.H
// @Router       /courses/{slug}/enroll [post]
func (h *Handler) Enroll(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	enrollment, err := h.service.Enroll(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enroll"})
		return
	}

	c.JSON(http.StatusOK, enrollment)
}
