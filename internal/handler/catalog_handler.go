package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/dto"
	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
	"github.com/H7KZ/Kreditozrouti-sub000/internal/service"
	appErrors "github.com/H7KZ/Kreditozrouti-sub000/pkg/errors"
	"github.com/H7KZ/Kreditozrouti-sub000/pkg/response"
)

type catalogBrowser interface {
	Search(ctx context.Context, filter models.CourseFilter) ([]models.Course, models.Pagination, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	Facets(ctx context.Context, semester string, year int) (*models.CourseFacets, bool, error)
}

// CatalogHandler manages course catalog endpoints.
type CatalogHandler struct {
	service  catalogBrowser
	validate *validator.Validate
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(svc *service.CatalogService, validate *validator.Validate) *CatalogHandler {
	return &CatalogHandler{service: svc, validate: validate}
}

// Search godoc
// @Summary Search courses
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.SearchCoursesRequest true "Catalog filters"
// @Success 200 {object} response.Envelope
// @Router /courses/search [post]
func (h *CatalogHandler) Search(c *gin.Context) {
	var req dto.SearchCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid search filters"))
		return
	}

	courses, pagination, err := h.service.Search(c.Request.Context(), req.ToFilter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, &pagination)
}

// Get godoc
// @Summary Get course detail
// @Tags Catalog
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	course, err := h.service.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Facets godoc
// @Summary Aggregate facet counts for the filter UI
// @Tags Catalog
// @Produce json
// @Param semester query string false "Semester"
// @Param year query int false "Academic year"
// @Success 200 {object} response.Envelope
// @Router /courses/facets [get]
func (h *CatalogHandler) Facets(c *gin.Context) {
	semester := c.Query("semester")
	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid year"))
			return
		}
		year = parsed
	}

	facets, cacheHit, err := h.service.Facets(c.Request.Context(), semester, year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, facets, nil, map[string]interface{}{"cache_hit": cacheHit})
}
