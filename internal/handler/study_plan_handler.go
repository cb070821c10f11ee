package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
	appErrors "github.com/H7KZ/Kreditozrouti-sub000/pkg/errors"
	"github.com/H7KZ/Kreditozrouti-sub000/pkg/response"
)

// studyPlans is the persistence surface for plan endpoints.
type studyPlans interface {
	GetPlan(ctx context.Context, id string) (*models.StudyPlan, error)
	ListPlans(ctx context.Context) ([]models.StudyPlan, error)
}

// StudyPlanHandler serves study plan lookups for the generator UI.
type StudyPlanHandler struct {
	plans studyPlans
}

// NewStudyPlanHandler constructs handler.
func NewStudyPlanHandler(plans studyPlans) *StudyPlanHandler {
	return &StudyPlanHandler{plans: plans}
}

// List godoc
// @Summary List study plans
// @Tags StudyPlans
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /study-plans [get]
func (h *StudyPlanHandler) List(c *gin.Context) {
	plans, err := h.plans.ListPlans(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, nil)
}

// Get godoc
// @Summary Get a study plan with its course list
// @Tags StudyPlans
// @Produce json
// @Param id path string true "Study plan ID"
// @Success 200 {object} response.Envelope
// @Router /study-plans/{id} [get]
func (h *StudyPlanHandler) Get(c *gin.Context) {
	plan, err := h.plans.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "study plan not found"))
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}
