package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/dto"
	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
	"github.com/H7KZ/Kreditozrouti-sub000/internal/service"
	appErrors "github.com/H7KZ/Kreditozrouti-sub000/pkg/errors"
	"github.com/H7KZ/Kreditozrouti-sub000/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*models.ScheduleResult, error)
}

type scheduleAnalyzer interface {
	Analyze(slots []models.SelectedUnit) models.ScheduleAnalysis
}

// SchedulerHandler manages schedule generation and analysis endpoints.
type SchedulerHandler struct {
	generator scheduleGenerator
	analyzer  scheduleAnalyzer
	metrics   *service.MetricsService
	validate  *validator.Validate
}

// NewSchedulerHandler constructs handler.
func NewSchedulerHandler(generator *service.ScheduleGeneratorService, analyzer *service.ScheduleAnalyzerService, metrics *service.MetricsService, validate *validator.Validate) *SchedulerHandler {
	return &SchedulerHandler{generator: generator, analyzer: analyzer, metrics: metrics, validate: validate}
}

// Generate godoc
// @Summary Generate a schedule from a study plan
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generation payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *SchedulerHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	start := time.Now()
	result, err := h.generator.Generate(c.Request.Context(), req)
	if h.metrics != nil {
		h.metrics.ObserveGeneratorRun(time.Since(start))
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Analyze godoc
// @Summary Analyze a schedule for gaps and load warnings
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.AnalyzeScheduleRequest true "Schedule slots"
// @Success 200 {object} response.Envelope
// @Router /schedules/analyze [post]
func (h *SchedulerHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule slots"))
		return
	}

	slots := make([]models.SelectedUnit, 0, len(req.Slots))
	for _, slot := range req.Slots {
		slots = append(slots, models.SelectedUnit{
			CourseIdent: slot.CourseIdent,
			SlotID:      slot.SlotID,
			Day:         slot.Day,
			Date:        slot.Date,
			TimeFrom:    slot.TimeFrom,
			TimeTo:      slot.TimeTo,
		})
	}
	response.JSON(c, http.StatusOK, h.analyzer.Analyze(slots), nil)
}
