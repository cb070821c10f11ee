package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/dto"
	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
	"github.com/H7KZ/Kreditozrouti-sub000/internal/service"
	appErrors "github.com/H7KZ/Kreditozrouti-sub000/pkg/errors"
	"github.com/H7KZ/Kreditozrouti-sub000/pkg/response"
)

type courseResolver interface {
	GetCourse(ctx context.Context, id string) (*models.Course, error)
}

type timetableRenderer interface {
	RenderICS(units []models.SelectedUnit) ([]byte, error)
	RenderCSV(units []models.SelectedUnit) ([]byte, error)
	RenderPDF(units []models.SelectedUnit) ([]byte, error)
}

// TimetableHandler manages the current selection and its exports.
type TimetableHandler struct {
	timetable *service.TimetableService
	catalog   courseResolver
	exporter  timetableRenderer
	validate  *validator.Validate
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(timetable *service.TimetableService, catalog *service.CatalogService, exporter *service.ExportService, validate *validator.Validate) *TimetableHandler {
	return &TimetableHandler{timetable: timetable, catalog: catalog, exporter: exporter, validate: validate}
}

// Get godoc
// @Summary Current timetable with derived statuses and conflicts
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.snapshot(), nil)
}

// AddUnit godoc
// @Summary Select a unit slot
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.AddUnitRequest true "Selection payload"
// @Success 201 {object} response.Envelope
// @Router /timetable/units [post]
func (h *TimetableHandler) AddUnit(c *gin.Context) {
	var req dto.AddUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection"))
		return
	}

	course, unit, slot, err := h.resolveSlot(c, req.CourseID, req.UnitID, req.SlotID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !h.timetable.AddUnit(*course, *unit, *slot) {
		response.Error(c, appErrors.ErrDuplicateSlot)
		return
	}
	response.Created(c, h.snapshot())
}

// ChangeUnit godoc
// @Summary Swap a selected slot for another of the same course
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.ChangeUnitRequest true "Swap payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/units [put]
func (h *TimetableHandler) ChangeUnit(c *gin.Context) {
	var req dto.ChangeUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid swap"))
		return
	}

	course, unit, slot, err := h.resolveSlot(c, req.CourseID, req.NewUnitID, req.NewSlotID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !h.timetable.ChangeUnit(*course, req.OldSlotID, *unit, *slot) {
		response.Error(c, appErrors.Clone(appErrors.ErrDuplicateSlot, "new slot is already selected, previous selection kept"))
		return
	}
	response.JSON(c, http.StatusOK, h.snapshot(), nil)
}

// RemoveUnit godoc
// @Summary Remove every selection of a unit
// @Tags Timetable
// @Produce json
// @Param unitId path string true "Unit ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/units/{unitId} [delete]
func (h *TimetableHandler) RemoveUnit(c *gin.Context) {
	h.timetable.RemoveUnit(c.Param("unitId"))
	response.JSON(c, http.StatusOK, h.snapshot(), nil)
}

// RemoveCourse godoc
// @Summary Remove every selection of a course
// @Tags Timetable
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/courses/{courseId} [delete]
func (h *TimetableHandler) RemoveCourse(c *gin.Context) {
	h.timetable.RemoveCourse(c.Param("courseId"))
	response.JSON(c, http.StatusOK, h.snapshot(), nil)
}

// Clear godoc
// @Summary Empty the timetable
// @Tags Timetable
// @Produce json
// @Success 204
// @Router /timetable [delete]
func (h *TimetableHandler) Clear(c *gin.Context) {
	h.timetable.ClearAll()
	response.NoContent(c)
}

// Drag godoc
// @Summary Normalize a grid drag into a time selection
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.DragSelectionRequest true "Drag payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/drag [post]
func (h *TimetableHandler) Drag(c *gin.Context) {
	var req dto.DragSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drag"))
		return
	}
	selection := h.timetable.NormalizeDrag(req.Day, req.Start, req.End)
	response.JSON(c, http.StatusOK, selection, nil)
}

// Exclusions godoc
// @Summary Current selection as catalog exclusion windows
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/exclusions [get]
func (h *TimetableHandler) Exclusions(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.timetable.Exclusions(), nil)
}

// ExportICS godoc
// @Summary Export the timetable as an iCalendar file
// @Tags Timetable
// @Produce text/calendar
// @Success 200 {string} string
// @Router /timetable/export.ics [get]
func (h *TimetableHandler) ExportICS(c *gin.Context) {
	payload, err := h.exporter.RenderICS(h.timetable.SelectedUnits())
	if err != nil {
		response.Error(c, appErrors.Wrap(err, "EXPORT_FAILED", http.StatusInternalServerError, "failed to render calendar"))
		return
	}
	h.attachment(c, "timetable.ics", "text/calendar", payload)
}

// ExportCSV godoc
// @Summary Export the timetable as CSV
// @Tags Timetable
// @Produce text/csv
// @Success 200 {string} string
// @Router /timetable/export.csv [get]
func (h *TimetableHandler) ExportCSV(c *gin.Context) {
	payload, err := h.exporter.RenderCSV(h.timetable.SelectedUnits())
	if err != nil {
		response.Error(c, appErrors.Wrap(err, "EXPORT_FAILED", http.StatusInternalServerError, "failed to render csv"))
		return
	}
	h.attachment(c, "timetable.csv", "text/csv", payload)
}

// ExportPDF godoc
// @Summary Export the timetable as PDF
// @Tags Timetable
// @Produce application/pdf
// @Success 200 {string} string
// @Router /timetable/export.pdf [get]
func (h *TimetableHandler) ExportPDF(c *gin.Context) {
	payload, err := h.exporter.RenderPDF(h.timetable.SelectedUnits())
	if err != nil {
		response.Error(c, appErrors.Wrap(err, "EXPORT_FAILED", http.StatusInternalServerError, "failed to render pdf"))
		return
	}
	h.attachment(c, "timetable.pdf", "application/pdf", payload)
}

func (h *TimetableHandler) attachment(c *gin.Context, filename, contentType string, payload []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

// snapshot renders the selection plus derived statuses and conflict pairs.
func (h *TimetableHandler) snapshot() dto.TimetableResponse {
	pairs := h.timetable.Conflicts()
	conflicts := make([][2]string, 0, len(pairs))
	for _, pair := range pairs {
		conflicts = append(conflicts, [2]string{pair.A.SlotID, pair.B.SlotID})
	}
	return dto.TimetableResponse{
		SelectedUnits: h.timetable.SelectedUnits(),
		Statuses:      service.SortStatuses(h.timetable.CourseStatuses()),
		Conflicts:     conflicts,
	}
}

// resolveSlot loads the course and locates the requested unit and slot.
func (h *TimetableHandler) resolveSlot(c *gin.Context, courseID, unitID, slotID string) (*models.Course, *models.Unit, *models.TimeSlot, error) {
	course, err := h.catalog.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		return nil, nil, nil, err
	}
	unit := course.UnitByID(unitID)
	if unit == nil {
		return nil, nil, nil, appErrors.Clone(appErrors.ErrNotFound, "unit not found in course")
	}
	for i := range unit.Slots {
		if unit.Slots[i].ID == slotID {
			return course, unit, &unit.Slots[i], nil
		}
	}
	return nil, nil, nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found in unit")
}
