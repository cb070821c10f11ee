package dto

import "github.com/H7KZ/Kreditozrouti-sub000/internal/models"

// AddUnitRequest selects one slot of a unit for the timetable.
type AddUnitRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	UnitID   string `json:"unitId" validate:"required"`
	SlotID   string `json:"slotId" validate:"required"`
}

// ChangeUnitRequest swaps a selected slot for another one of the same course.
type ChangeUnitRequest struct {
	CourseID  string `json:"courseId" validate:"required"`
	OldSlotID string `json:"oldSlotId" validate:"required"`
	NewUnitID string `json:"newUnitId" validate:"required"`
	NewSlotID string `json:"newSlotId" validate:"required"`
}

// DragSelectionRequest is a raw pointer drag over the grid; start and end may
// arrive in either order.
type DragSelectionRequest struct {
	Day   string `json:"day" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	Start int    `json:"start" validate:"min=0,max=1440"`
	End   int    `json:"end" validate:"min=0,max=1440"`
}

// TimetableResponse bundles the selection with its derived statuses.
type TimetableResponse struct {
	SelectedUnits []models.SelectedUnit `json:"selected_units"`
	Statuses      []models.CourseStatus `json:"statuses"`
	Conflicts     [][2]string           `json:"conflicts,omitempty"`
}
