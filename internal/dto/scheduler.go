package dto

// GenerateOptions tunes the greedy schedule generator.
type GenerateOptions struct {
	PreferredDays     []string `json:"preferredDays" validate:"omitempty,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	PreferredTimeFrom *int     `json:"preferredTimeFrom" validate:"omitempty,min=0,max=1440"`
	PreferredTimeTo   *int     `json:"preferredTimeTo" validate:"omitempty,min=0,max=1440"`
	MaxEcts           int      `json:"maxEcts" validate:"omitempty,min=1"`
	IncludeElectives  bool     `json:"includeElectives"`
}

// GenerateScheduleRequest instructs the generator to build a schedule for a
// study plan scoped to one semester.
type GenerateScheduleRequest struct {
	StudyPlanID string          `json:"studyPlanId" validate:"required"`
	Semester    string          `json:"semester" validate:"required"`
	Year        int             `json:"year" validate:"required,min=2000"`
	Options     GenerateOptions `json:"options"`
}

// AnalyzeScheduleRequest asks for diagnostics over a finished schedule.
type AnalyzeScheduleRequest struct {
	Slots []ScheduleSlotPayload `json:"slots" validate:"required,dive"`
}

// ScheduleSlotPayload mirrors a selected unit in analyzer requests.
type ScheduleSlotPayload struct {
	CourseIdent string `json:"courseIdent"`
	SlotID      string `json:"slotId"`
	Day         string `json:"day,omitempty"`
	Date        string `json:"date,omitempty"`
	TimeFrom    int    `json:"timeFrom" validate:"min=0,max=1440"`
	TimeTo      int    `json:"timeTo" validate:"min=0,max=1440"`
}
