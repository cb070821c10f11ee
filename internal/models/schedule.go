package models

// ScheduleConflict records a compulsory course the generator could not place.
type ScheduleConflict struct {
	CourseIdent string `json:"course_ident"`
	Message     string `json:"message"`
}

// ScheduleCoverage summarises how much of the study plan was scheduled.
type ScheduleCoverage struct {
	CompulsoryFulfilled bool     `json:"compulsory_fulfilled"`
	MissingCompulsory   []string `json:"missing_compulsory"`
	ElectiveCount       int      `json:"elective_count"`
}

// ScheduleResult is the generator output: accepted slots plus diagnostics.
// Infeasibility shows up in Conflicts/Warnings/Coverage, never as an error.
type ScheduleResult struct {
	Slots      []SelectedUnit     `json:"slots"`
	TotalEcts  int                `json:"total_ects"`
	TotalHours float64            `json:"total_hours"`
	Conflicts  []ScheduleConflict `json:"conflicts"`
	Warnings   []string           `json:"warnings"`
	Coverage   ScheduleCoverage   `json:"coverage"`
}

// DayLoad aggregates one weekday of a finished schedule.
type DayLoad struct {
	Day   string  `json:"day"`
	Count int     `json:"count"`
	Hours float64 `json:"hours"`
}

// ScheduleGap is an idle window between two adjacent slots on the same day.
type ScheduleGap struct {
	Day        string `json:"day"`
	AfterSlot  string `json:"after_slot"`
	BeforeSlot string `json:"before_slot"`
	Minutes    int    `json:"minutes"`
}

// ScheduleAnalysis carries the analyzer diagnostics.
type ScheduleAnalysis struct {
	Days     []DayLoad     `json:"days"`
	Gaps     []ScheduleGap `json:"gaps"`
	Warnings []string      `json:"warnings"`
}
