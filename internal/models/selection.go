package models

// SelectedUnit is one picked slot of a unit, denormalized so the timetable can
// be rendered and persisted without re-resolving the catalog.
type SelectedUnit struct {
	CourseID    string `json:"course_id"`
	CourseIdent string `json:"course_ident"`
	UnitID      string `json:"unit_id"`
	UnitType    string `json:"unit_type"`
	SlotID      string `json:"slot_id"`
	Day         string `json:"day,omitempty"`
	Date        string `json:"date,omitempty"`
	TimeFrom    int    `json:"time_from"`
	TimeTo      int    `json:"time_to"`
	Ects        int    `json:"ects"`
	Location    string `json:"location,omitempty"`
}

// SlotTime projects the selection onto the shared collision shape.
func (u SelectedUnit) SlotTime() SlotTime {
	return SlotTime{Day: u.Day, Date: u.Date, TimeFrom: u.TimeFrom, TimeTo: u.TimeTo}
}

// EffectiveDay resolves the day of week for the selected slot.
func (u SelectedUnit) EffectiveDay() string {
	return u.SlotTime().EffectiveDay()
}

// Duration returns the slot length in minutes.
func (u SelectedUnit) Duration() int {
	return u.TimeTo - u.TimeFrom
}

// CourseStatusValue enumerates the derived per-course selection states.
type CourseStatusValue string

const (
	CourseStatusSelected   CourseStatusValue = "selected"
	CourseStatusConflict   CourseStatusValue = "conflict"
	CourseStatusIncomplete CourseStatusValue = "incomplete"
)

// CourseStatus is derived from the current selection, never persisted.
type CourseStatus struct {
	CourseID      string            `json:"course_id"`
	Status        CourseStatusValue `json:"status"`
	ConflictsWith []string          `json:"conflicts_with,omitempty"`
	MissingTypes  []string          `json:"missing_types,omitempty"`
}

// TimeSelection is a day/date + time window used both as a positive include
// filter and a negative exclude filter. SlotID exempts that slot from
// counting as a self-conflict in exclusion mode.
type TimeSelection struct {
	Day      string `json:"day,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeFrom int    `json:"time_from"`
	TimeTo   int    `json:"time_to"`
	SlotID   string `json:"slot_id,omitempty"`
}

// SelectionDocument is the durable form of the timetable, stored as a single
// JSON document under a fixed key.
type SelectionDocument struct {
	SelectedUnits []SelectedUnit `json:"selected_units"`
}
