package dto

import "github.com/H7KZ/Kreditozrouti-sub000/internal/models"

// SearchCoursesRequest carries catalog filters posted as JSON. Time windows
// reuse the TimeSelection shape of the timetable engine so that server-side
// exclusion and client-side highlighting cannot drift apart.
type SearchCoursesRequest struct {
	Idents       []string               `json:"idents"`
	Search       string                 `json:"search"`
	Semester     string                 `json:"semester"`
	Year         int                    `json:"year"`
	Faculty      string                 `json:"faculty"`
	Lecturer     string                 `json:"lecturer"`
	Days         []string               `json:"days" validate:"omitempty,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	EctsMin      int                    `json:"ectsMin" validate:"omitempty,min=0"`
	EctsMax      int                    `json:"ectsMax" validate:"omitempty,min=0"`
	StudyPlanID  string                 `json:"studyPlanId"`
	IncludeTimes []models.TimeSelection `json:"includeTimes"`
	ExcludeTimes []models.TimeSelection `json:"excludeTimes"`
	Page         int                    `json:"page" validate:"omitempty,min=1"`
	PageSize     int                    `json:"pageSize" validate:"omitempty,min=1"`
	SortBy       string                 `json:"sort"`
	SortOrder    string                 `json:"order"`
}

// ToFilter converts the request into the repository filter.
func (r SearchCoursesRequest) ToFilter() models.CourseFilter {
	return models.CourseFilter{
		Idents:       r.Idents,
		Search:       r.Search,
		Semester:     r.Semester,
		Year:         r.Year,
		Faculty:      r.Faculty,
		Lecturer:     r.Lecturer,
		Days:         r.Days,
		EctsMin:      r.EctsMin,
		EctsMax:      r.EctsMax,
		StudyPlanID:  r.StudyPlanID,
		IncludeTimes: r.IncludeTimes,
		ExcludeTimes: r.ExcludeTimes,
		Page:         r.Page,
		PageSize:     r.PageSize,
		SortBy:       r.SortBy,
		SortOrder:    r.SortOrder,
	}
}
