package models

// Unit is a teaching group of a course (one lecture section, one exercise
// group, ...) holding one or more time slots.
type Unit struct {
	ID       string     `db:"id" json:"id"`
	CourseID string     `db:"course_id" json:"course_id"`
	Type     string     `db:"type" json:"type"`
	Lecturer string     `db:"lecturer" json:"lecturer"`
	Capacity int        `db:"capacity" json:"capacity"`
	Slots    []TimeSlot `json:"slots"`
}

// Course is a catalog entry.
type Course struct {
	ID       string `db:"id" json:"id"`
	Ident    string `db:"ident" json:"ident"`
	Title    string `db:"title" json:"title"`
	Ects     int    `db:"ects" json:"ects"`
	Faculty  string `db:"faculty" json:"faculty"`
	Semester string `db:"semester" json:"semester"`
	Year     int    `db:"year" json:"year"`
	Units    []Unit `json:"units"`
}

// UnitTypes returns the distinct unit types of the course in order of first
// appearance. A course is complete only when every type has a selection.
func (c Course) UnitTypes() []string {
	seen := make(map[string]bool, len(c.Units))
	var types []string
	for _, unit := range c.Units {
		if unit.Type == "" || seen[unit.Type] {
			continue
		}
		seen[unit.Type] = true
		types = append(types, unit.Type)
	}
	return types
}

// UnitByID looks up a unit of the course.
func (c Course) UnitByID(unitID string) *Unit {
	for i := range c.Units {
		if c.Units[i].ID == unitID {
			return &c.Units[i]
		}
	}
	return nil
}

// CourseFilter describes catalog search parameters.
type CourseFilter struct {
	Idents       []string
	Search       string
	Semester     string
	Year         int
	Faculty      string
	Lecturer     string
	Days         []string
	EctsMin      int
	EctsMax      int
	StudyPlanID  string
	IncludeTimes []TimeSelection
	ExcludeTimes []TimeSelection
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// FacetCount is one aggregate bucket over a catalog field.
type FacetCount struct {
	Value string `db:"value" json:"value"`
	Count int    `db:"count" json:"count"`
}

// CourseFacets groups the facet buckets driving the filter UI.
type CourseFacets struct {
	Faculties []FacetCount `json:"faculties"`
	Days      []FacetCount `json:"days"`
	Ects      []FacetCount `json:"ects"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
