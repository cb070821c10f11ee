package models

// CourseCategory classifies a course within a study plan.
type CourseCategory string

const (
	CategoryCompulsory CourseCategory = "compulsory"
	CategoryElective   CourseCategory = "elective"
)

// StudyPlanCourse is one entry of a plan's course list.
type StudyPlanCourse struct {
	Ident    string         `db:"ident" json:"ident"`
	Category CourseCategory `db:"category" json:"category"`
	Position int            `db:"position" json:"position"`
}

// StudyPlan is the plan consumed by the schedule generator. Course order is
// significant: compulsory courses are scheduled in plan order.
type StudyPlan struct {
	ID      string            `db:"id" json:"study_plan_id"`
	Name    string            `db:"name" json:"name"`
	Courses []StudyPlanCourse `json:"courses"`
}

// Compulsory returns the idents of compulsory courses in plan order.
func (p StudyPlan) Compulsory() []string {
	return p.identsByCategory(CategoryCompulsory)
}

// Electives returns the idents of elective courses in plan order.
func (p StudyPlan) Electives() []string {
	return p.identsByCategory(CategoryElective)
}

func (p StudyPlan) identsByCategory(cat CourseCategory) []string {
	var idents []string
	for _, course := range p.Courses {
		if course.Category == cat {
			idents = append(idents, course.Ident)
		}
	}
	return idents
}
