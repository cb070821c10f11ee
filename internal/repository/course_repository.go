package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
	"github.com/H7KZ/Kreditozrouti-sub000/internal/service"
)

const courseColumns = "c.id, c.ident, c.title, c.ects, c.faculty, c.semester, c.year"

const slotColumns = "ts.id, ts.unit_id, ts.type, ts.frequency, COALESCE(ts.day, '') AS day, COALESCE(ts.date, '') AS date, ts.time_from, ts.time_to, COALESCE(ts.location, '') AS location"

// CourseRepository provides catalog persistence. Time-window filtering is
// compiled by the FilterTranslator so it stays bit-for-bit equal to the
// in-memory predicate.
type CourseRepository struct {
	db         *sqlx.DB
	translator *service.FilterTranslator
}

// NewCourseRepository creates a catalog repository.
func NewCourseRepository(db *sqlx.DB, translator *service.FilterTranslator) *CourseRepository {
	if translator == nil {
		translator = service.NewFilterTranslator()
	}
	return &CourseRepository{db: db, translator: translator}
}

// Search returns a page of catalog courses with nested units and slots.
func (r *CourseRepository) Search(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	base := "FROM courses c WHERE 1=1"
	var conditions []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Idents) > 0 {
		conditions = append(conditions, fmt.Sprintf("c.ident = ANY(%s)", arg(pq.Array(filter.Idents))))
	}
	if filter.Search != "" {
		ph := arg("%" + filter.Search + "%")
		conditions = append(conditions, fmt.Sprintf("(c.ident ILIKE %s OR c.title ILIKE %s)", ph, ph))
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("c.semester = %s", arg(filter.Semester)))
	}
	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("c.year = %s", arg(filter.Year)))
	}
	if filter.Faculty != "" {
		conditions = append(conditions, fmt.Sprintf("c.faculty = %s", arg(filter.Faculty)))
	}
	if filter.Lecturer != "" {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM units u WHERE u.course_id = c.id AND u.lecturer ILIKE %s)", arg("%"+filter.Lecturer+"%")))
	}
	if len(filter.Days) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM units u JOIN time_slots ts ON ts.unit_id = u.id WHERE u.course_id = c.id AND ts.effective_day = ANY(%s))", arg(pq.Array(filter.Days))))
	}
	if filter.EctsMin > 0 {
		conditions = append(conditions, fmt.Sprintf("c.ects >= %s", arg(filter.EctsMin)))
	}
	if filter.EctsMax > 0 {
		conditions = append(conditions, fmt.Sprintf("c.ects <= %s", arg(filter.EctsMax)))
	}
	if filter.StudyPlanID != "" {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM study_plan_courses spc WHERE spc.ident = c.ident AND spc.study_plan_id = %s)", arg(filter.StudyPlanID)))
	}

	if include := r.translator.CompileInclusions(filter.IncludeTimes, len(args)+1); !include.Empty() {
		conditions = append(conditions, include.Clause)
		args = append(args, include.Args...)
	}
	if exclude := r.translator.CompileExclusions(filter.ExcludeTimes, len(args)+1); !exclude.Empty() {
		conditions = append(conditions, exclude.Clause)
		args = append(args, exclude.Args...)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"ident": true, "title": true, "ects": true}
	if !allowedSorts[sortBy] {
		sortBy = "ident"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY c.%s %s LIMIT %d OFFSET %d", courseColumns, base, sortBy, order, size, offset)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	if err := r.attachUnits(ctx, courses); err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// FindByIdents resolves full courses for the generator, in catalog order.
func (r *CourseRepository) FindByIdents(ctx context.Context, idents []string, semester string, year int) ([]models.Course, error) {
	if len(idents) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM courses c WHERE c.ident = ANY($1)", courseColumns)
	args := []interface{}{pq.Array(idents)}
	if semester != "" {
		args = append(args, semester)
		query += fmt.Sprintf(" AND c.semester = $%d", len(args))
	}
	if year != 0 {
		args = append(args, year)
		query += fmt.Sprintf(" AND c.year = $%d", len(args))
	}
	query += " ORDER BY c.ident ASC"

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("find courses by idents: %w", err)
	}
	if err := r.attachUnits(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// FindByID loads one course with its units and slots.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses c WHERE c.id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	courses := []models.Course{course}
	if err := r.attachUnits(ctx, courses); err != nil {
		return nil, err
	}
	return &courses[0], nil
}

// Facets aggregates filter-driving counts scoped to a semester.
func (r *CourseRepository) Facets(ctx context.Context, semester string, year int) (*models.CourseFacets, error) {
	scope := "WHERE 1=1"
	var args []interface{}
	if semester != "" {
		args = append(args, semester)
		scope += fmt.Sprintf(" AND c.semester = $%d", len(args))
	}
	if year != 0 {
		args = append(args, year)
		scope += fmt.Sprintf(" AND c.year = $%d", len(args))
	}

	facets := &models.CourseFacets{}

	facultyQuery := "SELECT c.faculty AS value, COUNT(*) AS count FROM courses c " + scope + " GROUP BY c.faculty ORDER BY count DESC, value ASC"
	if err := r.db.SelectContext(ctx, &facets.Faculties, facultyQuery, args...); err != nil {
		return nil, fmt.Errorf("faculty facets: %w", err)
	}

	dayQuery := "SELECT ts.effective_day AS value, COUNT(DISTINCT c.id) AS count FROM courses c" +
		" JOIN units u ON u.course_id = c.id JOIN time_slots ts ON ts.unit_id = u.id " +
		scope + " GROUP BY ts.effective_day ORDER BY count DESC, value ASC"
	if err := r.db.SelectContext(ctx, &facets.Days, dayQuery, args...); err != nil {
		return nil, fmt.Errorf("day facets: %w", err)
	}

	ectsQuery := "SELECT c.ects::text AS value, COUNT(*) AS count FROM courses c " + scope + " GROUP BY c.ects ORDER BY c.ects ASC"
	if err := r.db.SelectContext(ctx, &facets.Ects, ectsQuery, args...); err != nil {
		return nil, fmt.Errorf("ects facets: %w", err)
	}

	return facets, nil
}

// attachUnits loads units and slots for the given courses and nests them.
func (r *CourseRepository) attachUnits(ctx context.Context, courses []models.Course) error {
	if len(courses) == 0 {
		return nil
	}
	ids := make([]string, len(courses))
	for i, course := range courses {
		ids[i] = course.ID
	}

	var units []models.Unit
	unitQuery := "SELECT u.id, u.course_id, u.type, u.lecturer, u.capacity FROM units u WHERE u.course_id = ANY($1) ORDER BY u.course_id, u.type, u.id"
	if err := r.db.SelectContext(ctx, &units, unitQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("load units: %w", err)
	}

	unitIDs := make([]string, len(units))
	for i, unit := range units {
		unitIDs[i] = unit.ID
	}

	slotsByUnit := make(map[string][]models.TimeSlot)
	if len(unitIDs) > 0 {
		var slots []models.TimeSlot
		slotQuery := fmt.Sprintf("SELECT %s FROM time_slots ts WHERE ts.unit_id = ANY($1) ORDER BY ts.unit_id, ts.time_from, ts.id", slotColumns)
		if err := r.db.SelectContext(ctx, &slots, slotQuery, pq.Array(unitIDs)); err != nil {
			return fmt.Errorf("load time slots: %w", err)
		}
		for _, slot := range slots {
			slotsByUnit[slot.UnitID] = append(slotsByUnit[slot.UnitID], slot)
		}
	}

	unitsByCourse := make(map[string][]models.Unit)
	for _, unit := range units {
		unit.Slots = slotsByUnit[unit.ID]
		unitsByCourse[unit.CourseID] = append(unitsByCourse[unit.CourseID], unit)
	}
	for i := range courses {
		courses[i].Units = unitsByCourse[courses[i].ID]
	}
	return nil
}
