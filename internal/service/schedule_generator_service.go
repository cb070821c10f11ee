package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/dto"
	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
	appErrors "github.com/H7KZ/Kreditozrouti-sub000/pkg/errors"
)

const (
	scoreBase             = 100
	scorePreferredDay     = 20
	scoreWrongDay         = -10
	scorePreferredTime    = 10
	scoreOutsideTime      = -20
	scoreCapacityBonusCap = 20

	noSlotsWarning = "No timetable slots available for this course"
)

type catalogResolver interface {
	FindByIdents(ctx context.Context, idents []string, semester string, year int) ([]models.Course, error)
}

type studyPlanReader interface {
	GetPlan(ctx context.Context, id string) (*models.StudyPlan, error)
}

// ScheduleGeneratorService builds a non-conflicting timetable for a study
// plan with a greedy heuristic. Infeasibility is reported through the result,
// never as an error.
type ScheduleGeneratorService struct {
	catalog        catalogResolver
	plans          studyPlanReader
	validator      *validator.Validate
	logger         *zap.Logger
	defaultMaxEcts int
}

// NewScheduleGeneratorService wires generator dependencies.
func NewScheduleGeneratorService(catalog catalogResolver, plans studyPlanReader, validate *validator.Validate, logger *zap.Logger, defaultMaxEcts int) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultMaxEcts <= 0 {
		defaultMaxEcts = 30
	}
	return &ScheduleGeneratorService{
		catalog:        catalog,
		plans:          plans,
		validator:      validate,
		logger:         logger,
		defaultMaxEcts: defaultMaxEcts,
	}
}

// Generate runs the greedy scheduling pass over the plan's compulsory courses
// in plan order, then electives while the ECTS budget allows.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*models.ScheduleResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}

	plan, err := s.plans.GetPlan(ctx, req.StudyPlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "study plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load study plan")
	}

	compulsory := plan.Compulsory()
	electives := plan.Electives()

	idents := append(append([]string{}, compulsory...), electives...)
	courses, err := s.catalog.FindByIdents(ctx, idents, req.Semester, req.Year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve plan courses")
	}
	byIdent := make(map[string]models.Course, len(courses))
	for _, course := range courses {
		byIdent[course.Ident] = course
	}

	opts := req.Options
	maxEcts := opts.MaxEcts
	if maxEcts <= 0 {
		maxEcts = s.defaultMaxEcts
	}

	state := newGeneratorState()
	result := &models.ScheduleResult{
		Slots:     []models.SelectedUnit{},
		Conflicts: []models.ScheduleConflict{},
		Warnings:  []string{},
		Coverage:  models.ScheduleCoverage{MissingCompulsory: []string{}},
	}

	for _, ident := range compulsory {
		course, ok := byIdent[ident]
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Course %s not found in catalog", ident))
			result.Coverage.MissingCompulsory = append(result.Coverage.MissingCompulsory, ident)
			continue
		}
		s.scheduleCourse(course, opts, state, result, true)
	}

	if opts.IncludeElectives {
		electiveSet := make(map[string]bool, len(electives))
		for _, ident := range electives {
			electiveSet[ident] = true
		}
		// electives are processed in catalog order
		for _, course := range courses {
			if !electiveSet[course.Ident] || state.scheduled[course.ID] {
				continue
			}
			if state.totalEcts+course.Ects > maxEcts {
				continue
			}
			if s.scheduleCourse(course, opts, state, result, false) {
				result.Coverage.ElectiveCount++
			}
		}
	}

	result.TotalEcts = state.totalEcts
	result.TotalHours = math.Round(float64(state.totalMinutes)/60*10) / 10
	result.Coverage.CompulsoryFulfilled = len(result.Coverage.MissingCompulsory) == 0 && len(result.Conflicts) == 0

	s.logger.Debug("schedule generated",
		zap.String("study_plan_id", req.StudyPlanID),
		zap.Int("slots", len(result.Slots)),
		zap.Int("total_ects", result.TotalEcts),
		zap.Int("missing_compulsory", len(result.Coverage.MissingCompulsory)),
	)
	return result, nil
}

// scheduleCourse scores every non-conflicting slot of the course and enrolls
// the unit owning the best one. The winning unit contributes all of its
// slots: a teaching group is joined whole, not slot by slot.
func (s *ScheduleGeneratorService) scheduleCourse(course models.Course, opts dto.GenerateOptions, state *generatorState, result *models.ScheduleResult, compulsory bool) bool {
	var (
		bestUnit  *models.Unit
		bestScore int
		found     bool
		slotCount int
	)

	for ui := range course.Units {
		unit := &course.Units[ui]
		for _, slot := range unit.Slots {
			slotCount++
			if state.conflictsWith(slot) {
				continue
			}
			score := scoreSlot(slot, unit.Capacity, opts)
			// strict comparison keeps the first candidate on ties
			if !found || score > bestScore {
				bestUnit = unit
				bestScore = score
				found = true
			}
		}
	}

	if slotCount == 0 {
		result.Warnings = append(result.Warnings, noSlotsWarning)
		if compulsory {
			result.Coverage.MissingCompulsory = append(result.Coverage.MissingCompulsory, course.Ident)
		}
		return false
	}
	if !found {
		result.Conflicts = append(result.Conflicts, models.ScheduleConflict{
			CourseIdent: course.Ident,
			Message:     fmt.Sprintf("all slots of %s conflict with the schedule", course.Ident),
		})
		result.Warnings = append(result.Warnings, fmt.Sprintf("Unable to schedule %s without conflicts", course.Ident))
		if compulsory {
			result.Coverage.MissingCompulsory = append(result.Coverage.MissingCompulsory, course.Ident)
		}
		return false
	}

	for _, slot := range bestUnit.Slots {
		entry := models.SelectedUnit{
			CourseID:    course.ID,
			CourseIdent: course.Ident,
			UnitID:      bestUnit.ID,
			UnitType:    bestUnit.Type,
			SlotID:      slot.ID,
			Day:         slot.Day,
			Date:        slot.Date,
			TimeFrom:    slot.TimeFrom,
			TimeTo:      slot.TimeTo,
			Ects:        course.Ects,
			Location:    slot.Location,
		}
		state.accept(entry)
		result.Slots = append(result.Slots, entry)
	}
	state.countCourse(course)
	return true
}

// scoreSlot ranks a candidate against the user's preferences.
func scoreSlot(slot models.TimeSlot, capacity int, opts dto.GenerateOptions) int {
	score := scoreBase

	if len(opts.PreferredDays) > 0 {
		preferred := false
		day := slot.EffectiveDay()
		for _, d := range opts.PreferredDays {
			if d == day {
				preferred = true
				break
			}
		}
		if preferred {
			score += scorePreferredDay
		} else {
			score += scoreWrongDay
		}
	}

	if opts.PreferredTimeFrom != nil {
		if slot.TimeFrom >= *opts.PreferredTimeFrom {
			score += scorePreferredTime
		} else {
			score += scoreOutsideTime
		}
	}
	if opts.PreferredTimeTo != nil {
		if slot.TimeTo <= *opts.PreferredTimeTo {
			score += scorePreferredTime
		} else {
			score += scoreOutsideTime
		}
	}

	bonus := capacity / 10
	if bonus > scoreCapacityBonusCap {
		bonus = scoreCapacityBonusCap
	}
	return score + bonus
}

// generatorState accumulates accepted slots and running totals.
type generatorState struct {
	accepted     []models.SelectedUnit
	scheduled    map[string]bool
	totalEcts    int
	totalMinutes int
}

func newGeneratorState() *generatorState {
	return &generatorState{scheduled: make(map[string]bool)}
}

func (g *generatorState) conflictsWith(slot models.TimeSlot) bool {
	for _, sel := range g.accepted {
		if models.Collides(slot.SlotTime(), sel.SlotTime()) {
			return true
		}
	}
	return false
}

func (g *generatorState) accept(entry models.SelectedUnit) {
	g.accepted = append(g.accepted, entry)
	g.totalMinutes += entry.Duration()
}

// countCourse adds the course's ECTS exactly once no matter how many slots it
// contributed.
func (g *generatorState) countCourse(course models.Course) {
	if g.scheduled[course.ID] {
		return
	}
	g.scheduled[course.ID] = true
	g.totalEcts += course.Ects
}
