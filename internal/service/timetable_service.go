package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
	appErrors "github.com/H7KZ/Kreditozrouti-sub000/pkg/errors"
	"github.com/H7KZ/Kreditozrouti-sub000/pkg/jobs"
)

// SelectionStore persists the timetable as a single document.
type SelectionStore interface {
	Save(ctx context.Context, doc models.SelectionDocument) error
	Load(ctx context.Context) (*models.SelectionDocument, error)
}

// TimetableService owns the selection state: the single source of truth for
// the rendered grid. All mutations run under one mutex so compound operations
// like ChangeUnit execute as one critical section. Statuses and conflicts are
// derived on demand and memoized against a version counter that increases on
// every mutation.
type TimetableService struct {
	mu       sync.Mutex
	selected []models.SelectedUnit
	version  uint64

	// course metadata needed for the completeness check, keyed by course ID
	requiredTypes map[string][]string

	statusVersion uint64
	statusCache   map[string]models.CourseStatus

	store  SelectionStore
	saves  *jobs.Queue
	logger *zap.Logger
}

// NewTimetableService builds the timetable engine. The store may be nil, in
// which case the selection lives only in memory.
func NewTimetableService(store SelectionStore, saves *jobs.Queue, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		requiredTypes: make(map[string][]string),
		store:         store,
		saves:         saves,
		logger:        logger,
	}
}

// Restore loads the persisted selection, typically once at startup.
func (s *TimetableService) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load selection")
	}
	if doc == nil {
		return nil
	}
	s.mu.Lock()
	s.selected = append(s.selected[:0], doc.SelectedUnits...)
	s.version++
	s.mu.Unlock()
	return nil
}

// CanAdd validates an addition without mutating. Selecting a slot twice is the
// only hard failure; conflicts with other courses are allowed and surfaced as
// status, not errors.
func (s *TimetableService) CanAdd(course models.Course, unit models.Unit, slot models.TimeSlot) *appErrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canAddLocked(slot.ID)
}

func (s *TimetableService) canAddLocked(slotID string) *appErrors.Error {
	for _, sel := range s.selected {
		if sel.SlotID == slotID {
			return appErrors.Clone(appErrors.ErrDuplicateSlot, "")
		}
	}
	return nil
}

// AddUnit inserts a selection for the given slot. It returns false and leaves
// the state untouched when validation fails; on success the new state is
// persisted asynchronously.
func (s *TimetableService) AddUnit(course models.Course, unit models.Unit, slot models.TimeSlot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.addUnitLocked(course, unit, slot) {
		return false
	}
	s.persistLocked()
	return true
}

func (s *TimetableService) addUnitLocked(course models.Course, unit models.Unit, slot models.TimeSlot) bool {
	if err := s.canAddLocked(slot.ID); err != nil {
		return false
	}
	s.selected = append(s.selected, models.SelectedUnit{
		CourseID:    course.ID,
		CourseIdent: course.Ident,
		UnitID:      unit.ID,
		UnitType:    unit.Type,
		SlotID:      slot.ID,
		Day:         slot.Day,
		Date:        slot.Date,
		TimeFrom:    slot.TimeFrom,
		TimeTo:      slot.TimeTo,
		Ects:        course.Ects,
		Location:    slot.Location,
	})
	s.requiredTypes[course.ID] = course.UnitTypes()
	s.version++
	return true
}

// RemoveUnit drops every selection of the unit. Idempotent.
func (s *TimetableService) RemoveUnit(unitID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(func(sel models.SelectedUnit) bool { return sel.UnitID == unitID })
	s.persistLocked()
}

// RemoveCourse drops every selection of the course. Idempotent.
func (s *TimetableService) RemoveCourse(courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(func(sel models.SelectedUnit) bool { return sel.CourseID == courseID })
	delete(s.requiredTypes, courseID)
	s.persistLocked()
}

// ClearAll empties the timetable.
func (s *TimetableService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	s.requiredTypes = make(map[string][]string)
	s.version++
	s.persistLocked()
}

func (s *TimetableService) removeLocked(match func(models.SelectedUnit) bool) {
	kept := s.selected[:0]
	removed := false
	for _, sel := range s.selected {
		if match(sel) {
			removed = true
			continue
		}
		kept = append(kept, sel)
	}
	s.selected = kept
	if removed {
		s.version++
	}
}

// ChangeUnit atomically swaps the selection holding oldSlotID for the new
// unit/slot. When the add fails the old entry is restored at its original
// position, so a unit type can never silently disappear from the timetable.
func (s *TimetableService) ChangeUnit(course models.Course, oldSlotID string, newUnit models.Unit, newSlot models.TimeSlot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldIndex := -1
	var oldEntry models.SelectedUnit
	for i, sel := range s.selected {
		if sel.SlotID == oldSlotID {
			oldIndex = i
			oldEntry = sel
			break
		}
	}
	if oldIndex >= 0 {
		s.selected = append(s.selected[:oldIndex], s.selected[oldIndex+1:]...)
	}

	if !s.addUnitLocked(course, newUnit, newSlot) {
		if oldIndex >= 0 {
			s.selected = append(s.selected, models.SelectedUnit{})
			copy(s.selected[oldIndex+1:], s.selected[oldIndex:])
			s.selected[oldIndex] = oldEntry
		}
		return false
	}
	s.persistLocked()
	return true
}

// SelectedUnits returns a copy of the current selection.
func (s *TimetableService) SelectedUnits() []models.SelectedUnit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SelectedUnit, len(s.selected))
	copy(out, s.selected)
	return out
}

// Version returns the mutation counter.
func (s *TimetableService) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Conflicts returns the current conflict pairs.
func (s *TimetableService) Conflicts() []ConflictPair {
	return DetectConflicts(s.SelectedUnits())
}

// CourseStatuses derives the per-course status map. Conflict beats incomplete;
// a course is incomplete when the full course offers unit types the selection
// does not yet cover. The result is memoized against the version counter.
func (s *TimetableService) CourseStatuses() map[string]models.CourseStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statusCache != nil && s.statusVersion == s.version {
		return s.statusCache
	}

	conflicts := ConflictIdentMap(s.selected)

	selectedTypes := make(map[string]map[string]bool)
	for _, sel := range s.selected {
		if selectedTypes[sel.CourseID] == nil {
			selectedTypes[sel.CourseID] = make(map[string]bool)
		}
		selectedTypes[sel.CourseID][sel.UnitType] = true
	}

	statuses := make(map[string]models.CourseStatus, len(selectedTypes))
	for courseID, types := range selectedTypes {
		status := models.CourseStatus{CourseID: courseID, Status: models.CourseStatusSelected}

		if set := conflicts[courseID]; len(set) > 0 {
			status.Status = models.CourseStatusConflict
			status.ConflictsWith = sortedIdents(set)
		} else if missing := missingTypes(s.requiredTypes[courseID], types); len(missing) > 0 {
			status.Status = models.CourseStatusIncomplete
			status.MissingTypes = missing
		}
		statuses[courseID] = status
	}

	s.statusCache = statuses
	s.statusVersion = s.version
	return statuses
}

func missingTypes(required []string, selected map[string]bool) []string {
	if len(selected) == 0 {
		return nil
	}
	var missing []string
	for _, t := range required {
		if !selected[t] {
			missing = append(missing, t)
		}
	}
	return missing
}

// NormalizeDrag turns a raw pointer drag into a time selection; start and end
// may arrive in either order.
func (s *TimetableService) NormalizeDrag(day string, start, end int) models.TimeSelection {
	if start > end {
		start, end = end, start
	}
	return models.TimeSelection{Day: day, TimeFrom: start, TimeTo: end}
}

// Exclusions renders the current selection as exclusion filters for the
// catalog search. Each carries its slot ID so the slot does not suppress the
// course it belongs to.
func (s *TimetableService) Exclusions() []models.TimeSelection {
	units := s.SelectedUnits()
	exclusions := make([]models.TimeSelection, 0, len(units))
	for _, sel := range units {
		exclusions = append(exclusions, models.TimeSelection{
			Day:      sel.Day,
			Date:     sel.Date,
			TimeFrom: sel.TimeFrom,
			TimeTo:   sel.TimeTo,
			SlotID:   sel.SlotID,
		})
	}
	return exclusions
}

// persistLocked snapshots the selection and hands it to the save queue. The
// mutation result never depends on the save outcome.
func (s *TimetableService) persistLocked() {
	if s.store == nil {
		return
	}
	doc := models.SelectionDocument{SelectedUnits: make([]models.SelectedUnit, len(s.selected))}
	copy(doc.SelectedUnits, s.selected)

	if s.saves != nil {
		if err := s.saves.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "selection_save", Payload: doc}); err != nil {
			s.logger.Warn("failed to enqueue selection save", zap.Error(err))
		}
		return
	}

	go func() {
		if err := s.store.Save(context.Background(), doc); err != nil {
			s.logger.Warn("failed to persist selection", zap.Error(err))
		}
	}()
}

// SaveJobHandler adapts the selection store into a job queue handler.
func SaveJobHandler(store SelectionStore, logger *zap.Logger) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		doc, ok := job.Payload.(models.SelectionDocument)
		if !ok {
			logger.Warn("selection save job carried unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		return store.Save(ctx, doc)
	}
}

// SortStatuses flattens the status map into a stable slice for responses.
func SortStatuses(statuses map[string]models.CourseStatus) []models.CourseStatus {
	out := make([]models.CourseStatus, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out
}
