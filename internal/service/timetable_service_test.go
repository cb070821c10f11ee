package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
)

type stubSelectionStore struct {
	mu    sync.Mutex
	saved []models.SelectionDocument
	doc   *models.SelectionDocument
	ch    chan models.SelectionDocument
}

func newStubSelectionStore() *stubSelectionStore {
	return &stubSelectionStore{ch: make(chan models.SelectionDocument, 16)}
}

func (s *stubSelectionStore) Save(_ context.Context, doc models.SelectionDocument) error {
	s.mu.Lock()
	s.saved = append(s.saved, doc)
	s.mu.Unlock()
	s.ch <- doc
	return nil
}

func (s *stubSelectionStore) Load(_ context.Context) (*models.SelectionDocument, error) {
	return s.doc, nil
}

func fixtureCourse() (models.Course, models.Unit, models.TimeSlot) {
	slot := models.TimeSlot{ID: "s1", UnitID: "u1", Day: "MONDAY", TimeFrom: 540, TimeTo: 630, Location: "NB 471"}
	unit := models.Unit{ID: "u1", CourseID: "c1", Type: "lecture", Capacity: 30, Slots: []models.TimeSlot{slot}}
	course := models.Course{ID: "c1", Ident: "4IT101", Title: "Programming", Ects: 6, Units: []models.Unit{unit}}
	return course, unit, slot
}

func secondCourse() (models.Course, models.Unit, models.TimeSlot) {
	slot := models.TimeSlot{ID: "s2", UnitID: "u2", Day: "MONDAY", TimeFrom: 600, TimeTo: 690}
	unit := models.Unit{ID: "u2", CourseID: "c2", Type: "lecture", Capacity: 20, Slots: []models.TimeSlot{slot}}
	course := models.Course{ID: "c2", Ident: "4IT102", Title: "Databases", Ects: 5, Units: []models.Unit{unit}}
	return course, unit, slot
}

func TestTimetableServiceAddUnit(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil)
	course, unit, slot := fixtureCourse()

	require.True(t, svc.AddUnit(course, unit, slot))
	selected := svc.SelectedUnits()
	require.Len(t, selected, 1)
	assert.Equal(t, "s1", selected[0].SlotID)
	assert.Equal(t, "4IT101", selected[0].CourseIdent)
	assert.Equal(t, 6, selected[0].Ects)
}

func TestTimetableServiceDuplicateSlotRejected(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil)
	course, unit, slot := fixtureCourse()

	require.True(t, svc.AddUnit(course, unit, slot))
	assert.False(t, svc.AddUnit(course, unit, slot))
	assert.Len(t, svc.SelectedUnits(), 1)

	err := svc.CanAdd(course, unit, slot)
	require.NotNil(t, err)
	assert.Equal(t, "DUPLICATE_SLOT", err.Code)
}

func TestTimetableServiceConflictIsNotAnError(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil)
	c1, u1, s1 := fixtureCourse()
	c2, u2, s2 := secondCourse()

	require.True(t, svc.AddUnit(c1, u1, s1))
	require.True(t, svc.AddUnit(c2, u2, s2))

	require.Len(t, svc.Conflicts(), 1)
	statuses := svc.CourseStatuses()
	assert.Equal(t, models.CourseStatusConflict, statuses["c1"].Status)
	assert.Equal(t, models.CourseStatusConflict, statuses["c2"].Status)
	assert.Contains(t, statuses["c1"].ConflictsWith, "4IT102")
}

func TestTimetableServiceRemoveIdempotent(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil)
	course, unit, slot := fixtureCourse()
	require.True(t, svc.AddUnit(course, unit, slot))

	svc.RemoveUnit("u1")
	assert.Empty(t, svc.SelectedUnits())
	svc.RemoveUnit("u1")
	assert.Empty(t, svc.SelectedUnits())

	svc.RemoveCourse("c1")
	assert.Empty(t, svc.SelectedUnits())
}

func TestTimetableServiceChangeUnit(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil)
	course, unit, slot := fixtureCourse()
	require.True(t, svc.AddUnit(course, unit, slot))

	newSlot := models.TimeSlot{ID: "s1b", UnitID: "u1b", Day: "TUESDAY", TimeFrom: 540, TimeTo: 630}
	newUnit := models.Unit{ID: "u1b", CourseID: "c1", Type: "lecture", Slots: []models.TimeSlot{newSlot}}

	require.True(t, svc.ChangeUnit(course, "s1", newUnit, newSlot))
	selected := svc.SelectedUnits()
	require.Len(t, selected, 1)
	assert.Equal(t, "s1b", selected[0].SlotID)
}

func TestTimetableServiceChangeUnitRollback(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil)
	c1, u1, s1 := fixtureCourse()
	c2, u2, s2 := secondCourse()
	require.True(t, svc.AddUnit(c1, u1, s1))
	require.True(t, svc.AddUnit(c2, u2, s2))

	// swapping s1 for the already-selected s2 must fail and restore s1
	assert.False(t, svc.ChangeUnit(c1, "s1", u2, s2))

	selected := svc.SelectedUnits()
	require.Len(t, selected, 2)
	assert.Equal(t, "s1", selected[0].SlotID, "old entry restored at its original position")
	assert.Equal(t, "s2", selected[1].SlotID)
}

func TestTimetableServiceCourseStatusIncomplete(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil)

	lecture := models.TimeSlot{ID: "s1", UnitID: "u1", Day: "MONDAY", TimeFrom: 540, TimeTo: 630}
	exercise := models.TimeSlot{ID: "s2", UnitID: "u2", Day: "TUESDAY", TimeFrom: 540, TimeTo: 630}
	course := models.Course{ID: "c1", Ident: "4IT101", Ects: 6, Units: []models.Unit{
		{ID: "u1", CourseID: "c1", Type: "lecture", Slots: []models.TimeSlot{lecture}},
		{ID: "u2", CourseID: "c1", Type: "exercise", Slots: []models.TimeSlot{exercise}},
	}}

	require.True(t, svc.AddUnit(course, course.Units[0], lecture))

	statuses := svc.CourseStatuses()
	require.Contains(t, statuses, "c1")
	assert.Equal(t, models.CourseStatusIncomplete, statuses["c1"].Status)
	assert.Equal(t, []string{"exercise"}, statuses["c1"].MissingTypes)

	require.True(t, svc.AddUnit(course, course.Units[1], exercise))
	statuses = svc.CourseStatuses()
	assert.Equal(t, models.CourseStatusSelected, statuses["c1"].Status)
}

func TestTimetableServiceConflictBeatsIncomplete(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil)

	lecture := models.TimeSlot{ID: "s1", UnitID: "u1", Day: "MONDAY", TimeFrom: 540, TimeTo: 630}
	exercise := models.TimeSlot{ID: "s2", UnitID: "u2", Day: "TUESDAY", TimeFrom: 540, TimeTo: 630}
	course := models.Course{ID: "c1", Ident: "4IT101", Ects: 6, Units: []models.Unit{
		{ID: "u1", CourseID: "c1", Type: "lecture", Slots: []models.TimeSlot{lecture}},
		{ID: "u2", CourseID: "c1", Type: "exercise", Slots: []models.TimeSlot{exercise}},
	}}
	c2, u2, s2 := secondCourse()

	require.True(t, svc.AddUnit(course, course.Units[0], lecture))
	require.True(t, svc.AddUnit(c2, u2, s2))

	statuses := svc.CourseStatuses()
	assert.Equal(t, models.CourseStatusConflict, statuses["c1"].Status, "conflict wins over incomplete")
	assert.Empty(t, statuses["c1"].MissingTypes)
}

func TestTimetableServiceClearAll(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil)
	c1, u1, s1 := fixtureCourse()
	require.True(t, svc.AddUnit(c1, u1, s1))

	svc.ClearAll()
	assert.Empty(t, svc.SelectedUnits())
	assert.Empty(t, svc.CourseStatuses())
}

func TestTimetableServiceNormalizeDrag(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil)

	sel := svc.NormalizeDrag("WEDNESDAY", 690, 540)
	assert.Equal(t, "WEDNESDAY", sel.Day)
	assert.Equal(t, 540, sel.TimeFrom)
	assert.Equal(t, 690, sel.TimeTo)
}

func TestTimetableServiceExclusionsCarrySlotID(t *testing.T) {
	svc := NewTimetableService(nil, nil, nil)
	c1, u1, s1 := fixtureCourse()
	require.True(t, svc.AddUnit(c1, u1, s1))

	exclusions := svc.Exclusions()
	require.Len(t, exclusions, 1)
	assert.Equal(t, "s1", exclusions[0].SlotID)
	assert.Equal(t, "MONDAY", exclusions[0].Day)
	assert.Equal(t, 540, exclusions[0].TimeFrom)
}

func TestTimetableServiceRestore(t *testing.T) {
	store := newStubSelectionStore()
	store.doc = &models.SelectionDocument{SelectedUnits: []models.SelectedUnit{
		{CourseID: "c1", CourseIdent: "4IT101", UnitID: "u1", SlotID: "s1", Day: "MONDAY", TimeFrom: 540, TimeTo: 630},
	}}

	svc := NewTimetableService(store, nil, nil)
	require.NoError(t, svc.Restore(context.Background()))

	selected := svc.SelectedUnits()
	require.Len(t, selected, 1)
	assert.Equal(t, "s1", selected[0].SlotID)
}

func TestTimetableServicePersistsAsync(t *testing.T) {
	store := newStubSelectionStore()
	svc := NewTimetableService(store, nil, nil)
	c1, u1, s1 := fixtureCourse()

	require.True(t, svc.AddUnit(c1, u1, s1))

	select {
	case doc := <-store.ch:
		require.Len(t, doc.SelectedUnits, 1)
		assert.Equal(t, "s1", doc.SelectedUnits[0].SlotID)
	case <-time.After(2 * time.Second):
		t.Fatal("selection was not persisted")
	}
}

func TestSortStatusesStableOrder(t *testing.T) {
	statuses := map[string]models.CourseStatus{
		"c2": {CourseID: "c2", Status: models.CourseStatusSelected},
		"c1": {CourseID: "c1", Status: models.CourseStatusConflict},
	}
	out := SortStatuses(statuses)
	require.Len(t, out, 2)
	assert.Equal(t, "c1", out[0].CourseID)
	assert.Equal(t, "c2", out[1].CourseID)
}
