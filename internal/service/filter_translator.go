package service

import (
	"fmt"
	"strings"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
)

// FilterTranslator restates the timetable collision predicate as catalog
// filter conditions. Inclusion mode drives client-side highlighting over
// in-memory slots; exclusion mode compiles the identical predicate into a
// parameterized SQL fragment, so the grid and the catalog query cannot
// disagree about what collides.
type FilterTranslator struct{}

// NewFilterTranslator constructs the translator.
func NewFilterTranslator() *FilterTranslator {
	return &FilterTranslator{}
}

// SlotMatches is the inclusion predicate: the slot and the selection resolve
// to the same day (a dated selection also matches same-weekday weekly slots,
// while two differently-dated slots never match) and their times overlap.
// A selection carrying the slot's own ID never matches it.
func (t *FilterTranslator) SlotMatches(slot models.TimeSlot, sel models.TimeSelection) bool {
	if sel.SlotID != "" && sel.SlotID == slot.ID {
		return false
	}
	return models.Collides(slot.SlotTime(), models.SlotTime{
		Day:      sel.Day,
		Date:     sel.Date,
		TimeFrom: sel.TimeFrom,
		TimeTo:   sel.TimeTo,
	})
}

// SlotExcluded reports whether any exclusion matches the slot.
func (t *FilterTranslator) SlotExcluded(slot models.TimeSlot, exclusions []models.TimeSelection) bool {
	for _, excl := range exclusions {
		if t.SlotMatches(slot, excl) {
			return true
		}
	}
	return false
}

// CourseKept is the exclusion-mode decision: a course with no units is a
// catalog-only placeholder and always survives; otherwise at least one of its
// slots must escape every exclusion.
func (t *FilterTranslator) CourseKept(course models.Course, exclusions []models.TimeSelection) bool {
	if len(course.Units) == 0 {
		return true
	}
	if len(exclusions) == 0 {
		return true
	}
	for _, unit := range course.Units {
		for _, slot := range unit.Slots {
			if !t.SlotExcluded(slot, exclusions) {
				return true
			}
		}
	}
	return false
}

// CourseIncluded applies inclusion filters: with a non-empty include list a
// course survives when at least one of its slots matches some selection.
func (t *FilterTranslator) CourseIncluded(course models.Course, includes []models.TimeSelection) bool {
	if len(includes) == 0 {
		return true
	}
	for _, unit := range course.Units {
		for _, slot := range unit.Slots {
			for _, sel := range includes {
				if t.SlotMatches(slot, sel) {
					return true
				}
			}
		}
	}
	return false
}

// SQLPredicate is a compiled condition fragment with positional arguments.
type SQLPredicate struct {
	Clause string
	Args   []interface{}
}

// Empty reports whether the predicate carries no condition.
func (p SQLPredicate) Empty() bool {
	return p.Clause == ""
}

// CompileExclusions emits the SQL counterpart of CourseKept against the
// courses/units/time_slots schema (alias c for the course row). argIndex is
// the first free $n placeholder. The per-exclusion branches mirror
// SlotMatches clause by clause; the time_slots.effective_day column holds the
// ingest-derived weekday for dated rows.
func (t *FilterTranslator) CompileExclusions(exclusions []models.TimeSelection, argIndex int) SQLPredicate {
	if len(exclusions) == 0 {
		return SQLPredicate{}
	}

	var args []interface{}
	var negated []string
	for _, excl := range exclusions {
		match, matchArgs := t.compileMatch(excl, argIndex+len(args))
		args = append(args, matchArgs...)
		negated = append(negated, "NOT ("+match+")")
	}

	clause := "(NOT EXISTS (SELECT 1 FROM units u WHERE u.course_id = c.id)" +
		" OR EXISTS (SELECT 1 FROM units u JOIN time_slots ts ON ts.unit_id = u.id" +
		" WHERE u.course_id = c.id AND " + strings.Join(negated, " AND ") + "))"
	return SQLPredicate{Clause: clause, Args: args}
}

// CompileInclusions emits the SQL counterpart of CourseIncluded.
func (t *FilterTranslator) CompileInclusions(includes []models.TimeSelection, argIndex int) SQLPredicate {
	if len(includes) == 0 {
		return SQLPredicate{}
	}

	var args []interface{}
	var matches []string
	for _, sel := range includes {
		match, matchArgs := t.compileMatch(sel, argIndex+len(args))
		args = append(args, matchArgs...)
		matches = append(matches, "("+match+")")
	}

	clause := "EXISTS (SELECT 1 FROM units u JOIN time_slots ts ON ts.unit_id = u.id" +
		" WHERE u.course_id = c.id AND (" + strings.Join(matches, " OR ") + "))"
	return SQLPredicate{Clause: clause, Args: args}
}

// compileMatch renders one TimeSelection as a slot-row condition. Day-based
// selections compare against effective_day, which already folds dated slots
// onto their weekday. Date-based selections match the exact date, or the
// derived weekday for weekly rows only, preserving the rule that two
// differently-dated slots never collide.
func (t *FilterTranslator) compileMatch(sel models.TimeSelection, argIndex int) (string, []interface{}) {
	var parts []string
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", argIndex+len(args)-1)
	}

	if sel.Date != "" {
		datePh := next(sel.Date)
		dayPh := next(models.WeekdayOf(sel.Date))
		parts = append(parts, "((ts.date IS NOT NULL AND ts.date = "+datePh+") OR (ts.date IS NULL AND ts.effective_day = "+dayPh+"))")
	} else {
		parts = append(parts, "ts.effective_day = "+next(sel.Day))
	}

	parts = append(parts, "ts.time_from < "+next(sel.TimeTo))
	parts = append(parts, "ts.time_to > "+next(sel.TimeFrom))

	if sel.SlotID != "" {
		parts = append(parts, "ts.id <> "+next(sel.SlotID))
	}

	return strings.Join(parts, " AND "), args
}
