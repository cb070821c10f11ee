package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
)

func translatorCourse(slots ...models.TimeSlot) models.Course {
	return models.Course{ID: "c1", Ident: "4IT101", Units: []models.Unit{
		{ID: "u1", CourseID: "c1", Type: "lecture", Slots: slots},
	}}
}

func TestSlotMatchesWeeklyAgainstDay(t *testing.T) {
	tr := NewFilterTranslator()
	slot := models.TimeSlot{ID: "s1", Day: "MONDAY", TimeFrom: 540, TimeTo: 630}

	assert.True(t, tr.SlotMatches(slot, models.TimeSelection{Day: "MONDAY", TimeFrom: 600, TimeTo: 690}))
	assert.False(t, tr.SlotMatches(slot, models.TimeSelection{Day: "TUESDAY", TimeFrom: 600, TimeTo: 690}))
	// touching windows do not match
	assert.False(t, tr.SlotMatches(slot, models.TimeSelection{Day: "MONDAY", TimeFrom: 630, TimeTo: 690}))
}

func TestSlotMatchesSelfExemption(t *testing.T) {
	tr := NewFilterTranslator()
	slot := models.TimeSlot{ID: "s1", Day: "MONDAY", TimeFrom: 540, TimeTo: 630}

	sel := models.TimeSelection{Day: "MONDAY", TimeFrom: 540, TimeTo: 630, SlotID: "s1"}
	assert.False(t, tr.SlotMatches(slot, sel), "a selection never matches its own slot")

	sel.SlotID = "other"
	assert.True(t, tr.SlotMatches(slot, sel))
}

func TestSlotMatchesDatedSelectionAgainstWeeklySlot(t *testing.T) {
	tr := NewFilterTranslator()
	weekly := models.TimeSlot{ID: "s1", Day: "MONDAY", TimeFrom: 540, TimeTo: 630}

	// 2026-03-02 is a Monday: a dated exclusion suppresses same-weekday weekly slots
	assert.True(t, tr.SlotMatches(weekly, models.TimeSelection{Date: "2026-03-02", TimeFrom: 600, TimeTo: 690}))
	// 2026-03-03 is a Tuesday
	assert.False(t, tr.SlotMatches(weekly, models.TimeSelection{Date: "2026-03-03", TimeFrom: 600, TimeTo: 690}))
}

func TestSlotMatchesDatedSelectionAgainstDatedSlot(t *testing.T) {
	tr := NewFilterTranslator()
	dated := models.TimeSlot{ID: "s1", Date: "2026-03-02", TimeFrom: 540, TimeTo: 630}

	assert.True(t, tr.SlotMatches(dated, models.TimeSelection{Date: "2026-03-02", TimeFrom: 600, TimeTo: 690}))
	// same weekday, different date: never a match between two dated occurrences
	assert.False(t, tr.SlotMatches(dated, models.TimeSelection{Date: "2026-03-09", TimeFrom: 600, TimeTo: 690}))
	// a plain day selection still matches the dated slot's weekday
	assert.True(t, tr.SlotMatches(dated, models.TimeSelection{Day: "MONDAY", TimeFrom: 600, TimeTo: 690}))
}

func TestCourseKeptWithoutUnits(t *testing.T) {
	tr := NewFilterTranslator()
	course := models.Course{ID: "c1", Ident: "4IT101"}

	exclusions := []models.TimeSelection{{Day: "MONDAY", TimeFrom: 0, TimeTo: 1440}}
	assert.True(t, tr.CourseKept(course, exclusions), "zero-unit courses always survive")
}

func TestCourseKeptRequiresOneFreeSlot(t *testing.T) {
	tr := NewFilterTranslator()
	course := translatorCourse(
		models.TimeSlot{ID: "s1", Day: "MONDAY", TimeFrom: 540, TimeTo: 630},
		models.TimeSlot{ID: "s2", Day: "TUESDAY", TimeFrom: 540, TimeTo: 630},
	)

	mondayBlocked := []models.TimeSelection{{Day: "MONDAY", TimeFrom: 0, TimeTo: 1440}}
	assert.True(t, tr.CourseKept(course, mondayBlocked), "tuesday slot escapes the exclusion")

	bothBlocked := []models.TimeSelection{
		{Day: "MONDAY", TimeFrom: 0, TimeTo: 1440},
		{Day: "TUESDAY", TimeFrom: 0, TimeTo: 1440},
	}
	assert.False(t, tr.CourseKept(course, bothBlocked))

	assert.True(t, tr.CourseKept(course, nil))
}

func TestCourseIncluded(t *testing.T) {
	tr := NewFilterTranslator()
	course := translatorCourse(models.TimeSlot{ID: "s1", Day: "MONDAY", TimeFrom: 540, TimeTo: 630})

	assert.True(t, tr.CourseIncluded(course, nil), "no includes means everything passes")
	assert.True(t, tr.CourseIncluded(course, []models.TimeSelection{{Day: "MONDAY", TimeFrom: 600, TimeTo: 700}}))
	assert.False(t, tr.CourseIncluded(course, []models.TimeSelection{{Day: "FRIDAY", TimeFrom: 600, TimeTo: 700}}))
}

func TestCompileExclusionsEmpty(t *testing.T) {
	tr := NewFilterTranslator()
	assert.True(t, tr.CompileExclusions(nil, 1).Empty())
	assert.True(t, tr.CompileInclusions(nil, 1).Empty())
}

func TestCompileExclusionsDayBased(t *testing.T) {
	tr := NewFilterTranslator()
	pred := tr.CompileExclusions([]models.TimeSelection{
		{Day: "MONDAY", TimeFrom: 540, TimeTo: 630},
	}, 1)

	require.False(t, pred.Empty())
	assert.Equal(t, []interface{}{"MONDAY", 630, 540}, pred.Args)
	assert.Contains(t, pred.Clause, "NOT EXISTS (SELECT 1 FROM units u WHERE u.course_id = c.id)")
	assert.Contains(t, pred.Clause, "NOT (ts.effective_day = $1 AND ts.time_from < $2 AND ts.time_to > $3)")
}

func TestCompileExclusionsDateBased(t *testing.T) {
	tr := NewFilterTranslator()
	pred := tr.CompileExclusions([]models.TimeSelection{
		{Date: "2026-03-02", TimeFrom: 540, TimeTo: 630, SlotID: "s9"},
	}, 3)

	require.False(t, pred.Empty())
	assert.Equal(t, []interface{}{"2026-03-02", "MONDAY", 630, 540, "s9"}, pred.Args)
	assert.Contains(t, pred.Clause, "(ts.date IS NOT NULL AND ts.date = $3) OR (ts.date IS NULL AND ts.effective_day = $4)")
	assert.Contains(t, pred.Clause, "ts.time_from < $5")
	assert.Contains(t, pred.Clause, "ts.time_to > $6")
	assert.Contains(t, pred.Clause, "ts.id <> $7")
}

func TestCompileExclusionsNumbersArgsAcrossSelections(t *testing.T) {
	tr := NewFilterTranslator()
	pred := tr.CompileExclusions([]models.TimeSelection{
		{Day: "MONDAY", TimeFrom: 540, TimeTo: 630},
		{Day: "TUESDAY", TimeFrom: 600, TimeTo: 690},
	}, 1)

	assert.Equal(t, []interface{}{"MONDAY", 630, 540, "TUESDAY", 690, 600}, pred.Args)
	assert.Contains(t, pred.Clause, "$4")
	assert.Contains(t, pred.Clause, "$6")
	assert.NotContains(t, pred.Clause, "$7")
}

func TestCompileInclusionsJoinsWithOr(t *testing.T) {
	tr := NewFilterTranslator()
	pred := tr.CompileInclusions([]models.TimeSelection{
		{Day: "MONDAY", TimeFrom: 540, TimeTo: 630},
		{Day: "FRIDAY", TimeFrom: 540, TimeTo: 630},
	}, 1)

	require.False(t, pred.Empty())
	assert.Contains(t, pred.Clause, " OR ")
	assert.Contains(t, pred.Clause, "EXISTS (SELECT 1 FROM units u JOIN time_slots ts ON ts.unit_id = u.id")
	assert.Len(t, pred.Args, 6)
}

// The SQL compiler must agree with the in-memory predicate: each selection
// kind produces exactly the branches SlotMatches evaluates.
func TestCompiledBranchesMirrorSlotMatches(t *testing.T) {
	tr := NewFilterTranslator()

	// A day selection compiles to a single effective_day comparison: dated
	// slots fold onto their weekday through the effective_day column, exactly
	// like EffectiveDay() does in memory.
	day, dayArgs := tr.compileMatch(models.TimeSelection{Day: "MONDAY", TimeFrom: 540, TimeTo: 630}, 1)
	assert.Equal(t, "ts.effective_day = $1 AND ts.time_from < $2 AND ts.time_to > $3", day)
	assert.Len(t, dayArgs, 3)

	// A date selection matches the exact date, or weekly rows sharing the
	// weekday, so two differently-dated slots never match.
	dated, datedArgs := tr.compileMatch(models.TimeSelection{Date: "2026-03-02", TimeFrom: 540, TimeTo: 630}, 1)
	assert.Equal(t, "((ts.date IS NOT NULL AND ts.date = $1) OR (ts.date IS NULL AND ts.effective_day = $2)) AND ts.time_from < $3 AND ts.time_to > $4", dated)
	assert.Equal(t, "MONDAY", datedArgs[1])
}
