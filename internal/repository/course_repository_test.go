package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
)

func newCourseRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func courseRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "ident", "title", "ects", "faculty", "semester", "year"}).
		AddRow("c1", "4IT101", "Programming Fundamentals", 6, "FIS", "WS", 2026)
}

func expectAttachUnits(mock sqlmock.Sqlmock) {
	unitRows := sqlmock.NewRows([]string{"id", "course_id", "type", "lecturer", "capacity"}).
		AddRow("u1", "c1", "lecture", "Dr. Novak", 120)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT u.id, u.course_id, u.type, u.lecturer, u.capacity FROM units u WHERE u.course_id = ANY($1) ORDER BY u.course_id, u.type, u.id")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(unitRows)

	slotRows := sqlmock.NewRows([]string{"id", "unit_id", "type", "frequency", "day", "date", "time_from", "time_to", "location"}).
		AddRow("s1", "u1", "lecture", "weekly", "MONDAY", "", 540, 630, "NB 350").
		AddRow("s2", "u1", "lecture", "single", "", "2026-03-02", 660, 750, "NB 350")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT ts.id, ts.unit_id, ts.type, ts.frequency, COALESCE(ts.day, '') AS day, COALESCE(ts.date, '') AS date, ts.time_from, ts.time_to, COALESCE(ts.location, '') AS location FROM time_slots ts WHERE ts.unit_id = ANY($1) ORDER BY ts.unit_id, ts.time_from, ts.id")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(slotRows)
}

func TestCourseRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.id, c.ident, c.title, c.ects, c.faculty, c.semester, c.year FROM courses c WHERE c.id = $1")).
		WithArgs("c1").
		WillReturnRows(courseRow())
	expectAttachUnits(mock)

	course, err := repo.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "4IT101", course.Ident)
	require.Len(t, course.Units, 1)
	require.Len(t, course.Units[0].Slots, 2)
	assert.Equal(t, "s1", course.Units[0].Slots[0].ID)
	assert.Equal(t, models.SlotFrequencySingle, course.Units[0].Slots[1].Frequency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.id, c.ident, c.title, c.ects, c.faculty, c.semester, c.year FROM courses c WHERE c.id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	course, err := repo.FindByID(context.Background(), "missing")
	assert.Nil(t, course)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Exclusion windows must land in the query as positional arguments numbered
// after the plain filter conditions.
func TestCourseRepositorySearchCompilesExclusions(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db, nil)

	selectQuery := "SELECT c.id, c.ident, c.title, c.ects, c.faculty, c.semester, c.year FROM courses c WHERE 1=1" +
		" AND c.semester = $1" +
		" AND (NOT EXISTS (SELECT 1 FROM units u WHERE u.course_id = c.id)" +
		" OR EXISTS (SELECT 1 FROM units u JOIN time_slots ts ON ts.unit_id = u.id" +
		" WHERE u.course_id = c.id AND NOT (ts.effective_day = $2 AND ts.time_from < $3 AND ts.time_to > $4)))" +
		" ORDER BY c.ident ASC LIMIT 20 OFFSET 0"
	countQuery := "SELECT COUNT(*) FROM courses c WHERE 1=1" +
		" AND c.semester = $1" +
		" AND (NOT EXISTS (SELECT 1 FROM units u WHERE u.course_id = c.id)" +
		" OR EXISTS (SELECT 1 FROM units u JOIN time_slots ts ON ts.unit_id = u.id" +
		" WHERE u.course_id = c.id AND NOT (ts.effective_day = $2 AND ts.time_from < $3 AND ts.time_to > $4)))"

	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("WS", "MONDAY", 630, 540).
		WillReturnRows(courseRow())
	mock.ExpectQuery(regexp.QuoteMeta(countQuery)).
		WithArgs("WS", "MONDAY", 630, 540).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	expectAttachUnits(mock)

	courses, total, err := repo.Search(context.Background(), models.CourseFilter{
		Semester:     "WS",
		ExcludeTimes: []models.TimeSelection{{Day: "MONDAY", TimeFrom: 540, TimeTo: 630}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, courses, 1)
	assert.Equal(t, "4IT101", courses[0].Ident)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositorySearchRejectsUnknownSort(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.id, c.ident, c.title, c.ects, c.faculty, c.semester, c.year FROM courses c WHERE 1=1 ORDER BY c.ident ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ident", "title", "ects", "faculty", "semester", "year"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses c WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	courses, total, err := repo.Search(context.Background(), models.CourseFilter{
		SortBy:    "faculty; DROP TABLE courses",
		SortOrder: "sideways",
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, courses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIdents(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.id, c.ident, c.title, c.ects, c.faculty, c.semester, c.year FROM courses c WHERE c.ident = ANY($1) AND c.semester = $2 AND c.year = $3 ORDER BY c.ident ASC")).
		WithArgs(sqlmock.AnyArg(), "WS", 2026).
		WillReturnRows(courseRow())
	expectAttachUnits(mock)

	courses, err := repo.FindByIdents(context.Background(), []string{"4IT101"}, "WS", 2026)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Len(t, courses[0].Units, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIdentsEmpty(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db, nil)

	courses, err := repo.FindByIdents(context.Background(), nil, "", 0)
	require.NoError(t, err)
	assert.Nil(t, courses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFacets(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.faculty AS value, COUNT(*) AS count FROM courses c WHERE 1=1 AND c.semester = $1 AND c.year = $2 GROUP BY c.faculty ORDER BY count DESC, value ASC")).
		WithArgs("WS", 2026).
		WillReturnRows(sqlmock.NewRows([]string{"value", "count"}).AddRow("FIS", 42).AddRow("NF", 17))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT ts.effective_day AS value, COUNT(DISTINCT c.id) AS count FROM courses c JOIN units u ON u.course_id = c.id JOIN time_slots ts ON ts.unit_id = u.id WHERE 1=1 AND c.semester = $1 AND c.year = $2 GROUP BY ts.effective_day ORDER BY count DESC, value ASC")).
		WithArgs("WS", 2026).
		WillReturnRows(sqlmock.NewRows([]string{"value", "count"}).AddRow("MONDAY", 30))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.ects::text AS value, COUNT(*) AS count FROM courses c WHERE 1=1 AND c.semester = $1 AND c.year = $2 GROUP BY c.ects ORDER BY c.ects ASC")).
		WithArgs("WS", 2026).
		WillReturnRows(sqlmock.NewRows([]string{"value", "count"}).AddRow("3", 12).AddRow("6", 40))

	facets, err := repo.Facets(context.Background(), "WS", 2026)
	require.NoError(t, err)
	require.Len(t, facets.Faculties, 2)
	assert.Equal(t, "FIS", facets.Faculties[0].Value)
	require.Len(t, facets.Days, 1)
	require.Len(t, facets.Ects, 2)
	assert.Equal(t, 40, facets.Ects[1].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
