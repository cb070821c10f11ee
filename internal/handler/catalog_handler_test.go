package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
	appErrors "github.com/H7KZ/Kreditozrouti-sub000/pkg/errors"
)

type catalogBrowserMock struct {
	captured models.CourseFilter
	course   *models.Course
	err      error
}

func (m *catalogBrowserMock) Search(ctx context.Context, filter models.CourseFilter) ([]models.Course, models.Pagination, error) {
	m.captured = filter
	if m.err != nil {
		return nil, models.Pagination{}, m.err
	}
	return []models.Course{{ID: "c1", Ident: "4IT101"}}, models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (m *catalogBrowserMock) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.course, nil
}

func (m *catalogBrowserMock) Facets(ctx context.Context, semester string, year int) (*models.CourseFacets, bool, error) {
	return &models.CourseFacets{}, true, nil
}

func postJSON(t *testing.T, path string, body []byte) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return w, c
}

func getRequest(t *testing.T, path string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return w, c
}

func TestCatalogSearchPassesFilter(t *testing.T) {
	mockSvc := &catalogBrowserMock{}
	handler := &CatalogHandler{service: mockSvc, validate: validator.New()}

	payload := []byte(`{"semester":"WS","year":2026,"days":["MONDAY"],"excludeTimes":[{"day":"MONDAY","time_from":540,"time_to":630}]}`)
	w, c := postJSON(t, "/courses/search", payload)
	handler.Search(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "WS", mockSvc.captured.Semester)
	require.Equal(t, 2026, mockSvc.captured.Year)
	require.Equal(t, []string{"MONDAY"}, mockSvc.captured.Days)
	require.Len(t, mockSvc.captured.ExcludeTimes, 1)
	require.Equal(t, 540, mockSvc.captured.ExcludeTimes[0].TimeFrom)
}

func TestCatalogSearchRejectsMalformedPayload(t *testing.T) {
	handler := &CatalogHandler{service: &catalogBrowserMock{}, validate: validator.New()}

	w, c := postJSON(t, "/courses/search", []byte(`{"semester":`))
	handler.Search(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogSearchRejectsUnknownDay(t *testing.T) {
	handler := &CatalogHandler{service: &catalogBrowserMock{}, validate: validator.New()}

	w, c := postJSON(t, "/courses/search", []byte(`{"days":["SOMEDAY"]}`))
	handler.Search(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogGetNotFound(t *testing.T) {
	handler := &CatalogHandler{service: &catalogBrowserMock{err: appErrors.ErrNotFound}, validate: validator.New()}

	w, c := getRequest(t, "/courses/missing")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogFacetsRejectsBadYear(t *testing.T) {
	handler := &CatalogHandler{service: &catalogBrowserMock{}, validate: validator.New()}

	w, c := getRequest(t, "/courses/facets?year=abc")
	handler.Facets(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogFacetsReportsCacheHit(t *testing.T) {
	handler := &CatalogHandler{service: &catalogBrowserMock{}, validate: validator.New()}

	w, c := getRequest(t, "/courses/facets?semester=WS&year=2026")
	handler.Facets(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"cache_hit":true`)
}
