package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	"github.com/sahajlabs/exam-admin-gateway/internal/service"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
)

type fakeClassCatalog struct {
	classes   []models.Class
	refreshed int
}

func (f *fakeClassCatalog) Classes(context.Context) ([]models.Class, error) {
	return f.classes, nil
}

func (f *fakeClassCatalog) RefreshClasses(context.Context) error {
	f.refreshed++
	return nil
}

type fakeClassUpstream struct {
	created *dto.CreateClassRequest
	err     error
}

func (f *fakeClassUpstream) CreateClass(_ context.Context, req dto.CreateClassRequest) (*models.Class, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &req
	return &models.Class{ID: 99, Name: req.Name}, nil
}

func (f *fakeClassUpstream) UpdateClass(_ context.Context, id int64, _ dto.UpdateClassRequest) (*models.Class, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Class{ID: id}, nil
}

func (f *fakeClassUpstream) DeleteClass(context.Context, int64) error {
	return f.err
}

type listEnvelope struct {
	Data       []map[string]interface{} `json:"data"`
	Error      *appErrors.Error         `json:"error"`
	Pagination *models.Pagination       `json:"pagination"`
}

type errorEnvelope struct {
	Error *appErrors.Error `json:"error"`
}

func newClassFixture() (*ClassHandler, *fakeClassCatalog, *fakeClassUpstream) {
	catalog := &fakeClassCatalog{classes: []models.Class{
		{ID: 1, Name: "Class 11", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Class 12", CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	}}
	upstream := &fakeClassUpstream{}
	svc := service.NewClassService(catalog, upstream, nil, nil)
	return NewClassHandler(svc), catalog, upstream
}

func TestClassHandlerListEnvelope(t *testing.T) {
	handler, _, _ := newClassFixture()
	c, rec := testContext(t, "/classes?search=12")

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Class 12", envelope.Data[0]["name"])
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestClassHandlerCreateRejectsMalformedBody(t *testing.T) {
	handler, _, upstream := newClassFixture()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/classes", strings.NewReader("{"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)
	assert.Nil(t, upstream.created)
}

func TestClassHandlerCreateSurfacesFieldErrors(t *testing.T) {
	handler, _, upstream := newClassFixture()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/classes", strings.NewReader(`{"name":"  class 11  "}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Contains(t, envelope.Error.Fields, "name")
	assert.Nil(t, upstream.created)
}

func TestClassHandlerCreatePassesThrough(t *testing.T) {
	handler, catalog, upstream := newClassFixture()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/classes", strings.NewReader(`{"name":"Class 10"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, upstream.created)
	assert.Equal(t, "Class 10", upstream.created.Name)
	assert.Equal(t, 1, catalog.refreshed)
}

func TestClassHandlerGetRejectsBadID(t *testing.T) {
	handler, _, _ := newClassFixture()
	c, rec := testContext(t, "/classes/abc")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassHandlerDeleteNoContent(t *testing.T) {
	handler, catalog, _ := newClassFixture()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/classes/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, catalog.refreshed)
}

func TestClassHandlerUpstreamFailureMapsStatus(t *testing.T) {
	handler, _, upstream := newClassFixture()
	upstream.err = appErrors.FromUpstreamStatus(http.StatusConflict, "duplicate")
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/classes", strings.NewReader(`{"name":"Class 10"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrConflict.Code, envelope.Error.Code)
}
