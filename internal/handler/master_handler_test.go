package handler

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/campusgate/campus-erp-api/internal/middleware"
	"github.com/campusgate/campus-erp-api/internal/models"
	"github.com/campusgate/campus-erp-api/internal/service"
)

type masterRepoMock struct {
	records map[int64]map[string]interface{}
	nextID  int64
	deletes int
}

func newMasterRepoMock() *masterRepoMock {
	return &masterRepoMock{records: map[int64]map[string]interface{}{}, nextID: 1}
}

func (m *masterRepoMock) List(ctx context.Context, entity models.Entity) ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

func (m *masterRepoMock) Get(ctx context.Context, entity models.Entity, id int64) (map[string]interface{}, error) {
	if record, ok := m.records[id]; ok {
		return record, nil
	}
	return nil, sql.ErrNoRows
}

func (m *masterRepoMock) Insert(ctx context.Context, entity models.Entity, fields map[string]interface{}, actor string) (int64, error) {
	id := m.nextID
	m.nextID++
	record := map[string]interface{}{"id": id}
	for k, v := range fields {
		record[k] = v
	}
	m.records[id] = record
	return id, nil
}

func (m *masterRepoMock) Update(ctx context.Context, entity models.Entity, id int64, fields map[string]interface{}, actor string) error {
	record, ok := m.records[id]
	if !ok {
		return sql.ErrNoRows
	}
	for k, v := range fields {
		record[k] = v
	}
	return nil
}

func (m *masterRepoMock) SoftDelete(ctx context.Context, entity models.Entity, id int64, actor string) error {
	if _, ok := m.records[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.records, id)
	m.deletes++
	return nil
}

func newMasterTestContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Buffer
	if body != nil {
		reader = bytes.NewBuffer(body)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextAccountKey, &models.User{ID: "u-1", Username: "admin"})
	return c, w
}

func TestMasterHandlerCreateAndGet(t *testing.T) {
	repo := newMasterRepoMock()
	handler := NewMasterHandler(service.NewMasterService(repo, nil, nil))

	c, w := newMasterTestContext(t, http.MethodPost, "/master/caste", []byte(`{"name":"General"}`))
	c.Params = gin.Params{{Key: "entity", Value: "caste"}}
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"name":"General"`)

	c, w = newMasterTestContext(t, http.MethodGet, "/master/caste/1", nil)
	c.Params = gin.Params{{Key: "entity", Value: "caste"}, {Key: "id", Value: "1"}}
	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"name":"General"`)
}

func TestMasterHandlerCreateMissingRequired(t *testing.T) {
	handler := NewMasterHandler(service.NewMasterService(newMasterRepoMock(), nil, nil))

	c, w := newMasterTestContext(t, http.MethodPost, "/master/caste", []byte(`{"is_active":true}`))
	c.Params = gin.Params{{Key: "entity", Value: "caste"}}
	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "missing required fields")
}

func TestMasterHandlerUnknownEntity(t *testing.T) {
	handler := NewMasterHandler(service.NewMasterService(newMasterRepoMock(), nil, nil))

	c, w := newMasterTestContext(t, http.MethodGet, "/master/grades", nil)
	c.Params = gin.Params{{Key: "entity", Value: "grades"}}
	handler.List(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMasterHandlerDeleteConfirmGate(t *testing.T) {
	repo := newMasterRepoMock()
	handler := NewMasterHandler(service.NewMasterService(repo, nil, nil))

	c, w := newMasterTestContext(t, http.MethodPost, "/master/caste", []byte(`{"name":"General"}`))
	c.Params = gin.Params{{Key: "entity", Value: "caste"}}
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = newMasterTestContext(t, http.MethodDelete, "/master/caste/1", nil)
	c.Params = gin.Params{{Key: "entity", Value: "caste"}, {Key: "id", Value: "1"}}
	handler.Delete(c)
	require.Equal(t, http.StatusPreconditionRequired, w.Code)
	require.Zero(t, repo.deletes)

	c, w = newMasterTestContext(t, http.MethodDelete, "/master/caste/1?confirm=true", nil)
	c.Params = gin.Params{{Key: "entity", Value: "caste"}, {Key: "id", Value: "1"}}
	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, 1, repo.deletes)
}

func TestMasterHandlerGetRejectsNonNumericID(t *testing.T) {
	handler := NewMasterHandler(service.NewMasterService(newMasterRepoMock(), nil, nil))

	c, w := newMasterTestContext(t, http.MethodGet, "/master/caste/abc", nil)
	c.Params = gin.Params{{Key: "entity", Value: "caste"}, {Key: "id", Value: "abc"}}
	handler.Get(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
