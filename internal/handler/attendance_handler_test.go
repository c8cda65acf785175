package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planilla-hr/planilla-api/internal/dto"
	"github.com/planilla-hr/planilla-api/internal/models"
	appErrors "github.com/planilla-hr/planilla-api/pkg/errors"
)

type attendanceServiceMock struct {
	records  []models.AttendanceRecord
	editErr  error
	lastCode string
	lastDay  int
	lastRaw  string
}

func (m *attendanceServiceMock) List(models.AttendanceFilter) ([]models.AttendanceRecord, int) {
	return m.records, len(m.records)
}

func (m *attendanceServiceMock) Reports() []string { return []string{"Enero"} }

func (m *attendanceServiceMock) ValidationErrors() []models.ValidationError { return nil }

func (m *attendanceServiceMock) DismissValidationError(string) error { return nil }

func (m *attendanceServiceMock) DismissAllValidationErrors() {}

func (m *attendanceServiceMock) EditDay(_ context.Context, code string, day int, raw string) (int, error) {
	if m.editErr != nil {
		return 0, m.editErr
	}
	m.lastCode, m.lastDay, m.lastRaw = code, day, raw
	return 1, nil
}

func (m *attendanceServiceMock) EditContract(_ context.Context, code string, raw string) (int, error) {
	m.lastCode, m.lastRaw = code, raw
	return 1, nil
}

func (m *attendanceServiceMock) EditPension(_ context.Context, code string, raw string) (int, error) {
	m.lastCode, m.lastRaw = code, raw
	return 1, nil
}

func (m *attendanceServiceMock) EditBonus(_ context.Context, code string, amount float64) (int, error) {
	m.lastCode = code
	return 1, nil
}

func newEditDayContext(t *testing.T, code, day string, payload interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPatch, "/attendance/"+code+"/days/"+day, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "code", Value: code}, {Key: "day", Value: day}}
	return c, w
}

func TestAttendanceHandlerEditDay(t *testing.T) {
	svc := &attendanceServiceMock{}
	h := NewAttendanceHandler(svc)

	c, w := newEditDayContext(t, "E001", "3", dto.EditDayRequest{Value: "FA"})
	h.EditDay(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "E001", svc.lastCode)
	assert.Equal(t, 3, svc.lastDay)
	assert.Equal(t, "FA", svc.lastRaw)
}

func TestAttendanceHandlerEditDayInvalidDay(t *testing.T) {
	h := NewAttendanceHandler(&attendanceServiceMock{})

	c, w := newEditDayContext(t, "E001", "abc", dto.EditDayRequest{Value: "FA"})
	h.EditDay(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceHandlerEditDayUnknownCode(t *testing.T) {
	svc := &attendanceServiceMock{editErr: appErrors.Clone(appErrors.ErrNotFound, "employee code not found")}
	h := NewAttendanceHandler(svc)

	c, w := newEditDayContext(t, "NOPE", "1", dto.EditDayRequest{Value: "PU"})
	h.EditDay(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttendanceHandlerEditBonusRequiresAmount(t *testing.T) {
	h := NewAttendanceHandler(&attendanceServiceMock{})
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/attendance/E001/bonus", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "code", Value: "E001"}}

	h.EditBonus(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceHandlerList(t *testing.T) {
	svc := &attendanceServiceMock{records: []models.AttendanceRecord{{Code: "E001"}}}
	h := NewAttendanceHandler(svc)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/attendance?page=1&page_size=10", nil)
	c.Request = req

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "E001")
	assert.Contains(t, w.Body.String(), "Enero")
}
