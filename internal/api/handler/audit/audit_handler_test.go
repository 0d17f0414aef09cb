package audit

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	logs   []model.OperationLog
	err    error
	filter model.OperationLogFilter
}

func (f *fakeReader) List(_ context.Context, filter model.OperationLogFilter) ([]model.OperationLog, int64, error) {
	f.filter = filter
	return f.logs, int64(len(f.logs)), f.err
}

func (f *fakeReader) Export(_ context.Context, filter model.OperationLogFilter) ([]model.OperationLog, error) {
	f.filter = filter
	return f.logs, f.err
}

func newRouter(reader OperationLogReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuditHandler(reader)
	r := gin.New()
	r.GET("/logs", h.GetOperationLogs)
	r.GET("/logs/export", h.ExportOperationLogs)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func sampleLogs() []model.OperationLog {
	return []model.OperationLog{{
		ID:        7,
		UserID:    "user-1",
		Username:  "ana",
		IP:        "10.0.0.1",
		Method:    http.MethodPost,
		Path:      "/api/v1/documents/generate",
		Desc:      "生成文档",
		Status:    200,
		StartTime: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		TimeCost:  42,
		UserAgent: "curl/8.0",
	}}
}

func TestGetOperationLogs(t *testing.T) {
	reader := &fakeReader{logs: sampleLogs()}
	r := newRouter(reader)

	w := get(r, "/logs?method=POST&start_time=2024-03-01+00:00:00&page=2")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Total int64 `json:"total"`
			Page  int   `json:"page"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, int64(1), resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Page)
	assert.Equal(t, "POST", reader.filter.Method)
	assert.Equal(t, "2024-03-01 00:00:00", reader.filter.StartTime)
}

func TestGetOperationLogsErrors(t *testing.T) {
	tests := []struct {
		name   string
		reader *fakeReader
		path   string
		status int
	}{
		{"时间格式错误", &fakeReader{}, "/logs?start_time=2024-03-01", http.StatusBadRequest},
		{"查询失败", &fakeReader{err: errors.New("db down")}, "/logs", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(newRouter(tt.reader), tt.path)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestExportOperationLogsCSV(t *testing.T) {
	r := newRouter(&fakeReader{logs: sampleLogs()})

	w := get(r, "/logs/export")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, []string{
		"7", "2024-03-01T09:00:00Z", "user-1", "ana", "10.0.0.1", "POST",
		"/api/v1/documents/generate", "生成文档", "200", "42", "curl/8.0",
	}, records[1])
}

func TestExportOperationLogsJSON(t *testing.T) {
	r := newRouter(&fakeReader{logs: sampleLogs()})

	w := get(r, "/logs/export?format=json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".json")

	var logs []model.OperationLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "ana", logs[0].Username)

	assert.Equal(t, http.StatusBadRequest, get(r, "/logs/export?format=xml").Code)
}

type failingWriter struct {
	err error
}

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriteOperationLogsCSVReportsWriteErrors(t *testing.T) {
	broken := errors.New("broken pipe")
	err := writeOperationLogsCSV(failingWriter{err: broken}, sampleLogs())
	assert.ErrorIs(t, err, broken)

	var buf strings.Builder
	require.NoError(t, writeOperationLogsCSV(&buf, sampleLogs()))
	assert.True(t, strings.HasPrefix(buf.String(), "id,fecha,"))
}
