package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pnccp/pnccp-backend/internal/api/router"
	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/pnccp/pnccp-backend/internal/repotest"
	"github.com/pnccp/pnccp-backend/internal/service"
	"github.com/pnccp/pnccp-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testApp struct {
	db       *gorm.DB
	router   *gin.Engine
	services *Services
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.Parse([]byte("documents:\n  time_zone: UTC\n"))
	require.NoError(t, err)

	db := repotest.NewDB(t)
	repos := InitializeRepositories(db)
	services, err := InitializeServices(context.Background(), repos, cfg, nil)
	require.NoError(t, err)
	handlers := InitializeHandlers(repos, services)

	r := router.Setup(handlers.Document, handlers.Template, handlers.Emission, handlers.Audit, services.Auth, repos.OperationLog)
	return &testApp{db: db, router: r, services: services}
}

func (a *testApp) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := a.services.Auth.GenerateToken(service.Claims{UserID: userID, Username: userID, Role: role}, time.Hour)
	require.NoError(t, err)
	return token
}

func (a *testApp) do(method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestHealthAndPreflight(t *testing.T) {
	a := newTestApp(t)

	w := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = a.do(http.MethodOptions, "/api/v1/documents/generate", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/nope", "", nil).Code)
}

func TestRouteAuthorization(t *testing.T) {
	a := newTestApp(t)
	admin := a.token(t, "admin-1", service.RoleAdminNacional)
	auditor := a.token(t, "auditor-1", service.RoleAuditor)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"模板列表需要认证", http.MethodGet, "/api/v1/templates", "", http.StatusUnauthorized},
		{"审计员可以查看模板", http.MethodGet, "/api/v1/templates", auditor, http.StatusOK},
		{"审计员不能创建模板", http.MethodPost, "/api/v1/templates", auditor, http.StatusForbidden},
		{"审计员可以查看操作日志", http.MethodGet, "/api/v1/audit/operation-logs", auditor, http.StatusOK},
		{"管理员可以查看操作日志", http.MethodGet, "/api/v1/audit/operation-logs", admin, http.StatusOK},
		{"发放记录需要认证", http.MethodGet, "/api/v1/emissions", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(tt.method, tt.path, tt.token, model.CreateTemplateRequest{NombreDocumento: "x"})
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestEndToEndEmission(t *testing.T) {
	a := newTestApp(t)
	admin := a.token(t, "admin-1", service.RoleAdminNacional)
	require.NoError(t, a.db.Create(&model.Profile{ID: "user-9", NombreCompleto: "Marta Esono"}).Error)

	var created struct {
		Data model.DocumentTemplate `json:"data"`
	}
	w := a.do(http.MethodPost, "/api/v1/templates", admin, map[string]interface{}{
		"nombre_documento": "Notificación de adjudicación",
		"tipo":             "notificacion",
		"categoria":        "adjudicacion",
		"estructura_json":  map[string]string{"contenido": "Se adjudica {{objeto}} a {{proveedor}}"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/v1/templates/"+created.Data.ID+"/activate", admin, nil).Code)

	w = a.do(http.MethodPost, "/api/v1/documents/generate", "", model.GenerateDocumentRequest{
		TemplateID:    created.Data.ID,
		EntidadOrigen: "contrato",
		EntidadID:     "con-1",
		Variables:     map[string]interface{}{"objeto": "obras", "proveedor": "ACME"},
	}, "x-user-id", "user-9")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp model.GenerateDocumentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Marta Esono", resp.Metadata.UsuarioGenerador)
	assert.Equal(t, []string{"objeto", "proveedor"}, resp.Metadata.VariablesUtilizadas)

	var stored model.DocumentEmission
	require.NoError(t, a.db.First(&stored, "id = ?", resp.EmissionID).Error)
	assert.Equal(t, resp.HashDocumento, stored.HashDocumento)
	require.NotNil(t, stored.UsuarioGenerador)
	assert.Equal(t, "user-9", *stored.UsuarioGenerador)

	// 操作日志异步写入
	require.Eventually(t, func() bool {
		var count int64
		a.db.Model(&model.OperationLog{}).Where("path = ? AND user_id = ?", "/api/v1/documents/generate", "user-9").Count(&count)
		return count == 1
	}, 2*time.Second, 20*time.Millisecond)
}
