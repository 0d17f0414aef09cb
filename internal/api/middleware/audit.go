package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/pnccp/pnccp-backend/pkg/logger"
)

// OperationLogWriter 操作日志写入
type OperationLogWriter interface {
	Create(ctx context.Context, log *model.OperationLog) error
}

// operationDescriptions 路由描述
var operationDescriptions = map[string]string{
	"POST /api/v1/documents/generate":     "Generar documento",
	"POST /api/v1/templates":              "Crear plantilla",
	"PUT /api/v1/templates/:id":           "Actualizar plantilla",
	"DELETE /api/v1/templates/:id":        "Eliminar plantilla",
	"POST /api/v1/templates/:id/activate": "Activar plantilla",
	"POST /api/v1/templates/:id/obsolete": "Marcar plantilla obsoleta",
	"POST /api/v1/emissions/:id/status":   "Cambiar estado de emisión",
	"POST /api/v1/emissions/:id/verify":   "Verificar integridad de emisión",
}

// OperationLogMiddleware 操作日志中间件
func OperationLogMiddleware(writer OperationLogWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 开始时间
		startTime := time.Now()

		// 处理请求
		c.Next()

		// 只记录非 GET 请求的操作日志
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			return
		}

		// 未认证的请求使用 x-user-id
		userID := c.GetString(ContextUserID)
		if userID == "" {
			userID = c.GetHeader("x-user-id")
		}

		operationLog := model.OperationLog{
			UserID:    userID,
			Username:  c.GetString(ContextUsername),
			IP:        c.ClientIP(),
			Method:    c.Request.Method,
			Path:      c.FullPath(),
			Desc:      describeOperation(c.Request.Method, c.FullPath()),
			Status:    c.Writer.Status(),
			StartTime: startTime,
			TimeCost:  time.Since(startTime).Milliseconds(),
			UserAgent: truncate(c.Request.UserAgent(), 500),
		}

		// 异步保存操作日志，请求上下文此时可能已结束
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := writer.Create(ctx, &operationLog); err != nil {
				logger.Warnf("[OperationLog] Failed to save operation log %s %s: %v", operationLog.Method, operationLog.Path, err)
			}
		}()
	}
}

// describeOperation 根据方法和路径获取描述
func describeOperation(method, path string) string {
	key := method + " " + path
	if desc, ok := operationDescriptions[key]; ok {
		return desc
	}
	return strings.TrimSpace(key)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
