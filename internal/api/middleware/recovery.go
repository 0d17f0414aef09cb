package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/pnccp/pnccp-backend/pkg/logger"
	"go.uber.org/zap"
)

// RecoveryMiddleware 错误恢复中间件，记录请求上下文和堆栈
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}

		fullURL := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			fullURL = fmt.Sprintf("%s?%s", fullURL, c.Request.URL.RawQuery)
		}

		logger.Error("Panic recovered",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("url", fullURL),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("user_id", c.GetString(ContextUserID)),
			zap.String("username", c.GetString(ContextUsername)),
			zap.ByteString("stack", debug.Stack()),
		)

		// 同时兼容 {code, message} 和 {error} 两种响应格式
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Error interno del servidor",
			"error":   "Error interno del servidor",
		})
	})
}
