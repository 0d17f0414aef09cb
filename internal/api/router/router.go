package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pnccp/pnccp-backend/internal/api/handler"
	"github.com/pnccp/pnccp-backend/internal/api/middleware"
	"github.com/pnccp/pnccp-backend/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	documentHandler *handler.DocumentHandler,
	templateHandler *handler.TemplateHandler,
	emissionHandler *handler.EmissionHandler,
	auditHandler *handler.AuditHandler,
	authService *service.AuthService,
	operationLogs middleware.OperationLogWriter,
) *gin.Engine {
	r := gin.New()

	// 使用自定义的 recovery 中间件（打印详细错误信息）
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.MetricsMiddleware())
	// 使用 Gin 的 Logger 中间件（记录请求日志）
	r.Use(gin.Logger())
	r.Use(middleware.CORS())

	api := r.Group("/api/v1")
	api.Use(middleware.OperationLogMiddleware(operationLogs))

	// 文档生成：门户和后台任务都会调用，Token 可选，操作人也可以通过 x-user-id 传入
	documents := api.Group("/documents")
	documents.Use(middleware.OptionalAuthMiddleware(authService))
	{
		documents.POST("/generate", documentHandler.Generate)
	}

	// 以下接口需要认证
	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware(authService))

	admins := middleware.RequireRoles(service.RoleAdminNacional, service.RoleAdminInstitucional)

	// 模板管理
	templates := authenticated.Group("/templates")
	{
		templates.GET("", templateHandler.ListTemplates)
		templates.GET("/:id", templateHandler.GetTemplate)
		templates.POST("", admins, templateHandler.CreateTemplate)
		templates.PUT("/:id", admins, templateHandler.UpdateTemplate)
		templates.DELETE("/:id", admins, templateHandler.DeleteTemplate)
		templates.POST("/:id/activate", admins, templateHandler.ActivateTemplate)
		templates.POST("/:id/obsolete", admins, templateHandler.ObsoleteTemplate)
	}

	// 发放记录
	emissions := authenticated.Group("/emissions")
	{
		emissions.GET("", emissionHandler.ListEmissions)
		emissions.GET("/:id", emissionHandler.GetEmission)
		emissions.POST("/:id/verify", emissionHandler.VerifyEmission)
		emissions.POST("/:id/status", admins, emissionHandler.UpdateEmissionStatus)
	}

	// 操作审计
	audit := authenticated.Group("/audit")
	audit.Use(middleware.RequireRoles(service.RoleAdminNacional, service.RoleAuditor))
	{
		audit.GET("/operation-logs", auditHandler.GetOperationLogs)
		audit.GET("/operation-logs/export", auditHandler.ExportOperationLogs)
	}

	// Prometheus Metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check (支持 GET 和 HEAD 方法)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"type":   "api-server",
		})
	})
	r.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested resource was not found.",
		})
	})

	return r
}
