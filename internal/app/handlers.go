package app

import (
	"github.com/pnccp/pnccp-backend/internal/api/handler"
)

// Handlers 包含所有 Handler 实例
type Handlers struct {
	Document *handler.DocumentHandler
	Template *handler.TemplateHandler
	Emission *handler.EmissionHandler
	Audit    *handler.AuditHandler
}

// InitializeHandlers 初始化所有 Handler
func InitializeHandlers(repos *Repositories, services *Services) *Handlers {
	return &Handlers{
		Document: handler.NewDocumentHandler(services.Generator),
		Template: handler.NewTemplateHandler(services.Template),
		Emission: handler.NewEmissionHandler(services.Emission),
		Audit:    handler.NewAuditHandler(repos.OperationLog),
	}
}
