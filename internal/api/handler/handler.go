// Package handler 提供统一的 handler 导出
// 所有 handler 按功能模块分类到子目录中
package handler

import (
	// Audit handlers
	auditHandler "github.com/pnccp/pnccp-backend/internal/api/handler/audit"
	// Document handlers
	documentHandler "github.com/pnccp/pnccp-backend/internal/api/handler/document"
)

// Document handlers
type DocumentHandler = documentHandler.DocumentHandler
type TemplateHandler = documentHandler.TemplateHandler
type EmissionHandler = documentHandler.EmissionHandler

var NewDocumentHandler = documentHandler.NewDocumentHandler
var NewTemplateHandler = documentHandler.NewTemplateHandler
var NewEmissionHandler = documentHandler.NewEmissionHandler

// Audit handlers
type AuditHandler = auditHandler.AuditHandler

var NewAuditHandler = auditHandler.NewAuditHandler
