// Package service 提供统一的 service 导出
// 所有 service 按功能模块分类到子目录中
package service

// 重新导出所有 service 类型，保持向后兼容
import (
	// Auth services
	authService "github.com/pnccp/pnccp-backend/internal/service/auth"
	// Document services
	documentService "github.com/pnccp/pnccp-backend/internal/service/document"
)

// Auth services
type AuthService = authService.AuthService
type Claims = authService.Claims

var NewAuthService = authService.NewAuthService

// Document services
type DocumentGenerator = documentService.Generator
type TemplateService = documentService.TemplateService
type EmissionService = documentService.EmissionService
type ActorResolver = documentService.ActorResolver
type EntityResolvers = documentService.EntityResolvers
type Formatter = documentService.Formatter
type GenerateInput = documentService.GenerateInput

var NewDocumentGenerator = documentService.NewGenerator
var NewTemplateService = documentService.NewTemplateService
var NewEmissionService = documentService.NewEmissionService
var NewActorResolver = documentService.NewActorResolver
var NewEntityResolvers = documentService.NewEntityResolvers
var NewFormatter = documentService.NewFormatter

// 角色
const (
	RoleAdminNacional      = authService.RoleAdminNacional
	RoleAdminInstitucional = authService.RoleAdminInstitucional
	RoleAuditor            = authService.RoleAuditor
)
