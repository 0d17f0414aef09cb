package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// 模板状态
const (
	TemplateStatusDraft    = "borrador"
	TemplateStatusActive   = "activo"
	TemplateStatusObsolete = "obsoleto"
)

// 模板适用范围
const (
	TemplateScopeNational      = "nacional"
	TemplateScopeInstitutional = "institucional"
)

// DocumentTemplate 文档模板
type DocumentTemplate struct {
	ID              string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	NombreDocumento string         `gorm:"type:varchar(255);not null" json:"nombre_documento"`
	Tipo            string         `gorm:"type:varchar(100);index" json:"tipo"`
	Categoria       string         `gorm:"type:varchar(100);index:idx_template_scope,priority:1" json:"categoria"`
	Formato         string         `gorm:"type:varchar(20);default:pdf" json:"formato"`
	DescripcionUsos string         `gorm:"type:text" json:"descripcion_usos,omitempty"`
	Version         int            `gorm:"not null;default:1" json:"version"`
	Estado          string         `gorm:"type:varchar(20);not null;default:borrador;index" json:"estado"`
	Ambito          string         `gorm:"type:varchar(20);not null;default:nacional;index:idx_template_scope,priority:2" json:"ambito"`
	InstitucionID   *string        `gorm:"type:varchar(36);index:idx_template_scope,priority:3" json:"institucion_id"`
	EstructuraJSON  datatypes.JSON `gorm:"column:estructura_json;type:json" json:"estructura_json"`
	ActivaDesde     *time.Time     `json:"activa_desde,omitempty"`
	CreatedBy       string         `gorm:"type:varchar(36)" json:"created_by,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (DocumentTemplate) TableName() string {
	return "document_templates"
}

// Body 返回模板正文：estructura_json.contenido，缺失时退回文档名称
func (t *DocumentTemplate) Body() string {
	if len(t.EstructuraJSON) > 0 {
		var structure struct {
			Contenido *string `json:"contenido"`
		}
		if err := json.Unmarshal(t.EstructuraJSON, &structure); err == nil &&
			structure.Contenido != nil && *structure.Contenido != "" {
			return *structure.Contenido
		}
	}
	return t.NombreDocumento
}

// IsValidTemplateScope 校验模板范围
func IsValidTemplateScope(scope string) bool {
	return scope == TemplateScopeNational || scope == TemplateScopeInstitutional
}

// CreateTemplateRequest 创建模板请求
type CreateTemplateRequest struct {
	NombreDocumento string         `json:"nombre_documento"`
	Tipo            string         `json:"tipo"`
	Categoria       string         `json:"categoria"`
	Formato         string         `json:"formato"`
	DescripcionUsos string         `json:"descripcion_usos"`
	Ambito          string         `json:"ambito"`
	InstitucionID   *string        `json:"institucion_id"`
	EstructuraJSON  datatypes.JSON `json:"estructura_json"`
}

// UpdateTemplateRequest 更新模板请求，空字段保持原值
type UpdateTemplateRequest struct {
	NombreDocumento string         `json:"nombre_documento"`
	Tipo            string         `json:"tipo"`
	Categoria       string         `json:"categoria"`
	Formato         string         `json:"formato"`
	DescripcionUsos string         `json:"descripcion_usos"`
	EstructuraJSON  datatypes.JSON `json:"estructura_json"`
}

// TemplateFilter 模板列表过滤条件
type TemplateFilter struct {
	Categoria     string `form:"categoria"`
	Estado        string `form:"estado"`
	Ambito        string `form:"ambito"`
	InstitucionID string `form:"institucion_id"`
	Tipo          string `form:"tipo"`
	Search        string `form:"search"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
}
