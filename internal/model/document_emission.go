package model

import (
	"time"

	"gorm.io/datatypes"
)

// 文档发放状态
const (
	EmissionStatusGenerated = "generado"
	EmissionStatusSent      = "enviado"
	EmissionStatusArchived  = "archivado"
	EmissionStatusRevoked   = "revocado"
)

// 业务实体类型
const (
	EntityExpediente = "expediente"
	EntityLicitacion = "licitacion"
	EntityContrato   = "contrato"
)

// DocumentEmission 文档发放记录。创建后只有 estado_emision 可以变更
type DocumentEmission struct {
	ID               string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TemplateID       string         `gorm:"type:varchar(36);not null;index" json:"template_id"`
	EntidadOrigen    string         `gorm:"type:varchar(50);not null;index:idx_emission_entity,priority:1" json:"entidad_origen"`
	EntidadID        string         `gorm:"type:varchar(36);not null;index:idx_emission_entity,priority:2" json:"entidad_id"`
	VersionUtilizada int            `gorm:"not null" json:"version_utilizada"`
	HashDocumento    string         `gorm:"type:char(64);not null;index" json:"hash_documento"`
	URLStorage       string         `gorm:"type:varchar(500);not null" json:"url_storage"`
	UsuarioGenerador *string        `gorm:"type:varchar(36)" json:"usuario_generador"`
	EstadoEmision    string         `gorm:"type:varchar(20);not null;default:generado;index" json:"estado_emision"`
	FechaEmision     time.Time      `gorm:"not null;index" json:"fecha_emision"`
	Metadata         datatypes.JSON `gorm:"type:json" json:"metadata,omitempty"`

	Template *DocumentTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

// TableName 指定表名
func (DocumentEmission) TableName() string {
	return "document_emissions"
}

// EmissionMetadata 发放审计元数据
type EmissionMetadata struct {
	TemplateCategoria   string   `json:"template_categoria"`
	TemplateTipo        string   `json:"template_tipo"`
	VariablesUtilizadas []string `json:"variables_utilizadas"`
	UsuarioGenerador    string   `json:"usuario_generador"`
	Navegador           *string  `json:"navegador"`
	IPOrigen            string   `json:"ip_origen"`
}

// GenerateDocumentRequest 文档生成请求
type GenerateDocumentRequest struct {
	TemplateID    string                 `json:"template_id"`
	EntidadOrigen string                 `json:"entidad_origen"`
	EntidadID     string                 `json:"entidad_id"`
	Variables     map[string]interface{} `json:"variables"`
}

// GenerateDocumentResponse 文档生成结果
type GenerateDocumentResponse struct {
	Success       bool             `json:"success"`
	EmissionID    string           `json:"emission_id"`
	URLStorage    string           `json:"url_storage"`
	HashDocumento string           `json:"hash_documento"`
	FechaEmision  time.Time        `json:"fecha_emision"`
	FileName      string           `json:"file_name"`
	Formato       string           `json:"formato"`
	Metadata      EmissionMetadata `json:"metadata"`
}

// EmissionFilter 发放记录过滤条件
type EmissionFilter struct {
	EntidadOrigen string     `form:"entidad_origen"`
	EntidadID     string     `form:"entidad_id"`
	TemplateID    string     `form:"template_id"`
	EstadoEmision string     `form:"estado_emision"`
	Tipo          string     `form:"tipo"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
}

// EmissionStatusRequest 发放状态变更请求
type EmissionStatusRequest struct {
	EstadoEmision string `json:"estado_emision"`
}

// VerifyEmissionRequest 完整性校验请求
type VerifyEmissionRequest struct {
	Contenido string `json:"contenido"`
}

// VerifyEmissionResponse 完整性校验结果
type VerifyEmissionResponse struct {
	EmissionID    string `json:"emission_id"`
	HashDocumento string `json:"hash_documento"`
	HashCalculado string `json:"hash_calculado"`
	Valido        bool   `json:"valido"`
}
