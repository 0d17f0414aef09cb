package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 以下为门户已有的业务表，本服务只读

// Institucion 采购机构
type Institucion struct {
	ID            string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	NombreOficial string `gorm:"type:varchar(255);not null" json:"nombre_oficial"`
}

func (Institucion) TableName() string {
	return "instituciones"
}

// TipoProcedimiento 采购程序类型
type TipoProcedimiento struct {
	ID     string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Nombre string `gorm:"type:varchar(255);not null" json:"nombre"`
}

func (TipoProcedimiento) TableName() string {
	return "tipos_procedimiento"
}

// Profile 门户用户资料
type Profile struct {
	ID                 string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	NombreCompleto     string  `gorm:"type:varchar(255)" json:"nombre_completo"`
	EmailInstitucional string  `gorm:"type:varchar(255)" json:"email_institucional"`
	Rol                string  `gorm:"type:varchar(50)" json:"rol"`
	InstitucionID      *string `gorm:"type:varchar(36)" json:"institucion_id"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Proveedor 供应商
type Proveedor struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RazonSocial string `gorm:"type:varchar(255);not null" json:"razon_social"`
}

func (Proveedor) TableName() string {
	return "proveedores"
}

// Expediente 采购案卷
type Expediente struct {
	ID                  string              `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CodigoExpediente    string              `gorm:"type:varchar(100);uniqueIndex" json:"codigo_expediente"`
	ObjetoContrato      string              `gorm:"type:text" json:"objeto_contrato"`
	Presupuesto         decimal.NullDecimal `gorm:"type:decimal(20,2)" json:"presupuesto"`
	InstitucionID       *string             `gorm:"type:varchar(36)" json:"institucion_id"`
	TipoProcedimientoID *string             `gorm:"type:varchar(36)" json:"tipo_procedimiento_id"`
	ResponsableID       *string             `gorm:"type:varchar(36)" json:"responsable_id"`
	FechaCreacion       time.Time           `json:"fecha_creacion"`

	Institucion   *Institucion       `gorm:"foreignKey:InstitucionID" json:"institucion,omitempty"`
	Procedimiento *TipoProcedimiento `gorm:"foreignKey:TipoProcedimientoID" json:"procedimiento,omitempty"`
	Responsable   *Profile           `gorm:"foreignKey:ResponsableID" json:"responsable,omitempty"`
}

func (Expediente) TableName() string {
	return "expedientes"
}

// Licitacion 招标
type Licitacion struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ExpedienteID *string    `gorm:"type:varchar(36)" json:"expediente_id"`
	FechaCierre  *time.Time `json:"fecha_cierre"`

	Expediente *Expediente `gorm:"foreignKey:ExpedienteID" json:"expediente,omitempty"`
}

func (Licitacion) TableName() string {
	return "licitaciones"
}

// Contrato 合同
type Contrato struct {
	ID              string              `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ExpedienteID    *string             `gorm:"type:varchar(36)" json:"expediente_id"`
	ProveedorID     *string             `gorm:"type:varchar(36)" json:"proveedor_id"`
	ResponsableID   *string             `gorm:"type:varchar(36)" json:"responsable_id"`
	MontoAdjudicado decimal.NullDecimal `gorm:"type:decimal(20,2)" json:"monto_adjudicado"`
	FechaInicio     *time.Time          `json:"fecha_inicio"`
	FechaFin        *time.Time          `json:"fecha_fin"`

	Expediente  *Expediente `gorm:"foreignKey:ExpedienteID" json:"expediente,omitempty"`
	Proveedor   *Proveedor  `gorm:"foreignKey:ProveedorID" json:"proveedor,omitempty"`
	Responsable *Profile    `gorm:"foreignKey:ResponsableID" json:"responsable,omitempty"`
}

func (Contrato) TableName() string {
	return "contratos"
}
