package repository

import (
	"context"

	"github.com/pnccp/pnccp-backend/internal/model"
	"gorm.io/gorm"
)

// ProcurementRepository 采购业务实体的只读查询
type ProcurementRepository struct {
	db *gorm.DB
}

func NewProcurementRepository(db *gorm.DB) *ProcurementRepository {
	return &ProcurementRepository{db: db}
}

// FindExpediente 查询案卷及其机构、程序类型、负责人
func (r *ProcurementRepository) FindExpediente(ctx context.Context, id string) (*model.Expediente, error) {
	var expediente model.Expediente
	err := r.db.WithContext(ctx).
		Preload("Institucion").
		Preload("Procedimiento").
		Preload("Responsable").
		Where("id = ?", id).
		First(&expediente).Error
	if err != nil {
		return nil, translate(err)
	}
	return &expediente, nil
}

// FindLicitacion 查询招标及所属案卷
func (r *ProcurementRepository) FindLicitacion(ctx context.Context, id string) (*model.Licitacion, error) {
	var licitacion model.Licitacion
	err := r.db.WithContext(ctx).
		Preload("Expediente").
		Where("id = ?", id).
		First(&licitacion).Error
	if err != nil {
		return nil, translate(err)
	}
	return &licitacion, nil
}

// FindContrato 查询合同及所属案卷、供应商、负责人
func (r *ProcurementRepository) FindContrato(ctx context.Context, id string) (*model.Contrato, error) {
	var contrato model.Contrato
	err := r.db.WithContext(ctx).
		Preload("Expediente").
		Preload("Proveedor").
		Preload("Responsable").
		Where("id = ?", id).
		First(&contrato).Error
	if err != nil {
		return nil, translate(err)
	}
	return &contrato, nil
}
