package repository

import (
	"context"

	"github.com/pnccp/pnccp-backend/internal/model"
	"gorm.io/gorm"
)

type DocumentEmissionRepository struct {
	db *gorm.DB
}

func NewDocumentEmissionRepository(db *gorm.DB) *DocumentEmissionRepository {
	return &DocumentEmissionRepository{db: db}
}

// Create 写入发放记录（只插入，不更新）
func (r *DocumentEmissionRepository) Create(ctx context.Context, emission *model.DocumentEmission) error {
	return r.db.WithContext(ctx).Omit("Template").Create(emission).Error
}

// FindByID 根据ID查找发放记录，附带模板信息
func (r *DocumentEmissionRepository) FindByID(ctx context.Context, id string) (*model.DocumentEmission, error) {
	var emission model.DocumentEmission
	err := r.db.WithContext(ctx).Preload("Template").Where("id = ?", id).First(&emission).Error
	if err != nil {
		return nil, translate(err)
	}
	return &emission, nil
}

// List 分页查询发放记录，按发放时间倒序
func (r *DocumentEmissionRepository) List(ctx context.Context, filter model.EmissionFilter) ([]model.DocumentEmission, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.DocumentEmission{})

	if filter.EntidadOrigen != "" {
		query = query.Where("entidad_origen = ?", filter.EntidadOrigen)
	}
	if filter.EntidadID != "" {
		query = query.Where("entidad_id = ?", filter.EntidadID)
	}
	if filter.TemplateID != "" {
		query = query.Where("template_id = ?", filter.TemplateID)
	}
	if filter.EstadoEmision != "" {
		query = query.Where("estado_emision = ?", filter.EstadoEmision)
	}
	if filter.Tipo != "" {
		templateIDs := r.db.WithContext(ctx).Model(&model.DocumentTemplate{}).
			Select("id").
			Where("tipo = ?", filter.Tipo)
		query = query.Where("template_id IN (?)", templateIDs)
	}
	if filter.From != nil {
		query = query.Where("fecha_emision >= ?", *filter.From)
	}
	if filter.To != nil {
		// 包含结束日期当天
		query = query.Where("fecha_emision < ?", filter.To.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := model.NormalizePage(filter.Page, filter.PageSize)
	var emissions []model.DocumentEmission
	err := query.Preload("Template").
		Order("fecha_emision DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&emissions).Error
	return emissions, total, err
}

// UpdateStatus 条件更新发放状态，只有当前状态为 from 时才会修改
// 返回 false 表示记录不存在或状态已被其他请求修改
func (r *DocumentEmissionRepository) UpdateStatus(ctx context.Context, id, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.DocumentEmission{}).
		Where("id = ? AND estado_emision = ?", id, from).
		Update("estado_emision", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
