package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pnccp/pnccp-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentTemplateRepository struct {
	db *gorm.DB
}

func NewDocumentTemplateRepository(db *gorm.DB) *DocumentTemplateRepository {
	return &DocumentTemplateRepository{db: db}
}

// Create 创建模板
func (r *DocumentTemplateRepository) Create(ctx context.Context, template *model.DocumentTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

// Update 更新模板内容字段和版本号（状态、范围不在此处修改）
func (r *DocumentTemplateRepository) Update(ctx context.Context, template *model.DocumentTemplate) error {
	return r.db.WithContext(ctx).Model(&model.DocumentTemplate{}).
		Where("id = ?", template.ID).
		Select("nombre_documento", "tipo", "categoria", "version", "formato", "descripcion_usos", "estructura_json", "updated_at").
		Updates(template).Error
}

// Delete 删除模板
func (r *DocumentTemplateRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.DocumentTemplate{}, "id = ?", id).Error
}

// FindByID 根据ID查找模板
func (r *DocumentTemplateRepository) FindByID(ctx context.Context, id string) (*model.DocumentTemplate, error) {
	var template model.DocumentTemplate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error; err != nil {
		return nil, translate(err)
	}
	return &template, nil
}

// FindActive 查找处于激活状态的模板，草稿和作废模板视为不存在
func (r *DocumentTemplateRepository) FindActive(ctx context.Context, id string) (*model.DocumentTemplate, error) {
	var template model.DocumentTemplate
	err := r.db.WithContext(ctx).
		Where("id = ? AND estado = ?", id, model.TemplateStatusActive).
		First(&template).Error
	if err != nil {
		return nil, translate(err)
	}
	return &template, nil
}

// List 分页查询模板
func (r *DocumentTemplateRepository) List(ctx context.Context, filter model.TemplateFilter) ([]model.DocumentTemplate, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.DocumentTemplate{})

	if filter.Categoria != "" {
		query = query.Where("categoria = ?", filter.Categoria)
	}
	if filter.Estado != "" {
		query = query.Where("estado = ?", filter.Estado)
	}
	if filter.Tipo != "" {
		query = query.Where("tipo = ?", filter.Tipo)
	}
	if filter.Ambito != "" {
		query = query.Where("ambito = ?", filter.Ambito)
	}
	if filter.InstitucionID != "" {
		// 机构管理员可见：全国模板 + 本机构模板
		query = query.Where("ambito = ? OR (ambito = ? AND institucion_id = ?)",
			model.TemplateScopeNational, model.TemplateScopeInstitutional, filter.InstitucionID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(nombre_documento) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := model.NormalizePage(filter.Page, filter.PageSize)
	var templates []model.DocumentTemplate
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&templates).Error
	return templates, total, err
}

// scope 同一 (categoria, ambito[, institucion_id]) 下的模板
func scope(db *gorm.DB, template *model.DocumentTemplate) *gorm.DB {
	db = db.Where("categoria = ? AND ambito = ?", template.Categoria, template.Ambito)
	if template.Ambito == model.TemplateScopeInstitutional {
		if template.InstitucionID == nil {
			return db.Where("institucion_id IS NULL")
		}
		return db.Where("institucion_id = ?", *template.InstitucionID)
	}
	return db
}

// NextVersion 返回同一范围内的下一个版本号
func (r *DocumentTemplateRepository) NextVersion(ctx context.Context, template *model.DocumentTemplate) (int, error) {
	var maxVersion sql.NullInt64
	err := scope(r.db.WithContext(ctx).Model(&model.DocumentTemplate{}), template).
		Select("MAX(version)").
		Row().
		Scan(&maxVersion)
	if err != nil {
		return 0, err
	}
	if !maxVersion.Valid {
		return 1, nil
	}
	return int(maxVersion.Int64) + 1, nil
}

// Activate 在一个事务中作废同范围的激活模板并激活目标模板，返回被作废的数量
// 先以 SELECT ... FOR UPDATE 锁住同范围的全部模板，同范围的并发激活在此排队
func (r *DocumentTemplateRepository) Activate(ctx context.Context, template *model.DocumentTemplate, at time.Time) (int64, error) {
	var demoted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked []string
		if err := scope(tx.Model(&model.DocumentTemplate{}), template).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Pluck("id", &locked).Error; err != nil {
			return fmt.Errorf("lock template scope: %w", err)
		}

		result := scope(tx.Model(&model.DocumentTemplate{}), template).
			Where("id <> ? AND estado = ?", template.ID, model.TemplateStatusActive).
			Updates(map[string]interface{}{"estado": model.TemplateStatusObsolete, "updated_at": at})
		if result.Error != nil {
			return fmt.Errorf("demote active templates: %w", result.Error)
		}
		demoted = result.RowsAffected

		result = tx.Model(&model.DocumentTemplate{}).
			Where("id = ?", template.ID).
			Updates(map[string]interface{}{"estado": model.TemplateStatusActive, "activa_desde": at, "updated_at": at})
		if result.Error != nil {
			return fmt.Errorf("activate template: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return demoted, nil
}

// SetStatus 设置模板状态
func (r *DocumentTemplateRepository) SetStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&model.DocumentTemplate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"estado": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountEmissions 统计引用该模板的发放记录数
func (r *DocumentTemplateRepository) CountEmissions(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DocumentEmission{}).
		Where("template_id = ?", id).
		Count(&count).Error
	return count, err
}
