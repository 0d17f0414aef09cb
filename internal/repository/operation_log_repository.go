package repository

import (
	"context"
	"time"

	"github.com/pnccp/pnccp-backend/internal/model"
	"gorm.io/gorm"
)

// exportLimit 导出的最大行数
const exportLimit = 10000

type OperationLogRepository struct {
	db *gorm.DB
}

func NewOperationLogRepository(db *gorm.DB) *OperationLogRepository {
	return &OperationLogRepository{db: db}
}

// Create 写入操作日志
func (r *OperationLogRepository) Create(ctx context.Context, log *model.OperationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *OperationLogRepository) filtered(ctx context.Context, filter model.OperationLogFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.OperationLog{})

	if filter.Username != "" {
		query = query.Where("username LIKE ?", "%"+filter.Username+"%")
	}
	if filter.Path != "" {
		query = query.Where("path LIKE ?", "%"+filter.Path+"%")
	}
	if filter.Method != "" {
		query = query.Where("method = ?", filter.Method)
	}
	if filter.Status > 0 {
		query = query.Where("status = ?", filter.Status)
	}
	if start, err := time.ParseInLocation(model.FilterTimeLayout, filter.StartTime, time.Local); err == nil {
		query = query.Where("start_time >= ?", start)
	}
	if end, err := time.ParseInLocation(model.FilterTimeLayout, filter.EndTime, time.Local); err == nil {
		query = query.Where("start_time <= ?", end)
	}
	return query
}

// List 分页查询操作日志
func (r *OperationLogRepository) List(ctx context.Context, filter model.OperationLogFilter) ([]model.OperationLog, int64, error) {
	query := r.filtered(ctx, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := model.NormalizePage(filter.Page, filter.PageSize)
	var logs []model.OperationLog
	err := query.Order("start_time DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error
	return logs, total, err
}

// Export 查询导出用的操作日志（忽略分页，最多 exportLimit 行）
func (r *OperationLogRepository) Export(ctx context.Context, filter model.OperationLogFilter) ([]model.OperationLog, error) {
	var logs []model.OperationLog
	err := r.filtered(ctx, filter).
		Order("start_time DESC").
		Limit(exportLimit).
		Find(&logs).Error
	return logs, err
}
