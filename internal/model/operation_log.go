package model

import (
	"time"
)

// OperationLog 操作日志模型
type OperationLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index" json:"user_id"`
	Username  string    `gorm:"type:varchar(255)" json:"username"`
	IP        string    `gorm:"type:varchar(50);not null" json:"ip"`
	Method    string    `gorm:"type:varchar(10);not null" json:"method"`
	Path      string    `gorm:"type:varchar(255);not null" json:"path"`
	Desc      string    `gorm:"type:varchar(255)" json:"desc"`
	Status    int       `gorm:"not null" json:"status"`
	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	TimeCost  int64     `gorm:"type:bigint" json:"time_cost"`
	UserAgent string    `gorm:"type:varchar(500)" json:"user_agent"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (OperationLog) TableName() string {
	return "operation_logs"
}

// FilterTimeLayout 操作日志查询的时间格式
const FilterTimeLayout = "2006-01-02 15:04:05"

// OperationLogFilter 操作日志查询条件
type OperationLogFilter struct {
	Username  string `form:"username"`
	Method    string `form:"method"`
	Path      string `form:"path"`
	Status    int    `form:"status"`
	StartTime string `form:"start_time"` // 2006-01-02 15:04:05
	EndTime   string `form:"end_time"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}
