package database

import (
	"fmt"

	"github.com/pnccp/pnccp-backend/pkg/config"
	"github.com/pnccp/pnccp-backend/pkg/logger"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.DatabaseConfig) error {
	cfg.SetDefaults()

	// 初始化数据库连接（内部已经 Ping 验证）
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	DB = db

	if err := AutoMigrateAll(DB, cfg.MigrateReferenceTables); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	logger.Infof("Database initialized successfully")
	return nil
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
