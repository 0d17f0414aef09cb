package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/pnccp/pnccp-backend/pkg/config"
	"github.com/pnccp/pnccp-backend/pkg/logger"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Open 打开数据库连接（支持 PostgreSQL 和 MySQL）并配置连接池
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "postgres", "postgresql", "":
		dialector = postgres.Open(cfg.DSN())
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: postgres, mysql)", cfg.Driver)
	}

	logger.Infof("Connecting to %s database %s@%s:%d/%s...", cfg.Driver, cfg.User, cfg.Host, cfg.Port, cfg.DBName)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns > cfg.MaxOpenConns {
		maxIdleConns = cfg.MaxOpenConns
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	logger.Infof("Database connection pool configured: MaxOpenConns=%d, MaxIdleConns=%d, ConnMaxLifetime=%ds",
		cfg.MaxOpenConns, maxIdleConns, cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// OwnedTables 本服务拥有的表
func OwnedTables() []interface{} {
	return []interface{}{
		&model.DocumentTemplate{},
		&model.DocumentEmission{},
		&model.OperationLog{},
	}
}

// ReferenceTables 门户业务表（只读引用）
func ReferenceTables() []interface{} {
	return []interface{}{
		&model.Institucion{},
		&model.TipoProcedimiento{},
		&model.Profile{},
		&model.Proveedor{},
		&model.Expediente{},
		&model.Licitacion{},
		&model.Contrato{},
	}
}

// AutoMigrateAll 自动迁移表结构
func AutoMigrateAll(db *gorm.DB, withReferenceTables bool) error {
	if db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	tables := OwnedTables()
	if withReferenceTables {
		tables = append(ReferenceTables(), tables...)
	}

	logger.Infof("Migrating %d tables...", len(tables))
	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", table, err)
		}
	}
	return ensureSingleActiveTemplateIndex(db)
}

// singleActiveTemplateIndex 每个 (categoria, ambito, institucion_id) 最多一个激活模板
const singleActiveTemplateIndex = "idx_template_single_active"

// ensureSingleActiveTemplateIndex 创建部分唯一索引；MySQL 不支持部分索引，依赖激活事务中的行锁
func ensureSingleActiveTemplateIndex(db *gorm.DB) error {
	switch db.Dialector.Name() {
	case "postgres", "sqlite":
	default:
		logger.Warnf("Partial unique index %s not supported on %s, skipping", singleActiveTemplateIndex, db.Dialector.Name())
		return nil
	}

	stmt := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON document_templates (categoria, ambito, (COALESCE(institucion_id, ''))) WHERE estado = '%s'",
		singleActiveTemplateIndex, model.TemplateStatusActive)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to create index %s: %w", singleActiveTemplateIndex, err)
	}
	return nil
}
