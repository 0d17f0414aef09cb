package app

import (
	"log"
	"os"

	"github.com/pnccp/pnccp-backend/pkg/config"
	"github.com/pnccp/pnccp-backend/pkg/database"
	"github.com/pnccp/pnccp-backend/pkg/logger"
	pkgredis "github.com/pnccp/pnccp-backend/pkg/redis"
)

// Bootstrap 初始化基础设施（logger, database, redis）
func Bootstrap(cfgPath string) (*config.Config, error) {
	// 支持通过环境变量指定配置文件路径
	if cfgPath == "" {
		cfgPath = os.Getenv("PNCCP_CONFIG")
		if cfgPath == "" {
			cfgPath = "config/config.yaml"
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	// Initialize logger
	if err := logger.Init(&cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize database
	if err := database.Init(&cfg.Database); err != nil {
		return nil, err
	}

	// Initialize Redis (optional, activation lock only)
	if err := pkgredis.Init(&cfg.Redis); err != nil {
		logger.Warnf("Redis initialization failed: %v", err)
		logger.Info("   → Template activation relies on the database transaction only")
	} else if cfg.Redis.Enabled {
		logger.Infof("Redis initialized successfully - activation lock enabled")
	} else {
		logger.Info("Redis is disabled in config - single instance mode")
	}

	return cfg, nil
}
