package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pnccp/pnccp-backend/internal/api/router"
	"github.com/pnccp/pnccp-backend/pkg/config"
	"github.com/pnccp/pnccp-backend/pkg/database"
	"github.com/pnccp/pnccp-backend/pkg/logger"
	pkgredis "github.com/pnccp/pnccp-backend/pkg/redis"
)

// App 应用程序上下文
type App struct {
	Config   *config.Config
	Repos    *Repositories
	Services *Services
	Handlers *Handlers
	Router   *gin.Engine
}

// Initialize 初始化应用程序
func Initialize(cfgPath string) (app *App, err error) {
	// 1. Bootstrap (logger, database, redis)
	cfg, err := Bootstrap(cfgPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			database.Close()
		}
	}()

	gin.SetMode(cfg.Server.Mode)

	// 2. Initialize repositories
	repos := InitializeRepositories(database.DB)
	logger.Infof("Repositories initialized")

	// 3. Initialize services
	services, err := InitializeServices(context.Background(), repos, cfg, pkgredis.Client)
	if err != nil {
		return nil, err
	}
	logger.Infof("Services initialized")

	// 4. Initialize handlers
	handlers := InitializeHandlers(repos, services)
	logger.Infof("Handlers initialized")

	// 5. Setup router
	r := router.Setup(
		handlers.Document,
		handlers.Template,
		handlers.Emission,
		handlers.Audit,
		services.Auth,
		repos.OperationLog,
	)

	return &App{
		Config:   cfg,
		Repos:    repos,
		Services: services,
		Handlers: handlers,
		Router:   r,
	}, nil
}
