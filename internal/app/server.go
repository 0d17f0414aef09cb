package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pnccp/pnccp-backend/pkg/config"
	"github.com/pnccp/pnccp-backend/pkg/database"
	"github.com/pnccp/pnccp-backend/pkg/logger"
	pkgredis "github.com/pnccp/pnccp-backend/pkg/redis"
)

// StartServer 启动 HTTP 服务器，收到 SIGINT/SIGTERM 后优雅退出
func StartServer(app *App) {
	cfg := app.Config

	addr := fmt.Sprintf(":%d", cfg.Server.APIPort)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	printStartupBanner(cfg)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Infof("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// 1. Shutdown HTTP server
	logger.Infof("  → Stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("  HTTP server shutdown error: %v", err)
	} else {
		logger.Infof("  ✓ HTTP server stopped")
	}

	// 2. Close database
	logger.Infof("  → Closing database...")
	if err := database.Close(); err != nil {
		logger.Warnf("  Database close error: %v", err)
	} else {
		logger.Infof("  ✓ Database closed")
	}

	// 3. Close Redis if enabled
	if cfg.Redis.Enabled {
		logger.Infof("  → Closing Redis...")
		_ = pkgredis.Close()
		logger.Infof("  ✓ Redis closed")
	}

	logger.Infof("Shutdown complete")
	logger.Sync()
}

// printStartupBanner 打印启动横幅
func printStartupBanner(cfg *config.Config) {
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("PNCCP Document Service")
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("   • API            :%d (mode=%s)", cfg.Server.APIPort, cfg.Server.Mode)
	logger.Infof("   • Database       %s@%s:%d/%s", cfg.Database.Driver, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	logger.Infof("   • Storage        %s", cfg.Storage.Driver)
	logger.Infof("   • Time zone      %s", cfg.Documents.TimeZone)
	if cfg.Redis.Enabled {
		logger.Infof("   • Activation lock redis://%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	}
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}
