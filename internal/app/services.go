package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pnccp/pnccp-backend/internal/filestorage"
	"github.com/pnccp/pnccp-backend/internal/service"
	"github.com/pnccp/pnccp-backend/pkg/config"
	"github.com/pnccp/pnccp-backend/pkg/distributed"
	"github.com/pnccp/pnccp-backend/pkg/logger"
)

// activationLockPrefix 模板激活锁的 Redis key 前缀
const activationLockPrefix = "pnccp:template:activate:"

// Services 包含所有 Service 实例
type Services struct {
	Auth      *service.AuthService
	Generator *service.DocumentGenerator
	Template  *service.TemplateService
	Emission  *service.EmissionService
}

// InitializeServices 初始化所有 Service；redisClient 为 nil 时激活锁退化为仅数据库事务
func InitializeServices(ctx context.Context, repos *Repositories, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	storage, err := filestorage.New(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	logger.Infof("File storage initialized: %s", storage.Name())

	formatter := service.NewFormatter(cfg.Documents.Location())
	generator := service.NewDocumentGenerator(
		repos.Template,
		repos.Emission,
		service.NewActorResolver(repos.Profile, cfg.Documents.SystemActor),
		service.NewEntityResolvers(repos.Procurement, formatter),
		storage,
		formatter,
	)

	locker := distributed.NewLocker(redisClient, activationLockPrefix,
		time.Duration(cfg.Documents.ActivationLockTTL)*time.Second)

	return &Services{
		Auth:      service.NewAuthService(cfg.Security.JWTSecret),
		Generator: generator,
		Template:  service.NewTemplateService(repos.Template, locker),
		Emission:  service.NewEmissionService(repos.Emission),
	}, nil
}
