package document

import (
	"context"

	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/pnccp/pnccp-backend/pkg/logger"
)

// ProfileStore 用户资料查询
type ProfileStore interface {
	FindByID(ctx context.Context, id string) (*model.Profile, error)
}

// ActorResolver 解析操作人显示名称
type ActorResolver struct {
	profiles ProfileStore
	fallback string
}

func NewActorResolver(profiles ProfileStore, fallback string) *ActorResolver {
	return &ActorResolver{profiles: profiles, fallback: fallback}
}

// DisplayName 未提供用户ID或查询失败时返回默认名称，查询失败只记录警告
func (r *ActorResolver) DisplayName(ctx context.Context, userID string) string {
	if userID == "" {
		return r.fallback
	}
	profile, err := r.profiles.FindByID(ctx, userID)
	if err != nil {
		logger.Warnf("[ActorResolver] Failed to resolve user %s, using %q: %v", userID, r.fallback, err)
		return r.fallback
	}
	if profile.NombreCompleto == "" {
		return r.fallback
	}
	return profile.NombreCompleto
}
