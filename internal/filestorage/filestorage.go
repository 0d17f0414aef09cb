// Package filestorage 渲染后文档的对象存储
package filestorage

import (
	"context"
	"fmt"

	"github.com/pnccp/pnccp-backend/pkg/config"
)

// FileStorage 文档对象存储
type FileStorage interface {
	// Put 写入对象，key 为 url_storage
	Put(ctx context.Context, key string, content []byte, contentType string) error
	// Name 存储驱动名称
	Name() string
}

// New 根据配置创建存储
func New(ctx context.Context, cfg *config.StorageConfig) (FileStorage, error) {
	switch cfg.Driver {
	case "", "noop":
		return Noop{}, nil
	case "s3":
		return NewS3FileStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// Noop 不写入任何内容，只返回计算出的路径
type Noop struct{}

func (Noop) Put(context.Context, string, []byte, string) error { return nil }

func (Noop) Name() string { return "noop" }
