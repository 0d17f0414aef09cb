package distributed

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pnccp/pnccp-backend/pkg/logger"
)

// 只有持有锁的实例才能释放
const unlockScript = `
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`

// RedisLock Redis 分布式锁（SET NX EX）
type RedisLock struct {
	client *redis.Client
	key    string
	value  string
	expiry time.Duration
}

// NewRedisLock 创建 Redis 分布式锁
// client 为 nil（Redis未启用）时所有操作都直接成功，由调用方的数据库事务保证一致性
func NewRedisLock(client *redis.Client, key string, expiry time.Duration) *RedisLock {
	return &RedisLock{
		client: client,
		key:    key,
		value:  uuid.New().String(),
		expiry: expiry,
	}
}

// TryLock 尝试获取锁（非阻塞）
func (l *RedisLock) TryLock(ctx context.Context) (bool, error) {
	if l.client == nil {
		return true, nil
	}

	ok, err := l.client.SetNX(ctx, l.key, l.value, l.expiry).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}
	return ok, nil
}

// Unlock 释放锁
func (l *RedisLock) Unlock(ctx context.Context) error {
	if l.client == nil {
		return nil
	}

	result, err := l.client.Eval(ctx, unlockScript, []string{l.key}, l.value).Result()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}
	if result == int64(0) {
		logger.Warnf("[RedisLock] Lock %s expired before release", l.key)
	}
	return nil
}

// ErrLockHeld 锁已被其他实例持有
var ErrLockHeld = fmt.Errorf("lock is held by another instance")

// Locker 按 key 加锁，供服务层注入
type Locker struct {
	client *redis.Client
	prefix string
	expiry time.Duration
}

// NewLocker 创建 Locker；client 可以为 nil
func NewLocker(client *redis.Client, prefix string, expiry time.Duration) *Locker {
	return &Locker{client: client, prefix: prefix, expiry: expiry}
}

// Acquire 获取 key 对应的锁，返回释放函数
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	lock := NewRedisLock(l.client, l.prefix+key, l.expiry)
	ok, err := lock.TryLock(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return func() {
		// 请求上下文可能已取消，释放时使用独立上下文
		releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := lock.Unlock(releaseCtx); err != nil {
			logger.Warnf("[RedisLock] %v", err)
		}
	}, nil
}
