// Package repotest 提供基于 SQLite 内存库的测试数据库
package repotest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pnccp/pnccp-backend/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// NewDB 创建迁移好全部表的独立内存数据库，测试结束后自动关闭
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrateAll(db, true))
	return db
}

// Ptr 返回值的指针
func Ptr[T any](v T) *T {
	return &v
}
