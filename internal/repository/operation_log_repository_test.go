package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/pnccp/pnccp-backend/internal/repository"
	"github.com/pnccp/pnccp-backend/internal/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationLogRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewOperationLogRepository(repotest.NewDB(t))

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	logs := []model.OperationLog{
		{Username: "ana", IP: "10.0.0.1", Method: "POST", Path: "/api/v1/documents/generate", Status: 200, StartTime: base},
		{Username: "ana", IP: "10.0.0.1", Method: "POST", Path: "/api/v1/templates/:id/activate", Status: 200, StartTime: base.Add(time.Hour)},
		{Username: "luis", IP: "10.0.0.2", Method: "DELETE", Path: "/api/v1/templates/:id", Status: 400, StartTime: base.Add(2 * time.Hour)},
	}
	for i := range logs {
		require.NoError(t, repo.Create(ctx, &logs[i]))
	}

	tests := []struct {
		name   string
		filter model.OperationLogFilter
		want   int64
	}{
		{"全部", model.OperationLogFilter{}, 3},
		{"按用户名", model.OperationLogFilter{Username: "an"}, 2},
		{"按方法", model.OperationLogFilter{Method: "DELETE"}, 1},
		{"按路径", model.OperationLogFilter{Path: "templates"}, 2},
		{"按状态码", model.OperationLogFilter{Status: 400}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, items, int(tt.want))
		})
	}

	page, total, err := repo.List(ctx, model.OperationLogFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "/api/v1/documents/generate", page[0].Path)

	exported, err := repo.Export(ctx, model.OperationLogFilter{Username: "ana", Page: 5, PageSize: 1})
	require.NoError(t, err)
	assert.Len(t, exported, 2)
}

func TestOperationLogRepositoryTimeRange(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewOperationLogRepository(repotest.NewDB(t))

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.OperationLog{
			IP: "10.0.0.1", Method: "POST", Path: "/x", Status: 200, StartTime: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	_, total, err := repo.List(ctx, model.OperationLogFilter{
		StartTime: "2024-06-01 08:30:00",
		EndTime:   "2024-06-01 10:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
