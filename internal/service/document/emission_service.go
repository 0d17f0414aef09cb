package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/pnccp/pnccp-backend/internal/repository"
	"github.com/pnccp/pnccp-backend/pkg/crypto"
	"github.com/pnccp/pnccp-backend/pkg/logger"
	"github.com/pnccp/pnccp-backend/pkg/metrics"
)

// EmissionRepository 发放记录存储
type EmissionRepository interface {
	FindByID(ctx context.Context, id string) (*model.DocumentEmission, error)
	List(ctx context.Context, filter model.EmissionFilter) ([]model.DocumentEmission, int64, error)
	UpdateStatus(ctx context.Context, id, from, to string) (bool, error)
}

// emissionTransitions generado 之后允许的状态
var emissionTransitions = map[string]bool{
	model.EmissionStatusSent:     true,
	model.EmissionStatusArchived: true,
	model.EmissionStatusRevoked:  true,
}

// EmissionService 发放记录查询、状态变更和完整性校验
type EmissionService struct {
	repo EmissionRepository
}

func NewEmissionService(repo EmissionRepository) *EmissionService {
	return &EmissionService{repo: repo}
}

// List 发放记录列表
func (s *EmissionService) List(ctx context.Context, filter model.EmissionFilter) ([]model.DocumentEmission, int64, error) {
	emissions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, unexpectedError("failed to list emissions", err)
	}
	return emissions, total, nil
}

// Get 获取发放记录
func (s *EmissionService) Get(ctx context.Context, id string) (*model.DocumentEmission, error) {
	emission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Emisión no encontrada")
		}
		return nil, unexpectedError("failed to load emission", err)
	}
	return emission, nil
}

// Transition 变更发放状态，只允许从 generado 变更为 enviado、archivado 或 revocado
func (s *EmissionService) Transition(ctx context.Context, id, target string) (*model.DocumentEmission, error) {
	if !emissionTransitions[target] {
		return nil, validationError(fmt.Sprintf("estado_emision no válido: %s", target))
	}

	emission, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if emission.EstadoEmision != model.EmissionStatusGenerated {
		return nil, validationError(fmt.Sprintf("la emisión ya está en estado %s", emission.EstadoEmision))
	}

	ok, err := s.repo.UpdateStatus(ctx, id, model.EmissionStatusGenerated, target)
	if err != nil {
		return nil, persistenceError(err)
	}
	if !ok {
		// 并发请求已经修改了状态
		return nil, validationError("la emisión fue modificada por otra operación")
	}

	metrics.EmissionTransitionsTotal.WithLabelValues(target).Inc()
	logger.Infof("[EmissionService] Emission %s: %s -> %s", id, emission.EstadoEmision, target)
	emission.EstadoEmision = target
	return emission, nil
}

// Verify 重新计算正文摘要并与记录中的摘要比较
func (s *EmissionService) Verify(ctx context.Context, id, content string) (*model.VerifyEmissionResponse, error) {
	emission, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	actual, valid := crypto.VerifyFingerprint(content, emission.HashDocumento)
	return &model.VerifyEmissionResponse{
		EmissionID:    emission.ID,
		HashDocumento: emission.HashDocumento,
		HashCalculado: actual,
		Valido:        valid,
	}, nil
}
