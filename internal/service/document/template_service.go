package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/pnccp/pnccp-backend/internal/repository"
	"github.com/pnccp/pnccp-backend/pkg/distributed"
	"github.com/pnccp/pnccp-backend/pkg/logger"
	"github.com/pnccp/pnccp-backend/pkg/metrics"
)

// TemplateRepository 模板存储
type TemplateRepository interface {
	Create(ctx context.Context, template *model.DocumentTemplate) error
	Update(ctx context.Context, template *model.DocumentTemplate) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.DocumentTemplate, error)
	List(ctx context.Context, filter model.TemplateFilter) ([]model.DocumentTemplate, int64, error)
	NextVersion(ctx context.Context, template *model.DocumentTemplate) (int, error)
	Activate(ctx context.Context, template *model.DocumentTemplate, at time.Time) (int64, error)
	SetStatus(ctx context.Context, id, status string) error
	CountEmissions(ctx context.Context, id string) (int64, error)
}

// Locker 激活操作的跨实例锁
type Locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

// TemplateService 模板管理
type TemplateService struct {
	repo   TemplateRepository
	locker Locker
	now    func() time.Time
}

// NewTemplateService 创建模板服务；locker 为 nil 时仅依赖数据库事务
func NewTemplateService(repo TemplateRepository, locker Locker) *TemplateService {
	return &TemplateService{repo: repo, locker: locker, now: time.Now}
}

// Create 创建草稿模板，版本号取同范围最大版本 +1
func (s *TemplateService) Create(ctx context.Context, req model.CreateTemplateRequest, actorID string) (*model.DocumentTemplate, error) {
	if strings.TrimSpace(req.NombreDocumento) == "" {
		return nil, validationError("nombre_documento es obligatorio")
	}
	if req.Ambito == "" {
		req.Ambito = model.TemplateScopeNational
	}
	if !model.IsValidTemplateScope(req.Ambito) {
		return nil, validationError(fmt.Sprintf("ambito no válido: %s", req.Ambito))
	}
	if req.Ambito == model.TemplateScopeInstitutional && (req.InstitucionID == nil || *req.InstitucionID == "") {
		return nil, validationError("institucion_id es obligatorio para plantillas institucionales")
	}
	if req.Ambito == model.TemplateScopeNational {
		req.InstitucionID = nil
	}
	if req.Formato == "" {
		req.Formato = "pdf"
	}

	template := &model.DocumentTemplate{
		ID:              uuid.NewString(),
		NombreDocumento: req.NombreDocumento,
		Tipo:            req.Tipo,
		Categoria:       req.Categoria,
		Formato:         req.Formato,
		DescripcionUsos: req.DescripcionUsos,
		Estado:          model.TemplateStatusDraft,
		Ambito:          req.Ambito,
		InstitucionID:   req.InstitucionID,
		EstructuraJSON:  req.EstructuraJSON,
		CreatedBy:       actorID,
	}

	version, err := s.repo.NextVersion(ctx, template)
	if err != nil {
		return nil, unexpectedError("failed to compute template version", err)
	}
	template.Version = version

	if err := s.repo.Create(ctx, template); err != nil {
		return nil, persistenceError(err)
	}
	logger.Infof("[TemplateService] Template %s created (categoria=%s, ambito=%s, version=%d)",
		template.ID, template.Categoria, template.Ambito, template.Version)
	return template, nil
}

// Update 部分更新模板；只有草稿可以修改正文和分类
func (s *TemplateService) Update(ctx context.Context, id string, req model.UpdateTemplateRequest) (*model.DocumentTemplate, error) {
	template, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	isDraft := template.Estado == model.TemplateStatusDraft
	if len(req.EstructuraJSON) > 0 && !isDraft {
		return nil, validationError("solo se puede modificar el contenido de plantillas en borrador")
	}
	if req.Categoria != "" && req.Categoria != template.Categoria && !isDraft {
		return nil, validationError("solo se puede cambiar la categoría de plantillas en borrador")
	}

	if req.NombreDocumento != "" {
		template.NombreDocumento = req.NombreDocumento
	}
	if req.Tipo != "" {
		template.Tipo = req.Tipo
	}
	if req.Categoria != "" && req.Categoria != template.Categoria {
		// 换分类后版本号按新范围重新分配
		template.Categoria = req.Categoria
		version, err := s.repo.NextVersion(ctx, template)
		if err != nil {
			return nil, unexpectedError("failed to compute template version", err)
		}
		template.Version = version
	}
	if req.Formato != "" {
		template.Formato = req.Formato
	}
	if req.DescripcionUsos != "" {
		template.DescripcionUsos = req.DescripcionUsos
	}
	if len(req.EstructuraJSON) > 0 {
		template.EstructuraJSON = req.EstructuraJSON
	}
	template.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, template); err != nil {
		return nil, persistenceError(err)
	}
	return template, nil
}

// Get 根据ID获取模板
func (s *TemplateService) Get(ctx context.Context, id string) (*model.DocumentTemplate, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Plantilla no encontrada")
		}
		return nil, unexpectedError("failed to load template", err)
	}
	return template, nil
}

// List 模板列表
func (s *TemplateService) List(ctx context.Context, filter model.TemplateFilter) ([]model.DocumentTemplate, int64, error) {
	templates, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, unexpectedError("failed to list templates", err)
	}
	return templates, total, nil
}

// Delete 删除模板，已有发放记录的模板不能删除
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountEmissions(ctx, id)
	if err != nil {
		return unexpectedError("failed to count emissions", err)
	}
	if count > 0 {
		return validationError(fmt.Sprintf("la plantilla tiene %d emisiones registradas y no puede eliminarse", count))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return persistenceError(err)
	}
	logger.Infof("[TemplateService] Template %s deleted", id)
	return nil
}

// Activate 激活模板，同范围内其他激活模板在同一事务中作废
func (s *TemplateService) Activate(ctx context.Context, id string) (template *model.DocumentTemplate, err error) {
	defer func() {
		result := "success"
		if err != nil {
			result = KindOf(err).String()
		}
		metrics.TemplateActivationsTotal.WithLabelValues(result).Inc()
	}()

	template, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.locker != nil {
		release, lockErr := s.locker.Acquire(ctx, scopeKey(template))
		if lockErr != nil {
			if errors.Is(lockErr, distributed.ErrLockHeld) {
				return nil, validationError("otra activación está en curso para esta categoría")
			}
			return nil, unexpectedError("failed to acquire activation lock", lockErr)
		}
		defer release()
	}

	at := s.now()
	demoted, err := s.repo.Activate(ctx, template, at)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Plantilla no encontrada")
		}
		return nil, persistenceError(err)
	}

	template.Estado = model.TemplateStatusActive
	template.ActivaDesde = &at
	logger.Infof("[TemplateService] Template %s activated (scope=%s, demoted=%d)", template.ID, scopeKey(template), demoted)
	return template, nil
}

// Obsolete 作废模板
func (s *TemplateService) Obsolete(ctx context.Context, id string) (*model.DocumentTemplate, error) {
	template, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetStatus(ctx, id, model.TemplateStatusObsolete); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Plantilla no encontrada")
		}
		return nil, persistenceError(err)
	}
	template.Estado = model.TemplateStatusObsolete
	logger.Infof("[TemplateService] Template %s marked obsolete", template.ID)
	return template, nil
}

// scopeKey (categoria, ambito[, institucion_id])
func scopeKey(t *model.DocumentTemplate) string {
	key := t.Categoria + ":" + t.Ambito
	if t.Ambito == model.TemplateScopeInstitutional && t.InstitucionID != nil {
		key += ":" + *t.InstitucionID
	}
	return key
}
