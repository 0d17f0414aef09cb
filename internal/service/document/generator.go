package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pnccp/pnccp-backend/internal/filestorage"
	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/pnccp/pnccp-backend/internal/repository"
	"github.com/pnccp/pnccp-backend/pkg/crypto"
	"github.com/pnccp/pnccp-backend/pkg/logger"
	"github.com/pnccp/pnccp-backend/pkg/metrics"
	"go.uber.org/zap"
)

const (
	msgRequiredFields   = "template_id, entidad_origen y entidad_id son obligatorios"
	msgTemplateNotFound = "Plantilla no encontrada o no activa"
	unknownOrigin       = "desconocida"
	shellContentType    = "text/html; charset=utf-8"
)

// ActiveTemplateStore 激活模板查询
type ActiveTemplateStore interface {
	FindActive(ctx context.Context, id string) (*model.DocumentTemplate, error)
}

// EmissionWriter 发放记录写入
type EmissionWriter interface {
	Create(ctx context.Context, emission *model.DocumentEmission) error
}

// GenerateInput 生成请求及请求来源
type GenerateInput struct {
	model.GenerateDocumentRequest

	// UserID 操作人ID，可以为空
	UserID string
	// UserAgent 为空时元数据中 navegador 为 null
	UserAgent    string
	ForwardedFor string
}

// Generator 文档生成流水线
type Generator struct {
	templates ActiveTemplateStore
	emissions EmissionWriter
	actors    *ActorResolver
	entities  EntityResolvers
	storage   filestorage.FileStorage
	formatter Formatter

	now   func() time.Time
	newID func() string
}

// NewGenerator 创建文档生成流水线
func NewGenerator(
	templates ActiveTemplateStore,
	emissions EmissionWriter,
	actors *ActorResolver,
	entities EntityResolvers,
	storage filestorage.FileStorage,
	formatter Formatter,
) *Generator {
	if storage == nil {
		storage = filestorage.Noop{}
	}
	return &Generator{
		templates: templates,
		emissions: emissions,
		actors:    actors,
		entities:  entities,
		storage:   storage,
		formatter: formatter,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Generate 生成文档并登记发放记录
// 各步骤顺序执行，任何一步失败都终止本次生成，唯一的写入是最后的发放记录
func (g *Generator) Generate(ctx context.Context, in GenerateInput) (resp *model.GenerateDocumentResponse, err error) {
	start := time.Now()
	defer func() {
		result := "success"
		if err != nil {
			result = KindOf(err).String()
		}
		origin := g.originLabel(in.EntidadOrigen)
		metrics.DocumentEmissionsTotal.WithLabelValues(origin, result).Inc()
		metrics.DocumentEmissionDuration.WithLabelValues(origin).Observe(time.Since(start).Seconds())
	}()

	if in.TemplateID == "" || in.EntidadOrigen == "" || in.EntidadID == "" {
		return nil, validationError(msgRequiredFields)
	}

	// 1. 激活模板
	template, err := g.templates.FindActive(ctx, in.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(msgTemplateNotFound)
		}
		return nil, unexpectedError("failed to load template", err)
	}

	// 2. 操作人
	userName := g.actors.DisplayName(ctx, in.UserID)

	// 3. 实体字段
	fields, err := g.entities.Resolve(ctx, in.EntidadOrigen, in.EntidadID)
	if err != nil {
		return nil, unexpectedError(fmt.Sprintf("failed to load %s %s", in.EntidadOrigen, in.EntidadID), err)
	}

	// 4. 合并变量，5. 插值
	vars, keys := Merge(in.Variables, fields)
	content := Interpolate(template.Body(), vars)

	// 6. 摘要
	hash := crypto.Fingerprint(content)

	// 7. HTML 外壳
	now := g.now()
	html := RenderShell(content, template.NombreDocumento, g.formatter.Timestamp(now), hash)

	// 8. 审计元数据
	metadata := model.EmissionMetadata{
		TemplateCategoria:   template.Categoria,
		TemplateTipo:        template.Tipo,
		VariablesUtilizadas: keys,
		UsuarioGenerador:    userName,
		IPOrigen:            in.ForwardedFor,
	}
	if in.UserAgent != "" {
		ua := in.UserAgent
		metadata.Navegador = &ua
	}
	if metadata.IPOrigen == "" {
		metadata.IPOrigen = unknownOrigin
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, unexpectedError("failed to encode metadata", err)
	}

	fileName := fmt.Sprintf("%s_v%d_%d", template.Tipo, template.Version, now.UnixMilli())
	path := fmt.Sprintf("documents/%s/%s/%s.%s", in.EntidadOrigen, in.EntidadID, fileName, template.Formato)

	if err := g.storage.Put(ctx, path, []byte(html), shellContentType); err != nil {
		logger.Error("[Generator] Failed to store document",
			zap.String("path", path), zap.String("storage", g.storage.Name()), zap.Error(err))
		return nil, persistenceError(err)
	}

	// 9. 登记发放
	emission := &model.DocumentEmission{
		ID:               g.newID(),
		TemplateID:       template.ID,
		EntidadOrigen:    in.EntidadOrigen,
		EntidadID:        in.EntidadID,
		VersionUtilizada: template.Version,
		HashDocumento:    hash,
		URLStorage:       path,
		EstadoEmision:    model.EmissionStatusGenerated,
		FechaEmision:     now,
		Metadata:         metadataJSON,
	}
	if in.UserID != "" {
		userID := in.UserID
		emission.UsuarioGenerador = &userID
	}
	if err := g.emissions.Create(ctx, emission); err != nil {
		logger.Error("[Generator] Failed to record emission",
			zap.String("template_id", template.ID), zap.String("entidad_origen", in.EntidadOrigen),
			zap.String("entidad_id", in.EntidadID), zap.Error(err))
		return nil, persistenceError(err)
	}

	logger.Info("[Generator] Document emitted",
		zap.String("emission_id", emission.ID),
		zap.String("template_id", template.ID),
		zap.Int("version", template.Version),
		zap.String("entidad_origen", in.EntidadOrigen),
		zap.String("entidad_id", in.EntidadID),
		zap.String("hash", hash))

	// 10. 返回结果
	return &model.GenerateDocumentResponse{
		Success:       true,
		EmissionID:    emission.ID,
		URLStorage:    path,
		HashDocumento: hash,
		FechaEmision:  emission.FechaEmision,
		FileName:      fileName,
		Formato:       template.Formato,
		Metadata:      metadata,
	}, nil
}

// originLabel 限制指标标签取值，未注册的实体类型统一为 other
func (g *Generator) originLabel(kind string) string {
	if _, ok := g.entities[kind]; ok {
		return kind
	}
	return "other"
}
