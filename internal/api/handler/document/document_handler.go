package document

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pnccp/pnccp-backend/internal/model"
	documentService "github.com/pnccp/pnccp-backend/internal/service/document"
	"github.com/pnccp/pnccp-backend/pkg/logger"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	generator *documentService.Generator
}

func NewDocumentHandler(generator *documentService.Generator) *DocumentHandler {
	return &DocumentHandler{generator: generator}
}

// Generate 生成文档并登记发放
// @Summary 生成文档
// @Description 使用激活模板和业务实体数据生成文档，计算 SHA-256 摘要并登记发放记录
// @Tags documents
// @Accept json
// @Produce json
// @Param x-user-id header string false "操作人ID"
// @Param body body model.GenerateDocumentRequest true "生成请求"
// @Success 200 {object} model.GenerateDocumentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/documents/generate [post]
func (h *DocumentHandler) Generate(c *gin.Context) {
	var req model.GenerateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON no válido: " + err.Error()})
		return
	}

	// x-user-id 优先，其次是 Token 中的用户
	userID := c.GetHeader("x-user-id")
	if userID == "" {
		userID = c.GetString("user_id")
	}

	resp, err := h.generator.Generate(c.Request.Context(), documentService.GenerateInput{
		GenerateDocumentRequest: req,
		UserID:                  userID,
		UserAgent:               c.GetHeader("user-agent"),
		ForwardedFor:            c.GetHeader("x-forwarded-for"),
	})
	if err != nil {
		kind := documentService.KindOf(err)
		if kind == documentService.KindUnexpected || kind == documentService.KindPersistence {
			logger.Error("Error en generate-documents",
				zap.String("template_id", req.TemplateID),
				zap.String("entidad_origen", req.EntidadOrigen),
				zap.String("entidad_id", req.EntidadID),
				zap.Error(err))
		}
		c.JSON(kind.HTTPStatus(), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
