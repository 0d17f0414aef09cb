package document

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pnccp/pnccp-backend/internal/model"
	documentService "github.com/pnccp/pnccp-backend/internal/service/document"
)

type EmissionHandler struct {
	service *documentService.EmissionService
}

func NewEmissionHandler(service *documentService.EmissionService) *EmissionHandler {
	return &EmissionHandler{service: service}
}

// ListEmissions 获取发放记录
// @Summary 获取发放记录
// @Tags emissions
// @Produce json
// @Security BearerAuth
// @Param entidad_origen query string false "实体类型"
// @Param entidad_id query string false "实体ID"
// @Param estado_emision query string false "发放状态"
// @Param from query string false "开始日期 (2006-01-02)"
// @Param to query string false "结束日期 (2006-01-02)"
// @Success 200 {object} model.Response{data=model.PaginatedResponse{data=[]model.DocumentEmission}}
// @Router /api/v1/emissions [get]
func (h *EmissionHandler) ListEmissions(c *gin.Context) {
	var filter model.EmissionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, "参数错误: "+err.Error()))
		return
	}

	emissions, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	page, pageSize := model.NormalizePage(filter.Page, filter.PageSize)
	c.JSON(http.StatusOK, model.Success(model.NewPaginatedResponse(emissions, total, page, pageSize)))
}

// GetEmission 获取发放记录详情
func (h *EmissionHandler) GetEmission(c *gin.Context) {
	emission, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(emission))
}

// UpdateEmissionStatus 变更发放状态
// @Summary 变更发放状态
// @Description 只允许 generado -> enviado / archivado / revocado
// @Tags emissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "发放ID"
// @Param body body model.EmissionStatusRequest true "目标状态"
// @Success 200 {object} model.Response{data=model.DocumentEmission}
// @Failure 400 {object} model.Response
// @Router /api/v1/emissions/{id}/status [post]
func (h *EmissionHandler) UpdateEmissionStatus(c *gin.Context) {
	var req model.EmissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, "参数错误: "+err.Error()))
		return
	}

	emission, err := h.service.Transition(c.Request.Context(), c.Param("id"), req.EstadoEmision)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(emission))
}

// VerifyEmission 校验文档完整性
func (h *EmissionHandler) VerifyEmission(c *gin.Context) {
	var req model.VerifyEmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, "参数错误: "+err.Error()))
		return
	}

	result, err := h.service.Verify(c.Request.Context(), c.Param("id"), req.Contenido)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(result))
}
