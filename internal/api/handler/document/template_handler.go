package document

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/pnccp/pnccp-backend/internal/service/auth"
	documentService "github.com/pnccp/pnccp-backend/internal/service/document"
)

type TemplateHandler struct {
	service *documentService.TemplateService
}

func NewTemplateHandler(service *documentService.TemplateService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// ListTemplates 获取模板列表
// @Summary 获取模板列表
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param categoria query string false "分类"
// @Param estado query string false "状态 borrador/activo/obsoleto"
// @Param ambito query string false "范围 nacional/institucional"
// @Param search query string false "名称搜索"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} model.Response{data=model.PaginatedResponse{data=[]model.DocumentTemplate}}
// @Router /api/v1/templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	var filter model.TemplateFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, "参数错误: "+err.Error()))
		return
	}

	// 机构管理员只能看到全国模板和本机构模板
	if c.GetString("role") == auth.RoleAdminInstitucional {
		if inst := c.GetString("institucion_id"); inst != "" {
			filter.InstitucionID = inst
		}
	}

	templates, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	page, pageSize := model.NormalizePage(filter.Page, filter.PageSize)
	c.JSON(http.StatusOK, model.Success(model.NewPaginatedResponse(templates, total, page, pageSize)))
}

// GetTemplate 获取模板详情
// @Summary 获取模板详情
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path string true "模板ID"
// @Success 200 {object} model.Response{data=model.DocumentTemplate}
// @Failure 404 {object} model.Response
// @Router /api/v1/templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	template, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(template))
}

// CreateTemplate 创建草稿模板
// @Summary 创建模板
// @Tags templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateTemplateRequest true "模板"
// @Success 200 {object} model.Response{data=model.DocumentTemplate}
// @Failure 400 {object} model.Response
// @Router /api/v1/templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req model.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, "参数错误: "+err.Error()))
		return
	}

	if inst, restricted := institutionScope(c); restricted {
		if req.Ambito == "" {
			req.Ambito = model.TemplateScopeInstitutional
		}
		if req.InstitucionID == nil || *req.InstitucionID == "" {
			req.InstitucionID = &inst
		}
		if inst == "" || req.Ambito != model.TemplateScopeInstitutional || *req.InstitucionID != inst {
			forbidden(c)
			return
		}
	}

	template, err := h.service.Create(c.Request.Context(), req, c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(template))
}

// UpdateTemplate 更新模板
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req model.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, "参数错误: "+err.Error()))
		return
	}
	if !h.authorizeTemplate(c) {
		return
	}

	template, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(template))
}

// DeleteTemplate 删除模板
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	if !h.authorizeTemplate(c) {
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

// ActivateTemplate 激活模板
// @Summary 激活模板
// @Description 激活模板，同分类同范围的其他激活模板会被作废
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path string true "模板ID"
// @Success 200 {object} model.Response{data=model.DocumentTemplate}
// @Router /api/v1/templates/{id}/activate [post]
func (h *TemplateHandler) ActivateTemplate(c *gin.Context) {
	if !h.authorizeTemplate(c) {
		return
	}
	template, err := h.service.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(template))
}

// ObsoleteTemplate 作废模板
func (h *TemplateHandler) ObsoleteTemplate(c *gin.Context) {
	if !h.authorizeTemplate(c) {
		return
	}
	template, err := h.service.Obsolete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(template))
}

// institutionScope 机构管理员返回其机构ID；其他角色不受限
func institutionScope(c *gin.Context) (string, bool) {
	if c.GetString("role") != auth.RoleAdminInstitucional {
		return "", false
	}
	return c.GetString("institucion_id"), true
}

// authorizeTemplate 机构管理员只能修改本机构的模板，全国模板只读
func (h *TemplateHandler) authorizeTemplate(c *gin.Context) bool {
	inst, restricted := institutionScope(c)
	if !restricted {
		return true
	}

	template, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return false
	}
	if inst == "" || template.Ambito != model.TemplateScopeInstitutional ||
		template.InstitucionID == nil || *template.InstitucionID != inst {
		forbidden(c)
		return false
	}
	return true
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, model.Error(403, "No autorizado para modificar esta plantilla"))
}
