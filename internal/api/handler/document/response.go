package document

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pnccp/pnccp-backend/internal/model"
	documentService "github.com/pnccp/pnccp-backend/internal/service/document"
)

// respondError 按错误类别返回 {code, message}，5xx 记录详细日志
func respondError(c *gin.Context, err error) {
	status := documentService.KindOf(err).HTTPStatus()
	if status >= http.StatusInternalServerError {
		model.HandleError(c, status, err)
		return
	}
	c.JSON(status, model.Error(status, err.Error()))
}
