package audit

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/pnccp/pnccp-backend/pkg/logger"
	"go.uber.org/zap"
)

// OperationLogReader 操作日志查询
type OperationLogReader interface {
	List(ctx context.Context, filter model.OperationLogFilter) ([]model.OperationLog, int64, error)
	Export(ctx context.Context, filter model.OperationLogFilter) ([]model.OperationLog, error)
}

type AuditHandler struct {
	logs OperationLogReader
}

func NewAuditHandler(logs OperationLogReader) *AuditHandler {
	return &AuditHandler{logs: logs}
}

// GetOperationLogs 获取操作日志列表
// @Summary 获取操作日志列表
// @Tags 操作审计
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username query string false "用户名"
// @Param path query string false "API路径"
// @Param method query string false "HTTP方法"
// @Param status query int false "状态码"
// @Param start_time query string false "开始时间 (格式: 2006-01-02 15:04:05)"
// @Param end_time query string false "结束时间 (格式: 2006-01-02 15:04:05)"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} model.Response{data=model.PaginatedResponse{data=[]model.OperationLog}}
// @Failure 400 {object} model.Response
// @Failure 500 {object} model.Response
// @Router /api/v1/audit/operation-logs [get]
func (h *AuditHandler) GetOperationLogs(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	logs, total, err := h.logs.List(c.Request.Context(), filter)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "查询失败")
		return
	}

	page, pageSize := model.NormalizePage(filter.Page, filter.PageSize)
	c.JSON(http.StatusOK, model.Success(model.NewPaginatedResponse(logs, total, page, pageSize)))
}

// ExportOperationLogs 导出操作日志
// @Summary 导出操作日志
// @Tags 操作审计
// @Produce text/csv
// @Produce json
// @Security BearerAuth
// @Param format query string false "csv / json" default(csv)
// @Router /api/v1/audit/operation-logs/export [get]
func (h *AuditHandler) ExportOperationLogs(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "json" {
		c.JSON(http.StatusBadRequest, model.Error(400, "format 只支持 csv 或 json"))
		return
	}

	logs, err := h.logs.Export(c.Request.Context(), filter)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err, "导出失败")
		return
	}

	filename := fmt.Sprintf("auditoria_%s.%s", time.Now().Format("20060102_150405"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if format == "json" {
		c.JSON(http.StatusOK, logs)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	// 响应头已发送，写入失败只能记录日志
	if err := writeOperationLogsCSV(c.Writer, logs); err != nil {
		logger.Error("[AuditHandler] Failed to write CSV export",
			zap.Int("rows", len(logs)), zap.String("client_ip", c.ClientIP()), zap.Error(err))
	}
}

var csvHeader = []string{"id", "fecha", "usuario_id", "usuario", "ip", "metodo", "ruta", "descripcion", "estado", "duracion_ms", "navegador"}

// writeOperationLogsCSV 写出 CSV，返回第一个写入错误
func writeOperationLogsCSV(out io.Writer, logs []model.OperationLog) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, log := range logs {
		err := w.Write([]string{
			strconv.FormatUint(uint64(log.ID), 10),
			log.StartTime.Format(time.RFC3339),
			log.UserID,
			log.Username,
			log.IP,
			log.Method,
			log.Path,
			log.Desc,
			strconv.Itoa(log.Status),
			strconv.FormatInt(log.TimeCost, 10),
			log.UserAgent,
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func bindFilter(c *gin.Context) (model.OperationLogFilter, bool) {
	var filter model.OperationLogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, model.Error(400, "参数错误: "+err.Error()))
		return filter, false
	}
	for _, ts := range []string{filter.StartTime, filter.EndTime} {
		if ts == "" {
			continue
		}
		if _, err := time.Parse(model.FilterTimeLayout, ts); err != nil {
			c.JSON(http.StatusBadRequest, model.Error(400, "时间格式错误，应为 2006-01-02 15:04:05"))
			return filter, false
		}
	}
	return filter, true
}
