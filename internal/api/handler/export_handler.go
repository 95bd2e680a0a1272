package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/shiven424/hostel-system/internal/service"
	"github.com/shiven424/hostel-system/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportResidents 导出楼内学生名单
// GET /hostels/:name/students/export
func (h *ExportHandler) ExportResidents(c *gin.Context) {
	name, ok := pathParam(c, "name", "宿舍楼名称不能为空")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportResidents(c.Request.Context(), name)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHostelNotFound):
		response.NotFound(c, 12001, "宿舍楼不存在")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 16001, "生成 Excel 文件失败")
	default:
		response.InternalError(c)
	}
}
