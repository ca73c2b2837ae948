package controllers

import (
	"fmt"
	"net/http"

	"salescheck/dto"
	"salescheck/middleware"
	"salescheck/response"
	"salescheck/services"
	"salescheck/store"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	reports *services.ReportService
}

func NewHistoryController(reports *services.ReportService) *HistoryController {
	return &HistoryController{reports: reports}
}

func pagination(page *store.RecordPage) response.Pagination {
	return response.Pagination{
		Limit:      page.Limit,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}
}

// GetHistory godoc
// @Summary Lịch sử check-in. Admin xem toàn bộ bản ghi, user xem của mình.
// @Tags history
// @Security BearerAuth
// @Produce json
// @Param company query string false "Lọc theo tên công ty (chứa chuỗi)"
// @Param date query string false "Ngày check-in YYYY-MM-DD"
// @Success 200 {object} response.Response{data=[]models.CheckInRecord}
// @Router /history [get]
func (h *HistoryController) GetHistory(c *gin.Context) {
	session := middleware.GetSession(c)
	if session.IsAdmin {
		h.GetRecords(c)
		return
	}

	var q dto.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	records, err := h.reports.UserHistory(c.Request.Context(), session, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, records)
}

// GetRecords godoc
// @Summary Danh sách bản ghi cho admin, phân trang theo cursor
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param userId query string false "User ID"
// @Param name query string false "Tên"
// @Param companyName query string false "Công ty"
// @Param location query string false "Địa điểm"
// @Param from query string false "Từ ngày YYYY-MM-DD"
// @Param to query string false "Đến ngày YYYY-MM-DD"
// @Param cursor query string false "Cursor trang tiếp theo"
// @Param limit query int false "Số bản ghi mỗi trang (tối đa 100)"
// @Success 200 {object} response.Response
// @Failure 400,401,403 {object} response.Response
// @Router /admin/records [get]
func (h *HistoryController) GetRecords(c *gin.Context) {
	var q dto.RecordQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page, filters, err := h.reports.AdminRecords(c.Request.Context(), middleware.GetSession(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, gin.H{
		"records": page.Records,
		"filters": filters,
	}, pagination(page))
}

// ExportRecords godoc
// @Summary Xuất trang bản ghi đang xem ra CSV, PDF hoặc XLSX
// @Tags admin
// @Security BearerAuth
// @Produce text/csv,application/pdf,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv | pdf | xlsx"
// @Success 200 {file} file
// @Router /admin/records/export [get]
func (h *HistoryController) ExportRecords(c *gin.Context) {
	var q dto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page, err := h.reports.QueryPage(c.Request.Context(), q.RecordQuery)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := services.Export(page.Records, services.ExportFormat(q.Format), q.From, q.To, h.reports.Location())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
