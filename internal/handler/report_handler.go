package handler

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/agroscan-api/internal/domain/entity"
	"github.com/yourusername/agroscan-api/internal/middleware"
	"github.com/yourusername/agroscan-api/internal/service"
)

// ReportHandler serves crop-health report endpoints.
type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ReportRequest is the body of POST /farms/:id/reports.
type ReportRequest struct {
	Disease       string  `json:"disease" binding:"omitempty,max=100"`
	Confidence    float64 `json:"confidence" binding:"omitempty,gte=0,lte=1"`
	Severity      string  `json:"severity" binding:"required,oneof=low moderate high"`
	AffectedShare float64 `json:"affected_share" binding:"omitempty,gte=0,lte=1"`
	ImageCount    int     `json:"image_count" binding:"omitempty,gte=0"`
	Summary       string  `json:"summary" binding:"omitempty"`
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	ownerID, farmID, ok := farmRequestIDs(c)
	if !ok {
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	report, err := h.reportService.CreateReport(farmID, ownerID, service.ReportInput{
		Disease:       req.Disease,
		Confidence:    req.Confidence,
		Severity:      req.Severity,
		AffectedShare: req.AffectedShare,
		ImageCount:    req.ImageCount,
		Summary:       req.Summary,
	})
	if err != nil {
		handleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	ownerID, farmID, ok := farmRequestIDs(c)
	if !ok {
		return
	}

	reports, err := h.reportService.ListReports(farmID, ownerID)
	if err != nil {
		handleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	ownerID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.reportService.GetReport(c.Param("public_id"), ownerID)
	if err != nil {
		handleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetFarmSummary(c *gin.Context) {
	ownerID, farmID, ok := farmRequestIDs(c)
	if !ok {
		return
	}

	summary, err := h.reportService.GetFarmSummary(farmID, ownerID)
	if err != nil {
		handleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportReports streams a farm's report history as an XLSX workbook.
func (h *ReportHandler) ExportReports(c *gin.Context) {
	ownerID, farmID, ok := farmRequestIDs(c)
	if !ok {
		return
	}

	reports, err := h.reportService.ListReports(farmID, ownerID)
	if err != nil {
		handleAPIError(c, err)
		return
	}

	h.exportXLSX(c, reports, fmt.Sprintf("farm-%d-reports", farmID))
}

// exportXLSX writes reports with a StreamWriter so large histories do not
// buffer in memory.
func (h *ReportHandler) exportXLSX(c *gin.Context, reports []entity.Report, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Reports"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ReportHandler] failed to create stream writer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Report ID", "Disease", "Confidence", "Severity", "Affected Share", "Images", "Generated At", "Summary"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ReportHandler] failed to write headers: %v", err)
	}

	for i, r := range reports {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			r.PublicID,
			r.Disease,
			r.Confidence,
			r.Severity,
			r.AffectedShare,
			r.ImageCount,
			r.GeneratedAt.Format("2006-01-02 15:04:05"),
			r.Summary,
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ReportHandler] failed to write row %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ReportHandler] failed to flush stream writer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build Excel file"})
		return
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ReportHandler] failed to write Excel response: %v", err)
	}
}
