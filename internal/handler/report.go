package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vitalscan/vitalscan-server/internal/analyzer"
	"github.com/vitalscan/vitalscan-server/internal/delivery"
	"github.com/vitalscan/vitalscan-server/internal/service"
	"github.com/vitalscan/vitalscan-server/pkg/model"
	"go.uber.org/zap"
)

const reportFilename = "health-report.pdf"

// ReportHandler implements report generation, rendering, and delivery
// endpoints.
type ReportHandler struct {
	analysis *service.AnalysisService
	reports  *service.ReportService
	email    *delivery.EmailSender
	whatsapp *delivery.WhatsAppSender
	logger   *zap.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(
	analysis *service.AnalysisService,
	reports *service.ReportService,
	email *delivery.EmailSender,
	whatsapp *delivery.WhatsAppSender,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		analysis: analysis,
		reports:  reports,
		email:    email,
		whatsapp: whatsapp,
		logger:   logger,
	}
}

// Generate analyzes every uploaded sample and returns the assembled report.
// Each multipart field is one modality; unknown field names are ignored.
func (h *ReportHandler) Generate(c *gin.Context) {
	form, err := c.MultipartForm()
	samples := map[model.Modality]*analyzer.Sample{}
	if err == nil {
		for field, files := range form.File {
			modality, ok := model.ParseModality(field)
			if !ok || len(files) == 0 {
				continue
			}
			sample, err := readSample(files[0])
			if err != nil {
				h.logger.Warn("failed to read uploaded sample",
					zap.String("modality", string(modality)),
					zap.Error(err),
				)
				continue
			}
			samples[modality] = sample
		}
	}

	results := h.analysis.AnalyzeAll(c.Request.Context(), samples)

	analyses := make(map[model.Modality]model.Analysis, len(results))
	captured := make([]model.Modality, 0, len(results))
	for modality, result := range results {
		analyses[modality] = result.Analysis
		captured = append(captured, modality)
	}

	report := h.reports.BuildReport(analyses, captured, time.Now().UTC())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  report,
	})
}

type renderRequest struct {
	Report *model.Report `json:"report" binding:"required"`
}

// RenderPDF renders a previously generated report as a PDF attachment.
func (h *ReportHandler) RenderPDF(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "request body must contain a report",
		})
		return
	}

	data, reportID, err := h.reports.RenderPDF(c.Request.Context(), req.Report)
	if err != nil {
		h.logger.Error("failed to render report PDF", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to render report PDF",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", reportFilename))
	c.Header("X-Report-ID", reportID)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Download returns an archived report PDF by its ID.
func (h *ReportHandler) Download(c *gin.Context) {
	reportID := c.Param("id")

	data, err := h.reports.ArchivedPDF(c.Request.Context(), reportID)
	if err != nil {
		if errors.Is(err, service.ErrArchiveNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   "report archive is not configured",
			})
			return
		}
		h.logger.Warn("archived report not found",
			zap.String("report_id", reportID),
			zap.Error(err),
		)
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "report not found",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", reportFilename))
	c.Data(http.StatusOK, "application/pdf", data)
}

type emailRequest struct {
	To      string        `json:"to"`
	Subject string        `json:"subject"`
	Report  *model.Report `json:"report"`
}

// Email renders the report and mails it as an attachment.
func (h *ReportHandler) Email(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.To == "" || req.Report == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "to and report are required",
		})
		return
	}

	if !h.email.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "email delivery is not configured",
		})
		return
	}

	data, reportID, err := h.reports.RenderPDF(c.Request.Context(), req.Report)
	if err != nil {
		h.logger.Error("failed to render report PDF", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to render report PDF",
		})
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = "Your Health Analysis Report"
	}
	body := "Please find your health analysis report attached."

	if err := h.email.Send(c.Request.Context(), req.To, subject, body, data); err != nil {
		h.logger.Error("failed to send report email",
			zap.String("report_id", reportID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "failed to send report email",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type whatsappRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// WhatsApp sends a report-ready notification over WhatsApp.
func (h *ReportHandler) WhatsApp(c *gin.Context) {
	var req whatsappRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.To == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "to is required",
		})
		return
	}

	if !h.whatsapp.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "WhatsApp delivery is not configured",
		})
		return
	}

	message := req.Message
	if message == "" {
		message = "Your Health Analysis Report is ready."
	}

	sid, err := h.whatsapp.Send(req.To, message)
	if err != nil {
		h.logger.Error("failed to send WhatsApp notification", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "failed to send WhatsApp message",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"messageId": sid,
	})
}
