// Package handler implements the HTTP API endpoints.
package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vitalscan/vitalscan-server/internal/analyzer"
	"github.com/vitalscan/vitalscan-server/internal/service"
	"github.com/vitalscan/vitalscan-server/pkg/model"
	"go.uber.org/zap"
)

// AnalysisHandler implements the per-modality analysis endpoints.
type AnalysisHandler struct {
	service *service.AnalysisService
	logger  *zap.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(service *service.AnalysisService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		logger:  logger,
	}
}

// AnalyzeModality analyzes one uploaded sample. The modality comes from the
// path; the sample is the first file of the multipart form regardless of
// field name. A request without a file still succeeds with an empty result.
func (h *AnalysisHandler) AnalyzeModality(c *gin.Context) {
	modality, ok := model.ParseModality(c.Param("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "unknown analysis type: " + c.Param("type"),
		})
		return
	}

	h.analyze(c, modality)
}

// AnalyzeAudio analyzes an uploaded voice sample.
func (h *AnalysisHandler) AnalyzeAudio(c *gin.Context) {
	h.analyze(c, model.ModalityAudio)
}

func (h *AnalysisHandler) analyze(c *gin.Context, modality model.Modality) {
	sample, err := firstUploadedFile(c)
	if err != nil {
		h.logger.Warn("failed to read uploaded sample",
			zap.String("modality", string(modality)),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid multipart upload",
		})
		return
	}

	result := h.service.Analyze(c.Request.Context(), modality, sample)
	c.JSON(http.StatusOK, result)
}

// firstUploadedFile returns the first file of any multipart field, or nil
// when the request has no file upload at all.
func firstUploadedFile(c *gin.Context) (*analyzer.Sample, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body is treated the same as no sample.
		return nil, nil
	}

	for _, files := range form.File {
		for _, file := range files {
			return readSample(file)
		}
	}
	return nil, nil
}

func readSample(file *multipart.FileHeader) (*analyzer.Sample, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &analyzer.Sample{
		MIMEType: file.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}
