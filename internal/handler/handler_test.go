package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalscan/vitalscan-server/internal/analyzer"
	"github.com/vitalscan/vitalscan-server/internal/delivery"
	"github.com/vitalscan/vitalscan-server/internal/pdf"
	"github.com/vitalscan/vitalscan-server/internal/repository"
	"github.com/vitalscan/vitalscan-server/internal/service"
	"go.uber.org/zap"
)

// setupRouter wires the full API with no external providers configured:
// analysis runs offline, delivery and the archive are disabled.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	logger := zap.NewNop()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gateway := analyzer.NewGateway(nil, logger)
	analysisService := service.NewAnalysisService(gateway, logger)
	reportService := service.NewReportService(pdf.NewGenerator(logger), nil, logger)

	analysisHandler := NewAnalysisHandler(analysisService, logger)
	reportHandler := NewReportHandler(
		analysisService,
		reportService,
		delivery.NewEmailSender(delivery.EmailConfig{}, logger),
		delivery.NewWhatsAppSender(delivery.WhatsAppConfig{}, logger),
		logger,
	)
	userHandler := NewUserHandler(repository.NewUserStore(db, logger), logger)
	speechHandler := NewSpeechHandler(nil, logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, analysisHandler, reportHandler, userHandler, speechHandler)
	return router
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestAnalyzeModality_UnknownType(t *testing.T) {
	router := setupRouter(t)

	body, contentType := multipartBody(t, "image", "sample.jpg", []byte{0xff, 0xd8})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze/fingernail", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["error"])
}

func TestAnalyzeModality_OfflineReturnsEmptyResult(t *testing.T) {
	router := setupRouter(t)

	body, contentType := multipartBody(t, "image", "face.jpg", []byte{0xff, 0xd8, 0xff})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze/face", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool           `json:"success"`
		Analysis map[string]any `json:"analysis"`
		Meta     struct {
			Source string `json:"source"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Analysis)
	assert.Equal(t, "none", resp.Meta.Source)
}

func TestAnalyzeModality_NoFile(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze/eyes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestReportGenerate_IncludesSubmittedModalities(t *testing.T) {
	router := setupRouter(t)

	body, contentType := multipartBody(t, "face", "face.jpg", []byte{0xff, 0xd8})
	req := httptest.NewRequest(http.MethodPost, "/api/report/generate", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Report  struct {
			Analyses        map[string]map[string]any `json:"analyses"`
			OverallHealth   map[string]any            `json:"overallHealth"`
			Recommendations []string                  `json:"recommendations"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Report.Analyses, "face")
	assert.Contains(t, resp.Report.Recommendations, "Maintain regular exercise routine")
	assert.EqualValues(t, 0, resp.Report.OverallHealth["factors"], "no readings offline")
}

func TestReportPDF_ReturnsAttachment(t *testing.T) {
	router := setupRouter(t)

	payload := `{"report":{"timestamp":"2025-03-14T09:30:00Z","analyses":{"face":{"healthIndicators":{"hydration":"good"}}},"recommendations":[]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/report/pdf", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, fmt.Sprintf("attachment; filename=%s", reportFilename), w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestReportPDF_MissingReport(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/report/pdf", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportDownload_ArchiveNotConfigured(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/report/LOYW3V28", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestReportEmail_NotConfigured(t *testing.T) {
	router := setupRouter(t)

	payload := `{"to":"patient@example.com","report":{"timestamp":"2025-03-14T09:30:00Z","analyses":{},"recommendations":[]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/report/email", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestReportEmail_MissingRecipient(t *testing.T) {
	router := setupRouter(t)

	payload := `{"report":{"timestamp":"2025-03-14T09:30:00Z","analyses":{},"recommendations":[]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/report/email", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportWhatsApp_NotConfigured(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/report/whatsapp", bytes.NewBufferString(`{"to":"+15551234567"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSpeech_OfflineReturnsNoContent(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/tts", bytes.NewBufferString(`{"text":"Your report is ready."}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSpeech_MissingText(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/tts", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserLifecycle(t *testing.T) {
	router := setupRouter(t)

	// Register
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewBufferString(`{"name":"Anna","email":"anna@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var registered struct {
		User struct {
			ID           string `json:"id"`
			Gamification struct {
				Level  int      `json:"level"`
				Badges []string `json:"badges"`
			} `json:"gamificationData"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	require.NotEmpty(t, registered.User.ID)
	assert.Equal(t, 1, registered.User.Gamification.Level)
	assert.Equal(t, []string{"welcome"}, registered.User.Gamification.Badges)

	// Append a health entry
	entryPayload := `{"analysisResults":{"face":{"healthIndicators":{"hydration":"good"}}}}`
	req = httptest.NewRequest(http.MethodPost, "/api/users/"+registered.User.ID+"/health", bytes.NewBufferString(entryPayload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"xp":10`)

	// History with trends
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/"+registered.User.ID+"/history?days=30", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var history struct {
		History []json.RawMessage `json:"history"`
		Trends  struct {
			Hydration []struct {
				Value float64 `json:"value"`
			} `json:"hydration"`
		} `json:"trends"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history.History, 1)
	require.Len(t, history.Trends.Hydration, 1)
	assert.Equal(t, float64(3), history.Trends.Hydration[0].Value)
}

func TestUserGet_NotFound(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/00000000-0000-0000-0000-000000000000", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistory_InvalidDays(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/some-id/history?days=zero", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
