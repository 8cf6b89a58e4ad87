package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vitalscan/vitalscan-server/internal/analyzer"
	"go.uber.org/zap"
)

// SpeechHandler implements text-to-speech synthesis for report read-aloud.
type SpeechHandler struct {
	ai     *analyzer.OpenAIClient
	logger *zap.Logger
}

// NewSpeechHandler creates a new SpeechHandler. ai may be nil when the
// provider is not configured.
func NewSpeechHandler(ai *analyzer.OpenAIClient, logger *zap.Logger) *SpeechHandler {
	return &SpeechHandler{
		ai:     ai,
		logger: logger,
	}
}

type speechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// Synthesize converts text to MP3 audio. Without a configured provider it
// returns 204 so clients can silently skip playback.
func (h *SpeechHandler) Synthesize(c *gin.Context) {
	var req speechRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "text is required",
		})
		return
	}

	if h.ai == nil {
		c.Status(http.StatusNoContent)
		return
	}

	audio, err := h.ai.Synthesize(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		h.logger.Error("failed to synthesize speech", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "failed to synthesize speech",
		})
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", audio)
}
