package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes wires all API endpoints onto the router. The fixed audio
// route is registered before the parameterized analysis route so it wins
// the match.
func RegisterRoutes(router *gin.Engine, analysis *AnalysisHandler, reports *ReportHandler, users *UserHandler, speech *SpeechHandler) {
	api := router.Group("/api")

	api.GET("/health", Health)

	api.POST("/analyze/audio", analysis.AnalyzeAudio)
	api.POST("/analyze/:type", analysis.AnalyzeModality)

	api.POST("/report/generate", reports.Generate)
	api.POST("/report/pdf", reports.RenderPDF)
	api.GET("/report/:id", reports.Download)
	api.POST("/report/email", reports.Email)
	api.POST("/report/whatsapp", reports.WhatsApp)

	api.POST("/users/register", users.Register)
	api.GET("/users/:id", users.Get)
	api.PUT("/users/:id", users.Update)
	api.POST("/users/:id/health", users.AppendHealthEntry)
	api.GET("/users/:id/history", users.History)

	api.POST("/tts", speech.Synthesize)
}
