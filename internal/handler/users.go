package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vitalscan/vitalscan-server/internal/repository"
	"github.com/vitalscan/vitalscan-server/pkg/model"
	"go.uber.org/zap"
)

const defaultHistoryDays = 30

// UserHandler implements the user profile and history endpoints.
type UserHandler struct {
	store  *repository.UserStore
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store *repository.UserStore, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		store:  store,
		logger: logger,
	}
}

// Register creates a new user profile.
func (h *UserHandler) Register(c *gin.Context) {
	var info model.PersonalInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid registration body",
		})
		return
	}

	profile, err := h.store.Register(info)
	if err != nil {
		h.logger.Error("failed to register user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to register user",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    profile,
	})
}

// Get returns a user profile by ID.
func (h *UserHandler) Get(c *gin.Context) {
	profile, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    profile,
	})
}

type updateUserRequest struct {
	PersonalInfo *model.PersonalInfo `json:"personalInfo"`
	Goals        []string            `json:"goals"`
	Preferences  map[string]any      `json:"preferences"`
}

// Update merges profile changes into the stored record.
func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid update body",
		})
		return
	}

	profile, err := h.store.Update(c.Param("id"), req.PersonalInfo, req.Goals, req.Preferences)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    profile,
	})
}

type healthEntryRequest struct {
	HealthData      map[string]any                    `json:"healthData"`
	AnalysisResults map[model.Modality]model.Analysis `json:"analysisResults"`
	Type            string                            `json:"type"`
}

// AppendHealthEntry records an analysis run on the profile and awards XP.
func (h *UserHandler) AppendHealthEntry(c *gin.Context) {
	var req healthEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid health entry body",
		})
		return
	}

	entryType := req.Type
	if entryType == "" {
		entryType = "health_analysis"
	}

	profile, entry, err := h.store.AppendHealthEntry(c.Param("id"), req.HealthData, req.AnalysisResults, entryType)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    profile,
		"entry":   entry,
	})
}

// History returns the trailing window of health entries with trend series.
func (h *UserHandler) History(c *gin.Context) {
	days := defaultHistoryDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "days must be a positive integer",
			})
			return
		}
		days = parsed
	}

	entries, trends, err := h.store.History(c.Param("id"), days)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": entries,
		"trends":  trends,
	})
}

func (h *UserHandler) respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "user not found",
		})
		return
	}
	h.logger.Error("user store failure", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "internal storage error",
	})
}
