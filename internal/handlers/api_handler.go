package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"order_history/internal/models"
	"order_history/internal/services"
)

// SessionWriter stores and removes a visitor's session values.
type SessionWriter interface {
	SetSessionValue(ctx context.Context, sessionID, field, value string, ttl time.Duration) error
	DeleteSessionValue(ctx context.Context, sessionID, field string) error
}

type APIHandler struct {
	sessions     SessionWriter
	auditService services.AuditService
	sessionKey   string
	sessionTTL   time.Duration
}

func NewAPIHandler(
	sessions SessionWriter,
	auditService services.AuditService,
	sessionKey string,
	sessionTTL time.Duration,
) *APIHandler {
	return &APIHandler{
		sessions:     sessions,
		auditService: auditService,
		sessionKey:   sessionKey,
		sessionTTL:   sessionTTL,
	}
}

// Session management endpoints
func (h *APIHandler) StoreSession(c *gin.Context) {
	var req struct {
		User *string `json:"user"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.User == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id := visitorID(c)
	if err := h.sessions.SetSessionValue(c.Request.Context(), id, h.sessionKey, *req.User, h.sessionTTL); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": id,
		"status":     "stored",
	})
}

func (h *APIHandler) DeleteSession(c *gin.Context) {
	id := visitorID(c)
	if err := h.sessions.DeleteSessionValue(c.Request.Context(), id, h.sessionKey); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": id,
		"status":     "deleted",
	})
}

// Fetch audit endpoint
func (h *APIHandler) FetchLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
		return
	}

	ctx := c.Request.Context()
	var entries []models.FetchLog
	if email := c.Query("email"); email != "" {
		entries, err = h.auditService.ForIdentity(ctx, email, limit)
	} else {
		entries, err = h.auditService.Recent(ctx, limit)
	}
	if errors.Is(err, services.ErrAuditDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Fetch audit log is disabled"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load fetch logs"})
		return
	}

	if entries == nil {
		entries = []models.FetchLog{}
	}
	c.JSON(http.StatusOK, gin.H{"fetch_logs": entries})
}
