package handler

import (
	"context"
	"net/http"
	"time"

	. "lovemap/internal/adapter/http/helper"
	"lovemap/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		SendError(c, http.StatusServiceUnavailable, "UNAVAILABLE", []response.ValidationError{{Field: "database", Message: err.Error()}})
		return
	}

	SendSuccess(c, http.StatusOK, gin.H{"status": "ok"})
}
