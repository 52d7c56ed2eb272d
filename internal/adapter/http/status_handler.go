package http

import (
	"context"
	"net/http"
	"time"

	"github.com/IDLKZ/jankuier-back-sub002/internal/adapter/repo"
	"github.com/gin-gonic/gin"
)

// StatusHandler serves the seeded status catalogs so clients can render
// the lifecycle without hardcoding it.
type StatusHandler struct {
	statuses *repo.MySQLStatusRepo
}

func NewStatusHandler(statuses *repo.MySQLStatusRepo) *StatusHandler {
	return &StatusHandler{statuses: statuses}
}

// ListOrderStatuses handles GET /v1/order-statuses.
func (h *StatusHandler) ListOrderStatuses(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	entries, err := h.statuses.ListOrderStatuses(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statuses": entries})
}

// ListOrderItemStatuses handles GET /v1/order-item-statuses.
func (h *StatusHandler) ListOrderItemStatuses(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	entries, err := h.statuses.ListOrderItemStatuses(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statuses": entries})
}
