package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// TriggerSync godoc
// @Summary      Run the sync pipeline now
// @Description  Runs one synchronous pipeline pass and returns its report. full=true widens the history backfill to the full lookback window.
// @Tags         sync
// @Produce      json
// @Security     ApiKeyAuth
// @Param        full  query  bool  false  "Run the full history backfill"  default(false)
// @Success      200  {object}  domain.SyncReport
// @Failure      401  {object}  map[string]string
// @Router       /api/sync/run [post]
func (h *Handler) TriggerSync(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trigger-sync")
	defer span.End()

	full := c.Query("full") == "true"
	span.SetAttributes(attribute.Bool("full", full))

	report := h.syncer.RunSync(ctx, full)
	c.JSON(http.StatusOK, report)
}

// GetSyncStatus godoc
// @Summary      Get pipeline status
// @Description  Returns the current pipeline state and the report of the last completed run
// @Tags         sync
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/sync/status [get]
func (h *Handler) GetSyncStatus(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-sync-status")
	defer span.End()

	c.JSON(http.StatusOK, gin.H{
		"state":       h.syncer.State(),
		"last_report": h.syncer.LastReport(),
	})
}
