package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetSummary godoc
// @Summary      Get the dashboard summary
// @Description  Returns quotes, macro indicators, institutional stats, today's strategy log and the rule-based assessment
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.DashboardSummary
// @Failure      500  {object}  map[string]string
// @Router       /api/dashboard/summary [get]
func (h *Handler) GetSummary(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-summary")
	defer span.End()

	summary, err := h.dashboard.GetSummary(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetChart godoc
// @Summary      Get the real-yield history chart
// @Description  Returns aligned daily nominal yield, breakeven and real yield points over the trailing window
// @Tags         dashboard
// @Produce      json
// @Param        days  query  int  false  "Trailing window in days"  default(7)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/dashboard/chart [get]
func (h *Handler) GetChart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-chart")
	defer span.End()

	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a non-negative integer"})
			return
		}
		days = parsed
	}
	span.SetAttributes(attribute.Int("days", days))

	points, err := h.dashboard.GetChart(ctx, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": points})
}

// GetNews godoc
// @Summary      Get recent market headlines
// @Description  Returns stored headlines, newest first
// @Tags         news
// @Produce      json
// @Param        limit  query  int  false  "Maximum items to return"  default(50)
// @Success      200  {object}  map[string]interface{}
// @Router       /api/news [get]
func (h *Handler) GetNews(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-news")
	defer span.End()

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	items, err := h.dashboard.ListNews(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"news": items})
}
