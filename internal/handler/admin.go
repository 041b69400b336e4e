package handler

import (
	"net/http"

	"goldtracer/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type fedOverrideRequest struct {
	ProbCut25 *float64 `json:"prob_cut_25" binding:"required"`
}

// SetFedOverride godoc
// @Summary      Override the fed cut probability
// @Description  Manually overrides the derived cut probability. The override is marked stale and holds only until the next pipeline run re-derives the value.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        override  body  fedOverrideRequest  true  "Probability of a 25bp cut, 0-100"
// @Success      200  {object}  domain.MacroIndicator
// @Failure      400  {object}  map[string]string
// @Router       /api/admin/fed-override [post]
func (h *Handler) SetFedOverride(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.set-fed-override")
	defer span.End()

	var req fedOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prob_cut_25 is required"})
		return
	}
	if *req.ProbCut25 < 0 || *req.ProbCut25 > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prob_cut_25 must be between 0 and 100"})
		return
	}
	span.SetAttributes(attribute.Float64("prob_cut_25", *req.ProbCut25))

	override := domain.MacroIndicator{
		Name:    domain.IndicatorFedCutProbability,
		Value:   *req.ProbCut25,
		Unit:    "%",
		Source:  "manual",
		IsStale: true,
	}
	if err := h.indicators.UpsertMacroIndicator(ctx, override); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store override"})
		return
	}
	c.JSON(http.StatusOK, override)
}

// GetFedOverride godoc
// @Summary      Get the current fed cut probability
// @Description  Returns the stored cut probability, whether derived or manually overridden
// @Tags         admin
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  domain.MacroIndicator
// @Failure      404  {object}  map[string]string
// @Router       /api/admin/fed-override [get]
func (h *Handler) GetFedOverride(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-fed-override")
	defer span.End()

	stored, err := h.indicators.GetMacroIndicator(ctx, domain.IndicatorFedCutProbability)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read indicator"})
		return
	}
	if stored == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cut probability recorded yet"})
		return
	}
	c.JSON(http.StatusOK, stored)
}
