package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type diagnoseRequest struct {
	Question string `json:"question"`
}

// Diagnose godoc
// @Summary      AI market diagnosis
// @Description  Asks the configured LLM for a narrative read of the current indicator snapshot
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request  body  diagnoseRequest  false  "Optional question to focus the diagnosis"
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/ai/diagnose [post]
func (h *Handler) Diagnose(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.diagnose")
	defer span.End()

	if !h.advisor.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI diagnosis disabled: no OpenAI API key configured"})
		return
	}

	var req diagnoseRequest
	_ = c.ShouldBindJSON(&req)

	reply, err := h.advisor.Diagnose(ctx, req.Question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"diagnosis": reply})
}
