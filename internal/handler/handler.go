package handler

import (
	"context"

	"goldtracer/internal/advisor"
	"goldtracer/internal/domain"
	"goldtracer/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// SyncTrigger is the pipeline surface exposed over HTTP.
type SyncTrigger interface {
	RunSync(ctx context.Context, full bool) domain.SyncReport
	State() domain.RunState
	LastReport() *domain.SyncReport
}

// IndicatorStore is the narrow persistence surface for admin overrides.
type IndicatorStore interface {
	UpsertMacroIndicator(ctx context.Context, m domain.MacroIndicator) error
	GetMacroIndicator(ctx context.Context, name string) (*domain.MacroIndicator, error)
}

type Handler struct {
	tracer     trace.Tracer
	dashboard  *service.DashboardService
	syncer     SyncTrigger
	advisor    *advisor.Advisor
	indicators IndicatorStore
	apiKey     string
}

func New(tracer trace.Tracer, dashboard *service.DashboardService, syncer SyncTrigger, adv *advisor.Advisor, indicators IndicatorStore, apiKey string) *Handler {
	return &Handler{
		tracer:     tracer,
		dashboard:  dashboard,
		syncer:     syncer,
		advisor:    adv,
		indicators: indicators,
		apiKey:     apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/dashboard/summary", h.GetSummary)
	r.GET("/api/dashboard/chart", h.GetChart)
	r.GET("/api/news", h.GetNews)
	r.GET("/api/sync/status", h.GetSyncStatus)

	protected := r.Group("/api", APIKeyAuth(h.apiKey))
	protected.POST("/sync/run", h.TriggerSync)
	protected.POST("/ai/diagnose", h.Diagnose)
	protected.GET("/admin/fed-override", h.GetFedOverride)
	protected.POST("/admin/fed-override", h.SetFedOverride)
}
