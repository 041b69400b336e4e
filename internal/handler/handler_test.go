package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"goldtracer/internal/config"
	"goldtracer/internal/domain"
	"goldtracer/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type stubSyncer struct {
	report  domain.SyncReport
	state   domain.RunState
	lastRun *domain.SyncReport
	full    bool
}

func (s *stubSyncer) RunSync(ctx context.Context, full bool) domain.SyncReport {
	s.full = full
	return s.report
}

func (s *stubSyncer) State() domain.RunState         { return s.state }
func (s *stubSyncer) LastReport() *domain.SyncReport { return s.lastRun }

type stubStore struct {
	quotes []domain.Quote
}

func (s *stubStore) ListQuotes(ctx context.Context) ([]domain.Quote, error) { return s.quotes, nil }
func (s *stubStore) ListMacroIndicators(ctx context.Context) ([]domain.MacroIndicator, error) {
	return nil, nil
}
func (s *stubStore) ListInstitutionalStats(ctx context.Context) ([]domain.InstitutionalStat, error) {
	return nil, nil
}
func (s *stubStore) GetStrategyLog(ctx context.Context, logDate string) (*domain.DailyStrategyLog, error) {
	return nil, nil
}
func (s *stubStore) GetMacroHistory(ctx context.Context, from, to string) ([]domain.MacroHistoryPoint, error) {
	return []domain.MacroHistoryPoint{{LogDate: from, RealYield: 1.85}}, nil
}
func (s *stubStore) ListNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	return nil, nil
}

type stubIndicatorStore struct {
	indicators map[string]domain.MacroIndicator
}

func (s *stubIndicatorStore) UpsertMacroIndicator(ctx context.Context, m domain.MacroIndicator) error {
	if s.indicators == nil {
		s.indicators = make(map[string]domain.MacroIndicator)
	}
	s.indicators[m.Name] = m
	return nil
}

func (s *stubIndicatorStore) GetMacroIndicator(ctx context.Context, name string) (*domain.MacroIndicator, error) {
	if m, ok := s.indicators[name]; ok {
		return &m, nil
	}
	return nil, nil
}

func newTestHandler(syncer SyncTrigger, apiKey string) (*Handler, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	cfg := &config.Config{GoldSymbol: "GC=F", GoldETFSymbol: "GLD", HistoryDays: 7}
	dashboard := service.NewDashboardService(tracer, &stubStore{
		quotes: []domain.Quote{{Symbol: "GC=F", LastPrice: 2000}},
	}, nil, cfg)

	h := &Handler{
		tracer:     tracer,
		dashboard:  dashboard,
		syncer:     syncer,
		indicators: &stubIndicatorStore{},
		apiKey:     apiKey,
	}
	r := gin.New()
	h.RegisterRoutes(r)
	return h, r
}

func TestHealth(t *testing.T) {
	_, r := newTestHandler(&stubSyncer{state: domain.StateIdle}, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "goldtracer" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestGetSummary(t *testing.T) {
	_, r := newTestHandler(&stubSyncer{state: domain.StateIdle}, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/dashboard/summary", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var summary service.DashboardSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(summary.Quotes) != 1 || summary.Quotes[0].Symbol != "GC=F" {
		t.Fatalf("unexpected quotes: %+v", summary.Quotes)
	}
}

func TestGetChartRejectsBadDays(t *testing.T) {
	_, r := newTestHandler(&stubSyncer{state: domain.StateIdle}, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/dashboard/chart?days=nope", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestTriggerSyncRequiresAPIKey(t *testing.T) {
	syncer := &stubSyncer{report: domain.SyncReport{State: domain.StatePersisted}}
	_, r := newTestHandler(syncer, "secret")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/sync/run", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/sync/run", nil)
	req.Header.Set("X-API-Key", "wrong")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with wrong key, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/sync/run?full=true", nil)
	req.Header.Set("X-API-Key", "secret")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", w.Code)
	}
	if !syncer.full {
		t.Fatal("full query flag not passed through")
	}
}

func TestGetSyncStatus(t *testing.T) {
	syncer := &stubSyncer{
		state:   domain.StatePersisted,
		lastRun: &domain.SyncReport{State: domain.StatePersisted, Updated: []string{"quote:GC=F"}},
	}
	_, r := newTestHandler(syncer, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/sync/status", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload struct {
		State      string             `json:"state"`
		LastReport *domain.SyncReport `json:"last_report"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if payload.State != string(domain.StatePersisted) {
		t.Fatalf("unexpected state: %s", payload.State)
	}
	if payload.LastReport == nil || len(payload.LastReport.Updated) != 1 || payload.LastReport.Updated[0] != "quote:GC=F" {
		t.Fatalf("unexpected last report: %+v", payload.LastReport)
	}
}

func TestDiagnoseDisabled(t *testing.T) {
	_, r := newTestHandler(&stubSyncer{state: domain.StateIdle}, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/ai/diagnose", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with no advisor, got %d", w.Code)
	}
}

func TestFedOverrideRoundTrip(t *testing.T) {
	h, r := newTestHandler(&stubSyncer{state: domain.StateIdle}, "secret")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/admin/fed-override", strings.NewReader(`{"prob_cut_25": 62.5}`))
	req.Header.Set("X-API-Key", "secret")
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	store := h.indicators.(*stubIndicatorStore)
	stored := store.indicators[domain.IndicatorFedCutProbability]
	if stored.Value != 62.5 || stored.Source != "manual" || !stored.IsStale {
		t.Fatalf("override stored incorrectly: %+v", stored)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/admin/fed-override", nil)
	req.Header.Set("X-API-Key", "secret")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on read-back, got %d", w.Code)
	}
	var got domain.MacroIndicator
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode indicator: %v", err)
	}
	if got.Value != 62.5 || !got.IsStale {
		t.Fatalf("unexpected indicator: %+v", got)
	}
}

func TestFedOverrideValidation(t *testing.T) {
	_, r := newTestHandler(&stubSyncer{state: domain.StateIdle}, "")

	for _, body := range []string{`{}`, `{"prob_cut_25": 150}`, `{"prob_cut_25": -1}`} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/admin/fed-override", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestFedOverrideNotFound(t *testing.T) {
	_, r := newTestHandler(&stubSyncer{state: domain.StateIdle}, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/admin/fed-override", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any write, got %d", w.Code)
	}
}
