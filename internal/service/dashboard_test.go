package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"goldtracer/internal/config"
	"goldtracer/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type mockStore struct {
	quotes        []domain.Quote
	indicators    []domain.MacroIndicator
	stats         []domain.InstitutionalStat
	strategy      *domain.DailyStrategyLog
	history       []domain.MacroHistoryPoint
	news          []domain.NewsItem
	listErr       error
	historyCalls  int
	historyWindow [2]string
}

func (m *mockStore) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	return m.quotes, m.listErr
}

func (m *mockStore) ListMacroIndicators(ctx context.Context) ([]domain.MacroIndicator, error) {
	return m.indicators, nil
}

func (m *mockStore) ListInstitutionalStats(ctx context.Context) ([]domain.InstitutionalStat, error) {
	return m.stats, nil
}

func (m *mockStore) GetStrategyLog(ctx context.Context, logDate string) (*domain.DailyStrategyLog, error) {
	return m.strategy, nil
}

func (m *mockStore) GetMacroHistory(ctx context.Context, from, to string) ([]domain.MacroHistoryPoint, error) {
	m.historyCalls++
	m.historyWindow = [2]string{from, to}
	return m.history, nil
}

func (m *mockStore) ListNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	if limit < len(m.news) {
		return m.news[:limit], nil
	}
	return m.news, nil
}

type fakeRedis struct {
	data   map[string][]byte
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func testCfg() *config.Config {
	return &config.Config{GoldSymbol: "GC=F", GoldETFSymbol: "GLD", HistoryDays: 7}
}

func TestGetSummaryBuildsAndCaches(t *testing.T) {
	store := &mockStore{
		quotes: []domain.Quote{{Symbol: "GC=F", LastPrice: 2000, ChangePercent: 1.0}},
		indicators: []domain.MacroIndicator{
			{Name: domain.IndicatorRealYield, Value: 1.2},
			{Name: domain.IndicatorFedCutProbability, Value: 70},
		},
	}
	cache := newFakeRedis()
	svc := NewDashboardService(testTracer, store, cache, testCfg())

	summary, err := svc.GetSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Quotes) != 1 {
		t.Fatalf("unexpected quotes: %+v", summary.Quotes)
	}
	if summary.Assessment.Bias != "bullish" {
		t.Fatalf("expected bullish assessment, got %s", summary.Assessment.Bias)
	}
	if _, ok := cache.data["dashboard:summary"]; !ok {
		t.Fatal("summary not cached")
	}
}

func TestGetSummaryServesFromCache(t *testing.T) {
	cache := newFakeRedis()
	cached := &DashboardSummary{GeneratedAt: time.Now().UTC()}
	data, _ := json.Marshal(cached)
	_ = cache.Set(context.Background(), "dashboard:summary", data, 0)

	// Store errors are invisible on a cache hit.
	store := &mockStore{listErr: errors.New("db down")}
	svc := NewDashboardService(testTracer, store, cache, testCfg())

	if _, err := svc.GetSummary(context.Background()); err != nil {
		t.Fatalf("cache hit should not touch the store: %v", err)
	}
}

func TestGetSummaryWithoutRedis(t *testing.T) {
	store := &mockStore{quotes: []domain.Quote{{Symbol: "GC=F"}}}
	svc := NewDashboardService(testTracer, store, nil, testCfg())

	summary, err := svc.GetSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Quotes) != 1 {
		t.Fatalf("unexpected quotes: %+v", summary.Quotes)
	}
}

func TestGetChartDefaultsAndCaches(t *testing.T) {
	store := &mockStore{history: []domain.MacroHistoryPoint{{LogDate: "2025-06-30", RealYield: 1.9}}}
	cache := newFakeRedis()
	svc := NewDashboardService(testTracer, store, cache, testCfg())

	points, err := svc.GetChart(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if store.historyCalls != 1 {
		t.Fatalf("expected 1 store call, got %d", store.historyCalls)
	}
	if _, ok := cache.data["dashboard:chart:7"]; !ok {
		t.Fatal("chart not cached under the defaulted window")
	}

	// Second call is a cache hit.
	if _, err := svc.GetChart(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.historyCalls != 1 {
		t.Fatalf("expected cached chart, store called %d times", store.historyCalls)
	}
}

func TestListNewsPassesLimit(t *testing.T) {
	store := &mockStore{news: []domain.NewsItem{
		{Title: "a"}, {Title: "b"}, {Title: "c"},
	}}
	svc := NewDashboardService(testTracer, store, nil, testCfg())

	items, err := svc.ListNews(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}
