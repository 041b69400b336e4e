package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"goldtracer/internal/analysis"
	"goldtracer/internal/config"
	"goldtracer/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const (
	summaryCacheTTL = 60 * time.Second
	chartCacheTTL   = 5 * time.Minute
)

// StrategyStore is the read side of the repository the dashboard serves from.
type StrategyStore interface {
	ListQuotes(ctx context.Context) ([]domain.Quote, error)
	ListMacroIndicators(ctx context.Context) ([]domain.MacroIndicator, error)
	ListInstitutionalStats(ctx context.Context) ([]domain.InstitutionalStat, error)
	GetStrategyLog(ctx context.Context, logDate string) (*domain.DailyStrategyLog, error)
	GetMacroHistory(ctx context.Context, from, to string) ([]domain.MacroHistoryPoint, error)
	ListNews(ctx context.Context, limit int) ([]domain.NewsItem, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// DashboardSummary is the aggregate view the frontend renders from a single
// call. Built fresh from the store, then cached briefly in Redis.
type DashboardSummary struct {
	Quotes      []domain.Quote             `json:"quotes"`
	Indicators  []domain.MacroIndicator    `json:"indicators"`
	Stats       []domain.InstitutionalStat `json:"stats"`
	Strategy    *domain.DailyStrategyLog   `json:"strategy,omitempty"`
	Assessment  analysis.Assessment        `json:"assessment"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

type DashboardService struct {
	tracer trace.Tracer
	store  StrategyStore
	redis  RedisClient
	cfg    *config.Config
}

func NewDashboardService(tracer trace.Tracer, store StrategyStore, redisClient RedisClient, cfg *config.Config) *DashboardService {
	return &DashboardService{
		tracer: tracer,
		store:  store,
		redis:  redisClient,
		cfg:    cfg,
	}
}

// GetSummary builds (or serves from cache) the full dashboard aggregate for
// today.
func (s *DashboardService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	_, span := s.tracer.Start(ctx, "dashboard.get-summary")
	defer span.End()

	if s.redis != nil {
		cached, err := s.getSummaryCache(ctx)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if cached != nil {
			return cached, nil
		}
	}

	quotes, err := s.store.ListQuotes(ctx)
	if err != nil {
		return nil, err
	}
	indicators, err := s.store.ListMacroIndicators(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.ListInstitutionalStats(ctx)
	if err != nil {
		return nil, err
	}
	today := time.Now().UTC().Format("2006-01-02")
	strategy, err := s.store.GetStrategyLog(ctx, today)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Quotes:     quotes,
		Indicators: indicators,
		Stats:      stats,
		Strategy:   strategy,
		Assessment: analysis.Evaluate(
			analysis.InputFromSnapshot(indicators, stats, quotes, s.cfg.GoldSymbol, s.cfg.GoldETFSymbol),
		),
		GeneratedAt: time.Now().UTC(),
	}

	if s.redis != nil {
		if err := s.setSummaryCache(ctx, summary); err != nil {
			log.Printf("redis cache write error: %v", err)
		}
	}
	return summary, nil
}

// GetChart returns the merged macro history over the trailing window.
func (s *DashboardService) GetChart(ctx context.Context, days int) ([]domain.MacroHistoryPoint, error) {
	_, span := s.tracer.Start(ctx, "dashboard.get-chart")
	defer span.End()

	if days <= 0 {
		days = s.cfg.HistoryDays
	}

	cacheKey := fmt.Sprintf("dashboard:chart:%d", days)
	if s.redis != nil {
		data, err := s.redis.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var points []domain.MacroHistoryPoint
			if err := json.Unmarshal(data, &points); err == nil {
				return points, nil
			}
		} else if err != redis.Nil {
			log.Printf("redis cache read error: %v", err)
		}
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -days).Format("2006-01-02")
	to := now.Format("2006-01-02")
	points, err := s.store.GetMacroHistory(ctx, from, to)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(points); err == nil {
			_ = s.redis.Set(ctx, cacheKey, data, chartCacheTTL).Err()
		}
	}
	return points, nil
}

// ListNews returns the most recent stored headlines, newest first.
func (s *DashboardService) ListNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	_, span := s.tracer.Start(ctx, "dashboard.list-news")
	defer span.End()

	return s.store.ListNews(ctx, limit)
}

func (s *DashboardService) setSummaryCache(ctx context.Context, summary *DashboardSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, "dashboard:summary", data, summaryCacheTTL).Err()
}

func (s *DashboardService) getSummaryCache(ctx context.Context) (*DashboardSummary, error) {
	data, err := s.redis.Get(ctx, "dashboard:summary").Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summary DashboardSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
