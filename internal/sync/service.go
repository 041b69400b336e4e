package sync

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"goldtracer/internal/config"
	"goldtracer/internal/domain"
	"goldtracer/internal/history"
	"goldtracer/internal/indicator"
	"goldtracer/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

// QuoteProvider serves live quotes, OHLC bars and daily closing prices for
// one symbol.
type QuoteProvider interface {
	FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error)
	FetchBars(ctx context.Context, symbol, interval, rng string) ([]provider.Bar, error)
	FetchDailyCloses(ctx context.Context, symbol, rng string) (map[string]float64, error)
}

// SeriesProvider serves dated macro series observations.
type SeriesProvider interface {
	FetchLatest(ctx context.Context, seriesID string) (float64, error)
	FetchObservations(ctx context.Context, seriesID string, from, to time.Time) (map[string]float64, error)
}

// NewsProvider serves headline items from one feed URL.
type NewsProvider interface {
	FetchFeed(ctx context.Context, feedURL string, maxItems int) ([]domain.NewsItem, error)
}

// Store is the subset of the repository the pipeline writes through.
type Store interface {
	UpsertQuote(ctx context.Context, quote domain.Quote) error
	UpsertMacroIndicator(ctx context.Context, m domain.MacroIndicator) error
	GetMacroIndicator(ctx context.Context, name string) (*domain.MacroIndicator, error)
	UpsertInstitutionalStat(ctx context.Context, stat domain.InstitutionalStat) error
	UpsertStrategyFields(ctx context.Context, log domain.DailyStrategyLog) error
	UpsertMacroHistory(ctx context.Context, points []domain.MacroHistoryPoint, batchSize int) (int, error)
	InsertNewsItems(ctx context.Context, items []domain.NewsItem) (int, error)
}

// bar windows per pivot timeframe. The pivot for a timeframe is computed from
// the most recent COMPLETED bar, never the bar still forming.
var pivotWindows = []struct {
	timeframe string
	interval  string
	rng       string
}{
	{domain.TimeframeIntraday, "1h", "5d"},
	{domain.TimeframeDaily, "1d", "1mo"},
	{domain.TimeframeWeekly, "1wk", "6mo"},
}

// modeled managed-money positioning baseline, used until a real CFTC feed is
// wired in.
const modeledNetLongContracts = 180000

// Service runs the fetch, derive, synthesize, persist pipeline. One call to
// RunSync is one full pass; every stage records failures and moves on, so a
// single dead provider degrades the run instead of aborting it.
type Service struct {
	quotes QuoteProvider
	series SeriesProvider
	news   NewsProvider
	store  Store
	cfg    *config.Config
	tracer trace.Tracer

	tickers []domain.Ticker

	state      atomic.Value
	lastReport atomic.Value
}

func NewService(quotes QuoteProvider, series SeriesProvider, news NewsProvider, store Store, cfg *config.Config, tracer trace.Tracer) *Service {
	s := &Service{
		quotes:  quotes,
		series:  series,
		news:    news,
		store:   store,
		cfg:     cfg,
		tracer:  tracer,
		tickers: domain.DefaultTickers,
	}
	s.state.Store(domain.StateIdle)
	return s
}

// State reports where the most recent (or in-flight) run is in the pipeline.
func (s *Service) State() domain.RunState {
	return s.state.Load().(domain.RunState)
}

// LastReport returns the report of the last completed run, or nil before the
// first run finishes.
func (s *Service) LastReport() *domain.SyncReport {
	report, _ := s.lastReport.Load().(*domain.SyncReport)
	return report
}

// RunSync executes one pipeline pass. With full set, the history backfill
// widens from the incremental window to the full lookback window; everything
// else is identical. The returned report carries the terminal state and every
// non-fatal error encountered.
func (s *Service) RunSync(ctx context.Context, full bool) domain.SyncReport {
	ctx, span := s.tracer.Start(ctx, "sync.run")
	defer span.End()

	report := domain.SyncReport{State: domain.StateIdle}
	cache := NewQuoteCache(s.quotes)
	now := time.Now().UTC()
	logDate := now.Format("2006-01-02")

	s.setState(&report, domain.StateFetching)
	if _, err := domain.TickerMap(s.tickers); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("config: %v", err))
	} else {
		s.fetchQuotes(ctx, cache, &report)
	}

	s.setState(&report, domain.StateDeriving)
	derived := s.derive(ctx, cache, &report)
	s.ingestNews(ctx, &report)
	if len(derived.pivots) > 0 || derived.outlook != nil {
		partial := domain.DailyStrategyLog{
			LogDate:          logDate,
			PivotPoints:      derived.pivots,
			FedPolicyOutlook: derived.outlook,
		}
		if err := s.store.UpsertStrategyFields(ctx, partial); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("strategy_log: %v", err))
		} else {
			report.Updated = append(report.Updated, "strategy_log:"+logDate)
		}
	}

	s.setState(&report, domain.StateSynthesizing)
	advice, ok := Synthesize(SynthesisInput{
		RealYield:          derived.realYield,
		Oscillator:         derived.oscillator,
		RiskIndex:          derived.riskIndex,
		DailyPivots:        derived.pivots[domain.TimeframeDaily],
		RealYieldBullBelow: s.cfg.RealYieldBullBelow,
		RiskIndexThreshold: s.cfg.RiskIndexThreshold,
	})
	if !ok {
		report.Errors = append(report.Errors, "synthesis: daily pivot levels unavailable, no advice produced")
	} else {
		refinement := domain.DailyStrategyLog{LogDate: logDate, TradeAdvice: advice}
		if err := s.store.UpsertStrategyFields(ctx, refinement); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("strategy_log: %v", err))
		} else {
			report.Updated = append(report.Updated, "trade_advice:"+logDate)
		}
	}

	s.backfillHistory(ctx, now, full, &report)

	if len(report.Errors) == 0 {
		s.setState(&report, domain.StatePersisted)
	} else {
		s.setState(&report, domain.StatePartialFailure)
	}
	s.lastReport.Store(&report)
	log.Printf("sync run finished: state=%s updated=%d errors=%d", report.State, len(report.Updated), len(report.Errors))
	return report
}

func (s *Service) setState(report *domain.SyncReport, state domain.RunState) {
	report.State = state
	s.state.Store(state)
}

func (s *Service) fetchQuotes(ctx context.Context, cache *QuoteCache, report *domain.SyncReport) {
	for _, ticker := range s.tickers {
		quote, err := cache.GetOrFetch(ctx, ticker.Symbol, false)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("quote:%s: %v", ticker.Symbol, err))
			continue
		}
		if err := s.store.UpsertQuote(ctx, *quote); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("quote:%s: persist: %v", ticker.Symbol, err))
			continue
		}
		report.Updated = append(report.Updated, "quote:"+ticker.Symbol)
	}
}

// derivedValues collects what the deriving stage managed to resolve. Nil
// pointers stay nil when an input quote or series was unavailable; downstream
// rules skip them rather than failing again (the fetch stage already recorded
// the failure once).
type derivedValues struct {
	realYield  *float64
	oscillator *float64
	riskIndex  *float64
	pivots     map[string]*domain.PivotSet
	outlook    *domain.FedPolicyOutlook
}

func (s *Service) derive(ctx context.Context, cache *QuoteCache, report *domain.SyncReport) derivedValues {
	ctx, span := s.tracer.Start(ctx, "sync.derive")
	defer span.End()

	out := derivedValues{pivots: make(map[string]*domain.PivotSet)}

	breakeven, breakevenStale := s.resolveBreakeven(ctx, report)
	if breakeven != nil {
		s.upsertIndicator(ctx, report, domain.MacroIndicator{
			Name:    domain.IndicatorBreakevenInflation,
			Value:   *breakeven,
			Unit:    "%",
			Source:  "fred",
			IsStale: breakevenStale,
		})
	}

	if nominal, ok := cache.Peek(s.cfg.NominalYieldSymbol); ok && breakeven != nil {
		ry := indicator.RealYield(nominal.LastPrice, *breakeven)
		out.realYield = &ry
		s.upsertIndicator(ctx, report, domain.MacroIndicator{
			Name:    domain.IndicatorRealYield,
			Value:   ry,
			Unit:    "%",
			Source:  "derived",
			IsStale: breakevenStale,
		})
	}

	s.deriveDomesticPremium(ctx, cache, report)

	for _, window := range pivotWindows {
		set, ok := s.pivotFor(ctx, window.interval, window.rng, report, window.timeframe)
		if ok {
			out.pivots[window.timeframe] = set
		}
	}

	if osc, ok := s.deriveOscillator(ctx, report); ok {
		out.oscillator = &osc
	}

	if fedFunds, ok := cache.Peek(s.cfg.FedFundsSymbol); ok {
		outlook := indicator.PolicyRateOutlook(s.cfg.CurrentFedRate, fedFunds.LastPrice)
		out.outlook = &outlook
		s.upsertIndicator(ctx, report, domain.MacroIndicator{
			Name:   domain.IndicatorFedCutProbability,
			Value:  outlook.ProbCut25,
			Unit:   "%",
			Source: "derived",
		})
	}

	if risk, ok := cache.Peek(s.cfg.RiskIndexSymbol); ok {
		v := risk.LastPrice
		out.riskIndex = &v
	}

	s.deriveInstitutionalStats(ctx, cache, report)

	return out
}

// resolveBreakeven prefers a fresh observation; when the series provider is
// down it falls back to the last persisted value, marked stale. Only when
// neither exists does the run record an error.
func (s *Service) resolveBreakeven(ctx context.Context, report *domain.SyncReport) (*float64, bool) {
	value, err := s.series.FetchLatest(ctx, s.cfg.BreakevenSeries)
	if err == nil {
		return &value, false
	}

	stored, storeErr := s.store.GetMacroIndicator(ctx, domain.IndicatorBreakevenInflation)
	if storeErr == nil && stored != nil {
		log.Printf("breakeven fetch failed (%s), reusing stored value %.2f as stale", domain.KindOf(err), stored.Value)
		return &stored.Value, true
	}
	report.Errors = append(report.Errors, fmt.Sprintf("series:%s: %v", s.cfg.BreakevenSeries, err))
	return nil, false
}

func (s *Service) deriveDomesticPremium(ctx context.Context, cache *QuoteCache, report *domain.SyncReport) {
	global, okGlobal := cache.Peek(s.cfg.GoldSymbol)
	fx, okFX := cache.Peek(s.cfg.FXSymbol)
	if !okGlobal || !okFX {
		return
	}

	localPerGram := s.cfg.FallbackDomesticGold
	source := "modeled"
	stale := true
	if s.cfg.DomesticGoldSymbol != "" {
		if local, err := cache.GetOrFetch(ctx, s.cfg.DomesticGoldSymbol, false); err == nil {
			localPerGram = local.LastPrice
			source = "yahoo"
			stale = false
		} else {
			log.Printf("domestic gold fetch failed (%v), using modeled fallback %.2f", err, localPerGram)
		}
	}

	premium, ok := indicator.DomesticPremium(localPerGram, global.LastPrice, fx.LastPrice)
	if !ok {
		return
	}
	s.upsertIndicator(ctx, report, domain.MacroIndicator{
		Name:    domain.IndicatorDomesticPremium,
		Value:   premium,
		Unit:    "%",
		Source:  source,
		IsStale: stale,
	})
}

func (s *Service) pivotFor(ctx context.Context, interval, rng string, report *domain.SyncReport, timeframe string) (*domain.PivotSet, bool) {
	bars, err := s.quotes.FetchBars(ctx, s.cfg.GoldSymbol, interval, rng)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("pivot:%s: %v", timeframe, err))
		return nil, false
	}

	// Walk back from the second-to-last bar until one has a complete OHLC.
	for i := len(bars) - 2; i >= 0; i-- {
		bar := bars[i]
		if bar.High == nil || bar.Low == nil || bar.Close == nil {
			continue
		}
		set, ok := indicator.PivotPoints(*bar.High, *bar.Low, *bar.Close)
		if !ok {
			continue
		}
		return &set, true
	}
	report.Errors = append(report.Errors, fmt.Sprintf("pivot:%s: no completed bar in window", timeframe))
	return nil, false
}

func (s *Service) deriveOscillator(ctx context.Context, report *domain.SyncReport) (float64, bool) {
	byDate, err := s.quotes.FetchDailyCloses(ctx, s.cfg.GoldSymbol, "3mo")
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("oscillator: %v", err))
		return 0, false
	}

	// ISO dates sort lexicographically, so sorting the keys restores
	// chronological order.
	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	closes := make([]float64, 0, len(dates))
	for _, date := range dates {
		closes = append(closes, byDate[date])
	}

	osc, ok := indicator.MomentumOscillator(closes, 14)
	if !ok {
		err := domain.Errorf(domain.ErrInsufficientHistory, "oscillator", "%d closes, need 15", len(closes))
		report.Errors = append(report.Errors, err.Error())
		return 0, false
	}
	s.upsertIndicator(ctx, report, domain.MacroIndicator{
		Name:   domain.IndicatorMomentumRSI14,
		Value:  osc,
		Source: "derived",
	})
	return osc, true
}

func (s *Service) deriveInstitutionalStats(ctx context.Context, cache *QuoteCache, report *domain.SyncReport) {
	if etf, ok := cache.Peek(s.cfg.GoldETFSymbol); ok {
		stat := domain.InstitutionalStat{
			Category:    "etf_flow",
			Label:       s.cfg.GoldETFSymbol,
			Value:       etf.LastPrice,
			ChangeValue: etf.ChangePercent,
			Source:      "yahoo",
		}
		if err := s.store.UpsertInstitutionalStat(ctx, stat); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("institutional:%s: %v", stat.Label, err))
		} else {
			report.Updated = append(report.Updated, "institutional:"+stat.Label)
		}
	}

	modeled := domain.InstitutionalStat{
		Category: "cftc",
		Label:    "managed_money_net_long",
		Value:    modeledNetLongContracts,
		Source:   "modeled",
	}
	if err := s.store.UpsertInstitutionalStat(ctx, modeled); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("institutional:%s: %v", modeled.Label, err))
	} else {
		report.Updated = append(report.Updated, "institutional:"+modeled.Label)
	}
}

func (s *Service) ingestNews(ctx context.Context, report *domain.SyncReport) {
	if s.news == nil {
		return
	}
	for _, feed := range s.cfg.NewsFeeds {
		items, err := s.news.FetchFeed(ctx, feed, s.cfg.NewsFeedItemMax)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("news:%s: %v", feed, err))
			continue
		}
		inserted, err := s.store.InsertNewsItems(ctx, items)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("news:%s: persist: %v", feed, err))
			continue
		}
		if inserted > 0 {
			report.Updated = append(report.Updated, "news:"+feed)
		}
	}
}

// backfillHistory merges the nominal-yield and breakeven series over the
// lookback window and upserts the aligned rows. Re-running over an
// overlapping window rewrites identical rows, so the backfill is idempotent.
func (s *Service) backfillHistory(ctx context.Context, now time.Time, full bool, report *domain.SyncReport) {
	ctx, span := s.tracer.Start(ctx, "sync.backfill-history")
	defer span.End()

	days := s.cfg.HistoryDays
	if full {
		days = s.cfg.HistoryDaysFull
	}
	from := now.AddDate(0, 0, -days)

	nominal, err := s.series.FetchObservations(ctx, s.cfg.NominalYieldSeries, from, now)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("history:%s: %v", s.cfg.NominalYieldSeries, err))
		return
	}
	breakeven, err := s.series.FetchObservations(ctx, s.cfg.BreakevenSeries, from, now)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("history:%s: %v", s.cfg.BreakevenSeries, err))
		return
	}

	rows := history.Merge(nominal, breakeven, indicator.RealYield)
	points := make([]domain.MacroHistoryPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, domain.MacroHistoryPoint{
			LogDate:            row.Date,
			NominalYield:       row.ValueA,
			BreakevenInflation: row.ValueB,
			RealYield:          row.Derived,
		})
	}

	written, err := s.store.UpsertMacroHistory(ctx, points, s.cfg.HistoryBatchSize)
	// Batches write in order, so the first written rows are the first points.
	for i := 0; i < written && i < len(points); i++ {
		report.Updated = append(report.Updated, "history:"+points[i].LogDate)
	}
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("history: persist: %v", err))
	}
}

func (s *Service) upsertIndicator(ctx context.Context, report *domain.SyncReport, m domain.MacroIndicator) {
	if err := s.store.UpsertMacroIndicator(ctx, m); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("indicator:%s: %v", m.Name, err))
		return
	}
	report.Updated = append(report.Updated, "indicator:"+m.Name)
}
