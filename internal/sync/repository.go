package sync

import (
	"context"
	"encoding/json"

	"goldtracer/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createSyncTables = `
CREATE TABLE IF NOT EXISTS market_quotes (
    symbol         TEXT             PRIMARY KEY,
    last_price     DOUBLE PRECISION NOT NULL,
    open_price     DOUBLE PRECISION NOT NULL,
    high_price     DOUBLE PRECISION NOT NULL,
    low_price      DOUBLE PRECISION NOT NULL,
    change_percent DOUBLE PRECISION NOT NULL,
    updated_at     TIMESTAMPTZ      NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS macro_indicators (
    indicator_name TEXT             PRIMARY KEY,
    value          DOUBLE PRECISION NOT NULL,
    unit           TEXT             NOT NULL DEFAULT '',
    source         TEXT             NOT NULL DEFAULT '',
    is_stale       BOOLEAN          NOT NULL DEFAULT FALSE,
    observed_at    TIMESTAMPTZ      NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS institutional_stats (
    category     TEXT             NOT NULL,
    label        TEXT             NOT NULL,
    value        DOUBLE PRECISION NOT NULL,
    change_value DOUBLE PRECISION NOT NULL,
    source       TEXT             NOT NULL DEFAULT '',
    updated_at   TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
    PRIMARY KEY (category, label)
);

CREATE TABLE IF NOT EXISTS daily_strategy_log (
    log_date           DATE        PRIMARY KEY,
    pivot_points       JSONB,
    trade_advice       JSONB,
    fed_policy_outlook JSONB,
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS macro_history (
    log_date            DATE             PRIMARY KEY,
    nominal_yield       DOUBLE PRECISION NOT NULL,
    breakeven_inflation DOUBLE PRECISION NOT NULL,
    real_yield          DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS news_items (
    title        TEXT        NOT NULL,
    published_at TIMESTAMPTZ NOT NULL,
    url          TEXT        NOT NULL DEFAULT '',
    source       TEXT        NOT NULL DEFAULT '',
    category     TEXT        NOT NULL DEFAULT 'market',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (title, published_at)
);

CREATE INDEX IF NOT EXISTS idx_news_items_published ON news_items (published_at DESC);
CREATE INDEX IF NOT EXISTS idx_macro_history_date ON macro_history (log_date DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Repository persists every pipeline artifact through keyed upserts, so
// re-running with the same inputs is idempotent at the storage layer.
type Repository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewRepository(pool PgxPool, tracer trace.Tracer) *Repository {
	return &Repository{pool: pool, tracer: tracer}
}

// ready rejects queries when Postgres was never configured, so callers get a
// persistence_failure they can record instead of a nil-pointer panic.
func (r *Repository) ready() error {
	if r.pool == nil {
		return domain.Errorf(domain.ErrPersistenceFailure, "sync-repo", "postgres not configured")
	}
	return nil
}

func (r *Repository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "sync-repo.run-migrations")
	defer span.End()

	if err := r.ready(); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx, createSyncTables)
	return err
}

func (r *Repository) UpsertQuote(ctx context.Context, quote domain.Quote) error {
	_, span := r.tracer.Start(ctx, "sync-repo.upsert-quote")
	defer span.End()

	if err := r.ready(); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO market_quotes (symbol, last_price, open_price, high_price, low_price, change_percent, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
ON CONFLICT (symbol) DO UPDATE SET
    last_price = EXCLUDED.last_price,
    open_price = EXCLUDED.open_price,
    high_price = EXCLUDED.high_price,
    low_price = EXCLUDED.low_price,
    change_percent = EXCLUDED.change_percent,
    updated_at = NOW()`,
		quote.Symbol, quote.LastPrice, quote.OpenPrice, quote.HighPrice, quote.LowPrice, quote.ChangePercent,
	)
	return err
}

func (r *Repository) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	_, span := r.tracer.Start(ctx, "sync-repo.list-quotes")
	defer span.End()

	if err := r.ready(); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT symbol, last_price, open_price, high_price, low_price, change_percent, updated_at
FROM market_quotes
ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Quote
	for rows.Next() {
		var q domain.Quote
		if err := rows.Scan(&q.Symbol, &q.LastPrice, &q.OpenPrice, &q.HighPrice, &q.LowPrice, &q.ChangePercent, &q.FetchedAt); err != nil {
			return nil, err
		}
		q.FetchedAt = q.FetchedAt.UTC()
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *Repository) UpsertMacroIndicator(ctx context.Context, indicator domain.MacroIndicator) error {
	_, span := r.tracer.Start(ctx, "sync-repo.upsert-macro-indicator")
	defer span.End()

	if err := r.ready(); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO macro_indicators (indicator_name, value, unit, source, is_stale, observed_at)
VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (indicator_name) DO UPDATE SET
    value = EXCLUDED.value,
    unit = EXCLUDED.unit,
    source = EXCLUDED.source,
    is_stale = EXCLUDED.is_stale,
    observed_at = NOW()`,
		indicator.Name, indicator.Value, indicator.Unit, indicator.Source, indicator.IsStale,
	)
	return err
}

// GetMacroIndicator returns nil without error when the indicator has never
// been written; the deriving stage uses this for last-known-good fallbacks.
func (r *Repository) GetMacroIndicator(ctx context.Context, name string) (*domain.MacroIndicator, error) {
	_, span := r.tracer.Start(ctx, "sync-repo.get-macro-indicator")
	defer span.End()

	if err := r.ready(); err != nil {
		return nil, err
	}

	var out domain.MacroIndicator
	err := r.pool.QueryRow(ctx, `
SELECT indicator_name, value, unit, source, is_stale, observed_at
FROM macro_indicators
WHERE indicator_name = $1`, name).Scan(&out.Name, &out.Value, &out.Unit, &out.Source, &out.IsStale, &out.ObservedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out.ObservedAt = out.ObservedAt.UTC()
	return &out, nil
}

func (r *Repository) ListMacroIndicators(ctx context.Context) ([]domain.MacroIndicator, error) {
	_, span := r.tracer.Start(ctx, "sync-repo.list-macro-indicators")
	defer span.End()

	if err := r.ready(); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT indicator_name, value, unit, source, is_stale, observed_at
FROM macro_indicators
ORDER BY indicator_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MacroIndicator
	for rows.Next() {
		var m domain.MacroIndicator
		if err := rows.Scan(&m.Name, &m.Value, &m.Unit, &m.Source, &m.IsStale, &m.ObservedAt); err != nil {
			return nil, err
		}
		m.ObservedAt = m.ObservedAt.UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) UpsertInstitutionalStat(ctx context.Context, stat domain.InstitutionalStat) error {
	_, span := r.tracer.Start(ctx, "sync-repo.upsert-institutional-stat")
	defer span.End()

	if err := r.ready(); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx, `
INSERT INTO institutional_stats (category, label, value, change_value, source, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (category, label) DO UPDATE SET
    value = EXCLUDED.value,
    change_value = EXCLUDED.change_value,
    source = EXCLUDED.source,
    updated_at = NOW()`,
		stat.Category, stat.Label, stat.Value, stat.ChangeValue, stat.Source,
	)
	return err
}

func (r *Repository) ListInstitutionalStats(ctx context.Context) ([]domain.InstitutionalStat, error) {
	_, span := r.tracer.Start(ctx, "sync-repo.list-institutional-stats")
	defer span.End()

	if err := r.ready(); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT category, label, value, change_value, source, updated_at
FROM institutional_stats
ORDER BY category, label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.InstitutionalStat
	for rows.Next() {
		var s domain.InstitutionalStat
		if err := rows.Scan(&s.Category, &s.Label, &s.Value, &s.ChangeValue, &s.Source, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.UpdatedAt = s.UpdatedAt.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpsertStrategyFields writes only the field groups present in log. COALESCE
// keeps the stored value for absent groups, so a pivot-only write earlier in
// a run survives a later advice-only refinement, and vice versa.
func (r *Repository) UpsertStrategyFields(ctx context.Context, log domain.DailyStrategyLog) error {
	_, span := r.tracer.Start(ctx, "sync-repo.upsert-strategy-fields")
	defer span.End()

	if err := r.ready(); err != nil {
		return err
	}

	pivots, err := marshalOrNil(log.PivotPoints, len(log.PivotPoints) > 0)
	if err != nil {
		return err
	}
	advice, err := marshalOrNil(log.TradeAdvice, log.TradeAdvice != nil)
	if err != nil {
		return err
	}
	outlook, err := marshalOrNil(log.FedPolicyOutlook, log.FedPolicyOutlook != nil)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
INSERT INTO daily_strategy_log (log_date, pivot_points, trade_advice, fed_policy_outlook, updated_at)
VALUES ($1::date, $2, $3, $4, NOW())
ON CONFLICT (log_date) DO UPDATE SET
    pivot_points = COALESCE(EXCLUDED.pivot_points, daily_strategy_log.pivot_points),
    trade_advice = COALESCE(EXCLUDED.trade_advice, daily_strategy_log.trade_advice),
    fed_policy_outlook = COALESCE(EXCLUDED.fed_policy_outlook, daily_strategy_log.fed_policy_outlook),
    updated_at = NOW()`,
		log.LogDate, pivots, advice, outlook,
	)
	return err
}

func (r *Repository) GetStrategyLog(ctx context.Context, logDate string) (*domain.DailyStrategyLog, error) {
	_, span := r.tracer.Start(ctx, "sync-repo.get-strategy-log")
	defer span.End()

	if err := r.ready(); err != nil {
		return nil, err
	}

	var out domain.DailyStrategyLog
	var pivots, advice, outlook []byte
	err := r.pool.QueryRow(ctx, `
SELECT log_date::text, pivot_points, trade_advice, fed_policy_outlook, updated_at
FROM daily_strategy_log
WHERE log_date = $1::date`, logDate).Scan(&out.LogDate, &pivots, &advice, &outlook, &out.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out.UpdatedAt = out.UpdatedAt.UTC()

	if len(pivots) > 0 {
		if err := json.Unmarshal(pivots, &out.PivotPoints); err != nil {
			return nil, err
		}
	}
	if len(advice) > 0 {
		if err := json.Unmarshal(advice, &out.TradeAdvice); err != nil {
			return nil, err
		}
	}
	if len(outlook) > 0 {
		if err := json.Unmarshal(outlook, &out.FedPolicyOutlook); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

// UpsertMacroHistory writes merged history rows in fixed-size batches to
// respect store payload limits. Rows inside one batch are written in date
// order, so the latest processed date of a chunk is complete before the next
// chunk starts.
func (r *Repository) UpsertMacroHistory(ctx context.Context, points []domain.MacroHistoryPoint, batchSize int) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}
	_, span := r.tracer.Start(ctx, "sync-repo.upsert-macro-history")
	defer span.End()

	if err := r.ready(); err != nil {
		return 0, err
	}

	if batchSize <= 0 {
		batchSize = 200
	}

	written := 0
	for start := 0; start < len(points); start += batchSize {
		end := start + batchSize
		if end > len(points) {
			end = len(points)
		}

		batch := &pgx.Batch{}
		for _, point := range points[start:end] {
			batch.Queue(`
INSERT INTO macro_history (log_date, nominal_yield, breakeven_inflation, real_yield)
VALUES ($1::date, $2, $3, $4)
ON CONFLICT (log_date) DO UPDATE SET
    nominal_yield = EXCLUDED.nominal_yield,
    breakeven_inflation = EXCLUDED.breakeven_inflation,
    real_yield = EXCLUDED.real_yield`,
				point.LogDate, point.NominalYield, point.BreakevenInflation, point.RealYield,
			)
		}

		br := r.pool.SendBatch(ctx, batch)
		for i := start; i < end; i++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return written, err
			}
			written++
		}
		if err := br.Close(); err != nil {
			return written, err
		}
	}
	return written, nil
}

func (r *Repository) GetMacroHistory(ctx context.Context, from, to string) ([]domain.MacroHistoryPoint, error) {
	_, span := r.tracer.Start(ctx, "sync-repo.get-macro-history")
	defer span.End()

	if err := r.ready(); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT log_date::text, nominal_yield, breakeven_inflation, real_yield
FROM macro_history
WHERE log_date >= $1::date AND log_date <= $2::date
ORDER BY log_date`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MacroHistoryPoint
	for rows.Next() {
		var p domain.MacroHistoryPoint
		if err := rows.Scan(&p.LogDate, &p.NominalYield, &p.BreakevenInflation, &p.RealYield); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertNewsItems appends headlines; the (title, published_at) key makes the
// upsert a no-op for headlines already seen. Returns how many rows were new.
func (r *Repository) InsertNewsItems(ctx context.Context, items []domain.NewsItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	_, span := r.tracer.Start(ctx, "sync-repo.insert-news-items")
	defer span.End()

	if err := r.ready(); err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
INSERT INTO news_items (title, published_at, url, source, category)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (title, published_at) DO NOTHING`,
			item.Title, item.PublishedAt.UTC(), item.URL, item.Source, item.Category,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range items {
		tag, err := br.Exec()
		if err != nil {
			return inserted, err
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (r *Repository) ListNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	_, span := r.tracer.Start(ctx, "sync-repo.list-news")
	defer span.End()

	if err := r.ready(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT title, published_at, url, source, category
FROM news_items
ORDER BY published_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.NewsItem, 0, limit)
	for rows.Next() {
		var item domain.NewsItem
		if err := rows.Scan(&item.Title, &item.PublishedAt, &item.URL, &item.Source, &item.Category); err != nil {
			return nil, err
		}
		item.PublishedAt = item.PublishedAt.UTC()
		out = append(out, item)
	}
	return out, rows.Err()
}

func marshalOrNil(v any, present bool) (any, error) {
	if !present {
		return nil, nil
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return encoded, nil
}
