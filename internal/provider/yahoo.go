package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"goldtracer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// Bar is one OHLC bar from the chart endpoint. Fields are pointers because
// the provider emits explicit nulls inside partially-filled bars.
type Bar struct {
	Time  time.Time
	Open  *float64
	High  *float64
	Low   *float64
	Close *float64
}

// YahooProvider fetches quotes and OHLC history from the Yahoo Finance chart
// endpoint. Ordinary failure modes (timeout, non-2xx, schema mismatch) come
// back as typed SyncErrors, never panics.
type YahooProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewYahooProvider creates a provider with built-in rate limiting
// (30 requests per minute, one token every 2 seconds).
func NewYahooProvider(tracer trace.Tracer) *YahooProvider {
	return &YahooProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: yahooBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(30, 2*time.Second),
	}
}

type yahooChartPayload struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// FetchQuote fetches the latest session for a symbol and normalizes it into
// a Quote. change_percent is 0 when the session open is absent or zero.
func (p *YahooProvider) FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	_, span := p.tracer.Start(ctx, "yahoo.fetch-quote")
	defer span.End()

	payload, err := p.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return nil, err
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, domain.Errorf(domain.ErrMalformedResponse, "yahoo.quote", "no quote block for %s", symbol)
	}
	bars := result.Indicators.Quote[0]

	last := result.Meta.RegularMarketPrice
	quote := &domain.Quote{
		Symbol:    symbol,
		LastPrice: last,
		FetchedAt: time.Now().UTC(),
	}
	if len(bars.Open) > 0 && bars.Open[0] != nil {
		quote.OpenPrice = *bars.Open[0]
	}
	if len(bars.High) > 0 && bars.High[0] != nil {
		quote.HighPrice = *bars.High[0]
	}
	if len(bars.Low) > 0 && bars.Low[0] != nil {
		quote.LowPrice = *bars.Low[0]
	}
	if quote.OpenPrice != 0 {
		quote.ChangePercent = (last/quote.OpenPrice - 1) * 100
	}
	return quote, nil
}

// FetchBars fetches OHLC bars for a symbol at the given interval ("1h", "1d",
// "1wk") over the given range ("5d", "1mo", "6mo", "1y"). Bars are returned
// in chronological order; incomplete bars keep their nil fields.
func (p *YahooProvider) FetchBars(ctx context.Context, symbol, interval, rng string) ([]Bar, error) {
	_, span := p.tracer.Start(ctx, "yahoo.fetch-bars")
	defer span.End()

	payload, err := p.fetchChart(ctx, symbol, interval, rng)
	if err != nil {
		return nil, err
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, domain.Errorf(domain.ErrMalformedResponse, "yahoo.bars", "no quote block for %s", symbol)
	}
	q := result.Indicators.Quote[0]

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		bar := Bar{Time: time.Unix(ts, 0).UTC()}
		if i < len(q.Open) {
			bar.Open = q.Open[i]
		}
		if i < len(q.High) {
			bar.High = q.High[i]
		}
		if i < len(q.Low) {
			bar.Low = q.Low[i]
		}
		if i < len(q.Close) {
			bar.Close = q.Close[i]
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// FetchDailyCloses returns date → close over the given range, skipping bars
// whose close is null. Dates use the "2006-01-02" form in UTC.
func (p *YahooProvider) FetchDailyCloses(ctx context.Context, symbol, rng string) (map[string]float64, error) {
	bars, err := p.FetchBars(ctx, symbol, "1d", rng)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(bars))
	for _, bar := range bars {
		if bar.Close == nil {
			continue
		}
		out[bar.Time.Format("2006-01-02")] = *bar.Close
	}
	return out, nil
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChartPayload, error) {
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		p.baseURL, url.PathEscape(symbol), url.QueryEscape(rng), url.QueryEscape(interval))

	body, err := p.doRequest(ctx, reqURL)
	if err != nil {
		return nil, domain.WrapError(domain.ErrProviderUnavailable, "yahoo.chart", err)
	}

	var payload yahooChartPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.Errorf(domain.ErrMalformedResponse, "yahoo.chart", "parse chart for %s: %v", symbol, err)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, domain.Errorf(domain.ErrMalformedResponse, "yahoo.chart", "empty result for %s", symbol)
	}
	return &payload, nil
}

func (p *YahooProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "goldtracer/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("yahoo API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
