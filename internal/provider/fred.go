package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"goldtracer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const fredBaseURL = "https://api.stlouisfed.org/fred"

// FREDProvider fetches statistical-series observations from FRED. A missing
// API key is reported as config_missing: permanent unavailability for the
// metric, not a crash.
type FREDProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
}

func NewFREDProvider(apiKey string, tracer trace.Tracer) *FREDProvider {
	return &FREDProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: fredBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
		tracer:  tracer,
	}
}

type fredObservationsPayload struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// FetchLatest returns the most recent observation for a series. FRED encodes
// a missing value as ".", which surfaces here as provider_unavailable.
func (p *FREDProvider) FetchLatest(ctx context.Context, seriesID string) (float64, error) {
	_, span := p.tracer.Start(ctx, "fred.fetch-latest")
	defer span.End()

	if p.apiKey == "" {
		return 0, domain.Errorf(domain.ErrConfigMissing, "fred.latest", "FRED_API_KEY is not configured")
	}

	query := url.Values{}
	query.Set("series_id", seriesID)
	query.Set("sort_order", "desc")
	query.Set("limit", "1")

	payload, err := p.fetchObservations(ctx, query)
	if err != nil {
		return 0, err
	}
	if len(payload.Observations) == 0 {
		return 0, domain.Errorf(domain.ErrMalformedResponse, "fred.latest", "no observations for %s", seriesID)
	}

	row := payload.Observations[0]
	if row.Value == "." {
		return 0, domain.Errorf(domain.ErrProviderUnavailable, "fred.latest", "series %s has no current value", seriesID)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(row.Value), 64)
	if err != nil {
		return 0, domain.Errorf(domain.ErrMalformedResponse, "fred.latest", "parse %s value %q: %v", seriesID, row.Value, err)
	}
	return value, nil
}

// FetchObservations returns date → value for a series over [from, to],
// ascending by date, skipping missing "." rows.
func (p *FREDProvider) FetchObservations(ctx context.Context, seriesID string, from, to time.Time) (map[string]float64, error) {
	_, span := p.tracer.Start(ctx, "fred.fetch-observations")
	defer span.End()

	if p.apiKey == "" {
		return nil, domain.Errorf(domain.ErrConfigMissing, "fred.observations", "FRED_API_KEY is not configured")
	}

	query := url.Values{}
	query.Set("series_id", seriesID)
	query.Set("sort_order", "asc")
	query.Set("observation_start", from.UTC().Format("2006-01-02"))
	query.Set("observation_end", to.UTC().Format("2006-01-02"))

	payload, err := p.fetchObservations(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(payload.Observations))
	for _, row := range payload.Observations {
		if row.Value == "." {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row.Value), 64)
		if err != nil {
			continue
		}
		out[row.Date] = value
	}
	return out, nil
}

func (p *FREDProvider) fetchObservations(ctx context.Context, query url.Values) (*fredObservationsPayload, error) {
	query.Set("api_key", p.apiKey)
	query.Set("file_type", "json")
	reqURL := fmt.Sprintf("%s/series/observations?%s", p.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, domain.WrapError(domain.ErrProviderUnavailable, "fred.request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrProviderUnavailable, "fred.request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, domain.Errorf(domain.ErrProviderUnavailable, "fred.request", "FRED API error %d: %s", resp.StatusCode, string(body))
	}

	var payload fredObservationsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, domain.Errorf(domain.ErrMalformedResponse, "fred.request", "decode observations: %v", err)
	}
	return &payload, nil
}
