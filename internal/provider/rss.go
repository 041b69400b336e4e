package provider

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"time"

	"goldtracer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// RSSProvider ingests market-news headlines from RSS feeds.
type RSSProvider struct {
	client *http.Client
	tracer trace.Tracer
}

func NewRSSProvider(tracer trace.Tracer) *RSSProvider {
	return &RSSProvider{
		client: &http.Client{Timeout: 20 * time.Second},
		tracer: tracer,
	}
}

// FetchFeed returns up to maxItems news items from one feed. The feed's
// channel title becomes the item source; category defaults to "market".
func (p *RSSProvider) FetchFeed(ctx context.Context, feedURL string, maxItems int) ([]domain.NewsItem, error) {
	_, span := p.tracer.Start(ctx, "rss.fetch-feed")
	defer span.End()

	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, domain.Errorf(domain.ErrConfigMissing, "rss.fetch", "feed url is required")
	}
	if maxItems <= 0 {
		maxItems = 40
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, domain.WrapError(domain.ErrProviderUnavailable, "rss.fetch", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrProviderUnavailable, "rss.fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, domain.Errorf(domain.ErrProviderUnavailable, "rss.fetch", "rss fetch error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrProviderUnavailable, "rss.fetch", err)
	}

	var rss struct {
		Channel struct {
			Title string `xml:"title"`
			Items []struct {
				Title    string `xml:"title"`
				Link     string `xml:"link"`
				Category string `xml:"category"`
				PubDate  string `xml:"pubDate"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(body, &rss); err != nil {
		return nil, domain.Errorf(domain.ErrMalformedResponse, "rss.fetch", "decode rss payload: %v", err)
	}

	source := sanitizeText(rss.Channel.Title, 120)
	if source == "" {
		source = feedURL
	}

	items := make([]domain.NewsItem, 0, minInt(maxItems, len(rss.Channel.Items)))
	for i, row := range rss.Channel.Items {
		if i >= maxItems {
			break
		}
		title := sanitizeText(row.Title, 300)
		if title == "" {
			continue
		}
		publishedAt := parseRSSDate(row.PubDate)
		if publishedAt.IsZero() {
			publishedAt = time.Now().UTC()
		}
		category := sanitizeText(row.Category, 60)
		if category == "" {
			category = "market"
		}
		items = append(items, domain.NewsItem{
			Title:       title,
			URL:         sanitizeText(row.Link, 500),
			PublishedAt: publishedAt,
			Source:      source,
			Category:    strings.ToLower(category),
		})
	}
	return items, nil
}

func parseRSSDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func sanitizeText(v string, max int) string {
	v = strings.TrimSpace(v)
	if len(v) > max {
		v = strings.TrimSpace(v[:max])
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
