package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"goldtracer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Kitco Commentaries</title>
    <item>
      <title>  Gold holds above support  </title>
      <link>https://example.com/a</link>
      <category>Metals</category>
      <pubDate>Mon, 30 Jun 2025 12:00:00 +0000</pubDate>
    </item>
    <item>
      <title></title>
      <link>https://example.com/empty</link>
    </item>
    <item>
      <title>Dollar softens ahead of data</title>
      <link>https://example.com/b</link>
      <pubDate>not a date</pubDate>
    </item>
  </channel>
</rss>`

func TestFetchFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody)
	}))
	t.Cleanup(srv.Close)

	p := NewRSSProvider(trace.NewNoopTracerProvider().Tracer("test"))
	items, err := p.FetchFeed(context.Background(), srv.URL, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The empty-title item is dropped.
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	first := items[0]
	if first.Title != "Gold holds above support" {
		t.Fatalf("title not trimmed: %q", first.Title)
	}
	if first.Source != "Kitco Commentaries" {
		t.Fatalf("unexpected source: %q", first.Source)
	}
	if first.Category != "metals" {
		t.Fatalf("category not lowercased: %q", first.Category)
	}
	if first.PublishedAt.IsZero() {
		t.Fatal("pubDate not parsed")
	}

	// Unparseable date falls back to now, category to market.
	second := items[1]
	if second.PublishedAt.IsZero() {
		t.Fatal("fallback publish time missing")
	}
	if second.Category != "market" {
		t.Fatalf("expected default category, got %q", second.Category)
	}
}

func TestFetchFeedLimitsItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody)
	}))
	t.Cleanup(srv.Close)

	p := NewRSSProvider(trace.NewNoopTracerProvider().Tracer("test"))
	items, err := p.FetchFeed(context.Background(), srv.URL, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestFetchFeedMalformedXML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{\"not\": \"xml\"}")
	}))
	t.Cleanup(srv.Close)

	p := NewRSSProvider(trace.NewNoopTracerProvider().Tracer("test"))
	_, err := p.FetchFeed(context.Background(), srv.URL, 10)
	if kind := domain.KindOf(err); kind != domain.ErrMalformedResponse {
		t.Fatalf("expected malformed_response, got %s", kind)
	}
}

func TestFetchFeedEmptyURL(t *testing.T) {
	p := NewRSSProvider(trace.NewNoopTracerProvider().Tracer("test"))
	_, err := p.FetchFeed(context.Background(), "  ", 10)
	if kind := domain.KindOf(err); kind != domain.ErrConfigMissing {
		t.Fatalf("expected config_missing, got %s", kind)
	}
}
