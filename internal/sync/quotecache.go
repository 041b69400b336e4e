package sync

import (
	"context"

	"goldtracer/internal/domain"
)

// QuoteFetcher is the acquisition boundary the cache fronts.
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

// QuoteCache memoizes the first successful fetch per symbol for the duration
// of one pipeline run. It is an explicit per-run object, never process-wide
// state, so overlapping runs cannot cross-contaminate cached quotes.
type QuoteCache struct {
	fetcher QuoteFetcher
	quotes  map[string]*domain.Quote
}

func NewQuoteCache(fetcher QuoteFetcher) *QuoteCache {
	return &QuoteCache{
		fetcher: fetcher,
		quotes:  make(map[string]*domain.Quote),
	}
}

// GetOrFetch returns the memoized quote for symbol, fetching on first use.
// Failed fetches are not memoized; force bypasses the cache and replaces the
// entry on success.
func (c *QuoteCache) GetOrFetch(ctx context.Context, symbol string, force bool) (*domain.Quote, error) {
	if !force {
		if quote, ok := c.quotes[symbol]; ok {
			return quote, nil
		}
	}
	quote, err := c.fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.quotes[symbol] = quote
	return quote, nil
}

// Peek returns the cached quote without fetching.
func (c *QuoteCache) Peek(symbol string) (*domain.Quote, bool) {
	quote, ok := c.quotes[symbol]
	return quote, ok
}
