package domain

import "fmt"

// Ticker is one tracked instrument on the quote provider.
type Ticker struct {
	Symbol string
	Name   string
}

// DefaultTickers lists the high-frequency instruments every run refreshes.
var DefaultTickers = []Ticker{
	{Symbol: "GC=F", Name: "Gold Futures"},
	{Symbol: "^TNX", Name: "10Y Treasury Yield"},
	{Symbol: "DX-Y.NYB", Name: "US Dollar Index"},
	{Symbol: "ZQ=F", Name: "30-Day Fed Funds Futures"},
	{Symbol: "^VIX", Name: "CBOE Volatility Index"},
	{Symbol: "CNY=X", Name: "USD/CNY"},
	{Symbol: "GLD", Name: "SPDR Gold Shares"},
}

// TickerMap builds a symbol-keyed lookup for one run. Duplicate symbols in a
// batch are a configuration error, not a silent first-match.
func TickerMap(tickers []Ticker) (map[string]Ticker, error) {
	out := make(map[string]Ticker, len(tickers))
	for _, t := range tickers {
		if t.Symbol == "" {
			return nil, fmt.Errorf("ticker with empty symbol")
		}
		if _, ok := out[t.Symbol]; ok {
			return nil, fmt.Errorf("duplicate ticker symbol %q", t.Symbol)
		}
		out[t.Symbol] = t
	}
	return out, nil
}
