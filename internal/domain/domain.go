package domain

import "time"

// Quote is a snapshot of an instrument's latest prices, normalized from one
// provider response. Persisted keyed by symbol with no history retained.
type Quote struct {
	Symbol        string    `json:"symbol"`
	LastPrice     float64   `json:"last_price"`
	OpenPrice     float64   `json:"open_price"`
	HighPrice     float64   `json:"high_price"`
	LowPrice      float64   `json:"low_price"`
	ChangePercent float64   `json:"change_percent"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// MacroIndicator is a named macro value, fully overwritten on each successful
// computation. IsStale marks values computed from a substitute input rather
// than a fresh one.
type MacroIndicator struct {
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit,omitempty"`
	Source     string    `json:"source"`
	IsStale    bool      `json:"is_stale"`
	ObservedAt time.Time `json:"observed_at"`
}

const (
	IndicatorRealYield          = "10y_real_yield"
	IndicatorBreakevenInflation = "10y_breakeven_inflation"
	IndicatorDomesticPremium    = "domestic_premium"
	IndicatorMomentumRSI14      = "momentum_rsi_14"
	IndicatorFedCutProbability  = "fed_cut_probability"
)

// InstitutionalStat is keyed by (category, label). Source distinguishes
// provider-derived values ("yahoo") from formula-derived proxies ("modeled").
type InstitutionalStat struct {
	Category    string    `json:"category"`
	Label       string    `json:"label"`
	Value       float64   `json:"value"`
	ChangeValue float64   `json:"change_value"`
	Source      string    `json:"source"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PivotSet holds the classic pivot levels for one timeframe.
type PivotSet struct {
	P  float64 `json:"p"`
	R1 float64 `json:"r1"`
	S1 float64 `json:"s1"`
	R2 float64 `json:"r2"`
	S2 float64 `json:"s2"`
}

const (
	TimeframeIntraday = "intraday"
	TimeframeDaily    = "daily"
	TimeframeWeekly   = "weekly"
)

// TradeAdvice is the confidence-scored recommendation produced by synthesis.
type TradeAdvice struct {
	Entry      float64  `json:"entry"`
	TakeProfit float64  `json:"take_profit"`
	StopLoss   float64  `json:"stop_loss"`
	Confidence float64  `json:"confidence"`
	Rationale  []string `json:"rationale"`
}

// FedPolicyOutlook encodes the single-step 25bp probability pair implied by
// the fed funds futures price. The two probabilities always sum to 100.
type FedPolicyOutlook struct {
	CurrentRate float64 `json:"current_rate"`
	ImpliedRate float64 `json:"implied_rate"`
	ProbCut25   float64 `json:"prob_cut_25"`
	ProbPause   float64 `json:"prob_pause"`
}

// DailyStrategyLog is keyed by calendar day. Field groups are written
// independently within a run; a later stage refines what an earlier stage
// wrote (last write wins per field group).
type DailyStrategyLog struct {
	LogDate          string               `json:"log_date"`
	PivotPoints      map[string]*PivotSet `json:"pivot_points,omitempty"`
	TradeAdvice      *TradeAdvice         `json:"trade_advice,omitempty"`
	FedPolicyOutlook *FedPolicyOutlook    `json:"fed_policy_outlook,omitempty"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// MacroHistoryPoint is one merged daily observation, produced only by the
// history backfill stage.
type MacroHistoryPoint struct {
	LogDate            string  `json:"log_date"`
	NominalYield       float64 `json:"nominal_yield"`
	BreakevenInflation float64 `json:"breakeven_inflation"`
	RealYield          float64 `json:"real_yield"`
}

// NewsItem is keyed by (title, published_at) so identical headlines dedupe;
// upserting an existing key is a no-op.
type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
}

// RunState tracks the orchestrator's progress through one pipeline run.
type RunState string

const (
	StateIdle           RunState = "idle"
	StateFetching       RunState = "fetching"
	StateDeriving       RunState = "deriving"
	StateSynthesizing   RunState = "synthesizing"
	StatePersisted      RunState = "persisted"
	StatePartialFailure RunState = "partial_failure"
)

// SyncReport is the audit trail for one invocation. Never persisted.
type SyncReport struct {
	State   RunState `json:"state"`
	Updated []string `json:"updated"`
	Errors  []string `json:"errors"`
}

// Ok reports whether the run finished with no recorded errors.
func (r SyncReport) Ok() bool {
	return len(r.Errors) == 0
}
