package analysis

import (
	"fmt"

	"goldtracer/internal/domain"
)

// Bias is the macro stance the rule set settles on.
type Bias string

const (
	BiasBullish Bias = "bullish"
	BiasNeutral Bias = "neutral"
	BiasBearish Bias = "bearish"
)

const (
	bullishRealYieldBelow = 1.5
	bearishRealYieldAbove = 3.0
	bullishCutProbAbove   = 50.0

	premiumAlertAbove = 15.0
	netLongAlertAbove = 200000.0
)

// Input is the indicator and positioning snapshot the engine reads. Nil
// pointers mean the value was not resolved this run and its rule is skipped.
type Input struct {
	RealYield       *float64
	FedCutProb      *float64
	DomesticPremium *float64
	NetLong         *float64
	GoldChangePct   *float64
	ETFChangePct    *float64
}

// Assessment is the rule-based read of current conditions. Alerts flag
// configurations worth a human look; they do not change the bias.
type Assessment struct {
	Bias    Bias     `json:"bias"`
	Reasons []string `json:"reasons"`
	Alerts  []string `json:"alerts"`
}

// Evaluate applies the standard-operating-procedure rules to the snapshot.
// The bias rules are strict: bullish needs both a depressed real yield and a
// cut-leaning policy outlook, bearish needs only a punitive real yield, and
// anything in between is neutral.
func Evaluate(in Input) Assessment {
	out := Assessment{Bias: BiasNeutral}

	switch {
	case in.RealYield != nil && in.FedCutProb != nil &&
		*in.RealYield < bullishRealYieldBelow && *in.FedCutProb > bullishCutProbAbove:
		out.Bias = BiasBullish
		out.Reasons = append(out.Reasons,
			fmt.Sprintf("real yield %.2f below %.2f with cut probability %.1f%%", *in.RealYield, bullishRealYieldBelow, *in.FedCutProb))
	case in.RealYield != nil && *in.RealYield > bearishRealYieldAbove:
		out.Bias = BiasBearish
		out.Reasons = append(out.Reasons,
			fmt.Sprintf("real yield %.2f above %.2f pressures non-yielding assets", *in.RealYield, bearishRealYieldAbove))
	default:
		out.Reasons = append(out.Reasons, "macro inputs mixed or incomplete")
	}

	if in.DomesticPremium != nil && *in.DomesticPremium > premiumAlertAbove {
		out.Alerts = append(out.Alerts,
			fmt.Sprintf("domestic premium %.2f%% above %.0f%%, local demand running hot", *in.DomesticPremium, premiumAlertAbove))
	}
	if in.NetLong != nil && *in.NetLong > netLongAlertAbove {
		out.Alerts = append(out.Alerts,
			fmt.Sprintf("managed money net long %.0f contracts, crowded positioning", *in.NetLong))
	}
	if in.GoldChangePct != nil && in.ETFChangePct != nil && diverging(*in.GoldChangePct, *in.ETFChangePct) {
		out.Alerts = append(out.Alerts,
			fmt.Sprintf("spot (%.2f%%) and ETF flow (%.2f%%) moving apart", *in.GoldChangePct, *in.ETFChangePct))
	}

	return out
}

// InputFromSnapshot adapts persisted indicators and stats into engine input.
func InputFromSnapshot(indicators []domain.MacroIndicator, stats []domain.InstitutionalStat, quotes []domain.Quote, goldSymbol, etfSymbol string) Input {
	var in Input
	for i := range indicators {
		ind := indicators[i]
		switch ind.Name {
		case domain.IndicatorRealYield:
			in.RealYield = &ind.Value
		case domain.IndicatorFedCutProbability:
			in.FedCutProb = &ind.Value
		case domain.IndicatorDomesticPremium:
			in.DomesticPremium = &ind.Value
		}
	}
	for i := range stats {
		stat := stats[i]
		if stat.Category == "cftc" && stat.Label == "managed_money_net_long" {
			in.NetLong = &stat.Value
		}
		if stat.Category == "etf_flow" && stat.Label == etfSymbol {
			in.ETFChangePct = &stat.ChangeValue
		}
	}
	for i := range quotes {
		quote := quotes[i]
		if quote.Symbol == goldSymbol {
			in.GoldChangePct = &quote.ChangePercent
		}
	}
	return in
}

func diverging(a, b float64) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}
