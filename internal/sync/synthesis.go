package sync

import (
	"fmt"
	"math"

	"goldtracer/internal/domain"
)

// Deterministic weighted scoring, not machine-learned. The fixed base plus
// capped adjustments keep reported confidence inside [0.30, 0.98]: never
// fully certain, never fully impossible.
const (
	baseConfidence = 0.50
	minConfidence  = 0.30
	maxConfidence  = 0.98

	realYieldAdjustment    = 0.10
	institutionalFlowBonus = 0.05
	neutralBandAdjustment  = 0.10
	overboughtPenalty      = 0.15
	riskIndexAdjustment    = 0.15

	oscillatorNeutralLow  = 40.0
	oscillatorNeutralHigh = 60.0
	oscillatorOverbought  = 70.0
)

// SynthesisInput carries the indicators already resolved this run. Nil
// pointers mean the indicator was undefined and its rule is skipped.
type SynthesisInput struct {
	RealYield          *float64
	Oscillator         *float64
	RiskIndex          *float64
	DailyPivots        *domain.PivotSet
	RealYieldBullBelow float64
	RiskIndexThreshold float64
}

// Synthesize combines the macro, technical, institutional and risk inputs
// into one confidence-scored recommendation. Entry, take-profit and stop-loss
// come straight from the daily pivot set; without it there is nothing to
// anchor the trade and the result is undefined.
func Synthesize(in SynthesisInput) (*domain.TradeAdvice, bool) {
	if in.DailyPivots == nil {
		return nil, false
	}
	if in.RealYieldBullBelow == 0 {
		in.RealYieldBullBelow = 2.0
	}
	if in.RiskIndexThreshold == 0 {
		in.RiskIndexThreshold = 20.0
	}

	confidence := baseConfidence
	var reasons []string

	if in.RealYield != nil && *in.RealYield < in.RealYieldBullBelow {
		confidence += realYieldAdjustment
		reasons = append(reasons, fmt.Sprintf("macro yield support: real yield %.2f below %.2f", *in.RealYield, in.RealYieldBullBelow))
	}

	// Placeholder for a richer institutional-flow signal.
	confidence += institutionalFlowBonus
	reasons = append(reasons, "institutional flow steady")

	if in.Oscillator != nil {
		osc := *in.Oscillator
		switch {
		case osc >= oscillatorOverbought:
			confidence -= overboughtPenalty
			reasons = append(reasons, fmt.Sprintf("momentum overbought (RSI %.2f)", osc))
		case osc >= oscillatorNeutralLow && osc <= oscillatorNeutralHigh:
			confidence += neutralBandAdjustment
			reasons = append(reasons, fmt.Sprintf("momentum has room to grow (RSI %.2f)", osc))
		}
	}

	if in.RiskIndex != nil && *in.RiskIndex > in.RiskIndexThreshold {
		confidence += riskIndexAdjustment
		reasons = append(reasons, fmt.Sprintf("elevated risk index %.2f supports safe-haven demand", *in.RiskIndex))
	}

	confidence = clampFloat(confidence, minConfidence, maxConfidence)

	return &domain.TradeAdvice{
		Entry:      in.DailyPivots.P,
		TakeProfit: in.DailyPivots.R1,
		StopLoss:   in.DailyPivots.S1,
		Confidence: round2(confidence),
		Rationale:  reasons,
	}, true
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
