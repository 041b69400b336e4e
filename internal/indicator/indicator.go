// Package indicator holds the pure derivation formulas. Every function takes
// fully-resolved numeric inputs and reports undefined results through an ok
// flag; nothing here touches the network or the store.
package indicator

import (
	"math"

	"goldtracer/internal/domain"
)

// GramsPerTroyOunce converts a per-ounce global price into per-gram terms.
const GramsPerTroyOunce = 31.1035

// RealYield is the nominal 10Y yield minus breakeven inflation, rounded to
// 4 decimals.
func RealYield(nominal, breakeven float64) float64 {
	return round(nominal-breakeven, 4)
}

// DomesticPremium is the local per-gram cash price minus the FX-converted
// international per-gram price, rounded to 2 decimals. Undefined when any
// input is missing or zero.
func DomesticPremium(localPerGram, globalPerOunce, fxRate float64) (float64, bool) {
	if localPerGram == 0 || globalPerOunce == 0 || fxRate == 0 {
		return 0, false
	}
	internationalPerGram := globalPerOunce / GramsPerTroyOunce * fxRate
	return round(localPerGram-internationalPerGram, 2), true
}

// PivotPoints derives the standard pivot levels from a prior completed
// period's high/low/close. Undefined for non-positive inputs or an inverted
// high/low pair.
func PivotPoints(high, low, close float64) (domain.PivotSet, bool) {
	if high <= 0 || low <= 0 || close <= 0 || high < low {
		return domain.PivotSet{}, false
	}
	p := (high + low + close) / 3
	return domain.PivotSet{
		P:  round(p, 2),
		R1: round(2*p-low, 2),
		S1: round(2*p-high, 2),
		R2: round(p+(high-low), 2),
		S2: round(p-(high-low), 2),
	}, true
}

// MomentumOscillator is the classic relative-strength oscillator over the
// trailing `period` changes of chronologically-ordered closes. Requires at
// least period+1 closes. When the trailing window has zero average loss the
// oscillator is exactly 100.
func MomentumOscillator(closes []float64, period int) (float64, bool) {
	if period <= 0 {
		period = 14
	}
	if len(closes) < period+1 {
		return 0, false
	}

	var gainSum, lossSum float64
	start := len(closes) - period - 1
	for i := start + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}

	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return round(100-100/(1+rs), 2), true
}

// PolicyRateOutlook maps the gap between the current policy rate and the
// futures-implied rate onto a single-step 25bp cut probability. Deliberately
// simplistic: one possible move, linear in the gap, clamped to [0, 100].
func PolicyRateOutlook(currentRate, futuresPrice float64) domain.FedPolicyOutlook {
	impliedRate := 100 - futuresPrice
	diff := currentRate - impliedRate
	probCut := round(clamp(diff/0.25*100, 0, 100), 2)
	return domain.FedPolicyOutlook{
		CurrentRate: currentRate,
		ImpliedRate: round(impliedRate, 4),
		ProbCut25:   probCut,
		ProbPause:   round(100-probCut, 2),
	}
}

func round(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
