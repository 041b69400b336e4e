package indicator

import (
	"math"
	"testing"
)

func TestRealYield(t *testing.T) {
	got := RealYield(4.20, 2.35)
	if got != 1.85 {
		t.Fatalf("expected 1.85, got %v", got)
	}

	// Rounds to 4 decimals.
	got = RealYield(4.123456, 2.0)
	if got != 2.1235 {
		t.Fatalf("expected 2.1235, got %v", got)
	}

	if RealYield(2.0, 3.5) != -1.5 {
		t.Fatal("negative real yield should pass through")
	}
}

func TestDomesticPremium(t *testing.T) {
	// local 480 CNY/g, global 2000 USD/oz, fx 7.2 CNY/USD
	// global per gram in CNY: 2000*7.2/31.1035 = 463.0395...
	premium, ok := DomesticPremium(480, 2000, 7.2)
	if !ok {
		t.Fatal("expected defined premium")
	}
	if premium < 3.5 || premium > 3.8 {
		t.Fatalf("premium out of expected range: %v", premium)
	}

	for _, inputs := range [][3]float64{
		{0, 2000, 7.2},
		{480, 0, 7.2},
		{480, 2000, 0},
	} {
		if _, ok := DomesticPremium(inputs[0], inputs[1], inputs[2]); ok {
			t.Fatalf("expected undefined premium for inputs %v", inputs)
		}
	}
}

func TestPivotPoints(t *testing.T) {
	set, ok := PivotPoints(2050, 2010, 2030)
	if !ok {
		t.Fatal("expected defined pivots")
	}
	if set.P != 2030 {
		t.Fatalf("expected P 2030, got %v", set.P)
	}
	if set.R1 != 2050 || set.S1 != 2010 {
		t.Fatalf("unexpected R1/S1: %v/%v", set.R1, set.S1)
	}
	if set.R2 != 2070 || set.S2 != 1990 {
		t.Fatalf("unexpected R2/S2: %v/%v", set.R2, set.S2)
	}

	// Levels sit symmetric around the pivot for this input.
	if set.R1-set.P != set.P-set.S1 {
		t.Fatal("R1 and S1 not symmetric around P")
	}
}

func TestPivotPointsRejectsBadInput(t *testing.T) {
	if _, ok := PivotPoints(2010, 2050, 2030); ok {
		t.Fatal("inverted high/low should be rejected")
	}
	if _, ok := PivotPoints(0, 0, 0); ok {
		t.Fatal("zero bar should be rejected")
	}
	if _, ok := PivotPoints(2050, -1, 2030); ok {
		t.Fatal("negative low should be rejected")
	}
}

func TestMomentumOscillatorBounds(t *testing.T) {
	// Alternating gains and losses keep the oscillator strictly inside (0, 100).
	closes := make([]float64, 0, 30)
	price := 100.0
	for i := 0; i < 30; i++ {
		if i%2 == 0 {
			price += 2
		} else {
			price -= 1
		}
		closes = append(closes, price)
	}

	osc, ok := MomentumOscillator(closes, 14)
	if !ok {
		t.Fatal("expected defined oscillator")
	}
	if osc <= 0 || osc >= 100 {
		t.Fatalf("oscillator out of bounds: %v", osc)
	}
}

func TestMomentumOscillatorAllGains(t *testing.T) {
	closes := make([]float64, 0, 20)
	for i := 0; i < 20; i++ {
		closes = append(closes, 100+float64(i))
	}

	osc, ok := MomentumOscillator(closes, 14)
	if !ok {
		t.Fatal("expected defined oscillator")
	}
	if osc != 100 {
		t.Fatalf("zero average loss must map to exactly 100, got %v", osc)
	}
}

func TestMomentumOscillatorInsufficientHistory(t *testing.T) {
	closes := []float64{1, 2, 3}
	if _, ok := MomentumOscillator(closes, 14); ok {
		t.Fatal("expected undefined oscillator with 3 closes")
	}
	// period+1 closes is the minimum
	closes = make([]float64, 14)
	if _, ok := MomentumOscillator(closes, 14); ok {
		t.Fatal("period closes is one short of the minimum")
	}
}

func TestPolicyRateOutlook(t *testing.T) {
	// Futures at 94.625 imply a rate of 5.375: no cut priced in.
	outlook := PolicyRateOutlook(5.375, 94.625)
	if outlook.ImpliedRate != 5.375 {
		t.Fatalf("expected implied rate 5.375, got %v", outlook.ImpliedRate)
	}
	if outlook.ProbCut25 != 0 || outlook.ProbPause != 100 {
		t.Fatalf("expected 0/100, got %v/%v", outlook.ProbCut25, outlook.ProbPause)
	}

	// Implied a quarter point below current: fully priced cut.
	outlook = PolicyRateOutlook(5.375, 94.875)
	if outlook.ProbCut25 != 100 || outlook.ProbPause != 0 {
		t.Fatalf("expected 100/0, got %v/%v", outlook.ProbCut25, outlook.ProbPause)
	}

	// Beyond a quarter point still clamps to 100.
	outlook = PolicyRateOutlook(5.375, 95.50)
	if outlook.ProbCut25 != 100 {
		t.Fatalf("expected clamp to 100, got %v", outlook.ProbCut25)
	}

	// Implied above current clamps to 0.
	outlook = PolicyRateOutlook(5.375, 94.0)
	if outlook.ProbCut25 != 0 {
		t.Fatalf("expected clamp to 0, got %v", outlook.ProbCut25)
	}
}

func TestPolicyRateOutlookProbabilitiesSum(t *testing.T) {
	for _, price := range []float64{94.625, 94.70, 94.81, 94.875, 95.2} {
		outlook := PolicyRateOutlook(5.375, price)
		sum := outlook.ProbCut25 + outlook.ProbPause
		if math.Abs(sum-100) > 1e-9 {
			t.Fatalf("probabilities for price %v sum to %v", price, sum)
		}
	}
}
