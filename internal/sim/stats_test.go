package sim

import (
	"math"
	"testing"
)

func TestLinspace(t *testing.T) {
	ladder := linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if len(ladder) != len(want) {
		t.Fatalf("got %d values, want %d", len(ladder), len(want))
	}
	for i := range want {
		if math.Abs(ladder[i]-want[i]) > 1e-12 {
			t.Errorf("ladder[%d] = %v, want %v", i, ladder[i], want[i])
		}
	}

	single := linspace(0.1, 0.9, 1)
	if len(single) != 1 || single[0] != 0.1 {
		t.Errorf("single-level ladder should collapse to the minimum, got %v", single)
	}
}

func TestMeanAndStdDev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	m := mean(xs)
	if m != 5 {
		t.Errorf("mean = %v, want 5", m)
	}
	sd := sampleStdDev(xs, m)
	// Sample (ddof=1) stddev of this set is sqrt(32/7).
	want := math.Sqrt(32.0 / 7.0)
	if math.Abs(sd-want) > 1e-12 {
		t.Errorf("stddev = %v, want %v", sd, want)
	}
}

func TestRiskAdjustedRatio_Degenerate(t *testing.T) {
	if r := riskAdjustedRatio(nil, 0, 252); r != 0 {
		t.Errorf("empty history ratio = %v, want 0", r)
	}
	if r := riskAdjustedRatio([]float64{0.01}, 0, 252); r != 0 {
		t.Errorf("single-sample ratio = %v, want 0", r)
	}
	// All-cash history: identical returns, zero variance.
	if r := riskAdjustedRatio([]float64{0, 0, 0, 0}, 0.0001, 252); r != 0 {
		t.Errorf("zero-variance ratio = %v, want 0", r)
	}
}

func TestRiskAdjustedRatio_Annualized(t *testing.T) {
	returns := []float64{0.01, 0.03}
	// Excess mean 0.02, sample stddev sqrt(0.0002), annualized by sqrt(252).
	want := 0.02 / math.Sqrt(0.0002) * math.Sqrt(252)
	got := riskAdjustedRatio(returns, 0, 252)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ratio = %v, want %v", got, want)
	}

	// A positive risk-free rate lowers the ratio.
	withRF := riskAdjustedRatio(returns, 0.001, 252)
	if withRF >= got {
		t.Errorf("risk-free adjustment should lower the ratio: %v >= %v", withRF, got)
	}
}

func TestDeriveParams(t *testing.T) {
	cfg := Config{
		AnnualTradingDays: 252,
		MaxImpliedVol:     100,
		MinImpliedVol:     10,
		MarketDrift:       0.06,
		RiskFreeReturn:    0.0248,
		VolLevels:         100,
	}
	p := deriveParams(cfg)

	wantMax := (100.0 / math.Sqrt(252)) / 100
	if math.Abs(p.maxDailyVol-wantMax) > 1e-12 {
		t.Errorf("maxDailyVol = %v, want %v", p.maxDailyVol, wantMax)
	}

	wantDrift := math.Pow(1.06, 1.0/252) - 1
	if math.Abs(p.dailyDrift-wantDrift) > 1e-12 {
		t.Errorf("dailyDrift = %v, want %v", p.dailyDrift, wantDrift)
	}

	if len(p.ladder) != 100 {
		t.Fatalf("ladder has %d levels, want 100", len(p.ladder))
	}
	if p.ladder[0] != p.minDailyVol || p.ladder[99] != p.maxDailyVol {
		t.Errorf("ladder endpoints [%v, %v] do not match vol range [%v, %v]",
			p.ladder[0], p.ladder[99], p.minDailyVol, p.maxDailyVol)
	}
}

func TestSafeDiv(t *testing.T) {
	if safeDiv(1, 0) != 0 {
		t.Error("division by zero should resolve to 0")
	}
	if safeDiv(6, 3) != 2 {
		t.Error("safeDiv(6, 3) should be 2")
	}
}
