package sim

import "math"

// params holds the per-day quantities derived from the annual configuration.
type params struct {
	maxDailyVol   float64
	minDailyVol   float64
	dailyDrift    float64
	dailyRiskFree float64
	annualDays    int
	ladder        []float64
	ladderMean    float64
}

func deriveParams(cfg Config) params {
	days := float64(cfg.AnnualTradingDays)
	p := params{
		maxDailyVol:   (cfg.MaxImpliedVol / math.Sqrt(days)) / 100,
		minDailyVol:   (cfg.MinImpliedVol / math.Sqrt(days)) / 100,
		dailyDrift:    math.Pow(1+cfg.MarketDrift, 1/days) - 1,
		dailyRiskFree: math.Pow(1+cfg.RiskFreeReturn, 1/days) - 1,
		annualDays:    cfg.AnnualTradingDays,
	}
	p.ladder = linspace(p.minDailyVol, p.maxDailyVol, cfg.VolLevels)
	p.ladderMean = mean(p.ladder)
	return p
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdDev is the ddof=1 standard deviation around m.
func sampleStdDev(xs []float64, m float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var variance float64
	for _, x := range xs {
		variance += (x - m) * (x - m)
	}
	return math.Sqrt(variance / float64(len(xs)-1))
}

// riskAdjustedRatio is the annualized mean excess daily return over its
// sample standard deviation. Histories with fewer than 2 samples or zero
// variance (an all-cash competitor) resolve to 0 rather than an error.
func riskAdjustedRatio(returns []float64, dailyRiskFree float64, annualDays int) float64 {
	if len(returns) < 2 {
		return 0
	}
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - dailyRiskFree
	}
	m := mean(excess)
	sd := sampleStdDev(excess, m)
	if sd == 0 {
		return 0
	}
	return m / sd * math.Sqrt(float64(annualDays))
}

// safeDiv resolves division by zero to 0, consistent with the degenerate
// ratio default.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
