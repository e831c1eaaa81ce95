package sim

import (
	"math/rand"

	"github.com/quantarena/arena/internal/core"
)

// Policy decides a competitor's behavior mode for one trading day. rank is
// the competitor's 1-based rank by capital-to-date at the start of the day;
// day counts from 0. Policies are pure: no state beyond the two arguments.
type Policy func(rank, day int) core.Mode

// QualifyOrAggress holds cash once inside the qualifying cut and otherwise
// takes the maximum-variance bet. This is the strategy under test.
func QualifyOrAggress(topK int) Policy {
	return func(rank, day int) core.Mode {
		if rank <= topK {
			return core.ModeCash
		}
		return core.ModeAggressive
	}
}

// AlwaysBaseline trades the market-like distribution every day regardless of
// rank. All opponent archetypes use this policy; they differ only in the
// volatility they trade at.
func AlwaysBaseline() Policy {
	return func(rank, day int) core.Mode {
		return core.ModeBaseline
	}
}

// AlwaysCash never trades. Exists for boundary and degenerate-statistic
// testing.
func AlwaysCash() Policy {
	return func(rank, day int) core.Mode {
		return core.ModeCash
	}
}

// sigmaFn yields the daily baseline volatility for one competitor. Archetypes
// that re-pick every day consume random state on each call.
type sigmaFn func(rng *rand.Rand) float64

func constantSigma(v float64) sigmaFn {
	return func(*rand.Rand) float64 { return v }
}

func ladderSigma(ladder []float64) sigmaFn {
	return func(rng *rand.Rand) float64 {
		return ladder[rng.Intn(len(ladder))]
	}
}

// opponentSigma assigns a volatility source to the competitor at index per
// the archetype. The mixed split follows the field order: first third at the
// ladder mean, second third at max volatility, the rest re-picking daily.
func opponentSigma(a core.Archetype, index, teams int, p params) sigmaFn {
	switch a {
	case core.ArchetypeLow:
		return constantSigma(p.minDailyVol)
	case core.ArchetypeHigh:
		return constantSigma(p.maxDailyVol)
	case core.ArchetypeAvg:
		return constantSigma(p.ladderMean)
	case core.ArchetypeMixed:
		third := float64(teams) / 3
		switch {
		case float64(index) <= third:
			return constantSigma(p.ladderMean)
		case float64(index) <= 2*third:
			return constantSigma(p.maxDailyVol)
		default:
			return ladderSigma(p.ladder)
		}
	default: // random
		return ladderSigma(p.ladder)
	}
}
