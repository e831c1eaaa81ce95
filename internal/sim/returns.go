package sim

import (
	"fmt"
	"math/rand"

	"github.com/quantarena/arena/internal/core"
)

// Generator draws single-day percent returns for each behavior mode. It is
// stateless: a draw is a pure function of the mode, the parameters, and the
// random source's position, so two generators with identically seeded
// sources produce identical sequences.
type Generator struct {
	aggressiveVol float64 // daily sigma for the maximum-variance bet
	upProb        float64 // probability of a favorable aggressive outcome
}

// NewGenerator creates a Generator. aggressiveVol is the daily standard
// deviation used for aggressive draws; upProb skews the aggressive outcome
// (0.5 means symmetric, matching a plain normal draw).
func NewGenerator(aggressiveVol, upProb float64) (*Generator, error) {
	if aggressiveVol < 0 {
		return nil, core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("aggressive volatility cannot be negative, got %f", aggressiveVol))
	}
	if upProb < 0 || upProb > 1 {
		return nil, core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("up probability must be in [0, 1], got %f", upProb))
	}
	return &Generator{aggressiveVol: aggressiveVol, upProb: upProb}, nil
}

// Draw produces one raw daily return for the given mode. sigma is the daily
// standard deviation for baseline draws and is ignored otherwise. Drift is
// not included here; the trial loop applies it when compounding capital.
// Returns are clamped to [-1, 1] so capital can never go negative in a
// single step.
func (g *Generator) Draw(mode core.Mode, sigma float64, rng *rand.Rand) (float64, error) {
	switch mode {
	case core.ModeCash:
		// Exactly zero, no random state consumed.
		return 0, nil
	case core.ModeAggressive:
		return g.aggressive(rng), nil
	case core.ModeBaseline:
		if sigma < 0 {
			return 0, core.WrapError(core.ErrParamInvalid,
				fmt.Errorf("baseline volatility cannot be negative, got %f", sigma))
		}
		return clampReturn(rng.NormFloat64() * sigma), nil
	default:
		return 0, core.WrapError(core.ErrModeInvalid, fmt.Errorf("mode %q", mode))
	}
}

// aggressive draws the earnings-release style outcome. With a symmetric skew
// it is a plain normal draw; otherwise the magnitude is half-normal and the
// sign is a Bernoulli draw with the configured favorable probability.
func (g *Generator) aggressive(rng *rand.Rand) float64 {
	if g.upProb == 0.5 {
		return clampReturn(rng.NormFloat64() * g.aggressiveVol)
	}
	magnitude := rng.NormFloat64() * g.aggressiveVol
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if rng.Float64() >= g.upProb {
		magnitude = -magnitude
	}
	return clampReturn(magnitude)
}

// clampReturn bounds a single-day return at a total loss or a doubling.
func clampReturn(r float64) float64 {
	if r < -1 {
		return -1
	}
	if r > 1 {
		return 1
	}
	return r
}
