package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/quantarena/arena/internal/core"
)

// Competitor is the per-trial state for one entrant. Created fresh at the
// start of each trial, mutated once per day, summarized at trial end.
type Competitor struct {
	Index   int
	Capital float64
	Returns []float64
	Policy  Policy
	sigma   sigmaFn // baseline volatility source; nil for the self competitor
}

// TrialResult summarizes one finished competition. Immutable once computed.
type TrialResult struct {
	Trial int

	// Final orderings over all competitors, best first.
	CapitalOrder []int
	RatioOrder   []int

	SelfRankByCapital  int
	SelfRankByRatio    int
	QualifiedByCapital bool
	QualifiedByRatio   bool
	SelfFinalCapital   float64
	SelfRatio          float64
}

// newField builds the competitors for one trial. The self competitor sits at
// the highest index so that day-zero ties (everyone at starting capital)
// resolve against it, never in its favor.
func (e *Engine) newField() []*Competitor {
	field := make([]*Competitor, e.cfg.Teams)
	for i := range field {
		c := &Competitor{
			Index:   i,
			Capital: e.cfg.StartingCapital,
			Returns: make([]float64, 0, e.cfg.Days),
		}
		if i == e.selfIndex {
			c.Policy = e.selfPolicy
		} else {
			c.Policy = AlwaysBaseline()
			c.sigma = opponentSigma(e.cfg.Opponents, i, e.cfg.Teams, e.p)
		}
		field[i] = c
	}
	return field
}

// RunTrial simulates one full competition of cfg.Days days and returns its
// result. The caller owns rng; a fresh, independently seeded source per trial
// keeps trials statistically independent and the run reproducible.
func (e *Engine) RunTrial(trial int, rng *rand.Rand) (*TrialResult, error) {
	field := e.newField()

	// Ranks are re-derived from capital-to-date before each day's moves, so
	// every policy sees the previous close.
	ranks := ranksByCapital(field)

	for day := 0; day < e.cfg.Days; day++ {
		for _, c := range field {
			mode := c.Policy(ranks[c.Index], day)
			var sigma float64
			if mode == core.ModeBaseline {
				if c.sigma == nil {
					return nil, core.WrapError(core.ErrParamInvalid,
						fmt.Errorf("competitor %d has no baseline volatility source", c.Index))
				}
				sigma = c.sigma(rng)
			}

			r, err := e.gen.Draw(mode, sigma, rng)
			if err != nil {
				return nil, err
			}

			// Cash days compound nothing; traded days carry the market drift
			// on top of the raw draw. The recorded history holds the raw
			// draw only.
			if mode != core.ModeCash {
				c.Capital *= 1 + e.p.dailyDrift + r
			}
			c.Returns = append(c.Returns, r)
		}
		ranks = ranksByCapital(field)
	}

	capitals := make([]float64, len(field))
	ratios := make([]float64, len(field))
	for i, c := range field {
		capitals[i] = c.Capital
		ratios[i] = riskAdjustedRatio(c.Returns, e.p.dailyRiskFree, e.p.annualDays)
	}

	capOrder := orderDesc(capitals)
	ratioOrder := orderDesc(ratios)

	res := &TrialResult{
		Trial:             trial,
		CapitalOrder:      capOrder,
		RatioOrder:        ratioOrder,
		SelfRankByCapital: rankOf(capOrder, e.selfIndex),
		SelfRankByRatio:   rankOf(ratioOrder, e.selfIndex),
		SelfFinalCapital:  capitals[e.selfIndex],
		SelfRatio:         ratios[e.selfIndex],
	}
	res.QualifiedByCapital = res.SelfRankByCapital <= e.cfg.TopK
	res.QualifiedByRatio = res.SelfRankByRatio <= e.cfg.TopK
	return res, nil
}

// ranksByCapital returns each competitor's 1-based rank by capital-to-date,
// descending. Ties go to the lower index: with equal capital the earlier
// entrant outranks the later one, deterministically.
func ranksByCapital(field []*Competitor) []int {
	capitals := make([]float64, len(field))
	for i, c := range field {
		capitals[i] = c.Capital
	}
	order := orderDesc(capitals)
	ranks := make([]int, len(field))
	for pos, idx := range order {
		ranks[idx] = pos + 1
	}
	return ranks
}

// orderDesc returns competitor indexes sorted by value descending, ties to
// the lower index.
func orderDesc(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if values[order[a]] != values[order[b]] {
			return values[order[a]] > values[order[b]]
		}
		return order[a] < order[b]
	})
	return order
}

// rankOf returns the 1-based position of index within order.
func rankOf(order []int, index int) int {
	for pos, idx := range order {
		if idx == index {
			return pos + 1
		}
	}
	return len(order)
}
