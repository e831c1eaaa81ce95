// Package report renders run summaries and distribution figures from the
// simulator's numeric output. It never touches storage; callers persist the
// bundle through the results store.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/quantarena/arena/internal/sim"
)

// Bundle holds everything persisted for one run.
type Bundle struct {
	SummaryText []byte
	SummaryJSON []byte
	Charts      map[string][]byte // file name -> PNG bytes
}

// Build assembles the artifacts for a finished run. Chart rendering is
// optional; bins controls the histogram resolution for the continuous
// distributions.
func Build(s *sim.Summary, completedAt time.Time, withCharts bool, bins int) (*Bundle, error) {
	js, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding summary: %w", err)
	}

	b := &Bundle{
		SummaryText: Text(s, completedAt),
		SummaryJSON: js,
	}

	if withCharts {
		charts, err := Charts(s, bins)
		if err != nil {
			return nil, err
		}
		b.Charts = charts
	}
	return b, nil
}

// Text renders the human-readable summary block appended after each run.
func Text(s *sim.Summary, completedAt time.Time) []byte {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Simulation completed on %s\n", completedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Settings:\n")
	fmt.Fprintf(&sb, "\ttrials=%d\n", s.Trials)
	fmt.Fprintf(&sb, "\tdays=%d\n", s.Days)
	fmt.Fprintf(&sb, "\tteams=%d\n", s.Teams)
	fmt.Fprintf(&sb, "\ttop_k=%d\n", s.TopK)
	fmt.Fprintf(&sb, "\topponent_strategy=%s\n", s.Opponents)
	fmt.Fprintf(&sb, "\tseed=%d\n", s.Seed)

	fmt.Fprintf(&sb, "----- Ranking by total assets -----\n")
	fmt.Fprintf(&sb, "Qualifying finishes (top %d) over %d trials: %d\n",
		s.TopK, s.Trials, s.QualifiedByCapital)
	fmt.Fprintf(&sb, "Probability of reaching the finals: %.4f\n", s.ProbByCapital)
	fmt.Fprintf(&sb, "Edge over the field: %.2f\n", s.EdgeByCapital)
	fmt.Fprintf(&sb, "Edge over the uniform baseline: %.2f\n", s.UniformEdgeByCapital)

	fmt.Fprintf(&sb, "----- Ranking by risk-adjusted ratio -----\n")
	fmt.Fprintf(&sb, "Qualifying finishes (top %d) over %d trials: %d\n",
		s.TopK, s.Trials, s.QualifiedByRatio)
	fmt.Fprintf(&sb, "Probability of reaching the finals: %.4f\n", s.ProbByRatio)
	fmt.Fprintf(&sb, "Edge over the field: %.2f\n", s.EdgeByRatio)
	fmt.Fprintf(&sb, "Edge over the uniform baseline: %.2f\n", s.UniformEdgeByRatio)

	fmt.Fprintf(&sb, "----- Averages -----\n")
	fmt.Fprintf(&sb, "Mean final capital: %.2f\n", s.MeanFinalCapital)
	fmt.Fprintf(&sb, "Mean risk-adjusted ratio: %.4f\n", s.MeanRatio)

	return []byte(sb.String())
}
