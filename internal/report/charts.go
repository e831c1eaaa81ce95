package report

import (
	"fmt"
	"strconv"

	"github.com/quantarena/arena/internal/sim"
	"github.com/vicanso/go-charts/v2"
)

// Charts renders the distribution figures for a run as PNG images keyed by
// file name: self rank under both orderings, final capital, final ratio.
func Charts(s *sim.Summary, bins int) (map[string][]byte, error) {
	out := make(map[string][]byte, 4)

	img, err := rankChart(s.RankByCapitalCounts, "Final Rank by Total Assets")
	if err != nil {
		return nil, fmt.Errorf("rank by capital chart: %w", err)
	}
	out["rank_by_capital.png"] = img

	img, err = rankChart(s.RankByRatioCounts, "Final Rank by Risk-Adjusted Ratio")
	if err != nil {
		return nil, fmt.Errorf("rank by ratio chart: %w", err)
	}
	out["rank_by_ratio.png"] = img

	img, err = histogramChart(s.FinalCapitals, bins, "Final Capital Distribution")
	if err != nil {
		return nil, fmt.Errorf("capital histogram: %w", err)
	}
	out["final_capital.png"] = img

	img, err = histogramChart(s.FinalRatios, bins, "Risk-Adjusted Ratio Distribution")
	if err != nil {
		return nil, fmt.Errorf("ratio histogram: %w", err)
	}
	out["final_ratio.png"] = img

	return out, nil
}

// rankChart draws one bar per final rank.
func rankChart(counts []int, title string) ([]byte, error) {
	values := make([]float64, len(counts))
	labels := make([]string, len(counts))
	for i, n := range counts {
		values[i] = float64(n)
		labels[i] = strconv.Itoa(i + 1)
	}
	return render(values, labels, title)
}

// histogramChart bins a continuous sample and draws the frequency bars.
func histogramChart(samples []float64, bins int, title string) ([]byte, error) {
	values, labels := binSamples(samples, bins)
	return render(values, labels, title)
}

func render(values []float64, labels []string, title string) ([]byte, error) {
	painter, err := charts.BarRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: 10,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// binSamples splits samples into equal-width bins between the observed min
// and max. Labels carry the bin midpoints. A constant sample collapses into
// a single bin.
func binSamples(samples []float64, bins int) ([]float64, []string) {
	if len(samples) == 0 || bins < 1 {
		return nil, nil
	}

	lo, hi := samples[0], samples[0]
	for _, v := range samples {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return []float64{float64(len(samples))},
			[]string{strconv.FormatFloat(lo, 'g', 4, 64)}
	}

	counts := make([]float64, bins)
	width := (hi - lo) / float64(bins)
	for _, v := range samples {
		idx := int((v - lo) / width)
		if idx >= bins { // hi itself lands in the last bin
			idx = bins - 1
		}
		counts[idx]++
	}

	labels := make([]string, bins)
	for i := range labels {
		mid := lo + (float64(i)+0.5)*width
		labels[i] = strconv.FormatFloat(mid, 'g', 4, 64)
	}
	return counts, labels
}
