package report

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/feathermark/strikereport/internal/domain"
)

// AnnualRate is one year of the rate-normalized time series.
type AnnualRate struct {
	Year       int
	Count      int
	Operations int
	Rate       float64
}

// CountsByYear folds records into a year → count map, the input shape for
// reconciliation and rate normalization.
func CountsByYear(records []domain.StrikeRecord) map[int]int {
	counts := make(map[int]int)
	for _, rec := range records {
		if rec.Year == 0 {
			continue
		}
		counts[rec.Year]++
	}
	return counts
}

// ReconcileCounts merges per-year counts from the authoritative (regulatory)
// source and the internal source. The authoritative value wins everywhere
// except the most recent year, where the internal value is substituted
// wholesale: the regulator lags by several months and has not caught up yet.
// years is the exposure table's year domain; its maximum defines "most
// recent". Years only one source knows about keep that source's value.
func ReconcileCounts(authoritative, internal map[int]int, years []int) map[int]int {
	merged := make(map[int]int, len(years))
	latest := 0
	for _, y := range years {
		if y > latest {
			latest = y
		}
	}

	for _, y := range years {
		if y == latest {
			merged[y] = internal[y]
			continue
		}
		if n, ok := authoritative[y]; ok {
			merged[y] = n
		} else {
			merged[y] = internal[y]
		}
	}
	return merged
}

// AnnualRates left-joins per-year counts onto the exposure table and computes
// count / operations × scale for each year. The exposure table is
// authoritative for which years exist: years missing from counts appear with
// count 0, and count years outside the exposure domain are dropped. Output is
// sorted ascending by year.
func AnnualRates(counts map[int]int, ops []domain.OperationsRecord, scale float64) []AnnualRate {
	out := make([]AnnualRate, 0, len(ops))
	for _, o := range ops {
		r := AnnualRate{Year: o.Year, Count: counts[o.Year], Operations: o.Operations}
		if o.Operations > 0 {
			r.Rate = float64(r.Count) / float64(o.Operations) * scale
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// ComputeControlLimits derives the center line and mean ± k·σ bounds over the
// full rate series. Standard deviation is the sample formula (n−1
// denominator), applied uniformly across every report. The lower limit is
// clamped at zero; a series shorter than two points gets zero-width limits.
func ComputeControlLimits(rates []float64, k float64) domain.ControlLimits {
	if len(rates) == 0 {
		return domain.ControlLimits{}
	}

	mean := stat.Mean(rates, nil)
	sd := 0.0
	if len(rates) > 1 {
		sd = stat.StdDev(rates, nil)
	}

	lower := mean - k*sd
	if lower < 0 {
		lower = 0
	}
	return domain.ControlLimits{
		CenterLine: mean,
		StdDev:     sd,
		UpperLimit: mean + k*sd,
		LowerLimit: lower,
	}
}

// Rates extracts the rate series from an annual table.
func Rates(annual []AnnualRate) []float64 {
	rates := make([]float64, len(annual))
	for i, a := range annual {
		rates[i] = a.Rate
	}
	return rates
}
