// Package report turns classified strike records into period summaries,
// normalized rates, and control-limit statistics.
package report

import (
	"sort"
	"strconv"

	"github.com/feathermark/strikereport/internal/domain"
)

// WeekdayOrder is the canonical weekday axis, Sunday first.
var WeekdayOrder = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// KeyFunc extracts the grouping key from one record.
type KeyFunc func(domain.StrikeRecord) string

// Standard grouping keys.
var (
	ByYear  KeyFunc = func(r domain.StrikeRecord) string { return strconv.Itoa(r.Year) }
	ByMonth KeyFunc = func(r domain.StrikeRecord) string { return r.Month }
	ByWeekday KeyFunc = func(r domain.StrikeRecord) string {
		if r.Date.IsZero() {
			return ""
		}
		return r.Date.Weekday().String()
	}
	ByGuild   KeyFunc = func(r domain.StrikeRecord) string { return r.Guild }
	BySpecies KeyFunc = func(r domain.StrikeRecord) string { return r.Species }
	ByRunway  KeyFunc = func(r domain.StrikeRecord) string { return r.Runway }
)

// AggregateOptions controls zero-fill, ordering and suppression for CountBy.
type AggregateOptions struct {
	// Domain is the canonical key domain. Every value in it appears in the
	// output, with count 0 when absent from the input.
	Domain []string

	// Order is the canonical output ordering. When nil, output is sorted
	// descending by count (ties alphabetical). Keys outside Order sort after
	// it, descending by count.
	Order []string

	// MinSupport suppresses keys whose aggregated count is below the
	// threshold. Applied after aggregation so it reflects true totals.
	MinSupport int
}

// CountBy groups records by key and returns one summary per distinct key,
// zero-filling the canonical domain. Records whose key is empty are skipped.
func CountBy(records []domain.StrikeRecord, key KeyFunc, opts AggregateOptions) []domain.PeriodSummary {
	counts := make(map[string]int)
	for _, rec := range records {
		k := key(rec)
		if k == "" {
			continue
		}
		counts[k]++
	}
	for _, k := range opts.Domain {
		if _, ok := counts[k]; !ok {
			counts[k] = 0
		}
	}

	if opts.MinSupport > 0 {
		for k, n := range counts {
			if n < opts.MinSupport && !contains(opts.Domain, k) {
				delete(counts, k)
			}
		}
	}

	out := make([]domain.PeriodSummary, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.PeriodSummary{Key: k, Count: n})
	}
	sortSummaries(out, opts.Order)
	return out
}

// CrossCount is one cell of a key × period cross-tabulation.
type CrossCount struct {
	Key    string
	Period string
	Count  int
}

// CrossCountBy counts records per (key, period) pair. Keys whose total across
// all periods is below minSupport are suppressed after aggregation, so the
// threshold reflects true total volume. Output is ordered by descending key
// total, then by periodOrder within a key.
func CrossCountBy(records []domain.StrikeRecord, key, period KeyFunc, periodOrder []string, minSupport int) []CrossCount {
	cells := make(map[[2]string]int)
	totals := make(map[string]int)
	for _, rec := range records {
		k, p := key(rec), period(rec)
		if k == "" || p == "" {
			continue
		}
		cells[[2]string{k, p}]++
		totals[k]++
	}

	out := make([]CrossCount, 0, len(cells))
	for kp, n := range cells {
		if totals[kp[0]] < minSupport {
			continue
		}
		out = append(out, CrossCount{Key: kp[0], Period: kp[1], Count: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if totals[out[i].Key] != totals[out[j].Key] {
			return totals[out[i].Key] > totals[out[j].Key]
		}
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		oi, oj := orderIndex(periodOrder, out[i].Period), orderIndex(periodOrder, out[j].Period)
		if oi != oj {
			return oi < oj
		}
		return out[i].Period < out[j].Period
	})
	return out
}

// Filter returns the records matching pred. Convenience for the disruptive
// and damaging report subsets.
func Filter(records []domain.StrikeRecord, pred func(domain.StrikeRecord) bool) []domain.StrikeRecord {
	var out []domain.StrikeRecord
	for _, rec := range records {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// YearDomain renders the exposure table's year domain as aggregation keys.
func YearDomain(ops []domain.OperationsRecord) []string {
	years := make([]string, 0, len(ops))
	for _, o := range ops {
		years = append(years, strconv.Itoa(o.Year))
	}
	sort.Strings(years)
	return years
}

func sortSummaries(s []domain.PeriodSummary, order []string) {
	if len(order) == 0 {
		sort.Slice(s, func(i, j int) bool {
			if s[i].Count != s[j].Count {
				return s[i].Count > s[j].Count
			}
			return s[i].Key < s[j].Key
		})
		return
	}
	sort.Slice(s, func(i, j int) bool {
		oi, oj := orderIndex(order, s[i].Key), orderIndex(order, s[j].Key)
		if oi != oj {
			return oi < oj
		}
		if s[i].Count != s[j].Count {
			return s[i].Count > s[j].Count
		}
		return s[i].Key < s[j].Key
	})
}

// orderIndex returns the position of k in order, or len(order) when absent so
// out-of-domain keys sort last.
func orderIndex(order []string, k string) int {
	for i, v := range order {
		if v == k {
			return i
		}
	}
	return len(order)
}

func contains(xs []string, k string) bool {
	for _, x := range xs {
		if x == k {
			return true
		}
	}
	return false
}
