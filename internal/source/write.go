package source

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/feathermark/strikereport/internal/domain"
	"github.com/feathermark/strikereport/internal/report"
)

// WriteSummaries persists a period summary as a two-column delimited file.
// The key header names the grouping dimension ("MONTH", "GUILD", ...).
func WriteSummaries(path, keyHeader string, summaries []domain.PeriodSummary) error {
	keys := make([]string, len(summaries))
	counts := make([]int, len(summaries))
	for i, s := range summaries {
		keys[i] = s.Key
		counts[i] = s.Count
	}
	df := dataframe.New(
		series.New(keys, series.String, keyHeader),
		series.New(counts, series.Int, "COUNT"),
	)
	return writeDataFrame(path, df)
}

// WriteCrossCounts persists a key × period cross-tabulation.
func WriteCrossCounts(path, keyHeader, periodHeader string, cells []report.CrossCount) error {
	keys := make([]string, len(cells))
	periods := make([]string, len(cells))
	counts := make([]int, len(cells))
	for i, c := range cells {
		keys[i] = c.Key
		periods[i] = c.Period
		counts[i] = c.Count
	}
	df := dataframe.New(
		series.New(keys, series.String, keyHeader),
		series.New(periods, series.String, periodHeader),
		series.New(counts, series.Int, "COUNT"),
	)
	return writeDataFrame(path, df)
}

// WriteAnnualRates persists the rate series with the control-limit columns
// repeated per row, the shape downstream plotting tools expect.
func WriteAnnualRates(path string, annual []report.AnnualRate, limits domain.ControlLimits) error {
	years := make([]int, len(annual))
	counts := make([]int, len(annual))
	ops := make([]int, len(annual))
	rates := make([]float64, len(annual))
	centers := make([]float64, len(annual))
	uppers := make([]float64, len(annual))
	lowers := make([]float64, len(annual))
	for i, a := range annual {
		years[i] = a.Year
		counts[i] = a.Count
		ops[i] = a.Operations
		rates[i] = a.Rate
		centers[i] = limits.CenterLine
		uppers[i] = limits.UpperLimit
		lowers[i] = limits.LowerLimit
	}
	df := dataframe.New(
		series.New(years, series.Int, "YEAR"),
		series.New(counts, series.Int, "COUNT"),
		series.New(ops, series.Int, "OPERATIONS"),
		series.New(rates, series.Float, "RATE"),
		series.New(centers, series.Float, "CENTER_LINE"),
		series.New(uppers, series.Float, "UPPER_LIMIT"),
		series.New(lowers, series.Float, "LOWER_LIMIT"),
	)
	return writeDataFrame(path, df)
}

// WriteExtract persists the normalized, classified records consumed by
// downstream reporting scripts.
func WriteExtract(path string, records []domain.StrikeRecord) error {
	n := len(records)
	sources := make([]string, n)
	dates := make([]string, n)
	years := make([]int, n)
	months := make([]string, n)
	speciesCol := make([]string, n)
	guilds := make([]string, n)
	runways := make([]string, n)
	pilot := make([]bool, n)
	remains := make([]bool, n)
	damaging := make([]bool, n)
	disruptive := make([]bool, n)

	for i, r := range records {
		sources[i] = string(r.Source)
		if !r.Date.IsZero() {
			dates[i] = r.Date.Format("2006-01-02")
		}
		years[i] = r.Year
		months[i] = r.Month
		speciesCol[i] = r.Species
		guilds[i] = r.Guild
		runways[i] = r.Runway
		pilot[i] = r.PilotReported
		remains[i] = r.RemainsSent
		damaging[i] = r.Damaging
		disruptive[i] = r.Disruptive
	}

	df := dataframe.New(
		series.New(sources, series.String, "SOURCE"),
		series.New(dates, series.String, "DATE"),
		series.New(years, series.Int, "YEAR"),
		series.New(months, series.String, "MONTH"),
		series.New(speciesCol, series.String, "SPECIES"),
		series.New(guilds, series.String, "GUILD"),
		series.New(runways, series.String, "RUNWAY"),
		series.New(pilot, series.Bool, "PILOT_REPORTED"),
		series.New(remains, series.Bool, "REMAINS_SENT"),
		series.New(damaging, series.Bool, "DAMAGING"),
		series.New(disruptive, series.Bool, "DISRUPTIVE"),
	)
	return writeDataFrame(path, df)
}

func writeDataFrame(path string, df dataframe.DataFrame) error {
	if df.Error() != nil {
		return fmt.Errorf("build table for %s: %w", path, df.Error())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
