// Package pipeline orchestrates one complete report run: extract the strike
// and exposure tables, normalize and classify, then write the extract, the
// period summaries, the rate series, and the chart images.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/feathermark/strikereport/internal/chart"
	"github.com/feathermark/strikereport/internal/config"
	"github.com/feathermark/strikereport/internal/domain"
	"github.com/feathermark/strikereport/internal/observability"
	"github.com/feathermark/strikereport/internal/report"
	"github.com/feathermark/strikereport/internal/source"
)

// StrikeSource extracts raw strike rows from one export.
type StrikeSource interface {
	Name() string
	Extract() ([]domain.RawStrike, error)
}

// OperationsSource extracts the annual exposure table.
type OperationsSource interface {
	Extract() ([]domain.OperationsRecord, error)
}

// GuildSource extracts the species → guild assignment lookup.
type GuildSource interface {
	Extract() (domain.GuildTable, error)
}

// Pipeline runs the batch once to completion. Malformed inputs abort the run;
// unmapped categorical values are reported and folded into fallback labels.
type Pipeline struct {
	strikes    []StrikeSource
	operations OperationsSource
	guilds     GuildSource
	cfg        *config.Config
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Pipeline over the given sources.
func New(strikes []StrikeSource, operations OperationsSource, guilds GuildSource,
	cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		strikes:    strikes,
		operations: operations,
		guilds:     guilds,
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run executes the extract-normalize-report sequence once. The context is
// checked between stages; a cancelled run returns ctx.Err with whatever was
// already written left in place.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.logger.Info("run started",
		"sources", len(p.strikes),
		"output_dir", p.cfg.OutputDir,
	)

	guildTable, err := p.guilds.Extract()
	if err != nil {
		return fmt.Errorf("guild table: %w", err)
	}
	ops, err := p.operations.Extract()
	if err != nil {
		return fmt.Errorf("exposure table: %w", err)
	}
	if len(ops) == 0 {
		return fmt.Errorf("exposure table is empty; no reporting year domain")
	}

	records, perSource, err := p.extractAndNormalize(ctx, guildTable)
	if err != nil {
		return err
	}
	p.logger.Info("records normalized", "total", len(records))

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.writeExtract(records); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	summaries, err := p.writeSummaries(records, ops)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	strikeRates, strikeLimits, damageRates, damageLimits, err := p.writeRates(perSource, ops)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.renderCharts(summaries, strikeRates, strikeLimits, damageRates, damageLimits); err != nil {
		return err
	}

	if p.cfg.MetricsFile != "" {
		p.metrics.RunDuration.Set(time.Since(start).Seconds())
		if err := p.metrics.WriteTextfile(p.cfg.MetricsFile); err != nil {
			return fmt.Errorf("metrics textfile: %w", err)
		}
	}

	p.logger.Info("run complete", "duration", time.Since(start).String())
	return nil
}

// extractAndNormalize pulls every strike source and canonicalizes the rows.
// It returns all records plus the per-source split the reconciliation needs.
func (p *Pipeline) extractAndNormalize(ctx context.Context, guilds domain.GuildTable) ([]domain.StrikeRecord, map[domain.Source][]domain.StrikeRecord, error) {
	unmapped := domain.NewUnmappedSet()
	var records []domain.StrikeRecord
	perSource := make(map[domain.Source][]domain.StrikeRecord)

	for _, src := range p.strikes {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		raws, err := src.Extract()
		if err != nil {
			return nil, nil, fmt.Errorf("extract %s: %w", src.Name(), err)
		}
		p.metrics.RecordsRead.WithLabelValues(src.Name()).Add(float64(len(raws)))
		p.logger.Info("source extracted", "source", src.Name(), "rows", len(raws))

		for _, raw := range raws {
			rec := domain.Normalize(raw, guilds, unmapped)
			records = append(records, rec)
			perSource[rec.Source] = append(perSource[rec.Source], rec)
		}
	}

	p.reportUnmapped(unmapped)
	return records, perSource, nil
}

// reportUnmapped surfaces every raw value that fell through a normalization
// table. These are the values a curator needs to add to the mapping tables.
func (p *Pipeline) reportUnmapped(unmapped *domain.UnmappedSet) {
	for _, kind := range unmapped.Kinds() {
		values := unmapped.Values(kind)
		p.metrics.UnmappedValues.WithLabelValues(kind).Add(float64(len(values)))
		p.logger.Warn("unmapped values folded into fallback label",
			"kind", kind,
			"distinct", len(values),
			"values", values,
		)
	}
}

func (p *Pipeline) writeExtract(records []domain.StrikeRecord) error {
	path := p.outPath("strike_extract.csv")
	if err := source.WriteExtract(path, records); err != nil {
		return fmt.Errorf("normalized extract: %w", err)
	}
	p.metrics.SummariesWritten.Inc()
	p.logger.Info("extract written", "path", path, "rows", len(records))
	return nil
}

// summaryTables carries the period summaries forward to the chart stage.
type summaryTables struct {
	byMonth   []domain.PeriodSummary
	byWeekday []domain.PeriodSummary
	byGuild   []domain.PeriodSummary
	byRunway  []domain.PeriodSummary
	bySpecies []domain.PeriodSummary
	crossed   []report.CrossCount
}

// writeSummaries computes and persists every period summary table.
func (p *Pipeline) writeSummaries(records []domain.StrikeRecord, ops []domain.OperationsRecord) (*summaryTables, error) {
	yearDomain := report.YearDomain(ops)
	runwayDomain := append(append([]string{}, domain.RunwayPairLabels...), domain.RunwayOther)

	t := &summaryTables{
		byMonth:   report.CountBy(records, report.ByMonth, report.AggregateOptions{Domain: domain.MonthAbbrevs, Order: domain.MonthAbbrevs}),
		byWeekday: report.CountBy(records, report.ByWeekday, report.AggregateOptions{Domain: report.WeekdayOrder, Order: report.WeekdayOrder}),
		byGuild:   report.CountBy(records, report.ByGuild, report.AggregateOptions{}),
		byRunway:  report.CountBy(records, report.ByRunway, report.AggregateOptions{Domain: runwayDomain, Order: runwayDomain}),
		bySpecies: report.CountBy(records, report.BySpecies, report.AggregateOptions{MinSupport: p.cfg.SpeciesMinSupport}),
	}

	disruptive := report.Filter(records, func(r domain.StrikeRecord) bool { return r.Disruptive })
	damaging := report.Filter(records, func(r domain.StrikeRecord) bool { return r.Damaging })

	tables := []struct {
		file      string
		keyHeader string
		rows      []domain.PeriodSummary
	}{
		{"strikes_by_year.csv", "YEAR", report.CountBy(records, report.ByYear, report.AggregateOptions{Domain: yearDomain, Order: yearDomain})},
		{"strikes_by_month.csv", "MONTH", t.byMonth},
		{"strikes_by_weekday.csv", "WEEKDAY", t.byWeekday},
		{"strikes_by_guild.csv", "GUILD", t.byGuild},
		{"strikes_by_runway.csv", "RUNWAY", t.byRunway},
		{"strikes_by_species.csv", "SPECIES", t.bySpecies},
		{"disruptive_by_year.csv", "YEAR", report.CountBy(disruptive, report.ByYear, report.AggregateOptions{Domain: yearDomain, Order: yearDomain})},
		{"disruptive_by_guild.csv", "GUILD", report.CountBy(disruptive, report.ByGuild, report.AggregateOptions{})},
		{"damaging_by_year.csv", "YEAR", report.CountBy(damaging, report.ByYear, report.AggregateOptions{Domain: yearDomain, Order: yearDomain})},
	}
	for _, tbl := range tables {
		if err := source.WriteSummaries(p.outPath(tbl.file), tbl.keyHeader, tbl.rows); err != nil {
			return nil, fmt.Errorf("summary %s: %w", tbl.file, err)
		}
		p.metrics.SummariesWritten.Inc()
	}

	t.crossed = report.CrossCountBy(records, report.BySpecies, report.ByMonth, domain.MonthAbbrevs, p.cfg.SpeciesMinSupport)
	if err := source.WriteCrossCounts(p.outPath("species_by_month.csv"), "SPECIES", "MONTH", t.crossed); err != nil {
		return nil, fmt.Errorf("summary species_by_month.csv: %w", err)
	}
	p.metrics.SummariesWritten.Inc()

	p.logger.Info("summaries written", "tables", len(tables)+1)
	return t, nil
}

// writeRates reconciles per-year counts across the two sources, joins onto
// the exposure table, and persists both rate series with control limits.
func (p *Pipeline) writeRates(perSource map[domain.Source][]domain.StrikeRecord, ops []domain.OperationsRecord) ([]report.AnnualRate, domain.ControlLimits, []report.AnnualRate, domain.ControlLimits, error) {
	years := make([]int, 0, len(ops))
	for _, o := range ops {
		years = append(years, o.Year)
	}

	regulatory := perSource[domain.SourceRegulatory]
	internal := perSource[domain.SourceInternal]

	strikeCounts := report.ReconcileCounts(
		report.CountsByYear(regulatory),
		report.CountsByYear(internal),
		years,
	)
	strikeRates := report.AnnualRates(strikeCounts, ops, p.cfg.RateScale)
	strikeLimits := report.ComputeControlLimits(report.Rates(strikeRates), p.cfg.ControlLimitK)

	damagingOnly := func(rs []domain.StrikeRecord) []domain.StrikeRecord {
		return report.Filter(rs, func(r domain.StrikeRecord) bool { return r.Damaging })
	}
	damageCounts := report.ReconcileCounts(
		report.CountsByYear(damagingOnly(regulatory)),
		report.CountsByYear(damagingOnly(internal)),
		years,
	)
	damageRates := report.AnnualRates(damageCounts, ops, p.cfg.DamageRateScale)
	damageLimits := report.ComputeControlLimits(report.Rates(damageRates), p.cfg.ControlLimitK)

	if err := source.WriteAnnualRates(p.outPath("annual_strike_rate.csv"), strikeRates, strikeLimits); err != nil {
		return nil, domain.ControlLimits{}, nil, domain.ControlLimits{}, fmt.Errorf("strike rate table: %w", err)
	}
	p.metrics.SummariesWritten.Inc()
	if err := source.WriteAnnualRates(p.outPath("annual_damage_rate.csv"), damageRates, damageLimits); err != nil {
		return nil, domain.ControlLimits{}, nil, domain.ControlLimits{}, fmt.Errorf("damage rate table: %w", err)
	}
	p.metrics.SummariesWritten.Inc()

	p.logger.Info("rate tables written",
		"years", len(strikeRates),
		"strike_center_line", strikeLimits.CenterLine,
		"damage_center_line", damageLimits.CenterLine,
	)
	return strikeRates, strikeLimits, damageRates, damageLimits, nil
}

func (p *Pipeline) renderCharts(t *summaryTables,
	strikeRates []report.AnnualRate, strikeLimits domain.ControlLimits,
	damageRates []report.AnnualRate, damageLimits domain.ControlLimits) error {

	strikeScale := fmt.Sprintf("Strikes per %.0f operations", p.cfg.RateScale)
	damageScale := fmt.Sprintf("Damaging strikes per %.0f operations", p.cfg.DamageRateScale)

	bars := []struct {
		file  string
		title string
		rows  []domain.PeriodSummary
	}{
		{"strikes_by_month.png", "Strikes by month", t.byMonth},
		{"strikes_by_weekday.png", "Strikes by weekday", t.byWeekday},
		{"strikes_by_guild.png", "Strikes by guild", t.byGuild},
		{"strikes_by_runway.png", "Strikes by runway", t.byRunway},
		{"strikes_by_species.png", "Strikes by species", t.bySpecies},
	}
	rendered := 0
	for _, b := range bars {
		if err := chart.RenderBar(p.chartPath(b.file), b.title, "Strikes", b.rows); err != nil {
			return err
		}
		p.metrics.ChartsRendered.Inc()
		rendered++
	}

	if len(t.crossed) > 0 {
		if err := chart.RenderFacets(p.chartPath("species_by_month.png"), "Strikes by species and month", t.crossed, domain.MonthAbbrevs); err != nil {
			return err
		}
		p.metrics.ChartsRendered.Inc()
		rendered++
	}

	if err := chart.RenderRateSeries(p.chartPath("annual_strike_rate.png"), "Annual strike rate", strikeScale, strikeRates, strikeLimits); err != nil {
		return err
	}
	p.metrics.ChartsRendered.Inc()
	rendered++
	if err := chart.RenderRateSeries(p.chartPath("annual_damage_rate.png"), "Annual damaging-strike rate", damageScale, damageRates, damageLimits); err != nil {
		return err
	}
	p.metrics.ChartsRendered.Inc()
	rendered++

	p.logger.Info("charts rendered", "count", rendered)
	return nil
}

func (p *Pipeline) outPath(name string) string {
	return filepath.Join(p.cfg.OutputDir, name)
}

func (p *Pipeline) chartPath(name string) string {
	return filepath.Join(p.cfg.OutputDir, "charts", name)
}
