package source

import (
	"fmt"

	"github.com/feathermark/strikereport/internal/domain"
)

// operationsColumns are the required headers of the annual exposure table.
var operationsColumns = []string{"YEAR", "OPERATIONS"}

// guildColumns are the required headers of the guild-assignment lookup.
var guildColumns = []string{"SPECIES", "GUILD"}

// Operations reads the annual exposure table: one row per year of total
// aircraft movements. The most recent year is typically hand-summed from
// monthly tower counts before the official figure exists, so values are
// trusted as-is.
type Operations struct {
	Path string
}

// Extract loads the exposure CSV. Rows with an unparseable year are fatal:
// the exposure table defines the reporting year domain, so a bad row would
// silently shift every rate.
func (o Operations) Extract() ([]domain.OperationsRecord, error) {
	df, err := readCSV(o.Path)
	if err != nil {
		return nil, fmt.Errorf("operations table: %w", err)
	}
	if err := requireColumns(df, operationsColumns); err != nil {
		return nil, fmt.Errorf("operations table %s: %w", o.Path, err)
	}

	years := df.Col("YEAR").Records()
	counts := df.Col("OPERATIONS").Records()

	out := make([]domain.OperationsRecord, 0, len(years))
	for i := range years {
		year, ok := domain.NormalizeYear(years[i])
		if !ok {
			return nil, fmt.Errorf("operations table %s: row %d: bad year %q", o.Path, i+2, years[i])
		}
		ops, ok := domain.NormalizeYear(counts[i]) // same coercion: strip separators, integer
		if !ok {
			return nil, fmt.Errorf("operations table %s: row %d: bad operations count %q", o.Path, i+2, counts[i])
		}
		out = append(out, domain.OperationsRecord{Year: year, Operations: ops})
	}
	return out, nil
}

// Guilds reads the species → guild assignment lookup.
type Guilds struct {
	Path string
}

// Extract loads the lookup CSV, keying by normalized species name so lookups
// after normalization hit directly.
func (g Guilds) Extract() (domain.GuildTable, error) {
	df, err := readCSV(g.Path)
	if err != nil {
		return nil, fmt.Errorf("guild table: %w", err)
	}
	if err := requireColumns(df, guildColumns); err != nil {
		return nil, fmt.Errorf("guild table %s: %w", g.Path, err)
	}

	species := df.Col("SPECIES").Records()
	guilds := df.Col("GUILD").Records()

	table := make(domain.GuildTable, len(species))
	for i := range species {
		table[domain.NormalizeSpecies(species[i])] = domain.NormalizeGuild(guilds[i], nil)
	}
	return table, nil
}
