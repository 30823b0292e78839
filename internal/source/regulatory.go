// Package source adapts the external tabular exports — regulatory CSV,
// command-center XLSX, operations CSV, guild lookup CSV — into domain types,
// and writes the delimited report outputs. Each input has its own adapter
// producing the same raw record type, so the rest of the pipeline never
// branches on source schema.
package source

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/feathermark/strikereport/internal/domain"
)

// regulatoryColumns are the required headers of the public strike-database
// export. A missing column is fatal: partial processing would silently skew
// every downstream aggregate.
var regulatoryColumns = []string{
	"INCIDENT_DATE", "INCIDENT_MONTH", "INCIDENT_YEAR",
	"SPECIES", "RUNWAY", "REG",
	"INDICATED_DAMAGE", "EFFECT", "OTHER_SPECIFY",
	"COST_REPAIRS", "AOS", "COST_OTHER", "REMAINS_SENT",
}

// Regulatory reads the public regulatory strike export.
type Regulatory struct {
	Path string
}

// Name identifies the adapter in logs and metrics.
func (r Regulatory) Name() string { return string(domain.SourceRegulatory) }

// Extract loads the CSV and returns one raw strike per row.
func (r Regulatory) Extract() ([]domain.RawStrike, error) {
	df, err := readCSV(r.Path)
	if err != nil {
		return nil, fmt.Errorf("regulatory export: %w", err)
	}
	if err := requireColumns(df, regulatoryColumns); err != nil {
		return nil, fmt.Errorf("regulatory export %s: %w", r.Path, err)
	}

	cols := columnRecords(df, regulatoryColumns)
	raws := make([]domain.RawStrike, df.Nrow())
	for i := range raws {
		raws[i] = domain.RawStrike{
			Source:        domain.SourceRegulatory,
			Date:          cols["INCIDENT_DATE"][i],
			Month:         cols["INCIDENT_MONTH"][i],
			Year:          cols["INCIDENT_YEAR"][i],
			Species:       cols["SPECIES"][i],
			Runway:        cols["RUNWAY"][i],
			Registration:  cols["REG"][i],
			Damage:        cols["INDICATED_DAMAGE"][i],
			FlightEffect:  cols["EFFECT"][i],
			OtherEffect:   cols["OTHER_SPECIFY"][i],
			RepairCost:    cols["COST_REPAIRS"][i],
			DowntimeHours: cols["AOS"][i],
			OtherCost:     cols["COST_OTHER"][i],
			Remains:       cols["REMAINS_SENT"][i],
		}
	}
	return raws, nil
}

// readCSV loads a delimited file with every column typed as string, so the
// domain layer owns all coercions.
func readCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", path, df.Error())
	}
	return df, nil
}

// requireColumns verifies every expected header is present.
func requireColumns(df dataframe.DataFrame, expected []string) error {
	have := make(map[string]bool, len(df.Names()))
	for _, n := range df.Names() {
		have[n] = true
	}
	var missing []string
	for _, c := range expected {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing expected columns %v", missing)
	}
	return nil
}

// columnRecords materializes the named columns as string slices.
func columnRecords(df dataframe.DataFrame, names []string) map[string][]string {
	cols := make(map[string][]string, len(names))
	for _, n := range names {
		cols[n] = df.Col(n).Records()
	}
	return cols
}
