package source

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/feathermark/strikereport/internal/domain"
)

// opsCenterSheet is the worksheet the command-center system exports into.
const opsCenterSheet = "Strikes"

// opsCenterColumns are the required headers of the internal export.
var opsCenterColumns = []string{
	"Date", "Species", "Guild", "Runway", "Tail Number",
	"Damage", "Flight Effect", "Other Effect",
	"Repair Cost", "Downtime Hours", "Other Cost",
	"Remains", "Status",
}

// Workflow statuses that exclude a record from reporting.
var excludedStatuses = map[string]bool{
	"archived":      true,
	"not submitted": true,
}

// Statuses treated as ambiguous: almost certainly data-entry slips rather
// than deliberate exclusions, so they are included by default. The policy is
// a flag, not a constant, because it is an assumption rather than a confirmed
// business rule.
var ambiguousStatuses = map[string]bool{
	"":       true,
	"revise": true,
}

// OpsCenter reads the internal command-center XLSX export.
type OpsCenter struct {
	Path string

	// IncludeAmbiguousStatus keeps records whose workflow status is blank or
	// "Revise".
	IncludeAmbiguousStatus bool

	// OnExcluded, when set, is called once per row the status filter drops.
	OnExcluded func()
}

// Name identifies the adapter in logs and metrics.
func (o OpsCenter) Name() string { return string(domain.SourceInternal) }

// Extract loads the workbook, applies the workflow-status inclusion filter,
// and returns one raw strike per surviving row.
func (o OpsCenter) Extract() ([]domain.RawStrike, error) {
	f, err := excelize.OpenFile(o.Path)
	if err != nil {
		return nil, fmt.Errorf("command-center export: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(opsCenterSheet)
	if err != nil {
		return nil, fmt.Errorf("command-center export %s: sheet %q: %w", o.Path, opsCenterSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("command-center export %s: sheet %q is empty", o.Path, opsCenterSheet)
	}

	colIdx, err := headerIndex(rows[0], opsCenterColumns)
	if err != nil {
		return nil, fmt.Errorf("command-center export %s: %w", o.Path, err)
	}

	var raws []domain.RawStrike
	for _, row := range rows[1:] {
		get := func(col string) string {
			i := colIdx[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		if !o.includeStatus(get("Status")) {
			if o.OnExcluded != nil {
				o.OnExcluded()
			}
			continue
		}

		raws = append(raws, domain.RawStrike{
			Source:        domain.SourceInternal,
			Date:          get("Date"),
			Species:       get("Species"),
			Guild:         get("Guild"),
			Runway:        get("Runway"),
			Registration:  get("Tail Number"),
			Damage:        get("Damage"),
			FlightEffect:  get("Flight Effect"),
			OtherEffect:   get("Other Effect"),
			RepairCost:    get("Repair Cost"),
			DowntimeHours: get("Downtime Hours"),
			OtherCost:     get("Other Cost"),
			Remains:       get("Remains"),
			Status:        get("Status"),
		})
	}
	return raws, nil
}

// includeStatus applies the workflow-status filter: archived and not-submitted
// records are always excluded; ambiguous statuses follow the policy flag.
func (o OpsCenter) includeStatus(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	if excludedStatuses[s] {
		return false
	}
	if ambiguousStatuses[s] {
		return o.IncludeAmbiguousStatus
	}
	return true
}

// headerIndex maps expected column names to their positions in the header
// row. Missing columns are fatal.
func headerIndex(header []string, expected []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range expected {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing expected columns %v", missing)
	}
	return idx, nil
}
