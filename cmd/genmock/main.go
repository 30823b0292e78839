// Command genmock writes small fixture inputs for local runs and test
// development: a regulatory CSV, a command-center XLSX, an annual operations
// CSV, and a species guild lookup. The rows carry the messy raw values the
// normalizer exists for (misspellings, numeric month prefixes, thousands
// separators, single-digit runways), and the printed stats come from the
// actual domain package so assertions match real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/jonboulle/clockwork"
	"github.com/xuri/excelize/v2"

	"github.com/feathermark/strikereport/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data", "directory to write fixture inputs into")
	flag.Parse()

	// Fixed clock for reproducible ProcessedAt timestamps in the stats run.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(*outDir, "regulatory_strikes.csv"), regulatoryRows); err != nil {
		return fmt.Errorf("regulatory fixture: %w", err)
	}
	if err := writeWorkbook(filepath.Join(*outDir, "opscenter_strikes.xlsx")); err != nil {
		return fmt.Errorf("command-center fixture: %w", err)
	}
	if err := writeCSV(filepath.Join(*outDir, "annual_operations.csv"), operationsRows); err != nil {
		return fmt.Errorf("operations fixture: %w", err)
	}
	if err := writeCSV(filepath.Join(*outDir, "species_guilds.csv"), guildRows); err != nil {
		return fmt.Errorf("guild fixture: %w", err)
	}
	log.Printf("wrote fixtures to %s", *outDir)

	printStats()
	return nil
}

var regulatoryRows = [][]string{
	{"INCIDENT_DATE", "INCIDENT_MONTH", "INCIDENT_YEAR", "SPECIES", "RUNWAY", "REG",
		"INDICATED_DAMAGE", "EFFECT", "OTHER_SPECIFY", "COST_REPAIRS", "AOS", "COST_OTHER", "REMAINS_SENT"},
	{"2023-04-12", "04-Apr", "2023", "Herring gull", "10L", "N4821K", "No", "None", "", "", "", "", "Yes"},
	{"2023-05-03", "05-May", "2,023", "CANADIAN GOOSE", "22", "N771UA", "Yes", "Precautionary Landing", "", "14500", "6", "", "Yes"},
	{"2023-07-19", "07-Jul", "2023", "morning dove", "4", "UNKNOWN", "No", "None", "", "", "", "", "No"},
	{"2023-09-08", "09-Sep", "2023", "Unknown bird - small", "28R", "", "No", "None", "", "", "", "", "No"},
	{"2024-01-22", "01-Jan", "2024", "Coyotee", "15", "N118SW", "Yes", "Aborted Takeoff", "", "", "12", "3200", "No"},
	{"2024-03-05", "03-Mar", "2024", "Barn swallow", "33", "N902DL", "No", "None", "", "", "", "", "Yes"},
}

var opsCenterRows = [][]any{
	{"Date", "Species", "Guild", "Runway", "Tail Number",
		"Damage", "Flight Effect", "Other Effect",
		"Repair Cost", "Downtime Hours", "Other Cost",
		"Remains", "Status"},
	{"2024-06-14", "Red-tailed hawk", "Raptor", "10R", "N334AA", "false", "", "", "", "", "", "Collected", "Submitted"},
	{"2024-08-02", "ring-billed gull", "", "28L", "unknown", "false", "", "", "", "", "", "Sent to Smithsonian", "Submitted"},
	{"2024-10-30", "White-tailed deer", "Mammal", "1", "N550WN", "true", "Aborted Takeoff", "Fence inspection", "22000", "14", "1800", "Collected", "Complete"},
	{"2024-11-11", "European starling", "Songbird", "Taxiway B", "N287UA", "false", "", "", "", "", "", "", "Revise"},
	{"2024-12-01", "Horned owl", "", "19", "N606FX", "false", "", "", "", "", "", "Discarded", ""},
	{"2024-12-09", "Mallard", "Waterfowl", "06", "N101DL", "false", "", "", "", "", "", "Collected", "Archived"},
	{"2024-12-18", "Big brown bat", "Bat", "24", "", "false", "", "", "", "", "", "", "Not Submitted"},
}

var operationsRows = [][]string{
	{"YEAR", "OPERATIONS"},
	{"2021", "182,400"},
	{"2022", "195,100"},
	{"2023", "203,750"},
	{"2024", "96,300"}, // partial year, hand-summed from monthly tower counts
}

var guildRows = [][]string{
	{"SPECIES", "GUILD"},
	{"Herring gull", "Gull/Tern"},
	{"Canada goose", "Waterfowl"},
	{"Mourning dove", "Dove/Pigeon"},
	{"Coyote", "Mammals"},
	{"Barn swallow", "Songbird"},
	{"Red-tailed hawk", "Raptors"},
	{"White-tailed deer", "Mammals"},
	{"European starling", "Songbirds"},
	{"Great horned owl", "Raptors"},
	{"Mallard", "Waterfowl"},
	{"Big brown bat", "Bats"},
}

func writeCSV(path string, rows [][]string) error {
	df := dataframe.LoadRecords(rows,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Error() != nil {
		return df.Error()
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return df.WriteCSV(f)
}

func writeWorkbook(path string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "Strikes"); err != nil {
		return err
	}
	for i, row := range opsCenterRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow("Strikes", cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// printStats runs every fixture row through the real normalizer and prints
// the aggregate counts test assertions are written against.
func printStats() {
	guilds := make(domain.GuildTable, len(guildRows)-1)
	for _, row := range guildRows[1:] {
		guilds[domain.NormalizeSpecies(row[0])] = domain.NormalizeGuild(row[1], nil)
	}

	unmapped := domain.NewUnmappedSet()
	var records []domain.StrikeRecord

	for _, row := range regulatoryRows[1:] {
		records = append(records, domain.Normalize(domain.RawStrike{
			Source: domain.SourceRegulatory,
			Date:   row[0], Month: row[1], Year: row[2],
			Species: row[3], Runway: row[4], Registration: row[5],
			Damage: row[6], FlightEffect: row[7], OtherEffect: row[8],
			RepairCost: row[9], DowntimeHours: row[10], OtherCost: row[11],
			Remains: row[12],
		}, guilds, unmapped))
	}
	for _, row := range opsCenterRows[1:] {
		status := row[12].(string)
		if status == "Archived" || status == "Not Submitted" {
			continue
		}
		records = append(records, domain.Normalize(domain.RawStrike{
			Source: domain.SourceInternal,
			Date:   row[0].(string), Species: row[1].(string), Guild: row[2].(string),
			Runway: row[3].(string), Registration: row[4].(string),
			Damage: row[5].(string), FlightEffect: row[6].(string), OtherEffect: row[7].(string),
			RepairCost: row[8].(string), DowntimeHours: row[9].(string), OtherCost: row[10].(string),
			Remains: row[11].(string), Status: status,
		}, guilds, unmapped))
	}

	byGuild := map[string]int{}
	var pilot, remains, damaging, disruptive int
	for _, r := range records {
		byGuild[r.Guild]++
		if r.PilotReported {
			pilot++
		}
		if r.RemainsSent {
			remains++
		}
		if r.Damaging {
			damaging++
		}
		if r.Disruptive {
			disruptive++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(records))
	fmt.Printf("Pilot-reported: %d\n", pilot)
	fmt.Printf("Remains sent: %d\n", remains)
	fmt.Printf("Damaging: %d, Disruptive: %d\n", damaging, disruptive)
	fmt.Printf("By guild:")
	for g, n := range byGuild {
		fmt.Printf(" %s=%d", g, n)
	}
	fmt.Println()
	for _, kind := range unmapped.Kinds() {
		fmt.Printf("Unmapped %s: %v\n", kind, unmapped.Values(kind))
	}
}
