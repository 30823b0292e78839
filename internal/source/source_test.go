package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feathermark/strikereport/internal/domain"
	"github.com/feathermark/strikereport/internal/report"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const regulatoryFixture = `INCIDENT_DATE,INCIDENT_MONTH,INCIDENT_YEAR,SPECIES,RUNWAY,REG,INDICATED_DAMAGE,EFFECT,OTHER_SPECIFY,COST_REPAIRS,AOS,COST_OTHER,REMAINS_SENT
2024-05-14,05-May,2024,CANADA GOOSE,28R,N12345,Yes,Aborted Takeoff,,12500,4,,true
2024-06-02,06-Jun,2024,Ring-billed Gull,10L,unknown,No,None,,,,,false
`

func TestRegulatory_Extract(t *testing.T) {
	path := writeFixture(t, "regulatory.csv", regulatoryFixture)

	raws, err := Regulatory{Path: path}.Extract()
	require.NoError(t, err)
	require.Len(t, raws, 2)

	first := raws[0]
	assert.Equal(t, domain.SourceRegulatory, first.Source)
	assert.Equal(t, "2024-05-14", first.Date)
	assert.Equal(t, "05-May", first.Month)
	assert.Equal(t, "CANADA GOOSE", first.Species)
	assert.Equal(t, "28R", first.Runway)
	assert.Equal(t, "N12345", first.Registration)
	assert.Equal(t, "Yes", first.Damage)
	assert.Equal(t, "Aborted Takeoff", first.FlightEffect)
	assert.Equal(t, "12500", first.RepairCost)
	assert.Equal(t, "true", first.Remains)

	second := raws[1]
	assert.Equal(t, "unknown", second.Registration)
	assert.Equal(t, "None", second.FlightEffect)
	assert.Equal(t, "false", second.Remains)
}

func TestRegulatory_MissingColumnIsFatal(t *testing.T) {
	path := writeFixture(t, "bad.csv", "INCIDENT_DATE,SPECIES\n2024-05-14,Gull\n")

	_, err := Regulatory{Path: path}.Extract()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing expected columns")
	assert.Contains(t, err.Error(), "RUNWAY")
}

func TestRegulatory_MissingFile(t *testing.T) {
	_, err := Regulatory{Path: filepath.Join(t.TempDir(), "absent.csv")}.Extract()
	require.Error(t, err)
}

func TestOperations_Extract(t *testing.T) {
	path := writeFixture(t, "operations.csv", "YEAR,OPERATIONS\n2023,185000\n2024,\"191,250\"\n")

	ops, err := Operations{Path: path}.Extract()
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, domain.OperationsRecord{Year: 2023, Operations: 185000}, ops[0])
	assert.Equal(t, domain.OperationsRecord{Year: 2024, Operations: 191250}, ops[1])
}

func TestOperations_BadYearIsFatal(t *testing.T) {
	path := writeFixture(t, "operations.csv", "YEAR,OPERATIONS\ntwenty24,185000\n")

	_, err := Operations{Path: path}.Extract()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad year")
}

func TestGuilds_Extract(t *testing.T) {
	path := writeFixture(t, "guilds.csv",
		"SPECIES,GUILD\nCANADA GOOSE,Waterfowl\nring-billed gull,Gull/Tern\nCoyote,Mammal\n")

	table, err := Guilds{Path: path}.Extract()
	require.NoError(t, err)

	// Keys are normalized species; values are harmonized guilds.
	g, ok := table.Lookup("Canada goose")
	require.True(t, ok)
	assert.Equal(t, "Waterfowl", g)

	g, ok = table.Lookup("Gull sp.")
	require.True(t, ok)
	assert.Equal(t, "Gulls/Terns", g)

	g, ok = table.Lookup("Coyote")
	require.True(t, ok)
	assert.Equal(t, "Mammals", g)

	_, ok = table.Lookup("Osprey")
	assert.False(t, ok)
}

func TestWriteSummaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "by_guild.csv")
	summaries := []domain.PeriodSummary{
		{Key: "Gulls/Terns", Count: 12},
		{Key: "Waterfowl", Count: 5},
	}

	require.NoError(t, WriteSummaries(path, "GUILD", summaries))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "GUILD,COUNT")
	assert.Contains(t, string(data), "Gulls/Terns,12")
}

func TestWriteAnnualRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.csv")
	annual := []report.AnnualRate{
		{Year: 2023, Count: 5, Operations: 1000, Rate: 500},
		{Year: 2024, Count: 0, Operations: 2000, Rate: 0},
	}
	limits := domain.ControlLimits{CenterLine: 250, UpperLimit: 957.1, LowerLimit: 0}

	require.NoError(t, WriteAnnualRates(path, annual, limits))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "YEAR,COUNT,OPERATIONS,RATE,CENTER_LINE,UPPER_LIMIT,LOWER_LIMIT")
	assert.Contains(t, text, "2023,5,1000")
}

func TestWriteExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extract.csv")
	records := []domain.StrikeRecord{
		{
			Source: domain.SourceRegulatory, Year: 2024, Month: "May",
			Species: "Canada goose", Guild: "Waterfowl", Runway: "10L/28R",
			PilotReported: true, Damaging: true, Disruptive: true,
		},
	}

	require.NoError(t, WriteExtract(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "SOURCE,DATE,YEAR,MONTH,SPECIES,GUILD,RUNWAY,PILOT_REPORTED,REMAINS_SENT,DAMAGING,DISRUPTIVE")
	assert.Contains(t, text, "Canada goose")
}

func TestWriteCrossCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species_month.csv")
	cells := []report.CrossCount{
		{Key: "Gull sp.", Period: "Jan", Count: 3},
		{Key: "Gull sp.", Period: "Feb", Count: 1},
	}

	require.NoError(t, WriteCrossCounts(path, "SPECIES", "MONTH", cells))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SPECIES,MONTH,COUNT")
	assert.Contains(t, string(data), "Gull sp.,Jan,3")
}
