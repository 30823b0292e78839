package source

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/feathermark/strikereport/internal/domain"
)

// writeWorkbook builds a command-center export with the given data rows.
func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", opsCenterSheet))

	header := []any{
		"Date", "Species", "Guild", "Runway", "Tail Number",
		"Damage", "Flight Effect", "Other Effect",
		"Repair Cost", "Downtime Hours", "Other Cost",
		"Remains", "Status",
	}
	all := append([][]any{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(opsCenterSheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "opscenter.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestOpsCenter_Extract(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"2024-11-02", "herring gull", "Gull/Tern", "22", "unknown",
			"false", "", "", "", "", "", "Sent to Smithsonian", "Submitted"},
		{"2024-11-10", "Coyote", "Mammal", "04", "N556WN",
			"true", "Aborted Takeoff", "", "8000", "2", "", "Collected", "Complete"},
	})

	raws, err := OpsCenter{Path: path, IncludeAmbiguousStatus: true}.Extract()
	require.NoError(t, err)
	require.Len(t, raws, 2)

	first := raws[0]
	assert.Equal(t, domain.SourceInternal, first.Source)
	assert.Equal(t, "2024-11-02", first.Date)
	assert.Equal(t, "herring gull", first.Species)
	assert.Equal(t, "Gull/Tern", first.Guild)
	assert.Equal(t, "22", first.Runway)
	assert.Equal(t, "Sent to Smithsonian", first.Remains)

	second := raws[1]
	assert.Equal(t, "N556WN", second.Registration)
	assert.Equal(t, "true", second.Damage)
	assert.Equal(t, "8000", second.RepairCost)
}

func TestOpsCenter_StatusFilter(t *testing.T) {
	rows := [][]any{
		{"2024-01-01", "a", "", "", "", "", "", "", "", "", "", "", "Submitted"},
		{"2024-01-02", "b", "", "", "", "", "", "", "", "", "", "", "Archived"},
		{"2024-01-03", "c", "", "", "", "", "", "", "", "", "", "", "Not Submitted"},
		{"2024-01-04", "d", "", "", "", "", "", "", "", "", "", "", "Revise"},
		{"2024-01-05", "e", "", "", "", "", "", "", "", "", "", "", ""},
	}

	t.Run("ambiguous included by default policy", func(t *testing.T) {
		path := writeWorkbook(t, rows)
		excluded := 0
		raws, err := OpsCenter{
			Path:                   path,
			IncludeAmbiguousStatus: true,
			OnExcluded:             func() { excluded++ },
		}.Extract()
		require.NoError(t, err)

		var species []string
		for _, r := range raws {
			species = append(species, r.Species)
		}
		// Archived and Not Submitted always excluded; blank and Revise kept.
		assert.Equal(t, []string{"a", "d", "e"}, species)
		assert.Equal(t, 2, excluded)
	})

	t.Run("ambiguous excluded when policy flipped", func(t *testing.T) {
		path := writeWorkbook(t, rows)
		raws, err := OpsCenter{Path: path, IncludeAmbiguousStatus: false}.Extract()
		require.NoError(t, err)
		require.Len(t, raws, 1)
		assert.Equal(t, "a", raws[0].Species)
	})
}

func TestOpsCenter_MissingColumnIsFatal(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", opsCenterSheet))
	row := []any{"Date", "Species"}
	require.NoError(t, f.SetSheetRow(opsCenterSheet, "A1", &row))
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, f.SaveAs(path))

	_, err := OpsCenter{Path: path}.Extract()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing expected columns")
}

func TestOpsCenter_MissingFile(t *testing.T) {
	_, err := OpsCenter{Path: filepath.Join(t.TempDir(), "absent.xlsx")}.Extract()
	require.Error(t, err)
}
