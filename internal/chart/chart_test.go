package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feathermark/strikereport/internal/domain"
	"github.com/feathermark/strikereport/internal/report"
)

func TestRenderBar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "strikes_by_month.png")
	summaries := []domain.PeriodSummary{
		{Key: "Jan", Count: 4},
		{Key: "Feb", Count: 0},
		{Key: "Mar", Count: 9},
	}

	require.NoError(t, RenderBar(path, "Strikes by month", "Strikes", summaries))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderBar_EmptySummaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, RenderBar(path, "Nothing", "Strikes", nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderFacets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species_by_month.png")
	cells := []report.CrossCount{
		{Key: "Gull sp.", Period: "Jan", Count: 3},
		{Key: "Gull sp.", Period: "Feb", Count: 1},
		{Key: "Canada goose", Period: "Mar", Count: 2},
		{Key: "Coyote", Period: "Jan", Count: 1},
		{Key: "Coyote", Period: "Dec", Count: 2},
	}

	require.NoError(t, RenderFacets(path, "Strikes by species and month", cells, []string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderFacets_NoCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	require.Error(t, RenderFacets(path, "Nothing", nil, []string{"Jan"}))
}

func TestRenderRateSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rate.png")
	annual := []report.AnnualRate{
		{Year: 2021, Count: 10, Operations: 100000, Rate: 10},
		{Year: 2022, Count: 14, Operations: 100000, Rate: 14},
		{Year: 2023, Count: 8, Operations: 100000, Rate: 8},
	}
	limits := domain.ControlLimits{CenterLine: 10.67, StdDev: 3.06, UpperLimit: 16.66, LowerLimit: 4.68}

	require.NoError(t, RenderRateSeries(path, "Annual strike rate", "Strikes per 100,000 operations", annual, limits))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderRateSeries_NoData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rate.png")
	err := RenderRateSeries(path, "Annual strike rate", "Strikes", nil, domain.ControlLimits{})
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
