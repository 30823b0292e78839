package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/regulatory_strikes.csv", cfg.RegulatoryCSV)
	assert.Equal(t, "data/opscenter_strikes.xlsx", cfg.OpsCenterXLSX)
	assert.Equal(t, "data/annual_operations.csv", cfg.OperationsCSV)
	assert.Equal(t, "data/species_guilds.csv", cfg.GuildCSV)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Empty(t, cfg.MetricsFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 100000.0, cfg.RateScale)
	assert.Equal(t, 10000.0, cfg.DamageRateScale)
	assert.Equal(t, 1.96, cfg.ControlLimitK)
	assert.Equal(t, 3, cfg.SpeciesMinSupport)
	assert.True(t, cfg.IncludeAmbiguousStatus)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("REGULATORY_CSV", "in/reg.csv")
	t.Setenv("OPSCENTER_XLSX", "in/ops.xlsx")
	t.Setenv("OPERATIONS_CSV", "in/annual.csv")
	t.Setenv("GUILD_CSV", "in/guilds.csv")
	t.Setenv("OUTPUT_DIR", "reports")
	t.Setenv("METRICS_FILE", "reports/strikereport.prom")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("RATE_SCALE", "10000")
	t.Setenv("DAMAGE_RATE_SCALE", "100000")
	t.Setenv("CONTROL_LIMIT_K", "2")
	t.Setenv("SPECIES_MIN_SUPPORT", "5")
	t.Setenv("STATUS_INCLUDE_AMBIGUOUS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "in/reg.csv", cfg.RegulatoryCSV)
	assert.Equal(t, "in/ops.xlsx", cfg.OpsCenterXLSX)
	assert.Equal(t, "in/annual.csv", cfg.OperationsCSV)
	assert.Equal(t, "in/guilds.csv", cfg.GuildCSV)
	assert.Equal(t, "reports", cfg.OutputDir)
	assert.Equal(t, "reports/strikereport.prom", cfg.MetricsFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10000.0, cfg.RateScale)
	assert.Equal(t, 100000.0, cfg.DamageRateScale)
	assert.Equal(t, 2.0, cfg.ControlLimitK)
	assert.Equal(t, 5, cfg.SpeciesMinSupport)
	assert.False(t, cfg.IncludeAmbiguousStatus)
}

func TestLoad_InvalidRateScale(t *testing.T) {
	t.Setenv("RATE_SCALE", "zero")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_SCALE")
}

func TestLoad_NegativeRateScale(t *testing.T) {
	t.Setenv("RATE_SCALE", "-5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_SCALE")
}

func TestLoad_InvalidControlLimitK(t *testing.T) {
	t.Setenv("CONTROL_LIMIT_K", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONTROL_LIMIT_K")
}

func TestLoad_InvalidMinSupport(t *testing.T) {
	t.Setenv("SPECIES_MIN_SUPPORT", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SPECIES_MIN_SUPPORT")
}

func TestLoad_InvalidAmbiguousFlag(t *testing.T) {
	t.Setenv("STATUS_INCLUDE_AMBIGUOUS", "maybe")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATUS_INCLUDE_AMBIGUOUS")
}
