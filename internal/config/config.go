package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all run settings, populated from environment variables. The
// program is file-in/file-out: the only interface is these paths plus a few
// report constants.
type Config struct {
	// Input paths.
	RegulatoryCSV string
	OpsCenterXLSX string
	OperationsCSV string
	GuildCSV      string

	// Output locations. MetricsFile is optional; empty disables the textfile.
	OutputDir   string
	MetricsFile string

	LogLevel  string
	LogFormat string

	// Report constants.
	RateScale         float64 // strike rate scale (per N operations)
	DamageRateScale   float64 // damaging-strike rate scale
	ControlLimitK     float64 // control-limit multiplier (1.96 ≈ 95%)
	SpeciesMinSupport int     // suppress species below this total count

	// IncludeAmbiguousStatus keeps command-center records with a blank or
	// "Revise" workflow status. The default treats them as data-entry slips;
	// flip it if the workflow team ever confirms they mean exclusion.
	IncludeAmbiguousStatus bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	rateScale, err := parsePositiveFloat("RATE_SCALE", "100000")
	if err != nil {
		return nil, err
	}
	damageScale, err := parsePositiveFloat("DAMAGE_RATE_SCALE", "10000")
	if err != nil {
		return nil, err
	}
	k, err := parsePositiveFloat("CONTROL_LIMIT_K", "1.96")
	if err != nil {
		return nil, err
	}
	minSupport, err := parseNonNegativeInt("SPECIES_MIN_SUPPORT", "3")
	if err != nil {
		return nil, err
	}
	includeAmbiguous, err := parseBool("STATUS_INCLUDE_AMBIGUOUS", "true")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RegulatoryCSV: envOrDefault("REGULATORY_CSV", "data/regulatory_strikes.csv"),
		OpsCenterXLSX: envOrDefault("OPSCENTER_XLSX", "data/opscenter_strikes.xlsx"),
		OperationsCSV: envOrDefault("OPERATIONS_CSV", "data/annual_operations.csv"),
		GuildCSV:      envOrDefault("GUILD_CSV", "data/species_guilds.csv"),

		OutputDir:   envOrDefault("OUTPUT_DIR", "out"),
		MetricsFile: os.Getenv("METRICS_FILE"),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		RateScale:              rateScale,
		DamageRateScale:        damageScale,
		ControlLimitK:          k,
		SpeciesMinSupport:      minSupport,
		IncludeAmbiguousStatus: includeAmbiguous,
	}

	for name, v := range map[string]string{
		"REGULATORY_CSV": cfg.RegulatoryCSV,
		"OPSCENTER_XLSX": cfg.OpsCenterXLSX,
		"OPERATIONS_CSV": cfg.OperationsCSV,
		"GUILD_CSV":      cfg.GuildCSV,
		"OUTPUT_DIR":     cfg.OutputDir,
	} {
		if v == "" {
			return nil, fmt.Errorf("%s is required", name)
		}
	}

	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func parsePositiveFloat(name, fallback string) (float64, error) {
	v, err := strconv.ParseFloat(envOrDefault(name, fallback), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

func parseNonNegativeInt(name, fallback string) (int, error) {
	v, err := strconv.Atoi(envOrDefault(name, fallback))
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

func parseBool(name, fallback string) (bool, error) {
	v, err := strconv.ParseBool(envOrDefault(name, fallback))
	if err != nil {
		return false, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}
