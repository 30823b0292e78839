package domain

import "time"

// Source identifies which exporting system produced a strike record.
type Source string

const (
	// SourceRegulatory is the public regulatory strike database export.
	SourceRegulatory Source = "regulatory"
	// SourceInternal is the airport command-center export.
	SourceInternal Source = "internal"
)

// RawStrike is the union of raw fields read from either export before
// normalization. All values are kept as strings exactly as they appear in the
// file; the source tag tells the normalizer which coding conventions apply.
type RawStrike struct {
	Source Source

	Date    string // ISO date, e.g. "2024-05-14"
	Year    string // may carry thousands separators, e.g. "2,024"
	Month   string // may carry a numeric prefix, e.g. "05-May"
	Species string
	Guild   string
	Runway  string

	Registration string // aircraft registration / tail number
	Remains      string // regulatory: boolean column; internal: status string

	Damage        string // regulatory: "Yes"/"No"; internal: "true"/"false"
	FlightEffect  string
	OtherEffect   string
	RepairCost    string
	DowntimeHours string
	OtherCost     string

	Status string // internal workflow status; empty for regulatory records
}

// StrikeRecord is the canonical wildlife-strike incident after normalization
// and classification. Records are immutable once built.
type StrikeRecord struct {
	Source Source

	Date  time.Time
	Year  int
	Month string // one of the 12 canonical 3-letter abbreviations

	Species string // never blank
	Guild   string // never blank; "Unknown" when unassigned
	Runway  string // one of the 6 paired labels or "Other"

	RegistrationPresent bool
	PilotReported       bool
	RemainsSent         bool
	Damaging            bool
	Disruptive          bool

	FlightEffect  string
	OtherEffect   string
	RepairCost    *float64
	DowntimeHours *float64
	OtherCost     *float64

	ProcessedAt time.Time
}

// OperationsRecord is the annual exposure denominator: total aircraft
// movements for one year.
type OperationsRecord struct {
	Year       int
	Operations int
}

// PeriodSummary is one row of an aggregation result.
type PeriodSummary struct {
	Key   string
	Count int
	Rate  float64 // zero unless the summary was rate-normalized
}

// ControlLimits are the center line and mean ± k·σ bounds derived from a rate
// series. The lower limit is clamped at zero.
type ControlLimits struct {
	CenterLine float64
	StdDev     float64
	UpperLimit float64
	LowerLimit float64
}
