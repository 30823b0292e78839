// Package domain models airport wildlife-strike records from two exporting
// systems and holds the pure normalization and classification rules shared by
// every report.
//
// # Data Sources
//
// Regulatory export:
//
//	One CSV row per reported incident, using the public strike-database
//	conventions: SPECIES free text, REG (aircraft registration), an
//	INDICATED_DAMAGE Yes/No column, EFFECT / OTHER_SPECIFY effect text,
//	COST_REPAIRS, AOS (aircraft hours out of service), COST_OTHER, and a
//	boolean REMAINS_SENT column. Updated on the regulator's schedule, which
//	lags the airport's own records by several months.
//
// Command-center export:
//
//	The airport's internal workflow system. Overlapping fields under different
//	names (Tail Number, Damage true/false, Repair Cost, Downtime Hours), a
//	Remains status string where "Sent to Smithsonian" marks forwarded remains,
//	and a workflow Status column. Archived and Not Submitted records are
//	excluded; blank and "Revise" statuses are included by policy (they are
//	almost always data-entry slips, not exclusions) and the policy is
//	configurable rather than hard-coded.
//
// # Normalization Conventions
//
// Species text is trimmed and sentence-cased, then folded by an ordered table
// of cluster rules (case-insensitive substring match, first rule wins), e.g.
// anything containing "gull" becomes "Gull sp.". A corrections lookup fixes
// known misspellings afterwards. The composition is idempotent.
//
// Guild labels are harmonized to plural forms and folded into the closed set
// reports are keyed on; blank and NA become "Unknown".
//
// Runway identifiers name one of two headings of the same pavement, so the 12
// physical identifiers collapse into 6 pair labels ("10L" and "28R" are both
// "10L/28R"). Anything else becomes "Other".
//
// Months are reduced to canonical 3-letter abbreviations with calendar
// ordering ("05-May" → "May"); years lose their thousands separators.
//
// Values no rule matches are collected in an [UnmappedSet] for review and
// folded into the fallback labels. They are a data-quality signal, never an
// error.
//
// # Classification
//
// Per-record boolean flags, each a pure function of one record:
//
//	pilot-reported: registration present and not the "unknown" sentinel.
//	remains-sent:   source-specific coding (boolean column vs. status string).
//	damaging:       explicit positive damage indicator only.
//	disruptive:     strict OR over damage flag, flight-effect text,
//	                other-effect text, repair cost, downtime hours and other
//	                cost. The "None" placeholder counts as blank.
package domain
