package domain

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// MonthAbbrevs is the canonical month axis in calendar order.
var MonthAbbrevs = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// monthPrefixRe strips the numeric prefix some exports prepend to month
// abbreviations, e.g. "05-May" or "5/May".
var monthPrefixRe = regexp.MustCompile(`^\d{1,2}\s*[-/._ ]\s*`)

// clusterRule consolidates free-text species variants into one coarse label.
// Every needle must appear (case-insensitive substring) for the rule to fire.
// Rules are evaluated in slice order; the first match wins.
type clusterRule struct {
	needles []string
	label   string
}

// speciesClusters is evaluated before one-off corrections. Order matters:
// "unknown bird" must win before the generic bird-family rules get a look.
var speciesClusters = []clusterRule{
	{needles: []string{"unknown", "bird"}, label: "Unknown bird"},
	{needles: []string{"gull"}, label: "Gull sp."},
	{needles: []string{"tern"}, label: "Tern sp."},
	{needles: []string{"bat"}, label: "Bat sp."},
	{needles: []string{"swallow"}, label: "Swallow sp."},
	{needles: []string{"sparrow"}, label: "Sparrow sp."},
	{needles: []string{"blackbird"}, label: "Blackbird sp."},
}

// speciesCorrections fixes misspellings and consolidates synonyms after
// clustering. Values are fixed points of NormalizeSpecies so the whole
// normalization stays idempotent.
var speciesCorrections = map[string]string{
	"Morning dove":    "Mourning dove",
	"Canadian goose":  "Canada goose",
	"Rock dove":       "Rock pigeon",
	"Coyotee":         "Coyote",
	"Whitetail deer":  "White-tailed deer",
	"Horned owl":      "Great horned owl",
	"Unknown":         "Unknown bird",
	"Unknown species": "Unknown bird",
}

// guildHarmonization maps singular or legacy guild spellings onto the
// canonical plural forms.
var guildHarmonization = map[string]string{
	"Mammal":      "Mammals",
	"Raptor":      "Raptors",
	"Corvid":      "Corvids",
	"Songbird":    "Songbirds",
	"Shorebird":   "Shorebirds",
	"Gull/Tern":   "Gulls/Terns",
	"Dove/Pigeon": "Doves/Pigeons",
	"Bat":         "Bats",
	"Reptile":     "Reptiles",
}

// knownGuilds is the closed set of guild labels reports are keyed on.
var knownGuilds = map[string]bool{
	"Waterfowl":     true,
	"Gulls/Terns":   true,
	"Raptors":       true,
	"Corvids":       true,
	"Songbirds":     true,
	"Shorebirds":    true,
	"Doves/Pigeons": true,
	"Mammals":       true,
	"Bats":          true,
	"Reptiles":      true,
	"Unknown":       true,
}

// runwayPairs maps each of the 12 physical runway identifiers onto its
// canonical pair label. The two headings of one strip are the same pavement,
// so strike reports are grouped by pair.
var runwayPairs = map[string]string{
	"10L": "10L/28R", "28R": "10L/28R",
	"10R": "10R/28L", "28L": "10R/28L",
	"04": "04/22", "22": "04/22",
	"15": "15/33", "33": "15/33",
	"06": "06/24", "24": "06/24",
	"01": "01/19", "19": "01/19",
}

// RunwayPairLabels lists the six canonical pair labels in fixed order,
// for use as a zero-fill domain.
var RunwayPairLabels = []string{
	"10L/28R", "10R/28L", "04/22", "15/33", "06/24", "01/19",
}

// RunwayOther is the fallback label for identifiers outside the pair table.
const RunwayOther = "Other"

// GuildUnknown is the fallback guild label.
const GuildUnknown = "Unknown"

// UnmappedSet collects the distinct raw values no normalization rule matched,
// keyed by field kind. It exists so a run can report every value that needs a
// human to extend the mapping tables, instead of silently folding them away.
type UnmappedSet struct {
	seen map[string]map[string]struct{}
}

// NewUnmappedSet returns an empty collector.
func NewUnmappedSet() *UnmappedSet {
	return &UnmappedSet{seen: make(map[string]map[string]struct{})}
}

// Add records one unmapped raw value under a field kind.
func (s *UnmappedSet) Add(kind, value string) {
	if s == nil {
		return
	}
	m, ok := s.seen[kind]
	if !ok {
		m = make(map[string]struct{})
		s.seen[kind] = m
	}
	m[value] = struct{}{}
}

// Kinds returns the field kinds with at least one unmapped value, sorted.
func (s *UnmappedSet) Kinds() []string {
	if s == nil {
		return nil
	}
	kinds := make([]string, 0, len(s.seen))
	for k := range s.seen {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Values returns the distinct unmapped values for a kind, sorted.
func (s *UnmappedSet) Values(kind string) []string {
	if s == nil {
		return nil
	}
	vals := make([]string, 0, len(s.seen[kind]))
	for v := range s.seen[kind] {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return vals
}

// Normalize canonicalizes a raw strike and derives its classification flags.
// Unmapped guild and runway values land in the fallback labels and are
// reported through unmapped; they never abort the run.
func Normalize(raw RawStrike, guilds GuildTable, unmapped *UnmappedSet) StrikeRecord {
	rec := StrikeRecord{
		Source:      raw.Source,
		Date:        parseDate(raw.Date),
		Species:     NormalizeSpecies(raw.Species),
		ProcessedAt: clock.Now(),
	}

	rec.Year = normalizeYearWithFallback(raw.Year, rec.Date)
	rec.Month = normalizeMonthWithFallback(raw.Month, rec.Date)
	rec.Guild = resolveGuild(raw.Guild, rec.Species, guilds, unmapped)
	rec.Runway = normalizeRunwayReporting(raw.Runway, unmapped)

	rec.FlightEffect = effectText(raw.FlightEffect)
	rec.OtherEffect = effectText(raw.OtherEffect)
	rec.RepairCost = parseOptionalFloat(raw.RepairCost)
	rec.DowntimeHours = parseOptionalFloat(raw.DowntimeHours)
	rec.OtherCost = parseOptionalFloat(raw.OtherCost)

	rec.RegistrationPresent = classifyPilotReported(raw.Registration)
	rec.PilotReported = rec.RegistrationPresent
	rec.RemainsSent = classifyRemainsSent(raw.Source, raw.Remains)
	rec.Damaging = classifyDamaging(raw.Source, raw.Damage)
	rec.Disruptive = classifyDisruptive(rec.Damaging, rec.FlightEffect, rec.OtherEffect,
		rec.RepairCost, rec.DowntimeHours, rec.OtherCost)

	return rec
}

// NormalizeSpecies trims, sentence-cases, applies the cluster rules, and then
// the one-off corrections. Applying it twice yields the same result as once.
func NormalizeSpecies(raw string) string {
	s := sentenceCase(strings.TrimSpace(raw))
	if s == "" {
		return "Unknown bird"
	}

	lower := strings.ToLower(s)
	for _, rule := range speciesClusters {
		if matchesAll(lower, rule.needles) {
			s = rule.label
			break
		}
	}

	if fixed, ok := speciesCorrections[s]; ok {
		return fixed
	}
	return s
}

// NormalizeGuild maps blank/NA to Unknown, harmonizes singular spellings, and
// folds labels outside the known set into Unknown, reporting them.
func NormalizeGuild(raw string, unmapped *UnmappedSet) string {
	g := strings.TrimSpace(raw)
	switch strings.ToLower(g) {
	case "", "na", "n/a", "none":
		return GuildUnknown
	}

	if plural, ok := guildHarmonization[g]; ok {
		g = plural
	}
	if !knownGuilds[g] {
		unmapped.Add("guild", strings.TrimSpace(raw))
		return GuildUnknown
	}
	return g
}

// NormalizeRunway maps a raw identifier onto its canonical pair label, or
// RunwayOther when it matches none of the 12 known identifiers. Already-paired
// labels pass through unchanged.
func NormalizeRunway(raw string) string {
	r := strings.ToUpper(strings.TrimSpace(raw))
	if r == "" {
		return RunwayOther
	}
	// Single-digit headings are zero-padded in the pair table.
	if len(r) == 1 && r >= "1" && r <= "9" {
		r = "0" + r
	}
	if pair, ok := runwayPairs[r]; ok {
		return pair
	}
	for _, label := range RunwayPairLabels {
		if r == label {
			return label
		}
	}
	return RunwayOther
}

// NormalizeMonth strips any numeric prefix and returns the canonical 3-letter
// abbreviation. ok is false when the input matches no calendar month.
func NormalizeMonth(raw string) (string, bool) {
	m := monthPrefixRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if len(m) < 3 {
		return "", false
	}
	m = sentenceCase(m[:3])
	for _, abbr := range MonthAbbrevs {
		if m == abbr {
			return abbr, true
		}
	}
	return "", false
}

// MonthIndex returns the 1-based calendar position of a canonical
// abbreviation, or 0 when the label is not a month.
func MonthIndex(month string) int {
	for i, abbr := range MonthAbbrevs {
		if month == abbr {
			return i + 1
		}
	}
	return 0
}

// NormalizeYear strips thousands separators and coerces to an integer.
func NormalizeYear(raw string) (int, bool) {
	y := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	y = strings.ReplaceAll(y, " ", "")
	n, err := strconv.Atoi(y)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func normalizeRunwayReporting(raw string, unmapped *UnmappedSet) string {
	pair := NormalizeRunway(raw)
	if pair == RunwayOther && strings.TrimSpace(raw) != "" {
		unmapped.Add("runway", strings.TrimSpace(raw))
	}
	return pair
}

// resolveGuild prefers the record's own guild column; blank guilds fall back
// to the species lookup table. Species missing from the table are reported so
// the table can be extended.
func resolveGuild(rawGuild, species string, guilds GuildTable, unmapped *UnmappedSet) string {
	g := NormalizeGuild(rawGuild, unmapped)
	if g != GuildUnknown {
		return g
	}
	if assigned, ok := guilds.Lookup(species); ok {
		return assigned
	}
	if species != "Unknown bird" {
		unmapped.Add("species-guild", species)
	}
	return GuildUnknown
}

func normalizeYearWithFallback(raw string, date time.Time) int {
	if y, ok := NormalizeYear(raw); ok {
		return y
	}
	if !date.IsZero() {
		return date.Year()
	}
	return 0
}

func normalizeMonthWithFallback(raw string, date time.Time) string {
	if m, ok := NormalizeMonth(raw); ok {
		return m
	}
	if !date.IsZero() {
		return MonthAbbrevs[int(date.Month())-1]
	}
	return ""
}

func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", "1/2/2006", "01/02/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseOptionalFloat(raw string) *float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func matchesAll(lower string, needles []string) bool {
	for _, n := range needles {
		if !strings.Contains(lower, n) {
			return false
		}
	}
	return true
}

// sentenceCase uppercases the first rune and lowercases the rest.
func sentenceCase(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
