package domain

// GuildTable maps a normalized species name to its guild label. Keys are
// stored as produced by NormalizeSpecies so lookups after normalization hit
// without further folding.
type GuildTable map[string]string

// Lookup returns the guild assigned to a normalized species name.
func (t GuildTable) Lookup(species string) (string, bool) {
	g, ok := t[species]
	return g, ok
}
