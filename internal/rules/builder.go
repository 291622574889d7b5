package rules

// Feature flags recognized by Build.
const (
	FlagTomorrowRain = "enableTomorrowRain"
	FlagSunBreak     = "enableSunBreak"
	FlagApparentFeel = "enableApparentFeel"
)

var knownFlags = map[string]bool{
	FlagTomorrowRain: true,
	FlagSunBreak:     true,
	FlagApparentFeel: true,
}

// Flags toggles extension rules by name. A flag that is not set is enabled.
type Flags map[string]bool

// Enabled reports whether the named flag is on.
func (f Flags) Enabled(name string) bool {
	v, ok := f[name]
	return !ok || v
}

// IsKnownFlag reports whether Build recognizes name.
func IsKnownFlag(name string) bool {
	return knownFlags[name]
}

// Build returns the active rules: every base rule in catalog order, then each
// extension whose flag is recognized and enabled. It allocates a new slice
// on every call and never mutates the catalog.
func Build(c Catalog, flags Flags) []Rule {
	active := make([]Rule, 0, len(c.Base)+len(c.Extensions))
	active = append(active, c.Base...)

	for _, ext := range c.Extensions {
		if !knownFlags[ext.Flag] {
			continue
		}
		if flags.Enabled(ext.Flag) {
			active = append(active, ext.Rule)
		}
	}
	return active
}
