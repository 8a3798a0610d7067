// Package alias resolves raw participant ids to canonical player ids.
//
// The alias configuration is static for a run: canonical id -> list of
// secondary raw ids. Resolution memoizes results, so the first lookup for
// a raw id scans the configuration and every later lookup is a map hit.
package alias

// Resolver maps raw ids to canonical ids with per-run memoization.
type Resolver struct {
	aliases map[string][]string
	cache   map[string]string
}

// NewResolver creates a Resolver over the given alias configuration.
// A nil map is valid and makes every raw id its own canonical id.
func NewResolver(aliases map[string][]string) *Resolver {
	return &Resolver{
		aliases: aliases,
		cache:   make(map[string]string),
	}
}

// Resolve returns the canonical id for rawID. A raw id that appears in no
// secondary-id list is its own canonical id. Every result is cached, so
// Resolve is idempotent for the lifetime of the run.
func (r *Resolver) Resolve(rawID string) string {
	if canonical, ok := r.cache[rawID]; ok {
		return canonical
	}
	for canonical, secondaries := range r.aliases {
		for _, id := range secondaries {
			if id == rawID {
				r.cache[rawID] = canonical
				return canonical
			}
		}
	}
	r.cache[rawID] = rawID
	return rawID
}

// ResolveSet resolves every raw id in raws and returns the canonical set.
func (r *Resolver) ResolveSet(raws map[string]struct{}) map[string]struct{} {
	canonical := make(map[string]struct{}, len(raws))
	for raw := range raws {
		canonical[r.Resolve(raw)] = struct{}{}
	}
	return canonical
}

// CanonicalIDs returns the canonical ids named by the alias configuration.
func (r *Resolver) CanonicalIDs() []string {
	ids := make([]string, 0, len(r.aliases))
	for canonical := range r.aliases {
		ids = append(ids, canonical)
	}
	return ids
}
