package taxonomy

import (
	"regexp"
	"strings"
)

var (
	// "Genus species", optionally with a variety suffix.
	binomialPattern = regexp.MustCompile(`^[A-Z][a-z]+\s+[a-z]+(?:\s+var\.\s+[a-z]+)?$`)

	// Labels like "species: Felis catus" or "Scientific name: Felis catus".
	prefixedNamePattern = regexp.MustCompile(`(?i)(?:species|scientific name|name):\s*([A-Z][a-z]+\s+[a-z]+(?:\s+var\.\s+[a-z]+)?)`)
)

// Resolver is a bidirectional species-name index built once at startup and
// never mutated, so it is safe for any number of concurrent readers.
type Resolver struct {
	entries      []Entry
	byScientific map[string]string
	byCommon     map[string]string // lower-cased common -> scientific
}

// NewResolver builds a resolver over the built-in species dataset.
func NewResolver() *Resolver {
	return NewResolverWith(defaultDataset)
}

// NewResolverWith builds a resolver over an explicit dataset. The inverse
// index is built by iterating the dataset once, so on duplicate common names
// the last entry wins.
func NewResolverWith(entries []Entry) *Resolver {
	r := &Resolver{
		entries:      entries,
		byScientific: make(map[string]string, len(entries)),
		byCommon:     make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		r.byScientific[e.ScientificName] = e.CommonName
		r.byCommon[strings.ToLower(e.CommonName)] = e.ScientificName
	}
	return r
}

// CleanScientificName extracts a bare binomial from classifier output that
// wraps it in a prefix ("species: Felis catus") or returns the input as-is.
func CleanScientificName(name string) string {
	if m := prefixedNamePattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	if binomialPattern.MatchString(name) {
		return name
	}
	return name
}

// CommonName returns the common name for a scientific name.
func (r *Resolver) CommonName(scientificName string) (string, bool) {
	common, ok := r.byScientific[CleanScientificName(scientificName)]
	return common, ok
}

// ScientificName resolves a common name to a scientific name. Match order:
// exact case-insensitive, then substring containment in either direction over
// the dataset in insertion order, then binomial passthrough for inputs that
// already look like a scientific name. First match wins.
func (r *Resolver) ScientificName(commonName string) (string, bool) {
	if commonName == "" {
		return "", false
	}

	lower := strings.ToLower(commonName)
	if scientific, ok := r.byCommon[lower]; ok {
		return scientific, true
	}

	for _, e := range r.entries {
		common := strings.ToLower(e.CommonName)
		if strings.Contains(lower, common) || strings.Contains(common, lower) {
			return e.ScientificName, true
		}
	}

	if binomialPattern.MatchString(commonName) {
		return commonName, true
	}

	return "", false
}
