package taxonomy

import (
	"regexp"
	"strings"
)

// Classifier labels usually arrive as "Common name (Scientific name)"; the
// parenthetical is optional.
var labelPattern = regexp.MustCompile(`^(.*?)\s*(?:\(([^)]+)\))?$`)

// ParsedLabel is the outcome of splitting one raw classifier label.
// ScientificName is empty when nothing could be extracted or backfilled.
type ParsedLabel struct {
	CommonName     string
	ScientificName string
}

// ParseLabel splits a raw classifier label into common and scientific parts,
// backfilling the missing side from the resolver where possible. When a
// scientific name has no resolvable common name, the genus token stands in
// for it. Deterministic, no I/O.
func (r *Resolver) ParseLabel(label string) ParsedLabel {
	commonName := label
	scientificName := ""

	if m := labelPattern.FindStringSubmatch(label); m != nil {
		commonName = strings.TrimSpace(m[1])
		scientificName = strings.TrimSpace(m[2])
	}

	// A label with no parenthetical can still be a bare binomial
	// ("Panthera pardus"); treat it as the scientific side.
	if scientificName == "" && binomialPattern.MatchString(commonName) {
		scientificName = commonName
		commonName = ""
	}

	if scientificName != "" && commonName == "" {
		if common, ok := r.CommonName(scientificName); ok {
			commonName = common
		} else {
			commonName = strings.Fields(scientificName)[0]
		}
	}

	if scientificName == "" {
		if scientific, ok := r.ScientificName(commonName); ok {
			scientificName = scientific
		}
	}

	return ParsedLabel{CommonName: commonName, ScientificName: scientificName}
}
