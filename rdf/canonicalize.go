package rdf

import (
	"fmt"

	"github.com/piprate/json-gold/ld"
)

// Canonicalizer runs RDF Dataset Canonicalization (RDFC-1.0, the algorithm
// formerly published as URDNA2015) over a Dataset, producing both the
// canonical N-Quads byte string and the blank-node relabeling it applied.
//
// json-gold's processor does the canonicalization itself but does not expose
// the identifier-issuer map it built along the way, so deriveRelabeling derives
// it afterward by structurally unifying the input dataset against the
// canonical output (see relabel.go). This mirrors the RDF Dataset
// Canonicalization spec's own observation that the blank node identifier map
// is an artifact of the algorithm, not something every implementation
// surfaces.
type Canonicalizer struct {
	options *ld.JsonLdOptions
}

// NewCanonicalizer constructs a Canonicalizer configured for RDFC-1.0 over
// N-Quads input.
func NewCanonicalizer() *Canonicalizer {
	opts := ld.NewJsonLdOptions("")
	opts.Algorithm = ld.AlgorithmURDNA2015
	opts.Format = "application/n-quads"
	opts.InputFormat = "application/n-quads"
	return &Canonicalizer{options: opts}
}

// Canonicalize normalizes d and returns the canonical dataset plus the
// mapping from d's blank node labels to the canonical labels it was assigned.
func (c *Canonicalizer) Canonicalize(d Dataset) (Dataset, map[string]string, error) {
	proc := ld.NewJsonLdProcessor()

	input := d.NQuads()
	normalized, err := proc.Normalize(input, c.options)
	if err != nil {
		return nil, nil, fmt.Errorf("rdf: canonicalize: %w", err)
	}

	canonicalText, ok := normalized.(string)
	if !ok {
		return nil, nil, fmt.Errorf("rdf: canonicalize: unexpected result type %T", normalized)
	}

	canonical, err := ParseNQuads(canonicalText)
	if err != nil {
		return nil, nil, fmt.Errorf("rdf: canonicalize: parse canonical output: %w", err)
	}

	mapping, err := deriveRelabeling(d, canonical)
	if err != nil {
		return nil, nil, fmt.Errorf("rdf: canonicalize: %w", err)
	}

	return canonical, mapping, nil
}

// CanonicalText is a convenience wrapper returning just the canonical
// N-Quads string, the form term hashing (package encode) consumes.
func (c *Canonicalizer) CanonicalText(d Dataset) (string, error) {
	canonical, _, err := c.Canonicalize(d)
	if err != nil {
		return "", err
	}
	return canonical.NQuads(), nil
}
