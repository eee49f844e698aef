package rdf

import "fmt"

// deriveRelabeling reconstructs the blank-node relabeling that canonicalizing
// `original` into `canonical` must have applied. RDFC-1.0 never changes
// triple structure, only blank node labels, so every original triple has
// exactly one structurally-matching canonical triple once blank labels are
// treated as wildcards; this function finds that correspondence by iterative
// constraint propagation, resolving one-to-one matches first and using the
// labels they fix to disambiguate the rest.
//
// This converges for the credential and presentation graphs this module
// produces, which do not contain symmetric blank-node structures (the same
// shape repeated with no distinguishing ground term). A dataset that does
// collapses to an ambiguous match and is reported as an ambiguous-relabeling
// error, which Canonicalize wraps and returns.
func deriveRelabeling(original, canonical Dataset) (map[string]string, error) {
	if len(original) != len(canonical) {
		return nil, fmt.Errorf("original and canonical dataset sizes differ: %d vs %d", len(original), len(canonical))
	}

	mapping := make(map[string]string)
	reverse := make(map[string]string)

	matched := make([]bool, len(canonical))

	for {
		progress := false

		for _, t := range original {
			if !tripleNeedsMapping(t, mapping) {
				continue
			}

			var candidates []int
			for ci, ct := range canonical {
				if matched[ci] {
					continue
				}
				if triplesCompatible(t, ct, mapping) {
					candidates = append(candidates, ci)
				}
			}

			if len(candidates) == 1 {
				ct := canonical[candidates[0]]
				if err := unify(t, ct, mapping, reverse); err != nil {
					return nil, err
				}
				matched[candidates[0]] = true
				progress = true
			}
		}

		if !progress {
			break
		}
	}

	for _, t := range original {
		if t.Subject.IsBlank() {
			if _, ok := mapping[t.Subject.Value]; !ok {
				return nil, fmt.Errorf("could not resolve blank node %q: %w", t.Subject.Value, errAmbiguousRelabeling)
			}
		}
		if t.Object.IsBlank() {
			if _, ok := mapping[t.Object.Value]; !ok {
				return nil, fmt.Errorf("could not resolve blank node %q: %w", t.Object.Value, errAmbiguousRelabeling)
			}
		}
	}

	return mapping, nil
}

var errAmbiguousRelabeling = fmt.Errorf("ambiguous blank node relabeling")

// tripleNeedsMapping reports whether t still has an unresolved blank term.
func tripleNeedsMapping(t Triple, mapping map[string]string) bool {
	if t.Subject.IsBlank() {
		if _, ok := mapping[t.Subject.Value]; !ok {
			return true
		}
	}
	if t.Object.IsBlank() {
		if _, ok := mapping[t.Object.Value]; !ok {
			return true
		}
	}
	return false
}

// triplesCompatible reports whether original triple t could correspond to
// canonical triple ct given the mappings resolved so far: predicate must
// match exactly, and each non-blank subject/object must match exactly;
// already-mapped blank terms must match their assigned label; unmapped blank
// terms match anything of the same kind.
func triplesCompatible(t, ct Triple, mapping map[string]string) bool {
	if t.Predicate != ct.Predicate || t.Graph != ct.Graph {
		return false
	}
	if !termCompatible(t.Subject, ct.Subject, mapping) {
		return false
	}
	if !termCompatible(t.Object, ct.Object, mapping) {
		return false
	}
	return true
}

func termCompatible(t, ct Term, mapping map[string]string) bool {
	if !t.IsBlank() {
		return t == ct
	}
	if !ct.IsBlank() {
		return false
	}
	if mapped, ok := mapping[t.Value]; ok {
		return mapped == ct.Value
	}
	return true
}

func unify(t, ct Triple, mapping, reverse map[string]string) error {
	if err := unifyTerm(t.Subject, ct.Subject, mapping, reverse); err != nil {
		return err
	}
	return unifyTerm(t.Object, ct.Object, mapping, reverse)
}

func unifyTerm(t, ct Term, mapping, reverse map[string]string) error {
	if !t.IsBlank() {
		return nil
	}
	if existing, ok := mapping[t.Value]; ok {
		if existing != ct.Value {
			return fmt.Errorf("inconsistent mapping for blank node %q: %q and %q", t.Value, existing, ct.Value)
		}
		return nil
	}
	if owner, ok := reverse[ct.Value]; ok && owner != t.Value {
		return fmt.Errorf("%w: canonical label %q claimed by both %q and %q", errAmbiguousRelabeling, ct.Value, owner, t.Value)
	}
	mapping[t.Value] = ct.Value
	reverse[ct.Value] = t.Value
	return nil
}

// ApplyRelabeling rewrites every blank node in d according to mapping,
// leaving unmapped blank nodes (and all non-blank terms) unchanged.
func ApplyRelabeling(d Dataset, mapping map[string]string) Dataset {
	out := make(Dataset, len(d))
	for i, t := range d {
		out[i] = Triple{
			Subject:   relabelTerm(t.Subject, mapping),
			Predicate: t.Predicate,
			Object:    relabelTerm(t.Object, mapping),
			Graph:     t.Graph,
		}
	}
	return out
}

func relabelTerm(t Term, mapping map[string]string) Term {
	if !t.IsBlank() {
		return t
	}
	if to, ok := mapping[t.Value]; ok {
		return Blank(to)
	}
	return t
}

// ComposeRelabeling composes two blank-node mappings applied in sequence
// (first, then second), as the presentation builder must when it first
// translates a holder-chosen disclosure map onto credential-local labels and
// then onto the draft presentation's canonical labels.
func ComposeRelabeling(first, second map[string]string) map[string]string {
	out := make(map[string]string, len(first))
	for k, v := range first {
		if v2, ok := second[v]; ok {
			out[k] = v2
		} else {
			out[k] = v
		}
	}
	return out
}
