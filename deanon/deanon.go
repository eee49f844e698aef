// Package deanon composes the blank-node and placeholder relabelings a
// presentation builder applies on top of a holder's own disclosure map, so
// that a term hidden at the same deanonymized identifier in two or more
// credentials is recognized as one equality, not several.
package deanon

import (
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
	"github.com/rdf-proofs/rdfproofs-go/rdf"
)

// Map is keyed by a canonical term string (rdf.Term.String()) and resolves a
// placeholder term — typically a blank node standing in for a hidden value —
// to the concrete term it denotes in the original credential.
type Map map[string]rdf.Term

// Resolve looks up t's deanonymized value; if t has no entry, t is returned
// unchanged (most terms are not hidden).
func (m Map) Resolve(t rdf.Term) rdf.Term {
	if resolved, ok := m[t.String()]; ok {
		return resolved
	}
	return t
}

// Compose returns a new map applying m first, then next: for every key in m,
// the new value is next.Resolve(m[key]). Pure — neither input is mutated.
func Compose(m, next Map) Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = next.Resolve(v)
	}
	return out
}

// Extend returns a copy of m with the draft-canon and original-canon blank
// node relabelings folded in: keys are rewritten through draftRelabel (the
// labels a presentation draft's own canonicalization assigned) and values
// are rewritten through originalRelabel (the labels the original credential's
// canonicalization assigned), so that m's entries can be matched against
// both sides of a disclosed statement regardless of which canonicalization
// pass produced which label.
func Extend(m Map, draftRelabel, originalRelabel map[string]string) Map {
	out := make(Map, len(m))
	for k, v := range m {
		newKey := rewriteKey(k, draftRelabel)
		newValue := v
		if v.IsBlank() {
			if relabeled, ok := originalRelabel[v.Value]; ok {
				newValue = rdf.Blank(relabeled)
			}
		}
		out[newKey] = newValue
	}
	return out
}

func rewriteKey(key string, relabel map[string]string) string {
	term, err := rdf.ParseTerm(key)
	if err != nil {
		return key
	}
	return rdf.ApplyRelabeling(rdf.Dataset{{Subject: term}}, relabel)[0].Subject.String()
}

// Validate checks that every value in m resolves to a term that could
// legally occupy its key's role: a hidden literal can never stand in for a
// subject or predicate placeholder.
func Validate(m Map, role func(key string) (isSubjectOrPredicate bool)) error {
	for k, v := range m {
		if role(k) && v.Kind == rdf.KindLiteral {
			return common.ErrHiddenLiteralRole
		}
	}
	return nil
}

// ErrDeAnonymization is returned when a disclosed statement cannot be traced
// back to any statement in the original credential via m.
var ErrDeAnonymization = common.ErrDisclosedVCIsNotSubsetOfOriginalVC

// ErrBlankNodeCollision is returned when extending m would make two distinct
// original blank nodes collide under the draft's canonical labelling.
var ErrBlankNodeCollision = common.ErrBlankNodeCollision
