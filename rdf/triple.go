package rdf

// Triple is a single (subject, predicate, object) RDF statement, optionally
// scoped to a named graph (Graph == "" means the default graph).
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     string
}

// String renders t in N-Quads syntax (N-Triples if Graph is empty).
func (t Triple) String() string {
	s := t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String()
	if t.Graph != "" {
		s += " <" + t.Graph + ">"
	}
	return s + " ."
}

// Dataset is an ordered collection of triples, the in-memory form shared by
// credential documents, proof configurations, and verifiable presentation
// drafts. Order is preserved on parse but carries no semantic meaning until
// Canonicalize has been applied.
type Dataset []Triple

// Clone returns a deep-enough copy (Triples are value types, so a slice copy
// suffices) for callers that mutate a dataset without disturbing the caller's copy.
func (d Dataset) Clone() Dataset {
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}

// NQuads renders the dataset as N-Quads text, one statement per line, in the
// dataset's current order. Callers that need a canonical byte string must
// run the dataset through Canonicalizer.Canonicalize first.
func (d Dataset) NQuads() string {
	var out []byte
	for _, t := range d {
		out = append(out, t.String()...)
		out = append(out, '\n')
	}
	return string(out)
}

// Subjects returns the distinct subject terms appearing in d, in first-seen order.
func (d Dataset) Subjects() []Term {
	seen := make(map[Term]bool)
	var out []Term
	for _, t := range d {
		if !seen[t.Subject] {
			seen[t.Subject] = true
			out = append(out, t.Subject)
		}
	}
	return out
}

// WithSubject returns the triples whose subject equals s.
func (d Dataset) WithSubject(s Term) Dataset {
	var out Dataset
	for _, t := range d {
		if t.Subject == s {
			out = append(out, t)
		}
	}
	return out
}

// WithPredicate returns the triples whose predicate equals p.
func (d Dataset) WithPredicate(p Term) Dataset {
	var out Dataset
	for _, t := range d {
		if t.Predicate == p {
			out = append(out, t)
		}
	}
	return out
}
