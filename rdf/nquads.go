package rdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rdf-proofs/rdfproofs-go/internal/common"
)

// these patterns follow the W3C N-Quads grammar closely enough for the
// credential and presentation documents this module produces and consumes;
// they do not attempt to support the full N-Quads corner cases (numeric
// escapes beyond \n \r \t \" \\, or non-ASCII IRI percent-decoding).
var (
	iriPattern     = `<([^>]*)>`
	blankPattern   = `_:([A-Za-z0-9_.\-]+)`
	literalPattern = `"((?:[^"\\]|\\.)*)"(?:\^\^<([^>]*)>|@([A-Za-z][A-Za-z0-9\-]*))?`
	termPattern    = "(?:" + iriPattern + "|" + blankPattern + "|" + literalPattern + ")"
)

// ParseNQuads parses N-Quads (or N-Triples, which is N-Quads with the graph
// term omitted) text into a Dataset. Blank lines and lines starting with '#'
// are skipped.
func ParseNQuads(text string) (Dataset, error) {
	var out Dataset
	for lineNo, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		triple, err := parseLine(trimmed)
		if err != nil {
			return nil, fmt.Errorf("rdf: parse line %d: %w", lineNo+1, err)
		}
		out = append(out, triple)
	}
	return out, nil
}

// group indices in a combined quad-line regex: the pattern would have, per term, 4 capture groups
// (iri, blank, literal-value, literal-datatype) plus one for language, i.e.
// 5 per full term; predicate only has the iri group (1). We parse
// term-by-term with a scanner instead of relying on the combined regex's
// group numbering, which grows unwieldy with four terms.
func parseLine(line string) (Triple, error) {
	line = strings.TrimSuffix(strings.TrimSpace(line), ".")
	line = strings.TrimSpace(line)

	terms, err := scanTerms(line)
	if err != nil {
		return Triple{}, err
	}
	if len(terms) < 3 || len(terms) > 4 {
		return Triple{}, fmt.Errorf("expected 3 or 4 terms, got %d: %q", len(terms), line)
	}

	t := Triple{Subject: terms[0], Predicate: terms[1], Object: terms[2]}
	if len(terms) == 4 {
		if terms[3].Kind != KindIRI {
			return Triple{}, fmt.Errorf("graph name must be an IRI: %q", line)
		}
		t.Graph = terms[3].Value
	}
	return t, nil
}

var termRe = regexp.MustCompile(`^` + termPattern)

func scanTerms(line string) ([]Term, error) {
	var terms []Term
	rest := line
	for {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			break
		}
		loc := termRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			if strings.HasPrefix(rest, "<<") {
				return nil, common.ErrRDFStarUnsupported
			}
			return nil, fmt.Errorf("could not parse term at %q", rest)
		}
		match := termRe.FindStringSubmatch(rest)
		term, err := termFromGroups(match)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
		rest = rest[loc[1]:]
	}
	return terms, nil
}

// termFromGroups maps termRe's submatches (iri, blank, literal-value,
// literal-datatype, literal-lang) onto a Term.
func termFromGroups(m []string) (Term, error) {
	switch {
	case strings.HasPrefix(m[0], "<"):
		return IRI(m[1]), nil
	case strings.HasPrefix(m[0], "_:"):
		return Blank(m[2]), nil
	case strings.HasPrefix(m[0], `"`):
		value := unescapeLiteral(m[3])
		switch {
		case m[5] != "":
			return LangLiteral(value, m[5]), nil
		case m[4] != "":
			return Literal(value, m[4]), nil
		default:
			return Literal(value, xsdString), nil
		}
	default:
		return Term{}, fmt.Errorf("unrecognized term: %q", m[0])
	}
}

// ParseTerm parses a single N-Triples term (an IRI, blank node, or literal)
// from its canonical string form, the inverse of Term.String.
func ParseTerm(s string) (Term, error) {
	s = strings.TrimSpace(s)
	match := termRe.FindStringSubmatch(s)
	if match == nil || len(match) == 0 || match[0] != s {
		return Term{}, fmt.Errorf("rdf: not a single term: %q", s)
	}
	return termFromGroups(match)
}

func unescapeLiteral(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
