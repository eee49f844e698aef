package rdf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAndSerializeRoundTrip(t *testing.T) {
	input := `<http://example.org/s> <http://example.org/p> "hello"@en .
_:b0 <http://example.org/knows> <http://example.org/o> .
<http://example.org/s> <http://example.org/count> "3"^^<http://www.w3.org/2001/XMLSchema#integer> .
`
	ds, err := ParseNQuads(input)
	require.NoError(t, err)
	require.Len(t, ds, 3)

	require.Equal(t, KindLiteral, ds[0].Object.Kind)
	require.Equal(t, "en", ds[0].Object.Language)
	require.True(t, ds[1].Subject.IsBlank())
	require.Equal(t, "b0", ds[1].Subject.Value)
	require.Equal(t, "http://www.w3.org/2001/XMLSchema#integer", ds[2].Object.Datatype)

	reparsed, err := ParseNQuads(ds.NQuads())
	require.NoError(t, err)
	require.Equal(t, ds, reparsed)
}

func TestParseNQuadsWithGraphLabel(t *testing.T) {
	input := `<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .`
	ds, err := ParseNQuads(input)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	require.Equal(t, "http://example.org/g", ds[0].Graph)
}

func TestDeriveRelabelingUnifiesConsistently(t *testing.T) {
	original := Dataset{
		{Subject: Blank("a"), Predicate: IRI("urn:name"), Object: Literal("Alice", xsdString)},
		{Subject: Blank("a"), Predicate: IRI("urn:knows"), Object: Blank("b")},
		{Subject: Blank("b"), Predicate: IRI("urn:name"), Object: Literal("Bob", xsdString)},
	}
	canonical := Dataset{
		{Subject: Blank("c14n1"), Predicate: IRI("urn:name"), Object: Literal("Bob", xsdString)},
		{Subject: Blank("c14n0"), Predicate: IRI("urn:name"), Object: Literal("Alice", xsdString)},
		{Subject: Blank("c14n0"), Predicate: IRI("urn:knows"), Object: Blank("c14n1")},
	}

	mapping, err := deriveRelabeling(original, canonical)
	require.NoError(t, err)
	require.Equal(t, "c14n0", mapping["a"])
	require.Equal(t, "c14n1", mapping["b"])

	relabeled := ApplyRelabeling(original, mapping)
	require.ElementsMatch(t, canonical, relabeled)
}

func TestComposeRelabeling(t *testing.T) {
	first := map[string]string{"a": "x", "b": "y"}
	second := map[string]string{"x": "1", "y": "2"}
	composed := ComposeRelabeling(first, second)
	require.Equal(t, "1", composed["a"])
	require.Equal(t, "2", composed["b"])
}
