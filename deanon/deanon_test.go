package deanon

import (
	"testing"

	"github.com/rdf-proofs/rdfproofs-go/rdf"
	"github.com/stretchr/testify/require"
)

func TestResolveReturnsMappedTerm(t *testing.T) {
	m := Map{
		rdf.Blank("e0").String(): rdf.Literal("secret-value", ""),
	}
	require.Equal(t, rdf.Literal("secret-value", ""), m.Resolve(rdf.Blank("e0")))
	require.Equal(t, rdf.IRI("urn:unmapped"), m.Resolve(rdf.IRI("urn:unmapped")))
}

func TestComposeChainsTwoMaps(t *testing.T) {
	first := Map{rdf.Blank("e0").String(): rdf.Blank("b1")}
	second := Map{rdf.Blank("b1").String(): rdf.Literal("final", "")}

	composed := Compose(first, second)
	require.Equal(t, rdf.Literal("final", ""), composed.Resolve(rdf.Blank("e0")))
}

func TestExtendRewritesKeysAndBlankValues(t *testing.T) {
	m := Map{
		rdf.Blank("e0").String(): rdf.Blank("orig0"),
	}
	draftRelabel := map[string]string{"e0": "c14n5"}
	originalRelabel := map[string]string{"orig0": "c14n9"}

	extended := Extend(m, draftRelabel, originalRelabel)
	require.Equal(t, rdf.Blank("c14n9"), extended[rdf.Blank("c14n5").String()])
}
