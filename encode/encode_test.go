package encode

import (
	"testing"

	"github.com/rdf-proofs/rdfproofs-go/rdf"
	"github.com/stretchr/testify/require"
)

func sampleDoc() rdf.Dataset {
	return rdf.Dataset{
		{Subject: rdf.IRI("did:example:john"), Predicate: rdf.IRI("urn:type"), Object: rdf.IRI("urn:Person")},
		{Subject: rdf.IRI("did:example:john"), Predicate: rdf.IRI("urn:name"), Object: rdf.Literal("John", "")},
	}
}

func sampleProof() rdf.Dataset {
	return rdf.Dataset{
		{Subject: rdf.Blank("proof"), Predicate: rdf.IRI("urn:cryptosuite"), Object: rdf.Literal("bbs-termwise-signature-2023", "")},
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	canon := rdf.NewCanonicalizer()
	doc := sampleDoc()
	proof := sampleProof()

	m1, err := Encode(canon, doc, proof, SecretSlotUnbound())
	require.NoError(t, err)
	m2, err := Encode(canon, doc, proof, SecretSlotUnbound())
	require.NoError(t, err)

	require.Equal(t, len(m1), len(m2))
	for i := range m1 {
		require.Equal(t, 0, m1[i].Cmp(m2[i]))
	}
	require.Equal(t, MessageCount(len(doc), len(proof)), len(m1))
}

func TestEncodeSecretSlotIsFirst(t *testing.T) {
	canon := rdf.NewCanonicalizer()
	secret, err := HashSecret([]byte("SECRET"))
	require.NoError(t, err)

	messages, err := Encode(canon, sampleDoc(), sampleProof(), secret)
	require.NoError(t, err)
	require.Equal(t, 0, messages[0].Cmp(secret))
}

func TestEncodeChangesWhenDocumentChanges(t *testing.T) {
	canon := rdf.NewCanonicalizer()
	doc := sampleDoc()
	proof := sampleProof()

	base, err := Encode(canon, doc, proof, SecretSlotUnbound())
	require.NoError(t, err)

	tampered := doc.Clone()
	tampered[1].Object = rdf.Literal("Jane", "")
	changed, err := Encode(canon, tampered, proof, SecretSlotUnbound())
	require.NoError(t, err)

	require.NotEqual(t, len(base), 0)
	differs := false
	for i := range base {
		if base[i].Cmp(changed[i]) != 0 {
			differs = true
			break
		}
	}
	require.True(t, differs)
}

func TestDelimiterIsStableAcrossCalls(t *testing.T) {
	d1, err := Delimiter()
	require.NoError(t, err)
	d2, err := Delimiter()
	require.NoError(t, err)
	require.Equal(t, 0, d1.Cmp(d2))
}
