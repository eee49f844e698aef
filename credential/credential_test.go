package credential

import (
	"crypto/rand"
	"testing"

	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/keygraph"
	"github.com/rdf-proofs/rdfproofs-go/rdf"
	"github.com/rdf-proofs/rdfproofs-go/vocab"
	"github.com/stretchr/testify/require"
)

const testVM = "did:example:issuer0#bls12_381-g2-pub001"

func testKeyGraph(t *testing.T) *keygraph.Graph {
	t.Helper()
	kp, err := bbs.GenerateKeyPair(1, rand.Reader)
	require.NoError(t, err)
	keys := keygraph.New()
	keys.Add(testVM, keygraph.Entry{PublicKey: kp.PublicKey, PrivateKey: kp.PrivateKey})
	return keys
}

func testDoc() rdf.Dataset {
	return rdf.Dataset{
		{Subject: rdf.IRI("did:example:john"), Predicate: rdf.IRI(vocab.RDFType), Object: rdf.IRI("https://example.org/Person")},
		{Subject: rdf.IRI("did:example:john"), Predicate: rdf.IRI("https://example.org/name"), Object: rdf.Literal("John", "")},
	}
}

func testProofConfig() rdf.Dataset {
	node := rdf.Blank("proof")
	return rdf.Dataset{
		{Subject: node, Predicate: rdf.IRI(vocab.RDFType), Object: rdf.IRI(vocab.DataIntegrityProof)},
		{Subject: node, Predicate: rdf.IRI(vocab.CryptosuiteProperty), Object: rdf.Literal(CryptosuiteSign, "")},
		{Subject: node, Predicate: rdf.IRI(vocab.CreatedProperty), Object: rdf.Literal("2024-01-01T00:00:00Z", vocab.XSDDateTime)},
		{Subject: node, Predicate: rdf.IRI(vocab.VerificationMethod), Object: rdf.IRI(testVM)},
	}
}

func TestSignAndVerify(t *testing.T) {
	keys := testKeyGraph(t)
	canon := rdf.NewCanonicalizer()

	signedProof, err := Sign(rand.Reader, canon, testDoc(), testProofConfig(), keys)
	require.NoError(t, err)

	require.NoError(t, Verify(canon, testDoc(), signedProof, keys))
}

func TestVerifyFailsOnTamperedDocument(t *testing.T) {
	keys := testKeyGraph(t)
	canon := rdf.NewCanonicalizer()

	signedProof, err := Sign(rand.Reader, canon, testDoc(), testProofConfig(), keys)
	require.NoError(t, err)

	tampered := testDoc()
	tampered[1].Object = rdf.Literal("Jane", "")

	require.Error(t, Verify(canon, tampered, signedProof, keys))
}

func TestSignRejectsWrongCryptosuite(t *testing.T) {
	keys := testKeyGraph(t)
	canon := rdf.NewCanonicalizer()

	badProof := testProofConfig()
	for i, t2 := range badProof {
		if t2.Predicate == rdf.IRI(vocab.CryptosuiteProperty) {
			badProof[i].Object = rdf.Literal("not-a-real-cryptosuite", "")
		}
	}

	_, err := Sign(rand.Reader, canon, testDoc(), badProof, keys)
	require.Error(t, err)
}

func TestSignRejectsUnresolvableVerificationMethod(t *testing.T) {
	keys := keygraph.New() // empty
	canon := rdf.NewCanonicalizer()

	_, err := Sign(rand.Reader, canon, testDoc(), testProofConfig(), keys)
	require.Error(t, err)
}
