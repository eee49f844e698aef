package keygraph

import (
	"crypto/rand"
	"testing"

	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
	"github.com/stretchr/testify/require"
)

func TestResolveUnknownVerificationMethod(t *testing.T) {
	g := New()
	_, err := g.Resolve("did:example:issuer0#bls12_381-g2-pub001")
	require.ErrorIs(t, err, common.ErrInvalidVerificationMethodURL)
}

func TestResolveRejectsMalformedIRI(t *testing.T) {
	g := New()
	_, err := g.Resolve("not an iri")
	require.ErrorIs(t, err, common.ErrInvalidVerificationMethodURL)
}

func TestResolveReturnsRegisteredKey(t *testing.T) {
	kp, err := bbs.GenerateKeyPair(5, rand.Reader)
	require.NoError(t, err)

	g := New()
	vm := "did:example:issuer0#bls12_381-g2-pub001"
	g.Add(vm, Entry{PublicKey: kp.PublicKey, PrivateKey: kp.PrivateKey})

	entry, err := g.Resolve(vm)
	require.NoError(t, err)
	require.Equal(t, Bls12381G2, entry.KeyType)
	require.NotNil(t, entry.PrivateKey)
}

func TestResolveRejectsWrongKeyType(t *testing.T) {
	g := New()
	vm := "did:example:issuer0#other-key"
	g.Add(vm, Entry{KeyType: "SomeOtherKeyType2020"})
	_, err := g.Resolve(vm)
	require.ErrorIs(t, err, common.ErrInvalidPublicKey)
}
