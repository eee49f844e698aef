package compose

import (
	"crypto/rand"
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/elgamal"
	"github.com/rdf-proofs/rdfproofs-go/predicate"
	"github.com/stretchr/testify/require"
)

func boundCredential(t *testing.T, secret *big.Int, plaintext []*big.Int, disclosedIndices []int) (CredentialInput, VerifyCredentialInput) {
	t.Helper()
	base, err := bbs.GenerateKeyPair(len(plaintext)+1, rand.Reader)
	require.NoError(t, err)

	messages := append([]*big.Int{secret}, plaintext...)
	sig, err := bbs.Sign(rand.Reader, base.PrivateKey, base.PublicKey, messages, nil)
	require.NoError(t, err)

	return CredentialInput{
			PublicKey:        base.PublicKey,
			Signature:        sig,
			Messages:         messages,
			DisclosedIndices: disclosedIndices,
			Bound:            true,
		}, VerifyCredentialInput{
			PublicKey: base.PublicKey,
			Bound:     true,
		}
}

func TestComposeSingleBoundCredentialWithPPID(t *testing.T) {
	secret, err := bbs.RandomScalar(rand.Reader)
	require.NoError(t, err)

	credIn, credVerify := boundCredential(t, secret, []*big.Int{big.NewInt(7), big.NewInt(8)}, []int{1})

	domainBase := bbs.Params(1)[0]
	context := []byte("presentation-1")

	spec := Spec{
		Credentials: []CredentialInput{credIn},
		PPID:        &PPIDInput{Base: domainBase},
	}

	proof, err := Prove(rand.Reader, spec, secret, context)
	require.NoError(t, err)

	verifySpec := VerifySpec{
		Credentials: []VerifyCredentialInput{credVerify},
		PPID:        &VerifyPPIDInput{Base: domainBase},
	}
	require.NoError(t, Verify(verifySpec, proof, context))
}

func TestComposePPIDIsStableAcrossPresentationsSameSecret(t *testing.T) {
	secret, err := bbs.RandomScalar(rand.Reader)
	require.NoError(t, err)
	domainBase := bbs.Params(1)[0]

	credIn1, credVerify1 := boundCredential(t, secret, []*big.Int{big.NewInt(1)}, nil)
	proof1, err := Prove(rand.Reader, Spec{Credentials: []CredentialInput{credIn1}, PPID: &PPIDInput{Base: domainBase}}, secret, []byte("ctx-a"))
	require.NoError(t, err)
	require.NoError(t, Verify(VerifySpec{Credentials: []VerifyCredentialInput{credVerify1}, PPID: &VerifyPPIDInput{Base: domainBase}}, proof1, []byte("ctx-a")))

	credIn2, credVerify2 := boundCredential(t, secret, []*big.Int{big.NewInt(2)}, nil)
	proof2, err := Prove(rand.Reader, Spec{Credentials: []CredentialInput{credIn2}, PPID: &PPIDInput{Base: domainBase}}, secret, []byte("ctx-b"))
	require.NoError(t, err)
	require.NoError(t, Verify(VerifySpec{Credentials: []VerifyCredentialInput{credVerify2}, PPID: &VerifyPPIDInput{Base: domainBase}}, proof2, []byte("ctx-b")))

	require.True(t, bbs.AreG1PointsEqual([]bls12381.G1Affine{*proof1.PPID}, []bls12381.G1Affine{*proof2.PPID}))
}

func TestComposeSecretCommitmentLinksToBoundCredential(t *testing.T) {
	secret, err := bbs.RandomScalar(rand.Reader)
	require.NoError(t, err)
	credIn, credVerify := boundCredential(t, secret, []*big.Int{big.NewInt(3)}, nil)

	spec := Spec{Credentials: []CredentialInput{credIn}, SecretCommitment: &SecretCommitmentInput{}}
	proof, err := Prove(rand.Reader, spec, secret, []byte("ctx"))
	require.NoError(t, err)

	verifySpec := VerifySpec{Credentials: []VerifyCredentialInput{credVerify}, SecretCommitment: true}
	require.NoError(t, Verify(verifySpec, proof, []byte("ctx")))
}

func TestComposeFailsWhenSecretDiffersAcrossStatements(t *testing.T) {
	secret, err := bbs.RandomScalar(rand.Reader)
	require.NoError(t, err)
	wrongSecret, err := bbs.RandomScalar(rand.Reader)
	require.NoError(t, err)

	credIn, credVerify := boundCredential(t, secret, []*big.Int{big.NewInt(1)}, nil)
	domainBase := bbs.Params(1)[0]

	spec := Spec{Credentials: []CredentialInput{credIn}, PPID: &PPIDInput{Base: domainBase}}
	proof, err := Prove(rand.Reader, spec, wrongSecret, []byte("ctx"))
	require.NoError(t, err)

	verifySpec := VerifySpec{Credentials: []VerifyCredentialInput{credVerify}, PPID: &VerifyPPIDInput{Base: domainBase}}
	err = Verify(verifySpec, proof, []byte("ctx"))
	require.Error(t, err)
}

func TestComposeTermEqualityAcrossCredentials(t *testing.T) {
	sharedValue := big.NewInt(99)

	base1, err := bbs.GenerateKeyPair(3, rand.Reader)
	require.NoError(t, err)
	messages1 := []*big.Int{big.NewInt(1), sharedValue, big.NewInt(3)}
	sig1, err := bbs.Sign(rand.Reader, base1.PrivateKey, base1.PublicKey, messages1, nil)
	require.NoError(t, err)

	base2, err := bbs.GenerateKeyPair(2, rand.Reader)
	require.NoError(t, err)
	messages2 := []*big.Int{sharedValue, big.NewInt(5)}
	sig2, err := bbs.Sign(rand.Reader, base2.PrivateKey, base2.PublicKey, messages2, nil)
	require.NoError(t, err)

	spec := Spec{
		Credentials: []CredentialInput{
			{PublicKey: base1.PublicKey, Signature: sig1, Messages: messages1, DisclosedIndices: []int{0, 2}},
			{PublicKey: base2.PublicKey, Signature: sig2, Messages: messages2, DisclosedIndices: []int{1}},
		},
		EqualityGroups: [][]EqualityRef{
			{{CredentialIndex: 0, MessageIndex: 1}, {CredentialIndex: 1, MessageIndex: 0}},
		},
	}
	proof, err := Prove(rand.Reader, spec, nil, []byte("ctx"))
	require.NoError(t, err)

	verifySpec := VerifySpec{
		Credentials: []VerifyCredentialInput{
			{PublicKey: base1.PublicKey},
			{PublicKey: base2.PublicKey},
		},
		EqualityGroups: [][]EqualityRef{
			{{CredentialIndex: 0, MessageIndex: 1}, {CredentialIndex: 1, MessageIndex: 0}},
		},
	}
	require.NoError(t, Verify(verifySpec, proof, []byte("ctx")))
}

func TestComposeTermEqualityFailsWhenValuesDiffer(t *testing.T) {
	base1, err := bbs.GenerateKeyPair(2, rand.Reader)
	require.NoError(t, err)
	messages1 := []*big.Int{big.NewInt(1), big.NewInt(2)}
	sig1, err := bbs.Sign(rand.Reader, base1.PrivateKey, base1.PublicKey, messages1, nil)
	require.NoError(t, err)

	base2, err := bbs.GenerateKeyPair(2, rand.Reader)
	require.NoError(t, err)
	messages2 := []*big.Int{big.NewInt(3), big.NewInt(4)}
	sig2, err := bbs.Sign(rand.Reader, base2.PrivateKey, base2.PublicKey, messages2, nil)
	require.NoError(t, err)

	spec := Spec{
		Credentials: []CredentialInput{
			{PublicKey: base1.PublicKey, Signature: sig1, Messages: messages1},
			{PublicKey: base2.PublicKey, Signature: sig2, Messages: messages2},
		},
		EqualityGroups: [][]EqualityRef{
			{{CredentialIndex: 0, MessageIndex: 0}, {CredentialIndex: 1, MessageIndex: 0}},
		},
	}
	proof, err := Prove(rand.Reader, spec, nil, []byte("ctx"))
	require.NoError(t, err)

	verifySpec := VerifySpec{
		Credentials: []VerifyCredentialInput{
			{PublicKey: base1.PublicKey},
			{PublicKey: base2.PublicKey},
		},
		EqualityGroups: [][]EqualityRef{
			{{CredentialIndex: 0, MessageIndex: 0}, {CredentialIndex: 1, MessageIndex: 0}},
		},
	}
	require.Error(t, Verify(verifySpec, proof, []byte("ctx")))
}

func TestComposeWithEncryptionAndPredicate(t *testing.T) {
	secret, err := bbs.RandomScalar(rand.Reader)
	require.NoError(t, err)
	credIn, credVerify := boundCredential(t, secret, []*big.Int{big.NewInt(9)}, nil)

	_, openerPK, err := elgamal.GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	compiled, err := predicate.Compile(predicate.LessThan)
	require.NoError(t, err)
	value := big.NewInt(10)
	blinding := big.NewInt(20)
	commitment, err := predicate.CommitmentHash(value, blinding)
	require.NoError(t, err)
	assignment := predicate.Assignment{Value: value, Blinding: blinding, CommitmentHash: commitment, Bound: big.NewInt(30)}

	spec := Spec{
		Credentials: []CredentialInput{credIn},
		Encryption:  &EncryptionInput{OpenerPublicKey: openerPK},
		Predicates:  []PredicateInput{{Compiled: compiled, Assignment: assignment}},
	}
	proof, err := Prove(rand.Reader, spec, secret, []byte("ctx"))
	require.NoError(t, err)

	verifySpec := VerifySpec{
		Credentials: []VerifyCredentialInput{credVerify},
		Encryption:  &VerifyEncryptionInput{OpenerPublicKey: openerPK},
		Predicates:  []VerifyPredicateInput{{Compiled: compiled}},
	}
	require.NoError(t, Verify(verifySpec, proof, []byte("ctx")))
}
