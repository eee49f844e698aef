package elgamal

import (
	"crypto/rand"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/stretchr/testify/require"
)

func TestEncryptVerifyDecryptRoundTrip(t *testing.T) {
	sk, pk, err := GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	secret, err := bbs.RandomScalar(rand.Reader)
	require.NoError(t, err)

	context := []byte("presentation-context")

	ciphertext, proof, err := Encrypt(rand.Reader, pk, secret, context)
	require.NoError(t, err)
	require.NoError(t, Verify(pk, ciphertext, proof, context))

	recovered, err := Decrypt(sk, ciphertext)
	require.NoError(t, err)

	expected, err := scalarMulBase(SecretBase(), secret)
	require.NoError(t, err)
	require.True(t, bbs.AreG1PointsEqual([]bls12381.G1Affine{recovered}, []bls12381.G1Affine{expected}))
}

func TestVerifyFailsOnMismatchedContext(t *testing.T) {
	_, pk, err := GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	secret, err := bbs.RandomScalar(rand.Reader)
	require.NoError(t, err)

	ciphertext, proof, err := Encrypt(rand.Reader, pk, secret, []byte("ctx-a"))
	require.NoError(t, err)

	require.Error(t, Verify(pk, ciphertext, proof, []byte("ctx-b")))
}

func TestVerifyFailsOnTamperedCiphertext(t *testing.T) {
	_, pk, err := GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	secret, err := bbs.RandomScalar(rand.Reader)
	require.NoError(t, err)
	context := []byte("ctx")

	ciphertext, proof, err := Encrypt(rand.Reader, pk, secret, context)
	require.NoError(t, err)

	other, err := bbs.RandomScalar(rand.Reader)
	require.NoError(t, err)
	tampered, err := scalarMulBase(Base(), other)
	require.NoError(t, err)
	ciphertext.C1 = tampered

	require.Error(t, Verify(pk, ciphertext, proof, context))
}

func TestDecryptRecoversDistinctSecretsDistinctly(t *testing.T) {
	sk, pk, err := GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	secretA, err := bbs.RandomScalar(rand.Reader)
	require.NoError(t, err)
	secretB, err := bbs.RandomScalar(rand.Reader)
	require.NoError(t, err)
	require.NotEqual(t, 0, secretA.Cmp(secretB))

	ctA, _, err := Encrypt(rand.Reader, pk, secretA, []byte("ctx"))
	require.NoError(t, err)
	ctB, _, err := Encrypt(rand.Reader, pk, secretB, []byte("ctx"))
	require.NoError(t, err)

	ptA, err := Decrypt(sk, ctA)
	require.NoError(t, err)
	ptB, err := Decrypt(sk, ctB)
	require.NoError(t, err)

	require.False(t, bbs.AreG1PointsEqual([]bls12381.G1Affine{ptA}, []bls12381.G1Affine{ptB}))
}
