package bbs

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func testMessages(t *testing.T, n int) []*big.Int {
	t.Helper()
	messages := make([]*big.Int, n)
	for i := range messages {
		fe := MessageToFieldElement([]byte{byte(i), byte(i * 7), byte(i * 13)})
		messages[i] = fe
	}
	return messages
}

func TestSignAndVerify(t *testing.T) {
	keyPair, err := GenerateKeyPair(5, rand.Reader)
	require.NoError(t, err)

	messages := testMessages(t, 5)

	sig, err := Sign(rand.Reader, keyPair.PrivateKey, keyPair.PublicKey, messages, nil)
	require.NoError(t, err)

	require.NoError(t, Verify(keyPair.PublicKey, sig, messages, nil))
}

func TestVerifyFailsOnTamperedMessage(t *testing.T) {
	keyPair, err := GenerateKeyPair(5, rand.Reader)
	require.NoError(t, err)

	messages := testMessages(t, 5)
	sig, err := Sign(rand.Reader, keyPair.PrivateKey, keyPair.PublicKey, messages, nil)
	require.NoError(t, err)

	messages[2] = new(big.Int).Add(messages[2], big.NewInt(1))
	require.ErrorIs(t, Verify(keyPair.PublicKey, sig, messages, nil), ErrInvalidSignature)
}

func TestProofOfKnowledgeRoundTrip(t *testing.T) {
	keyPair, err := GenerateKeyPair(5, rand.Reader)
	require.NoError(t, err)

	messages := testMessages(t, 5)
	sig, err := Sign(rand.Reader, keyPair.PrivateKey, keyPair.PublicKey, messages, nil)
	require.NoError(t, err)

	disclosed := []int{0, 2}
	proof, disclosedMessages, err := CreateProof(rand.Reader, keyPair.PublicKey, sig, messages, disclosed, nil, []byte("ctx"))
	require.NoError(t, err)

	require.NoError(t, VerifyProof(keyPair.PublicKey, proof, disclosedMessages, nil, []byte("ctx")))
}

func TestProofOfKnowledgeFailsOnContextMismatch(t *testing.T) {
	keyPair, err := GenerateKeyPair(5, rand.Reader)
	require.NoError(t, err)

	messages := testMessages(t, 5)
	sig, err := Sign(rand.Reader, keyPair.PrivateKey, keyPair.PublicKey, messages, nil)
	require.NoError(t, err)

	proof, disclosedMessages, err := CreateProof(rand.Reader, keyPair.PublicKey, sig, messages, []int{1}, nil, []byte("ctx-a"))
	require.NoError(t, err)

	require.Error(t, VerifyProof(keyPair.PublicKey, proof, disclosedMessages, nil, []byte("ctx-b")))
}

func TestParamsIsDeterministic(t *testing.T) {
	a := Params(7)
	b := Params(7)
	require.True(t, AreG1PointsEqual(a, b))
}

func TestMessageToFieldElement(t *testing.T) {
	tests := []struct {
		message string
	}{
		{"Hello, world!"},
		{""},
		{"This is a longer message with some numbers: 123456789"},
	}

	for _, test := range tests {
		msgBytes := MessageToBytes(test.message)
		fe1 := MessageToFieldElement(msgBytes)
		fe2 := MessageToFieldElement(msgBytes)

		if fe1.Cmp(fe2) != 0 {
			t.Errorf("Message conversion not deterministic for %q", test.message)
		}
		if fe1.Cmp(Order) >= 0 {
			t.Errorf("Field element %v is not less than the order", fe1)
		}
	}
}

func TestHashToScalarDeterministic(t *testing.T) {
	dst := []byte("TEST_DST")
	a, err := HashToScalar([]byte("hello"), dst)
	require.NoError(t, err)
	b, err := HashToScalar([]byte("hello"), dst)
	require.NoError(t, err)
	require.Equal(t, 0, a.Cmp(b))
}
