package compose

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	secret, err := bbs.RandomScalar(rand.Reader)
	require.NoError(t, err)
	credIn, credVerify := boundCredential(t, secret, []*big.Int{big.NewInt(41)}, nil)
	domainBase := bbs.Params(1)[0]

	spec := Spec{Credentials: []CredentialInput{credIn}, PPID: &PPIDInput{Base: domainBase}, SecretCommitment: &SecretCommitmentInput{}}
	proof, err := Prove(rand.Reader, spec, secret, []byte("ctx"))
	require.NoError(t, err)

	data, err := Marshal(proof)
	require.NoError(t, err)

	restored, err := Unmarshal(data)
	require.NoError(t, err)

	verifySpec := VerifySpec{
		Credentials:      []VerifyCredentialInput{credVerify},
		PPID:             &VerifyPPIDInput{Base: domainBase},
		SecretCommitment: true,
	}
	require.NoError(t, Verify(verifySpec, restored, []byte("ctx")))
}
