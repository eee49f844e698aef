package blind

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
	"github.com/stretchr/testify/require"
)

var testContext = []byte(common.BlindSigRequestContext)

func TestRequestVerifyRoundTrip(t *testing.T) {
	secret, err := bbs.HashToScalar([]byte("SECRET"), []byte(common.MapToScalarAsHashDST))
	require.NoError(t, err)

	session, err := NewRequest(rand.Reader, secret, testContext, []byte("NONCE"))
	require.NoError(t, err)

	require.NoError(t, VerifyRequest(session.Request, testContext, []byte("NONCE")))
}

func TestVerifyRequestFailsOnNonceMismatch(t *testing.T) {
	secret, err := bbs.HashToScalar([]byte("SECRET"), []byte(common.MapToScalarAsHashDST))
	require.NoError(t, err)

	session, err := NewRequest(rand.Reader, secret, testContext, []byte("NONCE"))
	require.NoError(t, err)

	err = VerifyRequest(session.Request, testContext, []byte("OTHER-NONCE"))
	require.ErrorIs(t, err, common.ErrProofVerify)
}

func TestIssueUnblindVerifyRoundTrip(t *testing.T) {
	const plaintextCount = 2
	kp, err := bbs.GenerateKeyPair(plaintextCount+1, rand.Reader)
	require.NoError(t, err)

	secret, err := bbs.HashToScalar([]byte("SECRET"), []byte(common.MapToScalarAsHashDST))
	require.NoError(t, err)

	session, err := NewRequest(rand.Reader, secret, testContext, nil)
	require.NoError(t, err)
	require.NoError(t, VerifyRequest(session.Request, testContext, nil))

	uncommitted := map[int]*big.Int{
		1: big.NewInt(42),
		2: big.NewInt(7),
	}
	blindedSig, err := Issue(rand.Reader, kp.PrivateKey, kp.PublicKey, session.Request, uncommitted, nil)
	require.NoError(t, err)

	sig := Unblind(blindedSig, session)

	require.NoError(t, Verify(kp.PublicKey, sig, secret, []*big.Int{uncommitted[1], uncommitted[2]}, nil))
}

func TestVerifyFailsWithWrongSecret(t *testing.T) {
	const plaintextCount = 1
	kp, err := bbs.GenerateKeyPair(plaintextCount+1, rand.Reader)
	require.NoError(t, err)

	secret, err := bbs.HashToScalar([]byte("SECRET"), []byte(common.MapToScalarAsHashDST))
	require.NoError(t, err)

	session, err := NewRequest(rand.Reader, secret, testContext, nil)
	require.NoError(t, err)

	uncommitted := map[int]*big.Int{1: big.NewInt(1)}
	blindedSig, err := Issue(rand.Reader, kp.PrivateKey, kp.PublicKey, session.Request, uncommitted, nil)
	require.NoError(t, err)

	sig := Unblind(blindedSig, session)

	wrongSecret, err := bbs.HashToScalar([]byte("WRONG"), []byte(common.MapToScalarAsHashDST))
	require.NoError(t, err)

	err = Verify(kp.PublicKey, sig, wrongSecret, []*big.Int{uncommitted[1]}, nil)
	require.ErrorIs(t, err, common.ErrInvalidSignature)
}
