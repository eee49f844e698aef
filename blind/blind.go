// Package blind implements two-party BBS+ blind issuance: a holder commits
// to a secret without revealing it, an issuer signs over the commitment plus
// whatever plaintext messages the credential carries, and the holder
// unblinds the result into an ordinary BBS+ signature.
package blind

import (
	"crypto/rand"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
)

// Request is what a holder sends to an issuer: a Pedersen commitment to the
// holder's secret and a NIZK proof of its opening. The holder's blinding
// factor is kept private (the Blinding field of Session) and is never sent.
type Request struct {
	Commitment bls12381.G1Affine
	T          bls12381.G1Affine
	RHat       *big.Int
	SHat       *big.Int
}

// Session is a Request bundled with the blinding factor only the holder
// knows, the analogue of the Rust original's BlindSigRequestWithBlinding.
type Session struct {
	Request  Request
	Blinding *big.Int
	Secret   *big.Int
}

// commitmentBases returns the two generators a 1-message public key (params(3):
// Q1, Q2, H_1) exposes for the blinding factor and the committed secret respectively —
// the same Q1, H_1 pair Sign's own B equation uses for its blinding scalar
// and first message slot.
func commitmentBases() (h0, h1 bls12381.G1Affine) {
	gens := bbs.Params(3)
	return gens[0], gens[2]
}

// NewRequest builds a blind-signature request for secretScalar (see
// encode.HashSecret). context binds the proof to the blind-signing protocol;
// nonce additionally binds it to a single issuer interaction when non-empty.
func NewRequest(rng io.Reader, secretScalar *big.Int, context, nonce []byte) (*Session, error) {
	if rng == nil {
		rng = rand.Reader
	}
	h0, h1 := commitmentBases()

	r, err := bbs.RandomScalar(rng)
	if err != nil {
		return nil, err
	}

	commitment, err := commit(h0, h1, r, secretScalar)
	if err != nil {
		return nil, err
	}

	rBlind, err := bbs.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	sBlind, err := bbs.RandomScalar(rng)
	if err != nil {
		return nil, err
	}

	t, err := commit(h0, h1, rBlind, sBlind)
	if err != nil {
		return nil, err
	}

	c := challenge(commitment, t, context, nonce)

	rHat := new(big.Int).Mul(r, c)
	rHat.Add(rHat, rBlind)
	rHat.Mod(rHat, bbs.Order)

	sHat := new(big.Int).Mul(secretScalar, c)
	sHat.Add(sHat, sBlind)
	sHat.Mod(sHat, bbs.Order)

	return &Session{
		Request:  Request{Commitment: commitment, T: t, RHat: rHat, SHat: sHat},
		Blinding: r,
		Secret:   secretScalar,
	}, nil
}

// VerifyRequest checks that req's proof of knowledge opens its commitment,
// without learning the opening itself.
func VerifyRequest(req Request, context, nonce []byte) error {
	h0, h1 := commitmentBases()

	c := challenge(req.Commitment, req.T, context, nonce)

	lhs, err := commit(h0, h1, req.RHat, req.SHat)
	if err != nil {
		return common.ErrProofVerify
	}

	rhs, err := combine(req.T, req.Commitment, c)
	if err != nil {
		return common.ErrProofVerify
	}

	if !bbs.AreG1PointsEqual([]bls12381.G1Affine{lhs}, []bls12381.G1Affine{rhs}) {
		return common.ErrProofVerify
	}
	return nil
}

// Issue signs over a verified commitment (the holder's hidden secret) plus
// messageCount-1 plaintext messages, producing a signature the holder alone
// can unblind.
func Issue(rng io.Reader, sk *bbs.PrivateKey, pk *bbs.PublicKey, req Request, uncommittedMessages map[int]*big.Int, header []byte) (*bbs.Signature, error) {
	return bbs.SignWithCommittedMessage(rng, sk, pk, req.Commitment, uncommittedMessages, header)
}

// Unblind combines an issuer's blinded signature with the holder's private
// blinding factor to produce a standard BBS+ signature over
// [secretScalar, uncommittedMessages...].
func Unblind(sig *bbs.Signature, session *Session) *bbs.Signature {
	sFinal := new(big.Int).Add(sig.S, session.Blinding)
	sFinal.Mod(sFinal, bbs.Order)
	return &bbs.Signature{A: sig.A, E: sig.E, S: sFinal}
}

// Verify checks an unblinded signature the ordinary way: Verify is BBS+
// Verify with the holder's secret scalar occupying slot 0.
func Verify(pk *bbs.PublicKey, sig *bbs.Signature, secretScalar *big.Int, uncommittedMessages []*big.Int, header []byte) error {
	messages := make([]*big.Int, 0, 1+len(uncommittedMessages))
	messages = append(messages, secretScalar)
	messages = append(messages, uncommittedMessages...)
	if err := bbs.Verify(pk, sig, messages, header); err != nil {
		return common.ErrInvalidSignature
	}
	return nil
}

func commit(h0, h1 bls12381.G1Affine, a, b *big.Int) (bls12381.G1Affine, error) {
	jac, err := bbs.MultiScalarMulG1([]bls12381.G1Affine{h0, h1}, []*big.Int{a, b})
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var affine bls12381.G1Affine
	affine.FromJacobian(&jac)
	return affine, nil
}

func combine(t, commitment bls12381.G1Affine, c *big.Int) (bls12381.G1Affine, error) {
	jac, err := bbs.MultiScalarMulG1([]bls12381.G1Affine{t, commitment}, []*big.Int{big.NewInt(1), c})
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var affine bls12381.G1Affine
	affine.FromJacobian(&jac)
	return affine, nil
}

func challenge(commitment, t bls12381.G1Affine, context, nonce []byte) *big.Int {
	var buf []byte
	buf = append(buf, commitment.Marshal()...)
	buf = append(buf, t.Marshal()...)
	buf = append(buf, context...)
	buf = append(buf, nonce...)
	scalar, err := bbs.HashToScalar(buf, []byte(common.MapToScalarAsHashDST))
	if err != nil {
		// HashToScalar only fails on a malformed DST; MapToScalarAsHashDST is
		// a fixed well-formed constant, so this path is unreachable.
		return big.NewInt(0)
	}
	return scalar
}
