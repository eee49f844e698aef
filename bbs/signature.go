package bbs

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// Sign creates a BBS+ signature over messages.
func Sign(rng io.Reader, sk *PrivateKey, pk *PublicKey, messages []*big.Int, header []byte) (*Signature, error) {
	if rng == nil {
		rng = rand.Reader
	}
	if len(messages) != pk.MessageCount {
		return nil, ErrInvalidMessageCount
	}

	domain := CalculateDomain(pk, header)

	e, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random value e: %w", err)
	}
	s, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random value s: %w", err)
	}

	B, err := computeB(pk, s, domain, messages)
	if err != nil {
		return nil, err
	}

	A, err := exponentiateByInverse(B, sk.X, e)
	if err != nil {
		return nil, err
	}

	return &Signature{A: A, E: e, S: s}, nil
}

// Verify checks a BBS+ signature over messages.
func Verify(pk *PublicKey, signature *Signature, messages []*big.Int, header []byte) error {
	if len(messages) != pk.MessageCount {
		return ErrInvalidMessageCount
	}

	domain := CalculateDomain(pk, header)

	B, err := computeB(pk, signature.S, domain, messages)
	if err != nil {
		return err
	}

	wg2eJac := bls12381.G2Jac{}
	wg2eJac.FromAffine(&pk.W)

	g2eJac := bls12381.G2Jac{}
	g2eJac.FromAffine(&pk.G2)
	g2eJac.ScalarMultiplication(&g2eJac, signature.E)
	wg2eJac.AddAssign(&g2eJac)

	wg2e := g2JacToAffine(wg2eJac)

	negG2Jac := bls12381.G2Jac{}
	negG2Jac.FromAffine(&pk.G2)
	negG2Jac.Neg(&negG2Jac)
	negG2 := g2JacToAffine(negG2Jac)

	pairingResult, err := bls12381.Pair(
		[]bls12381.G1Affine{signature.A, B},
		[]bls12381.G2Affine{wg2e, negG2},
	)
	if err != nil {
		return ErrPairingFailed
	}

	if !pairingResult.IsOne() {
		return ErrInvalidSignature
	}

	return nil
}

// SignWithCommittedMessage creates a BBS+ signature over one committed
// message (a Pedersen commitment point the signer never sees the opening of)
// and messageCount-1 plaintext messages.
//
// commitment must equal h0^r * h1^secret under the bases returned by
// commitmentBases() (see package blind), where h0 = pk.H[0] and
// h1 = pk.H[2] — the same bases this signature's own B equation uses for the
// blinding scalar s and the first message slot respectively. This lets the
// issuer fold the commitment directly into B: the holder's blinding r and the
// issuer's own fresh blinding s'' combine additively (B's Q1 term becomes
// Q1^(s''+r) once the commitment's Q1^r factor is merged in), so the returned
// signature's S field is only the issuer's share s''; the holder recovers the
// final signature by adding their r to S (see Unblind in package blind).
func SignWithCommittedMessage(
	rng io.Reader,
	sk *PrivateKey,
	pk *PublicKey,
	commitment bls12381.G1Affine,
	uncommittedMessages map[int]*big.Int,
	header []byte,
) (*Signature, error) {
	if rng == nil {
		rng = rand.Reader
	}
	if len(uncommittedMessages) != pk.MessageCount-1 {
		return nil, ErrInvalidMessageCount
	}

	domain := CalculateDomain(pk, header)

	sIssuer, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random value s: %w", err)
	}
	e, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random value e: %w", err)
	}

	BJac := bls12381.G1Jac{}
	BJac.FromAffine(&pk.G1)

	q1sJac := bls12381.G1Jac{}
	q1sJac.FromAffine(&pk.H[0])
	q1sJac.ScalarMultiplication(&q1sJac, sIssuer)
	BJac.AddAssign(&q1sJac)

	q2domJac := bls12381.G1Jac{}
	q2domJac.FromAffine(&pk.H[1])
	q2domJac.ScalarMultiplication(&q2domJac, domain)
	BJac.AddAssign(&q2domJac)

	commitJac := bls12381.G1Jac{}
	commitJac.FromAffine(&commitment)
	BJac.AddAssign(&commitJac)

	for idx, m := range uncommittedMessages {
		if idx < 1 || idx >= pk.MessageCount {
			return nil, ErrInvalidCommitmentIndex
		}
		hiJac := bls12381.G1Jac{}
		hiJac.FromAffine(&pk.H[idx+2])
		hiJac.ScalarMultiplication(&hiJac, m)
		BJac.AddAssign(&hiJac)
	}

	B := g1JacToAffine(BJac)

	A, err := exponentiateByInverse(B, sk.X, e)
	if err != nil {
		return nil, err
	}

	return &Signature{A: A, E: e, S: sIssuer}, nil
}

func computeB(pk *PublicKey, s *big.Int, domain *big.Int, messages []*big.Int) (bls12381.G1Affine, error) {
	BJac := bls12381.G1Jac{}
	BJac.FromAffine(&pk.G1)

	q1sJac := bls12381.G1Jac{}
	q1sJac.FromAffine(&pk.H[0])
	q1sJac.ScalarMultiplication(&q1sJac, s)
	BJac.AddAssign(&q1sJac)

	q2domJac := bls12381.G1Jac{}
	q2domJac.FromAffine(&pk.H[1])
	q2domJac.ScalarMultiplication(&q2domJac, domain)
	BJac.AddAssign(&q2domJac)

	for i, m := range messages {
		hiJac := bls12381.G1Jac{}
		hiJac.FromAffine(&pk.H[i+2])
		hiJac.ScalarMultiplication(&hiJac, m)
		BJac.AddAssign(&hiJac)
	}

	return g1JacToAffine(BJac), nil
}

func exponentiateByInverse(B bls12381.G1Affine, x, e *big.Int) (bls12381.G1Affine, error) {
	xPlusE := new(big.Int).Add(x, e)
	inv := new(big.Int).ModInverse(xPlusE, Order)
	if inv == nil {
		return bls12381.G1Affine{}, fmt.Errorf("failed to compute modular inverse")
	}

	AJac := bls12381.G1Jac{}
	AJac.FromAffine(&B)
	AJac.ScalarMultiplication(&AJac, inv)

	return g1JacToAffine(AJac), nil
}
