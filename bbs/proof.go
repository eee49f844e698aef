// Package bbs implements the BBS+ Signatures for selective disclosure.
package bbs

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sort"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// CreateProof creates a zero-knowledge proof that reveals only the messages at
// disclosedIndices from signature. context is bound into the Fiat-Shamir
// challenge alongside the proof's own commitments; callers that compose this
// proof into a larger statement set (package compose) pass the composite
// context bytes here so the PoK cannot be replayed outside that context.
func CreateProof(
	rng io.Reader,
	publicKey *PublicKey,
	signature *Signature,
	messages []*big.Int,
	disclosedIndices []int,
	header []byte,
	context []byte,
) (*ProofOfKnowledge, map[int]*big.Int, error) {
	if rng == nil {
		rng = rand.Reader
	}
	if len(messages) != publicKey.MessageCount {
		return nil, nil, ErrInvalidMessageCount
	}

	disclosedMap := make(map[int]bool, len(disclosedIndices))
	disclosedMessages := make(map[int]*big.Int, len(disclosedIndices))
	for _, idx := range disclosedIndices {
		if idx < 0 || idx >= len(messages) {
			return nil, nil, fmt.Errorf("invalid disclosed index: %d", idx)
		}
		disclosedMap[idx] = true
		disclosedMessages[idx] = messages[idx]
	}

	domain := CalculateDomain(publicKey, header)

	r, err := RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate random value: %w", err)
	}

	APrimeJac := bls12381.G1Jac{}
	APrimeJac.FromAffine(&signature.A)

	g1rJac := bls12381.G1Jac{}
	g1rJac.FromAffine(&publicKey.G1)
	g1rJac.ScalarMultiplication(&g1rJac, r)
	APrimeJac.AddAssign(&g1rJac)

	APrime := g1JacToAffine(APrimeJac)

	ABarJac := bls12381.G1Jac{}
	ABarJac.FromAffine(&APrime)

	for i := 0; i < len(messages); i++ {
		if disclosedMap[i] {
			continue
		}

		msg := messages[i]
		mr := new(big.Int).Mul(msg, r)
		mr.Mod(mr, Order)

		himrJac := bls12381.G1Jac{}
		himrJac.FromAffine(&publicKey.H[i+2])
		himrJac.ScalarMultiplication(&himrJac, mr)
		ABarJac.AddAssign(&himrJac)
	}

	ABar := g1JacToAffine(ABarJac)

	eBlind, err := RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate blinding: %w", err)
	}
	sBlind, err := RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate blinding: %w", err)
	}
	domainBlind, err := RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate domain blinding: %w", err)
	}

	mBlind := make(map[int]*big.Int)
	for i := 0; i < len(messages); i++ {
		if !disclosedMap[i] {
			mBlind[i], err = RandomScalar(rng)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to generate blinding: %w", err)
			}
		}
	}

	DJac := bls12381.G1Jac{}
	q1sBlindJac := bls12381.G1Jac{}
	q1sBlindJac.FromAffine(&publicKey.H[0])
	q1sBlindJac.ScalarMultiplication(&q1sBlindJac, sBlind)
	DJac.AddAssign(&q1sBlindJac)

	q2dBlindJac := bls12381.G1Jac{}
	q2dBlindJac.FromAffine(&publicKey.H[1])
	q2dBlindJac.ScalarMultiplication(&q2dBlindJac, domainBlind)
	DJac.AddAssign(&q2dBlindJac)

	for i := 0; i < len(messages); i++ {
		if !disclosedMap[i] {
			hiJac := bls12381.G1Jac{}
			hiJac.FromAffine(&publicKey.H[i+2])
			hiJac.ScalarMultiplication(&hiJac, mBlind[i])
			DJac.AddAssign(&hiJac)
		}
	}

	D := g1JacToAffine(DJac)

	c := ComputeProofChallenge(APrime, ABar, D, disclosedIndices, disclosedMessages, context)

	eHat := new(big.Int).Mul(signature.E, c)
	eHat.Add(eHat, eBlind)
	eHat.Mod(eHat, Order)

	sHat := new(big.Int).Mul(signature.S, c)
	sHat.Add(sHat, sBlind)
	sHat.Mod(sHat, Order)

	mHat := make(map[int]*big.Int)
	for i := 0; i < len(messages); i++ {
		if !disclosedMap[i] {
			mHat[i] = new(big.Int).Mul(messages[i], c)
			mHat[i].Add(mHat[i], mBlind[i])
			mHat[i].Mod(mHat[i], Order)
		}
	}

	_ = domain // domain is re-derived (not re-blinded) on verify; kept for symmetry with Sign/Verify

	proof := &ProofOfKnowledge{
		APrime: APrime,
		ABar:   ABar,
		D:      D,
		C:      c,
		EHat:   eHat,
		SHat:   sHat,
		MHat:   mHat,
	}

	return proof, disclosedMessages, nil
}

// VerifyProof verifies a zero-knowledge proof of knowledge. context must match
// the bytes passed to CreateProof.
func VerifyProof(
	publicKey *PublicKey,
	proof *ProofOfKnowledge,
	disclosedMessages map[int]*big.Int,
	header []byte,
	context []byte,
) error {
	for idx := range disclosedMessages {
		if idx < 0 || idx >= publicKey.MessageCount {
			return fmt.Errorf("invalid disclosed message index: %d", idx)
		}
	}

	disclosedIndices := make([]int, 0, len(disclosedMessages))
	for idx := range disclosedMessages {
		disclosedIndices = append(disclosedIndices, idx)
	}
	sort.Ints(disclosedIndices)

	c := ComputeProofChallenge(proof.APrime, proof.ABar, proof.D, disclosedIndices, disclosedMessages, context)
	if c.Cmp(proof.C) != 0 {
		return ErrInvalidSignature
	}

	domain := CalculateDomain(publicKey, header)

	points := []bls12381.G1Affine{publicKey.G1}
	scalars := []*big.Int{big.NewInt(1)}

	points = append(points, publicKey.H[0])
	scalars = append(scalars, proof.SHat)

	points = append(points, publicKey.H[1])
	scalars = append(scalars, domain)

	for idx, msg := range disclosedMessages {
		points = append(points, publicKey.H[idx+2])
		scalars = append(scalars, msg)
	}

	for idx, msgHat := range proof.MHat {
		points = append(points, publicKey.H[idx+2])
		scalars = append(scalars, msgHat)
	}

	points = append(points, proof.D)
	negC := new(big.Int).Neg(proof.C)
	negC.Mod(negC, Order)
	scalars = append(scalars, negC)

	g1bJac, err := MultiScalarMulG1(points, scalars)
	if err != nil {
		return fmt.Errorf("failed multi-scalar multiplication: %w", err)
	}
	g1b := g1JacToAffine(g1bJac)

	TJac, err := MultiScalarMulG1(
		[]bls12381.G1Affine{proof.ABar, proof.D},
		[]*big.Int{proof.C, big.NewInt(1)},
	)
	if err != nil {
		return fmt.Errorf("failed multi-scalar multiplication: %w", err)
	}
	T := g1JacToAffine(TJac)

	negG2Jac := bls12381.G2Jac{}
	negG2Jac.FromAffine(&publicKey.G2)
	negG2Jac.Neg(&negG2Jac)
	negG2 := g2JacToAffine(negG2Jac)

	pairingResult, err := bls12381.Pair(
		[]bls12381.G1Affine{proof.APrime, g1b, T},
		[]bls12381.G2Affine{publicKey.W, negG2, publicKey.G2},
	)
	if err != nil {
		return ErrPairingFailed
	}

	if !pairingResult.IsOne() {
		return ErrInvalidSignature
	}

	return nil
}

// VerifyProofs verifies several proofs in sequence. The core is single-threaded
// and purely computational (no goroutines, no shared mutable state); callers
// that want parallelism run VerifyProof from their own goroutines, each with
// an independent call, since no state is shared across calls.
func VerifyProofs(
	publicKeys []*PublicKey,
	proofs []*ProofOfKnowledge,
	disclosedMessagesList []map[int]*big.Int,
	headers [][]byte,
	contexts [][]byte,
) error {
	if len(publicKeys) != len(proofs) || len(proofs) != len(disclosedMessagesList) {
		return fmt.Errorf("mismatched array lengths in batch verification")
	}
	if len(headers) != 0 && len(headers) != len(proofs) {
		return fmt.Errorf("headers array length does not match proofs array length")
	}
	if len(contexts) != 0 && len(contexts) != len(proofs) {
		return fmt.Errorf("contexts array length does not match proofs array length")
	}

	for i := range proofs {
		var header []byte
		if len(headers) != 0 {
			header = headers[i]
		}
		var context []byte
		if len(contexts) != 0 {
			context = contexts[i]
		}
		if err := VerifyProof(publicKeys[i], proofs[i], disclosedMessagesList[i], header, context); err != nil {
			return fmt.Errorf("proof %d: %w", i, err)
		}
	}

	return nil
}
