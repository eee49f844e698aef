package bbs

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// ProofCommitment is the first-move (Sigma-protocol "commit") state of a BBS+
// proof of knowledge, before a challenge has been fixed. Package compose
// collects one of these per credential alongside the commit messages of
// every other statement in a presentation (PPID, verifiable encryption,
// secret commitment, predicates), hashes them all together into one joint
// challenge, and calls Finalize on each so that a shared secret — e.g. the
// slot-0 message of a bound credential — gets the same (blinding, response)
// relationship in every statement that commits to it. Comparing the
// resulting responses is then a sound equality proof without ever revealing
// the shared secret.
type ProofCommitment struct {
	APrime            bls12381.G1Affine
	ABar              bls12381.G1Affine
	D                 bls12381.G1Affine
	DisclosedIndices  []int
	DisclosedMessages map[int]*big.Int

	signature    *Signature
	messages     []*big.Int
	eBlind       *big.Int
	sBlind       *big.Int
	domainBlind  *big.Int
	mBlind       map[int]*big.Int
}

// CommitToProof runs the commit phase of a BBS+ proof of knowledge: it picks
// all blinding scalars and computes (A', Abar, D), but does not yet fix a
// challenge. Call Finalize once the joint challenge for the surrounding
// presentation is known.
func CommitToProof(rng io.Reader, publicKey *PublicKey, signature *Signature, messages []*big.Int, disclosedIndices []int) (*ProofCommitment, error) {
	return CommitToProofWithBlinds(rng, publicKey, signature, messages, disclosedIndices, nil)
}

// CommitToProofWithBlinds runs the same commit phase as CommitToProof, but
// lets the caller pin the blinding scalar for specific hidden message slots
// instead of sampling one fresh. presetBlinds maps a hidden message index to
// the blind it must use; indices not present (or when presetBlinds is nil)
// get a freshly sampled blind as usual. Package compose uses this to link a
// hidden message at one position in one credential to a hidden message at
// another position in another credential: give both slots the same preset
// blind, and their Finalize responses become directly comparable under a
// shared challenge, proving the two hidden values are equal without
// revealing either.
func CommitToProofWithBlinds(rng io.Reader, publicKey *PublicKey, signature *Signature, messages []*big.Int, disclosedIndices []int, presetBlinds map[int]*big.Int) (*ProofCommitment, error) {
	if rng == nil {
		rng = rand.Reader
	}
	if len(messages) != publicKey.MessageCount {
		return nil, ErrInvalidMessageCount
	}

	disclosedMap := make(map[int]bool, len(disclosedIndices))
	disclosedMessages := make(map[int]*big.Int, len(disclosedIndices))
	for _, idx := range disclosedIndices {
		if idx < 0 || idx >= len(messages) {
			return nil, fmt.Errorf("invalid disclosed index: %d", idx)
		}
		disclosedMap[idx] = true
		disclosedMessages[idx] = messages[idx]
	}

	r, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random value: %w", err)
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
		mr := new(big.Int).Mul(messages[i], r)
		mr.Mod(mr, Order)
		himrJac := bls12381.G1Jac{}
		himrJac.FromAffine(&publicKey.H[i+2])
		himrJac.ScalarMultiplication(&himrJac, mr)
		ABarJac.AddAssign(&himrJac)
	}
	ABar := g1JacToAffine(ABarJac)

	eBlind, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate blinding: %w", err)
	}
	sBlind, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate blinding: %w", err)
	}
	domainBlind, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate domain blinding: %w", err)
	}

	mBlind := make(map[int]*big.Int)
	for i := 0; i < len(messages); i++ {
		if disclosedMap[i] {
			continue
		}
		if preset, ok := presetBlinds[i]; ok {
			mBlind[i] = preset
			continue
		}
		mBlind[i], err = RandomScalar(rng)
		if err != nil {
			return nil, fmt.Errorf("failed to generate blinding: %w", err)
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

	return &ProofCommitment{
		APrime:            APrime,
		ABar:              ABar,
		D:                 D,
		DisclosedIndices:  append([]int(nil), disclosedIndices...),
		DisclosedMessages: disclosedMessages,
		signature:         signature,
		messages:          messages,
		eBlind:            eBlind,
		sBlind:            sBlind,
		domainBlind:       domainBlind,
		mBlind:            mBlind,
	}, nil
}

// Finalize computes the responses for challenge and produces the completed
// proof of knowledge. HiddenResponse lets callers read back the response for
// a specific hidden message slot (e.g. slot 0, the holder secret) to check
// equality against another statement's response to the same challenge.
func (pc *ProofCommitment) Finalize(challenge *big.Int) *ProofOfKnowledge {
	eHat := new(big.Int).Mul(pc.signature.E, challenge)
	eHat.Add(eHat, pc.eBlind)
	eHat.Mod(eHat, Order)

	sHat := new(big.Int).Mul(pc.signature.S, challenge)
	sHat.Add(sHat, pc.sBlind)
	sHat.Mod(sHat, Order)

	mHat := make(map[int]*big.Int, len(pc.mBlind))
	for i, blind := range pc.mBlind {
		v := new(big.Int).Mul(pc.messages[i], challenge)
		v.Add(v, blind)
		v.Mod(v, Order)
		mHat[i] = v
	}

	return &ProofOfKnowledge{
		APrime: pc.APrime,
		ABar:   pc.ABar,
		D:      pc.D,
		C:      challenge,
		EHat:   eHat,
		SHat:   sHat,
		MHat:   mHat,
	}
}

// MessageBlind returns the blinding scalar chosen for hidden message slot
// idx during the commit phase, or nil if idx was disclosed. Package compose
// passes this into sibling statements (PPID, secret commitment, verifiable
// encryption) that commit to the same secret so that, once a single joint
// challenge is fixed, their responses are directly comparable to this
// statement's mHat[idx] without revealing the secret itself.
func (pc *ProofCommitment) MessageBlind(idx int) *big.Int {
	return pc.mBlind[idx]
}

// HiddenResponse returns the mHat response Finalize computed for message
// slot idx, or nil if idx was disclosed (and so has no blinding response).
// Must be called after Finalize.
func (pc *ProofCommitment) HiddenResponse(idx int, challenge *big.Int) *big.Int {
	blind, ok := pc.mBlind[idx]
	if !ok {
		return nil
	}
	v := new(big.Int).Mul(pc.messages[idx], challenge)
	v.Add(v, blind)
	v.Mod(v, Order)
	return v
}

// VerifyProofPairing checks the pairing equation of proof against publicKey
// and header, trusting proof.C as an already-agreed challenge rather than
// recomputing it from a self-contained context. Package compose uses this
// after independently recomputing and checking the joint challenge that
// binds every statement in a presentation.
func VerifyProofPairing(publicKey *PublicKey, proof *ProofOfKnowledge, disclosedMessages map[int]*big.Int, header []byte) error {
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
