// Package compose assembles a presentation's statements, meta-statements and
// witnesses into one composite zero-knowledge proof, and verifies one back.
//
// A presentation may make several claims at once: a BBS+ proof of knowledge
// per disclosed credential, an optional pairwise pseudonym (PPID), an
// optional verifiable encryption of the holder secret for an opener, an
// optional fresh Pedersen commitment to the same secret, and zero or more
// R1CS predicate proofs. The secret-bearing statements (bound-credential
// slot 0, PPID, secret commitment, encryption) all commit to the identical
// secret scalar; this package proves that equality rather than merely
// asserting it, by giving every such statement the same blinding factor for
// its secret term and fixing one Fiat-Shamir challenge over every
// statement's first-round commitments. Comparing the resulting responses is
// then a sound, non-interactive equality proof — the classical technique
// for linking heterogeneous Sigma protocols (Camenisch-Stadler composition)
// — without a verifier ever seeing the secret.
//
// The same shared-blind technique generalizes beyond the secret: Spec's
// EqualityGroups names arbitrary pairs of hidden BBS+ message slots, across
// one or more credentials, that must carry equal values — the mechanism
// behind a disclosed-subgraph holder reusing one hidden term (a shared
// identifier, a repeated literal) across several credentials without
// revealing it.
//
// R1CS predicates sit outside this linkage: gnark has no commit-and-prove
// extension (the real system this is modeled on uses LegoGroth16 for that),
// so predicate proofs are independent Groth16 proofs whose public
// commitment hash is asserted, not algebraically bound, to equal the hidden
// message it constrains. See package predicate's doc comment for the same
// caveat from the circuit side.
package compose

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/elgamal"
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
	"github.com/rdf-proofs/rdfproofs-go/predicate"
)

// CredentialInput is one disclosed credential's proving material.
type CredentialInput struct {
	PublicKey        *bbs.PublicKey
	Signature        *bbs.Signature
	Messages         []*big.Int
	DisclosedIndices []int
	Header           []byte
	Bound            bool // true if Messages[0] is Hash(secret), linked into the secret-equality set
}

// PPIDInput requests a pairwise pseudonym statement.
type PPIDInput struct {
	Base bls12381.G1Affine // base(domain)
}

// SecretCommitmentInput requests a fresh Pedersen commitment to the secret.
type SecretCommitmentInput struct{}

// EncryptionInput requests a verifiable-encryption statement.
type EncryptionInput struct {
	OpenerPublicKey *elgamal.PublicKey
}

// PredicateInput is one predicate's proving material.
type PredicateInput struct {
	Compiled   *predicate.CompiledCircuit
	Assignment predicate.Assignment
}

// EqualityRef names one hidden message slot: the MessageIndex-th message of
// the CredentialIndex-th entry in Spec.Credentials.
type EqualityRef struct {
	CredentialIndex int
	MessageIndex    int
}

// Spec is the prover's full statement set.
type Spec struct {
	Credentials      []CredentialInput
	PPID             *PPIDInput
	SecretCommitment *SecretCommitmentInput
	Encryption       *EncryptionInput
	Predicates       []PredicateInput

	// EqualityGroups lists sets of hidden message slots (besides the
	// built-in secret-equality set) that must all hold the same value — the
	// "term equality" meta-statement: one canonical deanonymized identifier
	// disclosed-hidden at two or more positions across one or more
	// credentials. Every ref in a group must name a message index that
	// CredentialInput.DisclosedIndices leaves hidden.
	EqualityGroups [][]EqualityRef
}

// CompositeProof is the assembled proof over every statement in a Spec.
type CompositeProof struct {
	Credentials       []*bbs.ProofOfKnowledge
	DisclosedMessages []map[int]*big.Int

	PPID             *bls12381.G1Affine // the public pseudonym value, if requested
	PPIDBase         *bls12381.G1Affine
	PPIDT            *bls12381.G1Affine
	PPIDResponse     *big.Int

	SecretCommitmentPoint    *bls12381.G1Affine
	SecretCommitmentT        *bls12381.G1Affine
	SecretCommitmentRHat     *big.Int
	SecretCommitmentSecHat   *big.Int

	EncryptionCiphertext *elgamal.Ciphertext
	EncryptionProof      *elgamal.Proof

	Predicates []*predicate.Proof

	Challenge *big.Int
}

// secretCommitmentBases are the two generators a secret-commitment Pedersen
// statement is defined over — the same (h0, h1) pair a blind-signature
// request commits under, so a commitment produced here is interoperable
// with package blind's opening proof.
func secretCommitmentBases() (h0, h1 bls12381.G1Affine) {
	gens := bbs.Params(3)
	return gens[0], gens[2]
}

// Prove builds a composite proof over spec. secret is the holder secret
// scalar (Hash(secret)); pass nil if no credential in spec is bound and
// PPID/secret-commitment/encryption are not requested (a presentation that
// requests any of those but supplies no secret returns ErrMissingSecret).
func Prove(rng io.Reader, spec Spec, secret *big.Int, context []byte) (*CompositeProof, error) {
	if rng == nil {
		rng = rand.Reader
	}

	needsSecret := spec.PPID != nil || spec.SecretCommitment != nil || spec.Encryption != nil
	for _, c := range spec.Credentials {
		needsSecret = needsSecret || c.Bound
	}
	if needsSecret && secret == nil {
		return nil, common.ErrMissingSecret
	}
	if spec.Encryption != nil && spec.Encryption.OpenerPublicKey == nil {
		return nil, common.ErrMissingOpenerPublicKey
	}

	presetBlinds := make([]map[int]*big.Int, len(spec.Credentials))
	for _, group := range spec.EqualityGroups {
		blind, err := bbs.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		for _, ref := range group {
			if presetBlinds[ref.CredentialIndex] == nil {
				presetBlinds[ref.CredentialIndex] = make(map[int]*big.Int)
			}
			presetBlinds[ref.CredentialIndex][ref.MessageIndex] = blind
		}
	}
	// Every bound credential's slot 0 shares one blind, so their responses match.
	var boundBlind *big.Int
	for i, c := range spec.Credentials {
		if !c.Bound {
			continue
		}
		if boundBlind == nil {
			var err error
			if boundBlind, err = bbs.RandomScalar(rng); err != nil {
				return nil, err
			}
		}
		if presetBlinds[i] == nil {
			presetBlinds[i] = make(map[int]*big.Int)
		}
		presetBlinds[i][0] = boundBlind
	}

	commitments := make([]*bbs.ProofCommitment, len(spec.Credentials))
	for i, c := range spec.Credentials {
		pc, err := bbs.CommitToProofWithBlinds(rng, c.PublicKey, c.Signature, c.Messages, c.DisclosedIndices, presetBlinds[i])
		if err != nil {
			return nil, fmt.Errorf("compose: credential %d: %w", i, err)
		}
		commitments[i] = pc
	}

	var secretBlind *big.Int
	anchorIdx := -1
	for i, c := range spec.Credentials {
		if c.Bound {
			anchorIdx = i
			break
		}
	}
	if anchorIdx >= 0 {
		secretBlind = commitments[anchorIdx].MessageBlind(0)
	} else if needsSecret {
		var err error
		secretBlind, err = bbs.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
	}

	var ppidT bls12381.G1Affine
	var ppidValue bls12381.G1Affine
	if spec.PPID != nil {
		t, err := scalarMulBase(spec.PPID.Base, secretBlind)
		if err != nil {
			return nil, err
		}
		ppidT = t
		v, err := scalarMulBase(spec.PPID.Base, secret)
		if err != nil {
			return nil, err
		}
		ppidValue = v
	}

	var scCommitment, scT bls12381.G1Affine
	var scR, scRBlind *big.Int
	if spec.SecretCommitment != nil {
		h0, h1 := secretCommitmentBases()
		var err error
		scR, err = bbs.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		scCommitment, err = pedersenCommit(h0, h1, scR, secret)
		if err != nil {
			return nil, err
		}
		scRBlind, err = bbs.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		scT, err = pedersenCommit(h0, h1, scRBlind, secretBlind)
		if err != nil {
			return nil, err
		}
	}

	var encCommit *elgamal.Commitment
	if spec.Encryption != nil {
		var err error
		encCommit, err = elgamal.CommitEncryption(rng, spec.Encryption.OpenerPublicKey, secret, secretBlind)
		if err != nil {
			return nil, err
		}
	}

	var predicateProofs []*predicate.Proof
	for i, p := range spec.Predicates {
		proof, err := predicate.Prove(p.Compiled, p.Assignment)
		if err != nil {
			return nil, fmt.Errorf("compose: predicate %d: %w", i, err)
		}
		predicateProofs = append(predicateProofs, proof)
	}

	aprimes := make([]bls12381.G1Affine, len(commitments))
	abars := make([]bls12381.G1Affine, len(commitments))
	ds := make([]bls12381.G1Affine, len(commitments))
	for i, pc := range commitments {
		aprimes[i] = pc.APrime
		abars[i] = pc.ABar
		ds[i] = pc.D
	}
	var encT1, encT2 *bls12381.G1Affine
	if encCommit != nil {
		encT1, encT2 = &encCommit.T1, &encCommit.T2
	}
	challenge := hashJoint(aprimes, abars, ds, ppidT, scT, encT1, encT2, context)

	proof := &CompositeProof{
		Credentials:       make([]*bbs.ProofOfKnowledge, len(commitments)),
		DisclosedMessages: make([]map[int]*big.Int, len(commitments)),
		Predicates:        predicateProofs,
		Challenge:         challenge,
	}
	for i, pc := range commitments {
		proof.Credentials[i] = pc.Finalize(challenge)
		proof.DisclosedMessages[i] = pc.DisclosedMessages
	}

	if spec.PPID != nil {
		base := spec.PPID.Base
		proof.PPIDBase = &base
		proof.PPID = &ppidValue
		proof.PPIDT = &ppidT
		proof.PPIDResponse = sharedResponse(secret, secretBlind, challenge)
	}

	if spec.SecretCommitment != nil {
		proof.SecretCommitmentPoint = &scCommitment
		proof.SecretCommitmentT = &scT
		rHat := new(big.Int).Mul(scR, challenge)
		rHat.Add(rHat, scRBlind)
		rHat.Mod(rHat, bbs.Order)
		proof.SecretCommitmentRHat = rHat
		proof.SecretCommitmentSecHat = sharedResponse(secret, secretBlind, challenge)
	}

	if spec.Encryption != nil {
		proof.EncryptionCiphertext = &encCommit.Ciphertext
		proof.EncryptionProof = encCommit.Finalize(challenge)
	}

	return proof, nil
}

// sharedResponse computes the Sigma-protocol response blind + c*secret,
// the same formula bbs.ProofCommitment.Finalize and elgamal.Commitment.Finalize
// use for their own secret term, so that when all three are given the same
// blind and challenge their outputs are directly comparable.
func sharedResponse(secret, blind, challenge *big.Int) *big.Int {
	v := new(big.Int).Mul(secret, challenge)
	v.Add(v, blind)
	v.Mod(v, bbs.Order)
	return v
}

func pedersenCommit(h0, h1 bls12381.G1Affine, a, b *big.Int) (bls12381.G1Affine, error) {
	jac, err := bbs.MultiScalarMulG1([]bls12381.G1Affine{h0, h1}, []*big.Int{a, b})
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out, nil
}

func scalarMulBase(base bls12381.G1Affine, scalar *big.Int) (bls12381.G1Affine, error) {
	jac, err := bbs.MultiScalarMulG1([]bls12381.G1Affine{base}, []*big.Int{scalar})
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out, nil
}

func combinePoints(t, commitment bls12381.G1Affine, c *big.Int) (bls12381.G1Affine, error) {
	jac, err := bbs.MultiScalarMulG1([]bls12381.G1Affine{t, commitment}, []*big.Int{big.NewInt(1), c})
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out, nil
}

// hashJoint computes the single Fiat-Shamir challenge binding every
// statement in a composite proof. Both Prove and Verify call this with the
// same inputs (round-1 commitments plus context) and must agree on the
// result for the proof to check out.
func hashJoint(aprimes, abars, ds []bls12381.G1Affine, ppidT, scT bls12381.G1Affine, encT1, encT2 *bls12381.G1Affine, context []byte) *big.Int {
	var buf []byte
	for i := range aprimes {
		buf = append(buf, aprimes[i].Marshal()...)
		buf = append(buf, abars[i].Marshal()...)
		buf = append(buf, ds[i].Marshal()...)
	}
	buf = append(buf, ppidT.Marshal()...)
	buf = append(buf, scT.Marshal()...)
	if encT1 != nil {
		buf = append(buf, encT1.Marshal()...)
	}
	if encT2 != nil {
		buf = append(buf, encT2.Marshal()...)
	}
	buf = append(buf, context...)
	scalar, err := bbs.HashToScalar(buf, []byte(common.MapToScalarAsHashDST))
	if err != nil {
		return big.NewInt(0)
	}
	return scalar
}
