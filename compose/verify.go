package compose

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/elgamal"
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
	"github.com/rdf-proofs/rdfproofs-go/predicate"
)

// VerifyCredentialInput is one disclosed credential's verification material.
type VerifyCredentialInput struct {
	PublicKey *bbs.PublicKey
	Header    []byte
	Bound     bool // true if this credential's slot 0 is Hash(secret) and belongs to the secret-equality set
}

// VerifyPPIDInput carries the public data needed to re-check a PPID
// statement: the domain base it was derived under.
type VerifyPPIDInput struct {
	Base bls12381.G1Affine
}

// VerifyEncryptionInput carries the opener key a presentation's encryption
// statement was made under.
type VerifyEncryptionInput struct {
	OpenerPublicKey *elgamal.PublicKey
}

// VerifyPredicateInput is one predicate's verifying key.
type VerifyPredicateInput struct {
	Compiled *predicate.CompiledCircuit
}

// VerifySpec is the verifier's counterpart to Spec: public key material and
// options, with no secrets.
type VerifySpec struct {
	Credentials      []VerifyCredentialInput
	PPID             *VerifyPPIDInput
	SecretCommitment bool
	Encryption       *VerifyEncryptionInput
	Predicates       []VerifyPredicateInput
	EqualityGroups   [][]EqualityRef
}

// Verify checks a CompositeProof against spec and context. It recomputes the
// joint challenge from the proof's own first-round commitments, checks every
// statement's response equation against that challenge, and — since every
// secret-bearing statement was built from the same blind and the same
// challenge — checks that their responses are bit-identical, which is the
// equality proof.
func Verify(spec VerifySpec, proof *CompositeProof, context []byte) error {
	if len(spec.Credentials) != len(proof.Credentials) || len(spec.Credentials) != len(proof.DisclosedMessages) {
		return common.ErrInvalidVP
	}
	if (spec.PPID != nil) != (proof.PPID != nil) {
		return common.ErrInvalidVP
	}
	if spec.SecretCommitment != (proof.SecretCommitmentPoint != nil) {
		return common.ErrInvalidVP
	}
	if (spec.Encryption != nil) != (proof.EncryptionCiphertext != nil) {
		return common.ErrInvalidVP
	}
	if len(spec.Predicates) != len(proof.Predicates) {
		return common.ErrInvalidVP
	}

	aprimes := make([]bls12381.G1Affine, len(proof.Credentials))
	abars := make([]bls12381.G1Affine, len(proof.Credentials))
	ds := make([]bls12381.G1Affine, len(proof.Credentials))
	for i, p := range proof.Credentials {
		aprimes[i] = p.APrime
		abars[i] = p.ABar
		ds[i] = p.D
	}

	var ppidT, scT bls12381.G1Affine
	if proof.PPIDT != nil {
		ppidT = *proof.PPIDT
	}
	if proof.SecretCommitmentT != nil {
		scT = *proof.SecretCommitmentT
	}
	var encT1, encT2 *bls12381.G1Affine
	if proof.EncryptionProof != nil {
		encT1, encT2 = &proof.EncryptionProof.T1, &proof.EncryptionProof.T2
	}

	challenge := hashJoint(aprimes, abars, ds, ppidT, scT, encT1, encT2, context)
	if challenge.Cmp(proof.Challenge) != 0 {
		return common.ErrProofVerify
	}

	for i, c := range spec.Credentials {
		if err := bbs.VerifyProofPairing(c.PublicKey, proof.Credentials[i], proof.DisclosedMessages[i], c.Header); err != nil {
			return fmt.Errorf("compose: credential %d: %w", i, err)
		}
	}

	var secretResponses []*big.Int

	if spec.PPID != nil {
		lhs, err := scalarMulBase(spec.PPID.Base, proof.PPIDResponse)
		if err != nil {
			return err
		}
		rhs, err := combinePoints(*proof.PPIDT, *proof.PPID, challenge)
		if err != nil {
			return err
		}
		if !bbs.AreG1PointsEqual([]bls12381.G1Affine{lhs}, []bls12381.G1Affine{rhs}) {
			return common.ErrProofVerify
		}
		secretResponses = append(secretResponses, proof.PPIDResponse)
	}

	if spec.SecretCommitment {
		h0, h1 := secretCommitmentBases()
		lhs, err := pedersenCommit(h0, h1, proof.SecretCommitmentRHat, proof.SecretCommitmentSecHat)
		if err != nil {
			return err
		}
		rhs, err := combinePoints(*proof.SecretCommitmentT, *proof.SecretCommitmentPoint, challenge)
		if err != nil {
			return err
		}
		if !bbs.AreG1PointsEqual([]bls12381.G1Affine{lhs}, []bls12381.G1Affine{rhs}) {
			return common.ErrProofVerify
		}
		secretResponses = append(secretResponses, proof.SecretCommitmentSecHat)
	}

	if spec.Encryption != nil {
		if err := elgamal.VerifyWithChallenge(spec.Encryption.OpenerPublicKey, proof.EncryptionCiphertext, proof.EncryptionProof, challenge); err != nil {
			return fmt.Errorf("compose: encryption: %w", err)
		}
		secretResponses = append(secretResponses, proof.EncryptionProof.SecHat)
	}

	for i, c := range spec.Credentials {
		if !c.Bound {
			continue
		}
		mHat, ok := proof.Credentials[i].MHat[0]
		if !ok {
			return fmt.Errorf("compose: credential %d: bound credential discloses slot 0: %w", i, common.ErrInvalidVP)
		}
		secretResponses = append(secretResponses, mHat)
	}

	for i := 1; i < len(secretResponses); i++ {
		if secretResponses[i].Cmp(secretResponses[0]) != 0 {
			return common.ErrProofVerify
		}
	}

	for i, p := range spec.Predicates {
		if err := predicate.Verify(p.Compiled, proof.Predicates[i]); err != nil {
			return fmt.Errorf("compose: predicate %d: %w", i, err)
		}
	}

	for gi, group := range spec.EqualityGroups {
		var responses []*big.Int
		for _, ref := range group {
			if ref.CredentialIndex < 0 || ref.CredentialIndex >= len(proof.Credentials) {
				return common.ErrInvalidVP
			}
			mHat, ok := proof.Credentials[ref.CredentialIndex].MHat[ref.MessageIndex]
			if !ok {
				return fmt.Errorf("compose: equality group %d: credential %d message %d is not hidden: %w", gi, ref.CredentialIndex, ref.MessageIndex, common.ErrInvalidVP)
			}
			responses = append(responses, mHat)
		}
		for i := 1; i < len(responses); i++ {
			if responses[i].Cmp(responses[0]) != 0 {
				return fmt.Errorf("compose: equality group %d: %w", gi, common.ErrProofVerify)
			}
		}
	}

	return nil
}

