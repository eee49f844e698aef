package compose

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/fxamacker/cbor/v2"
	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/elgamal"
	"github.com/rdf-proofs/rdfproofs-go/predicate"
)

func unmarshalG1(data []byte) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	if err := p.Unmarshal(data); err != nil {
		return bls12381.G1Affine{}, fmt.Errorf("compose: unmarshal G1 point: %w", err)
	}
	return p, nil
}

// wireCredential is the CBOR-serializable mirror of one credential's
// bbs.ProofOfKnowledge plus its disclosed messages.
type wireCredential struct {
	Proof      []byte          `cbor:"proof"`
	Disclosed  map[int][]byte  `cbor:"disclosed"`
}

// wireProof is the CBOR-serializable mirror of a CompositeProof, the
// structure multibase-encoded into a presentation's proofValue.
type wireProof struct {
	Credentials []wireCredential `cbor:"credentials"`

	PPID         []byte `cbor:"ppid,omitempty"`
	PPIDBase     []byte `cbor:"ppid_base,omitempty"`
	PPIDT        []byte `cbor:"ppid_t,omitempty"`
	PPIDResponse []byte `cbor:"ppid_response,omitempty"`

	SecretCommitmentPoint  []byte `cbor:"secret_commitment,omitempty"`
	SecretCommitmentT      []byte `cbor:"secret_commitment_t,omitempty"`
	SecretCommitmentRHat   []byte `cbor:"secret_commitment_rhat,omitempty"`
	SecretCommitmentSecHat []byte `cbor:"secret_commitment_sechat,omitempty"`

	EncryptionC1   []byte `cbor:"enc_c1,omitempty"`
	EncryptionC2   []byte `cbor:"enc_c2,omitempty"`
	EncryptionT1   []byte `cbor:"enc_t1,omitempty"`
	EncryptionT2   []byte `cbor:"enc_t2,omitempty"`
	EncryptionKHat []byte `cbor:"enc_khat,omitempty"`
	EncryptionSecHat []byte `cbor:"enc_sechat,omitempty"`

	Predicates [][]byte `cbor:"predicates,omitempty"`

	Challenge []byte `cbor:"challenge"`
}

// Marshal serializes a CompositeProof to bytes, the payload a presentation
// embeds (after multibase encoding) as its proofValue.
func Marshal(proof *CompositeProof) ([]byte, error) {
	w := wireProof{
		Challenge: proof.Challenge.Bytes(),
	}

	for _, c := range proof.Credentials {
		pb, err := bbs.SerializeProof(c)
		if err != nil {
			return nil, fmt.Errorf("compose: serialize credential proof: %w", err)
		}
		w.Credentials = append(w.Credentials, wireCredential{Proof: pb})
	}
	for i, dm := range proof.DisclosedMessages {
		disclosed := make(map[int][]byte, len(dm))
		for idx, v := range dm {
			disclosed[idx] = v.Bytes()
		}
		w.Credentials[i].Disclosed = disclosed
	}

	if proof.PPID != nil {
		w.PPID = proof.PPID.Marshal()
		w.PPIDBase = proof.PPIDBase.Marshal()
		w.PPIDT = proof.PPIDT.Marshal()
		w.PPIDResponse = proof.PPIDResponse.Bytes()
	}

	if proof.SecretCommitmentPoint != nil {
		w.SecretCommitmentPoint = proof.SecretCommitmentPoint.Marshal()
		w.SecretCommitmentT = proof.SecretCommitmentT.Marshal()
		w.SecretCommitmentRHat = proof.SecretCommitmentRHat.Bytes()
		w.SecretCommitmentSecHat = proof.SecretCommitmentSecHat.Bytes()
	}

	if proof.EncryptionCiphertext != nil {
		w.EncryptionC1 = proof.EncryptionCiphertext.C1.Marshal()
		w.EncryptionC2 = proof.EncryptionCiphertext.C2.Marshal()
		w.EncryptionT1 = proof.EncryptionProof.T1.Marshal()
		w.EncryptionT2 = proof.EncryptionProof.T2.Marshal()
		w.EncryptionKHat = proof.EncryptionProof.KHat.Bytes()
		w.EncryptionSecHat = proof.EncryptionProof.SecHat.Bytes()
	}

	for _, p := range proof.Predicates {
		pb, err := predicate.MarshalProof(p)
		if err != nil {
			return nil, err
		}
		w.Predicates = append(w.Predicates, pb)
	}

	return cbor.Marshal(w)
}

// Unmarshal parses the bytes Marshal produced back into a CompositeProof.
func Unmarshal(data []byte) (*CompositeProof, error) {
	var w wireProof
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("compose: unmarshal: %w", err)
	}

	proof := &CompositeProof{
		Challenge: new(big.Int).SetBytes(w.Challenge),
	}

	for _, wc := range w.Credentials {
		pok, err := bbs.DeserializeProof(wc.Proof)
		if err != nil {
			return nil, fmt.Errorf("compose: unmarshal credential proof: %w", err)
		}
		proof.Credentials = append(proof.Credentials, pok)

		dm := make(map[int]*big.Int, len(wc.Disclosed))
		for idx, b := range wc.Disclosed {
			dm[idx] = new(big.Int).SetBytes(b)
		}
		proof.DisclosedMessages = append(proof.DisclosedMessages, dm)
	}

	if w.PPID != nil {
		ppid, err := unmarshalG1(w.PPID)
		if err != nil {
			return nil, err
		}
		base, err := unmarshalG1(w.PPIDBase)
		if err != nil {
			return nil, err
		}
		t, err := unmarshalG1(w.PPIDT)
		if err != nil {
			return nil, err
		}
		proof.PPID = &ppid
		proof.PPIDBase = &base
		proof.PPIDT = &t
		proof.PPIDResponse = new(big.Int).SetBytes(w.PPIDResponse)
	}

	if w.SecretCommitmentPoint != nil {
		point, err := unmarshalG1(w.SecretCommitmentPoint)
		if err != nil {
			return nil, err
		}
		t, err := unmarshalG1(w.SecretCommitmentT)
		if err != nil {
			return nil, err
		}
		proof.SecretCommitmentPoint = &point
		proof.SecretCommitmentT = &t
		proof.SecretCommitmentRHat = new(big.Int).SetBytes(w.SecretCommitmentRHat)
		proof.SecretCommitmentSecHat = new(big.Int).SetBytes(w.SecretCommitmentSecHat)
	}

	if w.EncryptionC1 != nil {
		c1, err := unmarshalG1(w.EncryptionC1)
		if err != nil {
			return nil, err
		}
		c2, err := unmarshalG1(w.EncryptionC2)
		if err != nil {
			return nil, err
		}
		t1, err := unmarshalG1(w.EncryptionT1)
		if err != nil {
			return nil, err
		}
		t2, err := unmarshalG1(w.EncryptionT2)
		if err != nil {
			return nil, err
		}
		proof.EncryptionCiphertext = &elgamal.Ciphertext{C1: c1, C2: c2}
		proof.EncryptionProof = &elgamal.Proof{
			T1:     t1,
			T2:     t2,
			KHat:   new(big.Int).SetBytes(w.EncryptionKHat),
			SecHat: new(big.Int).SetBytes(w.EncryptionSecHat),
		}
	}

	for _, pb := range w.Predicates {
		p, err := predicate.UnmarshalProof(pb)
		if err != nil {
			return nil, err
		}
		proof.Predicates = append(proof.Predicates, p)
	}

	return proof, nil
}
