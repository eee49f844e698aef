package bbs

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/fxamacker/cbor/v2"
)

// Errors specific to types
var (
	ErrInvalidCurvePoint = fmt.Errorf("invalid curve point")
	ErrInvalidProof      = fmt.Errorf("invalid proof")
)

// PrivateKey is a BBS+ signing key: a single secret scalar.
type PrivateKey struct {
	X *big.Int // Secret scalar
}

// PublicKey is a BBS+ verification key sized to one particular message
// vector length. H holds one message-specific generator per slot of that
// vector — the scalars package encode derives from a canonicalized RDF
// credential graph, not a fixed attribute schema — so the same issuer key
// material is re-derived at MessageCount for every document shape it signs.
type PublicKey struct {
	W            bls12381.G2Affine   // W = g2^x
	G2           bls12381.G2Affine   // Generator of G2
	G1           bls12381.G1Affine   // Generator of G1
	H            []bls12381.G1Affine // Message-vector-slot generators
	MessageCount int                 // Length of the message vector this key signs
}

// KeyPair represents a BBS+ key pair
type KeyPair struct {
	PrivateKey *PrivateKey
	PublicKey  *PublicKey
}

// Signature represents a BBS+ signature
type Signature struct {
	A bls12381.G1Affine // First signature component
	E *big.Int          // Random scalar
	S *big.Int          // Random scalar
}

// ProofOfKnowledge is a zero-knowledge proof of possession of a BBS+
// signature over a message vector with some slots disclosed and the rest
// held back. MHat carries the Schnorr response for every hidden slot,
// keyed by that slot's absolute index into the signed vector.
type ProofOfKnowledge struct {
	APrime bls12381.G1Affine
	ABar   bls12381.G1Affine
	D      bls12381.G1Affine
	C      *big.Int
	EHat   *big.Int
	SHat   *big.Int
	MHat   map[int]*big.Int // Hidden message-vector-slot responses, by index
}

// wireSignature is the CBOR mirror SerializeSignature/DeserializeSignature
// exchange, the same scalar-as-bytes/point-as-Marshal convention the rest
// of this module's wire encoders use.
type wireSignature struct {
	A []byte `cbor:"a"`
	E []byte `cbor:"e"`
	S []byte `cbor:"s"`
}

// SerializeSignature encodes a signature to CBOR bytes.
func SerializeSignature(sig *Signature) ([]byte, error) {
	data, err := cbor.Marshal(wireSignature{
		A: sig.A.Marshal(),
		E: sig.E.Bytes(),
		S: sig.S.Bytes(),
	})
	if err != nil {
		return nil, fmt.Errorf("bbs: serialize signature: %w", err)
	}
	return data, nil
}

// DeserializeSignature parses bytes produced by SerializeSignature.
func DeserializeSignature(data []byte) (*Signature, error) {
	var w wireSignature
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, ErrInvalidSignatureData
	}

	var a bls12381.G1Affine
	if err := a.Unmarshal(w.A); err != nil {
		return nil, ErrInvalidSignatureData
	}
	if len(w.E) == 0 || len(w.S) == 0 {
		return nil, ErrInvalidSignatureData
	}

	return &Signature{
		A: a,
		E: new(big.Int).SetBytes(w.E),
		S: new(big.Int).SetBytes(w.S),
	}, nil
}

// wireProofOfKnowledge is the CBOR mirror SerializeProof/DeserializeProof
// exchange. MHat is keyed by the same absolute message-vector index the
// rest of this module uses (see package encode), so a deserialized proof
// can be checked against a disclosed-message map without re-indexing.
type wireProofOfKnowledge struct {
	APrime []byte         `cbor:"a_prime"`
	ABar   []byte         `cbor:"a_bar"`
	D      []byte         `cbor:"d"`
	C      []byte         `cbor:"c"`
	EHat   []byte         `cbor:"e_hat"`
	SHat   []byte         `cbor:"s_hat"`
	MHat   map[int][]byte `cbor:"m_hat"`
}

// SerializeProof encodes a proof of knowledge to CBOR bytes.
func SerializeProof(proof *ProofOfKnowledge) ([]byte, error) {
	mHat := make(map[int][]byte, len(proof.MHat))
	for idx, v := range proof.MHat {
		mHat[idx] = v.Bytes()
	}

	data, err := cbor.Marshal(wireProofOfKnowledge{
		APrime: proof.APrime.Marshal(),
		ABar:   proof.ABar.Marshal(),
		D:      proof.D.Marshal(),
		C:      proof.C.Bytes(),
		EHat:   proof.EHat.Bytes(),
		SHat:   proof.SHat.Bytes(),
		MHat:   mHat,
	})
	if err != nil {
		return nil, fmt.Errorf("bbs: serialize proof: %w", err)
	}
	return data, nil
}

// DeserializeProof parses bytes produced by SerializeProof.
func DeserializeProof(data []byte) (*ProofOfKnowledge, error) {
	var w wireProofOfKnowledge
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, ErrInvalidProofData
	}

	var aPrime, aBar, d bls12381.G1Affine
	if err := aPrime.Unmarshal(w.APrime); err != nil {
		return nil, ErrInvalidProofData
	}
	if err := aBar.Unmarshal(w.ABar); err != nil {
		return nil, ErrInvalidProofData
	}
	if err := d.Unmarshal(w.D); err != nil {
		return nil, ErrInvalidProofData
	}
	if len(w.C) == 0 || len(w.EHat) == 0 || len(w.SHat) == 0 {
		return nil, ErrInvalidProofData
	}

	mHat := make(map[int]*big.Int, len(w.MHat))
	for idx, b := range w.MHat {
		mHat[idx] = new(big.Int).SetBytes(b)
	}

	return &ProofOfKnowledge{
		APrime: aPrime,
		ABar:   aBar,
		D:      d,
		C:      new(big.Int).SetBytes(w.C),
		EHat:   new(big.Int).SetBytes(w.EHat),
		SHat:   new(big.Int).SetBytes(w.SHat),
		MHat:   mHat,
	}, nil
}
