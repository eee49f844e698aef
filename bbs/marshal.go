package bbs

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/fxamacker/cbor/v2"
)

// wirePrivateKey is the CBOR mirror of a PrivateKey's MarshalBinary form.
type wirePrivateKey struct {
	X []byte `cbor:"x"`
}

// MarshalBinary encodes a PrivateKey, the form api's string/wire variants
// multibase-wrap for a holder's or issuer's secret scalar.
func (sk *PrivateKey) MarshalBinary() ([]byte, error) {
	data, err := cbor.Marshal(wirePrivateKey{X: sk.X.Bytes()})
	if err != nil {
		return nil, fmt.Errorf("bbs: marshal private key: %w", err)
	}
	return data, nil
}

// UnmarshalBinary decodes a PrivateKey from MarshalBinary's form.
func (sk *PrivateKey) UnmarshalBinary(data []byte) error {
	var w wirePrivateKey
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("bbs: unmarshal private key: %w", err)
	}
	sk.X = new(big.Int).SetBytes(w.X)
	return nil
}

// wirePublicKey is the CBOR mirror of a PublicKey's MarshalBinary form. H
// is the generator list, sized to MessageCount+2 (Q1, Q2, then one per
// message-vector slot).
type wirePublicKey struct {
	MessageCount int      `cbor:"message_count"`
	W            []byte   `cbor:"w"`
	G1           []byte   `cbor:"g1"`
	G2           []byte   `cbor:"g2"`
	H            [][]byte `cbor:"h"`
}

// MarshalBinary encodes a PublicKey, including every message-vector-slot
// generator in H, so a decoded key needs no re-derivation to verify
// against a signature of the same MessageCount.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	h := make([][]byte, len(pk.H))
	for i, g := range pk.H {
		h[i] = g.Marshal()
	}

	data, err := cbor.Marshal(wirePublicKey{
		MessageCount: pk.MessageCount,
		W:            pk.W.Marshal(),
		G1:           pk.G1.Marshal(),
		G2:           pk.G2.Marshal(),
		H:            h,
	})
	if err != nil {
		return nil, fmt.Errorf("bbs: marshal public key: %w", err)
	}
	return data, nil
}

// UnmarshalBinary decodes a PublicKey from MarshalBinary's form.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	var w wirePublicKey
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("bbs: unmarshal public key: %w", err)
	}

	if err := pk.W.Unmarshal(w.W); err != nil {
		return fmt.Errorf("bbs: unmarshal public key W: %w", err)
	}
	if err := pk.G1.Unmarshal(w.G1); err != nil {
		return fmt.Errorf("bbs: unmarshal public key G1: %w", err)
	}
	if err := pk.G2.Unmarshal(w.G2); err != nil {
		return fmt.Errorf("bbs: unmarshal public key G2: %w", err)
	}

	pk.MessageCount = w.MessageCount
	pk.H = make([]bls12381.G1Affine, len(w.H))
	for i, b := range w.H {
		if err := pk.H[i].Unmarshal(b); err != nil {
			return fmt.Errorf("bbs: unmarshal public key H[%d]: %w", i, err)
		}
	}
	return nil
}

// MarshalBinary encodes a Signature as the same CBOR bytes
// SerializeSignature produces.
func (sig *Signature) MarshalBinary() ([]byte, error) {
	return SerializeSignature(sig)
}

// UnmarshalBinary decodes a Signature from MarshalBinary's form.
func (sig *Signature) UnmarshalBinary(data []byte) error {
	decoded, err := DeserializeSignature(data)
	if err != nil {
		return err
	}
	*sig = *decoded
	return nil
}
