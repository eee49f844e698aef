package api

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/fxamacker/cbor/v2"
	"github.com/multiformats/go-multibase"
	"github.com/rdf-proofs/rdfproofs-go/blind"
)

// encodeScalar multibase-encodes a scalar's big-endian bytes, the "compressed
// scalar, multibase(base64url, …)" wire form string callers exchange.
func encodeScalar(s *big.Int) (string, error) {
	return multibase.Encode(multibase.Base64url, s.Bytes())
}

func decodeScalar(s string) (*big.Int, error) {
	_, data, err := multibase.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("api: decode scalar: %w", err)
	}
	return new(big.Int).SetBytes(data), nil
}

func encodeG1(p bls12381.G1Affine) (string, error) {
	return multibase.Encode(multibase.Base64url, p.Marshal())
}

func decodeG1(s string) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	_, data, err := multibase.Decode(s)
	if err != nil {
		return p, fmt.Errorf("api: decode point: %w", err)
	}
	if err := p.Unmarshal(data); err != nil {
		return p, fmt.Errorf("api: unmarshal point: %w", err)
	}
	return p, nil
}

// wireBlindProof is the NIZK proof-of-opening half of a blind-sign request.
type wireBlindProof struct {
	T    []byte `cbor:"t"`
	RHat []byte `cbor:"r_hat"`
	SHat []byte `cbor:"s_hat"`
}

// wireBlindRequest is the CBOR structure multibase-encoded into a
// blind-sign-request string: the Pedersen commitment (A) and its opening
// proof (B).
type wireBlindRequest struct {
	A []byte          `cbor:"a"`
	B wireBlindProof `cbor:"b"`
}

// encodeBlindRequest serializes a blind.Request to the wire string an issuer
// receives out of band.
func encodeBlindRequest(req blind.Request) (string, error) {
	w := wireBlindRequest{
		A: req.Commitment.Marshal(),
		B: wireBlindProof{
			T:    req.T.Marshal(),
			RHat: req.RHat.Bytes(),
			SHat: req.SHat.Bytes(),
		},
	}
	data, err := cbor.Marshal(w)
	if err != nil {
		return "", err
	}
	return multibase.Encode(multibase.Base64url, data)
}

func decodeBlindRequest(s string) (blind.Request, error) {
	_, payload, err := multibase.Decode(s)
	if err != nil {
		return blind.Request{}, fmt.Errorf("api: decode blind request: %w", err)
	}
	var w wireBlindRequest
	if err := cbor.Unmarshal(payload, &w); err != nil {
		return blind.Request{}, fmt.Errorf("api: unmarshal blind request: %w", err)
	}
	var commitment, t bls12381.G1Affine
	if err := commitment.Unmarshal(w.A); err != nil {
		return blind.Request{}, fmt.Errorf("api: unmarshal commitment: %w", err)
	}
	if err := t.Unmarshal(w.B.T); err != nil {
		return blind.Request{}, fmt.Errorf("api: unmarshal proof commitment: %w", err)
	}
	return blind.Request{
		Commitment: commitment,
		T:          t,
		RHat:       new(big.Int).SetBytes(w.B.RHat),
		SHat:       new(big.Int).SetBytes(w.B.SHat),
	}, nil
}
