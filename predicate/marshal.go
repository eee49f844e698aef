package predicate

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
)

// MarshalProof serializes p's Groth16 proof and public fields to bytes,
// the form a presentation's CBOR proof envelope embeds one of per predicate.
func MarshalProof(p *Proof) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.Proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("predicate: marshal proof: %w", err)
	}
	body := buf.Bytes()

	out := make([]byte, 0, len(body)+4)
	out = append(out, byte(p.Type))
	out = appendScalar(out, p.Public.CommitmentHash)
	out = appendScalar(out, p.Public.Bound)
	out = appendScalar(out, p.Public.Low)
	out = appendScalar(out, p.Public.High)
	lenBytes := make([]byte, 4)
	n := len(body)
	lenBytes[0] = byte(n >> 24)
	lenBytes[1] = byte(n >> 16)
	lenBytes[2] = byte(n >> 8)
	lenBytes[3] = byte(n)
	out = append(out, lenBytes...)
	out = append(out, body...)
	return out, nil
}

// UnmarshalProof parses the bytes MarshalProof produced.
func UnmarshalProof(data []byte) (*Proof, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("predicate: unmarshal proof: empty input")
	}
	t := Type(data[0])
	offset := 1

	commitmentHash, offset := readScalar(data, offset)
	bound, offset := readScalar(data, offset)
	low, offset := readScalar(data, offset)
	high, offset := readScalar(data, offset)

	if offset+4 > len(data) {
		return nil, fmt.Errorf("predicate: unmarshal proof: truncated length")
	}
	n := int(data[offset])<<24 | int(data[offset+1])<<16 | int(data[offset+2])<<8 | int(data[offset+3])
	offset += 4
	if offset+n > len(data) {
		return nil, fmt.Errorf("predicate: unmarshal proof: truncated body")
	}

	proof := groth16.NewProof(ecc.BLS12_381)
	if _, err := proof.ReadFrom(bytes.NewReader(data[offset : offset+n])); err != nil {
		return nil, fmt.Errorf("predicate: unmarshal proof: %w", err)
	}

	return &Proof{
		Type:  t,
		Proof: proof,
		Public: Assignment{
			CommitmentHash: commitmentHash,
			Bound:          bound,
			Low:            low,
			High:           high,
		},
	}, nil
}

func appendScalar(out []byte, v *big.Int) []byte {
	if v == nil {
		return append(out, 0)
	}
	b := v.Bytes()
	out = append(out, byte(len(b)))
	return append(out, b...)
}

func readScalar(data []byte, offset int) (*big.Int, int) {
	if offset >= len(data) {
		return nil, offset
	}
	n := int(data[offset])
	offset++
	if n == 0 {
		return nil, offset
	}
	if offset+n > len(data) {
		return nil, offset
	}
	v := new(big.Int).SetBytes(data[offset : offset+n])
	return v, offset + n
}
