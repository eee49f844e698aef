package bbs

import (
	"fmt"

	"github.com/multiformats/go-multibase"
)

// EncodeSignature renders a signature as multibase(base64url, compact bytes),
// the wire form attached as a credential's proofValue.
func EncodeSignature(sig *Signature) (string, error) {
	data, err := SerializeSignature(sig)
	if err != nil {
		return "", err
	}
	return multibase.Encode(multibase.Base64url, data)
}

// DecodeSignature parses a multibase-encoded signature.
func DecodeSignature(s string) (*Signature, error) {
	_, data, err := multibase.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode signature multibase: %w", err)
	}
	return DeserializeSignature(data)
}

// EncodeProof renders a proof-of-knowledge as multibase(base64url, compact bytes).
func EncodeProof(proof *ProofOfKnowledge) (string, error) {
	data, err := SerializeProof(proof)
	if err != nil {
		return "", err
	}
	return multibase.Encode(multibase.Base64url, data)
}

// DecodeProof parses a multibase-encoded proof-of-knowledge.
func DecodeProof(s string) (*ProofOfKnowledge, error) {
	_, data, err := multibase.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode proof multibase: %w", err)
	}
	return DeserializeProof(data)
}
