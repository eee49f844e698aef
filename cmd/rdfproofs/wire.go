package main

import (
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/rdf-proofs/rdfproofs-go/elgamal"
)

func encodeBinary(m interface{ MarshalBinary() ([]byte, error) }) (string, error) {
	data, err := m.MarshalBinary()
	if err != nil {
		return "", err
	}
	return multibase.Encode(multibase.Base64url, data)
}

func decodeBinary(s string, m interface{ UnmarshalBinary([]byte) error }) error {
	_, data, err := multibase.Decode(s)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return m.UnmarshalBinary(data)
}

func encodeElGamalPrivateKey(sk *elgamal.PrivateKey) (string, error) {
	return multibase.Encode(multibase.Base64url, sk.X.Bytes())
}

func encodeElGamalPublicKey(pk *elgamal.PublicKey) (string, error) {
	return multibase.Encode(multibase.Base64url, pk.Point.Marshal())
}
