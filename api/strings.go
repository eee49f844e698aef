package api

import (
	"fmt"
	"io"
	"math/big"

	"github.com/multiformats/go-multibase"
	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/blind"
	"github.com/rdf-proofs/rdfproofs-go/keygraph"
	"github.com/rdf-proofs/rdfproofs-go/rdf"
)

// encodeBinary multibase-wraps anything exposing encoding.BinaryMarshaler,
// the common wire form for keys and signatures throughout this package.
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
		return fmt.Errorf("api: decode: %w", err)
	}
	return m.UnmarshalBinary(data)
}

// SignStrings is the string variant of Sign: doc and proof are N-Quads text,
// and the returned proof graph is serialized back to N-Quads.
func SignStrings(rng io.Reader, canon *rdf.Canonicalizer, docText, proofText string, keys *keygraph.Graph) (string, error) {
	doc, err := rdf.ParseNQuads(docText)
	if err != nil {
		return "", fmt.Errorf("api: parse doc: %w", err)
	}
	proof, err := rdf.ParseNQuads(proofText)
	if err != nil {
		return "", fmt.Errorf("api: parse proof: %w", err)
	}
	signed, err := Sign(rng, canon, doc, proof, keys)
	if err != nil {
		return "", err
	}
	return signed.NQuads(), nil
}

// VerifyStrings is the string variant of Verify.
func VerifyStrings(canon *rdf.Canonicalizer, docText, proofText string, keys *keygraph.Graph) error {
	doc, err := rdf.ParseNQuads(docText)
	if err != nil {
		return fmt.Errorf("api: parse doc: %w", err)
	}
	proof, err := rdf.ParseNQuads(proofText)
	if err != nil {
		return fmt.Errorf("api: parse proof: %w", err)
	}
	return Verify(canon, doc, proof, keys)
}

// RequestBlindSignString is the string variant of RequestBlindSign. It
// returns the request to hand the issuer (CBOR-then-multibase per
// blind.Request) and the blinding scalar the holder must keep to unblind the
// eventual signature.
func RequestBlindSignString(rng io.Reader, secretScalarText string, context, nonce []byte) (requestText, blindingText string, err error) {
	secretScalar, err := decodeScalar(secretScalarText)
	if err != nil {
		return "", "", err
	}
	session, err := RequestBlindSign(rng, secretScalar, context, nonce)
	if err != nil {
		return "", "", err
	}
	requestText, err = encodeBlindRequest(session.Request)
	if err != nil {
		return "", "", err
	}
	blindingText, err = encodeScalar(session.Blinding)
	if err != nil {
		return "", "", err
	}
	return requestText, blindingText, nil
}

// VerifyBlindSignRequestString is the string variant of
// VerifyBlindSignRequest.
func VerifyBlindSignRequestString(requestText string, context, nonce []byte) error {
	req, err := decodeBlindRequest(requestText)
	if err != nil {
		return err
	}
	return VerifyBlindSignRequest(req, context, nonce)
}

// BlindSignString is the string variant of BlindSign. uncommittedMessages
// maps an absolute message-slot index to its multibase-encoded scalar.
func BlindSignString(rng io.Reader, skText, pkText, requestText string, uncommittedMessages map[int]string, header []byte) (string, error) {
	var sk bbs.PrivateKey
	if err := decodeBinary(skText, &sk); err != nil {
		return "", err
	}
	var pk bbs.PublicKey
	if err := decodeBinary(pkText, &pk); err != nil {
		return "", err
	}
	req, err := decodeBlindRequest(requestText)
	if err != nil {
		return "", err
	}
	messages := make(map[int]*big.Int, len(uncommittedMessages))
	for idx, text := range uncommittedMessages {
		scalar, err := decodeScalar(text)
		if err != nil {
			return "", err
		}
		messages[idx] = scalar
	}
	sig, err := BlindSign(rng, &sk, &pk, req, messages, header)
	if err != nil {
		return "", err
	}
	return encodeBinary(sig)
}

// UnblindString is the string variant of Unblind. blindingText is the value
// RequestBlindSignString returned alongside the request.
func UnblindString(sigText, blindingText string) (string, error) {
	var sig bbs.Signature
	if err := decodeBinary(sigText, &sig); err != nil {
		return "", err
	}
	blinding, err := decodeScalar(blindingText)
	if err != nil {
		return "", err
	}
	unblinded := Unblind(&sig, &blind.Session{Blinding: blinding})
	return encodeBinary(unblinded)
}

// BlindVerifyString is the string variant of BlindVerify.
func BlindVerifyString(pkText, sigText, secretScalarText string, uncommittedMessages []string, header []byte) error {
	var pk bbs.PublicKey
	if err := decodeBinary(pkText, &pk); err != nil {
		return err
	}
	var sig bbs.Signature
	if err := decodeBinary(sigText, &sig); err != nil {
		return err
	}
	secretScalar, err := decodeScalar(secretScalarText)
	if err != nil {
		return err
	}
	messages := make([]*big.Int, len(uncommittedMessages))
	for i, text := range uncommittedMessages {
		scalar, err := decodeScalar(text)
		if err != nil {
			return err
		}
		messages[i] = scalar
	}
	return BlindVerify(&pk, &sig, secretScalar, messages, header)
}
