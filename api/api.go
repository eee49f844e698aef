// Package api exposes the library's flat function surface: sign, verify,
// the blind-issuance round trip, proof derivation and verification, and
// opener keygen — the structured variants operating on parsed RDF datasets
// and native key/proof values, each paired with a string variant in
// strings.go for callers outside this module's type system.
package api

import (
	"io"
	"math/big"

	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/blind"
	"github.com/rdf-proofs/rdfproofs-go/credential"
	"github.com/rdf-proofs/rdfproofs-go/elgamal"
	"github.com/rdf-proofs/rdfproofs-go/keygraph"
	"github.com/rdf-proofs/rdfproofs-go/presentation"
	"github.com/rdf-proofs/rdfproofs-go/rdf"
)

// Sign signs doc under proof (see package credential) and returns proof with
// a proofValue triple appended.
func Sign(rng io.Reader, canon *rdf.Canonicalizer, doc, proof rdf.Dataset, keys *keygraph.Graph) (rdf.Dataset, error) {
	return credential.Sign(rng, canon, doc, proof, keys)
}

// Verify checks a signed credential.
func Verify(canon *rdf.Canonicalizer, doc, proof rdf.Dataset, keys *keygraph.Graph) error {
	return credential.Verify(canon, doc, proof, keys)
}

// RequestBlindSign builds a holder's blind-signature request for secretScalar.
func RequestBlindSign(rng io.Reader, secretScalar *big.Int, context, nonce []byte) (*blind.Session, error) {
	return blind.NewRequest(rng, secretScalar, context, nonce)
}

// VerifyBlindSignRequest checks a holder's request on the issuer side.
func VerifyBlindSignRequest(req blind.Request, context, nonce []byte) error {
	return blind.VerifyRequest(req, context, nonce)
}

// BlindSign issues a signature over a verified commitment plus plaintext messages.
func BlindSign(rng io.Reader, sk *bbs.PrivateKey, pk *bbs.PublicKey, req blind.Request, uncommittedMessages map[int]*big.Int, header []byte) (*bbs.Signature, error) {
	return blind.Issue(rng, sk, pk, req, uncommittedMessages, header)
}

// Unblind removes the holder's blinding factor from an issuer-blinded signature.
func Unblind(sig *bbs.Signature, session *blind.Session) *bbs.Signature {
	return blind.Unblind(sig, session)
}

// BlindVerify checks an unblinded bound signature.
func BlindVerify(pk *bbs.PublicKey, sig *bbs.Signature, secretScalar *big.Int, uncommittedMessages []*big.Int, header []byte) error {
	return blind.Verify(pk, sig, secretScalar, uncommittedMessages, header)
}

// DeriveProof builds a verifiable presentation (see package presentation).
func DeriveProof(rng io.Reader, req presentation.BuildRequest) (*presentation.Presentation, error) {
	return presentation.NewBuilder().Build(rng, req)
}

// VerifyProof checks a built presentation.
func VerifyProof(p *presentation.Presentation, req presentation.VerifyRequest) error {
	return presentation.NewVerifier().Verify(p, req)
}

// ElGamalKeygen generates a fresh opener key pair for verifiable encryption.
func ElGamalKeygen(rng io.Reader) (*elgamal.PrivateKey, *elgamal.PublicKey, error) {
	return elgamal.GenerateKeyPair(rng)
}
