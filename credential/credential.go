// Package credential implements plain (non-blind) BBS+ issuance and
// verification of RDF credentials: a document graph paired with a proof
// configuration graph, signed as one encoded message vector.
package credential

import (
	"io"
	"time"

	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/encode"
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
	"github.com/rdf-proofs/rdfproofs-go/keygraph"
	"github.com/rdf-proofs/rdfproofs-go/rdf"
	"github.com/rdf-proofs/rdfproofs-go/vocab"
)

// Cryptosuite identifiers for plain and bound signatures. This package's
// Sign/Verify accept only CryptosuiteSign.
const (
	CryptosuiteSign      = common.CryptosuiteSign
	CryptosuiteBoundSign = common.CryptosuiteBoundSign
)

// proofConfig describes a proof-config graph once its structural fields have
// been located and validated.
type proofConfig struct {
	node               rdf.Term
	cryptosuite        string
	verificationMethod string
	created            string
	proofValue         string // empty if not yet signed
}

func extractProofConfig(proof rdf.Dataset, wantCryptosuite string) (proofConfig, error) {
	var cfg proofConfig
	found := false

	for _, t := range proof.WithPredicate(rdf.IRI(vocab.RDFType)) {
		if t.Object == rdf.IRI(vocab.DataIntegrityProof) {
			cfg.node = t.Subject
			found = true
			break
		}
	}
	if !found {
		return proofConfig{}, common.ErrInvalidProofConfiguration
	}

	for _, t := range proof.WithSubject(cfg.node) {
		switch t.Predicate {
		case rdf.IRI(vocab.CryptosuiteProperty):
			cfg.cryptosuite = t.Object.Value
		case rdf.IRI(vocab.VerificationMethod):
			cfg.verificationMethod = t.Object.Value
		case rdf.IRI(vocab.CreatedProperty):
			cfg.created = t.Object.Value
		case rdf.IRI(vocab.ProofValueProperty):
			cfg.proofValue = t.Object.Value
		}
	}

	if cfg.cryptosuite != wantCryptosuite {
		return proofConfig{}, common.ErrInvalidProofConfiguration
	}
	if cfg.verificationMethod == "" {
		return proofConfig{}, common.ErrInvalidVerificationMethodURL
	}
	if _, err := time.Parse(time.RFC3339, cfg.created); err != nil {
		return proofConfig{}, common.ErrInvalidProofDatetime
	}

	return cfg, nil
}

// withoutProofValue returns proof with the proofValue triple (if any) removed.
func withoutProofValue(proof rdf.Dataset, node rdf.Term) rdf.Dataset {
	out := make(rdf.Dataset, 0, len(proof))
	for _, t := range proof {
		if t.Subject == node && t.Predicate == rdf.IRI(vocab.ProofValueProperty) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sign signs doc under proof (a DataIntegrityProof configuration with
// cryptosuite bbs-termwise-signature-2023), and returns proof with a
// proofValue triple appended. keys resolves the configuration's
// verificationMethod to signing key material.
func Sign(rng io.Reader, canon *rdf.Canonicalizer, doc, proof rdf.Dataset, keys *keygraph.Graph) (rdf.Dataset, error) {
	cfg, err := extractProofConfig(proof, CryptosuiteSign)
	if err != nil {
		return nil, err
	}

	entry, err := keys.Resolve(cfg.verificationMethod)
	if err != nil {
		return nil, err
	}
	if entry.PrivateKey == nil {
		return nil, common.ErrInvalidVerificationMethodURL
	}

	strippedProof := withoutProofValue(proof, cfg.node)

	messages, err := encode.Encode(canon, doc, strippedProof, encode.SecretSlotUnbound())
	if err != nil {
		return nil, err
	}

	pk := bbs.PublicKeyForMessageCount(entry.PublicKey, len(messages))
	signature, err := bbs.Sign(rng, entry.PrivateKey, pk, messages, nil)
	if err != nil {
		return nil, common.ErrInvalidSignature
	}

	encoded, err := bbs.EncodeSignature(signature)
	if err != nil {
		return nil, err
	}

	signed := append(rdf.Dataset{}, strippedProof...)
	signed = append(signed, rdf.Triple{
		Subject:   cfg.node,
		Predicate: rdf.IRI(vocab.ProofValueProperty),
		Object:    rdf.Literal(encoded, vocab.XSDString),
	})
	return signed, nil
}

// Verify checks doc against proof (which must carry a proofValue), resolving
// the verification method's key material from keys.
func Verify(canon *rdf.Canonicalizer, doc, proof rdf.Dataset, keys *keygraph.Graph) error {
	cfg, err := extractProofConfig(proof, CryptosuiteSign)
	if err != nil {
		return err
	}
	if cfg.proofValue == "" {
		return common.ErrMalformedProof
	}

	entry, err := keys.Resolve(cfg.verificationMethod)
	if err != nil {
		return err
	}

	signature, err := bbs.DecodeSignature(cfg.proofValue)
	if err != nil {
		return common.ErrMalformedProof
	}

	strippedProof := withoutProofValue(proof, cfg.node)
	messages, err := encode.Encode(canon, doc, strippedProof, encode.SecretSlotUnbound())
	if err != nil {
		return err
	}

	pk := bbs.PublicKeyForMessageCount(entry.PublicKey, len(messages))
	if err := bbs.Verify(pk, signature, messages, nil); err != nil {
		return common.ErrInvalidSignature
	}
	return nil
}
