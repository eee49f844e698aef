// Package keygraph resolves a verification-method IRI to the key material
// (and, for issuers, the private key) needed to sign or verify a credential.
package keygraph

import (
	"strings"

	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
)

// KeyType identifies the cryptographic key type a verification method
// declares. Only Bls12381G2 keys are usable with this module's BBS+ suite.
type KeyType string

// Bls12381G2 is the only key type this module's cryptosuites accept.
const Bls12381G2 KeyType = "Bls12381G2Key2020"

// Entry is one verification method's resolved key material.
type Entry struct {
	PublicKey  *bbs.PublicKey
	PrivateKey *bbs.PrivateKey // nil for verification-only entries
	KeyType    KeyType
}

// Graph maps verification-method IRIs to their key material, the
// credential-signing analogue of a DID document's verificationMethod list.
type Graph struct {
	entries map[string]Entry
}

// New constructs an empty Graph.
func New() *Graph {
	return &Graph{entries: make(map[string]Entry)}
}

// Add registers a verification method. keyType defaults to Bls12381G2 when empty.
func (g *Graph) Add(verificationMethod string, entry Entry) {
	if entry.KeyType == "" {
		entry.KeyType = Bls12381G2
	}
	g.entries[verificationMethod] = entry
}

// Resolve looks up a verification method's key material.
func (g *Graph) Resolve(verificationMethod string) (Entry, error) {
	if !looksLikeIRI(verificationMethod) {
		return Entry{}, common.ErrInvalidVerificationMethodURL
	}
	entry, ok := g.entries[verificationMethod]
	if !ok {
		return Entry{}, common.ErrInvalidVerificationMethodURL
	}
	if entry.KeyType != Bls12381G2 {
		return Entry{}, common.ErrInvalidPublicKey
	}
	return entry, nil
}

func looksLikeIRI(s string) bool {
	return strings.Contains(s, ":") && !strings.ContainsAny(s, " \t\n")
}
