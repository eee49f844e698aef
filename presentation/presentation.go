// Package presentation builds and verifies verifiable presentations: a
// holder's selective disclosure of one or more signed credentials, bound
// together with optional pseudonym, verifiable-encryption, secret-commitment
// and predicate statements into one composite zero-knowledge proof (package
// compose), and assembled as a signed RDF dataset a verifier can check
// without any further interaction with the holder.
//
// A presentation's per-credential proof obligations are expressed the same
// way a credential's own signing proof is (package credential): a document
// graph and a proof-configuration graph, jointly canonicalized and encoded
// into a BBS+ message vector (package encode). What differs is that only a
// subset of the document's triples are disclosed; the rest remain hidden
// behind the BBS+ proof of knowledge, and a StatementIndexMap records, for
// each disclosed triple, where it sat in the full credential so a verifier
// who never sees the hidden triples can still recompute the right BBS+
// generator and message-vector position for every term it does see.
package presentation

import (
	"math/big"

	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/compose"
	"github.com/rdf-proofs/rdfproofs-go/deanon"
	"github.com/rdf-proofs/rdfproofs-go/elgamal"
	"github.com/rdf-proofs/rdfproofs-go/keygraph"
	"github.com/rdf-proofs/rdfproofs-go/predicate"
	"github.com/rdf-proofs/rdfproofs-go/rdf"
)

// StatementIndexMap records, for one credential's disclosed subgraph, the
// position each disclosed triple held in the full credential's canonical
// triple ordering — document triples and proof-configuration triples
// tracked separately, since package encode lays out a message vector as
// [secret, doc terms..., delimiter, proof terms...] and needs both lengths
// to compute a term's message index from its triple index.
type StatementIndexMap struct {
	DocumentMap []int `cbor:"document_map"`
	DocumentLen int   `cbor:"document_len"`
	ProofMap    []int `cbor:"proof_map"`
	ProofLen    int   `cbor:"proof_len"`
}

// CredentialPair is one credential a holder discloses as part of a
// presentation.
type CredentialPair struct {
	// PublicKey is the issuer's key, already sized to this credential's
	// message count (see bbs.PublicKeyForMessageCount).
	PublicKey *bbs.PublicKey
	Signature *bbs.Signature

	// Doc and Proof are the credential's full original document and
	// proof-configuration graphs (Proof stripped of its proofValue triple,
	// matching what was actually signed).
	Doc, Proof rdf.Dataset

	// Disclosed is the holder-chosen subset of Doc's triples to reveal,
	// after substituting any deanon.Map placeholder terms. DisclosedProof
	// is the same for Proof; nil means disclose all of Proof (the common
	// case — a credential's proof configuration is metadata, not secret).
	Disclosed      rdf.Dataset
	DisclosedProof rdf.Dataset

	// Bound is true iff message slot 0 of this credential holds Hash(secret)
	// — i.e. it was issued via blind issuance and belongs to the
	// presentation's secret-equality set.
	Bound bool

	Header             []byte
	VerificationMethod string
}

// PredicateRequest is one predicate a holder proves about a hidden document
// value.
type PredicateRequest struct {
	Compiled     *predicate.CompiledCircuit
	Value        *big.Int
	Blinding     *big.Int
	Bound        *big.Int
	Low, High    *big.Int
}

// BuildRequest is everything a PresentationBuilder needs to assemble one
// verifiable presentation.
type BuildRequest struct {
	Credentials []CredentialPair
	Keys        *keygraph.Graph
	DeanonMap   deanon.Map

	// Secret is the holder secret backing any Bound credential, PPID,
	// secret commitment or verifiable encryption in this request. Pass nil
	// if none of those are requested.
	Secret []byte

	Challenge string
	Domain    string

	// PPIDDomain, if non-empty, requests a pairwise pseudonym derived under
	// base(PPIDDomain).
	PPIDDomain string

	// OpenerPublicKey, if non-nil, requests a verifiable ElGamal encryption
	// of the holder secret for this opener.
	OpenerPublicKey *elgamal.PublicKey

	// SecretCommitment requests a fresh Pedersen commitment to the holder
	// secret, carried in the VP for a later blind-issuance round.
	SecretCommitment bool

	Predicates []PredicateRequest

	// canonicalizer is shared across the build so every dataset this
	// request touches is canonicalized the same way.
	Canonicalizer *rdf.Canonicalizer
}

// DisclosedCredential is one credential's disclosed content inside a built
// Presentation. Credentials are kept distinct rather than flattened into one
// shared graph: a holder's disclosed document never shares blank-node scope
// with another credential's, and keeping them separate avoids inventing
// synthetic wrapper nodes with no cryptographic meaning just to regroup them.
type DisclosedCredential struct {
	Disclosed          rdf.Dataset
	DisclosedProof     rdf.Dataset
	VerificationMethod string
}

// Presentation is a built verifiable presentation: the VP-level scaffold
// graph (type, proof configuration, holder, challenge/domain, any
// commitments), each disclosed credential, and the composite proof bytes
// embedded as the proof configuration's proofValue.
type Presentation struct {
	Dataset     rdf.Dataset
	Credentials []DisclosedCredential
	ProofValue  string // multibase(base64url, CBOR({proof, index_map, equality_groups}))
}

// VerifyCredentialRequest is the verifier-known counterpart to CredentialPair:
// everything about one disclosed credential a verifier must supply that
// isn't already present in the Presentation itself.
type VerifyCredentialRequest struct {
	// Bound must match the Bound value the holder built this credential's
	// statement with: true if its hidden slot 0 belongs to the
	// presentation's secret-equality set.
	Bound  bool
	Header []byte
}

// VerifyRequest is everything a PresentationVerifier needs to check one
// built Presentation. Credentials must list one entry per
// Presentation.Credentials, in the same order.
type VerifyRequest struct {
	Keys        *keygraph.Graph
	Credentials []VerifyCredentialRequest

	Challenge string
	Domain    string

	// PPIDDomain, if non-empty, asserts the presentation's holder IRI must be
	// a pseudonym derived under base(PPIDDomain).
	PPIDDomain string

	// OpenerPublicKey, if non-nil, asserts the presentation carries a
	// verifiable encryption of the holder secret for this opener.
	OpenerPublicKey *elgamal.PublicKey

	// SecretCommitment asserts the presentation carries a fresh Pedersen
	// commitment to the holder secret.
	SecretCommitment bool

	// Predicates lists the compiled circuits the presentation's predicate
	// proofs must verify against, in the same order compose.Prove received them.
	Predicates []*predicate.CompiledCircuit
}
