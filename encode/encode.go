// Package encode turns a canonicalized credential graph into the ordered
// scalar vector package bbs signs and proves over: one hash per subject,
// predicate and object term, a delimiter between the document and the proof
// configuration, and a reserved slot for the holder's secret.
package encode

import (
	"math/big"
	"sort"
	"sync"

	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
	"github.com/rdf-proofs/rdfproofs-go/rdf"
)

// TermHasher hashes RDF terms to BLS12-381 scalar field elements under a
// fixed domain-separation tag, so that the same term always hashes to the
// same scalar regardless of which message vector it ends up in.
type TermHasher struct{}

// Hash maps t's canonical lexical form to a scalar.
func (TermHasher) Hash(t rdf.Term) (*big.Int, error) {
	scalar, err := bbs.HashToScalar([]byte(t.String()), []byte(common.MapToScalarAsHashDST))
	if err != nil {
		return nil, common.ErrHashToField
	}
	return scalar, nil
}

var (
	delimiterOnce  sync.Once
	delimiterValue *big.Int
	delimiterErr   error
)

// Delimiter returns the fixed scalar separating document terms from
// proof-configuration terms in an encoded message vector. It is the hash of
// the literal byte string "DELIMITER" under the same DST as term hashing,
// computed once and cached for the lifetime of the process.
func Delimiter() (*big.Int, error) {
	delimiterOnce.Do(func() {
		delimiterValue, delimiterErr = bbs.HashToScalar([]byte(common.Delimiter), []byte(common.MapToScalarAsHashDST))
	})
	return delimiterValue, delimiterErr
}

// SecretSlotUnbound is the value placed at index 0 of an encoded message
// vector for a credential that does not bind a holder secret.
func SecretSlotUnbound() *big.Int {
	return big.NewInt(1)
}

// HashSecret maps a holder secret to its scalar slot-0 value.
func HashSecret(secret []byte) (*big.Int, error) {
	scalar, err := bbs.HashToScalar(secret, []byte(common.MapToScalarAsHashDST))
	if err != nil {
		return nil, common.ErrHashToField
	}
	return scalar, nil
}

// Encode produces the ordered scalar vector for a credential: canonicalize
// doc and proof jointly (so blank nodes shared between them get one label),
// sort each into canonical N-Triples order, and emit
// [secretSlot, doc terms..., delimiter, proof terms...].
//
// canon must be the same Canonicalizer instance (or an equivalent one) used
// everywhere else this credential is handled, since the canonical labelling
// it assigns is what TermHash operates over.
func Encode(canon *rdf.Canonicalizer, doc, proof rdf.Dataset, secretSlot *big.Int) ([]*big.Int, error) {
	sortedDoc, sortedProof, _, err := CanonicalOrder(canon, doc, proof)
	if err != nil {
		return nil, err
	}

	delimiter, err := Delimiter()
	if err != nil {
		return nil, err
	}

	hasher := TermHasher{}
	messages := make([]*big.Int, 0, 1+3*len(sortedDoc)+1+3*len(sortedProof))
	messages = append(messages, secretSlot)

	for _, t := range sortedDoc {
		hs, err := pushTerms(hasher, t)
		if err != nil {
			return nil, err
		}
		messages = append(messages, hs...)
	}

	messages = append(messages, delimiter)

	for _, t := range sortedProof {
		hs, err := pushTerms(hasher, t)
		if err != nil {
			return nil, err
		}
		messages = append(messages, hs...)
	}

	return messages, nil
}

// CanonicalOrder canonicalizes doc and proof jointly and returns each half
// sorted into the canonical N-Triples order Encode assigns message-vector
// positions by, along with the blank-node relabeling the canonicalization
// applied (original label -> canonical label). Callers that need to know
// which message index a particular triple ended up at (package presentation,
// matching a holder's disclosed subgraph against the full encoded vector) or
// that need to translate a deanonymization map expressed in the credential's
// original blank labels into the canonical labels sortedDoc/sortedProof use,
// call this directly instead of duplicating Encode's canonicalization step.
func CanonicalOrder(canon *rdf.Canonicalizer, doc, proof rdf.Dataset) (sortedDoc, sortedProof rdf.Dataset, relabel map[string]string, err error) {
	joint := append(append(rdf.Dataset{}, doc...), proof...)
	canonicalJoint, relabel, err := canon.Canonicalize(joint)
	if err != nil {
		return nil, nil, nil, err
	}

	canonicalDoc := canonicalJoint[:len(doc)]
	canonicalProof := canonicalJoint[len(doc):]

	return sortTriples(canonicalDoc), sortTriples(canonicalProof), relabel, nil
}

func pushTerms(hasher TermHasher, t rdf.Triple) ([]*big.Int, error) {
	s, err := hasher.Hash(t.Subject)
	if err != nil {
		return nil, err
	}
	p, err := hasher.Hash(t.Predicate)
	if err != nil {
		return nil, err
	}
	o, err := hasher.Hash(t.Object)
	if err != nil {
		return nil, err
	}
	return []*big.Int{s, p, o}, nil
}

func sortTriples(d rdf.Dataset) rdf.Dataset {
	sorted := d.Clone()
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})
	return sorted
}

// MessageCount returns the message-vector length Encode would produce for a
// document with docLen triples and a proof configuration with proofLen
// triples, used to derive BBS+ parameters before the vector itself exists.
func MessageCount(docLen, proofLen int) int {
	return 1 + 3*docLen + 1 + 3*proofLen
}

// DocTripleIndices returns the message-vector indices of the i-th document
// triple's subject, predicate and object (0-indexed into the sorted document).
func DocTripleIndices(i int) (s, p, o int) {
	base := 1 + 3*i
	return base, base + 1, base + 2
}

// ProofTripleIndices returns the message-vector indices of the i-th
// proof-configuration triple's subject, predicate and object, given the
// document length (needed to skip past the document's terms and the delimiter).
func ProofTripleIndices(docLen, i int) (s, p, o int) {
	base := 1 + 3*docLen + 1 + 3*i
	return base, base + 1, base + 2
}
