package presentation

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/rdf-proofs/rdfproofs-go/compose"
)

// envelope is the CBOR structure multibase-encoded into a presentation's
// proofValue: the composite proof bytes (package compose's own wire format),
// one StatementIndexMap per disclosed credential in credential order, and
// the term-equality groups the proof attests to. EqualityGroups travels
// alongside the proof rather than being rediscovered by the verifier,
// because a verifier never sees a credential's hidden triples and so has no
// way to notice on its own that two hidden terms were claimed equal.
type envelope struct {
	Proof          []byte                  `cbor:"proof"`
	IndexMap       []StatementIndexMap     `cbor:"index_map"`
	EqualityGroups [][]compose.EqualityRef `cbor:"equality_groups,omitempty"`
}

func marshalEnvelope(proof []byte, indexMaps []StatementIndexMap, equalityGroups [][]compose.EqualityRef) ([]byte, error) {
	return cbor.Marshal(envelope{Proof: proof, IndexMap: indexMaps, EqualityGroups: equalityGroups})
}

func unmarshalEnvelope(data []byte) ([]byte, []StatementIndexMap, [][]compose.EqualityRef, error) {
	var e envelope
	if err := cbor.Unmarshal(data, &e); err != nil {
		return nil, nil, nil, fmt.Errorf("presentation: unmarshal envelope: %w", err)
	}
	return e.Proof, e.IndexMap, e.EqualityGroups, nil
}
