// Package predicate compiles and proves zero-knowledge range/comparison
// statements about a hidden message value, binding each proof to the same
// value a BBS+ proof of knowledge commits to via a hash commitment shared
// between the two. This approximates LegoGroth16's commit-and-prove
// extension (a Groth16 circuit whose public input is a commitment it also
// opens) using plain Groth16 plus an explicit commitment-equality gadget,
// since gnark does not ship LegoGroth16 itself.
package predicate

import (
	"math/big"

	"github.com/rdf-proofs/rdfproofs-go/internal/common"
	"github.com/rdf-proofs/rdfproofs-go/vocab"
)

// Type identifies one of the five predicate shapes this package compiles circuits for.
type Type int

const (
	Equals Type = iota
	NotEquals
	LessThan
	GreaterThan
	InRange
)

// CircuitID returns the zkp-ld:circuit identifier a predicate graph names for t.
func (t Type) CircuitID() string {
	switch t {
	case Equals:
		return vocab.CircuitEquals
	case NotEquals:
		return vocab.CircuitNotEquals
	case LessThan:
		return vocab.CircuitLessThan
	case GreaterThan:
		return vocab.CircuitGreaterThan
	case InRange:
		return vocab.CircuitInRange
	default:
		return ""
	}
}

// Predicate is one statement a holder proves about a hidden message: the
// message at MessageIndex in its credential's encoded vector satisfies Type
// against Bound (or [Low, High] for InRange).
type Predicate struct {
	MessageIndex int
	Type         Type
	Bound        *big.Int
	Low, High    *big.Int // InRange only
}

// CircuitFor resolves a zkp-ld:circuit identifier to the Type that compiles it.
func CircuitFor(circuitID string) (Type, error) {
	switch circuitID {
	case vocab.CircuitEquals:
		return Equals, nil
	case vocab.CircuitNotEquals:
		return NotEquals, nil
	case vocab.CircuitLessThan:
		return LessThan, nil
	case vocab.CircuitGreaterThan:
		return GreaterThan, nil
	case vocab.CircuitInRange:
		return InRange, nil
	default:
		return 0, common.ErrMissingPredicateCircuit
	}
}
