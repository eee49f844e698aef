package predicate

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	mimcnative "github.com/consensys/gnark-crypto/ecc/bls12-381/fr/mimc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// CompiledCircuit is a predicate type's compiled R1CS plus its Groth16 keys,
// produced once per predicate type and reused across many proofs.
type CompiledCircuit struct {
	Type Type
	CS   constraint.ConstraintSystem
	PK   groth16.ProvingKey
	VK   groth16.VerifyingKey
}

// Compile builds the R1CS and runs the Groth16 trusted setup for predicate type t.
//
// A real deployment would run this setup once per circuit via an MPC
// ceremony and distribute the resulting keys; doing it locally per process
// here is the honest placeholder for that ceremony.
func Compile(t Type) (*CompiledCircuit, error) {
	tpl := newCircuit(t)
	ccs, err := frontend.Compile(ecc.BLS12_381.ScalarField(), r1cs.NewBuilder, tpl)
	if err != nil {
		return nil, err
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, err
	}
	return &CompiledCircuit{Type: t, CS: ccs, PK: pk, VK: vk}, nil
}

// CommitmentHash computes the binding hash shared between a predicate
// circuit's public input and the value it opens, using the same MiMC
// permutation the in-circuit gadget uses.
func CommitmentHash(value, blinding *big.Int) (*big.Int, error) {
	h := mimcnative.NewMiMC()
	h.Write(leftPad(value))
	h.Write(leftPad(blinding))
	sum := h.Sum(nil)
	return new(big.Int).SetBytes(sum), nil
}

func leftPad(v *big.Int) []byte {
	b := v.Bytes()
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

// Assignment is the full witness (public + private) for one predicate proof.
type Assignment struct {
	Value, Blinding, CommitmentHash *big.Int
	Bound                           *big.Int // Equals/NotEquals/LessThan/GreaterThan
	Low, High                       *big.Int // InRange
}

func (a Assignment) toCircuit(t Type) frontend.Circuit {
	switch t {
	case Equals:
		return &EqualsCircuit{circuit: circuit{Value: a.Value, Blinding: a.Blinding, CommitmentHash: a.CommitmentHash}, Bound: a.Bound}
	case NotEquals:
		return &NotEqualsCircuit{circuit: circuit{Value: a.Value, Blinding: a.Blinding, CommitmentHash: a.CommitmentHash}, Bound: a.Bound}
	case LessThan:
		return &LessThanCircuit{circuit: circuit{Value: a.Value, Blinding: a.Blinding, CommitmentHash: a.CommitmentHash}, Bound: a.Bound}
	case GreaterThan:
		return &GreaterThanCircuit{circuit: circuit{Value: a.Value, Blinding: a.Blinding, CommitmentHash: a.CommitmentHash}, Bound: a.Bound}
	case InRange:
		return &InRangeCircuit{circuit: circuit{Value: a.Value, Blinding: a.Blinding, CommitmentHash: a.CommitmentHash}, Low: a.Low, High: a.High}
	default:
		return nil
	}
}

func (a Assignment) toPublicCircuit(t Type) frontend.Circuit {
	switch t {
	case Equals:
		return &EqualsCircuit{circuit: circuit{CommitmentHash: a.CommitmentHash}, Bound: a.Bound}
	case NotEquals:
		return &NotEqualsCircuit{circuit: circuit{CommitmentHash: a.CommitmentHash}, Bound: a.Bound}
	case LessThan:
		return &LessThanCircuit{circuit: circuit{CommitmentHash: a.CommitmentHash}, Bound: a.Bound}
	case GreaterThan:
		return &GreaterThanCircuit{circuit: circuit{CommitmentHash: a.CommitmentHash}, Bound: a.Bound}
	case InRange:
		return &InRangeCircuit{circuit: circuit{CommitmentHash: a.CommitmentHash}, Low: a.Low, High: a.High}
	default:
		return nil
	}
}
