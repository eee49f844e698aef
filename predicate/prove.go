package predicate

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
)

// Proof is a Groth16 proof for one predicate, plus the public inputs needed
// to verify it (the commitment hash and the predicate's bound(s)).
type Proof struct {
	Type   Type
	Proof  groth16.Proof
	Public Assignment // Value/Blinding left nil; only the public fields are meaningful
}

// Prove computes a Groth16 proof that Assignment.Value satisfies compiled's
// predicate and opens to Assignment.CommitmentHash.
func Prove(compiled *CompiledCircuit, assignment Assignment) (*Proof, error) {
	full := assignment.toCircuit(compiled.Type)
	witness, err := frontend.NewWitness(full, ecc.BLS12_381.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("predicate: build witness: %w", err)
	}

	proof, err := groth16.Prove(compiled.CS, compiled.PK, witness)
	if err != nil {
		return nil, fmt.Errorf("predicate: prove: %w", err)
	}

	return &Proof{
		Type:  compiled.Type,
		Proof: proof,
		Public: Assignment{
			CommitmentHash: assignment.CommitmentHash,
			Bound:          assignment.Bound,
			Low:            assignment.Low,
			High:           assignment.High,
		},
	}, nil
}

// Verify checks p against vk.
func Verify(compiled *CompiledCircuit, p *Proof) error {
	pubCircuit := p.Public.toPublicCircuit(compiled.Type)
	witness, err := frontend.NewWitness(pubCircuit, ecc.BLS12_381.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("predicate: build public witness: %w", err)
	}

	if err := groth16.Verify(p.Proof, compiled.VK, witness); err != nil {
		return common.ErrLegoGroth16
	}
	return nil
}
