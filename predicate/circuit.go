package predicate

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// circuit is the shared shape of every predicate circuit in this package: a
// hidden value and the blinding factor that opens its commitment, the
// commitment hash itself (public, so it can be checked against the value the
// outer BBS+ proof of knowledge reveals an equality witness for), and
// whatever public bound(s) the predicate names.
type circuit struct {
	Value          frontend.Variable `gnark:",secret"`
	Blinding       frontend.Variable `gnark:",secret"`
	CommitmentHash frontend.Variable `gnark:",public"`
}

func (c *circuit) assertCommitment(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(c.Value, c.Blinding)
	api.AssertIsEqual(h.Sum(), c.CommitmentHash)
	return nil
}

// EqualsCircuit proves Value == Bound.
type EqualsCircuit struct {
	circuit
	Bound frontend.Variable `gnark:",public"`
}

func (c *EqualsCircuit) Define(api frontend.API) error {
	if err := c.assertCommitment(api); err != nil {
		return err
	}
	api.AssertIsEqual(c.Value, c.Bound)
	return nil
}

// NotEqualsCircuit proves Value != Bound.
type NotEqualsCircuit struct {
	circuit
	Bound frontend.Variable `gnark:",public"`
}

func (c *NotEqualsCircuit) Define(api frontend.API) error {
	if err := c.assertCommitment(api); err != nil {
		return err
	}
	diff := api.Sub(c.Value, c.Bound)
	api.AssertIsDifferent(diff, 0)
	return nil
}

// LessThanCircuit proves Value < Bound.
type LessThanCircuit struct {
	circuit
	Bound frontend.Variable `gnark:",public"`
}

func (c *LessThanCircuit) Define(api frontend.API) error {
	if err := c.assertCommitment(api); err != nil {
		return err
	}
	api.AssertIsLessOrEqual(api.Add(c.Value, 1), c.Bound)
	return nil
}

// GreaterThanCircuit proves Value > Bound.
type GreaterThanCircuit struct {
	circuit
	Bound frontend.Variable `gnark:",public"`
}

func (c *GreaterThanCircuit) Define(api frontend.API) error {
	if err := c.assertCommitment(api); err != nil {
		return err
	}
	api.AssertIsLessOrEqual(api.Add(c.Bound, 1), c.Value)
	return nil
}

// InRangeCircuit proves Low <= Value <= High.
type InRangeCircuit struct {
	circuit
	Low  frontend.Variable `gnark:",public"`
	High frontend.Variable `gnark:",public"`
}

func (c *InRangeCircuit) Define(api frontend.API) error {
	if err := c.assertCommitment(api); err != nil {
		return err
	}
	api.AssertIsLessOrEqual(c.Low, c.Value)
	api.AssertIsLessOrEqual(c.Value, c.High)
	return nil
}

// newCircuit returns the zero-valued frontend.Circuit for compilation,
// matching t.
func newCircuit(t Type) frontend.Circuit {
	switch t {
	case Equals:
		return &EqualsCircuit{}
	case NotEquals:
		return &NotEqualsCircuit{}
	case LessThan:
		return &LessThanCircuit{}
	case GreaterThan:
		return &GreaterThanCircuit{}
	case InRange:
		return &InRangeCircuit{}
	default:
		return nil
	}
}
