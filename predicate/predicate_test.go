package predicate

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLessThanPredicateRoundTrip(t *testing.T) {
	compiled, err := Compile(LessThan)
	require.NoError(t, err)

	value := big.NewInt(25)
	blinding := big.NewInt(99)
	commitment, err := CommitmentHash(value, blinding)
	require.NoError(t, err)

	assignment := Assignment{
		Value:          value,
		Blinding:       blinding,
		CommitmentHash: commitment,
		Bound:          big.NewInt(65),
	}

	proof, err := Prove(compiled, assignment)
	require.NoError(t, err)
	require.NoError(t, Verify(compiled, proof))
}

func TestInRangePredicateRoundTrip(t *testing.T) {
	compiled, err := Compile(InRange)
	require.NoError(t, err)

	value := big.NewInt(42)
	blinding := big.NewInt(7)
	commitment, err := CommitmentHash(value, blinding)
	require.NoError(t, err)

	assignment := Assignment{
		Value:          value,
		Blinding:       blinding,
		CommitmentHash: commitment,
		Low:            big.NewInt(18),
		High:           big.NewInt(65),
	}

	proof, err := Prove(compiled, assignment)
	require.NoError(t, err)
	require.NoError(t, Verify(compiled, proof))
}

func TestLessThanPredicateRejectsOutOfBoundValue(t *testing.T) {
	compiled, err := Compile(LessThan)
	require.NoError(t, err)

	// value (80) does not satisfy value < bound (65): proving against an
	// unsatisfied witness must fail rather than silently succeed.
	value := big.NewInt(80)
	blinding := big.NewInt(99)
	commitment, err := CommitmentHash(value, blinding)
	require.NoError(t, err)

	assignment := Assignment{
		Value:          value,
		Blinding:       blinding,
		CommitmentHash: commitment,
		Bound:          big.NewInt(65),
	}

	_, err = Prove(compiled, assignment)
	require.Error(t, err)
}

func TestLessThanPredicateRejectsFlippedPublicBound(t *testing.T) {
	compiled, err := Compile(LessThan)
	require.NoError(t, err)

	value := big.NewInt(25)
	blinding := big.NewInt(99)
	commitment, err := CommitmentHash(value, blinding)
	require.NoError(t, err)

	proof, err := Prove(compiled, Assignment{
		Value:          value,
		Blinding:       blinding,
		CommitmentHash: commitment,
		Bound:          big.NewInt(65),
	})
	require.NoError(t, err)

	// A verifier asserting a different public bound than the one proved
	// against must reject, even though the underlying Groth16 proof is
	// otherwise well-formed.
	proof.Public.Bound = big.NewInt(20)
	require.Error(t, Verify(compiled, proof))
}

func TestCircuitForResolvesKnownIdentifiers(t *testing.T) {
	typ, err := CircuitFor("circuit:lessThan")
	require.NoError(t, err)
	require.Equal(t, LessThan, typ)

	_, err = CircuitFor("circuit:unknown")
	require.Error(t, err)
}
