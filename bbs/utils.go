package bbs

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Error constants
var (
	ErrMismatchedLengths = errors.New("mismatch between points and scalars length")
	ErrScalarConversion  = errors.New("failed to convert scalar to field element")
)

// MessageToFieldElement converts a byte array to a field element using plain
// SHA-256. It is retained for callers that sign raw byte-string attributes
// rather than RDF terms; HashToScalar is the DST-aware primitive used by the
// RDF term encoder.
func MessageToFieldElement(message []byte) *big.Int {
	h := sha256.Sum256(message)
	elem := new(big.Int).SetBytes(h[:])
	return elem.Mod(elem, Order)
}

// MessageToBytes converts a message string to a suitable byte representation.
func MessageToBytes(message string) []byte {
	return []byte(message)
}

// HashToScalar hashes msg to a scalar field element using the domain
// separation tag dst via gnark-crypto's hash-to-field (IETF hash-to-curve
// draft's expand_message_xmd construction), reduced into Fr. It is the
// primitive underlying TermHasher and the blind-signature secret encoding.
func HashToScalar(msg []byte, dst []byte) (*big.Int, error) {
	elements, err := fr.Hash(msg, dst, 1)
	if err != nil {
		return nil, fmt.Errorf("hash to scalar: %w", err)
	}
	if len(elements) != 1 {
		return nil, ErrScalarConversion
	}
	var scalar big.Int
	elements[0].BigInt(&scalar)
	return &scalar, nil
}

// RandomScalar generates a random scalar modulo the order of the curve.
func RandomScalar(rng io.Reader) (*big.Int, error) {
	return ConstantTimeRandom(rng, Order)
}

// ConstantTimeRandom generates a random value in [0, max-1] with constant-time operations.
func ConstantTimeRandom(rng io.Reader, max *big.Int) (*big.Int, error) {
	byteLen := (max.BitLen() + 7) / 8

	bits := max.BitLen() % 8
	mask := byte(0xFF)
	if bits > 0 {
		mask = byte((1 << bits) - 1)
	}

	b := make([]byte, byteLen)
	result := new(big.Int)

	for {
		if _, err := rng.Read(b); err != nil {
			return nil, fmt.Errorf("failed to generate random bytes: %w", err)
		}

		if len(b) > 0 {
			b[0] &= mask
		}

		result.SetBytes(b)

		if result.Cmp(max) < 0 {
			break
		}
	}

	return result, nil
}

// ConstantTimeModInverse computes the modular inverse of a in n in constant time
// using Fermat's little theorem (n must be prime).
func ConstantTimeModInverse(a, n *big.Int) *big.Int {
	e := new(big.Int).Sub(n, big.NewInt(2))
	return new(big.Int).Exp(a, e, n)
}

// g1JacToAffine converts a G1 Jacobian point to affine.
func g1JacToAffine(p bls12381.G1Jac) bls12381.G1Affine {
	result := bls12381.G1Affine{}
	result.FromJacobian(&p)
	return result
}

// g2JacToAffine converts a G2 Jacobian point to affine.
func g2JacToAffine(p bls12381.G2Jac) bls12381.G2Affine {
	result := bls12381.G2Affine{}
	result.FromJacobian(&p)
	return result
}

// CalculateDomain computes the BBS+ domain value from a public key and an
// optional header. Unrelated to the verifier-supplied "domain" string of the
// presentation layer (package presentation); kept unexported in spirit by
// convention even though Go requires it exported for cross-package signing use.
func CalculateDomain(publicKey *PublicKey, header []byte) *big.Int {
	var buff []byte

	msgCount := make([]byte, 4)
	msgCount[0] = byte(publicKey.MessageCount >> 24)
	msgCount[1] = byte(publicKey.MessageCount >> 16)
	msgCount[2] = byte(publicKey.MessageCount >> 8)
	msgCount[3] = byte(publicKey.MessageCount)
	buff = append(buff, msgCount...)

	buff = append(buff, publicKey.H[0].Marshal()...)
	buff = append(buff, publicKey.H[1].Marshal()...)
	for i := 2; i < len(publicKey.H); i++ {
		buff = append(buff, publicKey.H[i].Marshal()...)
	}

	buff = append(buff, publicKey.W.Marshal()...)
	buff = append(buff, publicKey.G1.Marshal()...)
	buff = append(buff, publicKey.G2.Marshal()...)

	if header != nil {
		buff = append(buff, header...)
	}

	h := sha256.New()
	h.Write(buff)
	digest := h.Sum(nil)

	domain := new(big.Int).SetBytes(digest)
	return domain.Mod(domain, Order)
}

// AreG1PointsEqual checks if two slices of G1Affine points are equal.
func AreG1PointsEqual(a, b []bls12381.G1Affine) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if !a[i].Equal(&b[i]) {
			return false
		}
	}
	return true
}

// ComputeProofChallenge computes the Fiat-Shamir challenge for a BBS+ proof of
// knowledge. context carries any external binding (e.g. the composite-proof
// context bytes a higher layer wants the PoK bound to); it may be nil.
func ComputeProofChallenge(
	APrime bls12381.G1Affine,
	ABar bls12381.G1Affine,
	D bls12381.G1Affine,
	disclosedIndices []int,
	disclosedMessages map[int]*big.Int,
	context []byte,
) *big.Int {
	var buff []byte

	buff = append(buff, APrime.Marshal()...)
	buff = append(buff, ABar.Marshal()...)
	buff = append(buff, D.Marshal()...)

	sortedIndices := make([]int, len(disclosedIndices))
	copy(sortedIndices, disclosedIndices)
	sort.Ints(sortedIndices)

	for _, idx := range sortedIndices {
		idxBytes := make([]byte, 4)
		idxBytes[0] = byte(idx >> 24)
		idxBytes[1] = byte(idx >> 16)
		idxBytes[2] = byte(idx >> 8)
		idxBytes[3] = byte(idx)
		buff = append(buff, idxBytes...)

		msgBytes := disclosedMessages[idx].Bytes()

		lenBytes := make([]byte, 4)
		lenBytes[0] = byte(len(msgBytes) >> 24)
		lenBytes[1] = byte(len(msgBytes) >> 16)
		lenBytes[2] = byte(len(msgBytes) >> 8)
		lenBytes[3] = byte(len(msgBytes))

		buff = append(buff, lenBytes...)
		buff = append(buff, msgBytes...)
	}

	if len(context) > 0 {
		buff = append(buff, context...)
	}

	h := sha256.New()
	h.Write(buff)
	digest := h.Sum(nil)

	challenge := new(big.Int).SetBytes(digest)
	return challenge.Mod(challenge, Order)
}

// MultiScalarMulG1 implements multi-scalar multiplication for G1 points.
func MultiScalarMulG1(points []bls12381.G1Affine, scalars []*big.Int) (bls12381.G1Jac, error) {
	if len(points) != len(scalars) {
		return bls12381.G1Jac{}, fmt.Errorf("mismatch between points and scalars length")
	}

	result := bls12381.G1Jac{}
	result.X.SetOne()
	result.Y.SetOne()
	result.Z.SetZero()

	for i := range points {
		if scalars[i].Sign() == 0 || points[i].IsInfinity() {
			continue
		}

		var tmp bls12381.G1Jac
		tmp.FromAffine(&points[i])
		tmp.ScalarMultiplication(&tmp, scalars[i])

		result.AddAssign(&tmp)
	}

	return result, nil
}
