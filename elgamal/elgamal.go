// Package elgamal implements verifiable ElGamal encryption of a holder's
// secret scalar under an opener's public key, with a zero-knowledge proof
// that the encrypted value is the same scalar a BBS+ proof of knowledge
// elsewhere in the same presentation commits to.
//
// Encryption is exponential: the ciphertext carries H^secret (a curve point),
// not secret itself. An opener who holds a registry mapping known holders'
// H^secret values to identities can deanonymize a presentation by decrypting
// and looking the point up; nobody can invert H^secret back to secret
// without first guessing it, which is what makes this "verifiable encryption
// for revocation/de-anonymization" rather than ordinary public-key
// encryption.
package elgamal

import (
	"crypto/rand"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
)

// PrivateKey is an opener's decryption key.
type PrivateKey struct {
	X *big.Int
}

// PublicKey is an opener's encryption key, G1^X under the fixed base Base().
type PublicKey struct {
	Point bls12381.G1Affine
}

// Base returns the fixed G1 base every opener key and every ciphertext's
// first component is defined against.
func Base() bls12381.G1Affine {
	_, _, g1, _ := bls12381.Generators()
	return g1
}

// SecretBase returns the fixed G1 base the encrypted holder secret is
// committed under — the same H_1 generator the blind-issuance Pedersen
// commitment uses. PPID derivation uses a per-domain base instead (package
// presentation's ppidBaseFor).
func SecretBase() bls12381.G1Affine {
	return bbs.Params(3)[2]
}

// GenerateKeyPair creates a new opener key pair.
func GenerateKeyPair(rng io.Reader) (*PrivateKey, *PublicKey, error) {
	if rng == nil {
		rng = rand.Reader
	}
	x, err := bbs.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	point, err := scalarMulBase(Base(), x)
	if err != nil {
		return nil, nil, err
	}
	return &PrivateKey{X: x}, &PublicKey{Point: point}, nil
}

// Ciphertext is an ElGamal ciphertext over SecretBase()^secret.
type Ciphertext struct {
	C1 bls12381.G1Affine // Base()^k
	C2 bls12381.G1Affine // pk^k * SecretBase()^secret
}

// Proof is a zero-knowledge proof that a Ciphertext was formed correctly: it
// proves knowledge of (k, secret) such that C1 = Base()^k and
// C2 = pk^k * SecretBase()^secret, without revealing either.
type Proof struct {
	T1, T2   bls12381.G1Affine
	KHat     *big.Int
	SecHat   *big.Int
}

// Encrypt encrypts secretScalar under pk, returning the ciphertext and a
// proof of its correct construction. context binds the proof to the
// presentation it is embedded in.
func Encrypt(rng io.Reader, pk *PublicKey, secretScalar *big.Int, context []byte) (*Ciphertext, *Proof, error) {
	if rng == nil {
		rng = rand.Reader
	}

	k, err := bbs.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}

	c1, err := scalarMulBase(Base(), k)
	if err != nil {
		return nil, nil, err
	}

	pkK, err := scalarMulBase(pk.Point, k)
	if err != nil {
		return nil, nil, err
	}
	secretTerm, err := scalarMulBase(SecretBase(), secretScalar)
	if err != nil {
		return nil, nil, err
	}
	c2, err := addPoints(pkK, secretTerm)
	if err != nil {
		return nil, nil, err
	}

	kBlind, err := bbs.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	secBlind, err := bbs.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}

	t1, err := scalarMulBase(Base(), kBlind)
	if err != nil {
		return nil, nil, err
	}
	pkKBlind, err := scalarMulBase(pk.Point, kBlind)
	if err != nil {
		return nil, nil, err
	}
	secBlindTerm, err := scalarMulBase(SecretBase(), secBlind)
	if err != nil {
		return nil, nil, err
	}
	t2, err := addPoints(pkKBlind, secBlindTerm)
	if err != nil {
		return nil, nil, err
	}

	c := challenge(c1, c2, t1, t2, context)

	kHat := new(big.Int).Mul(k, c)
	kHat.Add(kHat, kBlind)
	kHat.Mod(kHat, bbs.Order)

	secHat := new(big.Int).Mul(secretScalar, c)
	secHat.Add(secHat, secBlind)
	secHat.Mod(secHat, bbs.Order)

	return &Ciphertext{C1: c1, C2: c2}, &Proof{T1: t1, T2: t2, KHat: kHat, SecHat: secHat}, nil
}

// Commitment is the first-move state of a verifiable-encryption proof before
// a joint challenge has been fixed, for composing this statement alongside
// others (package compose) that commit to the same secret scalar.
type Commitment struct {
	Ciphertext Ciphertext
	T1, T2     bls12381.G1Affine

	k, secret *big.Int
	kBlind    *big.Int
	secBlind  *big.Int
}

// CommitEncryption runs the commit phase of Encrypt, using secBlind as the
// blinding factor for secretScalar instead of a freshly sampled one. Pass
// the same secBlind used by a sibling statement over the same secret (e.g.
// bbs.ProofCommitment.MessageBlind for the credential's slot-0 message) so
// that, once Finalize is called with a shared challenge, this statement's
// response to the secret term equals that sibling's.
func CommitEncryption(rng io.Reader, pk *PublicKey, secretScalar, secBlind *big.Int) (*Commitment, error) {
	if rng == nil {
		rng = rand.Reader
	}

	k, err := bbs.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	c1, err := scalarMulBase(Base(), k)
	if err != nil {
		return nil, err
	}
	pkK, err := scalarMulBase(pk.Point, k)
	if err != nil {
		return nil, err
	}
	secretTerm, err := scalarMulBase(SecretBase(), secretScalar)
	if err != nil {
		return nil, err
	}
	c2, err := addPoints(pkK, secretTerm)
	if err != nil {
		return nil, err
	}

	kBlind, err := bbs.RandomScalar(rng)
	if err != nil {
		return nil, err
	}

	t1, err := scalarMulBase(Base(), kBlind)
	if err != nil {
		return nil, err
	}
	pkKBlind, err := scalarMulBase(pk.Point, kBlind)
	if err != nil {
		return nil, err
	}
	secBlindTerm, err := scalarMulBase(SecretBase(), secBlind)
	if err != nil {
		return nil, err
	}
	t2, err := addPoints(pkKBlind, secBlindTerm)
	if err != nil {
		return nil, err
	}

	return &Commitment{
		Ciphertext: Ciphertext{C1: c1, C2: c2},
		T1:         t1,
		T2:         t2,
		k:          k,
		secret:     secretScalar,
		kBlind:     kBlind,
		secBlind:   secBlind,
	}, nil
}

// Finalize computes the responses for challenge.
func (cm *Commitment) Finalize(challenge *big.Int) *Proof {
	kHat := new(big.Int).Mul(cm.k, challenge)
	kHat.Add(kHat, cm.kBlind)
	kHat.Mod(kHat, bbs.Order)

	secHat := new(big.Int).Mul(cm.secret, challenge)
	secHat.Add(secHat, cm.secBlind)
	secHat.Mod(secHat, bbs.Order)

	return &Proof{T1: cm.T1, T2: cm.T2, KHat: kHat, SecHat: secHat}
}

// Verify checks that proof attests to ciphertext's correct construction
// under pk, without learning the plaintext.
func Verify(pk *PublicKey, ciphertext *Ciphertext, proof *Proof, context []byte) error {
	c := challenge(ciphertext.C1, ciphertext.C2, proof.T1, proof.T2, context)
	return VerifyWithChallenge(pk, ciphertext, proof, c)
}

// VerifyWithChallenge checks proof against an externally supplied challenge
// instead of recomputing one from ciphertext and a self-contained context.
// Package compose uses this once it has independently verified that c is
// the correctly-derived joint challenge for an entire presentation.
func VerifyWithChallenge(pk *PublicKey, ciphertext *Ciphertext, proof *Proof, c *big.Int) error {
	lhs1, err := scalarMulBase(Base(), proof.KHat)
	if err != nil {
		return common.ErrProofVerify
	}
	rhs1, err := combine(proof.T1, ciphertext.C1, c)
	if err != nil {
		return common.ErrProofVerify
	}
	if !bbs.AreG1PointsEqual([]bls12381.G1Affine{lhs1}, []bls12381.G1Affine{rhs1}) {
		return common.ErrProofVerify
	}

	pkKHat, err := scalarMulBase(pk.Point, proof.KHat)
	if err != nil {
		return common.ErrProofVerify
	}
	secHatTerm, err := scalarMulBase(SecretBase(), proof.SecHat)
	if err != nil {
		return common.ErrProofVerify
	}
	lhs2, err := addPoints(pkKHat, secHatTerm)
	if err != nil {
		return common.ErrProofVerify
	}
	rhs2, err := combine(proof.T2, ciphertext.C2, c)
	if err != nil {
		return common.ErrProofVerify
	}
	if !bbs.AreG1PointsEqual([]bls12381.G1Affine{lhs2}, []bls12381.G1Affine{rhs2}) {
		return common.ErrProofVerify
	}

	return nil
}

// Decrypt recovers SecretBase()^secret (a curve point, not the scalar
// itself) from ciphertext under sk.
func Decrypt(sk *PrivateKey, ciphertext *Ciphertext) (bls12381.G1Affine, error) {
	c1X, err := scalarMulBase(ciphertext.C1, sk.X)
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var negC1X bls12381.G1Affine
	negC1X.Neg(&c1X)
	return addPoints(ciphertext.C2, negC1X)
}

func scalarMulBase(base bls12381.G1Affine, scalar *big.Int) (bls12381.G1Affine, error) {
	jac, err := bbs.MultiScalarMulG1([]bls12381.G1Affine{base}, []*big.Int{scalar})
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out, nil
}

func addPoints(a, b bls12381.G1Affine) (bls12381.G1Affine, error) {
	jac, err := bbs.MultiScalarMulG1([]bls12381.G1Affine{a, b}, []*big.Int{big.NewInt(1), big.NewInt(1)})
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out, nil
}

func combine(t, c bls12381.G1Affine, challenge *big.Int) (bls12381.G1Affine, error) {
	jac, err := bbs.MultiScalarMulG1([]bls12381.G1Affine{t, c}, []*big.Int{big.NewInt(1), challenge})
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out, nil
}

func challenge(c1, c2, t1, t2 bls12381.G1Affine, context []byte) *big.Int {
	var buf []byte
	buf = append(buf, c1.Marshal()...)
	buf = append(buf, c2.Marshal()...)
	buf = append(buf, t1.Marshal()...)
	buf = append(buf, t2.Marshal()...)
	buf = append(buf, context...)
	scalar, err := bbs.HashToScalar(buf, []byte(common.MapToScalarAsHashDST))
	if err != nil {
		return big.NewInt(0)
	}
	return scalar
}
