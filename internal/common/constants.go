package common

import (
	"math/big"
)

// Order is the scalar field order of the BLS12-381 curve (the order of the
// r-order subgroups of G1 and G2).
var Order, _ = new(big.Int).SetString(
	"52435875175126190479447740508185965837690552500527637822603658699938581184513", 10)

// Domain-separation tags, vocabulary strings and protocol constants fixed by
// the wire format. These must be used verbatim by any implementation that
// interoperates with this one.
const (
	// MapToScalarAsHashDST is the domain-separation tag used when hashing an
	// RDF term's canonical lexical form to a scalar field element.
	MapToScalarAsHashDST = "MAP_TO_SCALAR_AS_HASH_DST"

	// Delimiter is hashed (with MapToScalarAsHashDST) to produce the scalar
	// that separates document terms from proof-config terms in an encoded
	// message vector.
	Delimiter = "DELIMITER"

	// BlindSigRequestContext is the fixed context bytes bound into the NIZK
	// proof-of-knowledge attached to a blind-signature request.
	BlindSigRequestContext = "BLIND_SIG_REQUEST_CONTEXT"

	// CryptosuiteSign is the cryptosuite identifier for a plain (unbound) signature.
	CryptosuiteSign = "bbs-termwise-signature-2023"

	// CryptosuiteBoundSign is the cryptosuite identifier for a signature bound
	// to a holder secret via blind issuance.
	CryptosuiteBoundSign = "bbs-termwise-bound-signature-2023"

	// CryptosuiteProof is the cryptosuite identifier for a derived presentation proof.
	CryptosuiteProof = "bbs-termwise-proof-2023"

	// PPIDPrefix is prepended to the multibase-encoded PPID value to form the
	// holder-identifier IRI of a pseudonymous presentation.
	PPIDPrefix = "urn:ppid:"
)
