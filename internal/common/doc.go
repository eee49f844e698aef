// Package common provides shared functionality and constants used throughout
// the rdfproofs-go library.
//
// This package includes:
// - The error taxonomy shared by every exported package
// - Shared cryptographic constants (curve order, domain-separation tags)
//
// This is an internal package not intended for direct use by applications.
// It supports the implementation of the public packages.
package common

import (
	"errors"
)

// Cryptographic errors.
var (
	// ErrInvalidSignature indicates a BBS+ signature verification failure.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidProof indicates a zero-knowledge proof verification failure.
	ErrInvalidProof = errors.New("invalid proof")

	// ErrInvalidPublicKey indicates an invalid or malformed public key.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidParameter indicates an invalid function parameter.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrMismatchedLengths indicates mismatched lengths in inputs.
	ErrMismatchedLengths = errors.New("mismatched lengths")

	// ErrHashToField indicates a term could not be hashed to a scalar.
	ErrHashToField = errors.New("hash to field failed")

	// ErrMessageSizeOverflow indicates a message count overflowed its wire representation.
	ErrMessageSizeOverflow = errors.New("message size overflow")

	// ErrProofVerify indicates a NIZK proof of knowledge failed to verify: a
	// blind-sign request's proof, or a composite or verifiable-encryption proof
	// whose challenge or linked responses do not check out.
	ErrProofVerify = errors.New("proof of knowledge verification failed")

	// ErrLegoGroth16 indicates an R1CS predicate proof failed to verify.
	ErrLegoGroth16 = errors.New("predicate proof verification failed")
)

// Input-validation errors.
var (
	// ErrInvalidProofConfiguration indicates a proof-config graph missing its
	// DataIntegrityProof type or cryptosuite identifier, or carrying the wrong one.
	ErrInvalidProofConfiguration = errors.New("invalid proof configuration")

	// ErrInvalidProofDatetime indicates a proof-config `created` value that does
	// not parse as xsd:dateTime.
	ErrInvalidProofDatetime = errors.New("invalid proof datetime")

	// ErrInvalidVerificationMethodURL indicates a verification-method value that
	// is not a resolvable IRI. Key material of the wrong type is reported as
	// ErrInvalidPublicKey instead.
	ErrInvalidVerificationMethodURL = errors.New("invalid verification method URL")

	// ErrMalformedProof indicates a proof-config graph missing its proofValue
	// triple or carrying a non-literal proofValue.
	ErrMalformedProof = errors.New("malformed proof")

	// ErrInvalidDeanonMap indicates a deanonymization map entry could not be applied.
	ErrInvalidDeanonMap = errors.New("invalid deanonymization map")

	// ErrMissingVCType indicates a document graph has no VerifiableCredential subject.
	ErrMissingVCType = errors.New("missing VerifiableCredential type")

	// ErrInvalidPredicateGraph indicates a predicate graph does not follow the
	// zkp-ld circuit/private/public vocabulary.
	ErrInvalidPredicateGraph = errors.New("invalid predicate graph")

	// ErrHiddenLiteralRole indicates a placeholder resolved to a literal in a
	// subject or predicate position.
	ErrHiddenLiteralRole = errors.New("hidden literal used in invalid term role")
)

// Protocol-coherence errors.
var (
	// ErrMissingChallengeInVP indicates the verifier supplied a nonce/challenge
	// but the VP carries none.
	ErrMissingChallengeInVP = errors.New("missing challenge in verifiable presentation")

	// ErrMissingChallengeInRequest indicates the VP carries a challenge but the
	// verifier supplied none.
	ErrMissingChallengeInRequest = errors.New("missing challenge in verification request")

	// ErrMismatchedChallenge indicates the supplied and embedded challenges differ.
	ErrMismatchedChallenge = errors.New("mismatched challenge")

	// ErrMissingDomainInVP mirrors ErrMissingChallengeInVP for the domain field.
	ErrMissingDomainInVP = errors.New("missing domain in verifiable presentation")

	// ErrMissingDomainInRequest mirrors ErrMissingChallengeInRequest for the domain field.
	ErrMissingDomainInRequest = errors.New("missing domain in verification request")

	// ErrMismatchedDomain mirrors ErrMismatchedChallenge for the domain field.
	ErrMismatchedDomain = errors.New("mismatched domain")

	// ErrMissingSecret indicates an operation required the holder secret but none
	// was supplied.
	ErrMissingSecret = errors.New("missing holder secret")

	// ErrMissingOpenerPublicKey indicates verifiable encryption was requested
	// without an opener public key.
	ErrMissingOpenerPublicKey = errors.New("missing opener public key")

	// ErrMissingPredicateCircuit indicates a predicate graph references a circuit
	// identifier the verifier has no verifying key for.
	ErrMissingPredicateCircuit = errors.New("missing predicate circuit")

	// ErrUnsupportedCryptosuite indicates a proof-config cryptosuite identifier
	// this library does not implement.
	ErrUnsupportedCryptosuite = errors.New("unsupported cryptosuite")
)

// Structural errors.
var (
	// ErrDisclosedVCIsNotSubsetOfOriginalVC indicates a disclosed triple has no
	// predecessor in the original credential (after deanonymization).
	ErrDisclosedVCIsNotSubsetOfOriginalVC = errors.New("disclosed VC is not a subset of original VC")

	// ErrBlankNodeCollision indicates two credentials' canonical blank-node
	// labels overlap after randomization.
	ErrBlankNodeCollision = errors.New("blank node collision")

	// ErrInvalidVP indicates the verifiable presentation dataset is structurally
	// malformed (missing VP subject, missing proof graph, etc).
	ErrInvalidVP = errors.New("invalid verifiable presentation")
)

// Unsupported-feature errors.
var (
	// ErrRDFStarUnsupported indicates an RDF-star (quoted-triple) term was
	// encountered; the gate exists but the feature is not implemented.
	ErrRDFStarUnsupported = errors.New("RDF-star is not supported")
)
