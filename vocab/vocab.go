// Package vocab collects the IRI and cryptosuite string constants shared
// across the credential, presentation and predicate packages, so that a
// literal IRI is spelled in exactly one place.
package vocab

const (
	RDFType  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFFirst = "http://www.w3.org/1999/02/22-rdf-syntax-ns#first"
	RDFRest  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#rest"
	RDFNil   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil"

	XSDDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
	XSDInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	XSDString   = "http://www.w3.org/2001/XMLSchema#string"

	SecurityContext       = "https://w3id.org/security#"
	DataIntegrityProof    = SecurityContext + "DataIntegrityProof"
	ProofProperty         = SecurityContext + "proof"
	ProofPurposeProperty  = SecurityContext + "proofPurpose"
	VerificationMethod    = SecurityContext + "verificationMethod"
	CreatedProperty       = SecurityContext + "created"
	CryptosuiteProperty   = SecurityContext + "cryptosuite"
	ProofValueProperty    = SecurityContext + "proofValue"
	AssertionMethodPurpose = SecurityContext + "assertionMethodPurpose"

	ZKPLDContext  = "https://zkp-ld.org/context#"
	PredicateType = ZKPLDContext + "Predicate"
	CircuitProp   = ZKPLDContext + "circuit"
	PrivateProp   = ZKPLDContext + "private"
	PublicProp    = ZKPLDContext + "public"

	VerifiableCredentialType   = "https://www.w3.org/2018/credentials#VerifiableCredential"
	VerifiablePresentationType = "https://www.w3.org/2018/credentials#VerifiablePresentation"
	CredentialSubjectProperty  = "https://www.w3.org/2018/credentials#credentialSubject"
	IssuerProperty             = "https://www.w3.org/2018/credentials#issuer"
	HolderProperty             = "https://www.w3.org/2018/credentials#holder"
	ExpirationDateProperty     = "https://www.w3.org/2018/credentials#expirationDate"

	// AuthenticationMethodPurpose is the proofPurpose a presentation's own
	// proof configuration carries, as opposed to a credential's
	// assertionMethod purpose.
	AuthenticationMethodPurpose = SecurityContext + "authenticationMethod"

	// ChallengeProperty and DomainProperty carry a presentation request's
	// nonce and RP-scoping values into the proof-config graph.
	ChallengeProperty = SecurityContext + "challenge"
	DomainProperty    = SecurityContext + "domain"

	// EncryptedUidProperty carries a presentation's verifiable-ElGamal
	// ciphertext of the holder secret, multibase-encoded.
	EncryptedUidProperty = ZKPLDContext + "encryptedUid"

	// SecretCommitmentProperty carries a presentation's fresh Pedersen
	// commitment to the holder secret, multibase-encoded.
	SecretCommitmentProperty = ZKPLDContext + "secretCommitment"

	// PPIDVarProp and PPIDValProp frame a predicate graph's private/public
	// variable bindings (zkp-ld:var the message position, zkp-ld:val its bound).
	PPIDVarProp = ZKPLDContext + "var"
	PPIDValProp = ZKPLDContext + "val"

	PrivateVariableType = ZKPLDContext + "PrivateVariable"
	PublicVariableType  = ZKPLDContext + "PublicVariable"
)

// The 5 supported predicate circuit identifiers,
// bound into a predicate graph's zkp-ld:circuit property.
const (
	CircuitEquals      = "circuit:equals"
	CircuitNotEquals   = "circuit:notEquals"
	CircuitLessThan    = "circuit:lessThan"
	CircuitGreaterThan = "circuit:greaterThan"
	CircuitInRange     = "circuit:inRange"
)
