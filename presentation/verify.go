package presentation

import (
	"fmt"
	"math/big"

	"github.com/multiformats/go-multibase"
	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/compose"
	"github.com/rdf-proofs/rdfproofs-go/encode"
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
	"github.com/rdf-proofs/rdfproofs-go/rdf"
	"github.com/rdf-proofs/rdfproofs-go/vocab"
)

// Verifier checks built Presentations.
type Verifier struct{}

// NewVerifier constructs a Verifier.
func NewVerifier() *Verifier { return &Verifier{} }

// Verify checks p against req: that the proof configuration matches the
// expected challenge and domain, that every disclosed triple's message hash
// matches what the composite proof actually attests to, that each
// credential's BBS+ proof of knowledge verifies under its resolved issuer
// key, and that every requested meta-statement (PPID, secret commitment,
// encryption, predicates, term equality) checks out.
func (v *Verifier) Verify(p *Presentation, req VerifyRequest) error {
	if len(req.Credentials) != len(p.Credentials) {
		return common.ErrInvalidVP
	}

	proofConfigSubject, err := findProofConfig(p.Dataset)
	if err != nil {
		return err
	}
	if err := checkProofPurposeAndSuite(p.Dataset, proofConfigSubject); err != nil {
		return err
	}
	if err := checkChallengeAndDomain(p.Dataset, proofConfigSubject, req.Challenge, req.Domain); err != nil {
		return err
	}

	_, payload, err := multibase.Decode(p.ProofValue)
	if err != nil {
		return fmt.Errorf("presentation: decode proofValue: %w", err)
	}
	proofBytes, indexMaps, equalityGroups, err := unmarshalEnvelope(payload)
	if err != nil {
		return err
	}
	if len(indexMaps) != len(p.Credentials) {
		return common.ErrInvalidVP
	}

	proof, err := compose.Unmarshal(proofBytes)
	if err != nil {
		return fmt.Errorf("presentation: unmarshal proof: %w", err)
	}
	if len(proof.Credentials) != len(p.Credentials) || len(proof.DisclosedMessages) != len(p.Credentials) {
		return common.ErrInvalidVP
	}

	verifyCredentials := make([]compose.VerifyCredentialInput, len(p.Credentials))
	for i, dc := range p.Credentials {
		entry, err := req.Keys.Resolve(dc.VerificationMethod)
		if err != nil {
			return err
		}
		messageCount := encode.MessageCount(indexMaps[i].DocumentLen, indexMaps[i].ProofLen)
		pk := bbs.PublicKeyForMessageCount(entry.PublicKey, messageCount)
		verifyCredentials[i] = compose.VerifyCredentialInput{
			PublicKey: pk,
			Header:    req.Credentials[i].Header,
			Bound:     req.Credentials[i].Bound,
		}

		if err := checkDisclosedMessages(dc, indexMaps[i], proof.DisclosedMessages[i]); err != nil {
			return fmt.Errorf("presentation: credential %d: %w", i, err)
		}
	}

	var ppidSpec *compose.VerifyPPIDInput
	if req.PPIDDomain != "" {
		base, err := ppidBaseFor(req.PPIDDomain)
		if err != nil {
			return err
		}
		ppidSpec = &compose.VerifyPPIDInput{Base: base}
		if err := checkPPIDHolder(p.Dataset, proof, req.PPIDDomain); err != nil {
			return err
		}
	}

	var encSpec *compose.VerifyEncryptionInput
	if req.OpenerPublicKey != nil {
		encSpec = &compose.VerifyEncryptionInput{OpenerPublicKey: req.OpenerPublicKey}
	}

	var predicateSpecs []compose.VerifyPredicateInput
	for _, c := range req.Predicates {
		predicateSpecs = append(predicateSpecs, compose.VerifyPredicateInput{Compiled: c})
	}

	spec := compose.VerifySpec{
		Credentials:      verifyCredentials,
		PPID:             ppidSpec,
		SecretCommitment: req.SecretCommitment,
		Encryption:       encSpec,
		Predicates:       predicateSpecs,
		EqualityGroups:   equalityGroups,
	}

	stripped := stripProofDerivedTriples(p.Dataset)
	context := buildContext(stripped, p.Credentials, req.Challenge, req.Domain)

	return compose.Verify(spec, proof, context)
}

// stripProofDerivedTriples removes the triples Build appends to the
// scaffold graph only after the composite proof exists (secret commitment,
// encrypted uid, proofValue), recovering the graph the Fiat-Shamir context
// was computed over at build time.
func stripProofDerivedTriples(d rdf.Dataset) rdf.Dataset {
	derived := map[string]bool{
		vocab.SecretCommitmentProperty: true,
		vocab.EncryptedUidProperty:     true,
		vocab.ProofValueProperty:       true,
	}
	var out rdf.Dataset
	for _, t := range d {
		if t.Predicate.Kind == rdf.KindIRI && derived[t.Predicate.Value] {
			continue
		}
		out = append(out, t)
	}
	return out
}

// findProofConfig locates the single proof-configuration subject the
// scaffold graph's top-level proof edge points to.
func findProofConfig(d rdf.Dataset) (rdf.Term, error) {
	for _, t := range d.WithPredicate(rdf.IRI(vocab.ProofProperty)) {
		if t.Subject.Kind == rdf.KindBlankNode || t.Subject.Kind == rdf.KindIRI {
			return t.Object, nil
		}
	}
	return rdf.Term{}, common.ErrInvalidProofConfiguration
}

func checkProofPurposeAndSuite(d rdf.Dataset, proofConfig rdf.Term) error {
	cryptosuite := literalValue(d, proofConfig, vocab.CryptosuiteProperty)
	if cryptosuite != common.CryptosuiteProof {
		return common.ErrUnsupportedCryptosuite
	}
	purpose := literalValue(d, proofConfig, vocab.ProofPurposeProperty)
	if purpose != vocab.AuthenticationMethodPurpose {
		return common.ErrInvalidProofConfiguration
	}
	return nil
}

func checkChallengeAndDomain(d rdf.Dataset, proofConfig rdf.Term, wantChallenge, wantDomain string) error {
	got := literalValue(d, proofConfig, vocab.ChallengeProperty)
	switch {
	case wantChallenge == "" && got != "":
		return common.ErrMissingChallengeInRequest
	case wantChallenge != "" && got == "":
		return common.ErrMissingChallengeInVP
	case wantChallenge != "" && got != wantChallenge:
		return common.ErrMismatchedChallenge
	}

	gotDomain := literalValue(d, proofConfig, vocab.DomainProperty)
	switch {
	case wantDomain == "" && gotDomain != "":
		return common.ErrMissingDomainInRequest
	case wantDomain != "" && gotDomain == "":
		return common.ErrMissingDomainInVP
	case wantDomain != "" && gotDomain != wantDomain:
		return common.ErrMismatchedDomain
	}
	return nil
}

func literalValue(d rdf.Dataset, subject rdf.Term, predicate string) string {
	for _, t := range d.WithSubject(subject) {
		if t.Predicate == rdf.IRI(predicate) {
			return t.Object.Value
		}
	}
	return ""
}

// checkPPIDHolder confirms the presentation's declared holder IRI carries
// the same PPID value the composite proof attests to, so a verifier cannot
// be shown one pseudonym in cleartext while the proof backs a different one.
func checkPPIDHolder(d rdf.Dataset, proof *compose.CompositeProof, domain string) error {
	if proof.PPID == nil {
		return common.ErrMissingDomainInVP
	}
	for _, t := range d.WithPredicate(rdf.IRI(vocab.HolderProperty)) {
		if t.Object.Kind != rdf.KindIRI {
			continue
		}
		enc, err := multibase.Encode(multibase.Base64url, proof.PPID.Marshal())
		if err != nil {
			return err
		}
		if t.Object.Value == common.PPIDPrefix+enc {
			return nil
		}
	}
	return common.ErrInvalidVP
}

// checkDisclosedMessages recomputes the term hash of every disclosed triple
// in dc and confirms it matches the value the composite proof claims sits at
// that message-vector index. This is what binds the cleartext disclosed
// graph to the zero-knowledge proof: bbs.VerifyProofPairing only checks that
// DisclosedMessages is internally consistent with the proof's algebra, not
// that it reflects what the verifier can actually read.
func checkDisclosedMessages(dc DisclosedCredential, im StatementIndexMap, disclosed map[int]*big.Int) error {
	if len(im.DocumentMap) != len(dc.Disclosed) || len(im.ProofMap) != len(dc.DisclosedProof) {
		return common.ErrDisclosedVCIsNotSubsetOfOriginalVC
	}

	hasher := encode.TermHasher{}
	for i, t := range dc.Disclosed {
		s, p, o := encode.DocTripleIndices(im.DocumentMap[i])
		if err := checkTermTriple(hasher, t, disclosed, s, p, o); err != nil {
			return err
		}
	}
	for i, t := range dc.DisclosedProof {
		s, p, o := encode.ProofTripleIndices(im.DocumentLen, im.ProofMap[i])
		if err := checkTermTriple(hasher, t, disclosed, s, p, o); err != nil {
			return err
		}
	}
	return nil
}

func checkTermTriple(hasher encode.TermHasher, t rdf.Triple, disclosed map[int]*big.Int, s, p, o int) error {
	for _, pair := range []struct {
		term rdf.Term
		idx  int
	}{{t.Subject, s}, {t.Predicate, p}, {t.Object, o}} {
		want, err := hasher.Hash(pair.term)
		if err != nil {
			return err
		}
		got, ok := disclosed[pair.idx]
		if !ok {
			return fmt.Errorf("message %d: %w", pair.idx, common.ErrInvalidVP)
		}
		if got.Cmp(want) != 0 {
			return fmt.Errorf("message %d: disclosed term does not match proof: %w", pair.idx, common.ErrInvalidVP)
		}
	}
	return nil
}
