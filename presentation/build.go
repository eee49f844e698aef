package presentation

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sort"
	"time"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/google/uuid"
	"github.com/multiformats/go-multibase"
	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/blind"
	"github.com/rdf-proofs/rdfproofs-go/compose"
	"github.com/rdf-proofs/rdfproofs-go/deanon"
	"github.com/rdf-proofs/rdfproofs-go/encode"
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
	"github.com/rdf-proofs/rdfproofs-go/predicate"
	"github.com/rdf-proofs/rdfproofs-go/rdf"
	"github.com/rdf-proofs/rdfproofs-go/vocab"
)

// ppidDomainDST separates PPID base-point derivation from every other
// hash-to-curve use in this module (package bbs's generator derivation in
// particular), so a domain string can never be crafted to collide with a
// generator seed.
const ppidDomainDST = "RDFPROOFS_PPID_BASE_DST"

// Builder assembles BuildRequests into Presentations.
type Builder struct{}

// NewBuilder constructs a Builder.
func NewBuilder() *Builder { return &Builder{} }

// credentialWork is the per-credential state the build pipeline accumulates:
// the canonicalized graphs, the encoded message vector, and the index
// bookkeeping needed to produce both a StatementIndexMap and the
// compose.CredentialInput this credential contributes.
type credentialWork struct {
	pair           CredentialPair
	sortedDoc      rdf.Dataset
	sortedProof    rdf.Dataset
	canonRelabel   map[string]string // original blank label -> credential-canonical label
	disclosedDoc   rdf.Dataset
	disclosedProof rdf.Dataset
	messages       []*big.Int
	docIndices     []int // message-vector indices disclosed from the document
	proofIndices   []int
	docTripleIdx   []int // triple index (into sortedDoc) of each disclosed doc triple
	proofTripleIdx []int
}

// Build runs the presentation assembly algorithm: verify every original
// credential, derive the optional PPID and encryption statements, translate
// the holder's deanonymization map into each credential's canonical blank
// labels, compute each credential's StatementIndexMap, build the composite
// proof, and assemble the resulting Presentation.
func (b *Builder) Build(rng io.Reader, req BuildRequest) (*Presentation, error) {
	if rng == nil {
		rng = rand.Reader
	}
	canon := req.Canonicalizer
	if canon == nil {
		canon = rdf.NewCanonicalizer()
	}

	var secretScalar *big.Int
	if len(req.Secret) > 0 {
		var err error
		secretScalar, err = encode.HashSecret(req.Secret)
		if err != nil {
			return nil, err
		}
	}

	deanonMap := req.DeanonMap
	if deanonMap == nil {
		deanonMap = deanon.Map{}
	}

	procs := make([]credentialWork, len(req.Credentials))

	for i, pair := range req.Credentials {
		secretSlot := encode.SecretSlotUnbound()
		if pair.Bound {
			if secretScalar == nil {
				return nil, common.ErrMissingSecret
			}
			secretSlot = secretScalar
			uncommitted, err := encode.Encode(canon, pair.Doc, pair.Proof, secretSlot)
			if err != nil {
				return nil, err
			}
			if err := blind.Verify(pair.PublicKey, pair.Signature, secretScalar, uncommitted[1:], pair.Header); err != nil {
				return nil, fmt.Errorf("presentation: credential %d: %w", i, err)
			}
		}

		messages, err := encode.Encode(canon, pair.Doc, pair.Proof, secretSlot)
		if err != nil {
			return nil, err
		}
		if !pair.Bound {
			if err := bbs.Verify(pair.PublicKey, pair.Signature, messages, pair.Header); err != nil {
				return nil, fmt.Errorf("presentation: credential %d: %w", i, common.ErrInvalidSignature)
			}
		}

		sortedDoc, sortedProof, relabel, err := encode.CanonicalOrder(canon, pair.Doc, pair.Proof)
		if err != nil {
			return nil, err
		}

		disclosed := rdf.ApplyRelabeling(pair.Disclosed, relabel)
		disclosedProofSrc := pair.DisclosedProof
		if disclosedProofSrc == nil {
			disclosedProofSrc = pair.Proof
		}
		disclosedProof := rdf.ApplyRelabeling(disclosedProofSrc, relabel)

		docTripleIdx, docMsgIdx := matchDisclosed(sortedDoc, disclosed, func(i int) (s, p, o int) {
			return encode.DocTripleIndices(i)
		})
		proofTripleIdx, proofMsgIdx := matchDisclosed(sortedProof, disclosedProof, func(i int) (s, p, o int) {
			return encode.ProofTripleIndices(len(sortedDoc), i)
		})

		procs[i] = credentialWork{
			pair:           pair,
			sortedDoc:      sortedDoc,
			sortedProof:    sortedProof,
			canonRelabel:   relabel,
			disclosedDoc:   disclosed,
			disclosedProof: disclosedProof,
			messages:       messages,
			docIndices:     docMsgIdx,
			proofIndices:   proofMsgIdx,
			docTripleIdx:   docTripleIdx,
			proofTripleIdx: proofTripleIdx,
		}
	}

	// Derive PPID if requested.
	var ppidSpec *compose.PPIDInput
	var ppidHolderIRI string
	if req.PPIDDomain != "" {
		if secretScalar == nil {
			return nil, common.ErrMissingSecret
		}
		base, err := ppidBaseFor(req.PPIDDomain)
		if err != nil {
			return nil, err
		}
		ppidSpec = &compose.PPIDInput{Base: base}
		ppidValue, err := scalarMulG1Point(base, secretScalar)
		if err != nil {
			return nil, err
		}
		enc, err := multibase.Encode(multibase.Base64url, ppidValue.Marshal())
		if err != nil {
			return nil, err
		}
		ppidHolderIRI = common.PPIDPrefix + enc
	}

	var encSpec *compose.EncryptionInput
	if req.OpenerPublicKey != nil {
		if secretScalar == nil {
			return nil, common.ErrMissingSecret
		}
		encSpec = &compose.EncryptionInput{OpenerPublicKey: req.OpenerPublicKey}
	}

	var scSpec *compose.SecretCommitmentInput
	if req.SecretCommitment {
		if secretScalar == nil {
			return nil, common.ErrMissingSecret
		}
		scSpec = &compose.SecretCommitmentInput{}
	}

	// Assemble the VP scaffold graph (no credential content lives here).
	vpSubject := rdf.Blank(uuid.NewString())
	proofConfigSubject := rdf.Blank(uuid.NewString())
	var vp rdf.Dataset
	vp = append(vp, rdf.Triple{Subject: vpSubject, Predicate: rdf.IRI(vocab.RDFType), Object: rdf.IRI(vocab.VerifiablePresentationType)})
	vp = append(vp, rdf.Triple{Subject: vpSubject, Predicate: rdf.IRI(vocab.ProofProperty), Object: proofConfigSubject})

	vp = append(vp, rdf.Triple{Subject: proofConfigSubject, Predicate: rdf.IRI(vocab.RDFType), Object: rdf.IRI(vocab.DataIntegrityProof)})
	vp = append(vp, rdf.Triple{Subject: proofConfigSubject, Predicate: rdf.IRI(vocab.CryptosuiteProperty), Object: rdf.Literal(common.CryptosuiteProof, vocab.XSDString)})
	vp = append(vp, rdf.Triple{Subject: proofConfigSubject, Predicate: rdf.IRI(vocab.ProofPurposeProperty), Object: rdf.Literal(vocab.AuthenticationMethodPurpose, vocab.XSDString)})
	vp = append(vp, rdf.Triple{Subject: proofConfigSubject, Predicate: rdf.IRI(vocab.CreatedProperty), Object: rdf.Literal(time.Now().UTC().Format(time.RFC3339), vocab.XSDDateTime)})
	if req.Challenge != "" {
		vp = append(vp, rdf.Triple{Subject: proofConfigSubject, Predicate: rdf.IRI(vocab.ChallengeProperty), Object: rdf.Literal(req.Challenge, vocab.XSDString)})
	}
	if req.Domain != "" {
		vp = append(vp, rdf.Triple{Subject: proofConfigSubject, Predicate: rdf.IRI(vocab.DomainProperty), Object: rdf.Literal(req.Domain, vocab.XSDString)})
	}

	holder := rdf.Blank(uuid.NewString())
	if ppidHolderIRI != "" {
		holder = rdf.IRI(ppidHolderIRI)
	}
	vp = append(vp, rdf.Triple{Subject: vpSubject, Predicate: rdf.IRI(vocab.HolderProperty), Object: holder})

	// Compute StatementIndexMap and equality groups for each credential.
	indexMaps := make([]StatementIndexMap, len(procs))
	credentialInputs := make([]compose.CredentialInput, len(procs))
	disclosedCredentials := make([]DisclosedCredential, len(procs))
	for i, p := range procs {
		indexMaps[i] = StatementIndexMap{
			DocumentMap: p.docTripleIdx,
			DocumentLen: len(p.sortedDoc),
			ProofMap:    p.proofTripleIdx,
			ProofLen:    len(p.sortedProof),
		}
		disclosedIndices := append(append([]int{}, p.docIndices...), p.proofIndices...)
		credentialInputs[i] = compose.CredentialInput{
			PublicKey:        p.pair.PublicKey,
			Signature:        p.pair.Signature,
			Messages:         p.messages,
			DisclosedIndices: disclosedIndices,
			Header:           p.pair.Header,
			Bound:            p.pair.Bound,
		}
		disclosedCredentials[i] = DisclosedCredential{
			Disclosed:          p.disclosedDoc,
			DisclosedProof:     p.disclosedProof,
			VerificationMethod: p.pair.VerificationMethod,
		}
	}

	equalityGroups := deriveEqualityGroups(procs, deanonMap)

	var predicateInputs []compose.PredicateInput
	for _, pr := range req.Predicates {
		commitmentHash, err := predicate.CommitmentHash(pr.Value, pr.Blinding)
		if err != nil {
			return nil, err
		}
		predicateInputs = append(predicateInputs, compose.PredicateInput{
			Compiled: pr.Compiled,
			Assignment: predicate.Assignment{
				Value:          pr.Value,
				Blinding:       pr.Blinding,
				CommitmentHash: commitmentHash,
				Bound:          pr.Bound,
				Low:            pr.Low,
				High:           pr.High,
			},
		})
	}

	spec := compose.Spec{
		Credentials:      credentialInputs,
		PPID:             ppidSpec,
		SecretCommitment: scSpec,
		Encryption:       encSpec,
		Predicates:       predicateInputs,
		EqualityGroups:   equalityGroups,
	}

	context := buildContext(vp, disclosedCredentials, req.Challenge, req.Domain)

	proof, err := compose.Prove(rng, spec, secretScalar, context)
	if err != nil {
		return nil, err
	}

	if scSpec != nil && proof.SecretCommitmentPoint != nil {
		enc, err := multibase.Encode(multibase.Base64url, proof.SecretCommitmentPoint.Marshal())
		if err != nil {
			return nil, err
		}
		vp = append(vp, rdf.Triple{Subject: proofConfigSubject, Predicate: rdf.IRI(vocab.SecretCommitmentProperty), Object: rdf.Literal(enc, vocab.XSDString)})
	}
	if encSpec != nil && proof.EncryptionCiphertext != nil {
		payload := append(append([]byte{}, proof.EncryptionCiphertext.C1.Marshal()...), proof.EncryptionCiphertext.C2.Marshal()...)
		enc, err := multibase.Encode(multibase.Base64url, payload)
		if err != nil {
			return nil, err
		}
		vp = append(vp, rdf.Triple{Subject: proofConfigSubject, Predicate: rdf.IRI(vocab.EncryptedUidProperty), Object: rdf.Literal(enc, vocab.XSDString)})
	}

	proofBytes, err := compose.Marshal(proof)
	if err != nil {
		return nil, err
	}
	wrapped, err := marshalEnvelope(proofBytes, indexMaps, equalityGroups)
	if err != nil {
		return nil, err
	}
	proofValue, err := multibase.Encode(multibase.Base64url, wrapped)
	if err != nil {
		return nil, err
	}
	vp = append(vp, rdf.Triple{Subject: proofConfigSubject, Predicate: rdf.IRI(vocab.ProofValueProperty), Object: rdf.Literal(proofValue, vocab.XSDString)})

	return &Presentation{Dataset: vp, Credentials: disclosedCredentials, ProofValue: proofValue}, nil
}

// matchDisclosed finds, for each triple in disclosed (assumed a subset of
// sorted), its index within sorted, and returns both that index list and the
// message-vector indices (subject, predicate, object for each) that index
// translates to via toMessageIndices.
func matchDisclosed(sorted, disclosed rdf.Dataset, toMessageIndices func(int) (s, p, o int)) ([]int, []int) {
	pos := make(map[string]int, len(sorted))
	for i, t := range sorted {
		pos[t.String()] = i
	}
	var tripleIdx, msgIdx []int
	for _, t := range disclosed {
		i, ok := pos[t.String()]
		if !ok {
			continue
		}
		tripleIdx = append(tripleIdx, i)
		s, p, o := toMessageIndices(i)
		msgIdx = append(msgIdx, s, p, o)
	}
	return tripleIdx, msgIdx
}

// deriveEqualityGroups finds, across every hidden document term position,
// those that the holder's deanonymization map resolves to the same concrete
// term — a holder disclosing that two credentials share a hidden identifier
// or literal — and emits one compose.EqualityRef group per such class. Each
// credential's deanonMap lookups are translated through its own canonical
// relabeling first, since deanonMap is expressed in the credential's
// original blank labels but sortedDoc's terms carry canonical labels. Only
// subject and object positions are considered; a predicate carries no secret.
func deriveEqualityGroups(procs []credentialWork, deanonMap deanon.Map) [][]compose.EqualityRef {
	groups := map[string][]compose.EqualityRef{}

	for ci, p := range procs {
		local := translateDeanonMap(deanonMap, p.canonRelabel)

		hiddenSet := make(map[int]bool, len(p.docTripleIdx))
		for _, idx := range p.docTripleIdx {
			hiddenSet[idx] = true
		}
		for ti, t := range p.sortedDoc {
			if hiddenSet[ti] {
				continue
			}
			s, _, o := encode.DocTripleIndices(ti)
			for _, pos := range []struct {
				term rdf.Term
				idx  int
			}{{t.Subject, s}, {t.Object, o}} {
				if !pos.term.IsBlank() {
					continue
				}
				resolved := local.Resolve(pos.term)
				if resolved.String() == pos.term.String() {
					continue
				}
				groups[resolved.String()] = append(groups[resolved.String()], compose.EqualityRef{CredentialIndex: ci, MessageIndex: pos.idx})
			}
		}
	}

	var out [][]compose.EqualityRef
	for _, refs := range groups {
		if len(refs) >= 2 {
			out = append(out, refs)
		}
	}
	sort.Slice(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// translateDeanonMap rewrites m's keys from a credential's original blank
// labels to the canonical labels relabel assigns, so lookups against a
// canonicalized dataset (e.g. credentialWork.sortedDoc) succeed. Values pass
// through unchanged: a deanonMap value is either a ground term (IRI or
// literal) with no label to translate, or a blank node standing for another
// credential's term, resolved relative to that other credential's own
// canonical labels when its turn comes.
func translateDeanonMap(m deanon.Map, relabel map[string]string) deanon.Map {
	out := make(deanon.Map, len(m))
	for k, v := range m {
		term, err := rdf.ParseTerm(k)
		if err != nil {
			out[k] = v
			continue
		}
		if term.IsBlank() {
			if nl, ok := relabel[term.Value]; ok {
				term = rdf.Blank(nl)
			}
		}
		out[term.String()] = v
	}
	return out
}

// ppidBaseFor derives the fixed G1 base a domain string's PPID statements are
// computed against, the same hash-to-curve technique package bbs uses for
// its generators, under a distinct DST so the two derivations can never collide.
func ppidBaseFor(domain string) (bls12381.G1Affine, error) {
	point, err := bls12381.HashToG1([]byte(domain), []byte(ppidDomainDST))
	if err != nil {
		return bls12381.G1Affine{}, fmt.Errorf("presentation: derive PPID base: %w", err)
	}
	return point, nil
}

func scalarMulG1Point(base bls12381.G1Affine, scalar *big.Int) (bls12381.G1Affine, error) {
	jac, err := bbs.MultiScalarMulG1([]bls12381.G1Affine{base}, []*big.Int{scalar})
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out, nil
}
