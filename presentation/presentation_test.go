package presentation

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/rdf-proofs/rdfproofs-go/bbs"
	"github.com/rdf-proofs/rdfproofs-go/blind"
	"github.com/rdf-proofs/rdfproofs-go/deanon"
	"github.com/rdf-proofs/rdfproofs-go/encode"
	"github.com/rdf-proofs/rdfproofs-go/internal/common"
	"github.com/rdf-proofs/rdfproofs-go/keygraph"
	"github.com/rdf-proofs/rdfproofs-go/rdf"
	"github.com/rdf-proofs/rdfproofs-go/vocab"
	"github.com/stretchr/testify/require"
)

const testVM = "did:example:issuer0#bls12_381-g2-pub001"

func docFor(name string) rdf.Dataset {
	subject := rdf.IRI("https://example.org/people/" + name)
	return rdf.Dataset{
		{Subject: subject, Predicate: rdf.IRI(vocab.RDFType), Object: rdf.IRI("https://example.org/Person")},
		{Subject: subject, Predicate: rdf.IRI("https://example.org/name"), Object: rdf.Literal(name, "")},
		{Subject: subject, Predicate: rdf.IRI("https://example.org/age"), Object: rdf.Literal("30", vocab.XSDString)},
	}
}

func proofConfigFor(vm string) rdf.Dataset {
	node := rdf.Blank("proofcfg")
	return rdf.Dataset{
		{Subject: node, Predicate: rdf.IRI(vocab.RDFType), Object: rdf.IRI(vocab.DataIntegrityProof)},
		{Subject: node, Predicate: rdf.IRI(vocab.CryptosuiteProperty), Object: rdf.Literal(common.CryptosuiteSign, "")},
		{Subject: node, Predicate: rdf.IRI(vocab.CreatedProperty), Object: rdf.Literal("2024-01-01T00:00:00Z", vocab.XSDDateTime)},
		{Subject: node, Predicate: rdf.IRI(vocab.VerificationMethod), Object: rdf.IRI(vm)},
	}
}

// unboundCredential signs doc/proof as an ordinary (non-blind) BBS+
// credential and returns the CredentialPair a holder would build a
// presentation from, disclosing only the triples disclose picks out.
func unboundCredential(t *testing.T, canon *rdf.Canonicalizer, keys *keygraph.Graph, vm string, doc, proof rdf.Dataset, disclose func(rdf.Dataset) rdf.Dataset) CredentialPair {
	t.Helper()

	messages, err := encode.Encode(canon, doc, proof, encode.SecretSlotUnbound())
	require.NoError(t, err)

	kp, err := bbs.GenerateKeyPair(len(messages), rand.Reader)
	require.NoError(t, err)
	keys.Add(vm, keygraph.Entry{PublicKey: kp.PublicKey, PrivateKey: kp.PrivateKey})

	sig, err := bbs.Sign(rand.Reader, kp.PrivateKey, kp.PublicKey, messages, nil)
	require.NoError(t, err)

	return CredentialPair{
		PublicKey:          kp.PublicKey,
		Signature:          sig,
		Doc:                doc,
		Proof:              proof,
		Disclosed:          disclose(doc),
		Bound:              false,
		VerificationMethod: vm,
	}
}

// boundCredential blind-issues doc/proof with secretScalar occupying
// message slot 0, the analogue of unboundCredential for a credential bound
// to a holder secret.
func boundCredential(t *testing.T, canon *rdf.Canonicalizer, keys *keygraph.Graph, vm string, secretScalar *big.Int, doc, proof rdf.Dataset, disclose func(rdf.Dataset) rdf.Dataset) CredentialPair {
	t.Helper()

	messages, err := encode.Encode(canon, doc, proof, secretScalar)
	require.NoError(t, err)

	kp, err := bbs.GenerateKeyPair(len(messages), rand.Reader)
	require.NoError(t, err)
	keys.Add(vm, keygraph.Entry{PublicKey: kp.PublicKey, PrivateKey: kp.PrivateKey})

	session, err := blind.NewRequest(rand.Reader, secretScalar, []byte(common.BlindSigRequestContext), nil)
	require.NoError(t, err)
	require.NoError(t, blind.VerifyRequest(session.Request, []byte(common.BlindSigRequestContext), nil))

	uncommitted := make(map[int]*big.Int, len(messages)-1)
	for i := 1; i < len(messages); i++ {
		uncommitted[i] = messages[i]
	}
	blinded, err := blind.Issue(rand.Reader, kp.PrivateKey, kp.PublicKey, session.Request, uncommitted, nil)
	require.NoError(t, err)
	sig := blind.Unblind(blinded, session)

	return CredentialPair{
		PublicKey:          kp.PublicKey,
		Signature:          sig,
		Doc:                doc,
		Proof:              proof,
		Disclosed:          disclose(doc),
		Bound:              true,
		VerificationMethod: vm,
	}
}

func discloseAll(d rdf.Dataset) rdf.Dataset { return d.Clone() }

func TestBuildAndVerifySingleCredential(t *testing.T) {
	canon := rdf.NewCanonicalizer()
	keys := keygraph.New()

	doc := docFor("alice")
	proof := proofConfigFor(testVM)

	disclose := func(d rdf.Dataset) rdf.Dataset {
		return rdf.Dataset{d[0], d[1]} // type + name, hide age
	}
	pair := unboundCredential(t, canon, keys, testVM, doc, proof, disclose)

	builder := NewBuilder()
	pres, err := builder.Build(rand.Reader, BuildRequest{
		Credentials:   []CredentialPair{pair},
		Keys:          keys,
		Challenge:     "chal-1",
		Domain:        "verifier.example",
		Canonicalizer: canon,
	})
	require.NoError(t, err)
	require.Len(t, pres.Credentials, 1)

	verifier := NewVerifier()
	err = verifier.Verify(pres, VerifyRequest{
		Keys:        keys,
		Credentials: []VerifyCredentialRequest{{Bound: false}},
		Challenge:   "chal-1",
		Domain:      "verifier.example",
	})
	require.NoError(t, err)
}

func TestVerifyFailsOnTamperedDisclosure(t *testing.T) {
	canon := rdf.NewCanonicalizer()
	keys := keygraph.New()

	doc := docFor("bob")
	proof := proofConfigFor(testVM)
	disclose := func(d rdf.Dataset) rdf.Dataset { return rdf.Dataset{d[0], d[1]} }
	pair := unboundCredential(t, canon, keys, testVM, doc, proof, disclose)

	builder := NewBuilder()
	pres, err := builder.Build(rand.Reader, BuildRequest{
		Credentials:   []CredentialPair{pair},
		Keys:          keys,
		Challenge:     "chal-1",
		Canonicalizer: canon,
	})
	require.NoError(t, err)

	// A verifier is shown a different name than the one the proof was built over.
	pres.Credentials[0].Disclosed[1].Object = rdf.Literal("Eve", "")

	verifier := NewVerifier()
	err = verifier.Verify(pres, VerifyRequest{
		Keys:        keys,
		Credentials: []VerifyCredentialRequest{{Bound: false}},
		Challenge:   "chal-1",
	})
	require.Error(t, err)
}

func TestVerifyFailsOnChallengeMismatch(t *testing.T) {
	canon := rdf.NewCanonicalizer()
	keys := keygraph.New()

	doc := docFor("carol")
	proof := proofConfigFor(testVM)
	pair := unboundCredential(t, canon, keys, testVM, doc, proof, discloseAll)

	builder := NewBuilder()
	pres, err := builder.Build(rand.Reader, BuildRequest{
		Credentials:   []CredentialPair{pair},
		Keys:          keys,
		Challenge:     "expected",
		Canonicalizer: canon,
	})
	require.NoError(t, err)

	verifier := NewVerifier()
	err = verifier.Verify(pres, VerifyRequest{
		Keys:        keys,
		Credentials: []VerifyCredentialRequest{{Bound: false}},
		Challenge:   "wrong",
	})
	require.ErrorIs(t, err, common.ErrMismatchedChallenge)
}

func TestBuildAndVerifyWithPPID(t *testing.T) {
	canon := rdf.NewCanonicalizer()
	keys := keygraph.New()

	secret := []byte("holder-secret-material")
	secretScalar, err := encode.HashSecret(secret)
	require.NoError(t, err)

	doc := docFor("dave")
	proof := proofConfigFor(testVM)
	pair := boundCredential(t, canon, keys, testVM, secretScalar, doc, proof, discloseAll)

	builder := NewBuilder()
	pres, err := builder.Build(rand.Reader, BuildRequest{
		Credentials:   []CredentialPair{pair},
		Keys:          keys,
		Secret:        secret,
		PPIDDomain:    "relying-party.example",
		Challenge:     "chal-ppid",
		Canonicalizer: canon,
	})
	require.NoError(t, err)

	verifier := NewVerifier()
	require.NoError(t, verifier.Verify(pres, VerifyRequest{
		Keys:        keys,
		Credentials: []VerifyCredentialRequest{{Bound: true}},
		Challenge:   "chal-ppid",
		PPIDDomain:  "relying-party.example",
	}))
}

func TestVerifyFailsWhenRequestOmitsChallengePresentInVP(t *testing.T) {
	canon := rdf.NewCanonicalizer()
	keys := keygraph.New()

	doc := docFor("grace")
	proof := proofConfigFor(testVM)
	pair := unboundCredential(t, canon, keys, testVM, doc, proof, discloseAll)

	builder := NewBuilder()
	pres, err := builder.Build(rand.Reader, BuildRequest{
		Credentials:   []CredentialPair{pair},
		Keys:          keys,
		Challenge:     "c",
		Domain:        "d",
		Canonicalizer: canon,
	})
	require.NoError(t, err)

	verifier := NewVerifier()
	// The VP carries a challenge, but the verifier doesn't ask for one.
	err = verifier.Verify(pres, VerifyRequest{
		Keys:        keys,
		Credentials: []VerifyCredentialRequest{{Bound: false}},
		Domain:      "d",
	})
	require.ErrorIs(t, err, common.ErrMissingChallengeInRequest)
}

func TestPPIDStableAcrossIndependentPresentations(t *testing.T) {
	canon := rdf.NewCanonicalizer()
	keys := keygraph.New()

	secret := []byte("stable-holder-secret-2")
	secretScalar, err := encode.HashSecret(secret)
	require.NoError(t, err)

	build := func(name, challenge string) *Presentation {
		doc := docFor(name)
		proof := proofConfigFor(testVM)
		pair := boundCredential(t, canon, keys, testVM, secretScalar, doc, proof, discloseAll)

		builder := NewBuilder()
		pres, err := builder.Build(rand.Reader, BuildRequest{
			Credentials:   []CredentialPair{pair},
			Keys:          keys,
			Secret:        secret,
			PPIDDomain:    "relying-party.example",
			Challenge:     challenge,
			Canonicalizer: canon,
		})
		require.NoError(t, err)
		return pres
	}

	holderIRI := func(p *Presentation) string {
		for _, tr := range p.Dataset.WithPredicate(rdf.IRI(vocab.HolderProperty)) {
			return tr.Object.Value
		}
		return ""
	}

	pres1 := build("heidi", "chal-1")
	pres2 := build("heidi-again", "chal-2")

	id1, id2 := holderIRI(pres1), holderIRI(pres2)
	require.NotEmpty(t, id1)
	require.Equal(t, id1, id2)
}

func TestPPIDDiffersAcrossDomains(t *testing.T) {
	canon := rdf.NewCanonicalizer()
	keys := keygraph.New()

	secret := []byte("stable-holder-secret")
	secretScalar, err := encode.HashSecret(secret)
	require.NoError(t, err)

	buildWithDomain := func(domain string) *Presentation {
		doc := docFor("frank")
		proof := proofConfigFor(testVM)
		pair := boundCredential(t, canon, keys, testVM, secretScalar, doc, proof, discloseAll)

		builder := NewBuilder()
		pres, err := builder.Build(rand.Reader, BuildRequest{
			Credentials:   []CredentialPair{pair},
			Keys:          keys,
			Secret:        secret,
			PPIDDomain:    domain,
			Challenge:     "chal-ppid-domains",
			Canonicalizer: canon,
		})
		require.NoError(t, err)
		return pres
	}

	presA := buildWithDomain("relying-party-a.example")
	presB := buildWithDomain("relying-party-b.example")

	holderIRI := func(p *Presentation) string {
		for _, tr := range p.Dataset.WithPredicate(rdf.IRI(vocab.HolderProperty)) {
			return tr.Object.Value
		}
		return ""
	}

	idA, idB := holderIRI(presA), holderIRI(presB)
	require.NotEmpty(t, idA)
	require.NotEmpty(t, idB)
	require.NotEqual(t, idA, idB)

	verifier := NewVerifier()
	require.NoError(t, verifier.Verify(presA, VerifyRequest{
		Keys:        keys,
		Credentials: []VerifyCredentialRequest{{Bound: true}},
		Challenge:   "chal-ppid-domains",
		PPIDDomain:  "relying-party-a.example",
	}))
	// The same presentation checked against a different PPID domain must
	// not verify: its holder IRI is not a pseudonym derived under that base.
	require.Error(t, verifier.Verify(presA, VerifyRequest{
		Keys:        keys,
		Credentials: []VerifyCredentialRequest{{Bound: true}},
		Challenge:   "chal-ppid-domains",
		PPIDDomain:  "relying-party-b.example",
	}))
}

func TestBuildAndVerifyTermEqualityAcrossCredentials(t *testing.T) {
	canon := rdf.NewCanonicalizer()
	keys := keygraph.New()

	// Both credentials' subjects are blank nodes standing for the same
	// real-world identifier, asserted equal via deanonMap.
	shared := rdf.Blank("person")
	doc1 := rdf.Dataset{
		{Subject: shared, Predicate: rdf.IRI(vocab.RDFType), Object: rdf.IRI("https://example.org/Person")},
		{Subject: shared, Predicate: rdf.IRI("https://example.org/employer"), Object: rdf.IRI("https://example.org/acme")},
	}
	proof1 := proofConfigFor(testVM)

	doc2 := rdf.Dataset{
		{Subject: shared, Predicate: rdf.IRI("https://example.org/licensedIn"), Object: rdf.Literal("CA", "")},
	}
	vm2 := "did:example:issuer1#bls12_381-g2-pub001"
	proof2 := proofConfigFor(vm2)

	discloseNone := func(rdf.Dataset) rdf.Dataset { return rdf.Dataset{} }
	pair1 := unboundCredential(t, canon, keys, testVM, doc1, proof1, discloseNone)
	pair2 := unboundCredential(t, canon, keys, vm2, doc2, proof2, discloseNone)

	deanonMap := deanon.Map{
		shared.String(): rdf.IRI("https://example.org/people/shared-identifier"),
	}

	builder := NewBuilder()
	pres, err := builder.Build(rand.Reader, BuildRequest{
		Credentials:   []CredentialPair{pair1, pair2},
		Keys:          keys,
		DeanonMap:     deanonMap,
		Challenge:     "chal-eq",
		Canonicalizer: canon,
	})
	require.NoError(t, err)

	verifier := NewVerifier()
	require.NoError(t, verifier.Verify(pres, VerifyRequest{
		Keys: keys,
		Credentials: []VerifyCredentialRequest{
			{Bound: false},
			{Bound: false},
		},
		Challenge: "chal-eq",
	}))
}

func TestBuildAndVerifySecretCommitment(t *testing.T) {
	canon := rdf.NewCanonicalizer()
	keys := keygraph.New()

	secret := []byte("another-holder-secret")
	secretScalar, err := encode.HashSecret(secret)
	require.NoError(t, err)

	doc := docFor("erin")
	proof := proofConfigFor(testVM)
	pair := boundCredential(t, canon, keys, testVM, secretScalar, doc, proof, discloseAll)

	builder := NewBuilder()
	pres, err := builder.Build(rand.Reader, BuildRequest{
		Credentials:      []CredentialPair{pair},
		Keys:             keys,
		Secret:           secret,
		SecretCommitment: true,
		Challenge:        "chal-sc",
		Canonicalizer:    canon,
	})
	require.NoError(t, err)

	verifier := NewVerifier()
	require.NoError(t, verifier.Verify(pres, VerifyRequest{
		Keys:             keys,
		Credentials:      []VerifyCredentialRequest{{Bound: true}},
		Challenge:        "chal-sc",
		SecretCommitment: true,
	}))
}
