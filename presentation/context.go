package presentation

import "github.com/rdf-proofs/rdfproofs-go/rdf"

// buildContext derives the Fiat-Shamir context bytes binding a composite
// proof to this particular presentation: the scaffold graph (before any
// proof-derived triples — secret commitment, encrypted uid, proofValue —
// are appended to it) plus every disclosed credential's content in a fixed
// order, plus the challenge and domain strings a verifier independently
// recomputes and compares against.
//
// Build calls this before those proof-derived triples exist. Verify calls it
// against the received Presentation after stripping the same triples back
// out, so both sides hash the identical byte string.
func buildContext(vp rdf.Dataset, credentials []DisclosedCredential, challenge, domain string) []byte {
	buf := []byte(vp.NQuads())
	for _, c := range credentials {
		buf = append(buf, []byte(c.Disclosed.NQuads())...)
		buf = append(buf, []byte(c.DisclosedProof.NQuads())...)
		buf = append(buf, []byte(c.VerificationMethod)...)
	}
	buf = append(buf, []byte(challenge)...)
	buf = append(buf, []byte(domain)...)
	return buf
}
