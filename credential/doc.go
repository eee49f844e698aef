/*
Package credential implements the issuer-facing Sign/Verify operations of a
BBS+ termwise Data Integrity proof suite over RDF graphs.

A credential is a pair of graphs: a document graph (the subject matter — a
verifiable credential's claims) and a proof-config graph (a DataIntegrityProof
node naming its cryptosuite, verification method, and creation time). Signing
canonicalizes the pair jointly, encodes it to a scalar vector (package
encode), signs that vector (package bbs), and appends the signature to the
proof-config graph as a proofValue triple. Verification recomputes the same
vector from everything except the proofValue triple and checks the signature
against it — so a signature covers both the claims and the metadata describing
how it was produced.

Usage:

    keys := keygraph.New()
    keys.Add(vm, keygraph.Entry{PublicKey: pk, PrivateKey: sk})
    canon := rdf.NewCanonicalizer()

    signedProof, err := credential.Sign(rand.Reader, canon, doc, proofConfig, keys)
    err = credential.Verify(canon, doc, signedProof, keys)
*/
package credential
