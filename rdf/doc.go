// Package rdf provides the minimal RDF term, triple and dataset model this
// module needs: N-Triples/N-Quads parsing and serialization, and RDF Dataset
// Canonicalization (RDFC-1.0, formerly URDNA2015) via piprate/json-gold.
//
// Everything upstream of a signature or proof — the credential document, the
// proof configuration, a verifiable presentation draft — is modeled as a
// Dataset (an ordered slice of Triples). Canonicalization is what gives two
// independently-constructed graphs with different blank node labels a single
// comparable byte string, and it is also what lets a holder rename the
// issuer's blank nodes without breaking the signature: term hashing (package
// encode) only ever runs over canonical form.
package rdf
